package catalogs

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale is the display language of the catalog.
var Locale = language.French

var typeBadges = []struct {
	tag   string
	label string
}{
	{TypeNew, "Neuf"},
	{TypeRecent, "Moins de 3 ans"},
	{TypeUsed, "Occasion"},
}

var destinationLabels = map[string]string{
	DestinationExport:  "Export",
	DestinationAlgeria: "Algérie",
	DestinationEurope:  "Europe",
}

// TypeBadge returns the label of the most specific known type tag, falling
// back to the first tag or "".
func (v Vehicle) TypeBadge() string {
	for _, b := range typeBadges {
		if v.HasType(b.tag) {
			return b.label
		}
	}
	if len(v.Types) > 0 {
		return v.Types[0]
	}
	return ""
}

// DestinationLabel returns the display label of a destination tag. Unknown
// tags are returned unchanged.
func DestinationLabel(destination string) string {
	if label, ok := destinationLabels[destination]; ok {
		return label
	}
	return destination
}

// FormatPrice renders a price in euros with French digit grouping.
func FormatPrice(price float64) string {
	p := message.NewPrinter(Locale)
	return p.Sprintf("%v €", number.Decimal(price, number.MaxFractionDigits(2)))
}

// FormatMileage renders a mileage in kilometres, or "Neuf" for zero.
func FormatMileage(mileage float64) string {
	if mileage == 0 {
		return "Neuf"
	}
	p := message.NewPrinter(Locale)
	return p.Sprintf("%v km", number.Decimal(mileage, number.MaxFractionDigits(0)))
}
