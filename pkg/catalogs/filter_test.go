package catalogs_test

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/showroom/pkg/catalogs"
)

func fleet(t *testing.T) []catalogs.Vehicle {
	t.Helper()
	clio := catalogs.TestVehicle(t, 1)

	golf := catalogs.TestVehicle(t, 2)
	golf.Brand = "VOLKSWAGEN"
	golf.Price = 18000
	golf.Fuel = "Diesel"
	golf.Transmission = "Automatique"
	golf.Types = []string{catalogs.TypeUsed}
	golf.Destination = catalogs.DestinationAlgeria

	zoe := catalogs.TestVehicle(t, 3)
	zoe.Price = 25000
	zoe.Mileage = 0
	zoe.Fuel = "Électrique"
	zoe.Types = []string{catalogs.TypeNew}
	zoe.Destination = catalogs.DestinationExport

	return []catalogs.Vehicle{clio, golf, zoe}
}

func TestFilterApply(t *testing.T) {
	vehicles := fleet(t)

	tests := []struct {
		name   string
		filter catalogs.Filter
		want   []int
	}{
		{name: "empty filter", filter: catalogs.Filter{}, want: []int{1, 2, 3}},
		{name: "type", filter: catalogs.Filter{Type: catalogs.TypeUsed}, want: []int{1, 2}},
		{name: "destination", filter: catalogs.Filter{Destination: "algerie"}, want: []int{2}},
		{name: "brand substring any case", filter: catalogs.Filter{Brand: "wag"}, want: []int{2}},
		{name: "min price", filter: catalogs.Filter{MinPrice: 18000}, want: []int{2, 3}},
		{name: "max price", filter: catalogs.Filter{MaxPrice: 18000}, want: []int{1, 2}},
		{name: "price range", filter: catalogs.Filter{MinPrice: 13000, MaxPrice: 20000}, want: []int{2}},
		{name: "fuel exact", filter: catalogs.Filter{Fuel: "Diesel"}, want: []int{2}},
		{name: "fuel is case-sensitive", filter: catalogs.Filter{Fuel: "diesel"}, want: []int{}},
		{name: "transmission", filter: catalogs.Filter{Transmission: "Manuelle"}, want: []int{1, 3}},
		{name: "combined", filter: catalogs.Filter{Brand: "renault", Type: catalogs.TypeNew}, want: []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(vehicles)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, catalogs.IDs(got))
		})
	}
}

func TestFilterIsZero(t *testing.T) {
	assert.True(t, catalogs.Filter{}.IsZero())
	assert.False(t, catalogs.Filter{MaxPrice: 1}.IsZero())
}

func TestFindByID(t *testing.T) {
	vehicles := fleet(t)

	v, ok := catalogs.FindByID(vehicles, 2)
	assert.True(t, ok)
	assert.Equal(t, "VOLKSWAGEN", v.Brand)

	_, ok = catalogs.FindByID(vehicles, 99)
	assert.False(t, ok)
}

func TestVehicleClone(t *testing.T) {
	v := catalogs.TestVehicle(t, 1)
	c := v.Clone()
	c.Features[0] = "changed"
	c.Types = append(c.Types, "extra")

	assert.Equal(t, []string{"climatisation"}, v.Features)
	assert.Len(t, v.Types, 2)

	all := catalogs.CloneAll([]catalogs.Vehicle{v})
	all[0].Types[0] = "x"
	assert.Equal(t, catalogs.TypeRecent, v.Types[0])
	assert.Nil(t, catalogs.CloneAll(nil))
}

func TestVehicleTitle(t *testing.T) {
	assert.Equal(t, "RENAULT Clio", catalogs.Vehicle{Brand: "RENAULT", Model: "Clio"}.Title())
	assert.Equal(t, "RENAULT", catalogs.Vehicle{Brand: "RENAULT"}.Title())
	assert.Equal(t, "Clio", catalogs.Vehicle{Model: "Clio"}.Title())
}

func TestTypeBadge(t *testing.T) {
	tests := []struct {
		types []string
		want  string
	}{
		{types: []string{"occasion", "neuf"}, want: "Neuf"},
		{types: []string{"occasion", "recent"}, want: "Moins de 3 ans"},
		{types: []string{"occasion"}, want: "Occasion"},
		{types: []string{"collection"}, want: "collection"},
		{types: []string{}, want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, catalogs.Vehicle{Types: tt.types}.TypeBadge(), "types %v", tt.types)
	}
}

func TestDestinationLabel(t *testing.T) {
	assert.Equal(t, "Export", catalogs.DestinationLabel("export"))
	assert.Equal(t, "Algérie", catalogs.DestinationLabel("algerie"))
	assert.Equal(t, "Europe", catalogs.DestinationLabel("europe"))
	assert.Equal(t, "asie", catalogs.DestinationLabel("asie"))
}

// compact drops the locale's grouping spaces so assertions do not depend on
// which space character the CLDR data uses.
func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "5000€", compact(catalogs.FormatPrice(5000)))
	assert.Equal(t, "1250000€", compact(catalogs.FormatPrice(1250000)))
	assert.Equal(t, "12,5€", compact(catalogs.FormatPrice(12.5)))
	assert.True(t, strings.HasSuffix(catalogs.FormatPrice(5000), " €"))
}

func TestFormatMileage(t *testing.T) {
	assert.Equal(t, "Neuf", catalogs.FormatMileage(0))
	assert.Equal(t, "160000km", compact(catalogs.FormatMileage(160000)))
	assert.True(t, strings.HasSuffix(catalogs.FormatMileage(42), " km"))
}

func TestFilterBrandFoldsAccents(t *testing.T) {
	citroen := catalogs.TestVehicle(t, 9)
	citroen.Brand = "CITROËN"

	assert.True(t, catalogs.Filter{Brand: "citroën"}.Match(citroen))
	assert.True(t, catalogs.Filter{Brand: "Roë"}.Match(citroen))
	assert.False(t, catalogs.Filter{Brand: "peugeot"}.Match(citroen))
}
