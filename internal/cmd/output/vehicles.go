package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agentstation/showroom/pkg/catalogs"
)

// Prices and mileage are shown the way the catalog front end shows them.
var printer = message.NewPrinter(language.French)

// VehiclesToTableData converts vehicles to table rows. Wide adds the
// mechanical details.
func VehiclesToTableData(vehicles []catalogs.Vehicle, wide bool) Data {
	headers := []string{"ID", "Vehicle", "Year", "Price", "Types", "Destination"}
	align := []tw.Align{tw.AlignRight, tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignLeft, tw.AlignLeft}
	if wide {
		headers = append(headers, "Fuel", "Transmission", "Mileage")
		align = append(align, tw.AlignLeft, tw.AlignLeft, tw.AlignRight)
	}

	rows := make([][]string, 0, len(vehicles))
	for _, v := range vehicles {
		row := []string{
			strconv.Itoa(v.ID),
			v.Title(),
			year(v.Year),
			Price(v.Price),
			strings.Join(v.Types, ", "),
			v.Destination,
		}
		if wide {
			row = append(row, v.Fuel, v.Transmission, printer.Sprintf("%.0f km", v.Mileage))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// VehicleToTableData renders one vehicle as a property table.
func VehicleToTableData(v catalogs.Vehicle) Data {
	return Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"ID", strconv.Itoa(v.ID)},
			{"Brand", v.Brand},
			{"Model", v.Model},
			{"Year", year(v.Year)},
			{"Price", Price(v.Price)},
			{"Mileage", printer.Sprintf("%.0f km", v.Mileage)},
			{"Fuel", v.Fuel},
			{"Transmission", v.Transmission},
			{"Motor", v.Motor},
			{"Exterior", v.ExteriorColor},
			{"Interior", v.InteriorColor},
			{"Condition", v.Condition},
			{"Types", strings.Join(v.Types, ", ")},
			{"Destination", v.Destination},
			{"Image", v.Image},
			{"Features", strings.Join(v.Features, ", ")},
		},
	}
}

// Price formats an amount in euros with French digit grouping.
func Price(amount float64) string {
	if amount == 0 {
		return "-"
	}
	return printer.Sprintf("%.0f €", amount)
}

func year(y int) string {
	if y == 0 {
		return "-"
	}
	return strconv.Itoa(y)
}

// FormatVehicles writes vehicles in the given format. Table formats get
// the vehicle columns, the others get the records as-is.
func FormatVehicles(w io.Writer, vehicles []catalogs.Vehicle, format Format) error {
	if vehicles == nil {
		vehicles = []catalogs.Vehicle{}
	}

	var data any = vehicles
	switch format {
	case FormatTable, FormatWide, "":
		data = VehiclesToTableData(vehicles, format == FormatWide)
	}

	return NewFormatter(format).Format(w, data)
}
