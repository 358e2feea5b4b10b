// Package emitter serializes a vehicle set into the artifact read by the
// catalog front end.
//
// Output is deterministic: the same vehicles in the same order always yield
// the same bytes. A generation banner can be requested for the formats that
// support comments; it is the only part of the output that varies between
// runs and is never part of the data itself.
package emitter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	md "github.com/nao1215/markdown"
	"github.com/pelletier/go-toml/v2"

	"github.com/agentstation/showroom/pkg/catalogs"
	"github.com/agentstation/showroom/pkg/constants"
	"github.com/agentstation/showroom/pkg/errors"
)

// DefaultVariable is the JavaScript binding that holds the dataset.
const DefaultVariable = "vehiclesData"

type options struct {
	format   Format
	banner   time.Time
	variable string
}

// Option configures emission.
type Option func(*options)

// WithFormat selects the output format (default json).
func WithFormat(f Format) Option {
	return func(o *options) {
		if f != "" {
			o.format = f
		}
	}
}

// WithBanner adds a generation comment stamped with t. Ignored for JSON.
func WithBanner(t time.Time) Option {
	return func(o *options) {
		o.banner = t
	}
}

// WithVariable sets the JavaScript binding name used by the js format.
func WithVariable(name string) Option {
	return func(o *options) {
		if name != "" {
			o.variable = name
		}
	}
}

func newOptions(opts ...Option) *options {
	o := &options{format: FormatJSON, variable: DefaultVariable}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Emit serializes vehicles in the order given.
func Emit(vehicles []catalogs.Vehicle, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	if vehicles == nil {
		vehicles = []catalogs.Vehicle{}
	}

	switch o.format {
	case FormatJSON:
		return encodeJSON(vehicles)
	case FormatJS:
		return encodeJS(vehicles, o)
	case FormatYAML:
		return encodeYAML(vehicles, o)
	case FormatTOML:
		return encodeTOML(vehicles, o)
	case FormatMarkdown:
		return encodeMarkdown(vehicles, o)
	default:
		return nil, errors.NewFormatError("output", o.format.String(), formatNames())
	}
}

// encodeJSON writes a four-space indented array without HTML escaping, so
// URLs and descriptions stay readable in the artifact.
func encodeJSON(vehicles []catalogs.Vehicle) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(vehicles); err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	return buf.Bytes(), nil
}

func encodeJS(vehicles []catalogs.Vehicle, o *options) ([]byte, error) {
	data, err := encodeJSON(vehicles)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if !o.banner.IsZero() {
		buf.WriteString("/**\n")
		for _, line := range bannerLines(o.banner, len(vehicles)) {
			buf.WriteString(" * " + line + "\n")
		}
		buf.WriteString(" */\n\n")
	}
	fmt.Fprintf(&buf, "const %s = %s;\n", o.variable, bytes.TrimRight(data, "\n"))
	return buf.Bytes(), nil
}

func encodeYAML(vehicles []catalogs.Vehicle, o *options) ([]byte, error) {
	data, err := yaml.Marshal(vehicles)
	if err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	return withHashBanner(data, o, len(vehicles)), nil
}

func encodeTOML(vehicles []catalogs.Vehicle, o *options) ([]byte, error) {
	doc := struct {
		Vehicles []catalogs.Vehicle `toml:"vehicles"`
	}{Vehicles: vehicles}

	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, errors.WrapParse("toml", "", err)
	}
	return withHashBanner(data, o, len(vehicles)), nil
}

func encodeMarkdown(vehicles []catalogs.Vehicle, o *options) ([]byte, error) {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Vehicle catalog").LF()
	if !o.banner.IsZero() {
		doc.PlainText(md.Italic(strings.Join(bannerLines(o.banner, len(vehicles)), " · "))).LF()
	}

	rows := make([][]string, 0, len(vehicles))
	for _, v := range vehicles {
		rows = append(rows, []string{
			fmt.Sprint(v.ID),
			cell(v.Brand),
			cell(v.Model),
			fmt.Sprint(v.Year),
			catalogs.FormatPrice(v.Price),
			catalogs.FormatMileage(v.Mileage),
			cell(v.Fuel),
			cell(v.Transmission),
			cell(v.TypeBadge()),
			cell(catalogs.DestinationLabel(v.Destination)),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"ID", "Brand", "Model", "Year", "Price", "Mileage", "Fuel", "Transmission", "Type", "Destination"},
		Rows:   rows,
	})

	if err := doc.Build(); err != nil {
		return nil, errors.WrapParse("markdown", "", err)
	}
	return buf.Bytes(), nil
}

func withHashBanner(data []byte, o *options, count int) []byte {
	if o.banner.IsZero() {
		return data
	}
	var buf bytes.Buffer
	for _, line := range bannerLines(o.banner, count) {
		buf.WriteString("# " + line + "\n")
	}
	buf.WriteString("\n")
	buf.Write(data)
	return buf.Bytes()
}

func bannerLines(t time.Time, count int) []string {
	return []string{
		"showroom vehicle dataset",
		"Generated from record files, do not edit by hand",
		fmt.Sprintf("Generated at: %s", t.Format(constants.TimeFormatBanner)),
		fmt.Sprintf("Vehicles: %d", count),
	}
}

func cell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}
