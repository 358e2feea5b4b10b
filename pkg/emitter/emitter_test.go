package emitter_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/showroom/pkg/catalogs"
	"github.com/agentstation/showroom/pkg/emitter"
	"github.com/agentstation/showroom/pkg/errors"
)

var stamp = time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC)

func TestEmitJSONDefault(t *testing.T) {
	vehicles := catalogs.TestVehicles(t, 1, 2)

	data, err := emitter.Emit(vehicles)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "[\n    {\n        \"id\": 1,\n"), out)
	assert.True(t, strings.HasSuffix(out, "]\n"))

	var decoded []catalogs.Vehicle
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, vehicles, decoded)
}

func TestEmitEmptySet(t *testing.T) {
	for _, in := range [][]catalogs.Vehicle{nil, {}} {
		data, err := emitter.Emit(in)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(data))

		data, err = emitter.Emit(in, emitter.WithFormat(emitter.FormatJS))
		require.NoError(t, err)
		assert.Equal(t, "const vehiclesData = [];\n", string(data))
	}
}

func TestEmitDoesNotEscapeHTML(t *testing.T) {
	v := catalogs.TestVehicle(t, 7)
	v.Description = "<b>Pack</b> confort & sécurité"
	v.Image = "https://example.com/a.jpg?w=800&h=600"

	data, err := emitter.Emit([]catalogs.Vehicle{v})
	require.NoError(t, err)

	assert.Contains(t, string(data), "<b>Pack</b> confort & sécurité")
	assert.Contains(t, string(data), "?w=800&h=600")
	assert.NotContains(t, string(data), `\u003c`)
	assert.NotContains(t, string(data), `\u0026`)
}

func TestEmitPreservesOrder(t *testing.T) {
	data, err := emitter.Emit(catalogs.TestVehicles(t, 3, 1, 2))
	require.NoError(t, err)

	var decoded []catalogs.Vehicle
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []int{3, 1, 2}, catalogs.IDs(decoded))
}

func TestEmitJS(t *testing.T) {
	vehicles := catalogs.TestVehicles(t, 1)

	t.Run("plain", func(t *testing.T) {
		data, err := emitter.Emit(vehicles, emitter.WithFormat(emitter.FormatJS))
		require.NoError(t, err)

		out := string(data)
		require.True(t, strings.HasPrefix(out, "const vehiclesData = [\n"), out)
		require.True(t, strings.HasSuffix(out, "];\n"))

		body := strings.TrimSuffix(strings.TrimPrefix(out, "const vehiclesData = "), ";\n")
		var decoded []catalogs.Vehicle
		require.NoError(t, json.Unmarshal([]byte(body), &decoded))
		assert.Equal(t, vehicles, decoded)
	})

	t.Run("banner", func(t *testing.T) {
		data, err := emitter.Emit(vehicles,
			emitter.WithFormat(emitter.FormatJS),
			emitter.WithBanner(stamp),
			emitter.WithVariable("stock"),
		)
		require.NoError(t, err)

		out := string(data)
		assert.True(t, strings.HasPrefix(out, "/**\n"))
		assert.Contains(t, out, " * Generated at: 19/10/2026 10:30:00\n")
		assert.Contains(t, out, " * Vehicles: 1\n")
		assert.Contains(t, out, " */\n\nconst stock = [")
	})
}

func TestEmitJSONIgnoresBanner(t *testing.T) {
	vehicles := catalogs.TestVehicles(t, 1)

	plain, err := emitter.Emit(vehicles)
	require.NoError(t, err)
	stamped, err := emitter.Emit(vehicles, emitter.WithBanner(stamp))
	require.NoError(t, err)

	assert.Equal(t, plain, stamped)
}

func TestEmitYAML(t *testing.T) {
	vehicles := catalogs.TestVehicles(t, 4, 5)

	data, err := emitter.Emit(vehicles, emitter.WithFormat(emitter.FormatYAML), emitter.WithBanner(stamp))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# showroom vehicle dataset\n"))

	var decoded []catalogs.Vehicle
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, []int{4, 5}, catalogs.IDs(decoded))
	assert.Equal(t, vehicles[1].Model, decoded[1].Model)
	assert.Equal(t, vehicles[0].Types, decoded[0].Types)
	assert.InDelta(t, vehicles[0].Price, decoded[0].Price, 0)
}

func TestEmitTOML(t *testing.T) {
	vehicles := catalogs.TestVehicles(t, 4, 5)

	data, err := emitter.Emit(vehicles, emitter.WithFormat(emitter.FormatTOML))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "[[vehicles]]"))

	var decoded struct {
		Vehicles []catalogs.Vehicle `toml:"vehicles"`
	}
	require.NoError(t, toml.Unmarshal(data, &decoded))
	require.Len(t, decoded.Vehicles, 2)
	assert.Equal(t, []int{4, 5}, catalogs.IDs(decoded.Vehicles))
	assert.Equal(t, vehicles[0].Features, decoded.Vehicles[0].Features)
	assert.InDelta(t, vehicles[1].Mileage, decoded.Vehicles[1].Mileage, 0)
}

func TestEmitMarkdown(t *testing.T) {
	v := catalogs.TestVehicle(t, 9)
	v.Model = "Clio | RS"

	data, err := emitter.Emit([]catalogs.Vehicle{v}, emitter.WithFormat(emitter.FormatMarkdown))
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "# Vehicle catalog")
	assert.Contains(t, out, "Brand")
	assert.Contains(t, out, "RENAULT")
	assert.Contains(t, out, `Clio \| RS`)
	assert.Contains(t, out, catalogs.FormatPrice(v.Price))
	assert.Contains(t, out, "Moins de 3 ans")
	assert.Contains(t, out, "Europe")
}

func TestEmitIdempotent(t *testing.T) {
	vehicles := catalogs.TestVehicles(t, 2, 1, 3)

	for _, format := range emitter.Formats() {
		t.Run(format.String(), func(t *testing.T) {
			first, err := emitter.Emit(vehicles, emitter.WithFormat(format), emitter.WithBanner(stamp))
			require.NoError(t, err)
			second, err := emitter.Emit(vehicles, emitter.WithFormat(format), emitter.WithBanner(stamp))
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestEmitUnknownFormat(t *testing.T) {
	_, err := emitter.Emit(nil, emitter.WithFormat("xml"))
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedFormat(err))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want emitter.Format
	}{
		{"json", emitter.FormatJSON},
		{"JS", emitter.FormatJS},
		{"javascript", emitter.FormatJS},
		{"yml", emitter.FormatYAML},
		{" toml ", emitter.FormatTOML},
		{"md", emitter.FormatMarkdown},
	}
	for _, tt := range tests {
		got, err := emitter.ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := emitter.ParseFormat("csv")
	assert.True(t, errors.IsUnsupportedFormat(err))
	assert.Contains(t, err.Error(), "json, js, yaml, toml, markdown")
}

func TestFormatFromPath(t *testing.T) {
	got, err := emitter.FormatFromPath("js/data.js")
	require.NoError(t, err)
	assert.Equal(t, emitter.FormatJS, got)

	got, err = emitter.FormatFromPath("out/catalog.yml")
	require.NoError(t, err)
	assert.Equal(t, emitter.FormatYAML, got)

	_, err = emitter.FormatFromPath("Makefile")
	assert.True(t, errors.IsValidationError(err))

	assert.Equal(t, ".md", emitter.FormatMarkdown.Extension())
	assert.False(t, emitter.FormatJSON.SupportsBanner())
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "js", "data.js")

	require.NoError(t, emitter.WriteFile(path, catalogs.TestVehicles(t, 1, 2), emitter.WithFormat(emitter.FormatJS)))
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(first), `"id": 2`)

	require.NoError(t, emitter.WriteFile(path, catalogs.TestVehicles(t, 3), emitter.WithFormat(emitter.FormatJS)))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(second), `"id": 3`)
	assert.NotContains(t, string(second), `"id": 2`)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, "data.js", entries[0].Name())
}

func TestWriteFileKeepsArtifactOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	err := emitter.WriteFile(path, catalogs.TestVehicles(t, 1), emitter.WithFormat("xml"))
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}
