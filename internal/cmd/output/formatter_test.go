package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/showroom/pkg/catalogs"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"wide", FormatWide, false},
		{"", "", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat_Explicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestFormatVehicles_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatVehicles(&buf, catalogs.TestVehicles(t, 3, 4), FormatTable))

	out := buf.String()
	assert.Contains(t, out, "RENAULT Clio 3")
	assert.Contains(t, out, "RENAULT Clio 4")
	assert.Contains(t, out, "recent, occasion")
	assert.NotContains(t, strings.ToUpper(out), "TRANSMISSION")
}

func TestFormatVehicles_Wide(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatVehicles(&buf, catalogs.TestVehicles(t, 1), FormatWide))

	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "TRANSMISSION")
	assert.Contains(t, out, "Manuelle")
	assert.Contains(t, out, "km")
}

func TestFormatVehicles_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatVehicles(&buf, catalogs.TestVehicles(t, 1, 2), FormatJSON))

	var decoded []catalogs.Vehicle
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []int{1, 2}, catalogs.IDs(decoded))
}

func TestFormatVehicles_EmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatVehicles(&buf, nil, FormatJSON))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatVehicles_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatVehicles(&buf, catalogs.TestVehicles(t, 5), FormatYAML))

	var decoded []catalogs.Vehicle
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, 5, decoded[0].ID)
	assert.Equal(t, "RENAULT", decoded[0].Brand)
}

func TestVehicleToTableData(t *testing.T) {
	data := VehicleToTableData(catalogs.TestVehicle(t, 8))
	assert.Equal(t, []string{"Property", "Value"}, data.Headers)
	assert.Equal(t, []string{"ID", "8"}, data.Rows[0])
	assert.Equal(t, []string{"Brand", "RENAULT"}, data.Rows[1])
}

func TestPrice(t *testing.T) {
	assert.Equal(t, "-", Price(0))
	p := Price(12500)
	assert.True(t, strings.HasSuffix(p, "€"), p)
	assert.True(t, strings.HasPrefix(p, "12"), p)
}

func TestTableFormatter_StructFallback(t *testing.T) {
	type row struct {
		Name     string `json:"name"`
		RecordID int    `json:"record_id,omitempty"`
	}

	var buf bytes.Buffer
	f := &TableFormatter{}
	require.NoError(t, f.Format(&buf, []row{{Name: "alpha", RecordID: 1}}))

	out := strings.ToUpper(buf.String())
	assert.Contains(t, out, "RECORD ID")
	assert.Contains(t, out, "ALPHA")
}

func TestTableFormatter_NonTableFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}
	require.NoError(t, f.Format(&buf, map[string]int{"count": 2}))
	assert.JSONEq(t, `{"count":2}`, buf.String())
}
