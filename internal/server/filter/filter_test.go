package filter

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/showroom/pkg/catalogs"
)

func TestParseVehicleFilter(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected catalogs.Filter
	}{
		{
			name:     "empty query",
			query:    "",
			expected: catalogs.Filter{},
		},
		{
			name:  "all criteria",
			query: "type=neuf&destination=export&brand=peu&min_price=10000&max_price=25000.5&fuel=Diesel&transmission=Automatique",
			expected: catalogs.Filter{
				Type:         "neuf",
				Destination:  "export",
				Brand:        "peu",
				MinPrice:     10000,
				MaxPrice:     25000.5,
				Fuel:         "Diesel",
				Transmission: "Automatique",
			},
		},
		{
			name:     "camelCase price aliases",
			query:    "minPrice=5000&maxPrice=9000",
			expected: catalogs.Filter{MinPrice: 5000, MaxPrice: 9000},
		},
		{
			name:     "snake_case wins over alias",
			query:    "min_price=100&minPrice=200",
			expected: catalogs.Filter{MinPrice: 100},
		},
		{
			name:     "invalid prices are ignored",
			query:    "min_price=cheap&max_price=NaN",
			expected: catalogs.Filter{},
		},
		{
			name:     "whitespace trimmed",
			query:    "brand=%20bmw%20",
			expected: catalogs.Filter{Brand: "bmw"},
		},
		{
			name:     "unknown params ignored",
			query:    "color=red&sort=price",
			expected: catalogs.Filter{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/vehicles?"+tt.query, nil)
			assert.Equal(t, tt.expected, ParseVehicleFilter(req))
		})
	}
}

func TestParseVehicleFilterApply(t *testing.T) {
	fleet := catalogs.TestVehicles(t, 1, 2, 3)
	req := httptest.NewRequest("GET", "/api/v1/vehicles", nil)

	got := ParseVehicleFilter(req).Apply(fleet)
	assert.Equal(t, []int{1, 2, 3}, catalogs.IDs(got))
}
