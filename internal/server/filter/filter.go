// Package filter turns API query parameters into catalog filters.
package filter

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/showroom/pkg/catalogs"
)

// ParseVehicleFilter extracts vehicle filter criteria from the request
// query. Unknown parameters are ignored. A price that does not parse as a
// finite number leaves that bound unset.
func ParseVehicleFilter(r *http.Request) catalogs.Filter {
	return FromValues(r.URL.Query())
}

// FromValues builds a filter from query values. Both snake_case and
// camelCase price keys are accepted.
func FromValues(q url.Values) catalogs.Filter {
	return catalogs.Filter{
		Type:         text(q, "type"),
		Destination:  text(q, "destination"),
		Brand:        text(q, "brand"),
		MinPrice:     price(q, "min_price", "minPrice"),
		MaxPrice:     price(q, "max_price", "maxPrice"),
		Fuel:         text(q, "fuel"),
		Transmission: text(q, "transmission"),
	}
}

func text(q url.Values, key string) string {
	return strings.TrimSpace(q.Get(key))
}

func price(q url.Values, keys ...string) float64 {
	for _, key := range keys {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	}
	return 0
}
