package catalogs

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter selects vehicles. Zero-valued criteria match everything.
type Filter struct {
	Type         string  `json:"type,omitempty" yaml:"type,omitempty"`
	Destination  string  `json:"destination,omitempty" yaml:"destination,omitempty"`
	Brand        string  `json:"brand,omitempty" yaml:"brand,omitempty"` // case-insensitive substring
	MinPrice     float64 `json:"min_price,omitempty" yaml:"min_price,omitempty"`
	MaxPrice     float64 `json:"max_price,omitempty" yaml:"max_price,omitempty"`
	Fuel         string  `json:"fuel,omitempty" yaml:"fuel,omitempty"`
	Transmission string  `json:"transmission,omitempty" yaml:"transmission,omitempty"`
}

// IsZero reports whether f has no criteria.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Match reports whether v satisfies every criterion of f.
func (f Filter) Match(v Vehicle) bool {
	if f.Type != "" && !v.HasType(f.Type) {
		return false
	}
	if f.Destination != "" && v.Destination != f.Destination {
		return false
	}
	if f.Brand != "" && !strings.Contains(fold(v.Brand), fold(f.Brand)) {
		return false
	}
	if f.MinPrice != 0 && v.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice != 0 && v.Price > f.MaxPrice {
		return false
	}
	if f.Fuel != "" && v.Fuel != f.Fuel {
		return false
	}
	if f.Transmission != "" && v.Transmission != f.Transmission {
		return false
	}
	return true
}

// Apply returns the vehicles matching f, preserving order. The result is
// never nil.
func (f Filter) Apply(vehicles []Vehicle) []Vehicle {
	out := make([]Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if f.Match(v) {
			out = append(out, v)
		}
	}
	return out
}

// fold case-folds s for caseless comparison.
func fold(s string) string {
	return cases.Fold().String(s)
}
