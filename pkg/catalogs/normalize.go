package catalogs

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/showroom/pkg/frontmatter"
)

// Normalizer maps raw metadata onto a Vehicle. The zero value is not
// usable; create one with NewNormalizer.
type Normalizer struct {
	now func() time.Time
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithClock sets the clock used to default a missing year.
func WithClock(now func() time.Time) NormalizerOption {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize maps fields onto a Vehicle using the wall clock for the year
// default.
func Normalize(fields frontmatter.Fields) Vehicle {
	return NewNormalizer().Normalize(fields)
}

// Normalize never fails. A field that is missing, zero, empty, false, or of
// a kind that cannot be converted takes the next alias or its default.
func (n *Normalizer) Normalize(fields frontmatter.Fields) Vehicle {
	v := Vehicle{
		ID:            int(integer(fields, "id")),
		Model:         text(fields, "model"),
		Price:         numeric(fields, "price"),
		Mileage:       numeric(fields, "mileage"),
		Fuel:          text(fields, "fuel"),
		Transmission:  text(fields, "transmission"),
		Motor:         text(fields, "motor", "power"),
		ExteriorColor: text(fields, "exterior_color"),
		InteriorColor: text(fields, "interior_color"),
		Condition:     text(fields, "condition"),
		Types:         list(fields, "types"),
		Destination:   text(fields, "destination"),
		Image:         text(fields, "image"),
		Gallery:       list(fields, "gallery"),
		Description:   text(fields, "description", "desc"),
		Features:      list(fields, "features"),
	}

	// cases.Caser keeps state between calls and is not safe for concurrent use.
	v.Brand = cases.Upper(language.Und).String(text(fields, "brand"))

	if year := integer(fields, "year"); year != 0 {
		v.Year = int(year)
	} else {
		v.Year = n.now().Year()
	}
	return v
}

// numeric returns the first present numeric value among keys, or 0. Text
// that parses as a number counts. NaN and infinities count as absent.
func numeric(fields frontmatter.Fields, keys ...string) float64 {
	for _, key := range keys {
		val := fields.Get(key)
		if n, ok := val.Number(); ok && finite(n) {
			return n
		}
		if s, ok := val.Text(); ok {
			if n, ok := frontmatter.ParseNumber(strings.TrimSpace(s)); ok && finite(n) {
				return n
			}
		}
	}
	return 0
}

func finite(n float64) bool {
	return n != 0 && !math.IsNaN(n) && !math.IsInf(n, 0)
}

// integer is numeric truncated toward zero. Values outside the int64 range
// resolve to 0.
func integer(fields frontmatter.Fields, keys ...string) int64 {
	n := math.Trunc(numeric(fields, keys...))
	if n >= math.MaxInt64 || n <= math.MinInt64 {
		return 0
	}
	return int64(n)
}

// text returns the first non-empty rendering among keys, or "".
func text(fields frontmatter.Fields, keys ...string) string {
	for _, key := range keys {
		val := fields.Get(key)
		switch val.Kind() {
		case frontmatter.KindText:
			if s, _ := val.Text(); s != "" {
				return s
			}
		case frontmatter.KindNumber:
			if n, _ := val.Number(); n != 0 {
				return frontmatter.FormatNumber(n)
			}
		case frontmatter.KindBoolean:
			if b, _ := val.Bool(); b {
				return "true"
			}
		case frontmatter.KindList:
			if items, _ := val.List(); len(items) > 0 {
				return strings.Join(items, ", ")
			}
		}
	}
	return ""
}

// list returns the first present list among keys. A present scalar becomes
// a one-element list. The result is never nil.
func list(fields frontmatter.Fields, keys ...string) []string {
	for _, key := range keys {
		val := fields.Get(key)
		if items, ok := val.List(); ok {
			return items
		}
		if s := text(fields, key); s != "" {
			return []string{s}
		}
	}
	return []string{}
}
