package frontmatter_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/showroom/pkg/frontmatter"
)

func TestValueAccessors(t *testing.T) {
	n := frontmatter.NewNumber(2015)
	_, isText := n.Text()
	assert.False(t, isText)
	assert.Equal(t, "2015", n.String())
	assert.Equal(t, float64(2015), n.Interface())

	b := frontmatter.NewBool(true)
	_, isNum := b.Number()
	assert.False(t, isNum)
	assert.Equal(t, "true", b.String())

	l := frontmatter.NewList("a", "b")
	items, ok := l.List()
	require.True(t, ok)
	items[0] = "mutated"
	again, _ := l.List()
	assert.Equal(t, []string{"a", "b"}, again, "List returns a copy")

	var zero frontmatter.Value
	assert.False(t, zero.IsValid())
	assert.Nil(t, zero.Interface())
	assert.Equal(t, "invalid", zero.Kind().String())
}

func TestNewListNeverNil(t *testing.T) {
	items, ok := frontmatter.NewList().List()
	require.True(t, ok)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	out, err := json.Marshal(frontmatter.NewList())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out))
}

func TestValueEqual(t *testing.T) {
	assert.True(t, frontmatter.NewNumber(1).Equal(frontmatter.NewNumber(1)))
	assert.False(t, frontmatter.NewNumber(1).Equal(frontmatter.NewText("1")))
	assert.True(t, frontmatter.NewList("x").Equal(frontmatter.NewList("x")))
	assert.False(t, frontmatter.NewList("x").Equal(frontmatter.NewList("x", "y")))
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		21:        "21",
		-4:        "-4",
		0.5:       "0.5",
		5000.25:   "5000.25",
		576918916: "576918916",
		1e21:      "1e+21",
	}
	for in, want := range tests {
		assert.Equal(t, want, frontmatter.FormatNumber(in))
	}
}

func TestFromMap(t *testing.T) {
	fields := frontmatter.FromMap(map[string]any{
		"id":       uint64(12),
		"price":    float64(4500.5),
		"year":     int64(2019),
		"model":    "21",
		"sold":     false,
		"features": []any{"gps", 3, true},
		"gallery":  []string{"a.jpg"},
		"nested":   map[string]any{"x": 1},
		"nothing":  nil,
		"count":    json.Number("7"),
	})

	assert.Equal(t, []string{"count", "features", "gallery", "id", "model", "price", "sold", "year"}, fields.Keys())

	id, ok := fields.Get("id").Number()
	require.True(t, ok)
	assert.Equal(t, float64(12), id)

	model, ok := fields.Get("model").Text()
	require.True(t, ok, "decoded strings are not re-coerced")
	assert.Equal(t, "21", model)

	features, _ := fields.Get("features").List()
	assert.Equal(t, []string{"gps", "3", "true"}, features)

	count, _ := fields.Get("count").Number()
	assert.Equal(t, float64(7), count)
}

func TestFieldsMap(t *testing.T) {
	fields, err := frontmatter.Parse("---\nid: 4\nbrand: Kia\nfeatures:\n  - abs\n---\n")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"id":       float64(4),
		"brand":    "Kia",
		"features": []string{"abs"},
	}, fields.Map())
}

func TestFromMapDropsNonFiniteNumbers(t *testing.T) {
	fields := frontmatter.FromMap(map[string]any{
		"id":       float64(1),
		"price":    math.NaN(),
		"mileage":  math.Inf(1),
		"year":     math.Inf(-1),
		"features": []any{"gps", math.NaN()},
	})

	assert.Equal(t, []string{"features", "id"}, fields.Keys())
	features, _ := fields.Get("features").List()
	assert.Equal(t, []string{"gps"}, features)
}
