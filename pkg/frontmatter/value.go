package frontmatter

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

// Value kinds a metadata line can resolve to.
const (
	KindInvalid Kind = iota
	KindNumber
	KindBoolean
	KindText
	KindList
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindText:
		return "text"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// Value is a typed metadata value. The zero Value is invalid and is what
// Fields.Get returns for a missing key.
type Value struct {
	kind Kind
	num  float64
	b    bool
	text string
	list []string
}

// NewNumber returns a Number value.
func NewNumber(n float64) Value { return Value{kind: KindNumber, num: n} }

// NewBool returns a Boolean value.
func NewBool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// NewText returns a Text value.
func NewText(s string) Value { return Value{kind: KindText, text: s} }

// NewList returns a List value holding a copy of items. A nil or empty
// argument yields an empty, non-nil list.
func NewList(items ...string) Value {
	list := make([]string, len(items))
	copy(list, items)
	return Value{kind: KindList, list: list}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds a value.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Number returns the numeric value and whether v is a Number.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Bool returns the boolean value and whether v is a Boolean.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBoolean
}

// Text returns the string value and whether v is Text.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// List returns a copy of the items and whether v is a List.
func (v Value) List() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	out := make([]string, len(v.list))
	copy(out, v.list)
	return out, true
}

// Interface returns the held value as float64, bool, string or []string,
// or nil for an invalid Value.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBoolean:
		return v.b
	case KindText:
		return v.text
	case KindList:
		out, _ := v.List()
		return out
	default:
		return nil
	}
}

// String renders scalars the way they appeared in the source: numbers in
// their shortest decimal form, booleans as true/false. Lists render as their
// Go representation.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return FormatNumber(v.num)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindText:
		return v.text
	case KindList:
		return fmt.Sprint(v.list)
	default:
		return ""
	}
}

// Equal reports whether v and o hold the same kind and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindBoolean:
		return v.b == o.b
	case KindText:
		return v.text == o.text
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// MarshalJSON encodes the held value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// FormatNumber renders n with the fewest digits that round-trip, without
// an exponent for integral values that fit in an int64.
func FormatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// Fields maps metadata keys to their typed values.
type Fields map[string]Value

// Get returns the value for key. A missing key yields an invalid Value.
func (f Fields) Get(key string) Value {
	return f[key]
}

// Has reports whether key is present.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Keys returns the keys in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns the fields as plain Go values.
func (f Fields) Map() map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = v.Interface()
	}
	return out
}

// FromMap converts decoded data, as produced by a JSON or YAML decoder, into
// Fields. Numeric types become Number, bool becomes Boolean, strings stay
// Text without coercion, and sequences become List with scalar items
// rendered as text. Nil values and nested maps are dropped.
func FromMap(m map[string]any) Fields {
	fields := make(Fields, len(m))
	for k, raw := range m {
		if v, ok := fromAny(raw); ok {
			fields[k] = v
		}
	}
	return fields
}

func fromAny(raw any) (Value, bool) {
	if n, ok := toFloat(raw); ok {
		return NewNumber(n), true
	}
	switch t := raw.(type) {
	case bool:
		return NewBool(t), true
	case string:
		return NewText(t), true
	case []string:
		return NewList(t...), true
	case []any:
		items := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := scalarText(item); ok {
				items = append(items, s)
			}
		}
		return NewList(items...), true
	default:
		return Value{}, false
	}
}

func scalarText(raw any) (string, bool) {
	if n, ok := toFloat(raw); ok {
		return FormatNumber(n), true
	}
	switch t := raw.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// toFloat converts a decoded numeric scalar. NaN and infinities are not
// numbers in the record dialect and are rejected.
func toFloat(raw any) (float64, bool) {
	n, ok := anyFloat(raw)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func anyFloat(raw any) (float64, bool) {
	switch t := raw.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
