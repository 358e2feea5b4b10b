// Package frontmatter reads the metadata block at the top of a vehicle
// record file.
//
// A record looks like:
//
//	---
//	id: 12
//	brand: Renault
//	price: 5000
//	features:
//	  - climatisation
//	  - gps
//	---
//	Free text that is ignored.
//
// The dialect is intentionally small: flat "key: value" lines plus
// single-level lists written as "  - item" under a key with an empty value.
// It is not YAML; use the yaml Decoder for records written by real YAML
// tooling.
package frontmatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentstation/showroom/pkg/errors"
)

// Delimiter opens and closes the metadata block.
const Delimiter = "---"

const listItemPrefix = "  - "

// Sentinel errors for records without a usable block. Both satisfy
// errors.Is(err, errors.ErrMalformedRecord).
var (
	ErrNoFrontMatter = fmt.Errorf("%w: no front matter block", errors.ErrMalformedRecord)
	ErrUnterminated  = fmt.Errorf("%w: front matter block is not closed", errors.ErrMalformedRecord)
)

// Parse extracts and decodes the metadata block of a record.
func Parse(text string) (Fields, error) {
	block, err := extract(text)
	if err != nil {
		return nil, err
	}

	p := &parser{fields: make(Fields)}
	for _, line := range block {
		p.feed(line)
	}
	p.flush()
	return p.fields, nil
}

// extract returns the lines between the opening and closing delimiter. The
// opening delimiter must be the first line. A trailing carriage return is
// stripped from every line.
func extract(text string) ([]string, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}

	if len(lines) == 0 || lines[0] != Delimiter {
		return nil, errors.NewParseError("frontmatter", "", "no front matter block", ErrNoFrontMatter)
	}
	for i := 1; i < len(lines); i++ {
		if lines[i] == Delimiter {
			return lines[1:i], nil
		}
	}
	return nil, errors.NewParseError("frontmatter", "", "front matter block is not closed", ErrUnterminated)
}

type state int

const (
	scanningKey state = iota
	accumulatingList
)

type parser struct {
	fields Fields
	state  state
	key    string
	items  []string
}

func (p *parser) feed(line string) {
	if strings.HasPrefix(line, listItemPrefix) {
		if p.state == accumulatingList {
			p.items = append(p.items, strings.TrimSpace(line[len(listItemPrefix):]))
		}
		return
	}

	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return
	}
	p.flush()

	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return
	}
	if value == "" {
		p.state = accumulatingList
		p.key = key
		p.items = []string{}
		return
	}
	p.fields[key] = Coerce(value)
}

// flush commits a pending list under its key and returns to key scanning.
func (p *parser) flush() {
	if p.state == accumulatingList {
		p.fields[p.key] = NewList(p.items...)
	}
	p.state = scanningKey
	p.key = ""
	p.items = nil
}

// Coerce types a non-empty scalar: numeric text becomes Number, the literals
// true and false become Boolean, and anything else stays Text.
func Coerce(value string) Value {
	if n, ok := ParseNumber(value); ok {
		return NewNumber(n)
	}
	switch value {
	case "true":
		return NewBool(true)
	case "false":
		return NewBool(false)
	}
	return NewText(value)
}

// ParseNumber reports whether s is entirely a number. Decimal and exponent
// forms are accepted with an optional sign, as are unsigned 0x, 0o and 0b
// integers. Digit separators, Inf, NaN and values that overflow float64 are
// rejected.
func ParseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			u, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(u), true
		}
	}

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '+', r == '-', r == '.', r == 'e', r == 'E':
		default:
			return 0, false
		}
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
