package baseline

import (
	"bytes"

	"github.com/agentstation/showroom/pkg/errors"
)

// extractArray returns the first top-level array literal assigned in a
// script, e.g. the [...] of `const vehiclesData = [...];`. Brackets inside
// string literals and comments are ignored. Helper functions that follow
// the literal are not inspected.
func extractArray(src []byte) ([]byte, error) {
	start := assignedArrayStart(src)
	if start < 0 {
		return nil, errors.New("no array assignment found")
	}

	depth := 0
	var quote byte
	for i := start; i < len(src); i++ {
		c := src[i]

		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'', '`':
			quote = c
		case '/':
			if skip := commentEnd(src, i); skip > i {
				i = skip - 1
			}
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return src[start : i+1], nil
			}
		}
	}
	return nil, errors.New("unterminated array literal")
}

// assignedArrayStart finds the first '[' that directly follows an '='
// outside comments.
func assignedArrayStart(src []byte) int {
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '/':
			if skip := commentEnd(src, i); skip > i {
				i = skip - 1
			}
		case '=':
			j := i + 1
			for j < len(src) && isSpace(src[j]) {
				j++
			}
			if j < len(src) && src[j] == '[' {
				return j
			}
		}
	}
	return -1
}

// commentEnd returns the index just past a comment starting at i, or i when
// there is none.
func commentEnd(src []byte, i int) int {
	if i+1 >= len(src) {
		return i
	}
	switch src[i+1] {
	case '/':
		if n := bytes.IndexByte(src[i:], '\n'); n >= 0 {
			return i + n + 1
		}
		return len(src)
	case '*':
		if n := bytes.Index(src[i+2:], []byte("*/")); n >= 0 {
			return i + 2 + n + 2
		}
		return len(src)
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
