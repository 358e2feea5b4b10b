package emitter

import (
	"path/filepath"
	"strings"

	"github.com/agentstation/showroom/pkg/errors"
)

// Format is a dataset serialization.
type Format string

// Supported formats.
const (
	FormatJSON     Format = "json"
	FormatJS       Format = "js"
	FormatYAML     Format = "yaml"
	FormatTOML     Format = "toml"
	FormatMarkdown Format = "markdown"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatJS, FormatYAML, FormatTOML, FormatMarkdown}
}

// String returns the format name.
func (f Format) String() string {
	return string(f)
}

// Extension returns the conventional file extension, with the dot.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatMarkdown:
		return ".md"
	default:
		return "." + string(f)
	}
}

// SupportsBanner reports whether the format can carry a comment.
func (f Format) SupportsBanner() bool {
	return f != FormatJSON
}

// ParseFormat parses a format name. Common aliases are accepted.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "js", "javascript":
		return FormatJS, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}

	return "", errors.NewFormatError("output", s, formatNames())
}

func formatNames() []string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, f.String())
	}
	return names
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", &errors.ValidationError{
			Field:   "output",
			Value:   path,
			Message: "cannot infer format from a path without extension",
		}
	}
	return ParseFormat(ext)
}
