package frontmatter

import (
	"fmt"
	"sort"
	"strings"

	fm "github.com/adrg/frontmatter"
	"github.com/goccy/go-yaml"

	"github.com/agentstation/showroom/pkg/errors"
)

// Decoder turns the full text of a record file into Fields.
type Decoder interface {
	Name() string
	Decode(text string) (Fields, error)
}

// Decoder names accepted by NewDecoder.
const (
	DecoderLine = "line"
	DecoderYAML = "yaml"
)

// NewDecoder returns the decoder registered under name. An empty name
// selects the line decoder.
func NewDecoder(name string) (Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DecoderLine:
		return LineDecoder{}, nil
	case DecoderYAML:
		return YAMLDecoder{}, nil
	default:
		return nil, errors.NewFormatError("decoder", name, DecoderNames())
	}
}

// DecoderNames lists the available decoder names.
func DecoderNames() []string {
	names := []string{DecoderLine, DecoderYAML}
	sort.Strings(names)
	return names
}

// LineDecoder is the line-oriented state machine implemented by Parse.
type LineDecoder struct{}

// Name implements Decoder.
func (LineDecoder) Name() string { return DecoderLine }

// Decode implements Decoder.
func (LineDecoder) Decode(text string) (Fields, error) { return Parse(text) }

// YAMLDecoder reads the block as YAML. Nested mappings are dropped and
// scalars keep the types the YAML decoder assigned, so a quoted "21" stays
// Text.
type YAMLDecoder struct{}

// Name implements Decoder.
func (YAMLDecoder) Name() string { return DecoderYAML }

var yamlFormat = fm.NewFormat(Delimiter, Delimiter, func(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
})

// Decode implements Decoder.
func (YAMLDecoder) Decode(text string) (Fields, error) {
	var raw map[string]any
	if _, err := fm.MustParse(strings.NewReader(text), &raw, yamlFormat); err != nil {
		if errors.Is(err, fm.ErrNotFound) {
			return nil, errors.NewParseError("yaml", "", "no front matter block", ErrNoFrontMatter)
		}
		return nil, errors.NewParseError("yaml", "", err.Error(), fmt.Errorf("%w: %w", errors.ErrMalformedRecord, err))
	}
	return FromMap(raw), nil
}
