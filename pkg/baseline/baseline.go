// Package baseline reads a previously published vehicle dataset so that
// a build can merge fresh records over it.
//
// Accepted inputs are the artifacts the emitter produces: a JSON array, a
// YAML sequence, a TOML document with [[vehicles]] tables, or the legacy
// JavaScript file that binds the array to a constant. Every entry goes
// through the same normalizer as record files, so older datasets that use
// lower-case brands or the "power" key come out canonical.
package baseline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/agentstation/showroom/pkg/catalogs"
	"github.com/agentstation/showroom/pkg/errors"
	"github.com/agentstation/showroom/pkg/frontmatter"
	"github.com/agentstation/showroom/pkg/logging"
)

type options struct {
	allowMissing bool
	normalizer   *catalogs.Normalizer
	logger       *zerolog.Logger
}

// Option configures a baseline load.
type Option func(*options)

// AllowMissing makes a missing file load as an empty baseline.
func AllowMissing() Option {
	return func(o *options) {
		o.allowMissing = true
	}
}

// WithNormalizer sets the normalizer applied to each entry.
func WithNormalizer(n *catalogs.Normalizer) Option {
	return func(o *options) {
		if n != nil {
			o.normalizer = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts ...Option) *options {
	o := &options{normalizer: catalogs.NewNormalizer()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.Default()
	}
	return o
}

// Load reads the dataset at path.
func Load(path string, opts ...Option) ([]catalogs.Vehicle, error) {
	o := newOptions(opts...)

	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		if os.IsNotExist(err) {
			if o.allowMissing {
				o.logger.Debug().Str("path", path).Msg("No baseline found, starting empty")
				return []catalogs.Vehicle{}, nil
			}
			return nil, errors.WrapIO("read", path, errors.NewNotFoundError("baseline", path))
		}
		return nil, errors.WrapIO("read", path, err)
	}

	vehicles, err := decode(data, path, o)
	if err != nil {
		return nil, err
	}
	o.logger.Debug().Str("path", path).Int("vehicles", len(vehicles)).Msg("Loaded baseline")
	return vehicles, nil
}

// Decode parses an in-memory dataset. name is used to pick the format by
// extension and in error messages; when it has no known extension the
// content is sniffed.
func Decode(data []byte, name string, opts ...Option) ([]catalogs.Vehicle, error) {
	return decode(data, name, newOptions(opts...))
}

func decode(data []byte, name string, o *options) ([]catalogs.Vehicle, error) {
	format := detect(data, name)

	var entries []map[string]any
	var err error
	switch format {
	case "js":
		entries, err = decodeScript(data, name)
	case "toml":
		entries, err = decodeTOML(data)
	default:
		entries, err = decodeSequence(data)
	}
	if err != nil {
		return nil, errors.WrapParse(format, name, err)
	}

	vehicles := make([]catalogs.Vehicle, 0, len(entries))
	for _, entry := range entries {
		vehicles = append(vehicles, o.normalizer.Normalize(frontmatter.FromMap(entry)))
	}
	return vehicles, nil
}

func detect(data []byte, name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".js", ".mjs":
		return "js"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	}

	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.HasPrefix(trimmed, []byte("[[")):
		return "toml"
	case bytes.HasPrefix(trimmed, []byte("[")):
		return "json"
	case bytes.HasPrefix(trimmed, []byte("/*")), bytes.HasPrefix(trimmed, []byte("//")),
		bytes.HasPrefix(trimmed, []byte("const ")), bytes.HasPrefix(trimmed, []byte("var ")),
		bytes.HasPrefix(trimmed, []byte("let ")):
		return "js"
	default:
		return "yaml"
	}
}

// decodeSequence handles both JSON and YAML, JSON being valid YAML.
func decodeSequence(data []byte) ([]map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []map[string]any
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func decodeTOML(data []byte) ([]map[string]any, error) {
	var doc struct {
		Vehicles []map[string]any `toml:"vehicles"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Vehicles, nil
}

func decodeScript(data []byte, name string) ([]map[string]any, error) {
	array, err := extractArray(data)
	if err != nil {
		return nil, errors.NewParseError("js", name, err.Error(), errors.ErrInvalidInput)
	}
	return decodeSequence(array)
}
