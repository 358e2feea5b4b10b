package loader

import (
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/agentstation/showroom/pkg/catalogs"
	"github.com/agentstation/showroom/pkg/constants"
	"github.com/agentstation/showroom/pkg/frontmatter"
)

type options struct {
	fsys        fs.FS
	extension   string
	concurrency int
	decoder     frontmatter.Decoder
	normalizer  *catalogs.Normalizer
	logger      *zerolog.Logger
}

// Option configures a load.
type Option func(*options)

func newOptions(opts ...Option) *options {
	o := &options{
		extension:   constants.DefaultRecordExtension,
		concurrency: constants.LoaderConcurrency,
		decoder:     frontmatter.LineDecoder{},
		normalizer:  catalogs.NewNormalizer(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFS reads records from fsys instead of the OS filesystem. The dir
// passed to Load is then a slash-separated path inside fsys.
func WithFS(fsys fs.FS) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

// WithExtension sets the record file suffix (default ".md").
func WithExtension(ext string) Option {
	return func(o *options) {
		if ext != "" {
			o.extension = ext
		}
	}
}

// WithConcurrency bounds the number of files read at once.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithDecoder sets the metadata decoder.
func WithDecoder(d frontmatter.Decoder) Option {
	return func(o *options) {
		if d != nil {
			o.decoder = d
		}
	}
}

// WithNormalizer sets the normalizer, typically to inject a clock.
func WithNormalizer(n *catalogs.Normalizer) Option {
	return func(o *options) {
		if n != nil {
			o.normalizer = n
		}
	}
}

// WithLogger sets the logger used for skip warnings. By default the logger
// carried by the context is used.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
