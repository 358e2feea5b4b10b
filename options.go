package showroom

import (
	"io/fs"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/showroom/pkg/constants"
	"github.com/agentstation/showroom/pkg/errors"
)

// options holds the pipeline configuration.
type options struct {
	recordDir    string
	baselinePath string
	outputPath   string
	format       string
	decoder      string

	strictDuplicates bool
	banner           bool
	dryRun           bool

	fsys        fs.FS
	concurrency int
	clock       func() time.Time
	logger      *zerolog.Logger

	autoBuildInterval time.Duration
}

// Option is a function that configures a Pipeline.
type Option func(*options) error

func defaults() *options {
	return &options{
		recordDir:         constants.DefaultRecordDir,
		outputPath:        constants.DefaultOutputPath,
		decoder:           constants.DefaultDecoder,
		clock:             time.Now,
		autoBuildInterval: constants.DefaultAutoBuildInterval,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithRecordDir sets the directory holding record files.
func WithRecordDir(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return &errors.ValidationError{Field: "record dir", Message: "cannot be empty"}
		}
		o.recordDir = dir
		return nil
	}
}

// WithBaselinePath sets the previously published dataset to merge over. A
// missing file is treated as an empty baseline. Empty disables the baseline.
func WithBaselinePath(path string) Option {
	return func(o *options) error {
		o.baselinePath = path
		return nil
	}
}

// WithOutputPath sets where Build writes the artifact.
func WithOutputPath(path string) Option {
	return func(o *options) error {
		if path == "" {
			return &errors.ValidationError{Field: "output path", Message: "cannot be empty"}
		}
		o.outputPath = path
		return nil
	}
}

// WithFormat sets the artifact format. When unset the format is inferred
// from the output path extension.
func WithFormat(format string) Option {
	return func(o *options) error {
		o.format = format
		return nil
	}
}

// WithDecoder selects the metadata decoder by name ("line" or "yaml").
func WithDecoder(name string) Option {
	return func(o *options) error {
		o.decoder = name
		return nil
	}
}

// WithStrictDuplicates makes Build fail when two records share an identifier.
func WithStrictDuplicates(enabled bool) Option {
	return func(o *options) error {
		o.strictDuplicates = enabled
		return nil
	}
}

// WithBanner adds a generation comment to formats that support one.
func WithBanner(enabled bool) Option {
	return func(o *options) error {
		o.banner = enabled
		return nil
	}
}

// WithDryRun makes Build compute the artifact without writing it.
func WithDryRun(enabled bool) Option {
	return func(o *options) error {
		o.dryRun = enabled
		return nil
	}
}

// WithFS reads records from fsys instead of the OS filesystem.
func WithFS(fsys fs.FS) Option {
	return func(o *options) error {
		o.fsys = fsys
		return nil
	}
}

// WithConcurrency bounds the number of record files read at once.
func WithConcurrency(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return &errors.ValidationError{Field: "concurrency", Value: n, Message: "must not be negative"}
		}
		o.concurrency = n
		return nil
	}
}

// WithClock sets the time source used for the default year and banners.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return &errors.ValidationError{Field: "clock", Message: "cannot be nil"}
		}
		o.clock = now
		return nil
	}
}

// WithLogger sets the logger. By default the logger carried by the context
// passed to Load and Build is used.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithAutoBuildInterval configures how often AutoBuildOn rebuilds.
func WithAutoBuildInterval(interval time.Duration) Option {
	return func(o *options) error {
		o.autoBuildInterval = interval
		return nil
	}
}
