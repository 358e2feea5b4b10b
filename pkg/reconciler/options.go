package reconciler

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/showroom/pkg/errors"
)

type options struct {
	strict       bool
	logger       *zerolog.Logger
	baselineName string
	incomingName string
}

func defaultOptions() *options {
	return &options{
		baselineName: "baseline",
		incomingName: "records",
	}
}

// Option is a function that configures a reconciliation.
type Option func(*options) error

func newOptions(opts ...Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithStrictDuplicates rejects incoming sets that repeat an identifier
// instead of letting the last occurrence win.
func WithStrictDuplicates() Option {
	return func(o *options) error {
		o.strict = true
		return nil
	}
}

// WithLogger sets the logger used for duplicate warnings.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return &errors.ValidationError{
				Field:   "logger",
				Message: "cannot be nil",
			}
		}
		o.logger = logger
		return nil
	}
}

// WithSourceNames labels the two inputs in logs and errors.
func WithSourceNames(baseline, incoming string) Option {
	return func(o *options) error {
		if baseline == "" || incoming == "" {
			return &errors.ValidationError{
				Field:   "source names",
				Message: "cannot be empty",
			}
		}
		o.baselineName = baseline
		o.incomingName = incoming
		return nil
	}
}
