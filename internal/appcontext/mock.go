package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/showroom"
	"github.com/agentstation/showroom/internal/server"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	PipelineFunc            func() (*showroom.Pipeline, error)
	PipelineWithOptionsFunc func(...showroom.Option) (*showroom.Pipeline, error)
	LoggerFunc              func() *zerolog.Logger
	OutputFormatFunc        func() string
	ServerConfigFunc        func() server.Config
	VersionFunc             func() string
	CommitFunc              func() string
	DateFunc                func() string
	BuiltByFunc             func() string
}

var _ Interface = (*Mock)(nil)

// Pipeline returns a pipeline using the mock function, or a default one.
func (m *Mock) Pipeline() (*showroom.Pipeline, error) {
	if m.PipelineFunc != nil {
		return m.PipelineFunc()
	}
	return m.PipelineWithOptions()
}

// PipelineWithOptions returns a pipeline using the mock function, or one
// built from opts alone.
func (m *Mock) PipelineWithOptions(opts ...showroom.Option) (*showroom.Pipeline, error) {
	if m.PipelineWithOptionsFunc != nil {
		return m.PipelineWithOptionsFunc(opts...)
	}
	return showroom.New(append([]showroom.Option{showroom.WithLogger(m.Logger())}, opts...)...)
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// ServerConfig returns the config using the mock function or the defaults.
func (m *Mock) ServerConfig() server.Config {
	if m.ServerConfigFunc != nil {
		return m.ServerConfigFunc()
	}
	return server.DefaultConfig()
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builder using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
