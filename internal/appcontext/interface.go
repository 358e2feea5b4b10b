// Package appcontext provides the shared application context interface
// used by all commands. Command packages depend on this interface rather
// than on the concrete CLI app, which keeps them testable.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/showroom"
	"github.com/agentstation/showroom/internal/server"
)

// Interface defines what commands need from the application.
type Interface interface {
	// Pipeline returns the default pipeline built from configuration,
	// creating it lazily if needed.
	Pipeline() (*showroom.Pipeline, error)

	// PipelineWithOptions creates a new pipeline. The given options are
	// applied after the configured ones, so they take precedence.
	PipelineWithOptions(...showroom.Option) (*showroom.Pipeline, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, wide).
	OutputFormat() string

	// ServerConfig returns the API server configuration derived from
	// defaults, config files and the environment.
	ServerConfig() server.Config

	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
