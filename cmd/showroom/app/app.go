// Package app provides the application context and dependency management
// for the showroom CLI. It centralizes configuration, logging and the
// pipeline lifecycle so commands only see the appcontext interface.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/showroom"
	"github.com/agentstation/showroom/internal/appcontext"
	"github.com/agentstation/showroom/internal/server"
	"github.com/agentstation/showroom/pkg/errors"
)

// App represents the showroom application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// mu guards the pipelines; the default one is created lazily
	mu        sync.RWMutex
	pipeline  *showroom.Pipeline
	pipelines []*showroom.Pipeline
}

var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment unless WithConfig is given.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig()
		if err != nil {
			return nil, errors.WrapResource("load", "config", "", err)
		}
		app.config = config
	}

	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format value, empty when auto-detected.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Pipeline returns the default pipeline, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Pipeline() (*showroom.Pipeline, error) {
	a.mu.RLock()
	if a.pipeline != nil {
		p := a.pipeline
		a.mu.RUnlock()
		return p, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.pipeline != nil {
		return a.pipeline, nil
	}

	p, err := showroom.New(a.pipelineOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "pipeline", "", err)
	}
	a.pipeline = p
	a.pipelines = append(a.pipelines, p)
	return p, nil
}

// PipelineWithOptions returns a new pipeline. opts are applied after the
// configured options, so command flags win over configuration.
func (a *App) PipelineWithOptions(opts ...showroom.Option) (*showroom.Pipeline, error) {
	p, err := showroom.New(append(a.pipelineOptions(), opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "pipeline", "with custom options", err)
	}

	a.mu.Lock()
	a.pipelines = append(a.pipelines, p)
	a.mu.Unlock()
	return p, nil
}

// ServerConfig returns the API server configuration with the configured
// host, port, API key and record directory applied over the defaults.
func (a *App) ServerConfig() server.Config {
	cfg := server.DefaultConfig()
	if a.config.HTTPHost != "" {
		cfg.Host = a.config.HTTPHost
	}
	if a.config.HTTPPort != 0 {
		cfg.Port = a.config.HTTPPort
	}
	cfg.APIKey = a.config.APIKey
	if a.config.RecordsDir != "" {
		cfg.WatchDir = a.config.RecordsDir
	}
	return cfg
}

// Shutdown stops background builds of every pipeline the app created.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.RLock()
	pipelines := append([]*showroom.Pipeline(nil), a.pipelines...)
	a.mu.RUnlock()

	var errs []error
	for _, p := range pipelines {
		if err := ctx.Err(); err != nil {
			errs = append(errs, errors.Join(errors.ErrCanceled, err))
			break
		}
		if err := p.AutoBuildOff(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to stop auto-build during shutdown")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// pipelineOptions constructs pipeline options from the app configuration.
func (a *App) pipelineOptions() []showroom.Option {
	opts := []showroom.Option{showroom.WithLogger(a.logger)}

	if a.config.RecordsDir != "" {
		opts = append(opts, showroom.WithRecordDir(a.config.RecordsDir))
	}
	if a.config.BaselinePath != "" {
		opts = append(opts, showroom.WithBaselinePath(a.config.BaselinePath))
	}
	if a.config.OutputPath != "" {
		opts = append(opts, showroom.WithOutputPath(a.config.OutputPath))
	}
	if a.config.OutputFormat != "" {
		opts = append(opts, showroom.WithFormat(a.config.OutputFormat))
	}
	if a.config.Decoder != "" {
		opts = append(opts, showroom.WithDecoder(a.config.Decoder))
	}
	if a.config.StrictDuplicates {
		opts = append(opts, showroom.WithStrictDuplicates(true))
	}
	if a.config.Banner {
		opts = append(opts, showroom.WithBanner(true))
	}
	if a.config.AutoBuildInterval > 0 {
		opts = append(opts, showroom.WithAutoBuildInterval(a.config.AutoBuildInterval))
	}

	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "cannot be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
