package server

import (
	"time"

	"github.com/agentstation/showroom/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API settings
	PathPrefix string

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Authentication settings. An empty APIKey leaves refresh open.
	APIKey     string
	AuthHeader string

	// Performance settings
	RateLimit int // Requests per minute per IP (0 to disable)
	Burst     int
	CacheTTL  time.Duration

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Watch invalidates the cache whenever WatchDir changes.
	Watch    bool
	WatchDir string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:         constants.DefaultHost,
		Port:         constants.DefaultPort,
		PathPrefix:   constants.DefaultPathPrefix,
		CORSEnabled:  true,
		CORSOrigins:  []string{"*"},
		AuthHeader:   "X-API-Key",
		RateLimit:    constants.DefaultRateLimit,
		Burst:        constants.BurstSize,
		CacheTTL:     constants.CacheTTL,
		ReadTimeout:  constants.ReadTimeout,
		WriteTimeout: constants.WriteTimeout,
		IdleTimeout:  constants.IdleTimeout,
		WatchDir:     constants.DefaultRecordDir,
	}
}
