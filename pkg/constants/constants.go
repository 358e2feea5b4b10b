// Package constants provides shared constants used throughout the showroom codebase.
// This includes default paths, timeouts, limits and file permissions that
// should be consistent between the CLI, the pipeline and the API server.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// BuildTimeout bounds a full load, merge and emit cycle started from the CLI
	BuildTimeout = 2 * time.Minute

	// ShutdownTimeout is how long the server waits for in-flight requests
	ShutdownTimeout = 30 * time.Second

	// ReadTimeout is the HTTP server read timeout
	ReadTimeout = 10 * time.Second

	// WriteTimeout is the HTTP server write timeout
	WriteTimeout = 10 * time.Second

	// IdleTimeout is the HTTP server keep-alive idle timeout
	IdleTimeout = 120 * time.Second

	// WatchDebounce coalesces bursts of filesystem events into one cache invalidation
	WatchDebounce = 250 * time.Millisecond

	// DefaultAutoBuildInterval is the period between automatic rebuilds
	DefaultAutoBuildInterval = 15 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// LoaderConcurrency is the default number of record files read in parallel
	LoaderConcurrency = 8

	// MaxRecordSize is the largest record file the loader will read, in bytes
	MaxRecordSize = 1 << 20
)

// Rate limiting constants
const (
	// DefaultRateLimit is the default requests per minute per client IP
	DefaultRateLimit = 100

	// BurstSize is the token bucket burst size for rate limiting
	BurstSize = 20
)

// Cache constants
const (
	// CacheTTL is how long a loaded vehicle snapshot is served before reloading
	CacheTTL = 5 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 10 * time.Minute
)

// Default values
const (
	// DefaultRecordDir is the directory holding one Markdown file per vehicle
	DefaultRecordDir = "_vehicules"

	// DefaultRecordExtension is the file extension of record files
	DefaultRecordExtension = ".md"

	// DefaultOutputPath is where the dataset is written when no path is given
	DefaultOutputPath = "js/data.js"

	// DefaultOutputFormat is the dataset format used when none is given
	DefaultOutputFormat = "js"

	// DefaultDecoder is the metadata decoder used when none is given
	DefaultDecoder = "line"

	// DefaultPort is the default API server port
	DefaultPort = 8080

	// DefaultHost is the default API server bind address
	DefaultHost = "localhost"

	// DefaultPathPrefix is the API route prefix
	DefaultPathPrefix = "/api/v1"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatBanner is the date format used in generated file banners
	TimeFormatBanner = "02/01/2006 15:04:05"
)
