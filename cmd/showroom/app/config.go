package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/showroom/pkg/constants"
	"github.com/agentstation/showroom/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string // from --log-level only

	// Config file
	ConfigFile string

	// Pipeline configuration
	RecordsDir        string
	BaselinePath      string
	OutputPath        string
	OutputFormat      string
	Decoder           string
	StrictDuplicates  bool
	Banner            bool
	AutoBuildInterval time.Duration

	// Server configuration
	HTTPHost string
	HTTPPort int
	APIKey   string

	// Logging configuration
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.showroom.yaml or ./.showroom.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), os.Getenv("SHOWROOM_CONFIG"))
}

func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	// .env files are loaded before viper binds the environment
	loadEnvFiles()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".showroom")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit file must exist; the search locations are optional
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config file", "cannot be read", err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		RecordsDir:        v.GetString("records_dir"),
		BaselinePath:      v.GetString("baseline_path"),
		OutputPath:        v.GetString("output_path"),
		OutputFormat:      v.GetString("output_format"),
		Decoder:           v.GetString("decoder"),
		StrictDuplicates:  v.GetBool("strict_duplicates"),
		Banner:            v.GetBool("banner"),
		AutoBuildInterval: v.GetDuration("auto_build_interval"),

		HTTPHost: v.GetString("http_host"),
		HTTPPort: v.GetInt("http_port"),
		APIKey:   v.GetString("api_key"),

		EnvLogLevel: v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		LogOutput:   v.GetString("log_output"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("records_dir", constants.DefaultRecordDir)
	v.SetDefault("output_path", constants.DefaultOutputPath)
	v.SetDefault("decoder", constants.DefaultDecoder)
	v.SetDefault("auto_build_interval", constants.DefaultAutoBuildInterval)
	v.SetDefault("http_host", constants.DefaultHost)
	v.SetDefault("http_port", constants.DefaultPort)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// Validate checks values that cannot be corrected later.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return errors.NewValidationError("http_port", c.HTTPPort, "port out of range")
	}
	if c.AutoBuildInterval < 0 {
		return errors.NewValidationError("auto_build_interval", c.AutoBuildInterval, "must not be negative")
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first because godotenv never overrides a variable
// that is already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
