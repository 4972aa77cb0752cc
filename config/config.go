// Package config loads the settings of the roclient command from a file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/geoknoesis/rosrs-go/ro"
)

// EnvPrefix prefixes the environment variables that override file settings,
// e.g. ROSRS_SERVICE_URI.
const EnvPrefix = "ROSRS"

var (
	// ErrMissingServiceURI is returned when no service URI is configured.
	ErrMissingServiceURI = errors.New("config: service_uri is required")
	// ErrInvalidServiceURI is returned for a service URI that is not absolute.
	ErrInvalidServiceURI = errors.New("config: service_uri must be an absolute http or https URI")
)

// Config holds the client settings.
type Config struct {
	ServiceURI   string        `mapstructure:"service_uri"`
	AccessToken  string        `mapstructure:"access_token"`
	Timeout      time.Duration `mapstructure:"timeout"`
	ManifestDir  string        `mapstructure:"manifest_dir"`
	ManifestFile string        `mapstructure:"manifest_file"`
	UserAgent    string        `mapstructure:"user_agent"`
	LogLevel     string        `mapstructure:"log_level"`
}

// DefaultConfig returns the settings used when nothing else is configured.
func DefaultConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		ManifestDir:  ro.DefaultManifestDir,
		ManifestFile: ro.DefaultManifestFile,
		UserAgent:    "roclient",
		LogLevel:     "info",
	}
}

// Load reads the config file at path, when path is not empty, and applies
// ROSRS_* environment overrides on top of the defaults. The file format
// follows its extension (yaml, toml or json).
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("service_uri", defaults.ServiceURI)
	v.SetDefault("access_token", defaults.AccessToken)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("manifest_dir", defaults.ManifestDir)
	v.SetDefault("manifest_file", defaults.ManifestFile)
	v.SetDefault("user_agent", defaults.UserAgent)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if c.ServiceURI == "" {
		return ErrMissingServiceURI
	}
	u, err := url.Parse(c.ServiceURI)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidServiceURI, c.ServiceURI)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative, got %s", c.Timeout)
	}
	if c.ManifestDir == "" || c.ManifestFile == "" {
		return errors.New("config: manifest_dir and manifest_file must not be empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return level, fmt.Errorf("config: log_level: %w", err)
	}
	return level, nil
}
