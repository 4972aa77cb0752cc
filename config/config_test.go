package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingServiceURI)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, "roclient.yaml", `
service_uri: http://sandbox.example.org/rodl/ROs/
access_token: 47d5423c-b507-4e1c-8
timeout: 5s
manifest_file: manifest.ttl
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://sandbox.example.org/rodl/ROs/", cfg.ServiceURI)
	assert.Equal(t, "47d5423c-b507-4e1c-8", cfg.AccessToken)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, ".ro", cfg.ManifestDir)
	assert.Equal(t, "manifest.ttl", cfg.ManifestFile)
	require.NoError(t, cfg.Validate())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)
}

func TestLoadJSONFile(t *testing.T) {
	path := writeConfig(t, "roclient.json", `{"service_uri": "https://example.org/ROs/", "user_agent": "tester"}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/ROs/", cfg.ServiceURI)
	assert.Equal(t, "tester", cfg.UserAgent)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "roclient.yaml", "service_uri: http://file.example/ROs/\ntimeout: 5s\n")
	t.Setenv("ROSRS_SERVICE_URI", "http://env.example/ROs/")
	t.Setenv("ROSRS_ACCESS_TOKEN", "from-env")
	t.Setenv("ROSRS_TIMEOUT", "1m")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example/ROs/", cfg.ServiceURI)
	assert.Equal(t, "from-env", cfg.AccessToken)
	assert.Equal(t, time.Minute, cfg.Timeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.ServiceURI = "http://example.org/ROs/"
		return cfg
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*Config){
		"relative uri":   func(c *Config) { c.ServiceURI = "/ROs/" },
		"ftp uri":        func(c *Config) { c.ServiceURI = "ftp://example.org/ROs/" },
		"negative time":  func(c *Config) { c.Timeout = -time.Second },
		"empty manifest": func(c *Config) { c.ManifestFile = "" },
		"bad level":      func(c *Config) { c.LogLevel = "chatty" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := valid()
	cfg.ServiceURI = "example.org"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidServiceURI)
}
