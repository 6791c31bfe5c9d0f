package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{
		"AQUASAFE_THRESHOLD", "AQUASAFE_MODEL_PATH", "AQUASAFE_LOG_LEVEL", "AQUASAFE_REPORT",
		"AQUASAFE_LLM_PROVIDER", "AQUASAFE_LLM_MODEL", "AQUASAFE_OPENAI_BASE_URL",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"AQUASAFE_GEMINI_API_KEY", "AQUASAFE_OPENAI_API_KEY", "AQUASAFE_ANTHROPIC_API_KEY",
		"AQUASAFE_OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Threshold)
	assert.Empty(t, cfg.ModelPath)
	assert.True(t, cfg.Report.Enabled)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
}

func TestLoadFile(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, `
threshold: 0.7
model_path: /opt/models/water.yaml
log_level: debug
report:
  enabled: false
llm:
  provider: openai
  timeout: 15s
  openai:
    model: gpt-4.1-mini
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.7, cfg.Threshold)
	assert.Equal(t, "/opt/models/water.yaml", cfg.ModelPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Report.Enabled)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4.1-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	// Untouched sections keep their defaults.
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
}

func TestLoadDefaultLocation(t *testing.T) {
	isolateEnv(t)
	dir := os.Getenv("XDG_CONFIG_HOME")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "aquasafe"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aquasafe", "config.yaml"), []byte("threshold: 0.6\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.6, cfg.Threshold)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolateEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "config file", ce.Setting)
}

func TestLoadMalformedFile(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, "threshold: [not, a, number]\n")

	_, err := Load(path)
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))
}

func TestEnvOverridesFile(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, "threshold: 0.7\n")
	t.Setenv("AQUASAFE_THRESHOLD", "0.9")
	t.Setenv("AQUASAFE_REPORT", "false")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.Threshold)
	assert.False(t, cfg.Report.Enabled)
	assert.Equal(t, "g-key", cfg.LLM.Gemini.APIKey)
}

func TestEnvBadValues(t *testing.T) {
	isolateEnv(t)
	t.Setenv("AQUASAFE_THRESHOLD", "high")

	_, err := Load("")
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "AQUASAFE_THRESHOLD", ce.Setting)
}

func TestValidate(t *testing.T) {
	withKey := Default()
	withKey.LLM.Gemini.APIKey = "g-key"

	noReport := Default()
	noReport.Report.Enabled = false

	tests := []struct {
		name    string
		mutate  func(*Config)
		base    Config
		setting string
	}{
		{"valid with key", func(*Config) {}, withKey, ""},
		{"missing key", func(*Config) {}, Default(), "GEMINI_API_KEY"},
		{"missing key without reports", func(*Config) {}, noReport, ""},
		{"threshold above one", func(c *Config) { c.Threshold = 1.2 }, withKey, "threshold"},
		{"threshold negative", func(c *Config) { c.Threshold = -0.1 }, withKey, "threshold"},
		{"threshold bounds inclusive", func(c *Config) { c.Threshold = 1 }, withKey, ""},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, withKey, "log_level"},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "carrier-pigeon" }, withKey, "llm.provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.setting == "" {
				assert.NoError(t, err)
				return
			}
			var ce *ConfigurationError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, tt.setting, ce.Setting)
		})
	}
}

func TestMissingKeyHint(t *testing.T) {
	err := Default().Validate()
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Hint, "GEMINI_API_KEY")
	assert.Contains(t, err.Error(), "API key not found")
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
