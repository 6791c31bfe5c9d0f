// Package config resolves runtime settings from defaults, an optional YAML
// file and AQUASAFE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/aquasafe/internal/llm"
)

// DefaultThreshold is the probability at or above which a sample that
// passes every rule is called safe.
const DefaultThreshold = 0.5

// Config holds all runtime settings.
type Config struct {
	// Threshold is the decision threshold in [0, 1].
	Threshold float64 `yaml:"threshold"`

	// ModelPath points at a classifier artifact. Empty uses the built-in
	// model.
	ModelPath string `yaml:"model_path"`

	Report ReportConfig `yaml:"report"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	LLM llm.Config `yaml:"llm"`
}

// ReportConfig controls the advisory report.
type ReportConfig struct {
	Enabled   bool `yaml:"enabled"`
	MaxTokens int  `yaml:"max_tokens"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Threshold: DefaultThreshold,
		Report: ReportConfig{
			Enabled:   true,
			MaxTokens: 4096,
		},
		LogLevel: "info",
		LLM:      llm.DefaultConfig(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/aquasafe/config.yaml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "aquasafe", "config.yaml"), nil
}

// Load builds a Config. An explicit path must exist; when path is empty
// the default location is read if present. Environment overrides are
// applied last. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, &ConfigurationError{
					Setting: "config file",
					Reason:  "cannot parse " + path,
					Err:     err,
				}
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return cfg, &ConfigurationError{
				Setting: "config file",
				Reason:  "cannot read " + path,
				Err:     err,
			}
		}
	}

	return applyEnv(cfg)
}

func applyEnv(cfg Config) (Config, error) {
	if v := os.Getenv("AQUASAFE_THRESHOLD"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, &ConfigurationError{Setting: "AQUASAFE_THRESHOLD", Reason: "not a number", Err: err}
		}
		cfg.Threshold = t
	}
	if v := os.Getenv("AQUASAFE_MODEL_PATH"); v != "" {
		cfg.ModelPath = v
	}
	if v := os.Getenv("AQUASAFE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("AQUASAFE_REPORT"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, &ConfigurationError{Setting: "AQUASAFE_REPORT", Reason: "not a boolean", Err: err}
		}
		cfg.Report.Enabled = on
	}

	cfg.LLM = llm.ApplyEnv(cfg.LLM)
	return cfg, nil
}

// Validate checks the settings needed before any sample is evaluated.
// Provider credentials are only required when reports are enabled.
func (c Config) Validate() error {
	if math.IsNaN(c.Threshold) || c.Threshold < 0 || c.Threshold > 1 {
		return &ConfigurationError{
			Setting: "threshold",
			Reason:  fmt.Sprintf("%g is outside [0, 1]", c.Threshold),
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return &ConfigurationError{Setting: "log_level", Reason: err.Error()}
	}
	if !c.Report.Enabled {
		return nil
	}
	if err := c.LLM.Validate(); err != nil {
		ce := &ConfigurationError{
			Setting: "llm.provider",
			Reason:  "report generation is not configured",
			Err:     err,
		}
		if env := llm.APIKeyEnv(c.LLM.Provider); env != "" {
			ce.Setting = env
			ce.Reason = "API key not found"
			ce.Hint = fmt.Sprintf("export %s=... or run with --no-report", env)
		}
		return ce
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}
