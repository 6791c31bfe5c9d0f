// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
)

// New returns a tint-formatted logger writing to w at level. Colors are
// disabled unless w is a terminal-backed *os.File.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !isTerminal(w),
	}))
}

// Setup installs a stderr logger as the slog default and returns it.
func Setup(level slog.Level) *slog.Logger {
	logger := New(os.Stderr, level)
	slog.SetDefault(logger)
	return logger
}

// SetupFile installs a logger that appends to the session log file, for
// when stdout and stderr belong to the TUI. If the file cannot be opened
// logs are discarded. The returned func closes the file.
func SetupFile(level slog.Level) (*slog.Logger, func()) {
	path, err := FilePath()
	if err == nil {
		var f *os.File
		if f, err = openLogFile(path); err == nil {
			logger := New(f, level)
			slog.SetDefault(logger)
			return logger, func() { f.Close() }
		}
	}

	logger := slog.New(slog.DiscardHandler)
	slog.SetDefault(logger)
	return logger, func() {}
}

// FilePath resolves the log file location:
// $XDG_STATE_HOME/aquasafe/aquasafe.log, falling back to ~/.local/state.
func FilePath() (string, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "aquasafe", "aquasafe.log"), nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
