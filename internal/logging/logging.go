// Package logging configures the shared charmbracelet/log logger. The TUI
// owns the terminal, so log output always goes to a file (or nowhere).
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Setup builds a logger writing to <stateRoot>/tidechat.log at the given
// level. When the log file cannot be opened the logger is discarded rather
// than failing startup.
func Setup(stateRoot, level string) *log.Logger {
	var out io.Writer = io.Discard
	if stateRoot != "" {
		path := filepath.Join(stateRoot, "tidechat.log")
		if err := os.MkdirAll(stateRoot, 0o755); err == nil {
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600); err == nil {
				out = f
			}
		}
	}

	logger := log.New(out)
	logger.SetLevel(parseLevel(level))
	logger.SetReportTimestamp(true)
	return logger
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
