// Package logging holds the slog level and loggers shared by all imbridge packages.
package logging

import (
	"log/slog"
	"os"
)

// level controls the log level for every component logger.
// Default is LevelInfo, which suppresses Debug messages.
var level = new(slog.LevelVar)

// SetVerbose enables or disables debug logging.
func SetVerbose(v bool) {
	if v {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

// Verbose returns true if debug logging is enabled.
func Verbose() bool {
	return level.Level() <= slog.LevelDebug
}

var handler slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})

// Logger returns a logger tagged with the given component name.
func Logger(component string) *slog.Logger {
	return slog.New(handler).With("component", component)
}
