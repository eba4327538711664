// Package logger installs the process-wide structured logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
)

var globalLogger *slog.Logger

// InitLogger installs a slog logger at the given level writing to stderr.
func InitLogger(level string) error {
	return InitLoggerTo(os.Stderr, level)
}

// InitLoggerTo is InitLogger with an explicit destination.
func InitLoggerTo(w io.Writer, level string) error {
	var charmLevel charmlog.Level

	switch level {
	case "debug":
		charmLevel = charmlog.DebugLevel
	case "info":
		charmLevel = charmlog.InfoLevel
	case "warn":
		charmLevel = charmlog.WarnLevel
	case "error":
		charmLevel = charmlog.ErrorLevel
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmLevel,
		Prefix:          "ghero",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)

	return nil
}

// GetLogger returns the installed logger, or slog.Default before InitLogger.
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}
