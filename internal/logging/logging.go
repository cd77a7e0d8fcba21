// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the root logger. With an empty filePath it writes
// human-readable output to stderr; otherwise JSON lines go to a
// size-rotated file.
func New(level string, filePath string) zerolog.Logger {
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}

	if filePath != "" {
		out = &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
		}
	}

	return zerolog.New(out).Level(parseLevel(level)).With().Timestamp().Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
