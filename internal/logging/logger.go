// Package logging builds the zap logger shared by every slidetrans component.
// Messages go to stderr and, unless disabled, are appended to a log file.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogFile is the file log messages are appended to
const DefaultLogFile = "translation_log.txt"

// Options controls logger construction
type Options struct {
	Level   string // debug, info, warn, error
	File    string // empty disables the file sink
	Quiet   bool   // only errors
	Verbose bool   // debug output
}

// New returns a logger writing to stderr and opts.File
func New(opts Options) (*zap.Logger, error) {
	level := ParseLevel(opts.Level)
	switch {
	case opts.Quiet:
		level = zapcore.ErrorLevel
	case opts.Verbose:
		level = zapcore.DebugLevel
	}

	enabler := zap.NewAtomicLevelAt(level)
	encoder := zapcore.NewConsoleEncoder(encoderConfig())

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), enabler),
	}

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.AddSync(f), enabler))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

// ParseLevel maps a level name to a zap level, defaulting to info
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	}
}
