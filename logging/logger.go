// Package logging defines the logger used across xshift and a zap backed implementation of it.
package logging

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging contract of the engine, the taps and the command line tool.
// *zap.SugaredLogger satisfies it.
type Logger interface {
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Errorln(args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Debugln(args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Warnln(args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Infoln(args ...interface{})

	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Fatalln(args ...interface{})
}

// Format is the output encoding of the log lines
type Format string

const (
	// Console human readable output
	Console Format = "console"
	// JSON one json object per line
	JSON Format = "json"
)

// ErrInvalidLevel raised if the log level is not recognised
var ErrInvalidLevel = errors.New("invalid log level")

// New creates a zap backed logger writing to stderr.
//
// "level" is one of debug, info, warn or error. "fields" are key/value pairs attached to every line.
func New(level string, format Format, fields ...interface{}) (Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if format == JSON {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar().With(fields...), nil
}

// ParseLevel converts the string representation of a log level
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, ErrInvalidLevel
}

// Nop returns a logger which discards everything
func Nop() Logger {
	return zap.NewNop().Sugar()
}

// Sync flushes the buffered log entries, if the logger supports it
func Sync(l Logger) {
	if s, ok := l.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}
