// Package logging exposes a simple zap logger, with log levels.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LevelInfo sets the log level to info
	LevelInfo = "info"

	// LevelDebug sets the log level to debug
	LevelDebug = "debug"

	// LevelNone disables logging entirely
	LevelNone = "none"
)

// New returns a zap logger with the specified level
func New(level string) (*zap.Logger, error) {
	if level == LevelNone {
		return zap.NewNop(), nil
	}
	zapConfig := zap.NewProductionConfig()
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	return zapConfig.Build()
}

// MustNew returns a zap logger with the specified level or panics
func MustNew(level string) *zap.Logger {
	l, err := New(level)
	if err != nil {
		panic(err)
	}
	return l
}
