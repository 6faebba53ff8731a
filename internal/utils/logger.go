package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	loggerEncoding   = "console"
	loggerMessageKey = "message"
	loggerLevelKey   = "level"
	loggerOutput     = "stderr"
)

// NewApplicationLogger builds the console logger shared by every command.
// Without debug only warnings about cache writes and similar failures surface,
// and the level column is hidden.
func NewApplicationLogger(debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     loggerMessageKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	if debug {
		level = zapcore.DebugLevel
		encoderConfig.LevelKey = loggerLevelKey
	}
	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          loggerEncoding,
		EncoderConfig:     encoderConfig,
		OutputPaths:       []string{loggerOutput},
		ErrorOutputPaths:  []string{loggerOutput},
		DisableCaller:     true,
		DisableStacktrace: true,
	}
	return config.Build()
}
