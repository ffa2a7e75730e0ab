package util

import (
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"code-reviewer/src/config"
)

var defaultLogger atomic.Pointer[zap.Logger]

func init() {
	l, err := NewLogger(config.LoggingConfig{Level: "info", Format: "text", IncludeTimestamp: true})
	if err != nil {
		l = zap.NewNop()
	}
	defaultLogger.Store(l)
}

// NewLogger creates a zap logger from config
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if !cfg.IncludeTimestamp {
		encCfg.TimeKey = zapcore.OmitKey
	}
	if !cfg.IncludeCaller {
		encCfg.CallerKey = zapcore.OmitKey
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	sink := zapcore.Lock(os.Stderr)
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		sink = zapcore.AddSync(f)
	}

	opts := []zap.Option{}
	if cfg.IncludeCaller {
		// skip the package-level helpers below
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	}

	return zap.New(zapcore.NewCore(encoder, sink, level), opts...), nil
}

// SetDefaultLogger updates the default logger with new configuration.
// On failure the previous logger stays in place and the error is returned.
func SetDefaultLogger(cfg config.LoggingConfig) error {
	l, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	if old := defaultLogger.Swap(l); old != nil {
		_ = old.Sync()
	}
	return nil
}

// ReplaceDefaultLogger installs l as the process logger, mainly for tests
func ReplaceDefaultLogger(l *zap.Logger) {
	defaultLogger.Store(l)
}

// L returns the structured default logger
func L() *zap.Logger {
	return defaultLogger.Load()
}

// Sync flushes buffered log entries
func Sync() {
	_ = L().Sync()
}

// Debug logs using the default logger
func Debug(msg string, args ...any) {
	L().Sugar().Debugf(msg, args...)
}

// Info logs using the default logger
func Info(msg string, args ...any) {
	L().Sugar().Infof(msg, args...)
}

// Warn logs using the default logger
func Warn(msg string, args ...any) {
	L().Sugar().Warnf(msg, args...)
}

// Error logs using the default logger
func Error(msg string, args ...any) {
	L().Sugar().Errorf(msg, args...)
}
