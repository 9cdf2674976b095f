package log

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls the global logger construction.
type Config struct {
	// Level is the minimum enabled level: debug, info, warn or error.
	Level string `conf:"level" yaml:"level" json:"level"`
	// Format selects the encoder: console or json.
	Format string `conf:"format" yaml:"format" json:"format"`
}

// Logger wraps a zap logger with context-aware hooks.
type Logger struct {
	zap *zap.Logger

	mu    sync.RWMutex
	hooks []Hook
}

// New constructs a Logger from the given config.
func New(cfg Config) *Logger {
	level := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil && cfg.Level != "" {
		level = parsed
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)

	return &Logger{
		zap: zap.New(core, zap.AddCallerSkip(2)),
	}
}

// AddHook registers a hook applied to every log entry.
func (l *Logger) AddHook(hook Hook) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.hooks = append(l.hooks, hook)
}

func (l *Logger) applyHooks(ctx context.Context, msg string, fields []Field) []Field {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, hook := range l.hooks {
		fields = hook.Apply(ctx, msg, fields...)
	}

	return fields
}

func (l *Logger) log(ctx context.Context, level zapcore.Level, msg string, fields ...Field) {
	if !l.zap.Core().Enabled(level) {
		return
	}

	fields = l.applyHooks(ctx, msg, fields)

	switch level {
	case zapcore.DebugLevel:
		l.zap.Debug(msg, fields...)
	case zapcore.InfoLevel:
		l.zap.Info(msg, fields...)
	case zapcore.WarnLevel:
		l.zap.Warn(msg, fields...)
	case zapcore.ErrorLevel:
		l.zap.Error(msg, fields...)
	default:
		l.zap.Info(msg, fields...)
	}
}

var (
	globalMu sync.RWMutex
	global   = New(Config{Level: "info"})
)

// SetGlobal replaces the process-wide logger.
func SetGlobal(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()

	global = logger
}

func getGlobal() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()

	return global
}

// Debug logs a debug message with context fields applied.
func Debug(ctx context.Context, msg string, fields ...Field) {
	getGlobal().log(ctx, zapcore.DebugLevel, msg, fields...)
}

// Info logs an info message with context fields applied.
func Info(ctx context.Context, msg string, fields ...Field) {
	getGlobal().log(ctx, zapcore.InfoLevel, msg, fields...)
}

// Warn logs a warning message with context fields applied.
func Warn(ctx context.Context, msg string, fields ...Field) {
	getGlobal().log(ctx, zapcore.WarnLevel, msg, fields...)
}

// Error logs an error message with context fields applied.
func Error(ctx context.Context, msg string, fields ...Field) {
	getGlobal().log(ctx, zapcore.ErrorLevel, msg, fields...)
}

// DebugEnabled reports whether debug logging is enabled.
func DebugEnabled(ctx context.Context) bool {
	return getGlobal().zap.Core().Enabled(zapcore.DebugLevel)
}
