// Package logger is the shell's structured logger: a zap core plus
// package-level helpers that attach the invocation fields found in a context.
package logger

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"mishell/pkg/utils/contextkey"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global atomic.Pointer[Logger]

// Logger wraps zap logger with context support
type Logger struct {
	zap *zap.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	OutputPath string // file path, "stdout" or "stderr"
}

// Init builds a logger from cfg and installs it globally.
func Init(cfg Config) error {
	l, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	global.Store(l)
	return nil
}

// NewLogger creates a new logger instance
func NewLogger(cfg Config) (*Logger, error) {
	level := zapcore.WarnLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	sink, isTerminal, err := openSink(cfg.OutputPath)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	case "", "console":
		if isTerminal {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	core := zapcore.NewCore(encoder, sink, level)
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(zapcore.ErrorLevel)).
		Named("mishell")
	return &Logger{zap: z}, nil
}

// NewFromZap adapts an existing zap logger, mostly for tests.
func NewFromZap(z *zap.Logger) *Logger {
	return &Logger{zap: z}
}

// openSink resolves an output path. Standard streams are reported as
// terminals so the console encoder may colour levels.
func openSink(path string) (zapcore.WriteSyncer, bool, error) {
	switch path {
	case "", "stderr":
		return zapcore.Lock(os.Stderr), true, nil
	case "stdout":
		return zapcore.Lock(os.Stdout), true, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, false, fmt.Errorf("open log output %s: %w", path, err)
	}
	return zapcore.Lock(f), false, nil
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// WithContext returns the zap logger with the context's invocation fields.
func (l *Logger) WithContext(ctx context.Context) *zap.Logger {
	return l.zap.With(contextFields(ctx)...)
}

func contextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	var fields []zap.Field
	if id, ok := ctx.Value(contextkey.InvocationID).(string); ok {
		fields = append(fields, zap.String("invocation_id", id))
	}
	if cmd, ok := ctx.Value(contextkey.Command).(string); ok {
		fields = append(fields, zap.String("command", cmd))
	}
	return fields
}

func write(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) {
	l := global.Load()
	if l == nil {
		return
	}
	// Check first so disabled levels skip building context fields.
	if ce := l.zap.Check(level, msg); ce == nil {
		return
	}
	l.WithContext(ctx).Log(level, msg, fields...)
}

func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	write(ctx, zapcore.DebugLevel, msg, fields)
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	write(ctx, zapcore.InfoLevel, msg, fields)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	write(ctx, zapcore.WarnLevel, msg, fields)
}

func Error(ctx context.Context, msg string, fields ...zap.Field) {
	write(ctx, zapcore.ErrorLevel, msg, fields)
}

// Sync flushes the global logger
func Sync() error {
	l := global.Load()
	if l == nil {
		return nil
	}
	return l.Sync()
}

// SetLogger replaces the global logger and returns the previous one.
func SetLogger(l *Logger) *Logger {
	return global.Swap(l)
}
