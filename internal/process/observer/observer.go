// Package observer defines logging hooks for process execution.
package observer

import (
	"context"

	"mishell/internal/process/result"
	"mishell/pkg/utils/logger"

	"go.uber.org/zap"
)

// Observer receives process lifecycle events.
type Observer interface {
	ObserveStart(ctx context.Context, argv []string, pid int)
	ObserveExit(ctx context.Context, argv []string, status result.ExitStatus, usage result.Usage)
	ObserveProfile(ctx context.Context, report result.UsageReport)
}

// Nop discards every event.
type Nop struct{}

func (Nop) ObserveStart(context.Context, []string, int)                            {}
func (Nop) ObserveExit(context.Context, []string, result.ExitStatus, result.Usage) {}
func (Nop) ObserveProfile(context.Context, result.UsageReport)                     {}

// LogObserver writes events to the global zap logger.
type LogObserver struct{}

// NewLogObserver returns an Observer backed by pkg/utils/logger.
func NewLogObserver() *LogObserver {
	return &LogObserver{}
}

func (o *LogObserver) ObserveStart(ctx context.Context, argv []string, pid int) {
	logger.Debug(ctx, "process started", zap.Strings("argv", argv), zap.Int("pid", pid))
}

func (o *LogObserver) ObserveExit(ctx context.Context, argv []string, status result.ExitStatus, usage result.Usage) {
	fields := []zap.Field{
		zap.Strings("argv", argv),
		zap.Int("exit_code", status.Code),
		zap.Duration("user", usage.UserCPU),
		zap.Duration("sys", usage.SystemCPU),
		zap.Int64("maxrss", usage.MaxRSS),
	}
	if status.Signaled {
		fields = append(fields, zap.String("signal", status.Signal.String()))
	}
	logger.Debug(ctx, "process exited", fields...)
}

func (o *LogObserver) ObserveProfile(ctx context.Context, report result.UsageReport) {
	fields := []zap.Field{
		zap.String("command", report.CommandLine()),
		zap.Duration("real", report.Wall),
		zap.Duration("user", report.Usage.UserCPU),
		zap.Duration("sys", report.Usage.SystemCPU),
		zap.Int64("maxrss", report.Usage.MaxRSS),
		zap.Stringer("status", report.Status),
	}
	if report.TimedOut {
		logger.Warn(ctx, "profiled command killed by timeout", fields...)
		return
	}
	logger.Info(ctx, "profiled command finished", fields...)
}
