package observer

import (
	"context"
	"syscall"
	"testing"
	"time"

	"mishell/internal/process/result"
	"mishell/pkg/utils/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapobserver "go.uber.org/zap/zaptest/observer"
)

func TestLogObserverLevels(t *testing.T) {
	core, logs := zapobserver.New(zapcore.DebugLevel)
	prev := logger.SetLogger(logger.NewFromZap(zap.New(core)))
	defer logger.SetLogger(prev)

	o := NewLogObserver()
	ctx := context.Background()
	o.ObserveStart(ctx, []string{"sleep", "1"}, 42)
	o.ObserveExit(ctx, []string{"sleep", "1"}, result.KilledBy(syscall.SIGKILL), result.Usage{})
	o.ObserveProfile(ctx, result.UsageReport{Command: []string{"sleep", "10"}, Wall: time.Second, TimedOut: true})
	o.ObserveProfile(ctx, result.UsageReport{Command: []string{"true"}})

	entries := logs.All()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	if entries[1].ContextMap()["signal"] != "killed" {
		t.Fatalf("expected signal field, got %v", entries[1].ContextMap())
	}
	if entries[2].Level != zapcore.WarnLevel {
		t.Fatalf("timeout should log at warn, got %s", entries[2].Level)
	}
	if entries[3].Level != zapcore.InfoLevel {
		t.Fatalf("normal profile should log at info, got %s", entries[3].Level)
	}
}

func TestNopObserver(t *testing.T) {
	var o Observer = Nop{}
	o.ObserveStart(context.Background(), nil, 0)
	o.ObserveExit(context.Background(), nil, result.Exited(0), result.Usage{})
	o.ObserveProfile(context.Background(), result.UsageReport{})
}
