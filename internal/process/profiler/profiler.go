// Package profiler measures one external program: wall clock, CPU time and
// peak memory, with an optional enforced timeout and an append-only log.
package profiler

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"mishell/internal/process/engine"
	"mishell/internal/process/observer"
	"mishell/internal/process/result"
	"mishell/internal/process/spec"
	"mishell/internal/process/watchdog"
	pkgerrors "mishell/pkg/errors"
	"mishell/pkg/utils/logger"

	"go.uber.org/zap"
)

// Request describes one profiled invocation.
type Request struct {
	Stage   spec.StageSpec
	Timeout spec.TimeoutSpec
	// Log receives one record when set. The caller owns and closes it.
	Log *LogFile
}

// Option configures a Profiler.
type Option func(*Profiler)

// WithObserver sets the observer notified of finished profiles.
func WithObserver(obs observer.Observer) Option {
	return func(p *Profiler) {
		p.observer = obs
	}
}

// WithStderr sets where diagnostics for the user are written.
func WithStderr(w io.Writer) Option {
	return func(p *Profiler) {
		p.stderr = w
	}
}

// Profiler runs single stages under the watchdog.
type Profiler struct {
	engine   engine.Engine
	enforcer *watchdog.Enforcer
	observer observer.Observer
	stderr   io.Writer
}

// New creates a Profiler. The enforcer is shared by every Profile call, so
// only one profile may run at a time.
func New(eng engine.Engine, enforcer *watchdog.Enforcer, opts ...Option) *Profiler {
	p := &Profiler{
		engine:   eng,
		enforcer: enforcer,
		observer: observer.Nop{},
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Profile runs req.Stage to completion or until its timeout and returns the
// usage report. A creation failure other than "command not found" returns
// an error and no report. A log append failure returns both.
func (p *Profiler) Profile(ctx context.Context, req Request) (result.UsageReport, error) {
	report := result.UsageReport{Command: req.Stage.Argv()}

	start := time.Now()
	h, err := p.engine.Start(ctx, req.Stage, engine.Stdio{})
	if err != nil {
		if !pkgerrors.Is(err, pkgerrors.CommandNotFound) {
			return result.UsageReport{}, err
		}
		report.Wall = time.Since(start)
		report.Status = result.NotFound()
		return p.finish(ctx, req, report)
	}

	ticket, err := p.enforcer.Arm(h, req.Timeout.Duration())
	if err != nil {
		// Nothing may run unsupervised when a timeout was asked for.
		if req.Timeout.Enabled() {
			_ = h.Kill()
			_, _, _ = h.Reap()
			return result.UsageReport{}, err
		}
		logger.Warn(ctx, "watchdog unavailable", zap.Error(err))
	}

	if err := h.WaitExit(); err != nil {
		logger.Warn(ctx, "wait for exit failed", zap.Int("pid", h.Pid()), zap.Error(err))
	}
	// The child is a zombie here, so its pid cannot be reused before the
	// watchdog is disarmed.
	fired := p.enforcer.Disarm(ticket)

	status, usage, err := h.Reap()
	report.Wall = time.Since(start)
	if err != nil {
		logger.Error(ctx, "collect usage failed", zap.Int("pid", h.Pid()), zap.Error(err))
		_, _ = fmt.Fprintf(p.stderr, "mishell: %v\n", err)
	}
	report.Status = status
	report.Usage = usage
	report.TimedOut = fired

	if fired {
		logger.Warn(ctx, "profiled command timed out",
			zap.Strings("argv", report.Command),
			zap.Int("timeout_seconds", req.Timeout.Seconds),
		)
		_, _ = fmt.Fprintf(p.stderr, "mishell: %s: killed after %ds timeout\n", req.Stage.Program(), req.Timeout.Seconds)
	}
	return p.finish(ctx, req, report)
}

func (p *Profiler) finish(ctx context.Context, req Request, report result.UsageReport) (result.UsageReport, error) {
	p.observer.ObserveProfile(ctx, report)
	if req.Log == nil {
		return report, nil
	}
	if err := req.Log.Append(report); err != nil {
		logger.Error(ctx, "append profiling record failed", zap.String("path", req.Log.Path()), zap.Error(err))
		return report, err
	}
	return report, nil
}
