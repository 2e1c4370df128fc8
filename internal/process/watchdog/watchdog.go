// Package watchdog enforces a wall-clock limit on one running process.
//
// An Enforcer owns a single target slot. Arm fills the slot and starts a
// timer, Disarm clears it, and the timer callback kills whatever the slot
// holds. All three take the same mutex, and the callback re-checks the
// ticket generation under it, so a kill is either delivered while the
// caller still owns a live process or suppressed entirely.
package watchdog

import (
	"sync"
	"time"

	pkgerrors "mishell/pkg/errors"
)

// State is the enforcer's position in its Disarmed -> Armed -> Fired cycle.
type State int

const (
	Disarmed State = iota
	Armed
	Fired
)

func (s State) String() string {
	switch s {
	case Disarmed:
		return "disarmed"
	case Armed:
		return "armed"
	case Fired:
		return "fired"
	default:
		return "unknown"
	}
}

// Target is anything that can be forcibly terminated.
type Target interface {
	Kill() error
}

// Ticket identifies one Arm call. It must be handed back to Disarm.
type Ticket struct {
	gen uint64
}

// Timer is the subset of *time.Timer the enforcer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d; it matches time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

// Option configures an Enforcer.
type Option func(*Enforcer)

// WithAfterFunc replaces the scheduler, for tests.
func WithAfterFunc(fn AfterFunc) Option {
	return func(e *Enforcer) {
		e.afterFunc = fn
	}
}

// WithKillErrorHandler receives errors returned by Target.Kill.
func WithKillErrorHandler(fn func(error)) Option {
	return func(e *Enforcer) {
		e.onKillError = fn
	}
}

// Enforcer is a one-slot watchdog.
type Enforcer struct {
	mu          sync.Mutex
	gen         uint64
	target      Target
	timer       Timer
	state       State
	afterFunc   AfterFunc
	onKillError func(error)
}

// New creates a disarmed enforcer.
func New(opts ...Option) *Enforcer {
	e := &Enforcer{
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Arm registers target and, when d > 0, schedules a kill after d.
// With d <= 0 the target is registered but never killed.
func (e *Enforcer) Arm(target Target, d time.Duration) (Ticket, error) {
	if target == nil {
		return Ticket{}, pkgerrors.ValidationError("target", "is required")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Disarmed {
		return Ticket{}, pkgerrors.New(pkgerrors.WatchdogBusy)
	}
	e.gen++
	gen := e.gen
	e.target = target
	e.state = Armed
	if d > 0 {
		e.timer = e.afterFunc(d, func() { e.fire(gen) })
	}
	return Ticket{gen: gen}, nil
}

// Disarm stops the timer and clears the slot. It reports whether the
// enforcer fired for this ticket. A stale ticket is a no-op returning false.
func (e *Enforcer) Disarm(t Ticket) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t.gen != e.gen || e.state == Disarmed {
		return false
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	fired := e.state == Fired
	e.target = nil
	e.state = Disarmed
	return fired
}

// State returns the current state.
func (e *Enforcer) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Enforcer) fire(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.state != Armed || e.target == nil {
		return
	}
	if err := e.target.Kill(); err != nil && e.onKillError != nil {
		e.onKillError(err)
	}
	e.target = nil
	e.timer = nil
	e.state = Fired
}
