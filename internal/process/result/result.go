// Package result defines process exit status and resource accounting.
package result

import (
	"fmt"
	"strings"
	"syscall"
	"time"
)

// NotFoundExitCode is reported for a stage whose program image could not be loaded.
const NotFoundExitCode = 127

// ExitStatus is how a process terminated.
type ExitStatus struct {
	Code     int
	Signaled bool
	Signal   syscall.Signal
}

// Exited builds a normal-exit status.
func Exited(code int) ExitStatus {
	return ExitStatus{Code: code}
}

// KilledBy builds a signal-terminated status. Code follows the shell
// convention of 128+signo.
func KilledBy(sig syscall.Signal) ExitStatus {
	return ExitStatus{Code: 128 + int(sig), Signaled: true, Signal: sig}
}

// NotFound is the status of a stage whose program could not be loaded.
func NotFound() ExitStatus {
	return Exited(NotFoundExitCode)
}

// Success reports a zero normal exit.
func (s ExitStatus) Success() bool {
	return !s.Signaled && s.Code == 0
}

func (s ExitStatus) String() string {
	if s.Signaled {
		return fmt.Sprintf("signal: %s", s.Signal)
	}
	return fmt.Sprintf("exit status %d", s.Code)
}

// Usage is OS-reported resource accounting for one process.
type Usage struct {
	UserCPU   time.Duration
	SystemCPU time.Duration
	// MaxRSS is ru_maxrss as reported by the kernel (KiB on Linux).
	MaxRSS int64
}

// UsageReport is the outcome of one profiled invocation.
type UsageReport struct {
	Command  []string
	Wall     time.Duration
	Usage    Usage
	Status   ExitStatus
	TimedOut bool
}

// CommandLine joins the profiled argv with single spaces.
func (r UsageReport) CommandLine() string {
	return strings.Join(r.Command, " ")
}

// StageResult is the outcome of one pipeline stage.
type StageResult struct {
	Argv    []string
	Started bool
	Status  ExitStatus
	Usage   Usage
	Err     error
}

// PipelineResult collects stage results in pipeline order.
type PipelineResult struct {
	Stages []StageResult
}

// Last returns the final stage result, which is the pipeline's status in sh terms.
func (p PipelineResult) Last() (StageResult, bool) {
	if len(p.Stages) == 0 {
		return StageResult{}, false
	}
	return p.Stages[len(p.Stages)-1], true
}

// Statuses returns the exit status of every stage, in order.
func (p PipelineResult) Statuses() []ExitStatus {
	out := make([]ExitStatus, len(p.Stages))
	for i, st := range p.Stages {
		out[i] = st.Status
	}
	return out
}
