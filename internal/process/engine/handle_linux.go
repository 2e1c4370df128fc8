//go:build linux

package engine

import (
	"errors"
	"syscall"
	"time"

	"mishell/internal/process/result"
	pkgerrors "mishell/pkg/errors"

	"golang.org/x/sys/unix"
)

// WaitExit blocks until the process terminates but leaves it unreaped, so
// the pid stays reserved and Kill remains safe until Reap is called.
func (h *Handle) WaitExit() error {
	h.mu.Lock()
	reaped := h.reaped
	h.mu.Unlock()
	if reaped {
		return pkgerrors.New(pkgerrors.ProcessReaped)
	}
	for {
		var info unix.Siginfo
		err := unix.Waitid(unix.P_PID, h.pid, &info, unix.WEXITED|unix.WNOWAIT, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return pkgerrors.Wrapf(err, pkgerrors.WaitFailed, "waitid %d: %v", h.pid, err)
		}
		return nil
	}
}

// Reap collects the exit status and resource usage of a terminated process.
// It waits for termination first, so it never blocks while holding the lock.
// Reaping twice returns a ProcessReaped error.
func (h *Handle) Reap() (result.ExitStatus, result.Usage, error) {
	if err := h.WaitExit(); err != nil && !pkgerrors.Is(err, pkgerrors.WaitFailed) {
		return result.ExitStatus{}, result.Usage{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.reaped {
		return result.ExitStatus{}, result.Usage{}, pkgerrors.New(pkgerrors.ProcessReaped)
	}

	var ws unix.WaitStatus
	var ru unix.Rusage
	var err error
	for {
		_, err = unix.Wait4(h.pid, &ws, 0, &ru)
		if !errors.Is(err, unix.EINTR) {
			break
		}
	}
	h.reaped = true
	if h.proc != nil {
		_ = h.proc.Release()
	}
	if err != nil {
		return result.ExitStatus{}, result.Usage{}, pkgerrors.Wrapf(err, pkgerrors.WaitFailed, "wait4 %d: %v", h.pid, err)
	}

	status := statusFromWait(ws)
	usage := usageFromRusage(&ru)
	if h.onReap != nil {
		h.onReap(status, usage)
	}
	return status, usage, nil
}

// Wait is WaitExit followed by Reap.
func (h *Handle) Wait() (result.ExitStatus, result.Usage, error) {
	return h.Reap()
}

// Kill sends SIGKILL. It refuses to signal a reaped process.
func (h *Handle) Kill() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.reaped {
		return pkgerrors.New(pkgerrors.ProcessReaped)
	}
	if err := unix.Kill(h.pid, unix.SIGKILL); err != nil {
		return pkgerrors.Wrapf(err, pkgerrors.KillFailed, "kill %d: %v", h.pid, err)
	}
	return nil
}

func statusFromWait(ws unix.WaitStatus) result.ExitStatus {
	if ws.Signaled() {
		return result.KilledBy(syscall.Signal(ws.Signal()))
	}
	return result.Exited(ws.ExitStatus())
}

func usageFromRusage(ru *unix.Rusage) result.Usage {
	return result.Usage{
		UserCPU:   time.Duration(ru.Utime.Nano()),
		SystemCPU: time.Duration(ru.Stime.Nano()),
		MaxRSS:    int64(ru.Maxrss),
	}
}
