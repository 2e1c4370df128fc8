// Package engine creates OS processes, wires pipelines and reaps children.
package engine

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"mishell/internal/process/observer"
	"mishell/internal/process/result"
	"mishell/internal/process/spec"
)

// Engine runs stages and pipelines of external programs.
type Engine interface {
	// Start creates one process and returns its handle without waiting.
	// The caller owns the handle and must Wait or Reap it exactly once.
	Start(ctx context.Context, stage spec.StageSpec, stdio Stdio) (*Handle, error)
	// Run starts one process with the engine's stdio and waits for it.
	Run(ctx context.Context, stage spec.StageSpec) (result.StageResult, error)
	// RunPipeline connects stage i's stdout to stage i+1's stdin and waits
	// for every started stage in creation order.
	RunPipeline(ctx context.Context, pipeline spec.PipelineSpec) (result.PipelineResult, error)
}

// Stdio overrides the standard streams of one process. Nil fields fall back
// to the engine defaults.
type Stdio struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// Config controls engine behavior.
type Config struct {
	Stdin    *os.File
	Stdout   *os.File
	Stderr   *os.File
	Limits   spec.Limits
	Observer observer.Observer
}

func applyDefaults(cfg *Config) {
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	if cfg.Limits == (spec.Limits{}) {
		cfg.Limits = spec.DefaultLimits()
	}
	if cfg.Observer == nil {
		cfg.Observer = observer.Nop{}
	}
}

func (s Stdio) resolve(cfg Config) Stdio {
	if s.Stdin == nil {
		s.Stdin = cfg.Stdin
	}
	if s.Stdout == nil {
		s.Stdout = cfg.Stdout
	}
	if s.Stderr == nil {
		s.Stderr = cfg.Stderr
	}
	return s
}

// Handle is a created, not yet reaped process. Once reaped, it never
// signals the pid again.
type Handle struct {
	argv   []string
	pid    int
	proc   *os.Process
	onReap func(result.ExitStatus, result.Usage)

	mu     sync.Mutex
	reaped bool
}

// Pid returns the OS process id.
func (h *Handle) Pid() int {
	return h.pid
}

// Argv returns the argument vector the process was started with.
func (h *Handle) Argv() []string {
	return h.argv
}

// isImageLoadError reports failures to resolve or load the program image,
// which the shell reports as "command not found" rather than a creation error.
func isImageLoadError(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, exec.ErrDot) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.ENOEXEC) ||
		errors.Is(err, syscall.ENOTDIR) ||
		errors.Is(err, syscall.EISDIR)
}

func closeQuietly(f *os.File) {
	if f != nil {
		_ = f.Close()
	}
}
