//go:build linux

package engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"mishell/internal/process/result"
	"mishell/internal/process/spec"
	pkgerrors "mishell/pkg/errors"
	"mishell/pkg/utils/logger"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type linuxEngine struct {
	cfg Config
}

// NewEngine creates a Linux process engine.
func NewEngine(cfg Config) (Engine, error) {
	applyDefaults(&cfg)
	return &linuxEngine{cfg: cfg}, nil
}

func (e *linuxEngine) Start(ctx context.Context, stage spec.StageSpec, stdio Stdio) (*Handle, error) {
	if err := stage.Validate(e.cfg.Limits); err != nil {
		return nil, err
	}
	stdio = stdio.resolve(e.cfg)
	argv := stage.Argv()

	// Stdio is always *os.File, so os/exec dups the descriptors straight
	// into the child and starts no copy goroutines. Every other descriptor
	// the shell holds is close-on-exec.
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = stdio.Stdin
	cmd.Stdout = stdio.Stdout
	cmd.Stderr = stdio.Stderr

	if err := cmd.Start(); err != nil {
		if isImageLoadError(err) {
			_, _ = fmt.Fprintf(stdio.Stderr, "mishell: command not found: %s\n", argv[0])
			logger.Debug(ctx, "image load failed", zap.String("program", argv[0]), zap.Error(err))
			return nil, pkgerrors.Wrapf(err, pkgerrors.CommandNotFound, "command not found: %s", argv[0])
		}
		logger.Error(ctx, "start process failed", zap.Strings("argv", argv), zap.Error(err))
		return nil, pkgerrors.Wrapf(err, pkgerrors.ProcessCreateFailed, "start %s: %v", argv[0], err)
	}

	h := &Handle{
		argv: argv,
		pid:  cmd.Process.Pid,
		proc: cmd.Process,
		onReap: func(status result.ExitStatus, usage result.Usage) {
			e.cfg.Observer.ObserveExit(ctx, argv, status, usage)
		},
	}
	e.cfg.Observer.ObserveStart(ctx, argv, h.pid)
	return h, nil
}

func (e *linuxEngine) Run(ctx context.Context, stage spec.StageSpec) (result.StageResult, error) {
	res := result.StageResult{Argv: stage.Argv()}
	h, err := e.Start(ctx, stage, Stdio{})
	if err != nil {
		res.Err = err
		if pkgerrors.Is(err, pkgerrors.CommandNotFound) {
			res.Status = result.NotFound()
			return res, nil
		}
		return res, err
	}
	res.Started = true
	res.Status, res.Usage, res.Err = h.Wait()
	if res.Err != nil {
		logger.Warn(ctx, "wait failed", zap.Int("pid", h.Pid()), zap.Error(res.Err))
	}
	return res, res.Err
}

func (e *linuxEngine) RunPipeline(ctx context.Context, pipeline spec.PipelineSpec) (result.PipelineResult, error) {
	if err := pipeline.Validate(e.cfg.Limits); err != nil {
		return result.PipelineResult{}, err
	}

	n := pipeline.Len()
	res := result.PipelineResult{Stages: make([]result.StageResult, n)}
	handles := make([]*Handle, n)
	for i, stage := range pipeline.Stages {
		res.Stages[i].Argv = stage.Argv()
	}

	var errs error
	// prevRead is the read end left over from the previous stage; it
	// becomes the next child's stdin and is closed here right after.
	var prevRead *os.File
	for i, stage := range pipeline.Stages {
		var nextRead, write *os.File
		if i < n-1 {
			r, w, err := os.Pipe()
			if err != nil {
				perr := pkgerrors.Wrapf(err, pkgerrors.PipeCreateFailed, "pipe for stage %d: %v", i, err)
				res.Stages[i].Err = perr
				errs = multierr.Append(errs, perr)
				break
			}
			nextRead, write = r, w
		}

		h, err := e.Start(ctx, stage, Stdio{Stdin: prevRead, Stdout: write})
		closeQuietly(write)
		closeQuietly(prevRead)
		prevRead = nextRead

		if err != nil {
			res.Stages[i].Err = err
			if pkgerrors.Is(err, pkgerrors.CommandNotFound) {
				res.Stages[i].Status = result.NotFound()
				continue
			}
			errs = multierr.Append(errs, err)
			logger.Warn(ctx, "abandoning pipeline", zap.Int("failed_stage", i), zap.Int("stages", n))
			break
		}
		handles[i] = h
		res.Stages[i].Started = true
	}
	closeQuietly(prevRead)

	for i, h := range handles {
		if h == nil {
			continue
		}
		status, usage, err := h.Wait()
		res.Stages[i].Status = status
		res.Stages[i].Usage = usage
		if err != nil {
			res.Stages[i].Err = err
			errs = multierr.Append(errs, err)
		}
	}
	return res, errs
}
