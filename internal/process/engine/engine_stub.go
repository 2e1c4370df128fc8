//go:build !linux

package engine

import (
	"context"

	"mishell/internal/process/result"
	"mishell/internal/process/spec"
	pkgerrors "mishell/pkg/errors"
)

type stubEngine struct{}

func NewEngine(cfg Config) (Engine, error) {
	return &stubEngine{}, nil
}

func unsupported() error {
	return pkgerrors.New(pkgerrors.ProcessCreateFailed).WithMessage("process engine is only supported on linux")
}

func (s *stubEngine) Start(ctx context.Context, stage spec.StageSpec, stdio Stdio) (*Handle, error) {
	return nil, unsupported()
}

func (s *stubEngine) Run(ctx context.Context, stage spec.StageSpec) (result.StageResult, error) {
	return result.StageResult{}, unsupported()
}

func (s *stubEngine) RunPipeline(ctx context.Context, pipeline spec.PipelineSpec) (result.PipelineResult, error) {
	return result.PipelineResult{}, unsupported()
}

func (h *Handle) WaitExit() error {
	return unsupported()
}

func (h *Handle) Reap() (result.ExitStatus, result.Usage, error) {
	return result.ExitStatus{}, result.Usage{}, unsupported()
}

func (h *Handle) Wait() (result.ExitStatus, result.Usage, error) {
	return h.Reap()
}

func (h *Handle) Kill() error {
	return unsupported()
}
