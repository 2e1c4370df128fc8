// Package spec defines what the shell asks the process layer to execute.
package spec

import (
	"math"
	"strconv"
	"strings"
	"time"

	pkgerrors "mishell/pkg/errors"
)

const (
	DefaultMaxArgs      = 256
	DefaultMaxStages    = 128
	DefaultMaxLineBytes = 4096
)

// Limits are sanity bounds on what a single input line may request.
type Limits struct {
	MaxArgs      int
	MaxStages    int
	MaxLineBytes int
}

// DefaultLimits returns the bounds used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxArgs:      DefaultMaxArgs,
		MaxStages:    DefaultMaxStages,
		MaxLineBytes: DefaultMaxLineBytes,
	}
}

// StageSpec is one program invocation: program name followed by its arguments.
type StageSpec struct {
	argv []string
}

// NewStage copies argv into a new StageSpec.
func NewStage(argv ...string) StageSpec {
	cp := make([]string, len(argv))
	copy(cp, argv)
	return StageSpec{argv: cp}
}

// Argv returns a copy of the argument vector.
func (s StageSpec) Argv() []string {
	cp := make([]string, len(s.argv))
	copy(cp, s.argv)
	return cp
}

// Program returns argv[0], or "" for an empty stage.
func (s StageSpec) Program() string {
	if len(s.argv) == 0 {
		return ""
	}
	return s.argv[0]
}

// Args returns the arguments after the program name.
func (s StageSpec) Args() []string {
	if len(s.argv) < 2 {
		return nil
	}
	return s.Argv()[1:]
}

func (s StageSpec) String() string {
	return strings.Join(s.argv, " ")
}

// Validate checks the stage against the limits.
func (s StageSpec) Validate(limits Limits) error {
	if len(s.argv) == 0 || s.argv[0] == "" {
		return pkgerrors.New(pkgerrors.InvalidStage).WithMessage("empty command")
	}
	if limits.MaxArgs > 0 && len(s.argv) > limits.MaxArgs {
		return pkgerrors.Newf(pkgerrors.TooManyArgs, "too many arguments: %d > %d", len(s.argv), limits.MaxArgs)
	}
	return nil
}

// PipelineSpec is an ordered list of stages; stage i feeds stage i+1.
type PipelineSpec struct {
	Stages []StageSpec
}

// NewPipeline builds a pipeline from stages.
func NewPipeline(stages ...StageSpec) PipelineSpec {
	cp := make([]StageSpec, len(stages))
	copy(cp, stages)
	return PipelineSpec{Stages: cp}
}

// Len returns the number of stages.
func (p PipelineSpec) Len() int {
	return len(p.Stages)
}

// Validate checks stage count and each stage.
func (p PipelineSpec) Validate(limits Limits) error {
	if len(p.Stages) == 0 {
		return pkgerrors.New(pkgerrors.InvalidStage).WithMessage("empty pipeline")
	}
	if limits.MaxStages > 0 && len(p.Stages) > limits.MaxStages {
		return pkgerrors.Newf(pkgerrors.PipelineTooLong, "too many pipeline stages: %d > %d", len(p.Stages), limits.MaxStages)
	}
	for i, stage := range p.Stages {
		if err := stage.Validate(limits); err != nil {
			return pkgerrors.GetError(err).WithDetail("stage", i)
		}
	}
	return nil
}

// TimeoutSpec is an optional wall-clock limit in whole seconds. Zero means none.
type TimeoutSpec struct {
	Seconds int
}

// NoTimeout is the absent timeout.
var NoTimeout = TimeoutSpec{}

// MaxTimeoutSeconds is the largest limit a time.Duration can hold.
const MaxTimeoutSeconds = math.MaxInt64 / int64(time.Second)

// ParseTimeout accepts a positive base-10 integer.
func ParseTimeout(raw string) (TimeoutSpec, error) {
	secs, err := strconv.Atoi(raw)
	if err != nil {
		return NoTimeout, pkgerrors.Newf(pkgerrors.InvalidTimeout, "invalid seconds: %q", raw)
	}
	if secs <= 0 {
		return NoTimeout, pkgerrors.Newf(pkgerrors.InvalidTimeout, "seconds must be positive: %d", secs)
	}
	if int64(secs) > MaxTimeoutSeconds {
		return NoTimeout, pkgerrors.Newf(pkgerrors.InvalidTimeout, "seconds too large: %d > %d", secs, MaxTimeoutSeconds)
	}
	return TimeoutSpec{Seconds: secs}, nil
}

// Enabled reports whether a limit is set.
func (t TimeoutSpec) Enabled() bool {
	return t.Seconds > 0
}

// Duration converts the limit to a time.Duration; zero when disabled.
// Limits beyond MaxTimeoutSeconds saturate instead of wrapping.
func (t TimeoutSpec) Duration() time.Duration {
	if !t.Enabled() {
		return 0
	}
	if int64(t.Seconds) > MaxTimeoutSeconds {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(t.Seconds) * time.Second
}
