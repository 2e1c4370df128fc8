package spec

import (
	"math"
	"strings"
	"testing"
	"time"

	pkgerrors "mishell/pkg/errors"
)

func TestStageIsImmutable(t *testing.T) {
	argv := []string{"echo", "a"}
	stage := NewStage(argv...)
	argv[1] = "changed"

	got := stage.Argv()
	if got[1] != "a" {
		t.Fatalf("stage should copy argv, got %q", got[1])
	}
	got[0] = "rm"
	if stage.Program() != "echo" {
		t.Fatalf("Argv should return a copy, program is %q", stage.Program())
	}
	if strings.Join(stage.Args(), ",") != "a" {
		t.Fatalf("unexpected args: %v", stage.Args())
	}
}

func TestStageValidate(t *testing.T) {
	limits := Limits{MaxArgs: 3}
	cases := []struct {
		name string
		argv []string
		code pkgerrors.ErrorCode
	}{
		{name: "ok", argv: []string{"ls", "-l"}},
		{name: "empty", argv: nil, code: pkgerrors.InvalidStage},
		{name: "empty_program", argv: []string{""}, code: pkgerrors.InvalidStage},
		{name: "too_many", argv: []string{"a", "b", "c", "d"}, code: pkgerrors.TooManyArgs},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewStage(tc.argv...).Validate(limits)
			if tc.code == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !pkgerrors.Is(err, tc.code) {
				t.Fatalf("expected code %d, got %v", tc.code, err)
			}
		})
	}
}

func TestPipelineValidate(t *testing.T) {
	limits := Limits{MaxStages: 2, MaxArgs: 10}
	if err := NewPipeline().Validate(limits); !pkgerrors.Is(err, pkgerrors.InvalidStage) {
		t.Fatalf("empty pipeline should be invalid, got %v", err)
	}
	long := NewPipeline(NewStage("a"), NewStage("b"), NewStage("c"))
	if err := long.Validate(limits); !pkgerrors.Is(err, pkgerrors.PipelineTooLong) {
		t.Fatalf("expected PipelineTooLong, got %v", err)
	}
	bad := NewPipeline(NewStage("a"), NewStage())
	err := bad.Validate(limits)
	if !pkgerrors.Is(err, pkgerrors.InvalidStage) {
		t.Fatalf("expected InvalidStage, got %v", err)
	}
	if pkgerrors.GetError(err).Details["stage"] != 1 {
		t.Fatalf("expected stage detail 1, got %v", pkgerrors.GetError(err).Details)
	}
}

func TestParseTimeout(t *testing.T) {
	cases := []struct {
		raw  string
		want int
		ok   bool
	}{
		{raw: "1", want: 1, ok: true},
		{raw: "30", want: 30, ok: true},
		{raw: "0"},
		{raw: "-2"},
		{raw: "abc"},
		{raw: "1.5"},
		{raw: ""},
		{raw: "9223372036", want: 9223372036, ok: true},
		{raw: "9223372037"},
		{raw: "18446744074"},
		{raw: "99999999999999999999"},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseTimeout(tc.raw)
			if !tc.ok {
				if !pkgerrors.Is(err, pkgerrors.InvalidTimeout) {
					t.Fatalf("expected InvalidTimeout, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Seconds != tc.want || got.Duration() != time.Duration(tc.want)*time.Second {
				t.Fatalf("unexpected timeout: %+v", got)
			}
		})
	}
	if NoTimeout.Enabled() || NoTimeout.Duration() != 0 {
		t.Fatalf("NoTimeout should be disabled")
	}
}

func TestTimeoutDurationSaturates(t *testing.T) {
	limit := MaxTimeoutSeconds
	huge := TimeoutSpec{Seconds: int(limit) + 1}
	if got := huge.Duration(); got != time.Duration(math.MaxInt64) {
		t.Fatalf("expected saturated duration, got %s", got)
	}
	edge := TimeoutSpec{Seconds: int(limit)}
	if got := edge.Duration(); got <= 0 {
		t.Fatalf("largest accepted limit must stay positive, got %s", got)
	}
}
