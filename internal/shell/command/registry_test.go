package command

import (
	"strings"
	"testing"

	"mishell/internal/process/spec"
	"mishell/internal/testutil"
	pkgerrors "mishell/pkg/errors"
)

func TestParserParse(t *testing.T) {
	p := NewParser("")
	cases := []struct {
		name string
		argv []string
		want Invocation
	}{
		{
			name: "run",
			argv: []string{"miprof", "run", "ls", "-l"},
			want: Invocation{Kind: KindRun, Stage: spec.NewStage("ls", "-l")},
		},
		{
			name: "run_save",
			argv: []string{"miprof", "run-save", "out.log", "sleep", "1"},
			want: Invocation{Kind: KindRunSave, LogPath: "out.log", Stage: spec.NewStage("sleep", "1")},
		},
		{
			name: "max_time",
			argv: []string{"miprof", "max-time", "3", "sleep", "10"},
			want: Invocation{Kind: KindMaxTime, Timeout: spec.TimeoutSpec{Seconds: 3}, Stage: spec.NewStage("sleep", "10")},
		},
		{
			name: "alias_ejec",
			argv: []string{"miprof", "ejec", "true"},
			want: Invocation{Kind: KindRun, Stage: spec.NewStage("true")},
		},
		{
			name: "alias_ejecsave",
			argv: []string{"miprof", "ejecsave", "p.log", "true"},
			want: Invocation{Kind: KindRunSave, LogPath: "p.log", Stage: spec.NewStage("true")},
		},
		{
			name: "alias_maxtiempo",
			argv: []string{"miprof", "maxtiempo", "2", "true"},
			want: Invocation{Kind: KindMaxTime, Timeout: spec.TimeoutSpec{Seconds: 2}, Stage: spec.NewStage("true")},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.Parse(tc.argv)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, got, tc.want)
		})
	}
}

func TestParserUsageErrors(t *testing.T) {
	p := NewParser("miprof")
	cases := []struct {
		name     string
		argv     []string
		code     pkgerrors.ErrorCode
		contains string
	}{
		{name: "no_subcommand", argv: []string{"miprof"}, code: pkgerrors.ProfileUsage, contains: "usage: miprof run|run-save|max-time"},
		{name: "unknown_subcommand", argv: []string{"miprof", "walk", "ls"}, code: pkgerrors.ProfileUsage, contains: `unknown sub-command "walk"`},
		{name: "run_missing_command", argv: []string{"miprof", "run"}, code: pkgerrors.ProfileUsage, contains: "missing command"},
		{name: "run_save_missing_file", argv: []string{"miprof", "run-save"}, code: pkgerrors.ProfileUsage, contains: "missing logfile"},
		{name: "run_save_missing_command", argv: []string{"miprof", "run-save", "out.log"}, code: pkgerrors.ProfileUsage, contains: "missing command"},
		{name: "max_time_missing_seconds", argv: []string{"miprof", "max-time"}, code: pkgerrors.ProfileUsage, contains: "missing seconds"},
		{name: "max_time_zero", argv: []string{"miprof", "max-time", "0", "sleep", "1"}, code: pkgerrors.InvalidTimeout, contains: "must be positive"},
		{name: "max_time_negative", argv: []string{"miprof", "max-time", "-3", "sleep", "1"}, code: pkgerrors.InvalidTimeout, contains: "must be positive"},
		{name: "max_time_not_numeric", argv: []string{"miprof", "max-time", "soon", "sleep", "1"}, code: pkgerrors.InvalidTimeout, contains: "invalid seconds"},
		{name: "max_time_overflow", argv: []string{"miprof", "max-time", "18446744074", "sleep", "1"}, code: pkgerrors.InvalidTimeout, contains: "seconds too large"},
		{name: "max_time_missing_command", argv: []string{"miprof", "max-time", "5"}, code: pkgerrors.ProfileUsage, contains: "missing command"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Parse(tc.argv)
			if !pkgerrors.Is(err, tc.code) {
				t.Fatalf("expected code %d, got %v", tc.code, err)
			}
			if !pkgerrors.GetCode(err).IsUsageError() {
				t.Fatalf("expected a usage error, got code %d", pkgerrors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tc.contains) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.contains)
			}
		})
	}
}

func TestParserMatches(t *testing.T) {
	p := NewParser("prof")
	testutil.AssertEqual(t, p.Program(), "prof")
	testutil.AssertTrue(t, p.Matches([]string{"prof", "run", "ls"}), "configured name should match")
	testutil.AssertFalse(t, p.Matches([]string{"miprof", "run", "ls"}), "default name should not match once renamed")
	testutil.AssertFalse(t, p.Matches(nil), "empty argv never matches")
	if _, err := p.Parse([]string{"ls"}); !pkgerrors.Is(err, pkgerrors.InvalidParams) {
		t.Fatalf("expected InvalidParams, got %v", err)
	}
}

func TestParserHelp(t *testing.T) {
	lines := NewParser("").Help()
	testutil.AssertEqual(t, len(lines), 3)
	testutil.AssertTrue(t, strings.HasPrefix(lines[1], "miprof run-save <logfile> <command> [args...]"), lines[1])
	testutil.AssertTrue(t, strings.Contains(lines[2], "maxtiempo"), lines[2])
}
