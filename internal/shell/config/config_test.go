package config

import (
	"os"
	"path/filepath"
	"testing"

	"mishell/internal/process/spec"
	"mishell/internal/testutil"
	pkgerrors "mishell/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mishell.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cfg.Prompt, DefaultPrompt)
	testutil.AssertEqual(t, cfg.ProfileCommand, "miprof")
	testutil.AssertTrue(t, cfg.ColorEnabled(), "color defaults to on")
	testutil.AssertEqual(t, cfg.ProcessLimits(), spec.DefaultLimits())
	testutil.AssertEqual(t, cfg.LoggerConfig().Level, "warn")
	testutil.AssertEqual(t, cfg.LoggerConfig().OutputPath, "stderr")
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
prompt: "> "
historyFile: /tmp/mishell_history
profileCommand: prof
color: false
limits:
  maxStages: 8
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cfg.Prompt, "> ")
	testutil.AssertEqual(t, cfg.HistoryFile, "/tmp/mishell_history")
	testutil.AssertEqual(t, cfg.ProfileCommand, "prof")
	testutil.AssertFalse(t, cfg.ColorEnabled(), "explicit false must be kept")
	testutil.AssertEqual(t, cfg.Limits.MaxStages, 8)
	testutil.AssertEqual(t, cfg.Limits.MaxArgs, spec.DefaultLimits().MaxArgs)
	testutil.AssertEqual(t, cfg.Log.Level, "debug")
	testutil.AssertEqual(t, cfg.Log.Format, "json")
	testutil.AssertEqual(t, cfg.Log.OutputPath, DefaultLogOutput)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		path string
	}{
		{name: "missing_file", path: filepath.Join(t.TempDir(), "absent.yaml")},
		{name: "bad_yaml", path: writeConfig(t, "prompt: [unclosed")},
		{name: "negative_limit", path: writeConfig(t, "limits:\n  maxArgs: -1\n")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(tc.path); !pkgerrors.Is(err, pkgerrors.ConfigInvalid) {
				t.Fatalf("expected ConfigInvalid, got %v", err)
			}
		})
	}
}
