// Package config loads the shell's YAML configuration.
package config

import (
	"os"

	"mishell/internal/process/spec"
	pkgerrors "mishell/pkg/errors"
	"mishell/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPrompt         = "mishell:%s$ "
	DefaultProfileCommand = "miprof"
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "console"
	DefaultLogOutput      = "stderr"
)

// Config holds shell configuration.
type Config struct {
	Prompt         string       `yaml:"prompt"`
	HistoryFile    string       `yaml:"historyFile"`
	ProfileCommand string       `yaml:"profileCommand"`
	Color          *bool        `yaml:"color"`
	Limits         LimitsConfig `yaml:"limits"`
	Log            LogConfig    `yaml:"log"`
}

// LimitsConfig bounds the size of an input line and what it may start.
type LimitsConfig struct {
	MaxArgs      int `yaml:"maxArgs"`
	MaxStages    int `yaml:"maxStages"`
	MaxLineBytes int `yaml:"maxLineBytes"`
}

// LogConfig mirrors logger.Config.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	OutputPath string `yaml:"outputPath"`
}

// Default returns a configuration with every default applied.
func Default() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

// Load reads path. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, pkgerrors.Wrapf(err, pkgerrors.ConfigInvalid, "read config file failed: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, pkgerrors.Wrapf(err, pkgerrors.ConfigInvalid, "parse config file failed: %v", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects negative limits.
func (c Config) Validate() error {
	switch {
	case c.Limits.MaxArgs < 0:
		return pkgerrors.Newf(pkgerrors.ConfigInvalid, "limits.maxArgs must not be negative")
	case c.Limits.MaxStages < 0:
		return pkgerrors.Newf(pkgerrors.ConfigInvalid, "limits.maxStages must not be negative")
	case c.Limits.MaxLineBytes < 0:
		return pkgerrors.Newf(pkgerrors.ConfigInvalid, "limits.maxLineBytes must not be negative")
	}
	return nil
}

// ColorEnabled reports whether colored output was requested.
func (c Config) ColorEnabled() bool {
	return c.Color != nil && *c.Color
}

// ProcessLimits converts the limits section.
func (c Config) ProcessLimits() spec.Limits {
	return spec.Limits{
		MaxArgs:      c.Limits.MaxArgs,
		MaxStages:    c.Limits.MaxStages,
		MaxLineBytes: c.Limits.MaxLineBytes,
	}
}

// LoggerConfig converts the log section.
func (c Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		OutputPath: c.Log.OutputPath,
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	if cfg.ProfileCommand == "" {
		cfg.ProfileCommand = DefaultProfileCommand
	}
	if cfg.Color == nil {
		value := true
		cfg.Color = &value
	}
	defaults := spec.DefaultLimits()
	if cfg.Limits.MaxArgs == 0 {
		cfg.Limits.MaxArgs = defaults.MaxArgs
	}
	if cfg.Limits.MaxStages == 0 {
		cfg.Limits.MaxStages = defaults.MaxStages
	}
	if cfg.Limits.MaxLineBytes == 0 {
		cfg.Limits.MaxLineBytes = defaults.MaxLineBytes
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Log.OutputPath == "" {
		cfg.Log.OutputPath = DefaultLogOutput
	}
}
