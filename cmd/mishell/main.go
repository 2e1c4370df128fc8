package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"mishell/internal/process/engine"
	"mishell/internal/process/observer"
	"mishell/internal/process/profiler"
	"mishell/internal/process/watchdog"
	"mishell/internal/shell/command"
	"mishell/internal/shell/config"
	"mishell/internal/shell/repl"
	"mishell/pkg/utils/logger"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "mishell: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to config file (defaults when empty)")
	logLevel := flag.String("log-level", "", "Override log level (debug, info, warn, error)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	history := flag.String("history", "", "Override readline history file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *noColor {
		disabled := false
		cfg.Color = &disabled
	}
	if *history != "" {
		cfg.HistoryFile = *history
	}

	if err := logger.Init(cfg.LoggerConfig()); err != nil {
		return fmt.Errorf("init logger failed: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// Children are started with default dispositions; only the shell
	// swallows Ctrl-C.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	go func() {
		for range interrupts {
		}
	}()

	ctx := context.Background()
	obs := observer.NewLogObserver()
	eng, err := engine.NewEngine(engine.Config{
		Limits:   cfg.ProcessLimits(),
		Observer: obs,
	})
	if err != nil {
		return err
	}
	enforcer := watchdog.New(watchdog.WithKillErrorHandler(func(err error) {
		logger.Warn(ctx, "timeout kill failed", zap.Error(err))
	}))
	prof := profiler.New(eng, enforcer, profiler.WithObserver(obs))

	var reader repl.LineReader
	if isatty.IsTerminal(os.Stdin.Fd()) {
		reader, err = repl.NewTerminalReader(cfg.HistoryFile)
		if err != nil {
			return fmt.Errorf("init line editor failed: %w", err)
		}
	} else {
		reader = repl.NewPlainReader(os.Stdin, os.Stdout)
	}

	session := repl.New(reader, eng, prof, command.NewParser(cfg.ProfileCommand), repl.Options{
		Prompt:       cfg.Prompt,
		Color:        cfg.ColorEnabled(),
		MaxLineBytes: cfg.Limits.MaxLineBytes,
	})
	logger.Debug(ctx, "shell started", zap.String("profile_command", cfg.ProfileCommand))
	return session.Run(ctx)
}
