// Package repl runs the interactive read-execute loop.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mishell/internal/process/engine"
	"mishell/internal/process/profiler"
	"mishell/internal/process/result"
	"mishell/internal/process/spec"
	"mishell/internal/shell/command"
	"mishell/internal/shell/parse"
	pkgerrors "mishell/pkg/errors"
	"mishell/pkg/utils/contextkey"
	"mishell/pkg/utils/logger"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configures a Session.
type Options struct {
	// Prompt may contain one %s, replaced by the working directory.
	Prompt string
	Color  bool
	// MaxLineBytes rejects longer input lines. Stage and argument counts
	// are bounded by the engine.
	MaxLineBytes int
	Stdout       io.Writer
	Stderr       io.Writer
}

// Session holds REPL state.
type Session struct {
	reader   LineReader
	engine   engine.Engine
	profiler *profiler.Profiler
	parser   *command.Parser
	prompt   string
	maxLine  int

	outputWriter *bufio.Writer
	errorWriter  io.Writer
	dirColor     *color.Color
	errColor     *color.Color
}

func New(reader LineReader, eng engine.Engine, prof *profiler.Profiler, parser *command.Parser, opts Options) *Session {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Prompt == "" {
		opts.Prompt = "mishell:%s$ "
	}
	if opts.MaxLineBytes == 0 {
		opts.MaxLineBytes = spec.DefaultMaxLineBytes
	}
	s := &Session{
		reader:       reader,
		engine:       eng,
		profiler:     prof,
		parser:       parser,
		prompt:       opts.Prompt,
		maxLine:      opts.MaxLineBytes,
		outputWriter: bufio.NewWriter(opts.Stdout),
		errorWriter:  opts.Stderr,
		dirColor:     color.New(color.FgBlue, color.Bold),
		errColor:     color.New(color.FgRed),
	}
	if !opts.Color {
		s.dirColor.DisableColor()
		s.errColor.DisableColor()
	}
	return s
}

// Run reads and executes lines until "exit" or end of input. It returns an
// error only when reading fails.
func (s *Session) Run(ctx context.Context) error {
	defer s.reader.Close()
	for {
		s.reader.SetPrompt(s.renderPrompt())
		line, err := s.reader.Readline()
		if errors.Is(err, ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			s.printLine("")
			return nil
		}
		if err != nil {
			return pkgerrors.Wrapf(err, pkgerrors.ReadFailed, "read input failed: %v", err)
		}
		if s.Execute(ctx, line) {
			return nil
		}
	}
}

// Execute runs one input line and reports whether the shell should exit.
// Every failure is printed and the loop continues.
func (s *Session) Execute(ctx context.Context, line string) bool {
	if s.maxLine > 0 && len(line) > s.maxLine {
		s.printError(pkgerrors.Newf(pkgerrors.LineTooLong, "input line too long: %d bytes (max %d)", len(line), s.maxLine))
		return false
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if trimmed == "exit" {
		return true
	}

	ctx = context.WithValue(ctx, contextkey.InvocationID, uuid.NewString())
	ctx = context.WithValue(ctx, contextkey.Command, trimmed)

	parsed, err := parse.ParseLine(trimmed)
	if err != nil {
		s.printError(err)
		return false
	}
	if parsed.Empty() {
		return false
	}
	if parsed.Single() {
		s.handleSingle(ctx, parsed.Stages[0])
		return false
	}
	s.handlePipeline(ctx, parsed.Stages)
	return false
}

func (s *Session) handleSingle(ctx context.Context, argv []string) {
	switch argv[0] {
	case "cd":
		if err := s.changeDir(argv); err != nil {
			s.printError(err)
		}
		return
	case "help":
		s.printHelp()
		return
	}
	if s.parser.Matches(argv) {
		if err := s.handleProfile(ctx, argv); err != nil {
			s.printError(err)
		}
		return
	}

	res, err := s.engine.Run(ctx, spec.NewStage(argv...))
	if err != nil {
		s.printError(err)
		return
	}
	logger.Debug(ctx, "command finished", zap.String("status", res.Status.String()))
}

func (s *Session) handlePipeline(ctx context.Context, stages [][]string) {
	specs := make([]spec.StageSpec, len(stages))
	for i, argv := range stages {
		specs[i] = spec.NewStage(argv...)
	}
	res, err := s.engine.RunPipeline(ctx, spec.NewPipeline(specs...))
	if err != nil {
		s.printError(err)
	}
	if last, ok := res.Last(); ok {
		logger.Debug(ctx, "pipeline finished",
			zap.Int("stages", len(res.Stages)),
			zap.String("last_status", last.Status.String()),
		)
	}
}

func (s *Session) handleProfile(ctx context.Context, argv []string) error {
	inv, err := s.parser.Parse(argv)
	if err != nil {
		return err
	}
	req := profiler.Request{Stage: inv.Stage, Timeout: inv.Timeout}
	if inv.Kind == command.KindRunSave {
		// Opened before anything runs: an unusable log means no execution.
		log, err := profiler.OpenLog(inv.LogPath)
		if err != nil {
			return err
		}
		defer log.Close()
		req.Log = log
	}

	report, err := s.profiler.Profile(ctx, req)
	if err != nil && !pkgerrors.Is(err, pkgerrors.LogAppendFailed) {
		return err
	}
	s.printReport(report)
	return err
}

func (s *Session) changeDir(argv []string) error {
	if len(argv) < 2 {
		return pkgerrors.Newf(pkgerrors.InvalidParams, "cd: missing directory")
	}
	if err := os.Chdir(argv[1]); err != nil {
		return pkgerrors.Wrapf(err, pkgerrors.ChdirFailed, "cd: %v", err)
	}
	return nil
}

func (s *Session) renderPrompt() string {
	if !strings.Contains(s.prompt, "%s") {
		return s.prompt
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "?"
	}
	return fmt.Sprintf(s.prompt, s.dirColor.Sprint(cwd))
}

func (s *Session) printReport(report result.UsageReport) {
	_, _ = s.outputWriter.WriteString(profiler.FormatReport(report))
	_ = s.outputWriter.Flush()
}

func (s *Session) printHelp() {
	s.printLine("usage: <command> [args...] [| <command> [args...]]...")
	s.printLine("builtins: cd <dir> | help | exit")
	s.printLine("profiling:")
	for _, line := range s.parser.Help() {
		s.printLine("  %s", line)
	}
}

func (s *Session) printError(err error) {
	_, _ = s.errColor.Fprintf(s.errorWriter, "mishell: %v\n", err)
}

func (s *Session) printLine(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.outputWriter, format+"\n", args...)
	_ = s.outputWriter.Flush()
}
