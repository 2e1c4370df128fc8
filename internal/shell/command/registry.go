package command

import (
	"strings"

	"mishell/internal/process/spec"
	pkgerrors "mishell/pkg/errors"
)

// Registry returns the profiling sub-commands in display order.
func Registry() []Command {
	return []Command{
		{
			Name:    "run",
			Aliases: []string{"ejec"},
			Kind:    KindRun,
			Summary: "profile a command once and print its usage",
		},
		{
			Name:    "run-save",
			Aliases: []string{"ejecsave"},
			Kind:    KindRunSave,
			Summary: "profile a command and append the result to a log file",
			Fields: []Field{
				{Name: "logfile", Type: FieldFile},
			},
		},
		{
			Name:    "max-time",
			Aliases: []string{"maxtiempo"},
			Kind:    KindMaxTime,
			Summary: "profile a command and kill it after a number of seconds",
			Fields: []Field{
				{Name: "seconds", Type: FieldSeconds},
			},
		},
	}
}

// Parser recognises and parses invocations of the profiling command.
type Parser struct {
	program  string
	commands []Command
	byName   map[string]Command
}

// NewParser builds a parser for the given program name. An empty name uses
// DefaultProfileCommand.
func NewParser(program string) *Parser {
	if program == "" {
		program = DefaultProfileCommand
	}
	p := &Parser{
		program:  program,
		commands: Registry(),
		byName:   make(map[string]Command),
	}
	for _, cmd := range p.commands {
		p.byName[cmd.Name] = cmd
		for _, alias := range cmd.Aliases {
			p.byName[alias] = cmd
		}
	}
	return p
}

// Program returns the profiling command name.
func (p *Parser) Program() string {
	return p.program
}

// Matches reports whether argv invokes the profiling command.
func (p *Parser) Matches(argv []string) bool {
	return len(argv) > 0 && argv[0] == p.program
}

// Parse turns argv, starting with the profiling command itself, into an
// invocation. Every malformed form is a usage error and nothing is run.
func (p *Parser) Parse(argv []string) (Invocation, error) {
	if !p.Matches(argv) {
		return Invocation{}, pkgerrors.ValidationError("argv", "not a "+p.program+" invocation")
	}
	if len(argv) < 2 {
		return Invocation{}, pkgerrors.UsageError("usage: %s", p.shortUsage())
	}
	cmd, ok := p.byName[argv[1]]
	if !ok {
		return Invocation{}, pkgerrors.UsageError("%s: unknown sub-command %q; usage: %s", p.program, argv[1], p.shortUsage())
	}

	inv := Invocation{Kind: cmd.Kind}
	rest := argv[2:]
	for _, field := range cmd.Fields {
		if len(rest) == 0 {
			return Invocation{}, pkgerrors.UsageError("%s: missing %s; usage: %s", p.program, field.Name, cmd.Synopsis(p.program))
		}
		value := rest[0]
		rest = rest[1:]
		switch field.Type {
		case FieldFile:
			inv.LogPath = value
		case FieldSeconds:
			timeout, err := spec.ParseTimeout(value)
			if err != nil {
				return Invocation{}, pkgerrors.GetError(err).
					WithMessagef("%s: %s; usage: %s", p.program, err.Error(), cmd.Synopsis(p.program))
			}
			inv.Timeout = timeout
		}
	}
	if len(rest) == 0 {
		return Invocation{}, pkgerrors.UsageError("%s: missing command; usage: %s", p.program, cmd.Synopsis(p.program))
	}
	inv.Stage = spec.NewStage(rest...)
	return inv, nil
}

func (p *Parser) shortUsage() string {
	names := make([]string, 0, len(p.commands))
	for _, cmd := range p.commands {
		names = append(names, cmd.Name)
	}
	return p.program + " " + strings.Join(names, "|") + " ..."
}

// Help returns one line per sub-command.
func (p *Parser) Help() []string {
	lines := make([]string, 0, len(p.commands))
	for _, cmd := range p.commands {
		line := cmd.Synopsis(p.program) + "  " + cmd.Summary
		if len(cmd.Aliases) > 0 {
			line += " (alias: " + strings.Join(cmd.Aliases, ", ") + ")"
		}
		lines = append(lines, line)
	}
	return lines
}
