// Package command describes the profiling sub-commands and parses their
// arguments into profiler invocations.
package command

import (
	"fmt"
	"strings"

	"mishell/internal/process/spec"
)

// DefaultProfileCommand is the program name that dispatches to the profiler.
const DefaultProfileCommand = "miprof"

// Kind identifies a profiling sub-command.
type Kind int

const (
	KindRun Kind = iota
	KindRunSave
	KindMaxTime
)

func (k Kind) String() string {
	switch k {
	case KindRun:
		return "run"
	case KindRunSave:
		return "run-save"
	case KindMaxTime:
		return "max-time"
	default:
		return "unknown"
	}
}

// FieldType describes a positional argument that precedes the command.
type FieldType int

const (
	FieldFile FieldType = iota
	FieldSeconds
)

// Field is one positional argument of a sub-command.
type Field struct {
	Name string
	Type FieldType
}

// Command defines a profiling sub-command.
type Command struct {
	Name    string
	Aliases []string
	Kind    Kind
	Summary string
	Fields  []Field
}

// Synopsis renders the usage line, e.g. "miprof max-time <seconds> <command> [args...]".
func (c Command) Synopsis(program string) string {
	parts := []string{program, c.Name}
	for _, f := range c.Fields {
		parts = append(parts, "<"+f.Name+">")
	}
	parts = append(parts, "<command>", "[args...]")
	return strings.Join(parts, " ")
}

// Invocation is a fully parsed profiling request.
type Invocation struct {
	Kind    Kind
	Stage   spec.StageSpec
	LogPath string
	Timeout spec.TimeoutSpec
}

func (i Invocation) String() string {
	switch i.Kind {
	case KindRunSave:
		return fmt.Sprintf("%s %s %s", i.Kind, i.LogPath, i.Stage)
	case KindMaxTime:
		return fmt.Sprintf("%s %d %s", i.Kind, i.Timeout.Seconds, i.Stage)
	default:
		return fmt.Sprintf("%s %s", i.Kind, i.Stage)
	}
}
