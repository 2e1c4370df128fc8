// Package parse turns an input line into pipeline stages and argument vectors.
package parse

import (
	"strings"

	pkgerrors "mishell/pkg/errors"

	"github.com/google/shlex"
)

// Tokenize splits one stage into words with shell-style quoting. Only
// quoting is honoured; '#' is an ordinary character.
func Tokenize(stage string) ([]string, error) {
	words, err := shlex.Split(escapeComments(stage))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, pkgerrors.ParseFailed, "parse %q: %v", stage, err)
	}
	return words, nil
}

// quoteState tracks quoting and backslash escapes while scanning a line.
type quoteState struct {
	quote  rune
	escape bool
}

// bare consumes r and reports whether it stands outside any quoting or
// escape, i.e. whether it may act as an operator.
func (q *quoteState) bare(r rune) bool {
	switch {
	case q.escape:
		q.escape = false
	case r == '\\' && q.quote != '\'':
		q.escape = true
	case q.quote != 0:
		if r == q.quote {
			q.quote = 0
		}
	case r == '\'' || r == '"':
		q.quote = r
	default:
		return true
	}
	return false
}

// SplitPipeline splits a line on unquoted '|' characters. Stages are
// trimmed and empty stages are dropped, so "a || b" has two stages.
func SplitPipeline(line string) []string {
	var (
		stages []string
		cur    strings.Builder
		q      quoteState
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stages = append(stages, s)
		}
		cur.Reset()
	}

	for _, r := range line {
		if q.bare(r) && r == '|' {
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return stages
}

// escapeComments backslash-escapes unquoted '#' so shlex keeps it literal.
func escapeComments(stage string) string {
	if !strings.ContainsRune(stage, '#') {
		return stage
	}
	var (
		b strings.Builder
		q quoteState
	)
	b.Grow(len(stage) + 4)
	for _, r := range stage {
		if q.bare(r) && r == '#' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Line is a parsed input line.
type Line struct {
	Stages [][]string
}

// Single reports whether the line has exactly one stage.
func (l Line) Single() bool {
	return len(l.Stages) == 1
}

// Empty reports whether the line has no stages.
func (l Line) Empty() bool {
	return len(l.Stages) == 0
}

// ParseLine splits and tokenizes a whole line. Stages that tokenize to no
// words are dropped.
func ParseLine(line string) (Line, error) {
	var out Line
	for i, raw := range SplitPipeline(line) {
		words, err := Tokenize(raw)
		if err != nil {
			return Line{}, pkgerrors.GetError(err).WithDetail("stage", i)
		}
		if len(words) == 0 {
			continue
		}
		out.Stages = append(out.Stages, words)
	}
	return out, nil
}
