package repl

import (
	"bufio"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// ErrInterrupt is returned by Readline when the user presses Ctrl-C at the
// prompt. The partial line is discarded.
var ErrInterrupt = readline.ErrInterrupt

// LineReader yields one input line at a time.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
	Close() error
}

// NewTerminalReader returns a readline-backed reader with editing and, when
// historyFile is set, persistent history.
func NewTerminalReader(historyFile string) (LineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "",
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, err
	}
	return rl, nil
}

type plainReader struct {
	in     *bufio.Reader
	out    io.Writer
	prompt string
}

// NewPlainReader reads newline-terminated lines from r and writes the
// prompt to w. It is used when stdin is not a terminal.
func NewPlainReader(r io.Reader, w io.Writer) LineReader {
	return &plainReader{in: bufio.NewReader(r), out: w}
}

func (p *plainReader) SetPrompt(prompt string) {
	p.prompt = prompt
}

func (p *plainReader) Readline() (string, error) {
	if p.out != nil && p.prompt != "" {
		_, _ = io.WriteString(p.out, p.prompt)
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *plainReader) Close() error {
	return nil
}
