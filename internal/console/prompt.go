// Package console reads validated values from an interactive line-based
// input stream.
//
// Every read returns either a parsed value or an error:
//   - io.EOF when the input is exhausted (the caller cannot proceed)
//   - an error wrapping ErrInvalidInput when the line does not parse
//
// Nothing is retried here; the menu loop decides what to do next.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/bgentry/speakeasy"
	"github.com/mattn/go-isatty"
)

// ErrInvalidInput is wrapped by every parse failure.
var ErrInvalidInput = errors.New("invalid input")

// Prompter writes prompts to out and reads answers from in, one line at
// a time. A single buffered reader is kept for the whole session so no
// typed-ahead input is lost between prompts.
type Prompter struct {
	in  io.Reader
	r   *bufio.Reader
	out io.Writer
}

// NewPrompter returns a Prompter reading from in and prompting on out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  in,
		r:   bufio.NewReader(in),
		out: out,
	}
}

// Line prints prompt and returns the next input line without its line
// ending. A final line without a newline is still returned; io.EOF is
// only reported when nothing at all could be read.
func (p *Prompter) Line(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}

	line, err := p.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// Secret reads a line without echoing it when the input is a terminal.
// Otherwise (piped input, tests) it behaves exactly like Line.
func (p *Prompter) Secret(prompt string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) || p.r.Buffered() > 0 {
		return p.Line(prompt)
	}

	answer, err := speakeasy.FAsk(p.out, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(answer, "\r\n"), nil
}

// Int reads one line and parses it as a base-10 integer.
func (p *Prompter) Int(prompt string) (int, error) {
	line, err := p.Line(prompt)
	if err != nil {
		return 0, err
	}

	return ParseInt(line)
}

// Float reads one line and parses it as a finite decimal number.
func (p *Prompter) Float(prompt string) (float64, error) {
	line, err := p.Line(prompt)
	if err != nil {
		return 0, err
	}

	return ParseFloat(line)
}

// OptionalLine reads one line. A blank answer means "keep the current
// value" and is reported with ok == false.
func (p *Prompter) OptionalLine(prompt string) (value string, ok bool, err error) {
	line, err := p.Line(prompt)
	if err != nil {
		return "", false, err
	}
	if strings.TrimSpace(line) == "" {
		return "", false, nil
	}
	return line, true, nil
}

// OptionalFloat is OptionalLine followed by ParseFloat. A blank answer
// yields ok == false and no error.
func (p *Prompter) OptionalFloat(prompt string) (value float64, ok bool, err error) {
	line, ok, err := p.OptionalLine(prompt)
	if err != nil || !ok {
		return 0, false, err
	}

	value, err = ParseFloat(line)
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

// ParseInt parses s (surrounding whitespace ignored) as a base-10 integer.
func ParseInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidInput, s)
	}
	return n, nil
}

// ParseFloat parses s (surrounding whitespace ignored) as a finite
// decimal number. NaN and infinities are rejected.
func ParseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, s)
	}
	return f, nil
}
