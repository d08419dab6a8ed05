// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal provides prompt helpers and line clearing for interactive commands.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotInteractive is returned when a prompt needs a terminal and stdin is not one.
var ErrNotInteractive = errors.New("stdin is not a terminal")

// Prompter reads answers from the user. The zero value uses os.Stdin/os.Stdout.
type Prompter struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

func (p *Prompter) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}

func (p *Prompter) in() *bufio.Reader {
	if p.reader == nil {
		src := p.In
		if src == nil {
			src = os.Stdin
		}
		p.reader = bufio.NewReader(src)
	}
	return p.reader
}

// Line prints prompt and reads one trimmed line.
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out(), prompt)
	s, err := p.in().ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// Password prints prompt and reads a line without echo when stdin is a terminal.
// With a non-terminal In (pipes, tests) it reads a plain line.
func (p *Prompter) Password(prompt string) (string, error) {
	if p.In != nil {
		return p.Line(prompt)
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNotInteractive
	}
	fmt.Fprint(p.out(), prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(p.out())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// IsInteractive reports whether stdin is attached to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Width returns the terminal width, or 80 when it cannot be determined.
func Width() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// ClearPreviousLines erases text that was printed above the cursor, such as a
// prompt and its answer. textLength is the total number of characters printed;
// wrapping is computed from the current terminal width. One extra line is
// cleared for the newline produced by Enter.
func ClearPreviousLines(textLength int) {
	totalLines := int(math.Ceil(float64(textLength) / float64(Width())))
	if totalLines < 1 {
		totalLines = 1
	}
	linesToClear := totalLines + 1
	for i := 0; i < linesToClear; i++ {
		fmt.Print("\r\x1b[2K")
		if i < linesToClear-1 {
			fmt.Print("\x1b[1A")
		}
	}
}
