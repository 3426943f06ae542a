package ui

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
)

// Prompter asks the user questions. Every method returns ErrCancelled
// when the user aborts.
type Prompter interface {
	Confirm(message string, defaultYes bool) (bool, error)
	Select(message string, options []string, defaultIndex int) (int, error)
	Input(message, defaultValue string) (string, error)
}

// TerminalPrompter implements Prompter. On a terminal it reads with
// readline, which puts the terminal in raw mode so Ctrl+C cancels the
// prompt instead of signalling the process. Other readers are scanned
// line by line.
type TerminalPrompter struct {
	output      io.Writer
	read        lineReader
	useReadline bool
}

// NewPrompter creates a prompter reading from input and writing to output
func NewPrompter(input io.Reader, output io.Writer) *TerminalPrompter {
	p := &TerminalPrompter{output: output}
	if f, ok := input.(*os.File); ok && isatty.IsTerminal(f.Fd()) && IsTerminal(output) {
		p.useReadline = true
		p.read = readlineReader(f, output)
	} else {
		p.read = scanReader(bufio.NewScanner(input), output)
	}
	return p
}

// Confirm asks a yes/no question
func (p *TerminalPrompter) Confirm(message string, defaultYes bool) (bool, error) {
	return confirm(p.read, message, defaultYes, p.output)
}

// Select asks the user to pick one option and returns its index
func (p *TerminalPrompter) Select(message string, options []string, defaultIndex int) (int, error) {
	return selectOption(p.read, message, options, defaultIndex, p.output)
}

// Input asks for one line of text. On a terminal the default is
// pre-filled for editing.
func (p *TerminalPrompter) Input(message, defaultValue string) (string, error) {
	return inputWithDefault(p.read, message, defaultValue, p.useReadline)
}

// readlineReader reads lines with readline, mapping Ctrl+C and Ctrl+D to ErrCancelled
func readlineReader(input *os.File, output io.Writer) lineReader {
	return func(prompt, initial string) (string, error) {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          prompt,
			InterruptPrompt: "^C",
			EOFPrompt:       "^D",
			Stdin:           readline.NewCancelableStdin(input),
			Stdout:          output,
		})
		if err != nil {
			return "", err
		}
		defer rl.Close()

		line, err := rl.ReadlineWithDefault(initial)
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return "", ErrCancelled
			}
			return "", err
		}
		return line, nil
	}
}
