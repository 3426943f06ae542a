package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// ErrCancelled is returned when the user aborts a prompt with Ctrl+C or EOF
var ErrCancelled = errors.New("cancelled by user")

// Confirm asks the user for a yes/no confirmation
// Default is no (returns false on empty input)
func Confirm(message string, input io.Reader, output io.Writer) (bool, error) {
	return ConfirmWithDefault(message, false, input, output)
}

// ConfirmWithDefault asks the user for a yes/no confirmation with a specified default
func ConfirmWithDefault(message string, defaultYes bool, input io.Reader, output io.Writer) (bool, error) {
	return confirm(scanReader(bufio.NewScanner(input), output), message, defaultYes, output)
}

func confirm(read lineReader, message string, defaultYes bool, output io.Writer) (bool, error) {
	var prompt string
	if defaultYes {
		prompt = fmt.Sprintf("%s [Y/n]: ", message)
	} else {
		prompt = fmt.Sprintf("%s [y/N]: ", message)
	}

	for {
		line, err := read(prompt, "")
		if err != nil {
			return false, err
		}

		switch strings.TrimSpace(strings.ToLower(line)) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			_, err := fmt.Fprintln(output, "Please enter 'y' or 'n'")
			if err != nil {
				return false, err
			}
		}
	}
}

// SelectOption asks the user to pick one of options by number and returns
// its index. Empty input selects defaultIndex, which is clamped to 0 when out of range.
func SelectOption(message string, options []string, defaultIndex int, input io.Reader, output io.Writer) (int, error) {
	return selectOption(scanReader(bufio.NewScanner(input), output), message, options, defaultIndex, output)
}

func selectOption(read lineReader, message string, options []string, defaultIndex int, output io.Writer) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("no options to select from")
	}
	if defaultIndex < 0 || defaultIndex >= len(options) {
		defaultIndex = 0
	}

	bold := color.New(color.Bold)
	if _, err := bold.Fprintln(output, message); err != nil {
		return -1, err
	}
	for i, option := range options {
		marker := " "
		if i == defaultIndex {
			marker = "*"
		}
		if _, err := fmt.Fprintf(output, " %s %d) %s\n", marker, i+1, option); err != nil {
			return -1, err
		}
	}

	prompt := fmt.Sprintf("Select [1-%d] (default %d): ", len(options), defaultIndex+1)
	for {
		line, err := read(prompt, "")
		if err != nil {
			return -1, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			return defaultIndex, nil
		}
		n, convErr := strconv.Atoi(line)
		if convErr == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		if _, err := fmt.Fprintf(output, "Please enter a number between 1 and %d\n", len(options)); err != nil {
			return -1, err
		}
	}
}

// InputWithDefault asks for one line of text. Empty input keeps defaultValue.
func InputWithDefault(message, defaultValue string, input io.Reader, output io.Writer) (string, error) {
	return inputWithDefault(scanReader(bufio.NewScanner(input), output), message, defaultValue, false)
}

// inputWithDefault shows the default in the prompt, or as editable text when inline is set
func inputWithDefault(read lineReader, message, defaultValue string, inline bool) (string, error) {
	prompt := message + ": "
	initial := ""
	if defaultValue != "" {
		if inline {
			initial = defaultValue
		} else {
			prompt = fmt.Sprintf("%s [%s]: ", message, defaultValue)
		}
	}

	line, err := read(prompt, initial)
	if err != nil {
		return "", err
	}
	if line = strings.TrimSpace(line); line == "" {
		return defaultValue, nil
	}
	return line, nil
}

// lineReader shows prompt and reads one line. initial is text the user
// can edit in place, when the reader supports it.
type lineReader func(prompt, initial string) (string, error)

// scanReader reads lines from a scanner, mapping EOF to ErrCancelled
func scanReader(scanner *bufio.Scanner, output io.Writer) lineReader {
	return func(prompt, _ string) (string, error) {
		if _, err := fmt.Fprint(output, prompt); err != nil {
			return "", err
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", ErrCancelled
		}
		return scanner.Text(), nil
	}
}

// ShowCommitMessage displays a commit message in a bordered box
func ShowCommitMessage(message string, theme Theme, output io.Writer) error {
	title := theme.style(theme.Accent).Bold(true).Render("📝 Commit Message")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if theme.Color {
		box = box.BorderForeground(theme.Accent)
	}

	_, err := fmt.Fprintf(output, "\n%s\n%s\n", title, box.Render(message))
	return err
}
