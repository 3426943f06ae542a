package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type doneMsg struct {
	value any
	err   error
}

type spinnerModel struct {
	spinner   spinner.Model
	label     string
	run       tea.Cmd
	done      bool
	cancelled bool
	result    doneMsg
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			return m, tea.Quit
		}
	case doneMsg:
		m.done = true
		m.result = msg
		return m, tea.Quit
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// Spin runs fn while showing label. An animated spinner is used when the
// theme enables it and output is a terminal, a plain progress line otherwise.
// Ctrl+C during the spinner cancels fn's context and returns ErrCancelled.
func Spin[T any](ctx context.Context, theme Theme, output io.Writer, label string, fn func(ctx context.Context) (T, error)) (T, error) {
	if !theme.Spinner || !IsTerminal(output) {
		if _, err := fmt.Fprintf(output, "⏳ %s\n", label); err != nil {
			var zero T
			return zero, err
		}
		return fn(ctx)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := spinnerModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(theme.style(theme.Accent)),
		),
		label: label,
		run: func() tea.Msg {
			v, err := fn(runCtx)
			return doneMsg{value: v, err: err}
		},
	}

	final, err := tea.NewProgram(m, tea.WithOutput(output), tea.WithContext(ctx)).Run()
	var zero T
	if err != nil {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, err
	}

	fm := final.(spinnerModel)
	if fm.cancelled {
		return zero, ErrCancelled
	}
	if fm.result.err != nil {
		return zero, fm.result.err
	}
	v, _ := fm.result.value.(T)
	return v, nil
}
