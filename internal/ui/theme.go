package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/huimingz/commitflow/internal/config"
)

// Theme holds presentation settings. It is built once from the
// configuration and passed to every printer.
type Theme struct {
	Name    string
	Color   bool
	Spinner bool
	Accent  lipgloss.Color
	Success lipgloss.Color
	Failure lipgloss.Color
	Muted   lipgloss.Color
}

var themes = map[string]Theme{
	"default": {Name: "default", Accent: "63", Success: "78", Failure: "197", Muted: "245"},
	"ocean":   {Name: "ocean", Accent: "39", Success: "42", Failure: "203", Muted: "244"},
	"mono":    {Name: "mono", Accent: "252", Success: "252", Failure: "252", Muted: "245"},
}

// NewTheme builds a Theme from the ui section of the configuration.
// Unknown theme names fall back to "default".
func NewTheme(cfg config.UIConfig) Theme {
	t, ok := themes[cfg.Theme]
	if !ok {
		t = themes["default"]
	}
	t.Color = cfg.Color
	t.Spinner = cfg.Spinner
	return t
}

// DefaultTheme returns the theme used when no configuration is loaded
func DefaultTheme() Theme {
	return NewTheme(config.UIConfig{Theme: "default", Color: true, Spinner: true})
}

// style returns a foreground style, or a plain style when color is off
func (t Theme) style(c lipgloss.Color) lipgloss.Style {
	s := lipgloss.NewStyle()
	if t.Color {
		s = s.Foreground(c)
	}
	return s
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
