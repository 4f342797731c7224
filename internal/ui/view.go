package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// View implements tea.Model.
func (m PickerModel) View() string {
	return m.Theme.App.Render(m.list.View())
}

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// RenderError formats a fatal error message for w. When colorize is false the
// message is returned unchanged. Each line is styled separately so that
// multi-line messages are not padded to a common width.
func RenderError(w io.Writer, theme Theme, message string, colorize bool) string {
	if !colorize {
		return message
	}

	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI)
	style := theme.Error.Renderer(r)

	lines := strings.Split(message, "\n")
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}
