package picker

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/osteele/open-unity/internal/project"
	"github.com/osteele/open-unity/internal/ui"
)

// TUI selects a project with a built-in Bubble Tea list.
type TUI struct {
	In    io.Reader
	Out   io.Writer
	Theme ui.Theme
	Title string

	// run executes the program and returns its final model.
	run func(m tea.Model, opts ...tea.ProgramOption) (tea.Model, error)
}

// NewTUI creates a TUI strategy reading keys from in and drawing to out.
func NewTUI(in io.Reader, out io.Writer, theme ui.Theme) *TUI {
	return &TUI{
		In:    in,
		Out:   out,
		Theme: theme,
		Title: "Recent Unity projects",
		run: func(m tea.Model, opts ...tea.ProgramOption) (tea.Model, error) {
			return tea.NewProgram(m, opts...).Run()
		},
	}
}

// Name implements Strategy.
func (t *TUI) Name() string {
	return "tui"
}

// isTerminal reports whether both streams are attached to a terminal.
func (t *TUI) isTerminal() bool {
	in, ok := t.In.(*os.File)
	if !ok {
		return false
	}
	out, ok := t.Out.(*os.File)
	if !ok {
		return false
	}
	return ui.IsTerminal(in.Fd()) && ui.IsTerminal(out.Fd())
}

// Select implements Strategy. The strategy is unavailable without a terminal.
// Quitting the list is "no selection".
func (t *TUI) Select(ctx context.Context, projects []project.Project) (*project.Project, error) {
	if !t.isTerminal() {
		return nil, fmt.Errorf("%w: not a terminal", ErrUnavailable)
	}

	model := ui.NewPickerModel(projects, t.Theme, t.Title)
	final, err := t.run(model,
		tea.WithInput(t.In),
		tea.WithOutput(t.Out),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	pm, ok := final.(ui.PickerModel)
	if !ok || pm.Chosen() < 0 {
		return nil, nil
	}
	return &projects[pm.Chosen()], nil
}
