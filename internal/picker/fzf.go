package picker

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/osteele/open-unity/internal/project"
)

// Runner runs a command with the given standard input and returns its standard output.
type Runner func(ctx context.Context, name string, args []string, stdin string) (string, error)

// runCommand is the default Runner.
func runCommand(ctx context.Context, name string, args []string, stdin string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%s exited with status %d: %s", name, exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(output), nil
}

// Fzf selects a project with the external fzf fuzzy finder.
type Fzf struct {
	Path   string
	Height string
	Prompt string

	run      Runner
	lookPath func(string) (string, error)
}

// NewFzf creates an fzf strategy. path may be a bare command name looked up in PATH.
func NewFzf(path, height, prompt string) *Fzf {
	return &Fzf{
		Path:     path,
		Height:   height,
		Prompt:   prompt,
		run:      runCommand,
		lookPath: exec.LookPath,
	}
}

// Name implements Strategy.
func (f *Fzf) Name() string {
	return "fzf"
}

// Args returns the command-line arguments passed to fzf.
func (f *Fzf) Args() []string {
	return []string{"--height", f.Height, "--reverse", "--prompt", f.Prompt}
}

// Select implements Strategy. A missing binary or a failed run, including the
// user cancelling fzf, makes the strategy unavailable.
func (f *Fzf) Select(ctx context.Context, projects []project.Project) (*project.Project, error) {
	bin, err := f.lookPath(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	labels := Labels(projects)
	output, err := f.run(ctx, bin, f.Args(), strings.Join(labels, "\n"))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	selected := strings.TrimSpace(output)
	if selected == "" {
		return nil, nil
	}

	idx := indexOfLabel(labels, selected)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q is not in the project list", ErrInvalidSelection, selected)
	}
	return &projects[idx], nil
}
