package picker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/osteele/open-unity/internal/project"
)

// Plain prints a numbered list and reads the choice from a line of input.
type Plain struct {
	In  io.Reader
	Out io.Writer
	// Max is the number of projects listed. Values below 1 mean 10.
	Max int
}

// NewPlain creates a numbered-list strategy.
func NewPlain(in io.Reader, out io.Writer, limit int) *Plain {
	return &Plain{In: in, Out: out, Max: limit}
}

// Name implements Strategy.
func (p *Plain) Name() string {
	return "plain"
}

// Select implements Strategy. Anything other than a number between 1 and the
// number of listed projects is an invalid selection; there is no re-prompt.
func (p *Plain) Select(ctx context.Context, projects []project.Project) (*project.Project, error) {
	shown := projects
	limit := p.Max
	if limit < 1 {
		limit = 10
	}
	if len(shown) > limit {
		shown = shown[:limit]
	}
	if len(shown) == 0 {
		return nil, nil
	}

	fmt.Fprintln(p.Out, "Recent projects:")
	for i, proj := range shown {
		fmt.Fprintf(p.Out, "  %d: %s\n", i+1, proj.MenuLabel())
	}
	fmt.Fprintf(p.Out, "Select a project (1-%d): ", len(shown))

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return nil, fmt.Errorf("%w: no input", ErrInvalidSelection)
	}

	answer := strings.TrimSpace(line)
	n, err := strconv.Atoi(answer)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, answer)
	}
	if n < 1 || n > len(shown) {
		return nil, fmt.Errorf("%w: %d is out of range", ErrInvalidSelection, n)
	}
	return &projects[n-1], nil
}
