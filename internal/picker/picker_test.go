package picker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/osteele/open-unity/internal/config"
	"github.com/osteele/open-unity/internal/project"
	"github.com/osteele/open-unity/internal/ui"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func makeProjects(n int) []project.Project {
	projects := make([]project.Project, n)
	for i := range projects {
		projects[i] = project.Project{
			Path:    fmt.Sprintf("/games/p%d", i+1),
			Title:   fmt.Sprintf("Project %d", i+1),
			Version: "2022.3.10f1",
		}
	}
	return projects
}

// fakeStrategy returns a fixed result and counts calls.
type fakeStrategy struct {
	name    string
	project *project.Project
	err     error
	calls   int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Select(ctx context.Context, projects []project.Project) (*project.Project, error) {
	f.calls++
	return f.project, f.err
}

// ============ Chain tests ============

func TestChain_FallsThroughUnavailable(t *testing.T) {
	projects := makeProjects(3)
	first := &fakeStrategy{name: "first", err: fmt.Errorf("%w: missing", ErrUnavailable)}
	second := &fakeStrategy{name: "second", project: &projects[1]}
	third := &fakeStrategy{name: "third", project: &projects[2]}

	got, err := NewChain(quietLogger(), first, second, third).Select(context.Background(), projects)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got == nil || got.Title != "Project 2" {
		t.Errorf("Select() = %v, want Project 2", got)
	}
	if first.calls != 1 || second.calls != 1 || third.calls != 0 {
		t.Errorf("calls = %d/%d/%d, want 1/1/0", first.calls, second.calls, third.calls)
	}
}

func TestChain_NoSelectionStopsChain(t *testing.T) {
	first := &fakeStrategy{name: "first"}
	second := &fakeStrategy{name: "second", project: &project.Project{Title: "never"}}

	got, err := NewChain(quietLogger(), first, second).Select(context.Background(), makeProjects(2))
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got != nil {
		t.Errorf("Select() = %v, want nil", got)
	}
	if second.calls != 0 {
		t.Error("chain should stop after a strategy returns no selection")
	}
}

func TestChain_ErrorStopsChain(t *testing.T) {
	first := &fakeStrategy{name: "first", err: ErrInvalidSelection}
	second := &fakeStrategy{name: "second", project: &project.Project{Title: "never"}}

	_, err := NewChain(quietLogger(), first, second).Select(context.Background(), makeProjects(2))
	if !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("Select() error = %v, want ErrInvalidSelection", err)
	}
	if second.calls != 0 {
		t.Error("chain should not try the next strategy after a real error")
	}
}

func TestChain_AllUnavailable(t *testing.T) {
	chain := NewChain(nil,
		&fakeStrategy{name: "a", err: ErrUnavailable},
		&fakeStrategy{name: "b", err: ErrUnavailable},
	)

	_, err := chain.Select(context.Background(), makeProjects(1))
	if !errors.Is(err, ErrNoStrategy) {
		t.Fatalf("Select() error = %v, want ErrNoStrategy", err)
	}
	if chain.Name() != "chain" || len(chain.Strategies()) != 2 {
		t.Errorf("Name() = %q, Strategies() = %d", chain.Name(), len(chain.Strategies()))
	}
}

func TestLabels_FirstMatchWins(t *testing.T) {
	projects := []project.Project{
		{Path: "/a/Games/Same", Title: "Same", Version: "1"},
		{Path: "/b/Games/Same", Title: "Same", Version: "1"},
	}
	labels := Labels(projects)
	if labels[0] != labels[1] {
		t.Fatalf("expected identical labels, got %q and %q", labels[0], labels[1])
	}
	if idx := indexOfLabel(labels, labels[1]); idx != 0 {
		t.Errorf("indexOfLabel() = %d, want 0", idx)
	}
	if idx := indexOfLabel(labels, "missing"); idx != -1 {
		t.Errorf("indexOfLabel(missing) = %d, want -1", idx)
	}
}

// ============ fzf tests ============

func newTestFzf(run Runner, lookErr error) *Fzf {
	f := NewFzf("fzf", "40%", "Select a Unity Project> ")
	f.run = run
	f.lookPath = func(name string) (string, error) {
		if lookErr != nil {
			return "", lookErr
		}
		return "/usr/bin/" + name, nil
	}
	return f
}

func TestFzf_Args(t *testing.T) {
	f := NewFzf("fzf", "40%", "Select a Unity Project> ")
	want := []string{"--height", "40%", "--reverse", "--prompt", "Select a Unity Project> "}
	got := f.Args()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Args() = %q, want %q", got, want)
	}
	if f.Name() != "fzf" {
		t.Errorf("Name() = %q", f.Name())
	}
}

func TestFzf_Select(t *testing.T) {
	projects := makeProjects(3)
	var gotName, gotStdin string
	var gotArgs []string
	f := newTestFzf(func(ctx context.Context, name string, args []string, stdin string) (string, error) {
		gotName, gotArgs, gotStdin = name, args, stdin
		return projects[1].Label() + "\n", nil
	}, nil)

	got, err := f.Select(context.Background(), projects)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got == nil || got.Path != projects[1].Path {
		t.Errorf("Select() = %v, want %v", got, projects[1])
	}
	if gotName != "/usr/bin/fzf" {
		t.Errorf("ran %q, want /usr/bin/fzf", gotName)
	}
	if len(gotArgs) != 5 {
		t.Errorf("args = %v", gotArgs)
	}
	wantStdin := "Project 1 (games) - 2022.3.10f1\nProject 2 (games) - 2022.3.10f1\nProject 3 (games) - 2022.3.10f1"
	if gotStdin != wantStdin {
		t.Errorf("stdin = %q, want %q", gotStdin, wantStdin)
	}
}

func TestFzf_NotInstalled(t *testing.T) {
	called := false
	f := newTestFzf(func(ctx context.Context, name string, args []string, stdin string) (string, error) {
		called = true
		return "", nil
	}, errors.New("executable file not found in $PATH"))

	_, err := f.Select(context.Background(), makeProjects(2))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Select() error = %v, want ErrUnavailable", err)
	}
	if called {
		t.Error("fzf should not run when it is not installed")
	}
}

func TestFzf_FailureIsUnavailable(t *testing.T) {
	f := newTestFzf(func(ctx context.Context, name string, args []string, stdin string) (string, error) {
		return "", errors.New("fzf exited with status 130")
	}, nil)

	_, err := f.Select(context.Background(), makeProjects(2))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Select() error = %v, want ErrUnavailable", err)
	}
}

func TestFzf_EmptyOutputIsNoSelection(t *testing.T) {
	f := newTestFzf(func(ctx context.Context, name string, args []string, stdin string) (string, error) {
		return "\n", nil
	}, nil)

	got, err := f.Select(context.Background(), makeProjects(2))
	if err != nil || got != nil {
		t.Errorf("Select() = %v, %v; want nil, nil", got, err)
	}
}

func TestFzf_UnknownLineIsInvalid(t *testing.T) {
	f := newTestFzf(func(ctx context.Context, name string, args []string, stdin string) (string, error) {
		return "Something else entirely\n", nil
	}, nil)

	_, err := f.Select(context.Background(), makeProjects(2))
	if !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("Select() error = %v, want ErrInvalidSelection", err)
	}
}

func TestFzf_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := newTestFzf(func(ctx context.Context, name string, args []string, stdin string) (string, error) {
		return "", errors.New("signal: killed")
	}, nil)

	_, err := f.Select(ctx, makeProjects(2))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Select() error = %v, want context.Canceled", err)
	}
}

// writeScript creates an executable shell script standing in for fzf.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-fzf")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFzf_ExternalProcess(t *testing.T) {
	// Picks the second input line, as if the user moved down once.
	script := writeScript(t, "sed -n 2p\n")
	projects := makeProjects(3)

	got, err := NewFzf(script, "40%", "> ").Select(context.Background(), projects)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got == nil || got.Title != "Project 2" {
		t.Errorf("Select() = %v, want Project 2", got)
	}
}

func TestFzf_ExternalProcessCancelled(t *testing.T) {
	// fzf exits 130 when the user presses escape.
	script := writeScript(t, "cat >/dev/null\nexit 130\n")

	_, err := NewFzf(script, "40%", "> ").Select(context.Background(), makeProjects(3))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Select() error = %v, want ErrUnavailable", err)
	}
	if !strings.Contains(err.Error(), "130") {
		t.Errorf("error %q should mention the exit status", err)
	}
}

// ============ plain tests ============

func TestPlain_ListsFirstTen(t *testing.T) {
	var out bytes.Buffer
	projects := makeProjects(12)

	got, err := NewPlain(strings.NewReader("10\n"), &out, 10).Select(context.Background(), projects)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got == nil || got.Title != "Project 10" {
		t.Errorf("Select() = %v, want Project 10", got)
	}

	var want strings.Builder
	want.WriteString("Recent projects:\n")
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&want, "  %d: Project %d (2022.3.10f1)\n", i, i)
	}
	want.WriteString("Select a project (1-10): ")
	if out.String() != want.String() {
		t.Errorf("output =\n%s\nwant\n%s", out.String(), want.String())
	}
}

func TestPlain_FewerThanTen(t *testing.T) {
	var out bytes.Buffer

	got, err := NewPlain(strings.NewReader(" 3 \n"), &out, 10).Select(context.Background(), makeProjects(3))
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got == nil || got.Title != "Project 3" {
		t.Errorf("Select() = %v, want Project 3", got)
	}
	if !strings.HasSuffix(out.String(), "Select a project (1-3): ") {
		t.Errorf("prompt = %q", out.String())
	}
}

func TestPlain_InputWithoutNewline(t *testing.T) {
	got, err := NewPlain(strings.NewReader("1"), io.Discard, 10).Select(context.Background(), makeProjects(2))
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got == nil || got.Title != "Project 1" {
		t.Errorf("Select() = %v, want Project 1", got)
	}
}

func TestPlain_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		projects int
	}{
		{"zero", "0\n", 12},
		{"eleven", "11\n", 12},
		{"beyond count", "4\n", 3},
		{"negative", "-1\n", 12},
		{"letters", "abc\n", 12},
		{"float", "1.5\n", 12},
		{"empty line", "\n", 12},
		{"eof", "", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlain(strings.NewReader(tt.input), io.Discard, 10)
			got, err := p.Select(context.Background(), makeProjects(tt.projects))
			if !errors.Is(err, ErrInvalidSelection) {
				t.Fatalf("Select(%q) error = %v, want ErrInvalidSelection", tt.input, err)
			}
			if got != nil {
				t.Errorf("Select(%q) = %v, want nil", tt.input, got)
			}
		})
	}
}

func TestPlain_DefaultLimit(t *testing.T) {
	var out bytes.Buffer
	_, err := NewPlain(strings.NewReader("11\n"), &out, 0).Select(context.Background(), makeProjects(15))
	if !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("Select() error = %v, want ErrInvalidSelection", err)
	}
	if strings.Contains(out.String(), "11:") {
		t.Error("plain list should show at most 10 projects by default")
	}
}

// ============ TUI tests ============

func TestTUI_UnavailableWithoutTerminal(t *testing.T) {
	tui := NewTUI(strings.NewReader(""), io.Discard, ui.LightTheme())
	tui.run = func(m tea.Model, opts ...tea.ProgramOption) (tea.Model, error) {
		t.Fatal("program should not run without a terminal")
		return m, nil
	}

	_, err := tui.Select(context.Background(), makeProjects(2))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Select() error = %v, want ErrUnavailable", err)
	}
	if tui.Name() != "tui" {
		t.Errorf("Name() = %q", tui.Name())
	}
}

// ============ FromConfig tests ============

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultConfig().Picker
	cfg.Strategies = []string{config.StrategyFzf, config.StrategyTUI, config.StrategyPlain}

	chain, err := FromConfig(cfg, Options{In: strings.NewReader(""), Out: io.Discard, Theme: ui.LightTheme(), Logger: quietLogger()})
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}

	var names []string
	for _, s := range chain.Strategies() {
		names = append(names, s.Name())
	}
	if strings.Join(names, ",") != "fzf,tui,plain" {
		t.Errorf("strategies = %v", names)
	}

	plain := chain.Strategies()[2].(*Plain)
	if plain.Max != 10 {
		t.Errorf("plain.Max = %d, want 10", plain.Max)
	}
}

func TestFromConfig_Errors(t *testing.T) {
	cfg := config.DefaultConfig().Picker

	cfg.Strategies = []string{"dmenu"}
	if _, err := FromConfig(cfg, Options{}); err == nil {
		t.Error("FromConfig() should reject unknown strategies")
	}

	cfg.Strategies = nil
	if _, err := FromConfig(cfg, Options{}); err == nil {
		t.Error("FromConfig() should reject an empty strategy list")
	}
}

func TestFromConfig_FallsBackToPlain(t *testing.T) {
	cfg := config.DefaultConfig().Picker
	cfg.FzfPath = filepath.Join(t.TempDir(), "no-such-fzf")

	var out bytes.Buffer
	chain, err := FromConfig(cfg, Options{In: strings.NewReader("2\n"), Out: &out, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}

	got, err := chain.Select(context.Background(), makeProjects(4))
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got == nil || got.Title != "Project 2" {
		t.Errorf("Select() = %v, want Project 2", got)
	}
	if !strings.HasPrefix(out.String(), "Recent projects:\n") {
		t.Errorf("plain fallback output = %q", out.String())
	}
}
