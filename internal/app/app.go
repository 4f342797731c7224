// Package app dispatches an invocation to the explicit-path or recent-project flow.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/osteele/open-unity/internal/config"
	"github.com/osteele/open-unity/internal/picker"
	"github.com/osteele/open-unity/internal/project"
	"github.com/osteele/open-unity/internal/unity"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoRecentProjects is returned when the Hub history has no usable projects.
	ErrNoRecentProjects = errors.New("no recent projects")
	ErrInvalidSelection = picker.ErrInvalidSelection
	ErrSettingsNotFound = unity.ErrSettingsNotFound
	ErrVersionNotFound  = unity.ErrVersionNotFound
	// ErrEditorNotInstalled matches any *unity.EditorNotInstalledError.
	ErrEditorNotInstalled = unity.ErrEditorNotInstalled
)

// Error carries the message shown to the user for a fatal condition.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit status for the result of Run.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrVersionNotFound):
		return 2
	case errors.Is(err, ErrEditorNotInstalled):
		return 3
	default:
		return 1
	}
}

// Message returns the text to print for err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Error: " + err.Error()
}

// Launcher starts an editor for a project.
type Launcher interface {
	Launch(editorPath, projectPath, version string, extra []string) error
}

// App holds the components used by one invocation.
type App struct {
	Config   *config.Config
	History  *project.History
	Locator  *unity.Locator
	Picker   picker.Strategy
	Launcher Launcher

	logger *logrus.Entry
}

// New creates an App whose history and editor locations come from cfg.
func New(cfg *config.Config, p picker.Strategy, l Launcher, logger *logrus.Entry) *App {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &App{
		Config:   cfg,
		History:  project.NewHistory(cfg.Unity.HubProjectsFile, logger),
		Locator:  unity.NewLocator(cfg.Unity.EditorRoot, cfg.Unity.EditorBinary),
		Picker:   p,
		Launcher: l,
		logger:   logger.WithField("component", "app"),
	}
}

// Run opens the project named by args[0] when it is "." or a directory,
// passing the remaining arguments to the editor. Otherwise it asks the user
// to choose a recent project. Cancelling the choice returns nil.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if isProjectArg(args[0]) {
			return a.OpenPath(args[0], args[1:])
		}
		a.logger.WithField("arg", args[0]).Warn("Not a directory, showing recent projects instead")
	}
	return a.OpenRecent(ctx)
}

func isProjectArg(arg string) bool {
	if arg == "." {
		return true
	}
	info, err := os.Stat(arg)
	return err == nil && info.IsDir()
}

// OpenRecent lets the user pick a project from the Hub history and launches it
// with the version the Hub recorded.
func (a *App) OpenRecent(ctx context.Context) error {
	projects, err := a.History.Recent()
	if err != nil {
		return err
	}
	a.logger.WithFields(logrus.Fields{
		"file":     a.History.Path(),
		"projects": len(projects),
	}).Debug("Loaded recent projects")
	if len(projects) == 0 {
		return &Error{Message: "Couldn't find any recent Unity projects.", Err: ErrNoRecentProjects}
	}

	selected, err := a.Picker.Select(ctx, projects)
	if err != nil {
		if errors.Is(err, ErrInvalidSelection) {
			return &Error{Message: "Invalid selection.", Err: err}
		}
		return err
	}
	if selected == nil {
		return nil
	}
	return a.launch(selected.Path, selected.Version, nil)
}

// OpenPath launches the project in dir with the version from its settings file.
func (a *App) OpenPath(dir string, extra []string) error {
	projectPath, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if resolved, err := filepath.EvalSymlinks(projectPath); err == nil {
		projectPath = resolved
	}

	settingsFile := filepath.FromSlash(a.Config.Unity.SettingsFile)
	settingsPath := filepath.Join(projectPath, settingsFile)
	if info, err := os.Stat(settingsPath); err != nil || !info.Mode().IsRegular() {
		return &Error{
			Message: fmt.Sprintf("Couldn't find %s in:\n%s", a.Config.Unity.SettingsFile, projectPath),
			Err:     fmt.Errorf("%w: %s", ErrSettingsNotFound, settingsPath),
		}
	}

	pv, err := unity.ReadProjectVersion(settingsPath)
	if err != nil {
		if errors.Is(err, ErrVersionNotFound) {
			return &Error{Message: "Couldn't find Unity version in ProjectSettings file", Err: err}
		}
		return err
	}
	a.logger.WithFields(logrus.Fields{
		"settings": settingsPath,
		"version":  pv.Version,
		"revision": pv.Revision,
	}).Debug("Resolved editor version")

	return a.launch(projectPath, pv.Version, extra)
}

// launch locates the editor for version and starts it. Configured extra
// arguments precede the caller's.
func (a *App) launch(projectPath, version string, extra []string) error {
	editorPath, err := a.Locator.EditorPath(version)
	if err != nil {
		var notInstalled *unity.EditorNotInstalledError
		if errors.As(err, &notInstalled) {
			if installed, err := a.Locator.Installed(); err == nil {
				a.logger.WithFields(logrus.Fields{
					"version":   version,
					"installed": installed,
				}).Debug("Editor not installed")
			}
			return &Error{Message: "Couldn't find Unity Editor installation at " + notInstalled.Path, Err: err}
		}
		return err
	}

	args := make([]string, 0, len(a.Config.Unity.ExtraArgs)+len(extra))
	args = append(args, a.Config.Unity.ExtraArgs...)
	args = append(args, extra...)
	return a.Launcher.Launch(editorPath, projectPath, version, args)
}
