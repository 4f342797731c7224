package main

import (
	"context"
	"fmt"
	"os"

	"github.com/osteele/open-unity/internal/app"
	"github.com/osteele/open-unity/internal/config"
	"github.com/osteele/open-unity/internal/launch"
	"github.com/osteele/open-unity/internal/picker"
	"github.com/osteele/open-unity/internal/ui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		exit(config.DefaultConfig(), fmt.Errorf("failed to load config: %w", err))
	}

	if err := newRootCmd(cfg).ExecuteContext(context.Background()); err != nil {
		exit(cfg, err)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "open-unity [path|.] [editor args...]",
		Short: "Open a Unity project with the editor version it was saved with",
		Long: `open-unity opens a Unity project in the matching Unity Editor.

With a project directory (or "."), the editor version is read from
ProjectSettings/ProjectVersion.txt and any further arguments are passed to
the editor. Without one, recent projects from Unity Hub are offered for
selection.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
				return cmd.Help()
			}
			return run(cmd.Context(), cfg, args)
		},
	}
}

func run(ctx context.Context, cfg *config.Config, args []string) error {
	logger := newLogger(cfg)

	theme := ui.GetTheme(string(cfg.UI.Theme))
	chain, err := picker.FromConfig(cfg.Picker, picker.Options{
		In:     os.Stdin,
		Out:    os.Stdout,
		Theme:  theme,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("invalid picker config: %w", err)
	}

	launcher := launch.NewLauncher(os.Stdout, logger)
	return app.New(cfg, chain, launcher, logger).Run(ctx, args)
}

func newLogger(cfg *config.Config) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.WithField("level", cfg.Log.Level).Warn("Unknown log level, using warn")
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)
	return logrus.NewEntry(logger)
}

// exit reports err on stderr and terminates with its exit code.
func exit(cfg *config.Config, err error) {
	var colorize bool
	switch cfg.UI.Color {
	case config.ColorAlways:
		colorize = true
	case config.ColorNever:
		colorize = false
	default:
		colorize = ui.IsTerminal(os.Stderr.Fd())
	}

	theme := ui.GetTheme(string(cfg.UI.Theme))
	fmt.Fprintln(os.Stderr, ui.RenderError(os.Stderr, theme, app.Message(err), colorize))
	os.Exit(app.ExitCode(err))
}
