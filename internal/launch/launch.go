// Package launch starts the Unity Editor for a project without waiting for it.
package launch

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Command builds the editor invocation for projectPath. Caller arguments come
// after the fixed flags, in order.
func Command(editorPath, projectPath string, extra []string) *exec.Cmd {
	args := []string{
		"-projectPath", projectPath,
		"-cacheServerEnableDownload", "false",
		"-cacheServerEnableUpload", "false",
	}
	args = append(args, extra...)
	return exec.Command(editorPath, args...)
}

// Launcher spawns the editor as a detached process.
type Launcher struct {
	Out io.Writer

	start  func(*exec.Cmd) error
	logger *logrus.Entry
}

// NewLauncher creates a Launcher that reports to out.
func NewLauncher(out io.Writer, logger *logrus.Entry) *Launcher {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Launcher{
		Out:    out,
		start:  startDetached,
		logger: logger.WithField("component", "launch"),
	}
}

// Launch announces and starts the editor, then returns without waiting for it.
// The editor keeps running after this process exits.
func (l *Launcher) Launch(editorPath, projectPath, version string, extra []string) error {
	cmd := Command(editorPath, projectPath, extra)
	args := cmd.Args[1:]

	fmt.Fprintf(l.Out, "Starting Unity %s with arguments: %s\n", version, strings.Join(args, " "))
	l.logger.WithFields(logrus.Fields{
		"editor":  editorPath,
		"project": projectPath,
	}).Debug("Spawning editor")

	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start Unity %s: %w", version, err)
	}
	if cmd.Process != nil {
		l.logger.WithField("pid", cmd.Process.Pid).Debug("Editor started")
		_ = cmd.Process.Release()
	}
	return nil
}

// startDetached starts cmd in its own session with no inherited streams.
func startDetached(cmd *exec.Cmd) error {
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		return err
	}
	defer devNull.Close()

	cmd.Stdin = devNull
	cmd.Stdout = nil
	cmd.Stderr = nil
	detach(cmd)
	return cmd.Start()
}
