package unity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrEditorNotInstalled is returned when no editor exists for a version.
var ErrEditorNotInstalled = errors.New("editor not installed")

// EditorNotInstalledError reports the version and the path that was checked.
type EditorNotInstalledError struct {
	Version string
	Path    string
}

func (e *EditorNotInstalledError) Error() string {
	return fmt.Sprintf("Unity %s is not installed at %s", e.Version, e.Path)
}

// Unwrap lets errors.Is match ErrEditorNotInstalled.
func (e *EditorNotInstalledError) Unwrap() error {
	return ErrEditorNotInstalled
}

// Locator maps editor versions to executables under a Hub install root.
type Locator struct {
	// Root is the directory holding one subdirectory per installed version.
	Root string
	// Binary is the executable path relative to a version directory.
	Binary string
}

// NewLocator creates a Locator for the given install root and binary subpath.
func NewLocator(root, binary string) *Locator {
	return &Locator{Root: root, Binary: binary}
}

// Path returns where the editor for version would be installed. It does not
// check that the file exists.
func (l *Locator) Path(version string) string {
	return filepath.Join(l.Root, version, l.Binary)
}

// EditorPath returns the path of the installed editor executable for version.
func (l *Locator) EditorPath(version string) (string, error) {
	path := l.Path(version)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", &EditorNotInstalledError{Version: version, Path: path}
	}
	return path, nil
}

// Installed returns the versions with an editor executable under Root.
func (l *Locator) Installed() ([]string, error) {
	entries, err := os.ReadDir(l.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	versions := []string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := l.EditorPath(entry.Name()); err == nil {
			versions = append(versions, entry.Name())
		}
	}
	return versions, nil
}
