// Package unity resolves Unity editor versions for projects and locates the
// matching editor installations.
package unity

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrSettingsNotFound is returned when the project has no version settings file.
	ErrSettingsNotFound = errors.New("project settings file not found")
	// ErrVersionNotFound is returned when the settings file names no editor version.
	ErrVersionNotFound = errors.New("editor version not found in project settings")
)

var editorVersionPattern = regexp.MustCompile(`^m_EditorVersion: (.*)`)

// ProjectVersion is the editor version recorded in ProjectVersion.txt.
type ProjectVersion struct {
	Version string
	// Revision is the changeset suffix from m_EditorVersionWithRevision, if present.
	Revision string
}

// ReadEditorVersion returns the value of the first m_EditorVersion line in the
// settings file. Later matching lines are ignored.
func ReadEditorVersion(settingsPath string) (string, error) {
	f, err := os.Open(settingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrSettingsNotFound, settingsPath)
		}
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if m := editorVersionPattern.FindStringSubmatch(line); m != nil {
			return m[1], nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", ErrVersionNotFound
}

// ReadProjectVersion returns the editor version along with its revision.
// The revision is read on a best-effort basis and left empty when the file
// is not valid YAML.
func ReadProjectVersion(settingsPath string) (ProjectVersion, error) {
	version, err := ReadEditorVersion(settingsPath)
	if err != nil {
		return ProjectVersion{}, err
	}
	pv := ProjectVersion{Version: version}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return pv, nil
	}
	var doc struct {
		WithRevision string `yaml:"m_EditorVersionWithRevision"`
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		pv.Revision = parseRevision(doc.WithRevision)
	}
	return pv, nil
}

var revisionPattern = regexp.MustCompile(`\(([0-9a-fA-F]+)\)\s*$`)

// parseRevision extracts "ff3792e53c62" from "2022.3.10f1 (ff3792e53c62)".
func parseRevision(withRevision string) string {
	if m := revisionPattern.FindStringSubmatch(withRevision); m != nil {
		return m[1]
	}
	return ""
}
