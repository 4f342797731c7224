// Package project reads Unity Hub's history of recently opened projects.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Project is one entry of the Hub project history.
type Project struct {
	Path    string
	Title   string
	Version string
	// LastModified is truncated to whole seconds. Zero means the store had no timestamp.
	LastModified time.Time
}

// Label returns the single-line form shown in the fuzzy finder.
func (p Project) Label() string {
	return fmt.Sprintf("%s (%s) - %s", p.Title, p.ParentName(), p.Version)
}

// MenuLabel returns the shorter form shown in the numbered list.
func (p Project) MenuLabel() string {
	return fmt.Sprintf("%s (%s)", p.Title, p.Version)
}

// ParentName returns the name of the directory that contains the project.
func (p Project) ParentName() string {
	return filepath.Base(filepath.Dir(p.Path))
}

// hubStore mirrors projects-v1.json. The data object is decoded into an
// ordered map so that records keep the order in which Hub wrote them.
type hubStore struct {
	Data *orderedmap.OrderedMap[string, json.RawMessage] `json:"data"`
}

type hubRecord struct {
	Path         *string  `json:"path"`
	Title        *string  `json:"title"`
	Version      *string  `json:"version"`
	LastModified *float64 `json:"lastModified"`
}

// missingField returns the name of the first required field that is absent or empty.
func (r hubRecord) missingField() string {
	switch {
	case r.Path == nil || *r.Path == "":
		return "path"
	case r.Title == nil || *r.Title == "":
		return "title"
	case r.Version == nil || *r.Version == "":
		return "version"
	case r.LastModified == nil || *r.LastModified == 0:
		return "lastModified"
	}
	return ""
}

func (r hubRecord) toProject() Project {
	millis := int64(*r.LastModified)
	return Project{
		Path:         *r.Path,
		Title:        *r.Title,
		Version:      *r.Version,
		LastModified: time.Unix(millis/1000, 0),
	}
}

// History loads projects from a Hub projects file.
type History struct {
	path   string
	logger *logrus.Entry
}

// NewHistory creates a History for the given projects-v1.json path.
func NewHistory(path string, logger *logrus.Entry) *History {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &History{
		path:   path,
		logger: logger.WithField("component", "history"),
	}
}

// Path returns the projects file location.
func (h *History) Path() string {
	return h.path
}

// Recent returns the valid projects, most recently modified first.
// A missing projects file yields an empty list.
func (h *History) Recent() ([]Project, error) {
	info, err := os.Stat(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			h.logger.WithField("file", h.path).Debug("Hub projects file not found")
			return []Project{}, nil
		}
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return []Project{}, nil
	}

	data, err := os.ReadFile(h.path)
	if err != nil {
		return nil, err
	}

	projects, err := h.parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", h.path, err)
	}
	return projects, nil
}

func (h *History) parse(data []byte) ([]Project, error) {
	var store hubStore
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, err
	}
	if store.Data == nil {
		return []Project{}, nil
	}

	projects := make([]Project, 0, store.Data.Len())
	for pair := store.Data.Oldest(); pair != nil; pair = pair.Next() {
		var record hubRecord
		if err := json.Unmarshal(pair.Value, &record); err != nil {
			h.logger.WithError(err).WithField("key", pair.Key).Debug("Skipping malformed record")
			continue
		}
		if field := record.missingField(); field != "" {
			h.logger.WithField("key", pair.Key).WithField("field", field).Debug("Skipping incomplete record")
			continue
		}
		projects = append(projects, record.toProject())
	}

	SortByRecency(projects)
	h.logger.WithField("kept", len(projects)).WithField("total", store.Data.Len()).Debug("Loaded Hub projects")
	return projects, nil
}

// SortByRecency orders projects by LastModified, newest first.
// Projects with equal timestamps keep their relative order.
func SortByRecency(projects []Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].LastModified.After(projects[j].LastModified)
	})
}
