package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/osteele/open-unity/internal/project"
)

// projectItem adapts a project to list.DefaultItem.
type projectItem struct {
	index   int
	project project.Project
}

func (i projectItem) Title() string { return i.project.Title }

func (i projectItem) Description() string {
	desc := fmt.Sprintf("%s  %s", i.project.Version, i.project.Path)
	if !i.project.LastModified.IsZero() {
		desc += "  " + i.project.LastModified.Format("2006-01-02 15:04")
	}
	return desc
}

// FilterValue matches against the same label the fuzzy finder shows.
func (i projectItem) FilterValue() string { return i.project.Label() }

// KeyMap defines the picker key bindings beyond those of the list itself.
type KeyMap struct {
	Choose key.Binding
}

// DefaultKeyMap returns the default picker key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "open"),
		),
	}
}

var keys = DefaultKeyMap()

// PickerModel is the Bubble Tea model for choosing a project.
type PickerModel struct {
	Theme Theme

	list   list.Model
	chosen int
}

// NewPickerModel creates a picker over projects, keeping their order.
func NewPickerModel(projects []project.Project, theme Theme, title string) PickerModel {
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		items[i] = projectItem{index: i, project: p}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.NormalTitle = theme.NormalTitle
	delegate.Styles.NormalDesc = theme.NormalDesc
	delegate.Styles.SelectedTitle = theme.SelectedTitle
	delegate.Styles.SelectedDesc = theme.SelectedDesc
	delegate.Styles.DimmedTitle = theme.DimmedTitle
	delegate.Styles.DimmedDesc = theme.DimmedDesc
	delegate.Styles.FilterMatch = theme.FilterMatch

	l := list.New(items, delegate, 80, 24)
	l.Title = title
	l.Styles.Title = theme.ListTitle
	l.SetStatusBarItemName("project", "projects")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Choose}
	}

	return PickerModel{
		Theme:  theme,
		list:   l,
		chosen: -1,
	}
}

// Chosen returns the index of the chosen project, or -1 if the user quit.
func (m PickerModel) Chosen() int {
	return m.chosen
}

// Init implements tea.Model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := m.Theme.App.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
		return m, nil

	case tea.KeyMsg:
		// While typing a filter, enter applies the filter instead of choosing.
		if m.list.FilterState() != list.Filtering && key.Matches(msg, keys.Choose) {
			if item, ok := m.list.SelectedItem().(projectItem); ok {
				m.chosen = item.index
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}
