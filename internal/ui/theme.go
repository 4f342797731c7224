// Package ui provides terminal styling and the interactive project picker.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the styles used in the UI.
type Theme struct {
	// Base styles
	App lipgloss.Style

	// List styles
	ListTitle     lipgloss.Style
	NormalTitle   lipgloss.Style
	NormalDesc    lipgloss.Style
	SelectedTitle lipgloss.Style
	SelectedDesc  lipgloss.Style
	DimmedTitle   lipgloss.Style
	DimmedDesc    lipgloss.Style
	FilterMatch   lipgloss.Style

	// Messages
	Error lipgloss.Style
}

// DarkTheme returns a theme for dark terminals.
func DarkTheme() Theme {
	return Theme{
		App: lipgloss.NewStyle().Padding(1, 2),

		ListTitle:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("17")).Padding(0, 1),
		NormalTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Padding(0, 0, 0, 2),
		NormalDesc:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Padding(0, 0, 0, 2),
		SelectedTitle: lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("14")).Foreground(lipgloss.Color("14")).Padding(0, 0, 0, 1),
		SelectedDesc:  lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("14")).Foreground(lipgloss.Color("12")).Padding(0, 0, 0, 1),
		DimmedTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 0, 0, 2),
		DimmedDesc:    lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Padding(0, 0, 0, 2),
		FilterMatch:   lipgloss.NewStyle().Underline(true),

		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("9")), // Bright red
	}
}

// LightTheme returns a theme for light terminals.
func LightTheme() Theme {
	return Theme{
		App: lipgloss.NewStyle().Padding(1, 2),

		ListTitle:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("252")).Padding(0, 1),
		NormalTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Padding(0, 0, 0, 2),
		NormalDesc:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 0, 0, 2),
		SelectedTitle: lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("4")).Foreground(lipgloss.Color("4")).Padding(0, 0, 0, 1),
		SelectedDesc:  lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("4")).Foreground(lipgloss.Color("5")).Padding(0, 0, 0, 1),
		DimmedTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 0, 0, 2),
		DimmedDesc:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 0, 0, 2),
		FilterMatch:   lipgloss.NewStyle().Underline(true),

		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("1")), // Red
	}
}

// DetectTheme returns the appropriate theme based on OPEN_UNITY_THEME env var.
func DetectTheme() Theme {
	if override := os.Getenv("OPEN_UNITY_THEME"); override != "" {
		switch strings.ToLower(override) {
		case "dark":
			return DarkTheme()
		}
	}
	return LightTheme()
}

// GetTheme returns the theme based on the theme name.
func GetTheme(name string) Theme {
	switch strings.ToLower(name) {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		return DetectTheme()
	}
}
