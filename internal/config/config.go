// Package config provides configuration management for open-unity.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

// ThemeMode represents the theme selection mode.
type ThemeMode string

const (
	ThemeModeAuto  ThemeMode = "auto"
	ThemeModeLight ThemeMode = "light"
	ThemeModeDark  ThemeMode = "dark"
)

// ColorMode controls when error output is colorized.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Picker strategy names accepted in PickerConfig.Strategies.
const (
	StrategyFzf   = "fzf"
	StrategyTUI   = "tui"
	StrategyPlain = "plain"
)

// UnityConfig locates Unity Hub data and editor installations.
type UnityConfig struct {
	HubProjectsFile string   `toml:"hub_projects_file"`
	EditorRoot      string   `toml:"editor_root"`
	EditorBinary    string   `toml:"editor_binary"`
	SettingsFile    string   `toml:"settings_file"`
	ExtraArgs       []string `toml:"extra_args"`
}

// PickerConfig controls interactive project selection.
type PickerConfig struct {
	Strategies []string `toml:"strategies"`
	FzfPath    string   `toml:"fzf_path"`
	FzfHeight  string   `toml:"fzf_height"`
	Prompt     string   `toml:"prompt"`
	MaxItems   int      `toml:"max_items"`
}

// UIConfig contains UI-related settings.
type UIConfig struct {
	Theme ThemeMode `toml:"theme"`
	Color ColorMode `toml:"color"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Config represents the application configuration.
type Config struct {
	Unity  UnityConfig  `toml:"unity"`
	Picker PickerConfig `toml:"picker"`
	UI     UIConfig     `toml:"ui"`
	Log    LogConfig    `toml:"log"`
}

// DefaultConfig returns the default configuration for the current platform.
func DefaultConfig() *Config {
	root, binary := defaultEditorLayout(runtime.GOOS)
	return &Config{
		Unity: UnityConfig{
			HubProjectsFile: defaultHubProjectsFile(),
			EditorRoot:      root,
			EditorBinary:    binary,
			SettingsFile:    filepath.Join("ProjectSettings", "ProjectVersion.txt"),
			ExtraArgs:       []string{},
		},
		Picker: PickerConfig{
			Strategies: []string{StrategyFzf, StrategyPlain},
			FzfPath:    "fzf",
			FzfHeight:  "40%",
			Prompt:     "Select a Unity Project> ",
			MaxItems:   10,
		},
		UI: UIConfig{
			Theme: ThemeModeAuto,
			Color: ColorAuto,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// configPathFunc is the function used to determine the config file path.
// It can be overridden in tests to control the config location.
var configPathFunc = defaultConfigPath

// Load loads the configuration from the standard config file location.
// Returns the default config if no config file exists.
func Load() (*Config, error) {
	path := configPathFunc()
	if path == "" {
		return withEnv(DefaultConfig()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return withEnv(DefaultConfig()), nil
		}
		return nil, err
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	config.Unity.HubProjectsFile = expandPath(config.Unity.HubProjectsFile)
	config.Unity.EditorRoot = expandPath(config.Unity.EditorRoot)

	return withEnv(config), nil
}

// withEnv applies environment variable overrides.
func withEnv(cfg *Config) *Config {
	if level := os.Getenv("OPEN_UNITY_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if theme := os.Getenv("OPEN_UNITY_THEME"); theme != "" {
		cfg.UI.Theme = ThemeMode(theme)
	}
	return cfg
}

// defaultConfigPath returns the standard config file path for the current platform.
func defaultConfigPath() string {
	if path := os.Getenv("OPEN_UNITY_CONFIG"); path != "" {
		return path
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "open-unity", "config.toml")
}

// defaultHubProjectsFile returns where Unity Hub keeps its project list.
// os.UserConfigDir matches Hub's data directory on macOS, Windows and Linux.
func defaultHubProjectsFile() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "UnityHub", "projects-v1.json")
}

// defaultEditorLayout returns the Hub editor install root and the editor
// executable path relative to a version directory.
func defaultEditorLayout(goos string) (root, binary string) {
	switch goos {
	case "darwin":
		return "/Applications/Unity/Hub/Editor", filepath.Join("Unity.app", "Contents", "MacOS", "Unity")
	case "windows":
		return `C:\Program Files\Unity\Hub\Editor`, filepath.Join("Editor", "Unity.exe")
	default:
		return expandPath("~/Unity/Hub/Editor"), filepath.Join("Editor", "Unity")
	}
}

// expandPath expands ~ to home directory in a path.
func expandPath(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}
