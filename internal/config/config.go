// Package config loads winpilot configuration from YAML files with
// compiled-in defaults, so the tool runs without any config present.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"winpilot/internal/timeouts"
)

// DefaultNotepadPath is the stock Notepad location on every Windows install
const DefaultNotepadPath = "C:\\Windows\\System32\\notepad.exe"

// App describes a target application to automate
type App struct {
	Name         string        `mapstructure:"name"`
	Path         string        `mapstructure:"path"`
	Title        string        `mapstructure:"title"` // window-title substring to match
	StartupDelay time.Duration `mapstructure:"startup_delay"`
}

// Window holds the target bounds for the position step
type Window struct {
	X      int `mapstructure:"x"`
	Y      int `mapstructure:"y"`
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// Region describes a capture rectangle; a zero Width/Height means the
// primary display.
type Region struct {
	X      int `mapstructure:"x"`
	Y      int `mapstructure:"y"`
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// Screenshot holds capture settings
type Screenshot struct {
	Dir    string `mapstructure:"dir"`
	Region Region `mapstructure:"region"`
}

// Config is the root configuration
type Config struct {
	DefaultApp string     `mapstructure:"default_app"`
	Apps       []App      `mapstructure:"apps"`
	Window     Window     `mapstructure:"window"`
	Screenshot Screenshot `mapstructure:"screenshot"`
}

// Load reads configuration from the given file path. When path is empty
// it searches for winpilot.yaml in the working directory and
// %LOCALAPPDATA%\winpilot. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("winpilot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			v.AddConfigPath(filepath.Join(localAppData, "winpilot"))
		}
	}

	v.SetDefault("default_app", "Notepad")
	v.SetDefault("window.x", 0)
	v.SetDefault("window.y", 0)
	v.SetDefault("window.width", 1920)
	v.SetDefault("window.height", 1080)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if len(cfg.Apps) == 0 {
		cfg.Apps = defaultApps()
	}

	for i := range cfg.Apps {
		if cfg.Apps[i].StartupDelay == 0 {
			cfg.Apps[i].StartupDelay = timeouts.DefaultStartupDelay
		}
		if cfg.Apps[i].Title == "" {
			cfg.Apps[i].Title = cfg.Apps[i].Name
		}
	}

	return &cfg, nil
}

func defaultApps() []App {
	return []App{
		{
			Name:         "Notepad",
			Path:         DefaultNotepadPath,
			Title:        "Notepad",
			StartupDelay: timeouts.DefaultStartupDelay,
		},
	}
}

// App returns the configured application with the given name
// (case-insensitive), or an error listing the available names.
func (c *Config) App(name string) (*App, error) {
	for i := range c.Apps {
		if strings.EqualFold(c.Apps[i].Name, name) {
			return &c.Apps[i], nil
		}
	}

	names := make([]string, 0, len(c.Apps))
	for _, a := range c.Apps {
		names = append(names, a.Name)
	}

	return nil, fmt.Errorf("app %q not found, available: %s", name, strings.Join(names, ", "))
}

// PathEnvVar returns the environment variable that overrides the
// executable path for this app, e.g. WINPILOT_NOTEPAD_PATH.
func (a *App) PathEnvVar() string {
	name := strings.ToUpper(strings.ReplaceAll(a.Name, " ", "_"))
	return "WINPILOT_" + name + "_PATH"
}

// ResolvePath returns the executable path, honoring the env override
func (a *App) ResolvePath() string {
	if envPath := os.Getenv(a.PathEnvVar()); envPath != "" {
		return envPath
	}

	return a.Path
}

// ExeName returns the image name used for process detection
func (a *App) ExeName() string {
	path := a.ResolvePath()
	if i := strings.LastIndexAny(path, `\/`); i >= 0 {
		return path[i+1:]
	}

	return path
}

// ValidateInstallation checks that the executable exists.
// Returns an error with guidance if the file is not found.
func (a *App) ValidateInstallation() error {
	path := a.ResolvePath()

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		if os.Getenv(a.PathEnvVar()) != "" {
			return fmt.Errorf("%s not found at custom path: %s\n"+
				"Please verify the %s environment variable is correct", a.Name, path, a.PathEnvVar())
		}

		return fmt.Errorf("%s not found at configured path: %s\n"+
			"Please install it or set the %s environment variable", a.Name, path, a.PathEnvVar())
	}

	if err != nil {
		return fmt.Errorf("error checking %s installation at %s: %w", a.Name, path, err)
	}

	return nil
}
