package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"deskimage/internal/install"
	"deskimage/internal/paths"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	GlobalTarget           string `yaml:"global_target"`            // Where install-global copies the tool
	Elevator               string `yaml:"elevator"`                 // sudo, pkexec, doas
	RefreshDesktopDatabase bool   `yaml:"refresh_desktop_database"` // Run update-desktop-database after writing
	RefreshIconCache       bool   `yaml:"refresh_icon_cache"`       // Run gtk-update-icon-cache after writing
	ApplicationsDir        string `yaml:"applications_dir,omitempty"`
	IconsDir               string `yaml:"icons_dir,omitempty"`
	LogFile                string `yaml:"log_file,omitempty"`
	LogLevel               string `yaml:"log_level,omitempty"`
	FirstRun               bool   `yaml:"-"` // No config file was found
}

const (
	appName        = "deskimage"
	configFileName = "config.yaml"
)

// Default returns the default configuration
func Default() *Config {
	return &Config{
		GlobalTarget:           install.DefaultTarget,
		Elevator:               install.DefaultElevator,
		RefreshDesktopDatabase: true,
		RefreshIconCache:       true,
		LogFile:                DefaultLogFile(),
		LogLevel:               "info",
		FirstRun:               true,
	}
}

// ConfigDir returns the directory containing deskimage config files
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// ConfigPath returns the path to the config file, creating its directory
func ConfigPath() string {
	path, err := xdg.ConfigFile(filepath.Join(appName, configFileName))
	if err != nil {
		return filepath.Join(ConfigDir(), configFileName)
	}
	return path
}

// DefaultLogFile returns the log file used by the interactive UI
func DefaultLogFile() string {
	path, err := xdg.CacheFile(filepath.Join(appName, appName+".log"))
	if err != nil {
		return filepath.Join(xdg.CacheHome, appName, appName+".log")
	}
	return path
}

// Load loads the configuration from the default location
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile loads the configuration from path.
// A missing file yields the defaults with FirstRun set.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	// Start from defaults so omitted keys keep their default values
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg.FirstRun = false
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.ApplicationsDir = expandHome(c.ApplicationsDir)
	c.IconsDir = expandHome(c.IconsDir)
	c.LogFile = expandHome(c.LogFile)
	c.GlobalTarget = expandHome(c.GlobalTarget)

	if strings.TrimSpace(c.GlobalTarget) == "" {
		c.GlobalTarget = install.DefaultTarget
	}
	if strings.TrimSpace(c.Elevator) == "" {
		c.Elevator = install.DefaultElevator
	}
}

// Save saves the configuration to the default location
func (c *Config) Save() error {
	return c.SaveFile(ConfigPath())
}

// SaveFile saves the configuration to path
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Resolver wraps base with the directory overrides from the config
func (c *Config) Resolver(base paths.Resolver) paths.Resolver {
	if c.ApplicationsDir == "" && c.IconsDir == "" {
		return base
	}
	return &paths.Override{
		Resolver:     base,
		Applications: c.ApplicationsDir,
		Icons:        c.IconsDir,
	}
}

// expandHome replaces a leading ~/ with the user's home directory
func expandHome(path string) string {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
