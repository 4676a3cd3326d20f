// Package config provides TOML configuration loading for loom.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/loom/internal/domain"
)

// Config represents the application configuration.
type Config struct {
	DataDir         string    `toml:"data_dir,omitempty"`         // Where loom.json and logs live
	WorkspaceBase   string    `toml:"workspace_base,omitempty"`   // Base directory for strand workspaces
	DefaultAutonomy string    `toml:"default_autonomy,omitempty"` // Fallback autonomy mode
	Log             LogConfig `toml:"log,omitempty"`
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // debug, info, warn, error
}

// LocalConfigName is the per-directory config file picked up from the
// working directory, overriding the global config.
const LocalConfigName = "loom.toml"

// Loader loads configuration from TOML files, merging global and local
// sources and filling in defaults for anything unset.
type Loader struct {
	globalPath string
	localPath  string
}

// NewLoader creates a Loader for the default locations: the global config
// at $XDG_CONFIG_HOME/loom/config.toml and a local loom.toml in the
// current directory.
func NewLoader() *Loader {
	return &Loader{globalPath: defaultConfigPath(), localPath: LocalConfigName}
}

// NewLoaderWithPath creates a Loader for a single explicit config file
// with no local overlay. Useful for testing.
func NewLoaderWithPath(path string) *Loader {
	return &Loader{globalPath: path}
}

// NewLoaderWithPaths creates a Loader with explicit global and local
// config files. Useful for testing the merge.
func NewLoaderWithPaths(globalPath, localPath string) *Loader {
	return &Loader{globalPath: globalPath, localPath: localPath}
}

func defaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "loom", "config.toml")
}

func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "loom")
}

// Load reads the config files and applies defaults. Merge order is
// default <- global <- local (later takes precedence per key). Missing
// files are not an error; a malformed file is reported.
func (l *Loader) Load() (*Config, error) {
	cfg := &Config{}

	// Keys present in a later file overwrite the earlier value; absent
	// keys are left untouched.
	if err := applyFile(l.globalPath, cfg); err != nil {
		return nil, err
	}
	if err := applyFile(l.localPath, cfg); err != nil {
		return nil, err
	}

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	if cfg.WorkspaceBase == "" {
		cfg.WorkspaceBase = domain.DefaultWorkspaceBase(cfg.DataDir)
	}
	if cfg.DefaultAutonomy == "" {
		cfg.DefaultAutonomy = string(domain.DefaultAutonomy)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if !domain.ValidAutonomyMode(cfg.DefaultAutonomy) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMode, cfg.DefaultAutonomy)
	}

	return cfg, nil
}

// applyFile unmarshals one config file into cfg. A missing file is a
// no-op.
func applyFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(content, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Defaults or earlier sources apply.
	default:
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}
