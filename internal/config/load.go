package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name searched for in the working directory.
const FileName = "terrainview.yaml"

// EnvConfig names the environment variable holding a config file path. It is
// consulted when no -config flag is given.
const EnvConfig = "TERRAINVIEW_CONFIG"

// Load loads configuration with priority: defaults < file < flags.
// The result is validated.
func Load() (*Config, error) {
	cfg := Default()

	configPath := configFile()

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configFile picks the file to load: the -config flag, then $TERRAINVIEW_CONFIG,
// then the standard locations. Explicit paths are returned even when missing so
// that Load reports them.
func configFile() string {
	if path := ConfigPath(); path != "" {
		return path
	}
	if path := os.Getenv(EnvConfig); path != "" {
		return path
	}
	return findConfigFile()
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./" + FileName,
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "TrigTerrain")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "TrigTerrain")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "trigterrain")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "trigterrain")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
