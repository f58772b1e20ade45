package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the optional user configuration:
//
//	database = "/data/shared/structures.db"
//	rho = 8050.0
//	output_dir = "out"
//	listen = ":9090"
//
// Every field is optional; flags override the config where both apply.
type Config struct {
	// Database is the path of the named-structure database.
	Database string `toml:"database"`

	// Rho is the default steel density in kg/m³ for skirt mass integration.
	Rho float64 `toml:"rho"`

	// OutputDir is the default directory for assembled output tables.
	OutputDir string `toml:"output_dir"`

	// Listen is the default HTTP API listen address.
	Listen string `toml:"listen"`
}

// configPath returns the config file path using the XDG standard
// (~/.config/geoconv/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the user config file. A missing file is not an error and
// yields the zero config; a malformed one is reported rather than ignored.
func loadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, nil
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
