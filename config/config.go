// Package config loads server configuration from an optional YAML file.
//
// Precedence is file over defaults; command-line flags in cmd/server
// override both. A missing file is not an error - the server runs fine
// on defaults for local development.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/warp/rating-engine/logging"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Store   StoreConfig    `yaml:"store"`
	Logging logging.Config `yaml:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// StoreConfig controls persistence.
type StoreConfig struct {
	// Path is the SQLite database file, or ":memory:".
	Path string `yaml:"path"`

	// SeedDemo loads the built-in demo rate filing on first start
	// when the store holds no configuration yet.
	SeedDemo bool `yaml:"seed_demo"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server:  ServerConfig{Port: 8080},
		Store:   StoreConfig{Path: "./rating.db", SeedDemo: true},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads configuration from path, layered over defaults.
// An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return cfg, fmt.Errorf("invalid server port %d in %s", cfg.Server.Port, path)
	}
	return cfg, nil
}
