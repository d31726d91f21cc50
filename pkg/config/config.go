// Package config loads server settings from a YAML file with environment
// variable overrides. Missing file and missing keys fall back to defaults so
// a bare `go run ./cmd/api` works out of the box.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"property_underwriting/pkg/models"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`
	// Assumptions seeds the active GlobalAssumptions row when the store has
	// none yet, and serves as the fallback when no store is configured.
	Assumptions models.GlobalAssumptions `yaml:"assumptions"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides, then defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if (cfg.Assumptions == models.GlobalAssumptions{}) {
		cfg.Assumptions = models.DefaultAssumptions()
	}

	return cfg, nil
}
