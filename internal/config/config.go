// Package config loads server configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the server's runtime settings.
type Config struct {
	Port        int    `yaml:"port"`
	DatabaseURL string `yaml:"databaseUrl"`
	CatalogPath string `yaml:"catalogPath"` // optional extra field-catalog YAML
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:        8080,
		DatabaseURL: "file:shears.db?_pragma=foreign_keys(1)",
	}
}

// Read loads configuration: defaults, then the YAML file at path (if path
// is non-empty), then environment variables (PORT, DATABASE_URL,
// CATALOG_PATH), each layer overriding the previous.
func Read(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %q: %w", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = n
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.CatalogPath = v
	}
	return cfg, nil
}
