package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConnectionName labels handles that were opened without an
// explicit connection name.
const DefaultConnectionName = "dicomdex"

type ProjectConfig struct {
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Exclude  []string       `yaml:"exclude"`
}

type DatabaseConfig struct {
	Path       string `yaml:"path"`
	Connection string `yaml:"connection"`
}

type IngestConfig struct {
	StoreFiles bool `yaml:"store_files"`
	Thumbnails bool `yaml:"thumbnails"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	cfg := ProjectConfig{
		Ingest: IngestConfig{StoreFiles: true},
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if strings.TrimSpace(cfg.Database.Connection) == "" {
		cfg.Database.Connection = DefaultConnectionName
	}

	return &cfg, nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Database.Path) == "" {
		return fmt.Errorf("database path is required")
	}
	for i, pattern := range cfg.Exclude {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("exclude entry %d is empty", i)
		}
	}
	return nil
}
