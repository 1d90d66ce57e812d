package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		cfg, err := LoadProjectConfig(filepath.Join("testdata", "valid_config.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Database.Path != "./dicomdex.db" {
			t.Fatalf("expected database path, got %q", cfg.Database.Path)
		}
		if cfg.Database.Connection != "archive" {
			t.Fatalf("expected connection name, got %q", cfg.Database.Connection)
		}
		if cfg.Ingest.StoreFiles {
			t.Fatalf("expected store_files false from file")
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\ndatabase:\n  path: ./dicomdex.db\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Database.Connection != DefaultConnectionName {
			t.Fatalf("expected default connection, got %q", cfg.Database.Connection)
		}
		if !cfg.Ingest.StoreFiles {
			t.Fatalf("expected store_files to default to true")
		}
	})

	t.Run("in-memory path", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\ndatabase:\n  path: \":memory:\"\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Database.Path != ":memory:" {
			t.Fatalf("expected memory sentinel, got %q", cfg.Database.Path)
		}
	})

	t.Run("missing version", func(t *testing.T) {
		path := writeTempConfig(t, "database:\n  path: ./dicomdex.db\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		path := writeTempConfig(t, "version: 2\ndatabase:\n  path: ./dicomdex.db\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("missing database path", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\ndatabase:\n  connection: archive\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("empty exclude entry", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\ndatabase:\n  path: ./dicomdex.db\nexclude:\n  - \"\"\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("file not found", func(t *testing.T) {
		if _, err := LoadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeTempConfig(t, "version: [\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
