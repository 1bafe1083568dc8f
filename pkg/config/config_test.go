package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Extraction.Mode != "deep" || !cfg.Extraction.RecurseFunctions {
		t.Errorf("Unexpected extraction defaults: %+v", cfg.Extraction)
	}
	if cfg.Catalog.Path != "modelgraph.db" {
		t.Errorf("Unexpected catalog default: %s", cfg.Catalog.Path)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Unexpected log level default: %s", cfg.LogLevel)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
extraction:
  mode: shallow
catalog:
  path: /tmp/nets.db
log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Extraction.Mode != "shallow" {
		t.Errorf("Expected shallow mode, got %s", cfg.Extraction.Mode)
	}
	if cfg.Catalog.Path != "/tmp/nets.db" {
		t.Errorf("Unexpected catalog path: %s", cfg.Catalog.Path)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Unexpected log level: %s", cfg.LogLevel)
	}
}

func TestLoad_InvalidMode(t *testing.T) {
	path := writeConfig(t, `
extraction:
  mode: sideways
`)
	if _, err := Load(path); err == nil {
		t.Error("Expected validation error for invalid mode")
	}
}

func TestLoad_ArchiveRequiresBucket(t *testing.T) {
	path := writeConfig(t, `
extraction:
  mode: deep
archive:
  enabled: true
`)
	if _, err := Load(path); err == nil {
		t.Error("Expected validation error for enabled archive without bucket")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MODELGRAPH_CATALOG_PATH", "/data/override.db")
	t.Setenv("MODELGRAPH_ARCHIVE_BUCKET", "model-archive")
	t.Setenv("MODELGRAPH_LOG_LEVEL", "WARN")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Catalog.Path != "/data/override.db" {
		t.Errorf("Env override missed catalog path: %s", cfg.Catalog.Path)
	}
	if !cfg.Archive.Enabled || cfg.Archive.Bucket != "model-archive" {
		t.Errorf("Env override missed archive: %+v", cfg.Archive)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Env override missed log level: %s", cfg.LogLevel)
	}
}
