// Package config loads and validates pipeline configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Config is the top-level configuration for the extraction pipeline
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Archive    ArchiveConfig    `yaml:"archive"`
	LogLevel   string           `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// ExtractionConfig controls how model graphs are walked
type ExtractionConfig struct {
	Mode             string `yaml:"mode" validate:"required,oneof=shallow deep"`
	RecurseFunctions bool   `yaml:"recurse_functions"`
}

// CatalogConfig controls the local network catalog
type CatalogConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// ArchiveConfig controls optional object-storage archival
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Bucket  string `yaml:"bucket" validate:"required_if=Enabled true"`
	Prefix  string `yaml:"prefix"`
	Region  string `yaml:"region"`
}

// Default returns a configuration with working defaults
func Default() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			Mode:             "deep",
			RecurseFunctions: true,
		},
		Catalog: CatalogConfig{
			Path: "modelgraph.db",
		},
		LogLevel: "info",
	}
}

// Load reads configuration from a YAML file, applies environment
// overrides, and validates the result. An empty path yields defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from MODELGRAPH_* environment variables
func (c *Config) applyEnv() {
	if v := os.Getenv("MODELGRAPH_CATALOG_PATH"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("MODELGRAPH_ARCHIVE_BUCKET"); v != "" {
		c.Archive.Enabled = true
		c.Archive.Bucket = v
	}
	if v := os.Getenv("MODELGRAPH_LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("config: field %s failed validation on '%s'", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("config: %w", err)
}
