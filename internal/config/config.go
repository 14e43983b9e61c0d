// Package config handles .pyeditrc.yml project-level configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig represents the .pyeditrc.yml configuration file.
// It sets defaults for the CLI and MCP server so callers don't need to
// repeat the same flags on every invocation.
type ProjectConfig struct {
	Version int          `yaml:"version"`
	View    viewDefaults `yaml:"view"`
	Edit    editDefaults `yaml:"edit"`
}

// viewDefaults overrides defaults for the view operation.
type viewDefaults struct {
	MaxLines int `yaml:"max_lines"`
}

// editDefaults overrides defaults for the edit operation.
type editDefaults struct {
	DeleteALot bool `yaml:"delete_a_lot"`
}

// LoadProjectConfig loads project configuration from .pyeditrc.yml or
// .pyeditrc.yaml. If explicitPath is provided (from --config), that file is
// loaded. Otherwise, looks for .pyeditrc.yml then .pyeditrc.yaml in dir.
// Returns nil (no error) if no config file is found.
func LoadProjectConfig(dir string, explicitPath string) (*ProjectConfig, error) {
	var configPath string

	if explicitPath != "" {
		configPath = explicitPath
	} else {
		// Look for .pyeditrc.yml then .pyeditrc.yaml
		ymlPath := filepath.Join(dir, ".pyeditrc.yml")
		yamlPath := filepath.Join(dir, ".pyeditrc.yaml")

		if _, err := os.Stat(ymlPath); err == nil {
			configPath = ymlPath
		} else if _, err := os.Stat(yamlPath); err == nil {
			configPath = yamlPath
		} else {
			return nil, nil // No config found, use defaults
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read project config %s: %w", configPath, err)
	}

	cfg := &ProjectConfig{}
	// Use strict decoding to reject unknown fields
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse project config %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project config %s: %w", configPath, err)
	}

	return cfg, nil
}

// Validate checks that the ProjectConfig values are valid.
func (c *ProjectConfig) Validate() error {
	if c.Version != 0 && c.Version != 1 {
		return fmt.Errorf("unsupported config version %d (expected 1)", c.Version)
	}
	if c.View.MaxLines < 0 {
		return fmt.Errorf("view.max_lines must be >= 0, got %d", c.View.MaxLines)
	}
	return nil
}
