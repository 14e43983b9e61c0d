package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectConfig_ValidYml(t *testing.T) {
	tmpDir := t.TempDir()

	content := `version: 1
view:
  max_lines: 300
edit:
  delete_a_lot: true
`
	if err := os.WriteFile(filepath.Join(tmpDir, ".pyeditrc.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadProjectConfig(tmpDir, "")
	if err != nil {
		t.Fatalf("LoadProjectConfig() error: %v", err)
	}

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.View.MaxLines != 300 {
		t.Errorf("View.MaxLines = %d, want 300", cfg.View.MaxLines)
	}
	if !cfg.Edit.DeleteALot {
		t.Errorf("Edit.DeleteALot = false, want true")
	}
}

func TestLoadProjectConfig_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadProjectConfig(tmpDir, "")
	if err != nil {
		t.Fatalf("LoadProjectConfig() error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config for missing file, got %+v", cfg)
	}
}

func TestLoadProjectConfig_InvalidMaxLines(t *testing.T) {
	tmpDir := t.TempDir()

	content := `version: 1
view:
  max_lines: -5
`
	if err := os.WriteFile(filepath.Join(tmpDir, ".pyeditrc.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadProjectConfig(tmpDir, "")
	if err == nil {
		t.Fatal("expected error for negative max_lines")
	}
}

func TestLoadProjectConfig_InvalidVersion(t *testing.T) {
	tmpDir := t.TempDir()

	content := `version: 99
`
	if err := os.WriteFile(filepath.Join(tmpDir, ".pyeditrc.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadProjectConfig(tmpDir, "")
	if err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestLoadProjectConfig_ExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()

	content := `version: 1
view:
  max_lines: 120
`
	customPath := filepath.Join(tmpDir, "custom-config.yml")
	if err := os.WriteFile(customPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadProjectConfig(tmpDir, customPath)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error: %v", err)
	}

	if cfg.View.MaxLines != 120 {
		t.Errorf("View.MaxLines = %d, want 120", cfg.View.MaxLines)
	}
}

func TestLoadProjectConfig_YamlExtension(t *testing.T) {
	tmpDir := t.TempDir()

	content := `version: 1
view:
  max_lines: 50
`
	if err := os.WriteFile(filepath.Join(tmpDir, ".pyeditrc.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadProjectConfig(tmpDir, "")
	if err != nil {
		t.Fatalf("LoadProjectConfig() error: %v", err)
	}

	if cfg == nil {
		t.Fatal("expected non-nil config for .pyeditrc.yaml")
	}
	if cfg.View.MaxLines != 50 {
		t.Errorf("View.MaxLines = %d, want 50", cfg.View.MaxLines)
	}
}

func TestValidate_NegativeMaxLines(t *testing.T) {
	cfg := &ProjectConfig{
		Version: 1,
		View:    viewDefaults{MaxLines: -1},
	}

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative max_lines")
	}
}

func TestValidate_UnsupportedVersion(t *testing.T) {
	cfg := &ProjectConfig{Version: 2}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported version")
	}
}
