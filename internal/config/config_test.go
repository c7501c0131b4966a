package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Thresholds.PoolMin != 5 || cfg.Thresholds.PoolMax != 20 {
		t.Errorf("thresholds = %+v", cfg.Thresholds)
	}
	if cfg.Defaults.Format != "text" {
		t.Errorf("format = %q, want text", cfg.Defaults.Format)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Thresholds.PoolMin != 5 {
		t.Errorf("expected defaults when no file present, got %+v", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	content := `
thresholds:
  pool_min: 10
  pool_max: 50
exclude:
  tables:
    - schema_migrations
  findings:
    - view_association_access
defaults:
  format: json
`
	if err := os.WriteFile(filepath.Join(dir, ".railspect.yml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Thresholds.PoolMin != 10 || cfg.Thresholds.PoolMax != 50 {
		t.Errorf("thresholds = %+v", cfg.Thresholds)
	}
	if len(cfg.Exclude.Tables) != 1 || cfg.Exclude.Tables[0] != "schema_migrations" {
		t.Errorf("exclude tables = %v", cfg.Exclude.Tables)
	}
	if len(cfg.Exclude.Findings) != 1 || cfg.Exclude.Findings[0] != "view_association_access" {
		t.Errorf("exclude findings = %v", cfg.Exclude.Findings)
	}
	if cfg.Defaults.Format != "json" {
		t.Errorf("format = %q", cfg.Defaults.Format)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".railspect.yml"), []byte("defaults:\n  format: json\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Thresholds.PoolMin != 5 {
		t.Errorf("pool_min = %d, want default 5", cfg.Thresholds.PoolMin)
	}
	if cfg.Defaults.Format != "json" {
		t.Errorf("format = %q", cfg.Defaults.Format)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".railspect.yml"), []byte("{{bad"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
