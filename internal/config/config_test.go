package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if cfg.InputPath != "inputs/data.xlsx" {
		t.Fatalf("unexpected input path: %s", cfg.InputPath)
	}
	if cfg.Sheets.Definitions != "definitions" || cfg.Columns.Key != "id" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.OutputDir != "outputs" {
		t.Fatalf("unexpected output dir: %s", cfg.OutputDir)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `input_path: data/rules.xlsx
output_dir: reports
mode: union
aliases:
  fpu_bat: Battery
sheets:
  definitions: defs
columns:
  name: Names
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if cfg.InputPath != "data/rules.xlsx" || cfg.OutputDir != "reports" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Mode != "union" {
		t.Fatalf("unexpected mode: %s", cfg.Mode)
	}
	if cfg.Aliases["fpu_bat"] != "Battery" {
		t.Fatalf("aliases not loaded: %v", cfg.Aliases)
	}
	if cfg.Sheets.Definitions != "defs" {
		t.Fatalf("nested sheet override not applied: %+v", cfg.Sheets)
	}
	// Untouched keys keep their defaults.
	if cfg.Sheets.Monitors != "monitors" || cfg.Columns.Key != "id" {
		t.Fatalf("defaults lost on partial config: %+v", cfg)
	}
	if cfg.Columns.Name != "Names" {
		t.Fatalf("column override not applied: %+v", cfg.Columns)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FDIR_OUTPUT_DIR", "env-outputs")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.OutputDir != "env-outputs" {
		t.Fatalf("environment override not applied: %s", cfg.OutputDir)
	}
}
