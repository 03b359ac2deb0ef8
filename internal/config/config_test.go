package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromBytesAppliesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`sqlite_path: custom.db`))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if cfg.SQLitePath != "custom.db" {
		t.Errorf("SQLitePath = %q, want custom.db", cfg.SQLitePath)
	}
	if cfg.MockAPIURL != DefaultConfig().MockAPIURL {
		t.Errorf("MockAPIURL not defaulted: %q", cfg.MockAPIURL)
	}
	if !cfg.OracleMock {
		t.Error("OracleMock should default to true")
	}
}

func TestLoadFromFileMissingFallsBackToDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SQLitePath != DefaultConfig().SQLitePath {
		t.Errorf("expected default sqlite path, got %q", cfg.SQLitePath)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte("sqlite_path: from-file.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SQLITE_DB_PATH", "from-env.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SQLitePath != "from-env.db" {
		t.Errorf("SQLitePath = %q, want from-env.db (env should win)", cfg.SQLitePath)
	}
}
