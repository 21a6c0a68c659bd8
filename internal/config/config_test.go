package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Scan.Extensions) == 0 || cfg.Scan.Extensions[0] != ".py" {
		t.Errorf("extensions = %v", cfg.Scan.Extensions)
	}
	if len(cfg.Scan.ExcludeGlobs) != 0 {
		t.Errorf("exclude globs = %v", cfg.Scan.ExcludeGlobs)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	root := t.TempDir()
	content := `
scan:
  extensions: [".go"]
  exclude_globs: ["gen/**"]
history_db: /tmp/custom.db
`
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Scan.Extensions) != 1 || cfg.Scan.Extensions[0] != ".go" {
		t.Errorf("extensions = %v", cfg.Scan.Extensions)
	}
	// Fields absent from the file keep their defaults.
	if len(cfg.Scan.ExcludeDirs) == 0 {
		t.Error("exclude dirs default was lost")
	}
	if cfg.HistoryDB != "/tmp/custom.db" {
		t.Errorf("history db = %q", cfg.HistoryDB)
	}

	path, err := cfg.HistoryDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != "/tmp/custom.db" {
		t.Errorf("resolved path = %q", path)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(":\nnot yaml ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(root); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestHistoryDBPathDefault(t *testing.T) {
	path, err := Default().HistoryDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "history.db" {
		t.Errorf("path = %q", path)
	}
}
