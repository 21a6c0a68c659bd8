// Package config loads the optional .fddcheck.yaml file controlling the
// code-marker scanner and the history store location. Defaults apply when
// the file is absent; present fields override, absent fields keep their
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the expected configuration file name at the project root.
const FileName = ".fddcheck.yaml"

// Config holds the tunable knobs. Zero values mean "use the default".
type Config struct {
	// Scan controls the code-marker scanner.
	Scan ScanConfig `yaml:"scan"`

	// HistoryDB overrides the run-history database path.
	// Default: ~/.fddcheck/history.db
	HistoryDB string `yaml:"history_db"`
}

// ScanConfig controls which files the marker scanner visits.
type ScanConfig struct {
	// Extensions replaces the default file-extension allow-list.
	Extensions []string `yaml:"extensions"`

	// ExcludeDirs replaces the default directory-name deny-list.
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// ExcludeGlobs adds doublestar patterns matched against paths
	// relative to the scan root.
	ExcludeGlobs []string `yaml:"exclude_globs"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Extensions: []string{
				".py", ".rs", ".ts", ".tsx", ".js", ".jsx",
				".go", ".java", ".cs", ".sql", ".md",
			},
			ExcludeDirs: []string{
				".git", "node_modules", "venv", "__pycache__",
				".pytest_cache", "target", "build", "dist",
				"tests", "examples",
			},
		},
	}
}

// Load reads .fddcheck.yaml from the project root, layering it over the
// defaults. A missing file is not an error; a malformed one is.
func Load(projectRoot string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(projectRoot, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if len(overlay.Scan.Extensions) > 0 {
		cfg.Scan.Extensions = overlay.Scan.Extensions
	}
	if len(overlay.Scan.ExcludeDirs) > 0 {
		cfg.Scan.ExcludeDirs = overlay.Scan.ExcludeDirs
	}
	if len(overlay.Scan.ExcludeGlobs) > 0 {
		cfg.Scan.ExcludeGlobs = overlay.Scan.ExcludeGlobs
	}
	if overlay.HistoryDB != "" {
		cfg.HistoryDB = overlay.HistoryDB
	}

	return cfg, nil
}

// HistoryDBPath resolves the history database location, defaulting to
// ~/.fddcheck/history.db when not configured.
func (c *Config) HistoryDBPath() (string, error) {
	if c.HistoryDB != "" {
		return c.HistoryDB, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".fddcheck", "history.db"), nil
}
