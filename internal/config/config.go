// Package config loads promptforge workspace configuration from
// .forge/config.json, with environment-variable overrides for the paths
// automation typically needs to redirect.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"promptforge/internal/logging"
)

// LoggingConfig controls the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level,omitempty"`
}

// Config is the workspace configuration.
type Config struct {
	// TemplatesDir holds template source files, relative to the workspace
	// unless absolute.
	TemplatesDir string `json:"templates_dir"`

	// SnapshotsDir is the content-addressed snapshot base directory.
	SnapshotsDir string `json:"snapshots_dir"`

	// DriftSuite is the default drift battery file for `forge drift`.
	DriftSuite string `json:"drift_suite,omitempty"`

	// StrictDefault makes renders strict unless overridden per call.
	StrictDefault bool `json:"strict_default"`

	Logging LoggingConfig `json:"logging"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		TemplatesDir:  "templates",
		SnapshotsDir:  "snapshots",
		StrictDefault: false,
		Logging:       LoggingConfig{Level: "info"},
	}
}

// Load reads <workspace>/.forge/config.json, falling back to defaults when
// the file is absent, then applies environment overrides.
func Load(workspace string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(workspace, ".forge", "config.json")
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		logging.Get(logging.CategoryConfig).Debug("loaded config from %s", path)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnvOverrides(cfg)
	resolvePaths(cfg, workspace)
	return cfg, nil
}

// applyEnvOverrides lets automation redirect paths and strictness without
// editing the workspace config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FORGE_TEMPLATES_DIR"); v != "" {
		cfg.TemplatesDir = v
	}
	if v := os.Getenv("FORGE_SNAPSHOTS_DIR"); v != "" {
		cfg.SnapshotsDir = v
	}
	if v := os.Getenv("FORGE_STRICT"); v != "" {
		if strict, err := strconv.ParseBool(v); err == nil {
			cfg.StrictDefault = strict
		}
	}
}

func resolvePaths(cfg *Config, workspace string) {
	if !filepath.IsAbs(cfg.TemplatesDir) {
		cfg.TemplatesDir = filepath.Join(workspace, cfg.TemplatesDir)
	}
	if !filepath.IsAbs(cfg.SnapshotsDir) {
		cfg.SnapshotsDir = filepath.Join(workspace, cfg.SnapshotsDir)
	}
	if cfg.DriftSuite != "" && !filepath.IsAbs(cfg.DriftSuite) {
		cfg.DriftSuite = filepath.Join(workspace, cfg.DriftSuite)
	}
}
