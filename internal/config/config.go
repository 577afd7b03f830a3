// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for exportclean.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/exportclean/internal/export"
	"github.com/jeranaias/exportclean/internal/tree"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete exportclean configuration.
type Config struct {
	// Pipeline configuration
	Pipeline PipelineConfig `toml:"pipeline"`

	// Linearization configuration
	Tree TreeConfig `toml:"tree"`

	// Sanitization configuration
	Sanitize SanitizeConfig `toml:"sanitize"`

	// Fine-tune pair extraction configuration
	Pairs PairsConfig `toml:"pairs"`

	// Run catalog configuration
	Catalog CatalogConfig `toml:"catalog"`
}

// PipelineConfig controls batch execution.
type PipelineConfig struct {
	// Workers is the worker pool size (0 = number of CPUs).
	Workers int `toml:"workers"`
}

// TreeConfig controls active-branch selection.
type TreeConfig struct {
	// Fallback is the tip-selection policy when current_node is missing:
	// "last-child" (default), "first-child", or "none".
	Fallback string `toml:"fallback"`
}

// SanitizeConfig controls which roles survive sanitization.
type SanitizeConfig struct {
	IncludeSystem   bool `toml:"include_system"`
	IncludeTool     bool `toml:"include_tool"`
	ToolAsAssistant bool `toml:"tool_as_assistant"`
}

// PairsConfig controls fine-tune pair extraction.
type PairsConfig struct {
	// RefusalPatterns are regular expressions; a pair whose completion
	// matches any of them is skipped.
	RefusalPatterns []string `toml:"refusal_patterns"`
}

// CatalogConfig controls the sqlite run catalog.
type CatalogConfig struct {
	// Enabled turns on catalog recording for clean runs.
	Enabled bool `toml:"enabled"`
	// Path overrides the database location (default: <outdir>/catalog.db).
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{Workers: 0},
		Tree:     TreeConfig{Fallback: string(tree.FallbackLastChild)},
	}
}

// ConfigDir returns the exportclean configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".exportclean"), nil
}

// ConfigPath returns the default configuration file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads configuration from the default location, falling back to
// defaults when no file exists, then applies environment overrides.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := decodeFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads configuration from an explicit file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := decodeFile(cfg, path); err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies EXPORTCLEAN_* environment variables over the
// loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("EXPORTCLEAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Pipeline.Workers = n
		}
	}
	if v := os.Getenv("EXPORTCLEAN_FALLBACK"); v != "" {
		c.Tree.Fallback = v
	}
	if v := os.Getenv("EXPORTCLEAN_CATALOG"); v != "" {
		c.Catalog.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("EXPORTCLEAN_CATALOG_PATH"); v != "" {
		c.Catalog.Path = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("pipeline.workers must be >= 0, got %d", c.Pipeline.Workers)
	}
	if _, err := tree.ParseFallbackPolicy(c.Tree.Fallback); err != nil {
		return fmt.Errorf("tree.fallback: %w", err)
	}
	if _, err := export.CompileRefusalPatterns(c.Pairs.RefusalPatterns); err != nil {
		return fmt.Errorf("pairs.refusal_patterns: %w", err)
	}
	return nil
}

// EffectiveWorkers resolves the worker pool size, defaulting to the CPU count.
func (c *Config) EffectiveWorkers() int {
	if c.Pipeline.Workers > 0 {
		return c.Pipeline.Workers
	}
	return runtime.NumCPU()
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default location.
func Save(cfg *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.toml")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
