// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for exportclean.
//
// Supports TOML configuration with sensible defaults and environment
// variable overrides. Command-line flags take precedence over both.
//
// Configuration file locations (in order of precedence):
//   - path passed explicitly (--config)
//   - ~/.exportclean/config.toml
//   - Built-in defaults
package config
