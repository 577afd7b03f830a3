// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and execution for exportclean.
//
// # Key Types
//
//   - Command: Enumeration of all available CLI commands
//   - Args: Parsed command-line arguments with global and command-specific flags
//   - ArgParser: Unified flag/subcommand parsing shared by all handlers
//
// # Usage
//
// Parse and dispatch commands:
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdClean:
//	    os.Exit(cli.HandleClean(args))
//	case cli.CmdInspect:
//	    os.Exit(cli.HandleInspect(args))
//	// ... other commands
//	}
//
// # Commands Overview
//
//   - clean: Run the full cleaning pipeline over an export file
//   - inspect: Summarize an export file without writing outputs
//   - catalog: Query the run catalog (list, stats)
//   - version: Print version information
//
// All commands support --json for machine-readable output.
package cli
