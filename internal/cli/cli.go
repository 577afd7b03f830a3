// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for exportclean.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdClean Command = iota
	CmdInspect
	CmdCatalog
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool // Output in JSON format
	Config  string

	// Raw args (remaining after global flag parsing)
	Raw []string
}

const usageText = `exportclean - clean ChatGPT conversation exports

Exportclean reads a conversations.json export, follows each
conversation's active branch, strips hidden and non-visible messages,
normalizes the text, and writes clean training-ready artifacts.

It produces:
  - One Markdown file per conversation (markdown_by_conversation/)
  - A combined all_conversations.json
  - Prompt/completion pairs in pairs.jsonl

Usage:
  exportclean clean --in FILE --out DIR   Run the cleaning pipeline
  exportclean inspect --in FILE           Summarize an export without writing
  exportclean catalog [list|stats]        Query the run catalog
  exportclean version                     Show version information
  exportclean help                        Show this help

Clean Command:
  exportclean clean --in conversations.json --out ./cleaned
    --in FILE             Input export file (required)
    --out DIR             Output directory (required)
    --workers N           Worker pool size (default: number of CPUs)
    --fallback POLICY     Tip selection when current_node is missing:
                          last-child (default), first-child, none
    --include-system      Keep system messages
    --include-tool        Keep tool messages
    --tool-as-assistant   Relabel kept tool messages as assistant
    --catalog             Record the run in the catalog database
    --catalog-path FILE   Catalog database location (default: OUT/catalog.db)

Inspect Command:
  exportclean inspect --in conversations.json
    --in FILE             Input export file (required)
    --limit N             Show at most N conversations (default: all)

Catalog Commands:
  exportclean catalog list              List recorded runs
    --limit N                           Show last N runs (default: 20)
    --path FILE                         Catalog database location
  exportclean catalog stats             Show catalog totals
    --path FILE                         Catalog database location

Global Flags:
  -q, --quiet     Minimal output
  --verbose       Debug output
  --json          Output in JSON format
  --config FILE   Use an explicit config file

Examples:
  exportclean clean --in conversations.json --out ./cleaned
  exportclean clean --in export.json --out ./out --workers 8 --catalog
  exportclean clean --in export.json --out ./out --fallback first-child
  exportclean inspect --in conversations.json --limit 5
  exportclean catalog list --limit 10
  exportclean catalog stats --json

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("exportclean version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return parseArgs(os.Args[1:])
}

func parseArgs(args []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(args)

	// No command defaults to help
	if len(remaining) == 0 {
		return CmdHelp, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "clean":
		return CmdClean, parsedArgs

	case "inspect":
		return CmdInspect, parsedArgs

	case "catalog":
		return CmdCatalog, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command - restore it so help can mention it
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--config":
			if i+1 < len(args) {
				i++
				parsedArgs.Config = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--config=") {
				parsedArgs.Config = strings.TrimPrefix(arg, "--config=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}
