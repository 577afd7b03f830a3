// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// catalog_cmd.go - The catalog command: query recorded cleaning runs.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/exportclean/internal/catalog"
	"github.com/jeranaias/exportclean/internal/config"
)

// HandleCatalog dispatches catalog subcommands and returns an exit code.
func HandleCatalog(args Args) int {
	parser := NewArgParser(args.Raw)

	path := parser.Flag("path")
	if path == "" {
		cfg, err := loadConfig(args)
		if err != nil {
			DisplayError(NewCommandError("catalog", "config", "invalid configuration", err), args.JSON)
			return ExitConfigError
		}
		path = cfg.Catalog.Path
	}
	if path == "" {
		err := NewValidationError("--path", "",
			"no catalog database configured; pass --path or set catalog.path in "+configHint())
		DisplayError(err, args.JSON)
		return ExitUsageError
	}

	if _, err := os.Stat(path); err != nil {
		DisplayError(NewNotFoundError("catalog", path), args.JSON)
		return ExitNotFoundError
	}

	cat, err := catalog.Open(path)
	if err != nil {
		DisplayError(NewCommandError("catalog", "open", "opening database failed", err), args.JSON)
		return ExitGeneralError
	}
	defer cat.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch parser.Subcommand() {
	case "", "list":
		return catalogList(ctx, cat, parser, args)
	case "stats":
		return catalogStats(ctx, cat, args)
	default:
		err := NewValidationError("subcommand", parser.Subcommand(), "must be list or stats")
		DisplayError(err, args.JSON)
		return ExitUsageError
	}
}

func configHint() string {
	path, err := config.ConfigPath()
	if err != nil {
		return "the config file"
	}
	return path
}

func catalogList(ctx context.Context, cat *catalog.Catalog, parser *ArgParser, args Args) int {
	limit := parser.FlagIntOrDefault("limit", 20)
	runs, err := cat.Runs(ctx, limit)
	if err != nil {
		DisplayError(NewCommandError("catalog", "list", "query failed", err), args.JSON)
		return ExitGeneralError
	}

	if args.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(runs); err != nil {
			return ExitGeneralError
		}
		return ExitSuccess
	}

	fmt.Println(TitleStyle.Render("Catalog Runs"))
	if len(runs) == 0 {
		fmt.Println(DimStyle.Render("no runs recorded"))
		return ExitSuccess
	}
	for _, r := range runs {
		fmt.Printf("%s  %s\n",
			DimStyle.Render(r.StartedAt.Format("2006-01-02 15:04:05")),
			ValueStyle.Render(fmt.Sprintf("%s -> %s", r.Input, r.Output)))
		fmt.Printf("            %s\n",
			DimStyle.Render(fmt.Sprintf("%d conversations, %d pairs, %d skipped",
				r.Conversations, r.Pairs, r.Skipped)))
	}
	return ExitSuccess
}

func catalogStats(ctx context.Context, cat *catalog.Catalog, args Args) int {
	stats, err := cat.Stats(ctx)
	if err != nil {
		DisplayError(NewCommandError("catalog", "stats", "query failed", err), args.JSON)
		return ExitGeneralError
	}

	if args.JSON {
		out := map[string]interface{}{
			"runs":          stats.Runs,
			"conversations": stats.Conversations,
			"total_pairs":   stats.TotalPairs,
		}
		if !stats.LastRun.IsZero() {
			out["last_run"] = stats.LastRun.Format(time.RFC3339)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			return ExitGeneralError
		}
		return ExitSuccess
	}

	fmt.Println(TitleStyle.Render("Catalog Stats"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Runs:"),
		ValueStyle.Render(fmt.Sprintf("%d", stats.Runs)))
	fmt.Printf("%s %s\n", LabelStyle.Render("Conversations:"),
		ValueStyle.Render(fmt.Sprintf("%d", stats.Conversations)))
	fmt.Printf("%s %s\n", LabelStyle.Render("Total pairs:"),
		ValueStyle.Render(fmt.Sprintf("%d", stats.TotalPairs)))
	if !stats.LastRun.IsZero() {
		fmt.Printf("%s %s\n", LabelStyle.Render("Last run:"),
			DimStyle.Render(stats.LastRun.Format("2006-01-02 15:04:05")))
	}
	return ExitSuccess
}
