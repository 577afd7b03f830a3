// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// clean.go - The clean command: run the full cleaning pipeline.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jeranaias/exportclean/internal/catalog"
	"github.com/jeranaias/exportclean/internal/config"
	"github.com/jeranaias/exportclean/internal/export"
	"github.com/jeranaias/exportclean/internal/pipeline"
	"github.com/jeranaias/exportclean/internal/sanitize"
	"github.com/jeranaias/exportclean/internal/tree"
)

// HandleClean runs the cleaning pipeline and returns an exit code.
func HandleClean(args Args) int {
	parser := NewArgParser(args.Raw)

	input := parser.Flag("in")
	if input == "" {
		err := NewValidationError("--in", "", "input export file is required")
		DisplayError(err, args.JSON)
		return ExitUsageError
	}
	output := parser.Flag("out")
	if output == "" {
		err := NewValidationError("--out", "", "output directory is required")
		DisplayError(err, args.JSON)
		return ExitUsageError
	}

	if _, err := os.Stat(input); err != nil {
		DisplayError(NewNotFoundError("input file", input), args.JSON)
		return ExitNotFoundError
	}

	cfg, err := loadConfig(args)
	if err != nil {
		DisplayError(NewCommandError("clean", "config", "invalid configuration", err), args.JSON)
		return ExitConfigError
	}

	opts, err := buildPipelineOptions(cfg, parser, input, output)
	if err != nil {
		DisplayError(err, args.JSON)
		return ExitUsageError
	}

	summary, err := pipeline.Run(context.Background(), opts)
	if err != nil {
		DisplayError(NewCommandError("clean", "run", "pipeline failed", err), args.JSON)
		return ExitGeneralError
	}

	if parser.BoolFlag("catalog") || cfg.Catalog.Enabled {
		path := parser.Flag("catalog-path")
		if path == "" {
			path = cfg.Catalog.Path
		}
		if path == "" {
			path = filepath.Join(output, "catalog.db")
		}
		if err := recordRun(path, input, output, summary); err != nil {
			DisplayError(NewCommandError("clean", "catalog", "recording run failed", err), args.JSON)
			return ExitGeneralError
		}
	}

	if args.JSON {
		return printSummaryJSON(summary)
	}
	printSummary(summary, output, args.Quiet)
	return ExitSuccess
}

// loadConfig resolves the effective configuration for a command.
func loadConfig(args Args) (*config.Config, error) {
	if args.Config != "" {
		return config.LoadFromPath(args.Config)
	}
	return config.Load()
}

// buildPipelineOptions merges config values with command-line flags.
// Flags take precedence over config, which takes precedence over defaults.
func buildPipelineOptions(cfg *config.Config, parser *ArgParser, input, output string) (pipeline.Options, error) {
	fallbackName := parser.FlagOrDefault("fallback", cfg.Tree.Fallback)
	fallback, err := tree.ParseFallbackPolicy(fallbackName)
	if err != nil {
		return pipeline.Options{}, NewValidationError("--fallback", fallbackName,
			"must be last-child, first-child, or none")
	}

	refusals, err := export.CompileRefusalPatterns(cfg.Pairs.RefusalPatterns)
	if err != nil {
		return pipeline.Options{}, NewCommandError("clean", "config", "invalid refusal pattern", err)
	}

	sanOpts := sanitize.Options{
		IncludeSystem:   cfg.Sanitize.IncludeSystem || parser.BoolFlag("include-system"),
		IncludeTool:     cfg.Sanitize.IncludeTool || parser.BoolFlag("include-tool"),
		ToolAsAssistant: cfg.Sanitize.ToolAsAssistant || parser.BoolFlag("tool-as-assistant"),
	}

	return pipeline.Options{
		InputPath: input,
		OutputDir: output,
		Workers:   parser.FlagIntOrDefault("workers", cfg.EffectiveWorkers()),
		Tree:      tree.Options{Fallback: fallback},
		Sanitize:  sanOpts,
		Pairs:     export.PairOptions{RefusalPatterns: refusals},
	}, nil
}

// recordRun writes the run summary into the catalog database.
func recordRun(path, input, output string, summary *pipeline.Summary) error {
	cat, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer cat.Close()

	run := catalog.RunRecord{
		Input:         input,
		Output:        output,
		Conversations: summary.Converted,
		Pairs:         summary.Pairs,
		Skipped:       summary.Skipped,
		StartedAt:     summary.Started,
		FinishedAt:    summary.Finished,
	}

	var convs []catalog.ConversationRecord
	for _, o := range summary.Outcomes {
		if o.SkipReason != "" {
			continue
		}
		convs = append(convs, catalog.ConversationRecord{
			Identity:   o.Identity,
			Slug:       export.Slug(o.Title),
			Title:      o.Title,
			CreateTime: o.CreateTime,
			Turns:      o.Turns,
			Pairs:      o.Pairs,
			CleanedAt:  summary.Finished,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return cat.RecordRun(ctx, run, convs)
}

// =============================================================================
// OUTPUT
// =============================================================================

func printSummary(summary *pipeline.Summary, output string, quiet bool) {
	if quiet {
		fmt.Printf("%d converted, %d skipped, %d pairs\n",
			summary.Converted, summary.Skipped, summary.Pairs)
		return
	}

	fmt.Println(TitleStyle.Render("Export Clean"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Conversations:"),
		ValueStyle.Render(fmt.Sprintf("%d", summary.Total)))
	fmt.Printf("%s %s\n", LabelStyle.Render("Converted:"),
		SuccessStyle.Render(fmt.Sprintf("%d", summary.Converted)))
	fmt.Printf("%s %s\n", LabelStyle.Render("Pairs:"),
		ValueStyle.Render(fmt.Sprintf("%d", summary.Pairs)))

	if summary.Skipped > 0 {
		fmt.Printf("%s %s\n", LabelStyle.Render("Skipped:"),
			WarningStyle.Render(fmt.Sprintf("%d", summary.Skipped)))
		// Stable reason ordering for readable diffs between runs
		reasons := make([]string, 0, len(summary.SkipReasons))
		for r := range summary.SkipReasons {
			reasons = append(reasons, r)
		}
		sort.Strings(reasons)
		for _, r := range reasons {
			fmt.Printf("  %s %s\n", DimStyle.Render(fmt.Sprintf("%dx", summary.SkipReasons[r])),
				DimStyle.Render(r))
		}
	}

	elapsed := summary.Finished.Sub(summary.Started).Round(time.Millisecond)
	fmt.Printf("%s %s\n", LabelStyle.Render("Elapsed:"), DimStyle.Render(elapsed.String()))
	fmt.Printf("%s %s\n", LabelStyle.Render("Output:"), ValueStyle.Render(output))
}

func printSummaryJSON(summary *pipeline.Summary) int {
	out := map[string]interface{}{
		"success":       true,
		"conversations": summary.Total,
		"converted":     summary.Converted,
		"pairs":         summary.Pairs,
		"skipped":       summary.Skipped,
		"skip_reasons":  summary.SkipReasons,
		"elapsed_ms":    summary.Finished.Sub(summary.Started).Milliseconds(),
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		DisplayError(errors.New("encoding summary failed"), false)
		return ExitGeneralError
	}
	return ExitSuccess
}
