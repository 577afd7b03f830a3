// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/jeranaias/exportclean/internal/export"
	"github.com/jeranaias/exportclean/internal/loader"
	"github.com/jeranaias/exportclean/internal/model"
	"github.com/jeranaias/exportclean/internal/sanitize"
	"github.com/jeranaias/exportclean/internal/tree"
	"github.com/jeranaias/exportclean/internal/util"
)

// =============================================================================
// OUTPUT LAYOUT
// =============================================================================

const (
	// MarkdownDirName is the per-conversation output subdirectory.
	MarkdownDirName = "markdown_by_conversation"

	// AggregateFileName is the combined JSON output file.
	AggregateFileName = "all_conversations.json"

	// PairsFileName is the fine-tune JSONL output file.
	PairsFileName = "pairs.jsonl"
)

// =============================================================================
// OPTIONS AND RESULTS
// =============================================================================

// Options configures a cleaning run.
type Options struct {
	// InputPath is the export file to read.
	InputPath string

	// OutputDir receives all generated artifacts.
	OutputDir string

	// Workers is the worker pool size (<= 0 means number of CPUs).
	Workers int

	// Tree controls active-branch selection.
	Tree tree.Options

	// Sanitize controls role filtering and text cleanup.
	Sanitize sanitize.Options

	// Pairs controls fine-tune pair extraction.
	Pairs export.PairOptions
}

// Outcome is the per-conversation result of a run, in input order.
type Outcome struct {
	// Identity is the conversation's stable identity string.
	Identity string

	// Title is the conversation title.
	Title string

	// CreateTime is the export's unix timestamp (possibly fractional).
	CreateTime float64

	// Filename is the Markdown file written, empty when skipped.
	Filename string

	// Turns is the number of cleaned turns.
	Turns int

	// Pairs is the number of fine-tune pairs extracted.
	Pairs int

	// SkipReason is non-empty when the conversation produced no output.
	SkipReason string
}

// Summary aggregates a completed run.
type Summary struct {
	Total     int
	Converted int
	Pairs     int
	Skipped   int

	// SkipReasons counts skipped conversations by reason.
	SkipReasons map[string]int

	// Outcomes holds per-conversation results in input order.
	Outcomes []Outcome

	Started  time.Time
	Finished time.Time
}

// result carries one worker's output back to its input-order slot.
type result struct {
	cleaned *export.Cleaned
	pairs   []model.FineTunePair
	outcome Outcome
}

// =============================================================================
// RUN
// =============================================================================

// Run executes the full cleaning pipeline and returns its summary.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	started := time.Now()

	convs, err := loader.Load(opts.InputPath)
	if err != nil {
		return nil, err
	}

	mdDir := filepath.Join(opts.OutputDir, MarkdownDirName)
	if err := os.MkdirAll(mdDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// One slot per conversation keeps output in input order no matter
	// how workers are scheduled.
	results := make([]result, len(convs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, conv := range convs {
		if err := ctx.Err(); err != nil {
			break
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if err := ctx.Err(); err != nil {
			break
		}

		wg.Add(1)
		go func(i int, conv *model.ConversationExport) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = processConversation(conv, mdDir, opts)
		}(i, conv)
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return finish(results, opts, started)
}

// processConversation cleans a single conversation and writes its
// Markdown file. Aggregate outputs are written later, once. Only loading
// is fatal to a run; a bad conversation becomes a skip, never an abort.
func processConversation(conv *model.ConversationExport, mdDir string, opts Options) result {
	skip := func(reason string) result {
		return result{outcome: Outcome{
			Identity:   conv.Identity(),
			Title:      conv.Title,
			CreateTime: conv.CreateTime,
			SkipReason: reason,
		}}
	}

	msgs, err := tree.Linearize(conv, opts.Tree)
	if err != nil {
		return skip(fmt.Sprintf("linearize: %v", err))
	}

	turns := sanitize.Sanitize(msgs, opts.Sanitize)
	if len(turns) == 0 {
		return skip("no visible turns")
	}

	cleaned := &export.Cleaned{
		Title:      conv.Title,
		CreateTime: conv.CreateTime,
		Identity:   conv.Identity(),
		Turns:      turns,
	}

	md := export.NewMarkdownExporter()
	data, err := md.Export(cleaned)
	if err != nil {
		return skip(fmt.Sprintf("render: %v", err))
	}

	name := export.Filename(cleaned, md.FileExtension())
	if err := os.WriteFile(filepath.Join(mdDir, name), data, 0644); err != nil {
		return skip(fmt.Sprintf("write markdown: %v", err))
	}

	pairs := export.ExtractPairs(turns, opts.Pairs)

	return result{
		cleaned: cleaned,
		pairs:   pairs,
		outcome: Outcome{
			Identity:   cleaned.Identity,
			Title:      cleaned.Title,
			CreateTime: cleaned.CreateTime,
			Filename:   name,
			Turns:      len(turns),
			Pairs:      len(pairs),
		},
	}
}

// finish assembles the summary and writes both aggregate outputs.
func finish(results []result, opts Options, started time.Time) (*Summary, error) {
	summary := &Summary{
		Total:       len(results),
		SkipReasons: make(map[string]int),
		Started:     started,
	}

	var cleaned []*export.Cleaned
	var allPairs []model.FineTunePair
	for _, r := range results {
		summary.Outcomes = append(summary.Outcomes, r.outcome)
		if r.outcome.SkipReason != "" {
			summary.Skipped++
			summary.SkipReasons[r.outcome.SkipReason]++
			continue
		}
		summary.Converted++
		summary.Pairs += len(r.pairs)
		cleaned = append(cleaned, r.cleaned)
		allPairs = append(allPairs, r.pairs...)
	}

	aggregate, err := export.AggregateJSON(cleaned)
	if err != nil {
		return nil, fmt.Errorf("encode aggregate: %w", err)
	}
	aggPath := filepath.Join(opts.OutputDir, AggregateFileName)
	if err := util.AtomicWriteFile(aggPath, aggregate, 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", AggregateFileName, err)
	}

	jsonl, err := export.EncodeJSONL(allPairs)
	if err != nil {
		return nil, fmt.Errorf("encode pairs: %w", err)
	}
	pairsPath := filepath.Join(opts.OutputDir, PairsFileName)
	if err := util.AtomicWriteFile(pairsPath, jsonl, 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", PairsFileName, err)
	}

	summary.Finished = time.Now()
	return summary, nil
}
