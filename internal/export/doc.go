// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders cleaned conversations into output artifacts.
//
// Three emitters consume the same cleaned-turn contract:
//
//   - MarkdownExporter: one readable Markdown document per conversation
//   - AggregateJSON: one JSON array over all conversations, in input order
//   - Pairs: prompt/completion examples for supervised fine-tuning (JSONL)
//
// All emitters are deterministic: identical input yields byte-identical
// output, so re-running the pipeline over an unchanged export reproduces
// every artifact exactly.
//
// # Usage
//
// Render one conversation:
//
//	exporter := export.NewMarkdownExporter()
//	content, err := exporter.Export(cleaned)
//	name := export.Filename(cleaned, exporter.FileExtension())
package export
