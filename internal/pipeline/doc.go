// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pipeline orchestrates a full cleaning run: load the export,
// linearize and sanitize every conversation on a bounded worker pool,
// write one Markdown file per conversation, and aggregate the results
// into all_conversations.json and pairs.jsonl.
//
// Per-conversation work runs concurrently, but results are collected
// into input-order slots so the aggregate outputs are deterministic
// regardless of worker scheduling.
package pipeline
