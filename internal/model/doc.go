// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for exported conversations.
//
// This package defines the wire types decoded from a ChatGPT data export
// (conversations, mapping nodes, messages, content parts) and the cleaned
// types the rest of the pipeline consumes (linear turns, fine-tune pairs).
//
// # Key Types
//
//   - ConversationExport: one conversation as stored in the export document
//   - Node: one entry in a conversation's message graph
//   - Message: one authored message with role, content parts, and flags
//   - ContentPart: closed tagged variant for message content (text/image/code/other)
//   - LinearTurn: one cleaned, role-tagged turn ready for rendering
//   - FineTunePair: one (prompt, completion) fine-tuning example
//
// # Usage
//
// Decode a conversation and inspect its graph:
//
//	var conv model.ConversationExport
//	if err := json.Unmarshal(data, &conv); err != nil { ... }
//	node := conv.Mapping[conv.CurrentNode]
package model
