// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tree reconstructs the active linear conversation from a branching
// message graph.
//
// A ChatGPT export stores each conversation as an id-to-node mapping where
// edits and regenerations create sibling branches. Only one root-to-tip path
// (the one ending at current_node) is the conversation the user actually saw;
// this package walks that path and returns its messages in order.
//
// # Key Types
//
//   - Options: linearization options (fallback policy)
//   - CycleError: the graph contains a cycle (conversation is invalid)
//
// # Usage
//
//	msgs, err := tree.Linearize(conv, tree.DefaultOptions())
//	var cycle *tree.CycleError
//	if errors.As(err, &cycle) {
//	    // skip this conversation, keep the batch going
//	}
package tree
