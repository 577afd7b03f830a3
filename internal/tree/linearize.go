// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tree reconstructs the active linear conversation from a branching
// message graph.
package tree

import (
	"fmt"

	"github.com/jeranaias/exportclean/internal/model"
)

// =============================================================================
// OPTIONS
// =============================================================================

// FallbackPolicy controls how a tip is chosen when current_node is missing
// from the export or absent from the mapping.
type FallbackPolicy string

const (
	// FallbackLastChild descends into the last child at every branch point,
	// reading children order as edit recency (later edits are appended).
	FallbackLastChild FallbackPolicy = "last-child"

	// FallbackFirstChild descends into the first child at every branch point.
	FallbackFirstChild FallbackPolicy = "first-child"

	// FallbackNone treats a missing current_node as an empty conversation.
	FallbackNone FallbackPolicy = "none"
)

// ParseFallbackPolicy validates a policy name from config or flags.
func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch FallbackPolicy(s) {
	case FallbackLastChild, FallbackFirstChild, FallbackNone:
		return FallbackPolicy(s), nil
	case "":
		return FallbackLastChild, nil
	default:
		return "", fmt.Errorf("unknown fallback policy: %q (want last-child, first-child, or none)", s)
	}
}

// Options configures linearization behavior.
type Options struct {
	// Fallback is the tip-selection policy used when current_node is unusable.
	Fallback FallbackPolicy
}

// DefaultOptions returns default linearization options.
func DefaultOptions() Options {
	return Options{Fallback: FallbackLastChild}
}

// =============================================================================
// ERRORS
// =============================================================================

// CycleError reports a cycle in a conversation's message graph. The
// conversation is invalid and must be skipped; the batch continues.
type CycleError struct {
	// NodeID is the first node revisited during the walk.
	NodeID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle in message graph at node %s", e.NodeID)
}

// =============================================================================
// LINEARIZATION
// =============================================================================

// Linearize walks the active branch of a conversation's message graph and
// returns its messages in root-to-tip order.
//
// The walk starts at current_node and follows parent pointers upward,
// collecting visited ids in a set for cycle detection, then reverses the
// chain. Sibling subtrees created by edits or regenerations are never
// visited: the walk only follows single-parent pointers from the chosen tip.
// Nodes without a message (structural roots) are skipped. Cost is
// O(depth of the active branch).
//
// An empty mapping yields an empty slice and no error. A missing or unknown
// current_node falls back to locating a tip from the root per opts.Fallback.
func Linearize(conv *model.ConversationExport, opts Options) ([]*model.Message, error) {
	if len(conv.Mapping) == 0 {
		return nil, nil
	}

	tip := conv.CurrentNode
	if _, ok := conv.Mapping[tip]; !ok {
		var err error
		tip, err = fallbackTip(conv.Mapping, opts.Fallback)
		if err != nil {
			return nil, err
		}
		if tip == "" {
			return nil, nil
		}
	}

	// Upward walk from tip to root. A parent id that is absent from the
	// mapping ends the chain silently: orphan subtrees are excluded, never
	// treated as alternate roots.
	var chain []*model.Node
	seen := make(map[string]bool)
	for cur := tip; cur != ""; {
		node, ok := conv.Mapping[cur]
		if !ok {
			break
		}
		if seen[cur] {
			return nil, &CycleError{NodeID: cur}
		}
		seen[cur] = true
		chain = append(chain, node)
		cur = node.Parent
	}

	// Reverse to root-to-tip order, keeping only message-bearing nodes.
	msgs := make([]*model.Message, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].Message != nil {
			msgs = append(msgs, chain[i].Message)
		}
	}
	return msgs, nil
}

// fallbackTip locates a leaf by descending from the root according to the
// policy. Returns "" when the policy is none or no root exists.
func fallbackTip(mapping map[string]*model.Node, policy FallbackPolicy) (string, error) {
	if policy == FallbackNone {
		return "", nil
	}

	root := findRoot(mapping)
	if root == "" {
		return "", nil
	}

	// Descend, guarding against cycles among children pointers.
	seen := make(map[string]bool)
	cur := root
	for {
		if seen[cur] {
			return "", &CycleError{NodeID: cur}
		}
		seen[cur] = true

		node := mapping[cur]
		next := ""
		for i := range node.Children {
			// Policy picks which child; a child id missing from the mapping
			// is skipped rather than followed.
			idx := i
			if policy == FallbackLastChild {
				idx = len(node.Children) - 1 - i
			}
			if _, ok := mapping[node.Children[idx]]; ok {
				next = node.Children[idx]
				break
			}
		}
		if next == "" {
			return cur, nil
		}
		cur = next
	}
}

// findRoot returns the id of the node with no parent. Nodes whose parent id
// is absent from the mapping are orphans, not roots. A well-formed export has
// exactly one root; if a malformed one has several, the lexicographically
// smallest id wins so repeated runs stay deterministic.
func findRoot(mapping map[string]*model.Node) string {
	root := ""
	for id, node := range mapping {
		if node.Parent != "" {
			continue
		}
		if root == "" || id < root {
			root = id
		}
	}
	return root
}
