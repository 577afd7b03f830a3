// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for exported conversations.
package model

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable label for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	case RoleTool:
		return "Tool"
	default:
		return string(r)
	}
}

// =============================================================================
// LINEAR TURN TYPE
// =============================================================================

// LinearTurn is one cleaned, role-tagged turn on the active branch.
// Produced by the sanitizer, consumed by every emitter.
type LinearTurn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// =============================================================================
// FINE-TUNE PAIR TYPE
// =============================================================================

// FineTunePair is one prompt/completion example derived from adjacent
// user/assistant turns.
type FineTunePair struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}
