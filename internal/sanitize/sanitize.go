// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sanitize filters and normalizes linearized messages into clean,
// role-tagged turns.
package sanitize

import (
	"strings"

	"github.com/jeranaias/exportclean/internal/model"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures which messages survive sanitization.
type Options struct {
	// IncludeSystem keeps system-role messages. Regardless of this setting,
	// a system message the user wrote themselves (is_user_system_message)
	// always survives.
	IncludeSystem bool

	// IncludeTool keeps tool-role messages.
	IncludeTool bool

	// ToolAsAssistant remaps surviving tool messages to the assistant role,
	// matching how some exports attribute tool output.
	ToolAsAssistant bool
}

// DefaultOptions returns default sanitization options: user and assistant
// turns only.
func DefaultOptions() Options {
	return Options{}
}

// =============================================================================
// SANITIZATION
// =============================================================================

// Sanitize converts linearized messages into clean turns, applying, per
// message and in order: empty-content drop, role filter, hidden-flag drop,
// part flattening with placeholders, and text normalization. Order of
// surviving turns matches the input.
func Sanitize(msgs []*model.Message, opts Options) []model.LinearTurn {
	turns := make([]model.LinearTurn, 0, len(msgs))

	for _, msg := range msgs {
		if msg.IsEmpty() {
			continue
		}

		role, ok := filterRole(msg, opts)
		if !ok {
			continue
		}

		if msg.Hidden {
			continue
		}

		text := FlattenParts(msg.Parts)
		if text == "" {
			continue
		}

		turns = append(turns, model.LinearTurn{Role: role, Text: text})
	}

	return turns
}

// filterRole decides whether a message's role survives and what it maps to.
func filterRole(msg *model.Message, opts Options) (model.Role, bool) {
	switch msg.Author {
	case model.RoleUser, model.RoleAssistant:
		return msg.Author, true
	case model.RoleSystem:
		if opts.IncludeSystem || msg.UserSystem {
			return model.RoleSystem, true
		}
	case model.RoleTool:
		if opts.IncludeTool {
			if opts.ToolAsAssistant {
				return model.RoleAssistant, true
			}
			return model.RoleTool, true
		}
	}
	return "", false
}

// FlattenParts joins a message's content parts into normalized text. Only
// text parts contribute their content, concatenated with newline separators;
// every non-text part (image, code, other) contributes its placeholder token
// so omitted content stays visible downstream.
func FlattenParts(parts []model.ContentPart) string {
	chunks := make([]string, 0, len(parts))
	for _, p := range parts {
		switch p.Kind {
		case model.PartText:
			if strings.TrimSpace(p.Text) != "" {
				chunks = append(chunks, p.Text)
			}
		default:
			chunks = append(chunks, p.Placeholder())
		}
	}
	return CleanText(strings.Join(chunks, "\n"))
}
