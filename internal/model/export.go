// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for exported conversations.
package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// =============================================================================
// CONVERSATION EXPORT TYPE
// =============================================================================

// ConversationExport is one conversation as it appears in the export document.
// The message graph lives in Mapping, an id-to-node lookup table; traversal
// happens by repeated lookup rather than by following live references, so a
// malformed export cannot produce reference cycles in memory.
type ConversationExport struct {
	// Identity
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`

	// Timestamps (unix seconds, possibly fractional)
	CreateTime float64 `json:"create_time"`
	UpdateTime float64 `json:"update_time,omitempty"`

	// Message graph
	Mapping     map[string]*Node `json:"mapping"`
	CurrentNode string           `json:"current_node"`
}

// Identity returns a stable identity string for the conversation.
// Used to derive collision-free output filenames; falls back to title and
// creation time when the export carries no conversation id.
func (c *ConversationExport) Identity() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Title + "|" + strconv.FormatFloat(c.CreateTime, 'f', -1, 64)
}

// CreatedAt converts the export's unix timestamp to a time.Time.
func (c *ConversationExport) CreatedAt() time.Time {
	sec := int64(c.CreateTime)
	nsec := int64((c.CreateTime - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC()
}

// =============================================================================
// NODE TYPE
// =============================================================================

// Node is one entry in a conversation's message graph. Structural nodes (the
// root, tool scaffolding) may carry no message.
type Node struct {
	ID       string   `json:"id"`
	Message  *Message `json:"message,omitempty"`
	Parent   string   `json:"parent,omitempty"`
	Children []string `json:"children,omitempty"`
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one authored message attached to a graph node.
type Message struct {
	// Identity
	ID         string
	Author     Role
	CreateTime float64

	// Content, already decoded into the closed part variant
	Parts []ContentPart

	// Export bookkeeping flags
	Hidden     bool // is_visually_hidden_from_conversation
	UserSystem bool // is_user_system_message
}

// wire shapes for decoding the export's nested message layout.
type messageWire struct {
	ID         string       `json:"id"`
	Author     *authorWire  `json:"author"`
	CreateTime float64      `json:"create_time"`
	Content    *contentWire `json:"content"`
	Metadata   metadataWire `json:"metadata"`
}

type authorWire struct {
	Role string `json:"role"`
}

type contentWire struct {
	ContentType string            `json:"content_type"`
	Parts       []json.RawMessage `json:"parts"`
}

type metadataWire struct {
	Hidden     bool `json:"is_visually_hidden_from_conversation"`
	UserSystem bool `json:"is_user_system_message"`
}

// UnmarshalJSON decodes the export's message shape. Content parts that cannot
// be normalized decode as placeholder-bearing parts instead of failing the
// message, so one bad part never loses a whole turn.
func (m *Message) UnmarshalJSON(data []byte) error {
	var w messageWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	m.ID = w.ID
	m.CreateTime = w.CreateTime
	m.Hidden = w.Metadata.Hidden
	m.UserSystem = w.Metadata.UserSystem

	if w.Author != nil {
		m.Author = Role(w.Author.Role)
	}

	m.Parts = decodeContent(w.Content)
	return nil
}

// decodeContent maps the export's content object onto content parts.
func decodeContent(c *contentWire) []ContentPart {
	if c == nil {
		return nil
	}

	switch c.ContentType {
	case "text", "multimodal_text":
		parts := make([]ContentPart, 0, len(c.Parts))
		for _, raw := range c.Parts {
			parts = append(parts, decodePart(raw))
		}
		return parts

	case "code", "execution_output":
		// The code body is never rendered; it flattens to a placeholder.
		return []ContentPart{{Kind: PartCode}}

	default:
		// Unknown content kinds survive as a single opaque part.
		return []ContentPart{{Kind: PartOther}}
	}
}

// IsEmpty returns true if the message has no content parts.
func (m *Message) IsEmpty() bool {
	return len(m.Parts) == 0
}
