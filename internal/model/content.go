// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for exported conversations.
package model

import (
	"encoding/json"
	"strings"
)

// =============================================================================
// CONTENT PART TYPE
// =============================================================================

// PartKind identifies the kind of a content part. The set is closed: every
// consumer switches over all four kinds rather than probing optional fields.
type PartKind string

const (
	PartText  PartKind = "text"
	PartImage PartKind = "image"
	PartCode  PartKind = "code"
	PartOther PartKind = "other"
)

// ContentPart is one piece of message content. Text is only meaningful for
// PartText; image, code, and other parts carry no renderable payload and are
// substituted with a placeholder token downstream.
type ContentPart struct {
	Kind PartKind
	Text string
}

// Placeholder returns the inline token rendered for non-text parts, so
// downstream consumers can tell that content was omitted rather than absent.
func (p ContentPart) Placeholder() string {
	switch p.Kind {
	case PartImage:
		return "[image omitted]"
	case PartCode:
		return "[code omitted]"
	default:
		return "[content omitted]"
	}
}

// partWire is the object form a multimodal part may take.
type partWire struct {
	ContentType  string `json:"content_type"`
	Text         string `json:"text"`
	AssetPointer string `json:"asset_pointer"`
}

// decodePart maps one raw part onto the closed variant. Parts come in two
// shapes: a bare JSON string (plain text) or an object tagged with a
// content_type. Anything undecodable becomes PartOther (the EncodingError
// policy: substitute, never fail the turn).
func decodePart(raw json.RawMessage) ContentPart {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ContentPart{Kind: PartText, Text: s}
	}

	var w partWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return ContentPart{Kind: PartOther}
	}

	switch {
	case w.AssetPointer != "" || strings.Contains(w.ContentType, "image"):
		return ContentPart{Kind: PartImage}
	case w.ContentType == "code":
		// Code bodies are dropped, not rendered; only the kind survives.
		return ContentPart{Kind: PartCode}
	case w.Text != "":
		// Transcriptions and other text-bearing objects keep their text.
		return ContentPart{Kind: PartText, Text: w.Text}
	default:
		return ContentPart{Kind: PartOther}
	}
}
