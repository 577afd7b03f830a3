// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/jeranaias/exportclean/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders a cleaned conversation to Markdown: the title as a
// top-level heading, then one block per turn labeled by role, each block
// carrying the turn's normalized text verbatim.
type MarkdownExporter struct{}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{}
}

// Export converts a cleaned conversation to Markdown.
func (e *MarkdownExporter) Export(c *Cleaned) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("conversation is nil")
	}

	var sb strings.Builder

	title := c.Title
	if title == "" {
		title = "Conversation"
	}
	sb.WriteString("# " + title + "\n")

	for _, turn := range c.Turns {
		sb.WriteString("\n**" + roleLabel(turn.Role) + ":**\n")
		sb.WriteString(turn.Text)
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// roleLabel returns a stable per-role block label.
func roleLabel(role model.Role) string {
	if role == "" {
		return "Unknown"
	}
	return role.DisplayName()
}
