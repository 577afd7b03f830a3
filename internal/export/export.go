// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders cleaned conversations into output artifacts.
package export

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jeranaias/exportclean/internal/model"
)

// =============================================================================
// CLEANED CONVERSATION
// =============================================================================

// Cleaned is one conversation after linearization and sanitization: the
// shared data contract every emitter consumes.
type Cleaned struct {
	// Title is the conversation title from the export.
	Title string

	// CreateTime is the export's unix timestamp (possibly fractional).
	CreateTime float64

	// Identity is the conversation's stable identity string, used to derive
	// collision-free filenames.
	Identity string

	// Turns is the cleaned, ordered turn sequence.
	Turns []model.LinearTurn
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for per-conversation exporters.
type Exporter interface {
	// Export renders a cleaned conversation to the target format.
	Export(c *Cleaned) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// FILENAMES
// =============================================================================

const maxSlugRunes = 80

// Filename derives the output filename for a cleaned conversation: a slug of
// the title plus a short suffix derived from the conversation's identity, so
// two conversations with identical titles never collide and reruns produce
// the same name.
func Filename(c *Cleaned, ext string) string {
	return Slug(c.Title) + "-" + identitySuffix(c.Identity) + ext
}

// Slug converts a title into a safe filename fragment: lowercased, runs of
// non-alphanumeric characters collapsed to single dashes, bounded length.
// An empty result falls back to "conversation".
func Slug(title string) string {
	var sb strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}

	s := strings.TrimRight(sb.String(), "-")
	runes := []rune(s)
	if len(runes) > maxSlugRunes {
		s = strings.TrimRight(string(runes[:maxSlugRunes]), "-")
	}
	if s == "" {
		return "conversation"
	}
	return s
}

// identitySuffix returns a short stable hex suffix for a conversation
// identity. Name-based UUIDs (SHA-1) keep the suffix deterministic across
// runs without depending on map order or wall clocks.
func identitySuffix(identity string) string {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(identity))
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
