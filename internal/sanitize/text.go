// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sanitize filters and normalizes linearized messages into clean,
// role-tagged turns.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	trailingQuotes = regexp.MustCompile(`""+$`)
	excessNewlines = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes raw message text:
//
//   - Unicode NFKC normalization
//   - CRLF/CR line endings to LF
//   - tabs to four spaces, tab/bullet combinations standardized
//   - non-breaking spaces to regular spaces
//   - trailing quote repetition trimmed
//   - three or more consecutive newlines capped at two
//
// The result is trimmed of surrounding whitespace. Deterministic: equal
// input always produces equal output.
func CleanText(s string) string {
	if s == "" {
		return ""
	}

	s = norm.NFKC.String(s)

	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = strings.ReplaceAll(s, "\t•", "•")
	s = strings.ReplaceAll(s, "\t", "    ")
	s = strings.ReplaceAll(s, "•\t", "• ")
	s = strings.ReplaceAll(s, "•  ", "• ")

	s = strings.ReplaceAll(s, " ", " ")

	s = trailingQuotes.ReplaceAllString(strings.TrimSpace(s), `"`)
	s = excessNewlines.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
