// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sanitize filters and normalizes linearized messages into clean,
// role-tagged turns.
//
// The linearizer hands over raw messages from the active branch; this package
// drops bookkeeping turns (hidden messages, roles the caller did not ask
// for, empty content), flattens multi-part content into plain text with
// placeholder tokens for non-text parts, and normalizes the text itself
// (Unicode NFKC, line endings, whitespace, excess blank lines).
//
// Turn order is preserved; this stage never reorders or merges turns.
// Merging of consecutive same-role turns belongs to pair extraction.
package sanitize
