// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog records cleaning runs in a local SQLite database.
//
// The catalog is an optional supplement to the file outputs: each run
// appends one row to the runs table and upserts one row per converted
// conversation, so repeated runs over growing exports can be compared
// and queried without re-reading the generated files.
package catalog
