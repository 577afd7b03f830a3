// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package loader reads a ChatGPT export document into conversation records.
//
// The export is one JSON document: either a bare array of conversation
// objects or an object wrapping that array under a "conversations" key
// (both forms occur in the wild). Loading is all-or-nothing: a document
// that cannot be parsed is a fatal LoadError and no per-conversation
// processing starts.
package loader
