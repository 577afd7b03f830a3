// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package loader reads a ChatGPT export document into conversation records.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jeranaias/exportclean/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

// LoadError reports an unreadable or malformed export document. It is fatal:
// the run aborts before any per-conversation processing.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("cannot load export %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot load export: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// =============================================================================
// LOADING
// =============================================================================

// exportWrapper is the object form of the export document.
type exportWrapper struct {
	Conversations []*model.ConversationExport `json:"conversations"`
}

// Load reads and parses the export file at path.
func Load(path string) ([]*model.ConversationExport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	convs, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return convs, nil
}

// Parse decodes an export document. Accepts a bare conversation array or a
// {"conversations": [...]} wrapper; anything else is an error.
func Parse(data []byte) ([]*model.ConversationExport, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	switch trimmed[0] {
	case '[':
		var convs []*model.ConversationExport
		if err := json.Unmarshal(data, &convs); err != nil {
			return nil, fmt.Errorf("parse conversation array: %w", err)
		}
		return convs, nil

	case '{':
		var w exportWrapper
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("parse export object: %w", err)
		}
		if w.Conversations == nil {
			return nil, fmt.Errorf(`expected {"conversations": [...]} or a top-level array`)
		}
		return w.Conversations, nil

	default:
		return nil, fmt.Errorf(`expected {"conversations": [...]} or a top-level array`)
	}
}
