// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"

	"github.com/jeranaias/exportclean/internal/model"
)

// =============================================================================
// AGGREGATE JSON
// =============================================================================

// AggregateEntry is one conversation in the aggregate array.
type AggregateEntry struct {
	Title      string             `json:"title"`
	CreateTime float64            `json:"create_time"`
	Messages   []model.LinearTurn `json:"messages"`
}

// AggregateJSON serializes all cleaned conversations into one JSON array,
// preserving input order so repeated runs over the same export are
// reproducible. The aggregate is complete data: it round-trips back to the
// exact (role, text) sequences the sanitizer produced.
func AggregateJSON(convs []*Cleaned) ([]byte, error) {
	entries := make([]AggregateEntry, 0, len(convs))
	for _, c := range convs {
		entries = append(entries, AggregateEntry{
			Title:      c.Title,
			CreateTime: c.CreateTime,
			Messages:   c.Turns,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
