// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jeranaias/exportclean/internal/model"
)

func turns(pairs ...string) []model.LinearTurn {
	out := make([]model.LinearTurn, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.LinearTurn{Role: model.Role(pairs[i]), Text: pairs[i+1]})
	}
	return out
}

func TestMarkdownExport(t *testing.T) {
	c := &Cleaned{
		Title: "Trip Planning",
		Turns: turns("user", "hi", "assistant", "hello"),
	}

	got, err := NewMarkdownExporter().Export(c)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	want := "# Trip Planning\n\n**You:**\nhi\n\n**Assistant:**\nhello\n"
	if string(got) != want {
		t.Errorf("markdown = %q, want %q", got, want)
	}
}

func TestMarkdownExportDeterministic(t *testing.T) {
	c := &Cleaned{Title: "T", Turns: turns("user", "a", "assistant", "b")}
	e := NewMarkdownExporter()

	first, err := e.Export(c)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Export(c)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("identical input must yield byte-identical output")
	}
}

func TestMarkdownExportEmptyTitle(t *testing.T) {
	got, err := NewMarkdownExporter().Export(&Cleaned{Turns: turns("user", "x")})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(got), "# Conversation\n") {
		t.Errorf("missing fallback title: %q", got)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Trip Planning", "trip-planning"},
		{"Hello, World!", "hello-world"},
		{"  --weird__ title?? ", "weird-title"},
		{"日本語", "conversation"},
		{"", "conversation"},
		{"MixedCASE123", "mixedcase123"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilenameStableAndCollisionFree(t *testing.T) {
	a := &Cleaned{Title: "Same Title", Identity: "conv-a"}
	b := &Cleaned{Title: "Same Title", Identity: "conv-b"}

	nameA := Filename(a, ".md")
	nameB := Filename(b, ".md")

	if nameA == nameB {
		t.Errorf("equal titles must not collide: %q", nameA)
	}
	if nameA != Filename(a, ".md") {
		t.Error("filename must be stable across calls")
	}
	if !strings.HasPrefix(nameA, "same-title-") || !strings.HasSuffix(nameA, ".md") {
		t.Errorf("unexpected filename shape: %q", nameA)
	}
}

func TestAggregateJSONRoundTrip(t *testing.T) {
	convs := []*Cleaned{
		{Title: "B conv", CreateTime: 2, Turns: turns("user", "x", "assistant", "y")},
		{Title: "A conv", CreateTime: 1, Turns: turns("user", "q")},
	}

	data, err := AggregateJSON(convs)
	if err != nil {
		t.Fatalf("AggregateJSON failed: %v", err)
	}

	var decoded []AggregateEntry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round-trip unmarshal failed: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("got %d entries, want 2", len(decoded))
	}
	// Input order preserved, not re-sorted by title or time.
	if decoded[0].Title != "B conv" || decoded[1].Title != "A conv" {
		t.Errorf("order not preserved: %q, %q", decoded[0].Title, decoded[1].Title)
	}
	if len(decoded[0].Messages) != 2 || decoded[0].Messages[1].Text != "y" {
		t.Errorf("messages did not round-trip: %+v", decoded[0].Messages)
	}
}

func TestAggregateJSONEmpty(t *testing.T) {
	data, err := AggregateJSON(nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty aggregate = %q, want []", data)
	}
}
