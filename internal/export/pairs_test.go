// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"regexp"
	"strings"
	"testing"

	"github.com/jeranaias/exportclean/internal/model"
)

func TestExtractPairsLinearChain(t *testing.T) {
	in := turns("user", "hi", "assistant", "hello", "user", "bye", "assistant", "later")

	pairs := ExtractPairs(in, PairOptions{})
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2: %+v", len(pairs), pairs)
	}
	if pairs[0] != (model.FineTunePair{Prompt: "hi", Completion: "hello"}) {
		t.Errorf("pair 0 = %+v", pairs[0])
	}
	if pairs[1] != (model.FineTunePair{Prompt: "bye", Completion: "later"}) {
		t.Errorf("pair 1 = %+v", pairs[1])
	}
}

func TestExtractPairsMergesConsecutiveUserTurns(t *testing.T) {
	in := turns("user", "a", "user", "b", "assistant", "c")

	pairs := ExtractPairs(in, PairOptions{})
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	if pairs[0].Prompt != "a\nb" || pairs[0].Completion != "c" {
		t.Errorf("pair = %+v, want prompt 'a\\nb'", pairs[0])
	}
}

func TestExtractPairsIgnoresUnpairedEnds(t *testing.T) {
	in := turns(
		"assistant", "unprompted greeting",
		"user", "question",
		"assistant", "answer",
		"user", "trailing question",
	)

	pairs := ExtractPairs(in, PairOptions{})
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1: %+v", len(pairs), pairs)
	}
	if pairs[0].Prompt != "question" {
		t.Errorf("pair = %+v", pairs[0])
	}
}

func TestExtractPairsRefusalFilter(t *testing.T) {
	in := turns(
		"user", "do the thing",
		"assistant", "I'm sorry, but I can't help with that.",
		"user", "ok something else",
		"assistant", "sure, here you go",
	)

	opts := PairOptions{RefusalPatterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)^i'm sorry`),
	}}

	pairs := ExtractPairs(in, opts)
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1: %+v", len(pairs), pairs)
	}
	if pairs[0].Completion != "sure, here you go" {
		t.Errorf("pair = %+v", pairs[0])
	}
}

func TestExtractPairsSkipsEmptyCompletion(t *testing.T) {
	in := []model.LinearTurn{
		{Role: model.RoleUser, Text: "q"},
		{Role: model.RoleAssistant, Text: ""},
	}
	if pairs := ExtractPairs(in, PairOptions{}); len(pairs) != 0 {
		t.Errorf("expected no pairs, got %+v", pairs)
	}
}

func TestExtractPairsSystemTurnBreaksAdjacency(t *testing.T) {
	in := turns("user", "q", "system", "note", "assistant", "a")

	if pairs := ExtractPairs(in, PairOptions{}); len(pairs) != 0 {
		t.Errorf("assistant not immediately after user must not pair: %+v", pairs)
	}
}

func TestCompileRefusalPatterns(t *testing.T) {
	res, err := CompileRefusalPatterns([]string{`^no$`, `(?i)refuse`})
	if err != nil {
		t.Fatalf("CompileRefusalPatterns failed: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("got %d patterns", len(res))
	}

	if _, err := CompileRefusalPatterns([]string{`([`}); err == nil {
		t.Error("invalid pattern must error")
	}
}

func TestEncodeJSONL(t *testing.T) {
	pairs := []model.FineTunePair{
		{Prompt: "hi", Completion: "hello"},
		{Prompt: "bye", Completion: "later"},
	}

	data, err := EncodeJSONL(pairs)
	if err != nil {
		t.Fatalf("EncodeJSONL failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != `{"prompt":"hi","completion":"hello"}` {
		t.Errorf("line 0 = %s", lines[0])
	}

	empty, err := EncodeJSONL(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("empty input must produce no bytes, got %q", empty)
	}
}
