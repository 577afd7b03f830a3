// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRecordRun(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	started := time.Unix(1700000000, 0)
	run := RunRecord{
		Input:         "export.json",
		Output:        "out",
		Conversations: 2,
		Pairs:         3,
		Skipped:       1,
		StartedAt:     started,
		FinishedAt:    started.Add(2 * time.Second),
	}
	convs := []ConversationRecord{
		{Identity: "conv-a", Slug: "first-chat", Title: "First Chat", CreateTime: 1.0, Turns: 4, Pairs: 2, CleanedAt: started},
		{Identity: "conv-b", Slug: "second-chat", Title: "Second Chat", CreateTime: 2.0, Turns: 2, Pairs: 1, CleanedAt: started},
	}

	if err := c.RecordRun(ctx, run, convs); err != nil {
		t.Fatalf("RecordRun() error: %v", err)
	}

	runs, err := c.Runs(ctx, 0)
	if err != nil {
		t.Fatalf("Runs() error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].Conversations != 2 || runs[0].Pairs != 3 || runs[0].Skipped != 1 {
		t.Errorf("run = %+v", runs[0])
	}
	if !runs[0].StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", runs[0].StartedAt, started)
	}

	got, err := c.Conversations(ctx)
	if err != nil {
		t.Fatalf("Conversations() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d conversations, want 2", len(got))
	}
	for _, cv := range got {
		if cv.CreateTime == 0 {
			t.Errorf("conversation %s stored zero create_time", cv.Identity)
		}
	}
}

func TestRecordRunUpsert(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	base := time.Unix(1700000000, 0)
	first := ConversationRecord{Identity: "conv-a", Slug: "chat", Title: "Chat", Turns: 2, Pairs: 1, CleanedAt: base}
	second := first
	second.Turns = 6
	second.Pairs = 3
	second.CleanedAt = base.Add(time.Hour)

	run := RunRecord{Input: "in", Output: "out", StartedAt: base, FinishedAt: base}
	if err := c.RecordRun(ctx, run, []ConversationRecord{first}); err != nil {
		t.Fatalf("first RecordRun() error: %v", err)
	}
	if err := c.RecordRun(ctx, run, []ConversationRecord{second}); err != nil {
		t.Fatalf("second RecordRun() error: %v", err)
	}

	got, err := c.Conversations(ctx)
	if err != nil {
		t.Fatalf("Conversations() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d conversations, want 1 after upsert", len(got))
	}
	if got[0].Turns != 6 || got[0].Pairs != 3 {
		t.Errorf("conversation = %+v, want updated turns/pairs", got[0])
	}
}

func TestRunsLimit(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		run := RunRecord{
			Input:     "in",
			Output:    "out",
			StartedAt: time.Unix(int64(1700000000+i), 0),
		}
		run.FinishedAt = run.StartedAt
		if err := c.RecordRun(ctx, run, nil); err != nil {
			t.Fatalf("RecordRun() error: %v", err)
		}
	}

	runs, err := c.Runs(ctx, 2)
	if err != nil {
		t.Fatalf("Runs() error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Errorf("runs not ordered most recent first: %v, %v", runs[0].StartedAt, runs[1].StartedAt)
	}
}

func TestStats(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	s, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if s.Runs != 0 || s.Conversations != 0 {
		t.Errorf("empty catalog stats = %+v", s)
	}

	started := time.Unix(1700000000, 0)
	run := RunRecord{Input: "in", Output: "out", Pairs: 5, StartedAt: started, FinishedAt: started}
	convs := []ConversationRecord{{Identity: "a", Slug: "a", Title: "A", CleanedAt: started}}
	if err := c.RecordRun(ctx, run, convs); err != nil {
		t.Fatalf("RecordRun() error: %v", err)
	}

	s, err = c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if s.Runs != 1 || s.Conversations != 1 || s.TotalPairs != 5 {
		t.Errorf("stats = %+v", s)
	}
	if !s.LastRun.Equal(started) {
		t.Errorf("LastRun = %v, want %v", s.LastRun, started)
	}
}
