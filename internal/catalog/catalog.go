// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
-- Runs table: one row per clean invocation
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    input TEXT NOT NULL,
    output TEXT NOT NULL,
    conversations INTEGER NOT NULL,
    pairs INTEGER NOT NULL,
    skipped INTEGER NOT NULL,
    started_at INTEGER NOT NULL,  -- Unix timestamp
    finished_at INTEGER NOT NULL  -- Unix timestamp
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

-- Conversations table: latest cleaned state per conversation identity
CREATE TABLE IF NOT EXISTS conversations (
    identity TEXT PRIMARY KEY,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    create_time REAL NOT NULL,
    turns INTEGER NOT NULL,
    pairs INTEGER NOT NULL,
    cleaned_at INTEGER NOT NULL   -- Unix timestamp
) WITHOUT ROWID;

CREATE INDEX IF NOT EXISTS idx_conversations_slug ON conversations(slug);
`

// =============================================================================
// CATALOG
// =============================================================================

// Catalog is a handle to the run-history database.
type Catalog struct {
	db   *sql.DB
	path string
}

// RunRecord summarizes one clean invocation.
type RunRecord struct {
	ID            int64
	Input         string
	Output        string
	Conversations int
	Pairs         int
	Skipped       int
	StartedAt     time.Time
	FinishedAt    time.Time
}

// ConversationRecord is the latest cleaned state of one conversation.
type ConversationRecord struct {
	Identity   string
	Slug       string
	Title      string
	CreateTime float64
	Turns      int
	Pairs      int
	CleanedAt  time.Time
}

// Stats aggregates catalog contents.
type Stats struct {
	Runs          int
	Conversations int
	TotalPairs    int
	LastRun       time.Time
}

// Open opens (or creates) the catalog database at path.
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize catalog schema: %w", err)
	}

	return &Catalog{db: db, path: path}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Catalog) Path() string {
	return c.path
}

// =============================================================================
// RECORDING
// =============================================================================

// RecordRun writes one run row plus its conversation rows in a single
// transaction, so a partially recorded run never appears in the catalog.
func (c *Catalog) RecordRun(ctx context.Context, run RunRecord, convs []ConversationRecord) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (input, output, conversations, pairs, skipped, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Input, run.Output, run.Conversations, run.Pairs, run.Skipped,
		run.StartedAt.Unix(), run.FinishedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO conversations (identity, slug, title, create_time, turns, pairs, cleaned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(identity) DO UPDATE SET
			slug = excluded.slug,
			title = excluded.title,
			create_time = excluded.create_time,
			turns = excluded.turns,
			pairs = excluded.pairs,
			cleaned_at = excluded.cleaned_at`)
	if err != nil {
		return fmt.Errorf("prepare conversation upsert: %w", err)
	}
	defer stmt.Close()

	for _, cv := range convs {
		_, err := stmt.ExecContext(ctx, cv.Identity, cv.Slug, cv.Title,
			cv.CreateTime, cv.Turns, cv.Pairs, cv.CleanedAt.Unix())
		if err != nil {
			return fmt.Errorf("upsert conversation %s: %w", cv.Identity, err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// QUERIES
// =============================================================================

// Runs returns recorded runs, most recent first, up to limit (0 = all).
func (c *Catalog) Runs(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `SELECT id, input, output, conversations, pairs, skipped, started_at, finished_at
		FROM runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var started, finished int64
		if err := rows.Scan(&r.ID, &r.Input, &r.Output, &r.Conversations,
			&r.Pairs, &r.Skipped, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.Unix(started, 0)
		r.FinishedAt = time.Unix(finished, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Conversations returns cataloged conversations ordered by cleaned time,
// most recent first.
func (c *Catalog) Conversations(ctx context.Context) ([]ConversationRecord, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT identity, slug, title, create_time, turns, pairs, cleaned_at
		FROM conversations ORDER BY cleaned_at DESC, identity`)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	var out []ConversationRecord
	for rows.Next() {
		var cv ConversationRecord
		var cleaned int64
		if err := rows.Scan(&cv.Identity, &cv.Slug, &cv.Title, &cv.CreateTime,
			&cv.Turns, &cv.Pairs, &cleaned); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		cv.CleanedAt = time.Unix(cleaned, 0)
		out = append(out, cv)
	}
	return out, rows.Err()
}

// Stats aggregates catalog totals.
func (c *Catalog) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	var lastRun sql.NullInt64

	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(pairs), 0), MAX(started_at) FROM runs`).
		Scan(&s.Runs, &s.TotalPairs, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("query run stats: %w", err)
	}
	if lastRun.Valid {
		s.LastRun = time.Unix(lastRun.Int64, 0)
	}

	err = c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations`).
		Scan(&s.Conversations)
	if err != nil {
		return nil, fmt.Errorf("query conversation stats: %w", err)
	}

	return &s, nil
}
