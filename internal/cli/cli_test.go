// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/exportclean/internal/catalog"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantCmd Command
	}{
		{"no args", nil, CmdHelp},
		{"clean", []string{"clean", "--in", "a.json", "--out", "b"}, CmdClean},
		{"inspect", []string{"inspect", "--in", "a.json"}, CmdInspect},
		{"catalog", []string{"catalog", "list"}, CmdCatalog},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"version short flag", []string{"-v"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"unknown", []string{"bogus"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := parseArgs(tt.args)
			if cmd != tt.wantCmd {
				t.Errorf("parseArgs(%v) = %v, want %v", tt.args, cmd, tt.wantCmd)
			}
		})
	}
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args := parseArgs([]string{"--json", "-q", "clean", "--in", "a.json"})
	if cmd != CmdClean {
		t.Fatalf("cmd = %v, want CmdClean", cmd)
	}
	if !args.JSON {
		t.Error("JSON flag not set")
	}
	if !args.Quiet {
		t.Error("Quiet flag not set")
	}

	_, args = parseArgs([]string{"--verbose", "clean"})
	if !args.Verbose {
		t.Error("Verbose flag not set")
	}
	if len(args.Raw) != 2 || args.Raw[0] != "--in" {
		t.Errorf("Raw = %v", args.Raw)
	}
}

func TestParseConfigFlag(t *testing.T) {
	_, args := parseArgs([]string{"--config", "/tmp/c.toml", "clean"})
	if args.Config != "/tmp/c.toml" {
		t.Errorf("Config = %q", args.Config)
	}

	_, args = parseArgs([]string{"--config=/tmp/d.toml", "clean"})
	if args.Config != "/tmp/d.toml" {
		t.Errorf("Config = %q", args.Config)
	}
}

func TestArgParser(t *testing.T) {
	p := NewArgParser([]string{"list", "--limit", "10", "--path=/tmp/c.db", "--json", "extra"})

	if p.Subcommand() != "list" {
		t.Errorf("Subcommand() = %q", p.Subcommand())
	}
	if p.Flag("limit") != "10" {
		t.Errorf("Flag(limit) = %q", p.Flag("limit"))
	}
	if p.FlagIntOrDefault("limit", 5) != 10 {
		t.Errorf("FlagIntOrDefault(limit) = %d", p.FlagIntOrDefault("limit", 5))
	}
	if p.FlagIntOrDefault("missing", 5) != 5 {
		t.Errorf("FlagIntOrDefault(missing) = %d", p.FlagIntOrDefault("missing", 5))
	}
	if p.Flag("path") != "/tmp/c.db" {
		t.Errorf("Flag(path) = %q", p.Flag("path"))
	}
	if !p.BoolFlag("json") {
		t.Error("BoolFlag(json) = false")
	}
	if p.Positional(1) != "extra" {
		t.Errorf("Positional(1) = %q", p.Positional(1))
	}
	if !p.HasFlag("--limit") {
		t.Error("HasFlag(--limit) = false")
	}
	if p.HasFlag("nope") {
		t.Error("HasFlag(nope) = true")
	}
}

func TestArgParserExplicitBool(t *testing.T) {
	p := NewArgParser([]string{"--json=false", "--catalog=true"})
	if p.BoolFlag("json") {
		t.Error("BoolFlag(json) = true, want false")
	}
	if !p.BoolFlag("catalog") {
		t.Error("BoolFlag(catalog) = false, want true")
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{NewValidationError("f", "v", "r"), ExitUsageError},
		{NewNotFoundError("file", "x"), ExitNotFoundError},
		{NewCommandError("clean", "run", "r", nil), ExitGeneralError},
	}
	for _, tt := range tests {
		if got := ExitCodeFor(tt.err); got != tt.want {
			t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

const cliSample = `[
	{
		"title": "CLI Chat",
		"create_time": 1700000000,
		"current_node": "B",
		"mapping": {
			"root": {"id": "root", "children": ["A"]},
			"A": {"id": "A", "parent": "root", "children": ["B"],
				"message": {"author": {"role": "user"},
					"content": {"content_type": "text", "parts": ["hi"]}, "metadata": {}}},
			"B": {"id": "B", "parent": "A", "children": [],
				"message": {"author": {"role": "assistant"},
					"content": {"content_type": "text", "parts": ["hello"]}, "metadata": {}}}
		}
	}
]`

func TestHandleCleanMissingFlags(t *testing.T) {
	if code := HandleClean(Args{Raw: nil, Quiet: true}); code != ExitUsageError {
		t.Errorf("HandleClean without --in = %d, want %d", code, ExitUsageError)
	}
	if code := HandleClean(Args{Raw: []string{"--in", "x.json"}, Quiet: true}); code != ExitUsageError {
		t.Errorf("HandleClean without --out = %d, want %d", code, ExitUsageError)
	}
}

func TestHandleCleanMissingInput(t *testing.T) {
	raw := []string{"--in", filepath.Join(t.TempDir(), "nope.json"), "--out", t.TempDir()}
	if code := HandleClean(Args{Raw: raw, Quiet: true}); code != ExitNotFoundError {
		t.Errorf("HandleClean = %d, want %d", code, ExitNotFoundError)
	}
}

func TestHandleCleanEndToEnd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	input := filepath.Join(dir, "conversations.json")
	if err := os.WriteFile(input, []byte(cliSample), 0644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "out")

	raw := []string{"--in", input, "--out", outDir, "--catalog"}
	if code := HandleClean(Args{Raw: raw, Quiet: true}); code != ExitSuccess {
		t.Fatalf("HandleClean = %d, want %d", code, ExitSuccess)
	}

	for _, f := range []string{"all_conversations.json", "pairs.jsonl", "catalog.db"} {
		if _, err := os.Stat(filepath.Join(outDir, f)); err != nil {
			t.Errorf("missing output %s: %v", f, err)
		}
	}
	entries, err := os.ReadDir(filepath.Join(outDir, "markdown_by_conversation"))
	if err != nil || len(entries) != 1 {
		t.Errorf("markdown dir entries = %d, err = %v", len(entries), err)
	}

	// Catalog rows carry the conversation's export timestamp.
	cat, err := catalog.Open(filepath.Join(outDir, "catalog.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer cat.Close()
	convs, err := cat.Conversations(context.Background())
	if err != nil {
		t.Fatalf("query catalog: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("got %d catalog rows, want 1", len(convs))
	}
	if convs[0].CreateTime != 1700000000 {
		t.Errorf("catalog create_time = %v, want 1700000000", convs[0].CreateTime)
	}
}

func TestHandleCleanBadFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	input := filepath.Join(dir, "conversations.json")
	if err := os.WriteFile(input, []byte(cliSample), 0644); err != nil {
		t.Fatal(err)
	}

	raw := []string{"--in", input, "--out", filepath.Join(dir, "out"), "--fallback", "bogus"}
	if code := HandleClean(Args{Raw: raw, Quiet: true}); code != ExitUsageError {
		t.Errorf("HandleClean = %d, want %d", code, ExitUsageError)
	}
}

func TestHandleInspect(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "conversations.json")
	if err := os.WriteFile(input, []byte(cliSample), 0644); err != nil {
		t.Fatal(err)
	}

	if code := HandleInspect(Args{Raw: []string{"--in", input}}); code != ExitSuccess {
		t.Errorf("HandleInspect = %d, want %d", code, ExitSuccess)
	}
	if code := HandleInspect(Args{Raw: nil}); code != ExitUsageError {
		t.Errorf("HandleInspect without --in = %d, want %d", code, ExitUsageError)
	}
}

func TestHandleCatalogMissingDB(t *testing.T) {
	raw := []string{"list", "--path", filepath.Join(t.TempDir(), "nope.db")}
	if code := HandleCatalog(Args{Raw: raw}); code != ExitNotFoundError {
		t.Errorf("HandleCatalog = %d, want %d", code, ExitNotFoundError)
	}
}
