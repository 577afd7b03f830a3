// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// inspect.go - The inspect command: summarize an export without writing.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jeranaias/exportclean/internal/loader"
	"github.com/jeranaias/exportclean/internal/model"
	"github.com/jeranaias/exportclean/internal/sanitize"
	"github.com/jeranaias/exportclean/internal/tree"
	"github.com/jeranaias/exportclean/internal/util"
)

// inspectRow is one conversation's summary.
type inspectRow struct {
	Title      string `json:"title"`
	Identity   string `json:"identity"`
	Nodes      int    `json:"nodes"`
	Turns      int    `json:"turns"`
	FirstTurn  string `json:"first_turn,omitempty"`
	SkipReason string `json:"skip_reason,omitempty"`
}

// HandleInspect summarizes an export file and returns an exit code.
func HandleInspect(args Args) int {
	parser := NewArgParser(args.Raw)

	input := parser.Flag("in")
	if input == "" {
		err := NewValidationError("--in", "", "input export file is required")
		DisplayError(err, args.JSON)
		return ExitUsageError
	}

	if _, err := os.Stat(input); err != nil {
		DisplayError(NewNotFoundError("input file", input), args.JSON)
		return ExitNotFoundError
	}

	convs, err := loader.Load(input)
	if err != nil {
		DisplayError(NewCommandError("inspect", "load", "reading export failed", err), args.JSON)
		return ExitGeneralError
	}

	limit := parser.FlagIntOrDefault("limit", 0)
	if limit > 0 && limit < len(convs) {
		convs = convs[:limit]
	}

	rows := make([]inspectRow, 0, len(convs))
	for _, conv := range convs {
		rows = append(rows, inspectConversation(conv))
	}

	if args.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(rows); err != nil {
			return ExitGeneralError
		}
		return ExitSuccess
	}

	printInspect(rows)
	return ExitSuccess
}

// inspectConversation runs the read-only half of the pipeline on one
// conversation, reporting what a clean run would produce.
func inspectConversation(conv *model.ConversationExport) inspectRow {
	row := inspectRow{
		Title:    conv.Title,
		Identity: conv.Identity(),
		Nodes:    len(conv.Mapping),
	}

	msgs, err := tree.Linearize(conv, tree.DefaultOptions())
	if err != nil {
		row.SkipReason = fmt.Sprintf("linearize: %v", err)
		return row
	}

	turns := sanitize.Sanitize(msgs, sanitize.DefaultOptions())
	row.Turns = len(turns)
	if len(turns) == 0 {
		row.SkipReason = "no visible turns"
		return row
	}
	row.FirstTurn = util.Preview(turns[0].Text, 60)
	return row
}

func printInspect(rows []inspectRow) {
	fmt.Println(TitleStyle.Render("Export Inspect"))

	// Keep titles inside the terminal, leaving room for the counts column
	titleWidth := GetTerminalWidth() - 30
	if titleWidth < 20 {
		titleWidth = 20
	}

	converted := 0
	for _, row := range rows {
		title := row.Title
		if title == "" {
			title = "(untitled)"
		}
		title = util.TruncateWidth(title, titleWidth)

		if row.SkipReason != "" {
			fmt.Printf("%s  %s\n", WarningStyle.Render("skip"), ValueStyle.Render(title))
			fmt.Printf("      %s\n", DimStyle.Render(row.SkipReason))
			continue
		}
		converted++
		fmt.Printf("%s  %s %s\n", SuccessStyle.Render("  ok"), ValueStyle.Render(title),
			DimStyle.Render(fmt.Sprintf("(%d nodes, %d turns)", row.Nodes, row.Turns)))
		if row.FirstTurn != "" {
			fmt.Printf("      %s\n", DimStyle.Render(row.FirstTurn))
		}
	}

	fmt.Printf("\n%s %s\n", LabelStyle.Render("Would convert:"),
		ValueStyle.Render(fmt.Sprintf("%d of %d", converted, len(rows))))
}
