// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"regexp"

	"github.com/jeranaias/exportclean/internal/model"
)

// =============================================================================
// PAIR EXTRACTION
// =============================================================================

// PairOptions configures fine-tune pair extraction.
type PairOptions struct {
	// RefusalPatterns drop pairs whose completion matches any pattern
	// (refusals, placeholder responses). Empty means no pattern filtering.
	RefusalPatterns []*regexp.Regexp
}

// CompileRefusalPatterns compiles pattern strings from configuration.
func CompileRefusalPatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

// ExtractPairs converts a cleaned turn sequence into prompt/completion pairs.
//
// Consecutive turns of the same role are first merged by joining their text
// with a newline (a user sending several messages before a reply becomes one
// prompt). The merged, alternating sequence then yields one pair per
// (user, assistant) adjacency. Leading assistant turns and trailing user
// turns contribute nothing; a pair is skipped when its completion is empty
// or matches a refusal pattern.
func ExtractPairs(turns []model.LinearTurn, opts PairOptions) []model.FineTunePair {
	merged := mergeConsecutive(turns)

	var pairs []model.FineTunePair
	for i := 1; i < len(merged); i++ {
		if merged[i].Role != model.RoleAssistant || merged[i-1].Role != model.RoleUser {
			continue
		}

		prompt, completion := merged[i-1].Text, merged[i].Text
		if prompt == "" || completion == "" {
			continue
		}
		if matchesAny(completion, opts.RefusalPatterns) {
			continue
		}

		pairs = append(pairs, model.FineTunePair{Prompt: prompt, Completion: completion})
	}
	return pairs
}

// mergeConsecutive collapses runs of same-role turns into single turns.
func mergeConsecutive(turns []model.LinearTurn) []model.LinearTurn {
	merged := make([]model.LinearTurn, 0, len(turns))
	for _, t := range turns {
		if n := len(merged); n > 0 && merged[n-1].Role == t.Role {
			merged[n-1].Text += "\n" + t.Text
			continue
		}
		merged = append(merged, t)
	}
	return merged
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// =============================================================================
// JSONL ENCODING
// =============================================================================

// EncodeJSONL serializes pairs as newline-delimited JSON, one object per
// line, matching the usual fine-tuning corpus shape.
func EncodeJSONL(pairs []model.FineTunePair) ([]byte, error) {
	var out []byte
	for _, p := range pairs {
		line, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out, nil
}
