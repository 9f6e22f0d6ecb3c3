// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package board

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mtauhidul/ats-ui-demo-sub000/models"
)

// Rule identifies which resolution rule matched a stage reference.
type Rule int

const (
	RuleNone Rule = iota
	RuleID
	RuleName
	RuleLegacyIndex
	RuleFuzzy
	RuleFallback
)

func (r Rule) String() string {
	switch r {
	case RuleID:
		return "id"
	case RuleName:
		return "name"
	case RuleLegacyIndex:
		return "legacy_index"
	case RuleFuzzy:
		return "fuzzy"
	case RuleFallback:
		return "fallback"
	}
	return "none"
}

// Resolve maps a stored stage reference onto a stage of p.
//
// The rules are tried from strictest to loosest and the first match
// wins: exact id, case-insensitive name, legacy "prefix_<n>" position,
// word overlap with a stage name, and finally the first stage. A
// pipeline without stages yields the zero Stage; callers should show a
// setup state instead of resolving against it.
func Resolve(ref string, p models.Pipeline) models.Stage {
	stage, _ := ResolveRule(ref, p)
	return stage
}

// ResolveRule is Resolve that also reports the rule that matched.
func ResolveRule(ref string, p models.Pipeline) (models.Stage, Rule) {
	stages := p.Stages
	if len(stages) == 0 {
		return models.Stage{}, RuleNone
	}

	for _, s := range stages {
		if s.ID == ref {
			return s, RuleID
		}
	}

	lower := strings.ToLower(ref)
	for _, s := range stages {
		if strings.ToLower(s.Name) == lower {
			return s, RuleName
		}
	}

	// Positions refer to the current order. Stages reordered since the
	// token was written resolve to whatever now sits at that index.
	if i, ok := legacyIndex(ref); ok && i < len(stages) {
		return stages[i], RuleLegacyIndex
	}

	if words := significantWords(lower); len(words) >= 2 {
		for _, s := range stages {
			name := strings.ToLower(s.Name)
			hits := 0
			for _, w := range words {
				if strings.Contains(name, w) {
					hits++
				}
			}
			if hits >= 2 {
				return s, RuleFuzzy
			}
		}
	}

	return stages[0], RuleFallback
}

// legacyIndex parses "prefix_<n>" where the segment after the last
// underscore is a non-negative decimal integer.
func legacyIndex(ref string) (int, bool) {
	cut := strings.LastIndexByte(ref, '_')
	if cut <= 0 || cut == len(ref)-1 {
		return 0, false
	}

	digits := ref[cut+1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// significantWords returns the whitespace-separated words of s that are
// longer than two characters.
func significantWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(s) {
		if utf8.RuneCountInString(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}
