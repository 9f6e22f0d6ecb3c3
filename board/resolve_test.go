// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package board

import (
	"testing"

	"github.com/mtauhidul/ats-ui-demo-sub000/models"
)

func fiveStagePipeline() models.Pipeline {
	return models.Pipeline{
		ID:    "p1",
		JobID: "job-1",
		Stages: []models.Stage{
			{ID: "s0", Name: "Applied", Order: 0},
			{ID: "s1", Name: "Phone Screen", Order: 1},
			{ID: "s2", Name: "Technical Interview", Order: 2},
			{ID: "s3", Name: "Offer", Order: 3},
			{ID: "s4", Name: "Hired", Order: 4},
		},
	}
}

func TestResolveExactID(t *testing.T) {
	p := fiveStagePipeline()
	for _, s := range p.Stages {
		if got := Resolve(s.ID, p); got != s {
			t.Errorf("Resolve(%q) = %+v, want %+v", s.ID, got, s)
		}
	}
}

func TestResolveRules(t *testing.T) {
	p := fiveStagePipeline()

	tests := []struct {
		name     string
		ref      string
		wantID   string
		wantRule Rule
	}{
		{"exact id", "s3", "s3", RuleID},
		{"name exact case", "Offer", "s3", RuleName},
		{"name mixed case", "pHONE sCREEN", "s1", RuleName},
		{"legacy token", "stage_2", "s2", RuleLegacyIndex},
		{"legacy token other prefix", "column_4", "s4", RuleLegacyIndex},
		{"legacy token zero", "stage_0", "s0", RuleLegacyIndex},
		{"legacy token out of range", "stage_5", "s0", RuleFallback},
		{"legacy token negative", "stage_-1", "s0", RuleFallback},
		{"legacy token without prefix", "_2", "s0", RuleFallback},
		{"legacy token without index", "stage_", "s0", RuleFallback},
		{"fuzzy overlap", "technical interview round", "s2", RuleFuzzy},
		{"fuzzy mixed case", "Round TECHNICAL Interview", "s2", RuleFuzzy},
		{"fuzzy needs two hits", "technical chat", "s0", RuleFallback},
		{"fuzzy ignores short words", "of an technical", "s0", RuleFallback},
		{"fuzzy substring", "phone screen call", "s1", RuleFuzzy},
		{"empty reference", "", "s0", RuleFallback},
		{"unmatched", "something else entirely", "s0", RuleFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := ResolveRule(tt.ref, p)
			if got.ID != tt.wantID {
				t.Errorf("ResolveRule(%q) stage = %s, want %s", tt.ref, got.ID, tt.wantID)
			}
			if rule != tt.wantRule {
				t.Errorf("ResolveRule(%q) rule = %s, want %s", tt.ref, rule, tt.wantRule)
			}
		})
	}
}

func TestResolveStrictRulesWinOverLooseOnes(t *testing.T) {
	// A stage whose id looks like a legacy token must match by id, not
	// by position.
	p := models.Pipeline{
		JobID: "job-1",
		Stages: []models.Stage{
			{ID: "a", Name: "Screening"},
			{ID: "stage_0", Name: "Interview"},
			{ID: "c", Name: "stage_1"},
		},
	}

	if got := Resolve("stage_0", p); got.ID != "stage_0" {
		t.Errorf("id match shadowed: got %s", got.ID)
	}
	// Name match beats the positional reading of "stage_1".
	if got := Resolve("STAGE_1", p); got.ID != "c" {
		t.Errorf("name match shadowed: got %s", got.ID)
	}
}

func TestResolveFuzzyFirstStageInOrderWins(t *testing.T) {
	p := models.Pipeline{
		JobID: "job-1",
		Stages: []models.Stage{
			{ID: "s0", Name: "Applied"},
			{ID: "s1", Name: "Final Onsite Interview"},
			{ID: "s2", Name: "Onsite Interview Debrief"},
		},
	}
	if got := Resolve("onsite interview", p); got.ID != "s1" {
		t.Errorf("expected first matching stage s1, got %s", got.ID)
	}
}

func TestResolveTotality(t *testing.T) {
	p := fiveStagePipeline()
	refs := []string{"zzz", "stage_99", "   ", "🙂 🙂", "interview", "s", "S0 "}
	for _, ref := range refs {
		if got := Resolve(ref, p); got.ID != "s0" {
			t.Errorf("Resolve(%q) = %s, want fallback s0", ref, got.ID)
		}
	}
}

func TestResolveEmptyPipeline(t *testing.T) {
	got, rule := ResolveRule("anything", models.Pipeline{})
	if got != (models.Stage{}) || rule != RuleNone {
		t.Errorf("expected zero stage and RuleNone, got %+v %s", got, rule)
	}
}

func TestLegacyIndex(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"stage_2", 2, true},
		{"a_b_10", 10, true},
		{"stage_02", 2, true},
		{"stage_x", 0, false},
		{"stage2", 0, false},
		{"stage_+1", 0, false},
		{"stage_1.5", 0, false},
	}
	for _, tt := range tests {
		got, ok := legacyIndex(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("legacyIndex(%q) = %d,%v want %d,%v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
