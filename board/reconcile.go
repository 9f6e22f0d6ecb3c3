// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package board

import (
	"github.com/mtauhidul/ats-ui-demo-sub000/models"
)

// Grouping maps a stage id to the candidate ids displayed in that
// column, in display order.
type Grouping map[string][]string

// StageOf returns the column holding candidateID.
func (g Grouping) StageOf(candidateID string) (string, bool) {
	for stageID, ids := range g {
		for _, id := range ids {
			if id == candidateID {
				return stageID, true
			}
		}
	}
	return "", false
}

// Clone returns a deep copy of g.
func (g Grouping) Clone() Grouping {
	out := make(Grouping, len(g))
	for stageID, ids := range g {
		out[stageID] = append([]string(nil), ids...)
	}
	return out
}

// PendingLookup reports the optimistic target stage for a candidate.
type PendingLookup func(candidateID string) (string, bool)

// NoPending is a PendingLookup with an empty overlay.
func NoPending(string) (string, bool) { return "", false }

// Reconcile folds the authoritative snapshot and the pending overlay
// into the displayed grouping. It has no side effects and may be called
// as often as either input changes.
//
// A pending target that no longer exists in the pipeline is ignored and
// the authoritative stage is shown instead.
func Reconcile(snap models.Snapshot, pending PendingLookup) Grouping {
	p := snap.Pipeline
	if p.IsTemplate() || len(p.Stages) == 0 {
		return Grouping{}
	}
	if pending == nil {
		pending = NoPending
	}

	g := make(Grouping, len(p.Stages))
	for _, s := range p.Stages {
		g[s.ID] = []string{}
	}

	for _, c := range snap.Candidates {
		app, ok := c.Application(snap.JobID)
		if !ok {
			continue
		}
		stageID := Resolve(app.CurrentStageID, p).ID
		if target, ok := pending(c.ID); ok {
			if _, exists := g[target]; exists {
				stageID = target
			}
		}
		g[stageID] = append(g[stageID], c.ID)
	}
	return g
}

// Column is one rendered board column.
type Column struct {
	Stage      models.Stage
	Candidates []string
}

// Columns orders g by the pipeline's stage order for rendering.
func Columns(p models.Pipeline, g Grouping) []Column {
	cols := make([]Column, 0, len(p.Stages))
	for _, s := range p.Stages {
		cols = append(cols, Column{Stage: s, Candidates: g[s.ID]})
	}
	return cols
}
