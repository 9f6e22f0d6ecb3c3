// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package board

import "sort"

// Move is a cross-column stage change derived from a drop.
type Move struct {
	CandidateID   string
	TargetStageID string
}

// DetectMove finds the candidate that entered a column between prev and
// next. The drag library only reports the resulting grouping, so the
// mover is whoever is in a column now but was not before. Reorders
// inside one column report false.
func DetectMove(prev, next Grouping) (Move, bool) {
	stageIDs := make([]string, 0, len(next))
	for stageID := range next {
		stageIDs = append(stageIDs, stageID)
	}
	sort.Strings(stageIDs)

	for _, stageID := range stageIDs {
		before := make(map[string]bool, len(prev[stageID]))
		for _, id := range prev[stageID] {
			before[id] = true
		}
		for _, id := range next[stageID] {
			if !before[id] {
				return Move{CandidateID: id, TargetStageID: stageID}, true
			}
		}
	}
	return Move{}, false
}

// ResolveDrop turns a drop of activeID onto overID into a Move. overID
// is normally a column id, but when the card is released over another
// card the library reports that card's id; the owning column is then
// looked up in g. Drops of a card that is not on the board, drops that
// land in the card's own column, and drops on something that is neither
// report false.
func ResolveDrop(g Grouping, activeID, overID string) (Move, bool) {
	if activeID == "" || overID == "" {
		return Move{}, false
	}

	target := ""
	if _, isColumn := g[overID]; isColumn {
		target = overID
	} else if stageID, ok := g.StageOf(overID); ok {
		target = stageID
	} else {
		return Move{}, false
	}

	current, ok := g.StageOf(activeID)
	if !ok || current == target {
		return Move{}, false
	}
	return Move{CandidateID: activeID, TargetStageID: target}, true
}
