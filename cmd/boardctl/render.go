// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mtauhidul/ats-ui-demo-sub000/board"
	"github.com/mtauhidul/ats-ui-demo-sub000/models"
)

const columnWidth = 22

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(columnWidth)
)

// renderBoard draws one column per stage in pipeline order.
func renderBoard(snap models.Snapshot, g board.Grouping) string {
	title := titleStyle.Render(fmt.Sprintf("%s  %s", snap.JobID, snap.Pipeline.Name))
	if len(snap.Pipeline.Stages) == 0 {
		return title + "\n" + dimStyle.Render("no pipeline")
	}

	cols := board.Columns(snap.Pipeline, g)
	boxes := make([]string, 0, len(cols))
	for _, col := range cols {
		var b strings.Builder
		header := lipgloss.NewStyle().Bold(true)
		if col.Stage.Color != "" {
			header = header.Foreground(lipgloss.Color(col.Stage.Color))
		}
		b.WriteString(header.Render(fmt.Sprintf("%s (%d)", col.Stage.Name, len(col.Candidates))))
		for _, id := range col.Candidates {
			b.WriteString("\n" + candidateName(snap, id))
		}
		if len(col.Candidates) == 0 {
			b.WriteString("\n" + dimStyle.Render("empty"))
		}
		boxes = append(boxes, columnStyle.Render(b.String()))
	}
	return title + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// renderHistory lists stage changes oldest first with stage names.
func renderHistory(p models.Pipeline, h models.HistoryResponse) string {
	if len(h.Changes) == 0 {
		return dimStyle.Render("no history") + "\n"
	}

	var b strings.Builder
	for _, c := range h.Changes {
		since := c.Since
		if since == "" {
			since = humanize.Time(c.ChangedAt)
		}
		to := stageName(p, c.ToStageID)
		if c.FromStageID != "" {
			to = stageName(p, c.FromStageID) + " -> " + to
		}
		fmt.Fprintf(&b, "%-14s %-9s %s\n", dimStyle.Render(since), c.Status, to)
	}
	return b.String()
}

func candidateName(snap models.Snapshot, id string) string {
	for _, c := range snap.Candidates {
		if c.ID == id && c.Name != "" {
			return c.Name
		}
	}
	return id
}

func stageName(p models.Pipeline, ref string) string {
	if len(p.Stages) == 0 {
		return ref
	}
	return board.Resolve(ref, p).Name
}
