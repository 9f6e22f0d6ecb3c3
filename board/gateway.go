// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package board

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mtauhidul/ats-ui-demo-sub000/models"
)

var (
	ErrRejectedCandidate = errors.New("cannot move rejected candidates")
	ErrNoApplication     = errors.New("candidate has not applied to this job")
	ErrUnknownCandidate  = errors.New("candidate is not on this board")
	ErrUnknownStage      = errors.New("stage is not part of this pipeline")
)

// StageMutator sends a stage change to the backend.
type StageMutator interface {
	MoveStage(ctx context.Context, candidateID, jobID, targetStageID string) error
}

// Gateway is the single place stage changes leave the client. It
// enforces the rejected-candidate rule before anything goes over the
// wire.
type Gateway struct {
	mutator StageMutator
}

func NewGateway(m StageMutator) *Gateway {
	return &Gateway{mutator: m}
}

// CheckMovable reports whether c may be moved within jobID.
func (g *Gateway) CheckMovable(c models.Candidate, jobID string) error {
	app, ok := c.Application(jobID)
	if !ok {
		return ErrNoApplication
	}
	if app.Status == models.StatusRejected {
		return ErrRejectedCandidate
	}
	return nil
}

// MoveCandidate issues exactly one stage-change request. Repeating a
// move is harmless; the backend treats it as a no-op.
func (g *Gateway) MoveCandidate(ctx context.Context, c models.Candidate, jobID, targetStageID string) error {
	if err := g.CheckMovable(c, jobID); err != nil {
		return err
	}

	if err := g.mutator.MoveStage(ctx, c.ID, jobID, targetStageID); err != nil {
		return err
	}

	slog.Debug("stage change accepted",
		"candidate_id", c.ID,
		"job_id", jobID,
		"stage_id", targetStageID,
	)
	return nil
}

// Notifier is the fire-and-forget error surface (a toast in a UI).
type Notifier interface {
	NotifyError(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) NotifyError(message string) { f(message) }

// logNotifier is used when no Notifier is configured.
type logNotifier struct{}

func (logNotifier) NotifyError(message string) {
	slog.Error("board error", "message", message)
}
