// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mtauhidul/ats-ui-demo-sub000/clock"
	"github.com/mtauhidul/ats-ui-demo-sub000/models"
)

// SnapshotSource fetches the authoritative state of a job on demand.
type SnapshotSource interface {
	Snapshot(ctx context.Context, jobID string) (models.Snapshot, error)
}

// SnapshotStream pushes authoritative snapshots until it disconnects.
type SnapshotStream interface {
	Stream(ctx context.Context, jobID string, fn func(models.Snapshot)) error
}

// Options configures a Board. Zero values pick production defaults.
type Options struct {
	Clock          clock.Clock
	GraceWindow    time.Duration
	Notifier       Notifier
	Source         SnapshotSource
	Stream         SnapshotStream
	ReconnectDelay time.Duration
}

// Board keeps one job's displayed grouping: the latest authoritative
// snapshot with the optimistic overlay folded on top.
type Board struct {
	jobID    string
	gateway  *Gateway
	overlay  *Overlay
	clock    clock.Clock
	notifier Notifier
	source   SnapshotSource
	stream   SnapshotStream
	backoff  time.Duration

	mu       sync.Mutex
	snap     models.Snapshot
	snapSeq  uint64
	basis    map[string]proposal
	grouping Grouping
	subs     map[int]func(Grouping)
	nextSub  int

	// deliver orders subscriber callbacks across publishers.
	deliver sync.Mutex
}

// proposal remembers how many snapshots had been applied when a move
// was proposed. Only later snapshots can settle it.
type proposal struct {
	version uint64
	snapSeq uint64
}

// New creates a board for jobID. Moves go through gw.
func New(jobID string, gw *Gateway, opts Options) *Board {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Notifier == nil {
		opts.Notifier = logNotifier{}
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = time.Second
	}

	b := &Board{
		jobID:    jobID,
		gateway:  gw,
		clock:    opts.Clock,
		notifier: opts.Notifier,
		source:   opts.Source,
		stream:   opts.Stream,
		backoff:  opts.ReconnectDelay,
		snap:     models.Snapshot{JobID: jobID},
		basis:    make(map[string]proposal),
		grouping: Grouping{},
		subs:     make(map[int]func(Grouping)),
	}
	b.overlay = NewOverlay(opts.Clock, opts.GraceWindow, b.publish)
	return b
}

// JobID returns the job this board displays.
func (b *Board) JobID() string { return b.jobID }

// Overlay exposes the optimistic overlay for inspection.
func (b *Board) Overlay() *Overlay { return b.overlay }

// Grouping returns a copy of the displayed grouping.
func (b *Board) Grouping() Grouping {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grouping.Clone()
}

// Snapshot returns the latest authoritative snapshot.
func (b *Board) Snapshot() models.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap
}

// Subscribe registers fn to receive every new grouping. Groupings are
// delivered one at a time in the order they were computed, so fn must
// not call Move, ApplySnapshot or Refresh itself. The returned function
// unregisters it.
func (b *Board) Subscribe(fn func(Grouping)) func() {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// ApplySnapshot replaces the authoritative state. Snapshots for other
// jobs are ignored.
func (b *Board) ApplySnapshot(snap models.Snapshot) {
	if snap.JobID != b.jobID {
		slog.Debug("ignoring snapshot for another job", "job_id", snap.JobID, "board_job_id", b.jobID)
		return
	}

	b.mu.Lock()
	b.snap = snap
	b.snapSeq++
	seq := b.snapSeq
	b.mu.Unlock()

	b.logFallbacks(snap)
	b.settleEchoes(snap, seq)
	b.publish()
}

// Refresh pulls a fresh snapshot from the configured source.
func (b *Board) Refresh(ctx context.Context) error {
	if b.source == nil {
		return fmt.Errorf("board has no snapshot source")
	}
	snap, err := b.source.Snapshot(ctx, b.jobID)
	if err != nil {
		return fmt.Errorf("failed to refresh board: %w", err)
	}
	b.ApplySnapshot(snap)
	return nil
}

// Run folds the realtime stream into the board until ctx is done.
// After a disconnect it waits ReconnectDelay and subscribes again; the
// first snapshot after reconnecting is taken as authoritative.
func (b *Board) Run(ctx context.Context) error {
	if b.stream == nil {
		return fmt.Errorf("board has no snapshot stream")
	}

	for {
		err := b.stream.Stream(ctx, b.jobID, b.ApplySnapshot)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Warn("board stream disconnected", "job_id", b.jobID, "error", err)

		wait := make(chan struct{})
		timer := b.clock.AfterFunc(b.backoff, func() { close(wait) })
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-wait:
		}
	}
}

// Move optimistically places candidateID in targetStageID and sends the
// change. The board shows the new column before the request returns.
// On failure the move is reverted and the notifier is told why.
func (b *Board) Move(ctx context.Context, candidateID, targetStageID string) error {
	b.mu.Lock()
	snap := b.snap
	b.mu.Unlock()

	cand, ok := findCandidate(snap, candidateID)
	if !ok {
		b.notifier.NotifyError(ErrUnknownCandidate.Error())
		return ErrUnknownCandidate
	}
	if _, ok := snap.Pipeline.Stage(targetStageID); !ok {
		b.notifier.NotifyError(ErrUnknownStage.Error())
		return ErrUnknownStage
	}
	if err := b.gateway.CheckMovable(cand, b.jobID); err != nil {
		b.notifier.NotifyError(err.Error())
		return err
	}

	b.mu.Lock()
	seen := b.snapSeq
	b.mu.Unlock()
	version := b.overlay.Propose(candidateID, targetStageID)
	b.mu.Lock()
	if cur, ok := b.basis[candidateID]; !ok || cur.version < version {
		b.basis[candidateID] = proposal{version: version, snapSeq: seen}
	}
	b.mu.Unlock()

	if err := b.gateway.MoveCandidate(ctx, cand, b.jobID, targetStageID); err != nil {
		if entry, ok := b.overlay.Entry(candidateID); ok && entry.Version != version {
			slog.Debug("discarding failure of superseded move",
				"candidate_id", candidateID,
				"version", version,
				"error", err,
			)
			return err
		}
		b.overlay.Revert(candidateID, version)
		slog.Warn("stage change failed",
			"candidate_id", candidateID,
			"job_id", b.jobID,
			"stage_id", targetStageID,
			"error", err,
		)
		b.notifier.NotifyError(err.Error())
		return err
	}

	b.overlay.Confirm(candidateID, version)

	// The echo may have beaten the response.
	b.mu.Lock()
	snap, seq := b.snap, b.snapSeq
	b.mu.Unlock()
	b.settleEchoes(snap, seq)
	return nil
}

// Drop handles a drop reported as the grouping before and after the
// drag. Reorders within a column are not persisted.
func (b *Board) Drop(ctx context.Context, prev, next Grouping) error {
	move, ok := DetectMove(prev, next)
	if !ok {
		return nil
	}
	return b.dropMove(ctx, move)
}

// DropOn handles a drop reported as the dragged card and the element it
// was released over, either a column or another card.
func (b *Board) DropOn(ctx context.Context, activeID, overID string) error {
	move, ok := ResolveDrop(b.Grouping(), activeID, overID)
	if !ok {
		return nil
	}
	return b.dropMove(ctx, move)
}

func (b *Board) dropMove(ctx context.Context, move Move) error {
	if current, ok := b.Grouping().StageOf(move.CandidateID); ok && current == move.TargetStageID {
		return nil
	}
	return b.Move(ctx, move.CandidateID, move.TargetStageID)
}

// settleEchoes clears confirmed overlay entries that snap already
// agrees with. seq is the position of snap in the applied sequence;
// snapshots applied before a move was proposed cannot be its echo.
func (b *Board) settleEchoes(snap models.Snapshot, seq uint64) {
	if len(snap.Pipeline.Stages) == 0 {
		return
	}
	for _, pm := range b.overlay.Pending() {
		if !pm.Confirmed || !b.arrivedAfter(pm, seq) {
			continue
		}
		cand, ok := findCandidate(snap, pm.CandidateID)
		if !ok {
			continue
		}
		app, ok := cand.Application(b.jobID)
		if !ok {
			continue
		}
		if Resolve(app.CurrentStageID, snap.Pipeline).ID == pm.TargetStageID {
			b.overlay.Settle(pm.CandidateID, pm.Version)
		}
	}
}

func (b *Board) arrivedAfter(pm PendingMove, seq uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.basis[pm.CandidateID]
	if !ok || p.version != pm.Version {
		return false
	}
	return seq > p.snapSeq
}

func (b *Board) logFallbacks(snap models.Snapshot) {
	if len(snap.Pipeline.Stages) == 0 {
		return
	}
	for _, c := range snap.Candidates {
		app, ok := c.Application(b.jobID)
		if !ok {
			continue
		}
		if _, rule := ResolveRule(app.CurrentStageID, snap.Pipeline); rule == RuleFallback {
			slog.Debug("stage reference matched no stage, using first stage",
				"job_id", b.jobID,
				"candidate_id", c.ID,
				"reference", app.CurrentStageID,
			)
		}
	}
}

func (b *Board) publish() {
	b.deliver.Lock()
	defer b.deliver.Unlock()

	b.mu.Lock()
	b.grouping = Reconcile(b.snap, b.overlay.Lookup())
	subs := make([]func(Grouping), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	g := b.grouping
	b.mu.Unlock()

	for _, fn := range subs {
		fn(g.Clone())
	}
}

func findCandidate(snap models.Snapshot, candidateID string) (models.Candidate, bool) {
	for _, c := range snap.Candidates {
		if c.ID == candidateID {
			return c, true
		}
	}
	return models.Candidate{}, false
}
