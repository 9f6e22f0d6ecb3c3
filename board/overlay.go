// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package board

import (
	"sync"
	"time"

	"github.com/mtauhidul/ats-ui-demo-sub000/clock"
)

// DefaultGraceWindow is how long a confirmed move stays in the overlay
// waiting for the realtime echo.
const DefaultGraceWindow = 800 * time.Millisecond

// MoveState is the per-candidate optimistic state.
type MoveState int

const (
	// StateSettled: nothing pending, the authoritative stage is shown.
	StateSettled MoveState = iota
	// StatePending: a move was proposed and its mutation is in flight.
	StatePending
	// StateConfirmed: the mutation succeeded and the grace window runs.
	StateConfirmed
)

func (s MoveState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateConfirmed:
		return "confirmed"
	}
	return "settled"
}

// PendingMove is a copy of one overlay entry.
type PendingMove struct {
	CandidateID   string
	TargetStageID string
	Version       uint64
	CreatedAt     time.Time
	Confirmed     bool
}

type overlayEntry struct {
	PendingMove
	timer *clock.Timer
}

// Overlay holds locally predicted stage assignments that the backend has
// not yet echoed back. At most one entry exists per candidate; a newer
// Propose replaces the older one and makes its Confirm or Revert a
// no-op.
//
// onChange runs after every mutation that changes what IsPending
// reports. It is called without the overlay lock held.
type Overlay struct {
	mu       sync.Mutex
	clock    clock.Clock
	grace    time.Duration
	onChange func()
	entries  map[string]*overlayEntry
	versions map[string]uint64
}

// NewOverlay creates an empty overlay. A non-positive grace uses
// DefaultGraceWindow.
func NewOverlay(c clock.Clock, grace time.Duration, onChange func()) *Overlay {
	if grace <= 0 {
		grace = DefaultGraceWindow
	}
	return &Overlay{
		clock:    c,
		grace:    grace,
		onChange: onChange,
		entries:  make(map[string]*overlayEntry),
		versions: make(map[string]uint64),
	}
}

// Propose records a pending move and returns its version.
func (o *Overlay) Propose(candidateID, targetStageID string) uint64 {
	o.mu.Lock()
	if old, ok := o.entries[candidateID]; ok && old.timer != nil {
		old.timer.Stop()
	}
	o.versions[candidateID]++
	version := o.versions[candidateID]
	o.entries[candidateID] = &overlayEntry{PendingMove: PendingMove{
		CandidateID:   candidateID,
		TargetStageID: targetStageID,
		Version:       version,
		CreatedAt:     o.clock.Now(),
	}}
	o.mu.Unlock()

	o.changed()
	return version
}

// Confirm starts, or restarts, the grace window for the entry when it
// still carries version.
func (o *Overlay) Confirm(candidateID string, version uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	entry, ok := o.entries[candidateID]
	if !ok || entry.Version != version {
		return
	}
	if entry.timer != nil {
		entry.timer.Stop()
	}
	entry.Confirmed = true
	entry.timer = o.clock.AfterFunc(o.grace, func() {
		o.remove(candidateID, version)
	})
}

// Revert drops the entry immediately when it still carries version.
func (o *Overlay) Revert(candidateID string, version uint64) {
	o.remove(candidateID, version)
}

// Settle drops the entry early, used when the realtime echo already
// shows the target stage.
func (o *Overlay) Settle(candidateID string, version uint64) {
	o.remove(candidateID, version)
}

func (o *Overlay) remove(candidateID string, version uint64) {
	o.mu.Lock()
	entry, ok := o.entries[candidateID]
	if !ok || entry.Version != version {
		o.mu.Unlock()
		return
	}
	if entry.timer != nil {
		entry.timer.Stop()
	}
	delete(o.entries, candidateID)
	o.mu.Unlock()

	o.changed()
}

// IsPending returns the predicted stage for candidateID, if any.
func (o *Overlay) IsPending(candidateID string) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	entry, ok := o.entries[candidateID]
	if !ok {
		return "", false
	}
	return entry.TargetStageID, true
}

// State reports where candidateID is in its move lifecycle.
func (o *Overlay) State(candidateID string) MoveState {
	o.mu.Lock()
	defer o.mu.Unlock()
	entry, ok := o.entries[candidateID]
	switch {
	case !ok:
		return StateSettled
	case entry.Confirmed:
		return StateConfirmed
	default:
		return StatePending
	}
}

// Entry returns a copy of the entry for candidateID.
func (o *Overlay) Entry(candidateID string) (PendingMove, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	entry, ok := o.entries[candidateID]
	if !ok {
		return PendingMove{}, false
	}
	return entry.PendingMove, true
}

// Pending returns a copy of every entry.
func (o *Overlay) Pending() []PendingMove {
	o.mu.Lock()
	defer o.mu.Unlock()
	moves := make([]PendingMove, 0, len(o.entries))
	for _, entry := range o.entries {
		moves = append(moves, entry.PendingMove)
	}
	return moves
}

// Lookup returns a PendingLookup bound to a point-in-time copy of the
// overlay, so a Reconcile pass sees one consistent view.
func (o *Overlay) Lookup() PendingLookup {
	o.mu.Lock()
	view := make(map[string]string, len(o.entries))
	for id, entry := range o.entries {
		view[id] = entry.TargetStageID
	}
	o.mu.Unlock()

	return func(candidateID string) (string, bool) {
		stageID, ok := view[candidateID]
		return stageID, ok
	}
}

func (o *Overlay) changed() {
	if o.onChange != nil {
		o.onChange()
	}
}
