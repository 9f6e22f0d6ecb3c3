// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package board

import (
	"testing"
	"time"

	"github.com/mtauhidul/ats-ui-demo-sub000/clock"
)

var epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestOverlay() (*Overlay, *clock.FakeClock, *int) {
	fake := clock.Fake(epoch)
	changes := 0
	o := NewOverlay(fake, 0, func() { changes++ })
	return o, fake, &changes
}

func TestOverlayProposeAndIsPending(t *testing.T) {
	o, _, changes := newTestOverlay()

	if _, ok := o.IsPending("c1"); ok {
		t.Fatal("empty overlay reports pending entry")
	}

	v := o.Propose("c1", "s1")
	if v != 1 {
		t.Errorf("first version = %d, want 1", v)
	}
	if stage, ok := o.IsPending("c1"); !ok || stage != "s1" {
		t.Errorf("IsPending = %q,%v want s1,true", stage, ok)
	}
	if o.State("c1") != StatePending {
		t.Errorf("state = %s, want pending", o.State("c1"))
	}
	if *changes != 1 {
		t.Errorf("expected 1 change notification, got %d", *changes)
	}

	entry, _ := o.Entry("c1")
	if !entry.CreatedAt.Equal(epoch) {
		t.Errorf("CreatedAt = %v, want %v", entry.CreatedAt, epoch)
	}
}

func TestOverlaySupersession(t *testing.T) {
	o, fake, _ := newTestOverlay()

	v1 := o.Propose("c1", "s1")
	v2 := o.Propose("c1", "s2")
	if v2 <= v1 {
		t.Fatalf("versions not increasing: %d then %d", v1, v2)
	}

	o.Confirm("c1", v1)
	fake.Advance(DefaultGraceWindow * 2)

	if stage, ok := o.IsPending("c1"); !ok || stage != "s2" {
		t.Errorf("stale confirm affected overlay: %q,%v", stage, ok)
	}
	if o.State("c1") != StatePending {
		t.Errorf("stale confirm changed state to %s", o.State("c1"))
	}

	o.Revert("c1", v1)
	if stage, _ := o.IsPending("c1"); stage != "s2" {
		t.Errorf("stale revert removed newer entry")
	}
}

func TestOverlayConfirmExpiresAfterGraceWindow(t *testing.T) {
	o, fake, changes := newTestOverlay()

	v := o.Propose("c1", "s1")
	o.Confirm("c1", v)
	if o.State("c1") != StateConfirmed {
		t.Fatalf("state = %s, want confirmed", o.State("c1"))
	}

	fake.Advance(799 * time.Millisecond)
	if _, ok := o.IsPending("c1"); !ok {
		t.Fatal("entry cleared before grace window elapsed")
	}

	fake.Advance(time.Millisecond)
	if _, ok := o.IsPending("c1"); ok {
		t.Fatal("entry still pending after grace window")
	}
	if o.State("c1") != StateSettled {
		t.Errorf("state = %s, want settled", o.State("c1"))
	}
	if *changes != 2 {
		t.Errorf("expected 2 change notifications, got %d", *changes)
	}
}

func TestOverlayConfirmRestartsTimer(t *testing.T) {
	o, fake, _ := newTestOverlay()

	v := o.Propose("c1", "s1")
	o.Confirm("c1", v)
	fake.Advance(500 * time.Millisecond)
	o.Confirm("c1", v)
	fake.Advance(500 * time.Millisecond)

	if _, ok := o.IsPending("c1"); !ok {
		t.Fatal("restarted timer fired on the original deadline")
	}
	fake.Advance(300 * time.Millisecond)
	if _, ok := o.IsPending("c1"); ok {
		t.Fatal("restarted timer did not fire")
	}
	if fake.PendingCount() != 0 {
		t.Errorf("leaked timers: %d", fake.PendingCount())
	}
}

func TestOverlayProposeCancelsConfirmedTimer(t *testing.T) {
	o, fake, _ := newTestOverlay()

	v1 := o.Propose("c1", "s1")
	o.Confirm("c1", v1)
	o.Propose("c1", "s2")

	fake.Advance(time.Second)
	if stage, ok := o.IsPending("c1"); !ok || stage != "s2" {
		t.Errorf("old timer removed the newer move: %q,%v", stage, ok)
	}
}

func TestOverlayRevert(t *testing.T) {
	o, _, changes := newTestOverlay()

	v := o.Propose("c1", "s1")
	o.Revert("c1", v)

	if _, ok := o.IsPending("c1"); ok {
		t.Error("revert did not remove entry")
	}
	if *changes != 2 {
		t.Errorf("expected 2 change notifications, got %d", *changes)
	}

	// Reverting again is a no-op and does not notify.
	o.Revert("c1", v)
	if *changes != 2 {
		t.Errorf("no-op revert notified")
	}
}

func TestOverlayVersionsNeverRepeat(t *testing.T) {
	o, _, _ := newTestOverlay()

	v1 := o.Propose("c1", "s1")
	o.Revert("c1", v1)
	v2 := o.Propose("c1", "s1")
	if v2 == v1 {
		t.Fatalf("version reused after removal: %d", v2)
	}

	// A late revert for the first move must not touch the second.
	o.Revert("c1", v1)
	if _, ok := o.IsPending("c1"); !ok {
		t.Error("late revert removed a newer entry")
	}

	// Versions are per candidate.
	if v := o.Propose("c2", "s1"); v != 1 {
		t.Errorf("c2 first version = %d, want 1", v)
	}
}

func TestOverlaySettle(t *testing.T) {
	o, fake, _ := newTestOverlay()

	v := o.Propose("c1", "s1")
	o.Confirm("c1", v)
	o.Settle("c1", v)

	if _, ok := o.IsPending("c1"); ok {
		t.Error("settle did not remove entry")
	}
	if fake.PendingCount() != 0 {
		t.Errorf("settle left the grace timer running")
	}
}

func TestOverlayLookupIsPointInTime(t *testing.T) {
	o, _, _ := newTestOverlay()

	o.Propose("c1", "s1")
	lookup := o.Lookup()
	o.Propose("c1", "s2")

	if stage, _ := lookup("c1"); stage != "s1" {
		t.Errorf("lookup saw later write: %s", stage)
	}
	if len(o.Pending()) != 1 {
		t.Errorf("expected one pending move, got %d", len(o.Pending()))
	}
}
