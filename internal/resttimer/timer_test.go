package resttimer

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ReedRawlings/fitnotes-sub003/internal/workout"
	"github.com/google/uuid"
)

// fakeClock lets tests pin the timer to exact moments around the completion
// boundary without sleeping.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time        { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(c *fakeClock) *Service {
	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = c.now
	return s
}

// TestCompletionBoundary verifies a 90s timer is incomplete at t=89s and
// complete at t=91s, independent of any polling cadence.
func TestCompletionBoundary(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)}
	s := newTestService(clock)

	snap, err := s.Start(uuid.New(), 2, 90*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.advance(89 * time.Second)
	if s.IsCompleted(snap.ID) {
		t.Error("timer reported complete at t=89s")
	}
	if got := s.Snapshot().State; got != StateRunning {
		t.Errorf("state = %s, want %s", got, StateRunning)
	}

	clock.advance(2 * time.Second)
	if !s.IsCompleted(snap.ID) {
		t.Error("timer not complete at t=91s")
	}
	if got := s.Snapshot().State; got != StateCompleted {
		t.Errorf("state = %s, want %s", got, StateCompleted)
	}
}

// TestSkipClearsTimer verifies skip returns to idle before completion and is
// idempotent.
func TestSkipClearsTimer(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	s := newTestService(clock)

	snap, err := s.Start(uuid.New(), 1, 60*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Skip()
	if got := s.Snapshot().State; got != StateIdle {
		t.Fatalf("state after skip = %s, want %s", got, StateIdle)
	}
	if s.IsCompleted(snap.ID) {
		t.Error("skipped timer must never report completion")
	}

	// Second skip is a no-op.
	s.Skip()
	if got := s.Snapshot().State; got != StateIdle {
		t.Errorf("state after double skip = %s, want %s", got, StateIdle)
	}
}

// TestIdentityAcrossStarts verifies successive starts issue distinct IDs and
// a stale ID never reports against the live timer.
func TestIdentityAcrossStarts(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	s := newTestService(clock)

	first, err := s.Start(uuid.New(), 1, 30*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Start(uuid.New(), 2, 30*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID == second.ID {
		t.Fatal("two starts issued the same timer ID")
	}

	clock.advance(31 * time.Second)
	if s.IsCompleted(first.ID) {
		t.Error("stale timer ID reported completion against the live timer")
	}
	if !s.IsCompleted(second.ID) {
		t.Error("live timer did not report completion")
	}
}

// TestAcknowledgeOnlyAfterCompletion verifies completed state persists until
// acknowledged, and that acknowledging a running timer does nothing.
func TestAcknowledgeOnlyAfterCompletion(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	s := newTestService(clock)

	if _, err := s.Start(uuid.New(), 3, 45*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Acknowledge()
	if got := s.Snapshot().State; got != StateRunning {
		t.Fatalf("acknowledge cleared a running timer: state = %s", got)
	}

	clock.advance(46 * time.Second)
	if got := s.Snapshot().State; got != StateCompleted {
		t.Fatalf("state = %s, want %s", got, StateCompleted)
	}
	// No auto-clear: still completed until acknowledged.
	if got := s.Snapshot().State; got != StateCompleted {
		t.Fatalf("completed state did not persist: %s", got)
	}

	s.Acknowledge()
	if got := s.Snapshot().State; got != StateIdle {
		t.Errorf("state after acknowledge = %s, want %s", got, StateIdle)
	}
}

// TestStartSupersedesCompleted verifies a new start replaces a completed
// instance in one step.
func TestStartSupersedesCompleted(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	s := newTestService(clock)

	if _, err := s.Start(uuid.New(), 1, 10*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.advance(11 * time.Second)

	snap, err := s.Start(uuid.New(), 2, 60*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.State != StateRunning {
		t.Errorf("state = %s, want %s", snap.State, StateRunning)
	}
	if snap.SetNumber != 2 {
		t.Errorf("set number = %d, want 2", snap.SetNumber)
	}
}

// TestStartRejectsInvalidDuration verifies the boundary validation.
func TestStartRejectsInvalidDuration(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	s := newTestService(clock)

	_, err := s.Start(uuid.New(), 1, 0)
	if !errors.Is(err, workout.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
	if got := s.Snapshot().State; got != StateIdle {
		t.Errorf("rejected start changed state to %s", got)
	}
}

// TestRemainingProjection verifies the snapshot's remaining time tracks the
// clock.
func TestRemainingProjection(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	s := newTestService(clock)

	if _, err := s.Start(uuid.New(), 1, 90*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.advance(30 * time.Second)

	snap := s.Snapshot()
	if snap.Remaining != 60*time.Second {
		t.Errorf("remaining = %v, want 60s", snap.Remaining)
	}
}
