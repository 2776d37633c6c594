// Package resttimer implements the between-set countdown: a single live
// instance with explicit identity, lazy completion detection, and a
// bounded-latency watcher for callers that want a push signal.
package resttimer

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ReedRawlings/fitnotes-sub003/internal/workout"
	"github.com/google/uuid"
)

// State is the timer's display state.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
)

// pollInterval bounds completion-notification latency. Correctness never
// depends on it: completion is derived from the clock, not the ticker.
const pollInterval = 100 * time.Millisecond

// Snapshot is an immutable projection of the timer for readers. Consumers
// tracking "did the timer change" must compare IDs, not just state: a new
// Start always issues a fresh ID.
type Snapshot struct {
	State      State         `json:"state"`
	ID         uuid.UUID     `json:"id,omitempty"`
	ExerciseID uuid.UUID     `json:"exercise_id,omitempty"`
	SetNumber  int           `json:"set_number,omitempty"`
	Duration   time.Duration `json:"-"`
	StartedAt  time.Time     `json:"started_at,omitzero"`
	EndsAt     time.Time     `json:"ends_at,omitzero"`
	Remaining  time.Duration `json:"-"`
}

type instance struct {
	id         uuid.UUID
	exerciseID uuid.UUID
	setNumber  int
	duration   time.Duration
	startedAt  time.Time
	endsAt     time.Time
}

// Service owns the single live timer. One writer (Start/Skip/Acknowledge),
// any number of polling readers; a single mutex keeps Start atomic with
// respect to concurrent Skip/Acknowledge so a skip can never race a fresh
// start into stale state.
type Service struct {
	mu  sync.Mutex
	cur *instance
	log *slog.Logger

	// now is the clock; swapped in tests to pin completion boundaries.
	now func() time.Time

	// onComplete, when set, fires once per instance from the watcher.
	onComplete func(Snapshot)
	watchGen   int
}

// New creates an idle timer service.
func New(log *slog.Logger) *Service {
	return &Service{log: log, now: time.Now}
}

// OnComplete registers a completion callback delivered with bounded latency
// by the watcher goroutine. Must be called before the first Start.
func (s *Service) OnComplete(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onComplete = fn
}

// Start begins a fresh countdown, superseding any live instance (running or
// completed) in the same critical section. The returned snapshot carries the
// new instance's identity.
func (s *Service) Start(exerciseID uuid.UUID, setNumber int, duration time.Duration) (Snapshot, error) {
	if duration <= 0 {
		return Snapshot{}, fmt.Errorf("%w: rest duration %v must be positive", workout.ErrInvalidInput, duration)
	}
	if setNumber < 0 {
		return Snapshot{}, fmt.Errorf("%w: set number %d is negative", workout.ErrInvalidInput, setNumber)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	started := s.now()
	s.cur = &instance{
		id:         uuid.New(),
		exerciseID: exerciseID,
		setNumber:  setNumber,
		duration:   duration,
		startedAt:  started,
		endsAt:     started.Add(duration),
	}
	s.watchGen++

	if s.onComplete != nil {
		go s.watch(s.cur.id, s.watchGen)
	}

	s.log.Debug("rest timer started",
		"timer_id", s.cur.id,
		"exercise_id", exerciseID,
		"set_number", setNumber,
		"duration", duration)

	return s.snapshotLocked(), nil
}

// Skip discards the live instance and returns to idle. Idempotent.
func (s *Service) Skip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return
	}
	s.log.Debug("rest timer skipped", "timer_id", s.cur.id)
	s.cur = nil
	s.watchGen++
}

// Acknowledge clears a completed timer. A running or idle timer is left
// untouched: the completed display state persists until the caller
// acknowledges it or a new timer supersedes it.
func (s *Service) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil || s.now().Before(s.cur.endsAt) {
		return
	}
	s.log.Debug("rest timer acknowledged", "timer_id", s.cur.id)
	s.cur = nil
	s.watchGen++
}

// IsCompleted reports whether the given instance is the live timer and has
// reached its end. Correct whenever evaluated at or after endsAt; a stale ID
// never reports against the live timer.
func (s *Service) IsCompleted(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil || s.cur.id != id {
		return false
	}
	return !s.now().Before(s.cur.endsAt)
}

// Snapshot returns the current projection for readers.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() Snapshot {
	if s.cur == nil {
		return Snapshot{State: StateIdle}
	}
	now := s.now()
	snap := Snapshot{
		ID:         s.cur.id,
		ExerciseID: s.cur.exerciseID,
		SetNumber:  s.cur.setNumber,
		Duration:   s.cur.duration,
		StartedAt:  s.cur.startedAt,
		EndsAt:     s.cur.endsAt,
	}
	if now.Before(s.cur.endsAt) {
		snap.State = StateRunning
		snap.Remaining = s.cur.endsAt.Sub(now)
	} else {
		snap.State = StateCompleted
	}
	return snap
}

// watch polls until the instance completes or is superseded, then fires the
// completion callback exactly once for its generation.
func (s *Service) watch(id uuid.UUID, gen int) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		if s.watchGen != gen || s.cur == nil || s.cur.id != id {
			s.mu.Unlock()
			return
		}
		if s.now().Before(s.cur.endsAt) {
			s.mu.Unlock()
			continue
		}
		snap := s.snapshotLocked()
		fn := s.onComplete
		s.mu.Unlock()

		if fn != nil {
			fn(snap)
		}
		return
	}
}
