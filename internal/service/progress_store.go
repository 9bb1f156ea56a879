// Package service holds the progress store: the single owner of the user's
// in-memory progress. Every mutation builds a new state from the current one,
// publishes it atomically and hands it to the persister.
package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/alexanderramin/studyplan/internal/clock"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/persistence"
	"github.com/alexanderramin/studyplan/internal/plan"
)

type StoreOptions struct {
	Plan      *plan.Plan
	Initial   *domain.UserProgress
	Persister Persister
	Clock     clock.Clock
	IDs       domain.IDGenerator
}

// ProgressStore implements ProgressService. Published states are never
// modified; readers take the current pointer under the read lock.
type ProgressStore struct {
	mu        sync.RWMutex
	state     *domain.UserProgress
	plan      *plan.Plan
	persister Persister
	clock     clock.Clock
	ids       domain.IDGenerator
	observer  UseCaseObserver
}

func NewProgressStore(opts StoreOptions, observers ...UseCaseObserver) *ProgressStore {
	if opts.Plan == nil {
		opts.Plan = plan.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.IDs == nil {
		opts.IDs = domain.RandomIDs{Now: opts.Clock.Now}
	}
	if opts.Persister == nil {
		opts.Persister = nopPersister{}
	}
	state := opts.Initial.Clone()
	state.Normalize()
	return &ProgressStore{
		state:     state,
		plan:      opts.Plan,
		persister: opts.Persister,
		clock:     opts.Clock,
		ids:       opts.IDs,
		observer:  useCaseObserverOrNoop(observers),
	}
}

type nopPersister struct{}

func (nopPersister) Persist(context.Context, *domain.UserProgress, ...persistence.Change) {}

func (s *ProgressStore) Plan() *plan.Plan { return s.plan }

// Today is the current calendar day in the clock's location.
func (s *ProgressStore) Today() domain.Day {
	return domain.DayOf(s.clock.Now())
}

func (s *ProgressStore) now() time.Time {
	return s.clock.Now().UTC()
}

// current returns the published state. Callers must not modify it.
func (s *ProgressStore) current() *domain.UserProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot returns a deep copy of the current state.
func (s *ProgressStore) Snapshot() *domain.UserProgress {
	return s.current().Clone()
}

// mutate applies fn to a copy of the current state. When fn succeeds the
// copy is published and persisted before the write lock is released, so the
// persister sees mutations in the order they were applied. A nil change list
// leaves the state untouched.
func (s *ProgressStore) mutate(ctx context.Context, fn func(next *domain.UserProgress) ([]persistence.Change, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	changes, err := fn(next)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}
	next.RefreshCustomCompletion()
	s.state = next
	s.persister.Persist(ctx, next, changes...)
	return nil
}

// routineDone reports whether every routine task the plan schedules for the
// day is completed in d.
func (s *ProgressStore) routineDone(d *domain.DailyProgress) bool {
	quotas := s.plan.RoutineQuotas(s.plan.WeekFor(d.Date))
	if len(quotas) == 0 {
		return false
	}
	for _, q := range quotas {
		if !d.IsCompleted(domain.RoutineTaskID(q.Kind, d.Date)) {
			return false
		}
	}
	return true
}

func dailyChange(day domain.Day) persistence.Change {
	return persistence.Change{Record: persistence.RecordDaily, Day: day}
}

func sortedDays(days map[domain.Day]bool) []domain.Day {
	out := make([]domain.Day, 0, len(days))
	for d := range days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func onDay(date *domain.Day, d domain.Day) bool {
	return date == nil || date.Equal(d)
}
