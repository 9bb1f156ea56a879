package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/remote"
)

// ErrInjected is the default failure returned by fakes.
var ErrInjected = errors.New("injected failure")

// FakeRemote is an in-memory remote.Service that records every call and can
// fail or block on demand.
type FakeRemote struct {
	mu    sync.Mutex
	daily map[string]domain.DailyProgress
	tasks map[string]domain.CustomTask
	exams map[string]domain.Exam
	notes map[string]domain.TopicNote
	calls []string

	fetchErr   error
	writeErr   error
	failWrites int

	// Gate, when non-nil, blocks every write until a value is received or
	// the context is done.
	Gate chan struct{}
}

var _ remote.Service = (*FakeRemote)(nil)

func NewFakeRemote() *FakeRemote {
	return &FakeRemote{
		daily: map[string]domain.DailyProgress{},
		tasks: map[string]domain.CustomTask{},
		exams: map[string]domain.Exam{},
		notes: map[string]domain.TopicNote{},
	}
}

// FailFetch makes FetchAll return err until reset with nil.
func (f *FakeRemote) FailFetch(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr = err
}

// FailWrites makes the next n writes return err. n < 0 fails every write.
func (f *FakeRemote) FailWrites(n int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrites, f.writeErr = n, err
}

// Calls returns the recorded calls as "<Method> <id>".
func (f *FakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Seed replaces the stored records with snap.
func (f *FakeRemote) Seed(snap *remote.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range snap.Daily {
		f.daily[d.Date.String()] = d.Clone()
	}
	for _, t := range snap.CustomTasks {
		f.tasks[t.ID.String()] = t.Clone()
	}
	for _, e := range snap.Exams {
		f.exams[e.ID.String()] = e.Clone()
	}
	for _, n := range snap.TopicNotes {
		f.notes[n.ID.String()] = n
	}
}

func (f *FakeRemote) FetchAll(_ context.Context) (*remote.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "FetchAll")
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	snap := &remote.Snapshot{}
	for _, k := range sortedKeys(f.daily) {
		snap.Daily = append(snap.Daily, f.daily[k].Clone())
	}
	for _, k := range sortedKeys(f.tasks) {
		snap.CustomTasks = append(snap.CustomTasks, f.tasks[k].Clone())
	}
	for _, k := range sortedKeys(f.exams) {
		snap.Exams = append(snap.Exams, f.exams[k].Clone())
	}
	for _, k := range sortedKeys(f.notes) {
		snap.TopicNotes = append(snap.TopicNotes, f.notes[k])
	}
	return snap, nil
}

// write records the call, waits on Gate and applies fn unless a failure is
// pending.
func (f *FakeRemote) write(ctx context.Context, call string, fn func()) error {
	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if f.failWrites != 0 {
		if f.failWrites > 0 {
			f.failWrites--
		}
		return f.writeErr
	}
	fn()
	return nil
}

func (f *FakeRemote) UpsertDaily(ctx context.Context, d domain.DailyProgress) error {
	return f.write(ctx, "UpsertDaily "+d.Date.String(), func() { f.daily[d.Date.String()] = d.Clone() })
}

func (f *FakeRemote) UpsertCustomTask(ctx context.Context, t domain.CustomTask) error {
	return f.write(ctx, "UpsertCustomTask "+t.ID.String(), func() { f.tasks[t.ID.String()] = t.Clone() })
}

func (f *FakeRemote) DeleteCustomTask(ctx context.Context, id domain.TaskID) error {
	return f.write(ctx, "DeleteCustomTask "+id.String(), func() { delete(f.tasks, id.String()) })
}

func (f *FakeRemote) UpsertExam(ctx context.Context, e domain.Exam) error {
	return f.write(ctx, "UpsertExam "+e.ID.String(), func() { f.exams[e.ID.String()] = e.Clone() })
}

func (f *FakeRemote) DeleteExam(ctx context.Context, id domain.TaskID) error {
	return f.write(ctx, "DeleteExam "+id.String(), func() { delete(f.exams, id.String()) })
}

func (f *FakeRemote) UpsertTopicNote(ctx context.Context, n domain.TopicNote) error {
	return f.write(ctx, "UpsertTopicNote "+n.ID.String(), func() { f.notes[n.ID.String()] = n })
}

func (f *FakeRemote) DeleteTopicNote(ctx context.Context, id domain.TaskID) error {
	return f.write(ctx, "DeleteTopicNote "+id.String(), func() { delete(f.notes, id.String()) })
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FailingStorage is a kv storage whose reads and writes can be made to fail.
// Values written successfully are kept in memory.
type FailingStorage struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int

	GetErr error
	SetErr error
}

func NewFailingStorage() *FailingStorage {
	return &FailingStorage{data: map[string][]byte{}}
}

func (s *FailingStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, false, s.GetErr
	}
	v, ok := s.data[key]
	return append([]byte(nil), v...), ok, nil
}

func (s *FailingStorage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	if s.SetErr != nil {
		return fmt.Errorf("set %s: %w", key, s.SetErr)
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// SetCalls returns how many times Set was called.
func (s *FailingStorage) SetCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

// Put stores raw bytes directly, bypassing failure injection.
func (s *FailingStorage) Put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}
