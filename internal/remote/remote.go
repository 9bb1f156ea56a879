// Package remote defines the record service that mirrors user progress when
// the adapter runs in remote mode. Implementations live in the pgstore and
// restclient subpackages.
package remote

import (
	"context"
	"errors"

	"github.com/alexanderramin/studyplan/internal/domain"
)

var (
	// ErrUnavailable means the service could not be reached.
	ErrUnavailable = errors.New("remote service unavailable")
	// ErrTimeout means a request exceeded its deadline.
	ErrTimeout = errors.New("remote request timed out")
	// ErrRetryExhausted wraps the last error after all attempts failed.
	ErrRetryExhausted = errors.New("remote retries exhausted")
)

// Snapshot is everything the service holds for the user. Weekly and monthly
// aggregates are never stored remotely; they are recomputed from the plan.
type Snapshot struct {
	Daily       []domain.DailyProgress
	CustomTasks []domain.CustomTask
	Exams       []domain.Exam
	TopicNotes  []domain.TopicNote
}

// Service is a per-record store. Every write is an idempotent upsert or
// delete keyed by the record id (the date for daily records), so replaying a
// write is harmless.
type Service interface {
	FetchAll(ctx context.Context) (*Snapshot, error)

	UpsertDaily(ctx context.Context, d domain.DailyProgress) error

	UpsertCustomTask(ctx context.Context, t domain.CustomTask) error
	DeleteCustomTask(ctx context.Context, id domain.TaskID) error

	UpsertExam(ctx context.Context, e domain.Exam) error
	DeleteExam(ctx context.Context, id domain.TaskID) error

	UpsertTopicNote(ctx context.Context, n domain.TopicNote) error
	DeleteTopicNote(ctx context.Context, id domain.TaskID) error
}

// ToProgress rebuilds user progress from a snapshot. Custom task completion
// is re-derived from the daily ledger.
func (s *Snapshot) ToProgress() *domain.UserProgress {
	up := domain.NewUserProgress()
	if s == nil {
		return up
	}
	for _, d := range s.Daily {
		up.Daily[d.Date] = d.Clone()
	}
	for _, t := range s.CustomTasks {
		up.CustomTasks = append(up.CustomTasks, t.Clone())
	}
	for _, e := range s.Exams {
		up.Exams = append(up.Exams, e.Clone())
	}
	up.TopicNotes = append(up.TopicNotes, s.TopicNotes...)
	up.Normalize()
	return up
}

// FromProgress flattens user progress into a snapshot for bulk upload.
func FromProgress(up *domain.UserProgress) *Snapshot {
	s := &Snapshot{}
	if up == nil {
		return s
	}
	for _, d := range up.Daily {
		s.Daily = append(s.Daily, d.Clone())
	}
	for _, t := range up.CustomTasks {
		s.CustomTasks = append(s.CustomTasks, t.Clone())
	}
	for _, e := range up.Exams {
		s.Exams = append(s.Exams, e.Clone())
	}
	s.TopicNotes = append(s.TopicNotes, up.TopicNotes...)
	return s
}

// Pusher is implemented by services that can upload a whole snapshot at once.
type Pusher interface {
	PushAll(ctx context.Context, snap *Snapshot) error
}

// Push uploads every record of snap, in bulk when svc supports it.
func Push(ctx context.Context, svc Service, snap *Snapshot) error {
	if p, ok := svc.(Pusher); ok {
		return p.PushAll(ctx, snap)
	}
	for _, d := range snap.Daily {
		if err := svc.UpsertDaily(ctx, d); err != nil {
			return err
		}
	}
	for _, t := range snap.CustomTasks {
		if err := svc.UpsertCustomTask(ctx, t); err != nil {
			return err
		}
	}
	for _, e := range snap.Exams {
		if err := svc.UpsertExam(ctx, e); err != nil {
			return err
		}
	}
	for _, n := range snap.TopicNotes {
		if err := svc.UpsertTopicNote(ctx, n); err != nil {
			return err
		}
	}
	return nil
}
