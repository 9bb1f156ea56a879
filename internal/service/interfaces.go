package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/persistence"
	"github.com/alexanderramin/studyplan/internal/plan"
	"github.com/alexanderramin/studyplan/internal/progress"
)

// ErrNotFound is returned when an id names no record.
var ErrNotFound = errors.New("not found")

// Persister receives the state produced by every mutation together with the
// records it touched. up must be treated as read-only.
type Persister interface {
	Persist(ctx context.Context, up *domain.UserProgress, changes ...persistence.Change)
}

type CompletionService interface {
	CompleteTask(ctx context.Context, id domain.TaskID, day domain.Day) error
	UncompleteTask(ctx context.Context, id domain.TaskID, day domain.Day) error
	IsTaskCompleted(id domain.TaskID, day domain.Day) bool
}

type CustomTaskService interface {
	AddCustomTask(ctx context.Context, in domain.NewCustomTask) (domain.CustomTask, error)
	DeleteCustomTask(ctx context.Context, id domain.TaskID) error
	GetCustomTasks(date *domain.Day) []domain.CustomTask
}

type ExamService interface {
	AddExam(ctx context.Context, in domain.NewExam) (domain.Exam, error)
	UpdateExam(ctx context.Context, id domain.TaskID, patch domain.ExamPatch) (domain.Exam, error)
	CompleteExam(ctx context.Context, id domain.TaskID) (domain.Exam, error)
	DeleteExam(ctx context.Context, id domain.TaskID) error
	GetExams(date *domain.Day) []domain.Exam
}

type TopicNoteService interface {
	AddTopicNote(ctx context.Context, in domain.NewTopicNote) (domain.TopicNote, error)
	UpdateTopicNote(ctx context.Context, id domain.TaskID, content string) (domain.TopicNote, error)
	DeleteTopicNote(ctx context.Context, id domain.TaskID) error
	GetTopicNotes(topicID string) []domain.TopicNote
}

type ProgressQueryService interface {
	DailyTasks(day domain.Day) plan.DailyTasks
	GetWeeklyProgress(weekID string) domain.WeeklyProgress
	GetMonthlyProgress(month domain.Month, year int) domain.MonthlyProgress
	SubjectProgress(subject domain.Subject, today domain.Day) progress.SubjectProgress
	Summary(today domain.Day) progress.Summary
	Snapshot() *domain.UserProgress
}

// ProgressService is everything the presentation layer may call.
type ProgressService interface {
	CompletionService
	CustomTaskService
	ExamService
	TopicNoteService
	ProgressQueryService
	Plan() *plan.Plan
	Today() domain.Day
}

var _ ProgressService = (*ProgressStore)(nil)
