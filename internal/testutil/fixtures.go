package testutil

import (
	"github.com/alexanderramin/studyplan/internal/domain"
)

var seq SeqIDs

// Day parses a YYYY-MM-DD fixture date.
func Day(s string) domain.Day {
	return domain.MustParseDay(s)
}

// CustomTask options
type CustomTaskOption func(*domain.CustomTask)

func WithTaskDate(d domain.Day) CustomTaskOption {
	return func(t *domain.CustomTask) { t.Date = d }
}

func WithTaskSubject(s domain.Subject) CustomTaskOption {
	return func(t *domain.CustomTask) { t.Subject = s }
}

func WithTimeSlot(start, end string) CustomTaskOption {
	return func(t *domain.CustomTask) { t.TimeSlot = &domain.TimeSlot{Start: start, End: end} }
}

func WithTaskType(tt domain.TaskType) CustomTaskOption {
	return func(t *domain.CustomTask) { t.Type = tt }
}

func NewTestCustomTask(title string, opts ...CustomTaskOption) domain.CustomTask {
	t := domain.CustomTask{
		ID:        seq.NewID(domain.KindCustom),
		Title:     title,
		Subject:   domain.SubjectMatematik,
		Date:      domain.DayOf(Now),
		Type:      domain.TaskStudy,
		CreatedAt: Now,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Exam options
type ExamOption func(*domain.Exam)

func WithExamType(et domain.ExamType) ExamOption {
	return func(e *domain.Exam) { e.Type = et }
}

func WithExamSubject(s domain.Subject) ExamOption {
	return func(e *domain.Exam) { e.Subject = &s }
}

func WithExamDate(d domain.Day) ExamOption {
	return func(e *domain.Exam) { e.Date = d }
}

// WithTotal sets a scored total and marks the exam completed.
func WithTotal(correct, wrong, empty int, net float64) ExamOption {
	return func(e *domain.Exam) {
		e.Results = domain.ExamResults{
			domain.ResultTotal: {Correct: correct, Wrong: wrong, Empty: empty, Net: net},
		}
		e.Completed = true
	}
}

func NewTestExam(title string, opts ...ExamOption) domain.Exam {
	e := domain.Exam{
		ID:        seq.NewID(domain.KindExam),
		Title:     title,
		Type:      domain.ExamGeneral,
		Date:      domain.DayOf(Now),
		CreatedAt: Now,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func NewTestNote(topicID string, subject domain.Subject, content string) domain.TopicNote {
	return domain.TopicNote{
		ID:        seq.NewID(domain.KindNote),
		TopicID:   topicID,
		Subject:   subject,
		Content:   content,
		CreatedAt: Now,
		UpdatedAt: Now,
	}
}

// Complete appends a completed ledger entry for id on day.
func Complete(up *domain.UserProgress, day domain.Day, id domain.TaskID) {
	d := up.Daily[day]
	d.Date = day
	at := Now
	d.Tasks = append(d.Tasks, domain.TaskCompletion{TaskID: id, Completed: true, CompletedAt: &at})
	up.Daily[day] = d
}
