package restclient

import (
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
)

type dailyRow struct {
	UserID           string                  `json:"user_id"`
	Date             domain.Day              `json:"date"`
	Tasks            []domain.TaskCompletion `json:"tasks"`
	RoutineCompleted bool                    `json:"routine_completed"`
	UpdatedAt        *time.Time              `json:"updated_at,omitempty"`
}

type customTaskRow struct {
	UserID        string          `json:"user_id"`
	ID            domain.TaskID   `json:"id"`
	Title         string          `json:"title"`
	Subject       domain.Subject  `json:"subject"`
	Description   *string         `json:"description"`
	Date          domain.Day      `json:"date"`
	TimeSlotStart *string         `json:"time_slot_start"`
	TimeSlotEnd   *string         `json:"time_slot_end"`
	Type          domain.TaskType `json:"type"`
	Completed     bool            `json:"completed"`
	CreatedAt     time.Time       `json:"created_at"`
}

type examRow struct {
	UserID    string             `json:"user_id"`
	ID        domain.TaskID      `json:"id"`
	Title     string             `json:"title"`
	Type      domain.ExamType    `json:"type"`
	Subject   *domain.Subject    `json:"subject"`
	Date      domain.Day         `json:"date"`
	Completed bool               `json:"completed"`
	Results   domain.ExamResults `json:"results"`
	CreatedAt time.Time          `json:"created_at"`
}

type topicNoteRow struct {
	UserID    string         `json:"user_id"`
	ID        domain.TaskID  `json:"id"`
	TopicID   string         `json:"topic_id"`
	Subject   domain.Subject `json:"subject"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toDailyRow(userID string, d domain.DailyProgress, now time.Time) dailyRow {
	tasks := d.Tasks
	if tasks == nil {
		tasks = []domain.TaskCompletion{}
	}
	return dailyRow{UserID: userID, Date: d.Date, Tasks: tasks, RoutineCompleted: d.RoutineCompleted, UpdatedAt: &now}
}

func (r dailyRow) toDomain() domain.DailyProgress {
	return domain.DailyProgress{Date: r.Date, Tasks: r.Tasks, RoutineCompleted: r.RoutineCompleted}
}

func toCustomTaskRow(userID string, t domain.CustomTask) customTaskRow {
	row := customTaskRow{
		UserID:    userID,
		ID:        t.ID,
		Title:     t.Title,
		Subject:   t.Subject,
		Date:      t.Date,
		Type:      t.Type,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
	}
	if t.Description != "" {
		desc := t.Description
		row.Description = &desc
	}
	if t.TimeSlot != nil {
		start, end := t.TimeSlot.Start, t.TimeSlot.End
		row.TimeSlotStart, row.TimeSlotEnd = &start, &end
	}
	return row
}

func (r customTaskRow) toDomain() domain.CustomTask {
	t := domain.CustomTask{
		ID:        r.ID,
		Title:     r.Title,
		Subject:   r.Subject,
		Date:      r.Date,
		Type:      r.Type,
		Completed: r.Completed,
		CreatedAt: r.CreatedAt,
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.TimeSlotStart != nil && r.TimeSlotEnd != nil {
		t.TimeSlot = &domain.TimeSlot{Start: *r.TimeSlotStart, End: *r.TimeSlotEnd}
	}
	return t
}

func toExamRow(userID string, e domain.Exam) examRow {
	e = e.Clone()
	return examRow{
		UserID:    userID,
		ID:        e.ID,
		Title:     e.Title,
		Type:      e.Type,
		Subject:   e.Subject,
		Date:      e.Date,
		Completed: e.Completed,
		Results:   e.Results,
		CreatedAt: e.CreatedAt,
	}
}

func (r examRow) toDomain() domain.Exam {
	return domain.Exam{
		ID:        r.ID,
		Title:     r.Title,
		Type:      r.Type,
		Subject:   r.Subject,
		Date:      r.Date,
		CreatedAt: r.CreatedAt,
		Completed: r.Completed,
		Results:   r.Results,
	}
}

func toTopicNoteRow(userID string, n domain.TopicNote) topicNoteRow {
	return topicNoteRow{
		UserID:    userID,
		ID:        n.ID,
		TopicID:   n.TopicID,
		Subject:   n.Subject,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (r topicNoteRow) toDomain() domain.TopicNote {
	return domain.TopicNote{
		ID:        r.ID,
		TopicID:   r.TopicID,
		Subject:   r.Subject,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
