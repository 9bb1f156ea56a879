package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimeSlot is a display window in HH:mm form.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Validate checks both bounds parse as HH:mm and start is not after end.
func (s TimeSlot) Validate() error {
	start, err := time.Parse("15:04", s.Start)
	if err != nil {
		return NewValidationError("timeSlot.start", fmt.Sprintf("%q is not HH:mm", s.Start))
	}
	end, err := time.Parse("15:04", s.End)
	if err != nil {
		return NewValidationError("timeSlot.end", fmt.Sprintf("%q is not HH:mm", s.End))
	}
	if end.Before(start) {
		return NewValidationError("timeSlot", "end is before start")
	}
	return nil
}

// CustomTask is a user-authored task pinned to a date.
type CustomTask struct {
	ID          TaskID    `json:"id"`
	Title       string    `json:"title"`
	Subject     Subject   `json:"subject"`
	Description string    `json:"description,omitempty"`
	Date        Day       `json:"date"`
	TimeSlot    *TimeSlot `json:"timeSlot,omitempty"`
	Type        TaskType  `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	// Completed mirrors the completion ledger for Date. It is refreshed on
	// every read and never consulted when deciding completion.
	Completed bool `json:"completed"`
}

func (t CustomTask) Clone() CustomTask {
	out := t
	if t.TimeSlot != nil {
		slot := *t.TimeSlot
		out.TimeSlot = &slot
	}
	return out
}

// NewCustomTask is the caller-supplied part of a custom task.
type NewCustomTask struct {
	Title       string
	Subject     Subject
	Description string
	Date        Day
	TimeSlot    *TimeSlot
	Type        TaskType
}

// Validate rejects input that would create a partially valid record.
func (n NewCustomTask) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return NewValidationError("title", "must not be empty")
	}
	if !n.Subject.Valid() {
		return NewValidationError("subject", fmt.Sprintf("unknown subject %q", n.Subject))
	}
	if n.Date.IsZero() {
		return NewValidationError("date", "is required")
	}
	if !ValidTaskTypes[n.Type] {
		return NewValidationError("type", fmt.Sprintf("unknown task type %q", n.Type))
	}
	if n.TimeSlot != nil {
		if err := n.TimeSlot.Validate(); err != nil {
			return err
		}
	}
	return nil
}
