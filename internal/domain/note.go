package domain

import (
	"strings"
	"time"
)

// TopicNote is free text attached to a plan topic.
type TopicNote struct {
	ID        TaskID    `json:"id"`
	TopicID   string    `json:"topicId"`
	Subject   Subject   `json:"subject"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NewTopicNote struct {
	TopicID string
	Subject Subject
	Content string
}

func (n NewTopicNote) Validate() error {
	if strings.TrimSpace(n.TopicID) == "" {
		return NewValidationError("topicId", "must not be empty")
	}
	if !n.Subject.Valid() {
		return NewValidationError("subject", "unknown subject")
	}
	if strings.TrimSpace(n.Content) == "" {
		return NewValidationError("content", "must not be empty")
	}
	return nil
}
