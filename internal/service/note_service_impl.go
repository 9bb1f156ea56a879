package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/persistence"
)

func (s *ProgressStore) AddTopicNote(ctx context.Context, in domain.NewTopicNote) (note domain.TopicNote, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"topic_id": in.TopicID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "AddTopicNote",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if err := in.Validate(); err != nil {
		return domain.TopicNote{}, err
	}
	now := s.now()
	note = domain.TopicNote{
		ID:        s.ids.NewID(domain.KindNote),
		TopicID:   strings.TrimSpace(in.TopicID),
		Subject:   in.Subject,
		Content:   strings.TrimSpace(in.Content),
		CreatedAt: now,
		UpdatedAt: now,
	}
	fields["note_id"] = note.ID.String()

	err = s.mutate(ctx, func(next *domain.UserProgress) ([]persistence.Change, error) {
		next.TopicNotes = append(next.TopicNotes, note)
		return []persistence.Change{{Record: persistence.RecordTopicNote, ID: note.ID}}, nil
	})
	if err != nil {
		return domain.TopicNote{}, err
	}
	return note, nil
}

// UpdateTopicNote replaces the content and bumps UpdatedAt.
func (s *ProgressStore) UpdateTopicNote(ctx context.Context, id domain.TaskID, content string) (updated domain.TopicNote, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"note_id": id.String()}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "UpdateTopicNote",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	content = strings.TrimSpace(content)
	if content == "" {
		return domain.TopicNote{}, domain.NewValidationError("content", "must not be empty")
	}

	err = s.mutate(ctx, func(next *domain.UserProgress) ([]persistence.Change, error) {
		i := next.NoteByID(id)
		if i < 0 {
			return nil, fmt.Errorf("topic note %s: %w", id, ErrNotFound)
		}
		n := next.TopicNotes[i]
		n.Content = content
		n.UpdatedAt = s.now()
		next.TopicNotes[i] = n
		updated = n
		return []persistence.Change{{Record: persistence.RecordTopicNote, ID: id}}, nil
	})
	if err != nil {
		return domain.TopicNote{}, err
	}
	return updated, nil
}

func (s *ProgressStore) DeleteTopicNote(ctx context.Context, id domain.TaskID) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"note_id": id.String()}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "DeleteTopicNote",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	return s.mutate(ctx, func(next *domain.UserProgress) ([]persistence.Change, error) {
		i := next.NoteByID(id)
		if i < 0 {
			return nil, fmt.Errorf("topic note %s: %w", id, ErrNotFound)
		}
		next.TopicNotes = append(next.TopicNotes[:i], next.TopicNotes[i+1:]...)
		return []persistence.Change{{Record: persistence.RecordTopicNote, ID: id, Deleted: true}}, nil
	})
}

// GetTopicNotes lists notes, newest first, for one topic or for all when
// topicID is empty.
func (s *ProgressStore) GetTopicNotes(topicID string) []domain.TopicNote {
	cur := s.current()
	out := make([]domain.TopicNote, 0, len(cur.TopicNotes))
	for _, n := range cur.TopicNotes {
		if topicID == "" || n.TopicID == topicID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}
