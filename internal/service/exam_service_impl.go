package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/persistence"
	"github.com/alexanderramin/studyplan/internal/progress"
)

// AddExam records an exam. Supplying results marks it completed.
func (s *ProgressStore) AddExam(ctx context.Context, in domain.NewExam) (exam domain.Exam, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"type": string(in.Type),
		"date": in.Date.String(),
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "AddExam",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if err := in.Validate(); err != nil {
		return domain.Exam{}, err
	}
	results, err := progress.NormalizeResults(in.Results)
	if err != nil {
		return domain.Exam{}, err
	}

	exam = domain.Exam{
		ID:        s.ids.NewID(domain.KindExam),
		Title:     strings.TrimSpace(in.Title),
		Type:      in.Type,
		Date:      in.Date,
		CreatedAt: s.now(),
		Completed: len(results) > 0,
		Results:   results,
	}
	if in.Subject != nil {
		sub := *in.Subject
		exam.Subject = &sub
	}
	fields["exam_id"] = exam.ID.String()

	err = s.mutate(ctx, func(next *domain.UserProgress) ([]persistence.Change, error) {
		next.Exams = append(next.Exams, exam)
		return []persistence.Change{{Record: persistence.RecordExam, ID: exam.ID}}, nil
	})
	if err != nil {
		return domain.Exam{}, err
	}
	return exam.Clone(), nil
}

// UpdateExam merges patch into the exam; fields absent from the patch are
// preserved. Result entries are merged key by key.
func (s *ProgressStore) UpdateExam(ctx context.Context, id domain.TaskID, patch domain.ExamPatch) (domain.Exam, error) {
	return s.updateExam(ctx, "UpdateExam", id, patch)
}

// CompleteExam sets the completion flag.
func (s *ProgressStore) CompleteExam(ctx context.Context, id domain.TaskID) (domain.Exam, error) {
	done := true
	return s.updateExam(ctx, "CompleteExam", id, domain.ExamPatch{Completed: &done})
}

func (s *ProgressStore) updateExam(ctx context.Context, name string, id domain.TaskID, patch domain.ExamPatch) (updated domain.Exam, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"exam_id":     id.String(),
		"has_results": len(patch.Results) > 0,
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	err = s.mutate(ctx, func(next *domain.UserProgress) ([]persistence.Change, error) {
		i := next.ExamByID(id)
		if i < 0 {
			return nil, fmt.Errorf("exam %s: %w", id, ErrNotFound)
		}
		e := next.Exams[i]
		if len(patch.Results) > 0 {
			merged, err := progress.MergeResults(e.Results, patch.Results)
			if err != nil {
				return nil, err
			}
			e.Results = merged
		}
		if patch.Completed != nil {
			e.Completed = *patch.Completed
		}
		next.Exams[i] = e
		updated = e.Clone()
		return []persistence.Change{{Record: persistence.RecordExam, ID: id}}, nil
	})
	if err != nil {
		return domain.Exam{}, err
	}
	return updated, nil
}

func (s *ProgressStore) DeleteExam(ctx context.Context, id domain.TaskID) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"exam_id": id.String()}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "DeleteExam",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	return s.mutate(ctx, func(next *domain.UserProgress) ([]persistence.Change, error) {
		i := next.ExamByID(id)
		if i < 0 {
			return nil, fmt.Errorf("exam %s: %w", id, ErrNotFound)
		}
		next.Exams = append(next.Exams[:i], next.Exams[i+1:]...)
		return []persistence.Change{{Record: persistence.RecordExam, ID: id, Deleted: true}}, nil
	})
}

// GetExams lists exams by date, restricted to one date when date is non-nil.
func (s *ProgressStore) GetExams(date *domain.Day) []domain.Exam {
	cur := s.current()
	out := make([]domain.Exam, 0, len(cur.Exams))
	for _, e := range cur.Exams {
		if onDay(date, e.Date) {
			out = append(out, e.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
