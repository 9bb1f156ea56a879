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

func (s *ProgressStore) AddCustomTask(ctx context.Context, in domain.NewCustomTask) (task domain.CustomTask, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"subject": string(in.Subject),
		"date":    in.Date.String(),
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "AddCustomTask",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if in.Type == "" {
		in.Type = domain.TaskStudy
	}
	if err := in.Validate(); err != nil {
		return domain.CustomTask{}, err
	}

	task = domain.CustomTask{
		ID:          s.ids.NewID(domain.KindCustom),
		Title:       strings.TrimSpace(in.Title),
		Subject:     in.Subject,
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		Type:        in.Type,
		CreatedAt:   s.now(),
	}
	if in.TimeSlot != nil {
		slot := *in.TimeSlot
		task.TimeSlot = &slot
	}
	fields["task_id"] = task.ID.String()

	err = s.mutate(ctx, func(next *domain.UserProgress) ([]persistence.Change, error) {
		next.CustomTasks = append(next.CustomTasks, task)
		return []persistence.Change{{Record: persistence.RecordCustomTask, ID: task.ID}}, nil
	})
	if err != nil {
		return domain.CustomTask{}, err
	}
	return task.Clone(), nil
}

// DeleteCustomTask removes the task and every ledger entry that refers to
// it, on any date.
func (s *ProgressStore) DeleteCustomTask(ctx context.Context, id domain.TaskID) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": id.String()}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "DeleteCustomTask",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	return s.mutate(ctx, func(next *domain.UserProgress) ([]persistence.Change, error) {
		i := next.CustomTaskByID(id)
		if i < 0 {
			return nil, fmt.Errorf("custom task %s: %w", id, ErrNotFound)
		}
		next.CustomTasks = append(next.CustomTasks[:i], next.CustomTasks[i+1:]...)

		touched := map[domain.Day]bool{}
		for day, d := range next.Daily {
			kept := d.Tasks[:0]
			for _, t := range d.Tasks {
				if t.TaskID.Equal(id) {
					touched[day] = true
					continue
				}
				kept = append(kept, t)
			}
			if touched[day] {
				d.Tasks = kept
				d.RoutineCompleted = s.routineDone(&d)
				next.Daily[day] = d
			}
		}
		fields["orphans_removed"] = len(touched)

		changes := []persistence.Change{{Record: persistence.RecordCustomTask, ID: id, Deleted: true}}
		for _, day := range sortedDays(touched) {
			changes = append(changes, dailyChange(day))
		}
		return changes, nil
	})
}

// GetCustomTasks lists custom tasks ordered by date and creation time,
// restricted to one date when date is non-nil.
func (s *ProgressStore) GetCustomTasks(date *domain.Day) []domain.CustomTask {
	cur := s.current()
	out := make([]domain.CustomTask, 0, len(cur.CustomTasks))
	for _, t := range cur.CustomTasks {
		if onDay(date, t.Date) {
			out = append(out, t.Clone())
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
