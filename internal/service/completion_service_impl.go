package service

import (
	"context"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/persistence"
)

// CompleteTask marks id completed on day. Completing a completed task leaves
// the ledger as is but still persists the day.
func (s *ProgressStore) CompleteTask(ctx context.Context, id domain.TaskID, day domain.Day) error {
	return s.setCompletion(ctx, "CompleteTask", id, day, true)
}

// UncompleteTask clears the completion of id on day. The ledger entry is
// kept with completed=false.
func (s *ProgressStore) UncompleteTask(ctx context.Context, id domain.TaskID, day domain.Day) error {
	return s.setCompletion(ctx, "UncompleteTask", id, day, false)
}

func (s *ProgressStore) setCompletion(ctx context.Context, name string, id domain.TaskID, day domain.Day, completed bool) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"task_id": id.String(),
		"date":    day.String(),
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

	if id.IsZero() {
		return domain.NewValidationError("taskId", "must not be empty")
	}
	if day.IsZero() {
		return domain.NewValidationError("date", "is required")
	}
	id = s.plan.CanonicalTaskID(id)
	fields["task_id"] = id.String()

	return s.mutate(ctx, func(next *domain.UserProgress) ([]persistence.Change, error) {
		d, ok := next.Daily[day]
		if !ok {
			d = domain.DailyProgress{Date: day, Tasks: []domain.TaskCompletion{}}
		}

		entry := domain.TaskCompletion{TaskID: id, Completed: completed}
		if completed {
			at := s.now()
			entry.CompletedAt = &at
		}
		switch i := d.Find(id); {
		case i < 0:
			d.Tasks = append(d.Tasks, entry)
		case d.Tasks[i].Completed != completed:
			d.Tasks[i] = entry
		default:
			fields["unchanged"] = true
		}
		d.RoutineCompleted = s.routineDone(&d)
		next.Daily[day] = d

		changes := []persistence.Change{dailyChange(day)}
		if id.Kind == domain.KindCustom {
			if i := next.CustomTaskByID(id); i >= 0 && next.CustomTasks[i].Date.Equal(day) {
				changes = append(changes, persistence.Change{Record: persistence.RecordCustomTask, ID: id})
			}
		}
		return changes, nil
	})
}

// IsTaskCompleted reads the ledger and never fails on missing data.
// Legacy Türkçe ids resolve to their Vatandaşlık task.
func (s *ProgressStore) IsTaskCompleted(id domain.TaskID, day domain.Day) bool {
	d, ok := s.current().Daily[day]
	if !ok {
		return false
	}
	return s.plan.Completions(d)[s.plan.CanonicalTaskID(id).String()].Completed
}
