package service

import (
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/plan"
	"github.com/alexanderramin/studyplan/internal/progress"
)

// DailyTasks derives the day's plan and custom tasks with completion from
// the ledger.
func (s *ProgressStore) DailyTasks(day domain.Day) plan.DailyTasks {
	return s.plan.DeriveDailyTasks(day, s.current())
}

// GetWeeklyProgress recomputes the week's completion. Unknown weeks give a
// zeroed value.
func (s *ProgressStore) GetWeeklyProgress(weekID string) domain.WeeklyProgress {
	return progress.Weekly(s.plan, weekID, s.current())
}

func (s *ProgressStore) GetMonthlyProgress(month domain.Month, year int) domain.MonthlyProgress {
	return progress.Monthly(s.plan, month, year, s.current())
}

func (s *ProgressStore) SubjectProgress(subject domain.Subject, today domain.Day) progress.SubjectProgress {
	return progress.Subject(s.plan, subject, s.current(), today)
}

func (s *ProgressStore) Summary(today domain.Day) progress.Summary {
	return progress.Overview(s.plan, s.current(), today)
}
