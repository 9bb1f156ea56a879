package progress

import (
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/plan"
)

// Weekly computes completion for one plan week. Each day of the week
// contributes its derived routine and study tasks plus that day's custom
// tasks; only ledger entries for those ids count as completed. An unknown
// week id yields a zeroed result.
func Weekly(p *plan.Plan, weekID string, up *domain.UserProgress) domain.WeeklyProgress {
	out := domain.WeeklyProgress{WeekID: weekID}
	ref, ok := p.WeekByID(weekID)
	if !ok {
		return out
	}
	ref.Week.DateRange.Each(func(d domain.Day) {
		tasks := p.DeriveDailyTasks(d, up)
		for _, r := range tasks.RoutineTasks {
			out.TotalTasks++
			if r.Completed {
				out.CompletedTasks++
			}
		}
		for _, s := range tasks.StudyTasks {
			out.TotalTasks++
			if s.Completed {
				out.CompletedTasks++
			}
		}
	})
	out.Percentage = percentage(out.CompletedTasks, out.TotalTasks)
	return out
}

// WeeklyForDay computes Weekly for the week containing d, falling back to the
// plan's first week.
func WeeklyForDay(p *plan.Plan, d domain.Day, up *domain.UserProgress) domain.WeeklyProgress {
	return Weekly(p, p.WeekFor(d).ID(), up)
}
