package progress

import (
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/plan"
)

// Monthly computes question totals for one plan month.
//
// Total: for each week of the month, the daily routine quotas times the
// inclusive number of days, plus the fixed question bank of every populated
// subject slot.
//
// Solved: every completed ledger entry whose task date falls in a week of
// the month adds that task's question count (its routine quota, its subject's
// question bank, or 1 for a custom task). A subject's bank is weekly, so it
// is credited at most once per week and only when the week schedules that
// subject. Legacy Türkçe ids count as their Vatandaşlık task. Entries dated outside the plan are
// matched again with the plan's year substituted, so data recorded against a
// different calendar year still lands in the right week.
func Monthly(p *plan.Plan, month domain.Month, year int, up *domain.UserProgress) domain.MonthlyProgress {
	out := domain.MonthlyProgress{Month: month, Year: year}
	mp, ok := p.MonthPlan(month, year)
	if !ok {
		return out
	}

	for wi := range mp.Weeks {
		ref := plan.WeekRef{Month: mp.Month, Year: mp.Year, Week: &mp.Weeks[wi]}
		days := ref.Week.DateRange.Days()
		for _, q := range p.RoutineQuotas(ref) {
			out.TotalQuestions += q.Count * days
		}
		for _, sub := range domain.Subjects {
			if ref.Week.Subjects.Topic(sub) != "" {
				out.TotalQuestions += p.Schedule.QuestionBank(sub)
			}
		}
	}

	if up != nil {
		banked := map[string]bool{}
		for key, daily := range up.Daily {
			for _, tc := range p.Completions(daily) {
				if !tc.Completed {
					continue
				}
				out.SolvedQuestions += solvedFor(p, tc.TaskID, key, month, year, banked)
			}
		}
	}

	out.RemainingQuestions = max(0, out.TotalQuestions-out.SolvedQuestions)
	out.Percentage = percentage(out.SolvedQuestions, out.TotalQuestions)
	return out
}

// solvedFor returns the question count a completed task contributes to
// (month, year), or 0 when it belongs elsewhere.
func solvedFor(p *plan.Plan, id domain.TaskID, ledgerDay domain.Day, month domain.Month, year int, banked map[string]bool) int {
	var taskDay domain.Day
	switch id.Kind {
	case domain.KindRoutine, domain.KindTask:
		taskDay = id.Date
	case domain.KindCustom:
		taskDay = ledgerDay
	default:
		return 0
	}

	ref, ok := locateWeek(p, taskDay)
	if !ok || ref.Month != month || ref.Year != year {
		return 0
	}

	switch id.Kind {
	case domain.KindRoutine:
		kind, _ := id.Routine()
		for _, q := range p.RoutineQuotas(ref) {
			if q.Kind == kind {
				return q.Count
			}
		}
		return 0
	case domain.KindTask:
		sub, ok := id.Subject()
		if !ok || ref.Week.Subjects.Topic(sub) == "" {
			return 0
		}
		key := ref.ID() + "/" + sub.Slug()
		if banked[key] {
			return 0
		}
		banked[key] = true
		return p.Schedule.QuestionBank(sub)
	default:
		return 1
	}
}

func locateWeek(p *plan.Plan, d domain.Day) (plan.WeekRef, bool) {
	if ref, ok := p.Lookup(d); ok {
		return ref, true
	}
	if d.Year() == p.StartDate.Year() {
		return plan.WeekRef{}, false
	}
	return p.Lookup(d.WithYear(p.StartDate.Year()))
}

// MonthlyForDay computes Monthly for the plan month containing d.
func MonthlyForDay(p *plan.Plan, d domain.Day, up *domain.UserProgress) domain.MonthlyProgress {
	ref := p.WeekFor(d)
	return Monthly(p, ref.Month, ref.Year, up)
}
