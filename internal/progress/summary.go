package progress

import (
	"sort"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/plan"
)

// Summary bundles the aggregates shown on the overview screen.
type Summary struct {
	Today    domain.Day
	Week     domain.WeeklyProgress
	Month    domain.MonthlyProgress
	Subjects []SubjectProgress
	Exams    ExamStats
}

// Overview computes every aggregate for today in one pass over the snapshot.
func Overview(p *plan.Plan, up *domain.UserProgress, today domain.Day) Summary {
	var exams []domain.Exam
	if up != nil {
		exams = up.Exams
	}
	return Summary{
		Today:    today,
		Week:     WeeklyForDay(p, today, up),
		Month:    MonthlyForDay(p, today, up),
		Subjects: AllSubjects(p, up, today),
		Exams:    Exams(exams),
	}
}

// ExamStats summarizes scored exams.
type ExamStats struct {
	Count      int
	Completed  int
	Scored     int
	AverageNet float64
	BestNet    float64
	LastNet    float64
}

// Exams computes statistics over the total net of every exam with results.
// LastNet is taken from the most recent exam date.
func Exams(exams []domain.Exam) ExamStats {
	out := ExamStats{Count: len(exams)}

	scored := make([]domain.Exam, 0, len(exams))
	for _, e := range exams {
		if e.Completed {
			out.Completed++
		}
		if _, ok := e.Results.Total(); ok {
			scored = append(scored, e)
		}
	}
	if len(scored) == 0 {
		return out
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Date.Before(scored[j].Date)
	})

	var sum float64
	for _, e := range scored {
		total, _ := e.Results.Total()
		sum += total.Net
		if total.Net > out.BestNet {
			out.BestNet = total.Net
		}
	}
	last, _ := scored[len(scored)-1].Results.Total()
	out.Scored = len(scored)
	out.AverageNet = sum / float64(len(scored))
	out.LastNet = last.Net
	return out
}
