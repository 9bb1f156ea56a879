package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/plan"
)

// FormatWeekPlan renders one plan week: quotas, topics and goal.
func FormatWeekPlan(ref plan.WeekRef) string {
	if ref.Week == nil {
		return Dim("Plan haftası bulunamadı.") + "\n"
	}
	w := ref.Week
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", Bold(ref.ID()), Dim(fmt.Sprintf("%s → %s", w.DateRange.Start, w.DateRange.End))))
	b.WriteString(Dim(fmt.Sprintf("günlük: %d paragraf · %d problem · %d hız",
		w.DailyRoutine.Paragraphs, w.DailyRoutine.Problems, w.DailyRoutine.SpeedQuestions)) + "\n\n")

	var rows [][]string
	for _, s := range domain.Subjects {
		topic := w.Subjects.Topic(s)
		if topic == "" {
			topic = Dim("--")
		}
		rows = append(rows, []string{SubjectBadge(s), topic})
	}
	b.WriteString(RenderTable([]string{"DERS", "KONU"}, rows))
	if w.WeeklyGoal != "" {
		b.WriteString("\n" + Dim("Hedef: ") + w.WeeklyGoal + "\n")
	}
	return b.String()
}

// FormatTopics renders the topic list of a subject, marking done and
// current topics.
func FormatTopics(subject domain.Subject, topics []plan.Topic, done map[string]bool, today domain.Day) string {
	if len(topics) == 0 {
		return Dim(fmt.Sprintf("%s için konu yok.", subject)) + "\n"
	}
	headers := []string{"", "HAFTA", "KONU", "ID"}
	rows := make([][]string, 0, len(topics))
	for _, t := range topics {
		name := t.Name
		if t.DateRange.Contains(today) {
			name = StyleHeader.Render("▶ " + name)
		}
		rows = append(rows, []string{
			CheckMark(done[t.ID]),
			fmt.Sprintf("%s %d", t.Month, t.WeekNumber),
			name,
			Dim(t.ID),
		})
	}
	return SubjectBadge(subject) + "\n" + RenderTable(headers, rows)
}
