package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/progress"
)

const progressBarWidth = 24

// FormatWeekly renders task completion of one plan week.
func FormatWeekly(w domain.WeeklyProgress) string {
	if w.TotalTasks == 0 {
		return Dim(fmt.Sprintf("%s: planlanmış görev yok", orDash(w.WeekID))) + "\n"
	}
	return fmt.Sprintf("%s\n%s  %s\n",
		Bold("Hafta "+w.WeekID),
		RenderPercent(w.Percentage, progressBarWidth),
		Dim(fmt.Sprintf("%d/%d görev", w.CompletedTasks, w.TotalTasks)))
}

// FormatMonthly renders question counts of one plan month.
func FormatMonthly(m domain.MonthlyProgress) string {
	title := fmt.Sprintf("%s %d", m.Month, m.Year)
	if m.TotalQuestions == 0 {
		return Dim(title+": planlanmış soru yok") + "\n"
	}
	return fmt.Sprintf("%s\n%s  %s\n",
		Bold(title),
		RenderPercent(m.Percentage, progressBarWidth),
		Dim(fmt.Sprintf("%d çözüldü, %d kaldı (toplam %d)", m.SolvedQuestions, m.RemainingQuestions, m.TotalQuestions)))
}

// FormatSubjects renders topic completion per subject.
func FormatSubjects(subjects []progress.SubjectProgress) string {
	headers := []string{"DERS", "İLERLEME", "KONU", "ŞU AN"}
	rows := make([][]string, 0, len(subjects))
	for _, s := range subjects {
		current := Dim("--")
		if s.CurrentTopic != nil {
			current = Truncate(s.CurrentTopic.Name, 32)
		}
		rows = append(rows, []string{
			SubjectBadge(s.Subject),
			RenderPercent(s.Percentage, 12),
			fmt.Sprintf("%d/%d", s.Completed, s.Total),
			current,
		})
	}
	return RenderTable(headers, rows)
}

// FormatSummary renders the overview screen.
func FormatSummary(s progress.Summary) string {
	var b strings.Builder
	b.WriteString(FormatWeekly(s.Week))
	b.WriteString("\n")
	b.WriteString(FormatMonthly(s.Month))
	b.WriteString("\n")
	b.WriteString(FormatSubjects(s.Subjects))
	if s.Exams.Count > 0 {
		b.WriteString("\n")
		b.WriteString(FormatExamStats(s.Exams))
	}
	return RenderBox("İlerleme "+s.Today.String(), strings.TrimRight(b.String(), "\n"))
}

func orDash(s string) string {
	if s == "" {
		return "--"
	}
	return s
}
