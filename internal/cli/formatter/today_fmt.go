package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/plan"
)

// FormatToday renders the routine and study tasks of a day. Tasks are
// numbered in AllIDs order so the numbers can be passed to done/undo.
func FormatToday(tasks plan.DailyTasks, today domain.Day) string {
	var b strings.Builder

	heading := fmt.Sprintf("%s  %s", tasks.Date, Dim(RelativeDay(tasks.Date, today)))
	if id := tasks.Week.ID(); id != "" {
		heading += "  " + Dim(id)
	}
	b.WriteString(Bold(heading) + "\n")
	if tasks.Week.Week != nil && tasks.Week.Week.WeeklyGoal != "" {
		b.WriteString(Dim("Hedef: "+tasks.Week.Week.WeeklyGoal) + "\n")
	}
	b.WriteString("\n")

	n := 1
	done := 0
	if len(tasks.RoutineTasks) > 0 {
		b.WriteString(Header("Rutin") + "\n")
		for _, r := range tasks.RoutineTasks {
			line := fmt.Sprintf("%2d %s %s", n, CheckMark(r.Completed), RoutineLabel(r))
			if r.RequiresTimer {
				line += "  " + Dim("⏱ "+FormatSeconds(r.TimerSeconds))
			}
			b.WriteString(line + "\n")
			if r.Completed {
				done++
			}
			n++
		}
		b.WriteString("\n")
	}

	b.WriteString(Header("Çalışma") + "\n")
	if len(tasks.StudyTasks) == 0 {
		b.WriteString(Dim("Bugün için konu yok.") + "\n")
	}
	for _, s := range tasks.StudyTasks {
		b.WriteString(fmt.Sprintf("%2d %s %s\n", n, CheckMark(s.Completed), todayTaskLine(s)))
		if s.Completed {
			done++
		}
		n++
	}

	total := len(tasks.RoutineTasks) + len(tasks.StudyTasks)
	if total > 0 {
		b.WriteString("\n")
		b.WriteString(RenderCount(done, total, 20) + "\n")
	}
	return RenderBox("Bugün", strings.TrimRight(b.String(), "\n"))
}

func todayTaskLine(s plan.TodayTask) string {
	parts := []string{SubjectBadge(s.Subject), s.Title}
	if s.TimeSlot != nil {
		parts = append(parts, Dim(s.TimeSlot.Start+"-"+s.TimeSlot.End))
	}
	if s.RequiresTimer {
		parts = append(parts, Dim("⏱ "+FormatSeconds(s.TimerSeconds)))
	}
	if s.Custom {
		parts = append(parts, StyleBlue.Render("özel"))
	}
	return strings.Join(parts, " ")
}

var routineNouns = map[domain.RoutineKind]string{
	domain.RoutineParagraph: "paragraf",
	domain.RoutineProblem:   "problem",
	domain.RoutineSpeed:     "hız sorusu",
	domain.RoutineKarma:     "karma soru",
}

// RoutineLabel is the plan label of a routine task, or "<count> <noun>".
func RoutineLabel(r plan.RoutineTask) string {
	if r.Label != "" {
		return r.Label
	}
	return fmt.Sprintf("%d %s", r.Count, routineNouns[r.Kind])
}
