package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/persistence"
	"github.com/alexanderramin/studyplan/internal/plan"
	"github.com/alexanderramin/studyplan/internal/progress"
)

func TestFormatToday_NumbersTasksInOrder(t *testing.T) {
	p := plan.Default()
	day := domain.MustParseDay("2026-01-14")
	up := domain.NewUserProgress()
	tasks := p.DeriveDailyTasks(day, up)

	out := stripANSI(FormatToday(tasks, day))
	assert.Contains(t, out, "2026-01-14")
	assert.Contains(t, out, "Bugün")
	assert.Contains(t, out, "RUTIN")
	assert.Contains(t, out, " 1 [ ]")
	assert.Contains(t, out, tasks.Week.ID())
	for _, s := range tasks.StudyTasks {
		assert.Contains(t, out, s.Title)
	}
}

func TestFormatToday_CountsCompleted(t *testing.T) {
	day := domain.MustParseDay("2026-01-14")
	tasks := plan.DailyTasks{
		Date: day,
		RoutineTasks: []plan.RoutineTask{
			{Label: "20 paragraf", Completed: true},
			{Label: "10 problem", RequiresTimer: true, TimerSeconds: 900},
		},
		StudyTasks: []plan.TodayTask{
			{Subject: domain.SubjectTarih, Title: "Kendi notum", Custom: true,
				TimeSlot: &domain.TimeSlot{Start: "09:00", End: "10:00"}},
		},
	}

	out := stripANSI(FormatToday(tasks, day))
	assert.Contains(t, out, "1/3")
	assert.Contains(t, out, "15 dk")
	assert.Contains(t, out, "09:00-10:00")
	assert.Contains(t, out, "özel")
}

func TestFormatWeeklyAndMonthly(t *testing.T) {
	w := stripANSI(FormatWeekly(domain.WeeklyProgress{WeekID: "2026-OCAK-3", CompletedTasks: 3, TotalTasks: 12, Percentage: 25}))
	assert.Contains(t, w, "2026-OCAK-3")
	assert.Contains(t, w, "3/12")
	assert.Contains(t, w, "25%")

	assert.Contains(t, stripANSI(FormatWeekly(domain.WeeklyProgress{})), "görev yok")

	m := stripANSI(FormatMonthly(domain.MonthlyProgress{
		Month: domain.MonthOcak, Year: 2026, TotalQuestions: 100, SolvedQuestions: 30, RemainingQuestions: 70, Percentage: 30,
	}))
	assert.Contains(t, m, "OCAK 2026")
	assert.Contains(t, m, "30 çözüldü, 70 kaldı")
}

func TestFormatExamList(t *testing.T) {
	subject := domain.SubjectMatematik
	today := domain.MustParseDay("2026-03-01")
	exams := []domain.Exam{
		{
			ID: domain.ParseTaskID("exam-1"), Title: "Genel 1", Type: domain.ExamGeneral, Date: today, Completed: true,
			Results: domain.ExamResults{domain.ResultTotal: {Correct: 8, Wrong: 3, Net: 7.25}},
		},
		{ID: domain.ParseTaskID("exam-2"), Title: "Mat", Type: domain.ExamBranch, Subject: &subject, Date: today.AddDays(2)},
	}

	out := stripANSI(FormatExamList(exams, today))
	assert.Contains(t, out, "Genel 1")
	assert.Contains(t, out, "7.25")
	assert.Contains(t, out, "tamamlandı")
	assert.Contains(t, out, "planlandı")
	assert.Contains(t, out, "Branş MATEMATİK")
	assert.Contains(t, out, "2 gün sonra")

	assert.Contains(t, stripANSI(FormatExamList(nil, today)), "Kayıtlı deneme yok")
}

func TestFormatExamDetail_ListsResultRows(t *testing.T) {
	e := domain.Exam{
		Title: "Genel 1", Type: domain.ExamGeneral, Date: domain.MustParseDay("2026-03-01"),
		Results: domain.ExamResults{
			domain.ResultTarih: {Correct: 20, Wrong: 4, Net: 19},
			domain.ResultTotal: {Correct: 20, Wrong: 4, Net: 19},
		},
	}
	out := stripANSI(FormatExamDetail(e))
	assert.Contains(t, out, "TARİH")
	assert.Contains(t, out, "TOPLAM")
	assert.Contains(t, out, "19")
}

func TestFormatExamStats(t *testing.T) {
	out := stripANSI(FormatExamStats(progress.ExamStats{Count: 3, Completed: 2, Scored: 2, AverageNet: 50.5, BestNet: 60, LastNet: 41}))
	assert.Contains(t, out, "3 deneme, 2 tamamlandı")
	assert.Contains(t, out, "50.5")
	assert.Contains(t, out, "60")

	assert.NotContains(t, stripANSI(FormatExamStats(progress.ExamStats{Count: 1})), "ortalama")
}

func TestFormatNotes(t *testing.T) {
	notes := []domain.TopicNote{{
		ID: domain.ParseTaskID("note-1"), TopicID: "osmanli-2026-OCAK-1", Subject: domain.SubjectTarih,
		Content: "ilk satır\nikinci satır", UpdatedAt: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}}
	out := stripANSI(FormatNotes(notes))
	assert.Contains(t, out, "osmanli-2026-OCAK-1")
	assert.Contains(t, out, "  ikinci satır")
	assert.Contains(t, stripANSI(FormatNotes(nil)), "Not yok")
}

func TestFormatWeekPlanAndTopics(t *testing.T) {
	p := plan.Default()
	day := domain.MustParseDay("2026-01-14")
	ref := p.WeekFor(day)

	out := stripANSI(FormatWeekPlan(ref))
	assert.Contains(t, out, ref.ID())
	assert.Contains(t, out, "paragraf")
	assert.Contains(t, stripANSI(FormatWeekPlan(plan.WeekRef{})), "bulunamadı")

	topics := p.SubjectTopics(domain.SubjectTarih)
	if assert.NotEmpty(t, topics) {
		done := map[string]bool{topics[0].ID: true}
		list := stripANSI(FormatTopics(domain.SubjectTarih, topics, done, day))
		assert.Contains(t, list, topics[0].Name)
		assert.Contains(t, list, "[✔]")
	}
}

func TestFormatSyncStatus(t *testing.T) {
	local := stripANSI(FormatSyncStatus(persistence.SyncStatus{Mode: persistence.ModeLocal}))
	assert.Contains(t, local, "local")
	assert.NotContains(t, local, "bekleyen")

	remote := stripANSI(FormatSyncStatus(persistence.SyncStatus{Mode: persistence.ModeRemote, Pending: 2, Dropped: 1, LastSync: "2026-01-02 10:00"}))
	assert.Contains(t, remote, "bekleyen: 2")
	assert.Contains(t, remote, "düşen: 1")
	assert.Contains(t, remote, "2026-01-02 10:00")

	assert.Contains(t, stripANSI(FormatPushStats(persistence.PushStats{Daily: 2, Exams: 1})), "3 kayıt")
}

func TestRoutineLabel(t *testing.T) {
	assert.Equal(t, "20 paragraf", RoutineLabel(plan.RoutineTask{Kind: domain.RoutineParagraph, Count: 20}))
	assert.Equal(t, "Karma", RoutineLabel(plan.RoutineTask{Kind: domain.RoutineKarma, Count: 10, Label: "Karma"}))
}
