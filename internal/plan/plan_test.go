package plan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) domain.Day { return domain.MustParseDay(s) }

func TestDefault_ParsesAndValidates(t *testing.T) {
	p := Default()
	require.NotNil(t, p)

	assert.True(t, p.StartDate.Equal(day("2026-01-13")))
	assert.True(t, p.EndDate.Equal(day("2026-07-31")))
	assert.Len(t, p.Months, 7)
	assert.Empty(t, ValidateStructure(p))
}

func TestDefault_EveryDateInRangeBelongsToOneWeek(t *testing.T) {
	p := Default()
	r := domain.DateRange{Start: p.StartDate, End: p.EndDate}
	r.Each(func(d domain.Day) {
		matches := 0
		for _, m := range p.Months {
			for _, w := range m.Weeks {
				if w.DateRange.Contains(d) {
					matches++
				}
			}
		}
		assert.Equal(t, 1, matches, "date %s", d)
	})
}

func TestDeriveDailyTasks_Scenario(t *testing.T) {
	p := Default()
	d := day("2026-01-14")

	tasks := p.DeriveDailyTasks(d, nil)

	require.NotEmpty(t, tasks.RoutineTasks)
	para := tasks.RoutineTasks[0]
	assert.Equal(t, "routine-paragraph-2026-01-14", para.ID.String())
	assert.Equal(t, 20, para.Count)

	var mat *TodayTask
	for i := range tasks.StudyTasks {
		if tasks.StudyTasks[i].ID.String() == "task-matematik-2026-01-14" {
			mat = &tasks.StudyTasks[i]
		}
	}
	require.NotNil(t, mat)
	assert.Equal(t, "Rasyonel Sayılar & Ondalık", mat.Title)
	assert.Equal(t, domain.SubjectMatematik, mat.Subject)
	assert.Equal(t, &domain.TimeSlot{Start: "19:00", End: "20:00"}, mat.TimeSlot)
	assert.Equal(t, "2026-OCAK-3", tasks.Week.ID())
}

func TestDeriveDailyTasks_RoutineTimers(t *testing.T) {
	p := Default()

	jan := p.DeriveDailyTasks(day("2026-01-14"), nil)
	require.Len(t, jan.RoutineTasks, 3)
	assert.Equal(t, domain.RoutineSpeed, jan.RoutineTasks[2].Kind)
	assert.True(t, jan.RoutineTasks[2].RequiresTimer)
	assert.Equal(t, 15*60, jan.RoutineTasks[2].TimerSeconds)
	assert.False(t, jan.RoutineTasks[1].RequiresTimer, "problems are untimed in OCAK")

	mar := p.DeriveDailyTasks(day("2026-03-05"), nil)
	require.Len(t, mar.RoutineTasks, 2)
	assert.Equal(t, domain.RoutineProblem, mar.RoutineTasks[1].Kind)
	assert.True(t, mar.RoutineTasks[1].RequiresTimer)
	assert.Equal(t, 20*90, mar.RoutineTasks[1].TimerSeconds)
}

func TestDeriveDailyTasks_KarmaAfterCutoff(t *testing.T) {
	p := Default()

	may := p.DeriveDailyTasks(day("2026-05-07"), nil)
	require.Len(t, may.RoutineTasks, 2)
	karma := may.RoutineTasks[1]
	assert.Equal(t, domain.RoutineKarma, karma.Kind)
	assert.Equal(t, "routine-karma-2026-05-07", karma.ID.String())
	assert.Equal(t, 10, karma.Count)
	assert.Equal(t, "Karma Mat Testi", karma.Label)
	assert.Equal(t, 900, karma.TimerSeconds)

	feb := p.DeriveDailyTasks(day("2026-02-06"), nil)
	for _, r := range feb.RoutineTasks {
		assert.NotEqual(t, domain.RoutineKarma, r.Kind)
	}
}

func TestDeriveDailyTasks_SpeedWeekMakesStudyTasksTimed(t *testing.T) {
	p := Default()

	tasks := p.DeriveDailyTasks(day("2026-01-14"), nil)
	for _, s := range tasks.StudyTasks {
		assert.Equal(t, domain.TaskSpeed, s.Type, s.ID.String())
	}
	turkce := tasks.StudyTasks[3]
	assert.Equal(t, domain.SubjectTurkce, turkce.Subject)
	assert.Equal(t, "15 soru - Süreli çözüm", turkce.Description)
	assert.Equal(t, 900, turkce.TimerSeconds)

	mar := p.DeriveDailyTasks(day("2026-03-05"), nil)
	for _, s := range mar.StudyTasks {
		assert.Equal(t, domain.TaskStudy, s.Type)
	}
	assert.Equal(t, "Paragraf çalışması", mar.StudyTasks[3].Description)
}

func TestDeriveDailyTasks_FallsBackToFirstWeek(t *testing.T) {
	p := Default()

	before := p.DeriveDailyTasks(day("2025-12-01"), nil)
	first := p.DeriveDailyTasks(p.Months[0].Weeks[0].DateRange.Start, nil)

	assert.Equal(t, first.Week.ID(), before.Week.ID())
	require.Len(t, before.RoutineTasks, len(first.RoutineTasks))
	require.Len(t, before.StudyTasks, len(first.StudyTasks))
	for i := range first.RoutineTasks {
		assert.Equal(t, first.RoutineTasks[i].Kind, before.RoutineTasks[i].Kind)
		assert.Equal(t, first.RoutineTasks[i].Count, before.RoutineTasks[i].Count)
	}
	for i := range first.StudyTasks {
		assert.Equal(t, first.StudyTasks[i].Title, before.StudyTasks[i].Title)
		assert.Equal(t, first.StudyTasks[i].Subject, before.StudyTasks[i].Subject)
	}

	after := p.DeriveDailyTasks(day("2027-03-01"), nil)
	assert.Equal(t, first.Week.ID(), after.Week.ID())
}

func TestDeriveDailyTasks_CitizenshipSlot(t *testing.T) {
	p := Default()

	tasks := p.DeriveDailyTasks(day("2026-05-07"), nil)
	last := tasks.StudyTasks[len(tasks.StudyTasks)-1]
	assert.Equal(t, domain.SubjectVatandaslik, last.Subject)
	assert.Equal(t, "task-vatandaslik-2026-05-07", last.ID.String())
	assert.Equal(t, "YASAMA & YÜRÜTME", last.Title)
}

func TestCanonicalTaskID(t *testing.T) {
	p := Default()
	tests := []struct {
		in, want string
	}{
		{"task-turkce-2026-05-21", "task-vatandaslik-2026-05-21"},
		{"task-turkce-2026-01-14", "task-turkce-2026-01-14"},
		{"task-vatandaslik-2026-05-21", "task-vatandaslik-2026-05-21"},
		{"routine-paragraph-2026-05-21", "routine-paragraph-2026-05-21"},
		{"task-turkce-2030-05-21", "task-turkce-2030-05-21"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.CanonicalTaskID(domain.ParseTaskID(tt.in)).String(), tt.in)
	}
}

func TestDeriveDailyTasks_LegacyTurkceIDCompletesCitizenshipTask(t *testing.T) {
	p := Default()
	d := day("2026-05-21")
	progress := domain.NewUserProgress()
	progress.Daily[d] = domain.DailyProgress{Date: d, Tasks: []domain.TaskCompletion{
		{TaskID: domain.ParseTaskID("task-turkce-2026-05-21"), Completed: true},
	}}

	tasks := p.DeriveDailyTasks(d, progress)

	last := tasks.StudyTasks[len(tasks.StudyTasks)-1]
	assert.Equal(t, "task-vatandaslik-2026-05-21", last.ID.String())
	assert.True(t, last.Completed)
}

func TestDeriveDailyTasks_CanonicalEntryWinsOverLegacy(t *testing.T) {
	p := Default()
	d := day("2026-05-21")
	progress := domain.NewUserProgress()
	progress.Daily[d] = domain.DailyProgress{Date: d, Tasks: []domain.TaskCompletion{
		{TaskID: domain.ParseTaskID("task-turkce-2026-05-21"), Completed: true},
		{TaskID: domain.StudyTaskID(domain.SubjectVatandaslik, d), Completed: false},
	}}

	tasks := p.DeriveDailyTasks(d, progress)

	last := tasks.StudyTasks[len(tasks.StudyTasks)-1]
	assert.False(t, last.Completed)
}

func TestDeriveDailyTasks_MergesCustomTasksWithLedgerCompletion(t *testing.T) {
	p := Default()
	d := day("2026-01-14")
	at := time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)

	custom := domain.CustomTask{
		ID:        domain.ParseTaskID("custom-1736850000000-abcdefghi"),
		Title:     "Limit tekrarı",
		Subject:   domain.SubjectMatematik,
		Date:      d,
		Type:      domain.TaskStudy,
		Completed: false,
	}
	other := custom
	other.ID = domain.ParseTaskID("custom-1736850000001-abcdefghi")
	other.Date = d.AddDays(1)
	other.Completed = true

	progress := domain.NewUserProgress()
	progress.CustomTasks = []domain.CustomTask{custom, other}
	progress.Daily[d] = domain.DailyProgress{Date: d, Tasks: []domain.TaskCompletion{
		{TaskID: custom.ID, Completed: true, CompletedAt: &at},
		{TaskID: domain.StudyTaskID(domain.SubjectTarih, d), Completed: true},
	}}

	tasks := p.DeriveDailyTasks(d, progress)

	last := tasks.StudyTasks[len(tasks.StudyTasks)-1]
	assert.True(t, last.Custom)
	assert.Equal(t, custom.ID, last.ID)
	assert.True(t, last.Completed)
	require.NotNil(t, last.CompletedAt)
	assert.Equal(t, at, *last.CompletedAt)

	assert.True(t, tasks.StudyTasks[0].Completed)
	assert.False(t, tasks.StudyTasks[1].Completed)

	for _, s := range tasks.StudyTasks {
		assert.NotEqual(t, other.ID, s.ID, "custom task of another day leaked in")
	}
}

func TestSubjectTopics_ExcludesSentinels(t *testing.T) {
	p := Default()

	tarih := p.SubjectTopics(domain.SubjectTarih)
	require.NotEmpty(t, tarih)
	assert.Equal(t, "tarih-2026-OCAK-3", tarih[0].ID)
	assert.Equal(t, "Türk-İslam Devletleri", tarih[0].Name)
	for _, topic := range tarih {
		assert.False(t, sentinelTopics[topic.Name], topic.Name)
	}

	vat := p.SubjectTopics(domain.SubjectVatandaslik)
	require.Len(t, vat, 8)
	assert.Equal(t, "TEMEL HUKUK BİLGİSİ", vat[0].Name)

	for _, topic := range p.SubjectTopics(domain.SubjectTurkce) {
		assert.False(t, IsCitizenshipTopic(topic.Name), topic.Name)
	}

	assert.Same(t, &tarih[0], &p.SubjectTopics(domain.SubjectTarih)[0], "topics are cached")
}

func TestCurrentTopic(t *testing.T) {
	p := Default()

	topic, ok := p.CurrentTopic(domain.SubjectCografya, day("2026-02-07"))
	require.True(t, ok)
	assert.Equal(t, "İklim ve Bitki Örtüsü", topic.Name)

	_, ok = p.CurrentTopic(domain.SubjectTarih, day("2026-06-05"))
	assert.False(t, ok, "ANALİZ weeks have no topic")
}

func TestWeekByID(t *testing.T) {
	p := Default()

	ref, ok := p.WeekByID("2026-NİSAN-2")
	require.True(t, ok)
	assert.True(t, ref.Week.DateRange.Start.Equal(day("2026-04-01")))

	ref, ok = p.WeekByID("2026-NISAN-2")
	require.True(t, ok)
	assert.Equal(t, "2026-NİSAN-2", ref.ID())

	_, ok = p.WeekByID("2026-OCAK-9")
	assert.False(t, ok)
	_, ok = p.WeekByID("garbage")
	assert.False(t, ok)
}

const legacyPlan = `
startDate: "2026-05-01"
endDate: "2026-05-14"
months:
  - month: MAYIS
    year: 2026
    weeks:
      - weekNumber: 1
        dateRange: { start: "2026-05-01", end: "2026-05-07" }
        dailyRoutine: { paragraphs: 10, problems: 0, speedQuestions: 0 }
        subjects:
          tarih: Kurtuluş Savaşı
          turkce: Temel Hukuk Bilgisi
      - weekNumber: 2
        dateRange: { start: "2026-05-08", end: "2026-05-14" }
        dailyRoutine: { paragraphs: 10, problems: 5, speedQuestions: 0 }
        subjects:
          turkce: güncel bilgiler
`

func TestParse_ReclassifiesLegacyCitizenshipTopics(t *testing.T) {
	p, err := Parse([]byte(legacyPlan))
	require.NoError(t, err)

	w1 := p.Months[0].Weeks[0].Subjects
	assert.Empty(t, w1.Turkce)
	assert.Equal(t, "Temel Hukuk Bilgisi", w1.Vatandaslik)

	w2 := p.Months[0].Weeks[1].Subjects
	assert.Equal(t, "güncel bilgiler", w2.Vatandaslik)

	assert.Nil(t, p.Schedule.Karma)
	assert.Equal(t, 27, p.Schedule.QuestionBank(domain.SubjectTarih))
	assert.Len(t, p.DeriveDailyTasks(day("2026-05-02"), nil).RoutineTasks, 1)
}

func TestIsCitizenshipTopic(t *testing.T) {
	cases := map[string]bool{
		"TEMEL HUKUK BİLGİSİ":  true,
		"Vatandaşlık Soru Avı": true,
		"yürütme":              true,
		"GÜNCEL BİLGİLER":      true,
		"Cümle Ögeleri":        false,
		"Paragraf Hız Denemesi": false,
	}
	for name, want := range cases {
		assert.Equal(t, want, IsCitizenshipTopic(name), name)
	}
}

func TestParse_RejectsStructuralErrors(t *testing.T) {
	cases := map[string]string{
		"gap": `
startDate: "2026-01-01"
endDate: "2026-01-14"
months:
  - month: OCAK
    year: 2026
    weeks:
      - weekNumber: 1
        dateRange: { start: "2026-01-01", end: "2026-01-06" }
      - weekNumber: 2
        dateRange: { start: "2026-01-08", end: "2026-01-14" }
`,
		"overlap": `
startDate: "2026-01-01"
endDate: "2026-01-14"
months:
  - month: OCAK
    year: 2026
    weeks:
      - weekNumber: 1
        dateRange: { start: "2026-01-01", end: "2026-01-08" }
      - weekNumber: 2
        dateRange: { start: "2026-01-08", end: "2026-01-14" }
`,
		"short": `
startDate: "2026-01-01"
endDate: "2026-01-20"
months:
  - month: OCAK
    year: 2026
    weeks:
      - weekNumber: 1
        dateRange: { start: "2026-01-01", end: "2026-01-07" }
`,
		"unknown month": `
startDate: "2026-01-01"
endDate: "2026-01-07"
months:
  - month: AĞUSTOS
    year: 2026
    weeks:
      - weekNumber: 1
        dateRange: { start: "2026-01-01", end: "2026-01-07" }
`,
		"bad date": `
startDate: "2026-13-01"
endDate: "2026-01-07"
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidPlan)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(legacyPlan), 0o644))

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, p.Months[0].Weeks, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
