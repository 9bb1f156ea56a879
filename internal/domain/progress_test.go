package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 14, 9, 30, 0, 0, time.UTC)

func sampleProgress() *UserProgress {
	day := MustParseDay("2026-01-14")
	at := testNow
	sub := SubjectTarih
	p := NewUserProgress()
	p.Daily[day] = DailyProgress{
		Date: day,
		Tasks: []TaskCompletion{
			{TaskID: StudyTaskID(SubjectMatematik, day), Completed: true, CompletedAt: &at},
			{TaskID: RoutineTaskID(RoutineParagraph, day), Completed: false},
		},
	}
	p.CustomTasks = append(p.CustomTasks, CustomTask{
		ID:        ParseTaskID("custom-1736850000000-abcdefghi"),
		Title:     "Limit tekrarı",
		Subject:   SubjectMatematik,
		Date:      day,
		TimeSlot:  &TimeSlot{Start: "14:00", End: "15:30"},
		Type:      TaskStudy,
		CreatedAt: testNow,
	})
	p.Exams = append(p.Exams, Exam{
		ID:        ParseTaskID("exam-1736850000000-abcdefghi"),
		Title:     "TARİH Branş Denemesi",
		Type:      ExamBranch,
		Subject:   &sub,
		Date:      day,
		CreatedAt: testNow,
		Completed: true,
		Results:   ExamResults{ResultTotal: {Correct: 20, Wrong: 4, Empty: 3, Net: 19}},
	})
	p.TopicNotes = append(p.TopicNotes, TopicNote{
		ID:        ParseTaskID("note-1736850000000-abcdefghi"),
		TopicID:   "tarih-2026-OCAK-3",
		Subject:   SubjectTarih,
		Content:   "Karahanlılar",
		CreatedAt: testNow,
		UpdatedAt: testNow,
	})
	return p
}

func TestUserProgress_JSONRoundTrip(t *testing.T) {
	in := sampleProgress()

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out UserProgress
	require.NoError(t, json.Unmarshal(data, &out))
	out.Normalize()

	assert.Equal(t, in, &out)
}

func TestUserProgress_Clone_IsDeep(t *testing.T) {
	in := sampleProgress()
	day := MustParseDay("2026-01-14")

	c := in.Clone()
	require.Equal(t, in, c)

	d := c.Daily[day]
	d.Tasks[0].Completed = false
	*d.Tasks[0].CompletedAt = time.Time{}
	c.CustomTasks[0].TimeSlot.Start = "09:00"
	c.Exams[0].Results[ResultTotal] = ExamResult{}
	*c.Exams[0].Subject = SubjectCografya

	orig := in.Daily[day]
	assert.True(t, orig.Tasks[0].Completed)
	assert.Equal(t, testNow, *orig.Tasks[0].CompletedAt)
	assert.Equal(t, "14:00", in.CustomTasks[0].TimeSlot.Start)
	assert.Equal(t, 20, in.Exams[0].Results[ResultTotal].Correct)
	assert.Equal(t, SubjectTarih, *in.Exams[0].Subject)
}

func TestUserProgress_IsTaskCompleted_MissingData(t *testing.T) {
	var nilProgress *UserProgress
	day := MustParseDay("2026-01-14")
	id := StudyTaskID(SubjectTarih, day)

	assert.False(t, nilProgress.IsTaskCompleted(id, day))
	assert.False(t, NewUserProgress().IsTaskCompleted(id, day))

	p := sampleProgress()
	assert.True(t, p.IsTaskCompleted(StudyTaskID(SubjectMatematik, day), day))
	assert.False(t, p.IsTaskCompleted(RoutineTaskID(RoutineParagraph, day), day))
	assert.False(t, p.IsTaskCompleted(StudyTaskID(SubjectMatematik, day), day.AddDays(1)))
}

func TestNormalize_FillsNilCollections(t *testing.T) {
	var p UserProgress
	require.NoError(t, json.Unmarshal([]byte(`{"daily":{"2026-01-14":{"tasks":null}}}`), &p))
	p.Normalize()

	day := MustParseDay("2026-01-14")
	assert.NotNil(t, p.Weekly)
	assert.NotNil(t, p.Exams)
	assert.NotNil(t, p.Daily[day].Tasks)
	assert.True(t, p.Daily[day].Date.Equal(day))
}

func TestNormalize_ProjectsCustomCompletionFromLedger(t *testing.T) {
	p := sampleProgress()
	task := p.CustomTasks[0]
	p.CustomTasks[0].Completed = true

	p.Normalize()
	assert.False(t, p.CustomTasks[0].Completed, "no ledger entry")

	d := p.Daily[task.Date]
	d.Tasks = append(d.Tasks, TaskCompletion{TaskID: task.ID, Completed: true})
	p.Daily[task.Date] = d
	p.Normalize()
	assert.True(t, p.CustomTasks[0].Completed)
}

func TestDateRange_DaysAndContains(t *testing.T) {
	r := DateRange{Start: MustParseDay("2026-01-13"), End: MustParseDay("2026-01-19")}

	assert.Equal(t, 7, r.Days())
	assert.True(t, r.Contains(MustParseDay("2026-01-13")))
	assert.True(t, r.Contains(MustParseDay("2026-01-19")))
	assert.False(t, r.Contains(MustParseDay("2026-01-20")))

	inverted := DateRange{Start: r.End, End: r.Start}
	assert.Equal(t, 0, inverted.Days())
}

func TestNewCustomTask_Validate(t *testing.T) {
	valid := NewCustomTask{Title: "x", Subject: SubjectTarih, Date: MustParseDay("2026-01-14"), Type: TaskStudy}
	require.NoError(t, valid.Validate())

	blank := valid
	blank.Title = "   "
	err := blank.Validate()
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	badSlot := valid
	badSlot.TimeSlot = &TimeSlot{Start: "16:00", End: "15:00"}
	assert.ErrorIs(t, badSlot.Validate(), ErrValidation)
}

func TestNewExam_Validate(t *testing.T) {
	day := MustParseDay("2026-02-01")
	assert.ErrorIs(t, NewExam{Type: ExamGeneral, Date: day}.Validate(), ErrValidation)
	assert.ErrorIs(t, NewExam{Title: "x", Type: ExamBranch, Date: day}.Validate(), ErrValidation)
	assert.NoError(t, NewExam{Title: "x", Type: ExamGeneral, Date: day}.Validate())
}

func TestDefaultExamTitle(t *testing.T) {
	sub := SubjectTarih
	assert.Equal(t, "TARİH Branş Denemesi", DefaultExamTitle(ExamBranch, &sub))
	assert.Equal(t, "Türkiye Geneli Deneme", DefaultExamTitle(ExamTG, nil))
	assert.Equal(t, "Genel Deneme", DefaultExamTitle(ExamGeneral, nil))
}

func TestParseMonthAndSubject_AcceptASCII(t *testing.T) {
	m, err := ParseMonth("NISAN")
	require.NoError(t, err)
	assert.Equal(t, MonthNisan, m)

	s, err := ParseSubject("cografya")
	require.NoError(t, err)
	assert.Equal(t, SubjectCografya, s)

	s, err = ParseSubject("Türkçe")
	require.NoError(t, err)
	assert.Equal(t, SubjectTurkce, s)

	_, err = ParseSubject("fizik")
	assert.Error(t, err)
}
