package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/persistence"
	"github.com/alexanderramin/studyplan/internal/plan"
	"github.com/alexanderramin/studyplan/internal/testutil"
)

type persistCall struct {
	state   *domain.UserProgress
	changes []string
}

type recordingPersister struct {
	mu    sync.Mutex
	calls []persistCall
}

func (p *recordingPersister) Persist(_ context.Context, up *domain.UserProgress, changes ...persistence.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(changes))
	for i, c := range changes {
		names[i] = c.String()
	}
	p.calls = append(p.calls, persistCall{state: up, changes: names})
}

func (p *recordingPersister) last(t *testing.T) persistCall {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.calls)
	return p.calls[len(p.calls)-1]
}

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

type fixture struct {
	store     *ProgressStore
	persister *recordingPersister
	clock     *testutil.FixedClock
	observer  *recordingObserver
}

func newFixture(t *testing.T, initial *domain.UserProgress) fixture {
	t.Helper()
	f := fixture{
		persister: &recordingPersister{},
		clock:     testutil.NewFixedClock(testutil.Now),
		observer:  &recordingObserver{},
	}
	f.store = NewProgressStore(StoreOptions{
		Plan:      plan.Default(),
		Initial:   initial,
		Persister: f.persister,
		Clock:     f.clock,
		IDs:       &testutil.SeqIDs{},
	}, f.observer)
	return f
}

var (
	scenarioDay = testutil.Day("2026-01-14")
	matematik   = domain.StudyTaskID(domain.SubjectMatematik, scenarioDay)
)

func TestCompleteTask_Scenario(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tasks := f.store.DailyTasks(scenarioDay)
	require.NotEmpty(t, tasks.RoutineTasks)
	assert.Equal(t, "routine-paragraph-2026-01-14", tasks.RoutineTasks[0].ID.String())
	assert.Equal(t, 20, tasks.RoutineTasks[0].Count)

	require.NoError(t, f.store.CompleteTask(ctx, matematik, scenarioDay))

	assert.True(t, f.store.IsTaskCompleted(matematik, scenarioDay))
	assert.False(t, f.store.IsTaskCompleted(matematik, scenarioDay.AddDays(1)))

	call := f.persister.last(t)
	assert.Equal(t, []string{"upsert daily 2026-01-14"}, call.changes)
	assert.True(t, call.state.IsTaskCompleted(matematik, scenarioDay))

	for _, st := range f.store.DailyTasks(scenarioDay).StudyTasks {
		if st.ID.Equal(matematik) {
			assert.True(t, st.Completed)
			require.NotNil(t, st.CompletedAt)
			assert.Equal(t, testutil.Now, *st.CompletedAt)
		}
	}
}

func TestCompleteTask_Idempotent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.store.CompleteTask(ctx, matematik, scenarioDay))
	f.clock.Advance(time.Second)
	require.NoError(t, f.store.CompleteTask(ctx, matematik, scenarioDay))

	snap := f.store.Snapshot()
	d := snap.Daily[scenarioDay]
	require.Len(t, d.Tasks, 1)
	assert.True(t, d.Tasks[0].Completed)
	assert.Equal(t, testutil.Now, *d.Tasks[0].CompletedAt, "second completion must not restamp")
	assert.Equal(t, 2, f.persister.count(), "repeat completion still persists")
}

func TestUncompleteTask_KeepsEntry(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.store.CompleteTask(ctx, matematik, scenarioDay))
	require.NoError(t, f.store.UncompleteTask(ctx, matematik, scenarioDay))

	assert.False(t, f.store.IsTaskCompleted(matematik, scenarioDay))
	d := f.store.Snapshot().Daily[scenarioDay]
	require.Len(t, d.Tasks, 1)
	assert.False(t, d.Tasks[0].Completed)
	assert.Nil(t, d.Tasks[0].CompletedAt)
}

func TestUncompleteTask_MissingEntryInsertsIncomplete(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.store.UncompleteTask(context.Background(), matematik, scenarioDay))

	d := f.store.Snapshot().Daily[scenarioDay]
	require.Len(t, d.Tasks, 1)
	assert.False(t, d.Tasks[0].Completed)
}

func TestLegacyTurkceCompletion_ResolvesToCitizenshipTask(t *testing.T) {
	d := testutil.Day("2026-05-21")
	legacy := domain.ParseTaskID("task-turkce-2026-05-21")
	citizenship := domain.StudyTaskID(domain.SubjectVatandaslik, d)
	initial := domain.NewUserProgress()
	testutil.Complete(initial, d, legacy)

	f := newFixture(t, initial)
	ctx := context.Background()

	assert.True(t, f.store.IsTaskCompleted(citizenship, d))
	assert.True(t, f.store.IsTaskCompleted(legacy, d))
	assert.Equal(t, 1, f.store.GetWeeklyProgress("2026-HAZİRAN-1").CompletedTasks)

	require.NoError(t, f.store.UncompleteTask(ctx, legacy, d))

	assert.False(t, f.store.IsTaskCompleted(citizenship, d))
	assert.Zero(t, f.store.GetWeeklyProgress("2026-HAZİRAN-1").CompletedTasks)
	day := f.store.Snapshot().Daily[d]
	assert.GreaterOrEqual(t, day.Find(citizenship), 0, "writes go to the current id")
}

func TestCompleteTask_Validation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	assert.ErrorIs(t, f.store.CompleteTask(ctx, domain.TaskID{}, scenarioDay), domain.ErrValidation)
	assert.ErrorIs(t, f.store.CompleteTask(ctx, matematik, domain.Day{}), domain.ErrValidation)
	assert.Zero(t, f.persister.count())

	require.NotEmpty(t, f.observer.events)
	assert.False(t, f.observer.events[0].Success)
	assert.Equal(t, "CompleteTask", f.observer.events[0].Name)
}

func TestCompleteTask_RoutineCompletedDerived(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	routine := f.store.DailyTasks(scenarioDay).RoutineTasks
	require.Len(t, routine, 3)
	for i, rt := range routine {
		require.NoError(t, f.store.CompleteTask(ctx, rt.ID, scenarioDay))
		assert.Equal(t, i == len(routine)-1, f.store.Snapshot().Daily[scenarioDay].RoutineCompleted)
	}

	require.NoError(t, f.store.UncompleteTask(ctx, routine[0].ID, scenarioDay))
	assert.False(t, f.store.Snapshot().Daily[scenarioDay].RoutineCompleted)
}

func TestCompleteTask_CustomTaskEmitsRecordChange(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	task, err := f.store.AddCustomTask(ctx, domain.NewCustomTask{
		Title: "Ek test", Subject: domain.SubjectTarih, Date: scenarioDay,
	})
	require.NoError(t, err)
	assert.False(t, task.Completed)

	require.NoError(t, f.store.CompleteTask(ctx, task.ID, scenarioDay))

	call := f.persister.last(t)
	assert.Equal(t, []string{"upsert daily 2026-01-14", "upsert custom_task " + task.ID.String()}, call.changes)

	got := f.store.GetCustomTasks(&scenarioDay)
	require.Len(t, got, 1)
	assert.True(t, got[0].Completed, "custom task flag follows the ledger")

	// A completion on another date is not the task's own completion.
	require.NoError(t, f.store.UncompleteTask(ctx, task.ID, scenarioDay))
	other := scenarioDay.AddDays(1)
	require.NoError(t, f.store.CompleteTask(ctx, task.ID, other))
	assert.Equal(t, []string{"upsert daily 2026-01-15"}, f.persister.last(t).changes)
	assert.False(t, f.store.GetCustomTasks(nil)[0].Completed)
}

func TestAddCustomTask(t *testing.T) {
	f := newFixture(t, nil)

	task, err := f.store.AddCustomTask(context.Background(), domain.NewCustomTask{
		Title:       "  Paragraf tekrarı ",
		Subject:     domain.SubjectTurkce,
		Description: "40 soru",
		Date:        scenarioDay,
		TimeSlot:    &domain.TimeSlot{Start: "10:00", End: "11:00"},
		Type:        domain.TaskSpeed,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.KindCustom, task.ID.Kind)
	assert.Equal(t, "Paragraf tekrarı", task.Title)
	assert.Equal(t, testutil.Now.UTC(), task.CreatedAt)
	assert.False(t, task.Completed)
	assert.Equal(t, []string{"upsert custom_task " + task.ID.String()}, f.persister.last(t).changes)

	all := f.store.GetCustomTasks(nil)
	require.Len(t, all, 1)
	assert.Equal(t, task, all[0])
}

func TestAddCustomTask_DefaultsTypeToStudy(t *testing.T) {
	f := newFixture(t, nil)
	task, err := f.store.AddCustomTask(context.Background(), domain.NewCustomTask{
		Title: "Harita", Subject: domain.SubjectCografya, Date: scenarioDay,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStudy, task.Type)
}

func TestAddCustomTask_RejectsInvalidInput(t *testing.T) {
	cases := map[string]domain.NewCustomTask{
		"empty title":  {Title: "  ", Subject: domain.SubjectTarih, Date: scenarioDay},
		"bad subject":  {Title: "x", Subject: "FİZİK", Date: scenarioDay},
		"missing date": {Title: "x", Subject: domain.SubjectTarih},
		"bad slot":     {Title: "x", Subject: domain.SubjectTarih, Date: scenarioDay, TimeSlot: &domain.TimeSlot{Start: "12:00", End: "11:00"}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, nil)
			_, err := f.store.AddCustomTask(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, f.store.GetCustomTasks(nil))
			assert.Zero(t, f.persister.count())
		})
	}
}

func TestDeleteCustomTask_RemovesOrphanedCompletions(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	task, err := f.store.AddCustomTask(ctx, domain.NewCustomTask{Title: "Ek", Subject: domain.SubjectTarih, Date: scenarioDay})
	require.NoError(t, err)
	keep, err := f.store.AddCustomTask(ctx, domain.NewCustomTask{Title: "Kalan", Subject: domain.SubjectTarih, Date: scenarioDay})
	require.NoError(t, err)

	require.NoError(t, f.store.CompleteTask(ctx, task.ID, scenarioDay))
	require.NoError(t, f.store.CompleteTask(ctx, task.ID, scenarioDay.AddDays(2)))
	require.NoError(t, f.store.CompleteTask(ctx, keep.ID, scenarioDay))
	require.NoError(t, f.store.CompleteTask(ctx, matematik, scenarioDay))

	require.NoError(t, f.store.DeleteCustomTask(ctx, task.ID))

	assert.Equal(t, []string{
		"delete custom_task " + task.ID.String(),
		"upsert daily 2026-01-14",
		"upsert daily 2026-01-16",
	}, f.persister.last(t).changes)

	remaining := f.store.GetCustomTasks(&scenarioDay)
	require.Len(t, remaining, 1)
	assert.Equal(t, keep.ID, remaining[0].ID)

	snap := f.store.Snapshot()
	for day, d := range snap.Daily {
		assert.Equal(t, -1, d.Find(task.ID), "orphan left on %s", day)
	}
	assert.True(t, f.store.IsTaskCompleted(keep.ID, scenarioDay))
	assert.True(t, f.store.IsTaskCompleted(matematik, scenarioDay))
}

func TestDeleteCustomTask_NotFound(t *testing.T) {
	f := newFixture(t, nil)
	err := f.store.DeleteCustomTask(context.Background(), domain.ParseTaskID("custom-1-missing"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, f.persister.count())
}

func TestGetCustomTasks_FiltersAndOrders(t *testing.T) {
	up := domain.NewUserProgress()
	later := testutil.NewTestCustomTask("later", testutil.WithTaskDate(scenarioDay.AddDays(1)))
	first := testutil.NewTestCustomTask("first")
	second := testutil.NewTestCustomTask("second")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	up.CustomTasks = append(up.CustomTasks, later, second, first)
	f := newFixture(t, up)

	all := f.store.GetCustomTasks(nil)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"first", "second", "later"}, []string{all[0].Title, all[1].Title, all[2].Title})

	assert.Len(t, f.store.GetCustomTasks(&scenarioDay), 2)
	none := testutil.Day("2026-03-01")
	assert.Empty(t, f.store.GetCustomTasks(&none))
}

func TestAddExam_CompletedDerivedFromResults(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	planned, err := f.store.AddExam(ctx, domain.NewExam{Title: "Genel Deneme", Type: domain.ExamGeneral, Date: scenarioDay})
	require.NoError(t, err)
	assert.False(t, planned.Completed)
	assert.Nil(t, planned.Results)

	taken, err := f.store.AddExam(ctx, domain.NewExam{
		Title: "Genel Deneme 2",
		Type:  domain.ExamGeneral,
		Date:  scenarioDay,
		Results: domain.ExamResults{
			domain.ResultTurkce:    {Correct: 5, Wrong: 1},
			domain.ResultMatematik: {Correct: 3, Wrong: 2},
		},
	})
	require.NoError(t, err)
	assert.True(t, taken.Completed)

	total, ok := taken.Results.Total()
	require.True(t, ok)
	assert.Equal(t, 8, total.Correct)
	assert.Equal(t, 3, total.Wrong)
	assert.Equal(t, 7.25, total.Net)

	assert.Equal(t, []string{"upsert exam " + taken.ID.String()}, f.persister.last(t).changes)
	assert.Len(t, f.store.GetExams(nil), 2)
}

func TestAddExam_Rejects(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.store.AddExam(ctx, domain.NewExam{Title: "", Type: domain.ExamGeneral, Date: scenarioDay})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.store.AddExam(ctx, domain.NewExam{Title: "Branş", Type: domain.ExamBranch, Date: scenarioDay})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.store.AddExam(ctx, domain.NewExam{
		Title: "x", Type: domain.ExamGeneral, Date: scenarioDay,
		Results: domain.ExamResults{domain.ResultTarih: {Correct: -2}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Empty(t, f.store.GetExams(nil))
	assert.Zero(t, f.persister.count())
}

func TestUpdateExam_PreservesOmittedFields(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	sub := domain.SubjectTarih
	e, err := f.store.AddExam(ctx, domain.NewExam{
		Title: "Tarih Branş", Type: domain.ExamBranch, Subject: &sub, Date: scenarioDay,
		Results: domain.ExamResults{domain.ResultTarih: {Correct: 20, Wrong: 4}},
	})
	require.NoError(t, err)

	done := false
	updated, err := f.store.UpdateExam(ctx, e.ID, domain.ExamPatch{Completed: &done})
	require.NoError(t, err)
	assert.False(t, updated.Completed)
	assert.Equal(t, e.Results, updated.Results)
	assert.Equal(t, e.Title, updated.Title)
	require.NotNil(t, updated.Subject)
	assert.Equal(t, domain.SubjectTarih, *updated.Subject)

	updated, err = f.store.UpdateExam(ctx, e.ID, domain.ExamPatch{
		Results: domain.ExamResults{domain.ResultCografya: {Correct: 10, Wrong: 0}},
	})
	require.NoError(t, err)
	assert.False(t, updated.Completed, "results alone do not flip completion")
	assert.Equal(t, 20, updated.Results[domain.ResultTarih].Correct)
	total, _ := updated.Results.Total()
	assert.Equal(t, 30, total.Correct)
	assert.Equal(t, 29.0, total.Net)

	assert.Equal(t, []string{"upsert exam " + e.ID.String()}, f.persister.last(t).changes)
}

func TestUpdateExam_InvalidPatchLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	e, err := f.store.AddExam(ctx, domain.NewExam{Title: "G", Type: domain.ExamGeneral, Date: scenarioDay})
	require.NoError(t, err)
	calls := f.persister.count()

	done := true
	_, err = f.store.UpdateExam(ctx, e.ID, domain.ExamPatch{
		Completed: &done,
		Results:   domain.ExamResults{"fizik": {Correct: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got := f.store.GetExams(nil)
	require.Len(t, got, 1)
	assert.False(t, got[0].Completed)
	assert.Equal(t, calls, f.persister.count())
}

func TestCompleteAndDeleteExam(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	e, err := f.store.AddExam(ctx, domain.NewExam{Title: "TG", Type: domain.ExamTG, Date: scenarioDay})
	require.NoError(t, err)

	done, err := f.store.CompleteExam(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	require.NoError(t, f.store.DeleteExam(ctx, e.ID))
	assert.Equal(t, []string{"delete exam " + e.ID.String()}, f.persister.last(t).changes)
	assert.Empty(t, f.store.GetExams(&scenarioDay))

	assert.ErrorIs(t, f.store.DeleteExam(ctx, e.ID), ErrNotFound)
	_, err = f.store.CompleteExam(ctx, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetExams_FilteredByDate(t *testing.T) {
	up := domain.NewUserProgress()
	up.Exams = append(up.Exams,
		testutil.NewTestExam("b", testutil.WithExamDate(scenarioDay.AddDays(3))),
		testutil.NewTestExam("a"),
	)
	f := newFixture(t, up)

	all := f.store.GetExams(nil)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Title)

	got := f.store.GetExams(&scenarioDay)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Title)
}

func TestTopicNotes_CRUD(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	topic := f.store.Plan().SubjectTopics(domain.SubjectTarih)[0]
	note, err := f.store.AddTopicNote(ctx, domain.NewTopicNote{
		TopicID: topic.ID, Subject: domain.SubjectTarih, Content: "Karahanlılar ilk Türk-İslam devleti",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.KindNote, note.ID.Kind)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)

	other, err := f.store.AddTopicNote(ctx, domain.NewTopicNote{
		TopicID: "other", Subject: domain.SubjectTurkce, Content: "ek",
	})
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	updated, err := f.store.UpdateTopicNote(ctx, note.ID, "Gazneliler de önemli")
	require.NoError(t, err)
	assert.Equal(t, "Gazneliler de önemli", updated.Content)
	assert.True(t, updated.UpdatedAt.After(note.UpdatedAt))
	assert.Equal(t, note.CreatedAt, updated.CreatedAt)

	got := f.store.GetTopicNotes(topic.ID)
	require.Len(t, got, 1)
	assert.Equal(t, updated, got[0])
	assert.Len(t, f.store.GetTopicNotes(""), 2)

	_, err = f.store.UpdateTopicNote(ctx, note.ID, "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, f.store.DeleteTopicNote(ctx, other.ID))
	assert.Equal(t, []string{"delete topic_note " + other.ID.String()}, f.persister.last(t).changes)
	assert.ErrorIs(t, f.store.DeleteTopicNote(ctx, other.ID), ErrNotFound)

	_, err = f.store.UpdateTopicNote(ctx, other.ID, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddTopicNote_Rejects(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.store.AddTopicNote(context.Background(), domain.NewTopicNote{TopicID: "t", Subject: domain.SubjectTarih})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.store.GetTopicNotes(""))
}

func TestQueries_ReadCurrentState(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	empty := f.store.GetWeeklyProgress("2026-OCAK-3")
	assert.Zero(t, empty.CompletedTasks)
	assert.Positive(t, empty.TotalTasks)

	require.NoError(t, f.store.CompleteTask(ctx, matematik, scenarioDay))

	w := f.store.GetWeeklyProgress("2026-OCAK-3")
	assert.Equal(t, 1, w.CompletedTasks)
	assert.Equal(t, empty.TotalTasks, w.TotalTasks)

	m := f.store.GetMonthlyProgress(domain.MonthOcak, 2026)
	assert.Equal(t, 30, m.SolvedQuestions)

	assert.Equal(t, domain.WeeklyProgress{WeekID: "nope"}, f.store.GetWeeklyProgress("nope"))

	sp := f.store.SubjectProgress(domain.SubjectMatematik, scenarioDay)
	require.NotNil(t, sp.CurrentTopic)
	assert.Equal(t, "Rasyonel Sayılar & Ondalık", sp.CurrentTopic.Name)

	sum := f.store.Summary(scenarioDay)
	assert.Equal(t, "2026-OCAK-3", sum.Week.WeekID)
	assert.Equal(t, scenarioDay, f.store.Today())
}

func TestSnapshot_IsIsolated(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.store.CompleteTask(ctx, matematik, scenarioDay))

	snap := f.store.Snapshot()
	d := snap.Daily[scenarioDay]
	d.Tasks[0].Completed = false
	snap.Daily[scenarioDay] = d
	snap.CustomTasks = append(snap.CustomTasks, testutil.NewTestCustomTask("sneaky"))

	assert.True(t, f.store.IsTaskCompleted(matematik, scenarioDay))
	assert.Empty(t, f.store.GetCustomTasks(nil))
}

func TestPersistedStatesAreNotModifiedLater(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.store.CompleteTask(ctx, matematik, scenarioDay))
	first := f.persister.last(t).state
	require.NoError(t, f.store.UncompleteTask(ctx, matematik, scenarioDay))

	assert.True(t, first.IsTaskCompleted(matematik, scenarioDay))
	assert.False(t, f.persister.last(t).state.IsTaskCompleted(matematik, scenarioDay))
}

func TestNewProgressStore_CopiesInitialState(t *testing.T) {
	up := domain.NewUserProgress()
	testutil.Complete(up, scenarioDay, matematik)
	f := newFixture(t, up)

	up.Daily = map[domain.Day]domain.DailyProgress{}
	assert.True(t, f.store.IsTaskCompleted(matematik, scenarioDay))
}

func TestConcurrentMutationsAreNotLost(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.store.AddCustomTask(ctx, domain.NewCustomTask{
				Title: fmt.Sprintf("t%d", i), Subject: domain.SubjectTarih, Date: scenarioDay,
			})
			assert.NoError(t, err)
			_ = f.store.IsTaskCompleted(matematik, scenarioDay)
		}(i)
	}
	wg.Wait()

	assert.Len(t, f.store.GetCustomTasks(nil), n)
	assert.Equal(t, n, f.persister.count())
	assert.Len(t, f.persister.last(t).state.CustomTasks, n)
}
