package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskID_PlanDerivedStrings(t *testing.T) {
	day := MustParseDay("2026-01-14")

	assert.Equal(t, "routine-paragraph-2026-01-14", RoutineTaskID(RoutineParagraph, day).String())
	assert.Equal(t, "task-matematik-2026-01-14", StudyTaskID(SubjectMatematik, day).String())
	assert.Equal(t, "task-vatandaslik-2026-01-14", StudyTaskID(SubjectVatandaslik, day).String())
}

func TestParseTaskID_RoundTrips(t *testing.T) {
	cases := []struct {
		in   string
		kind IDKind
	}{
		{"routine-paragraph-2026-01-14", KindRoutine},
		{"routine-karma-2026-05-01", KindRoutine},
		{"task-cografya-2026-02-05", KindTask},
		{"custom-1736850000000-k3j9x0a1b", KindCustom},
		{"exam-1736850000000-abcdefghi", KindExam},
		{"note-1736850000000-zzzzzzzzz", KindNote},
		{"legacy", KindUnknown},
		{"task-tarih-not-a-date", KindUnknown},
		{"custom-01-x", KindUnknown},
	}
	for _, tc := range cases {
		id := ParseTaskID(tc.in)
		assert.Equal(t, tc.kind, id.Kind, tc.in)
		assert.Equal(t, tc.in, id.String(), tc.in)
	}
}

func TestParseTaskID_ExtractsDateAndSubject(t *testing.T) {
	id := ParseTaskID("task-matematik-2026-01-14")
	require.Equal(t, KindTask, id.Kind)
	assert.True(t, id.Date.Equal(MustParseDay("2026-01-14")))

	sub, ok := id.Subject()
	require.True(t, ok)
	assert.Equal(t, SubjectMatematik, sub)

	_, ok = id.Routine()
	assert.False(t, ok)
}

func TestTaskID_JSON(t *testing.T) {
	in := TaskCompletion{TaskID: RoutineTaskID(RoutineSpeed, MustParseDay("2026-01-14")), Completed: true}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"taskId":"routine-speed-2026-01-14","completed":true}`, string(data))

	var out TaskCompletion
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestRandomIDs_Shape(t *testing.T) {
	now := time.UnixMilli(1736850000000)
	g := RandomIDs{Now: func() time.Time { return now }}

	a := g.NewID(KindCustom)
	b := g.NewID(KindCustom)

	assert.Equal(t, KindCustom, a.Kind)
	assert.Equal(t, int64(1736850000000), a.Stamp)
	assert.Len(t, a.Nonce, 9)
	assert.NotEqual(t, a.String(), b.String())
	assert.Equal(t, a, ParseTaskID(a.String()))
}
