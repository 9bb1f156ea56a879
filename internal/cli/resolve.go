package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/plan"
)

// resolveDate parses a --date flag, defaulting to today.
func resolveDate(flag string, today domain.Day) (domain.Day, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "", "today", "bugun", "bugün":
		return today, nil
	case "yesterday", "dun", "dün":
		return today.AddDays(-1), nil
	case "tomorrow", "yarin", "yarın":
		return today.AddDays(1), nil
	}
	d, err := domain.ParseDay(strings.TrimSpace(flag))
	if err != nil {
		return domain.Day{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", flag)
	}
	return d, nil
}

// resolveTaskRef maps a user reference to a task id of the given day.
// Accepted forms: a 1-based position as printed by "today", a routine kind
// (paragraph, problem, speed, karma), a subject name or slug, or a full id.
func resolveTaskRef(ref string, tasks plan.DailyTasks) (domain.TaskID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.TaskID{}, fmt.Errorf("task reference must not be empty")
	}

	ids := tasks.AllIDs()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(ids) {
			return domain.TaskID{}, fmt.Errorf("no task #%d on %s (%d tasks)", n, tasks.Date, len(ids))
		}
		return ids[n-1], nil
	}

	if kind := domain.RoutineKind(strings.ToLower(ref)); kind.Valid() {
		for _, r := range tasks.RoutineTasks {
			if r.Kind == kind {
				return r.ID, nil
			}
		}
		return domain.TaskID{}, fmt.Errorf("no %s routine on %s", kind, tasks.Date)
	}

	if subject, err := domain.ParseSubject(ref); err == nil {
		want := domain.StudyTaskID(subject, tasks.Date)
		for _, id := range ids {
			if id.Equal(want) {
				return id, nil
			}
		}
		return domain.TaskID{}, fmt.Errorf("no %s study task on %s", subject, tasks.Date)
	}

	id := domain.ParseTaskID(ref)
	if id.Kind == domain.KindUnknown {
		return domain.TaskID{}, fmt.Errorf("unrecognised task reference %q", ref)
	}
	return id, nil
}
