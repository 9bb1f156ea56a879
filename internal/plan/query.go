package plan

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// WeekRef locates a week inside the calendar.
type WeekRef struct {
	Month      domain.Month
	Year       int
	MonthIndex int
	WeekIndex  int
	Week       *WeeklyTask
}

// ID returns the week id "<year>-<MONTH>-<weekNumber>".
func (r WeekRef) ID() string {
	if r.Week == nil {
		return ""
	}
	return WeekID(r.Year, r.Month, r.Week.WeekNumber)
}

// WeekID formats a week id.
func WeekID(year int, month domain.Month, weekNumber int) string {
	return fmt.Sprintf("%d-%s-%d", year, month, weekNumber)
}

// Lookup returns the week whose range contains day. The first match in
// month-then-week order wins.
func (p *Plan) Lookup(day domain.Day) (WeekRef, bool) {
	for mi := range p.Months {
		m := &p.Months[mi]
		for wi := range m.Weeks {
			if m.Weeks[wi].DateRange.Contains(day) {
				return WeekRef{Month: m.Month, Year: m.Year, MonthIndex: mi, WeekIndex: wi, Week: &m.Weeks[wi]}, true
			}
		}
	}
	return WeekRef{}, false
}

// WeekFor returns the week containing day, falling back to the plan's first
// week so there is always a plan to show.
func (p *Plan) WeekFor(day domain.Day) WeekRef {
	if ref, ok := p.Lookup(day); ok {
		return ref
	}
	return p.first()
}

func (p *Plan) first() WeekRef {
	if len(p.Months) == 0 || len(p.Months[0].Weeks) == 0 {
		return WeekRef{}
	}
	m := &p.Months[0]
	return WeekRef{Month: m.Month, Year: m.Year, Week: &m.Weeks[0]}
}

// WeekByID resolves a week id produced by WeekID.
func (p *Plan) WeekByID(id string) (WeekRef, bool) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) != 3 {
		return WeekRef{}, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return WeekRef{}, false
	}
	month, err := domain.ParseMonth(parts[1])
	if err != nil {
		return WeekRef{}, false
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return WeekRef{}, false
	}
	for mi := range p.Months {
		m := &p.Months[mi]
		if m.Month != month || m.Year != year {
			continue
		}
		for wi := range m.Weeks {
			if m.Weeks[wi].WeekNumber == n {
				return WeekRef{Month: m.Month, Year: m.Year, MonthIndex: mi, WeekIndex: wi, Week: &m.Weeks[wi]}, true
			}
		}
	}
	return WeekRef{}, false
}

// MonthPlan returns the weeks of (month, year).
func (p *Plan) MonthPlan(month domain.Month, year int) (*MonthlyPlan, bool) {
	for i := range p.Months {
		if p.Months[i].Month == month && p.Months[i].Year == year {
			return &p.Months[i], true
		}
	}
	return nil, false
}

// RoutineTask is one daily quota task.
type RoutineTask struct {
	ID            domain.TaskID
	Kind          domain.RoutineKind
	Count         int
	Label         string
	RequiresTimer bool
	TimerSeconds  int
	Completed     bool
}

// TodayTask is a subject study task or a custom task shown for a day.
type TodayTask struct {
	ID            domain.TaskID
	Subject       domain.Subject
	Title         string
	Description   string
	Date          domain.Day
	Type          domain.TaskType
	TimeSlot      *domain.TimeSlot
	RequiresTimer bool
	TimerSeconds  int
	Custom        bool
	Completed     bool
	CompletedAt   *time.Time
}

// DailyTasks is everything scheduled for one day.
type DailyTasks struct {
	Date         domain.Day
	Week         WeekRef
	RoutineTasks []RoutineTask
	StudyTasks   []TodayTask
}

// AllIDs lists the ids of every task of the day in display order.
func (d DailyTasks) AllIDs() []domain.TaskID {
	ids := make([]domain.TaskID, 0, len(d.RoutineTasks)+len(d.StudyTasks))
	for _, r := range d.RoutineTasks {
		ids = append(ids, r.ID)
	}
	for _, s := range d.StudyTasks {
		ids = append(ids, s.ID)
	}
	return ids
}

// RoutineQuota is one routine kind with its per-day count.
type RoutineQuota struct {
	Kind  domain.RoutineKind
	Count int
}

// RoutineQuotas lists the routine tasks a week schedules each day, including
// the synthetic karma task once the schedule calls for it.
func (p *Plan) RoutineQuotas(ref WeekRef) []RoutineQuota {
	if ref.Week == nil {
		return nil
	}
	r := ref.Week.DailyRoutine
	var out []RoutineQuota
	if r.Paragraphs > 0 {
		out = append(out, RoutineQuota{domain.RoutineParagraph, r.Paragraphs})
	}
	if r.Problems > 0 {
		out = append(out, RoutineQuota{domain.RoutineProblem, r.Problems})
	}
	if r.SpeedQuestions > 0 {
		out = append(out, RoutineQuota{domain.RoutineSpeed, r.SpeedQuestions})
	}
	if k := p.Schedule.Karma; k != nil && k.Count > 0 && r.Problems == 0 && !ref.Month.Before(k.FromMonth) {
		out = append(out, RoutineQuota{domain.RoutineKarma, k.Count})
	}
	return out
}

// studySlot is the fixed display window and blurb of a subject study task.
type studySlot struct {
	start, end  string
	description string
}

var studySlots = map[domain.Subject]studySlot{
	domain.SubjectTarih:       {"14:00", "15:30", "Soru bankası çalışması"},
	domain.SubjectCografya:    {"16:00", "17:30", "Konu tekrarı"},
	domain.SubjectMatematik:   {"19:00", "20:00", "Soru çözümü"},
	domain.SubjectTurkce:      {"19:00", "20:00", ""},
	domain.SubjectVatandaslik: {"19:00", "20:00", "Konu çalışması"},
}

// ExpectedTaskIDs returns the plan-derived task ids for day.
func (p *Plan) ExpectedTaskIDs(day domain.Day) []domain.TaskID {
	return p.DeriveDailyTasks(day, nil).AllIDs()
}

// DeriveDailyTasks builds the day's routine and study tasks from the plan
// and appends the user's custom tasks for that day. Completion comes from the
// progress ledger only; progress may be nil.
func (p *Plan) DeriveDailyTasks(day domain.Day, progress *domain.UserProgress) DailyTasks {
	ref := p.WeekFor(day)
	out := DailyTasks{Date: day, Week: ref}
	if ref.Week == nil {
		return out
	}
	week := ref.Week
	var ledger map[string]domain.TaskCompletion
	if progress != nil {
		if d, ok := progress.Daily[day]; ok {
			ledger = p.Completions(d)
		}
	}

	for _, q := range p.RoutineQuotas(ref) {
		rt := RoutineTask{ID: domain.RoutineTaskID(q.Kind, day), Kind: q.Kind, Count: q.Count}
		switch q.Kind {
		case domain.RoutineSpeed:
			rt.RequiresTimer = true
			rt.TimerSeconds = q.Count * p.Schedule.SpeedSecondsPerQuestion
		case domain.RoutineProblem:
			if p.Schedule.IsTimedProblemMonth(ref.Month) && p.Schedule.ProblemSecondsPerQuestion > 0 {
				rt.RequiresTimer = true
				rt.TimerSeconds = q.Count * p.Schedule.ProblemSecondsPerQuestion
			}
		case domain.RoutineKarma:
			rt.Label = p.Schedule.Karma.Label
			rt.RequiresTimer = p.Schedule.Karma.TimerSeconds > 0
			rt.TimerSeconds = p.Schedule.Karma.TimerSeconds
		}
		rt.Completed = ledger[rt.ID.String()].Completed
		out.RoutineTasks = append(out.RoutineTasks, rt)
	}

	speed := week.DailyRoutine.SpeedQuestions
	for _, sub := range slotSubjects {
		topic := week.Subjects.Topic(sub)
		if topic == "" {
			continue
		}
		slot := studySlots[sub]
		task := TodayTask{
			ID:          domain.StudyTaskID(sub, day),
			Subject:     sub,
			Title:       topic,
			Description: slot.description,
			Date:        day,
			Type:        domain.TaskStudy,
			TimeSlot:    &domain.TimeSlot{Start: slot.start, End: slot.end},
		}
		if sub == domain.SubjectTurkce {
			task.Description = "Paragraf çalışması"
			if speed > 0 {
				task.Description = fmt.Sprintf("%d soru - Süreli çözüm", speed)
			}
		}
		if speed > 0 {
			task.Type = domain.TaskSpeed
			task.RequiresTimer = true
			task.TimerSeconds = p.Schedule.StudySpeedTimerSeconds
		}
		markCompletion(&task, ledger)
		out.StudyTasks = append(out.StudyTasks, task)
	}

	if progress != nil {
		for _, ct := range progress.CustomTasks {
			if !ct.Date.Equal(day) {
				continue
			}
			task := TodayTask{
				ID:          ct.ID,
				Subject:     ct.Subject,
				Title:       ct.Title,
				Description: ct.Description,
				Date:        ct.Date,
				Type:        ct.Type,
				Custom:      true,
			}
			if ct.TimeSlot != nil {
				slot := *ct.TimeSlot
				task.TimeSlot = &slot
			}
			markCompletion(&task, ledger)
			out.StudyTasks = append(out.StudyTasks, task)
		}
	}
	return out
}

func markCompletion(t *TodayTask, ledger map[string]domain.TaskCompletion) {
	tc, ok := ledger[t.ID.String()]
	if !ok || !tc.Completed {
		return
	}
	t.Completed = true
	if tc.CompletedAt != nil {
		v := *tc.CompletedAt
		t.CompletedAt = &v
	}
}
