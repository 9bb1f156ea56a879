package domain

import (
	"fmt"
	"time"
)

// TaskCompletion is one ledger entry for a (date, task) pair.
type TaskCompletion struct {
	TaskID      TaskID     `json:"taskId"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// DailyProgress is the completion ledger for one calendar day.
type DailyProgress struct {
	Date             Day              `json:"date"`
	Tasks            []TaskCompletion `json:"tasks"`
	RoutineCompleted bool             `json:"routineCompleted"`
}

// Find returns the index of the ledger entry for id, or -1.
func (d *DailyProgress) Find(id TaskID) int {
	key := id.String()
	for i, t := range d.Tasks {
		if t.TaskID.String() == key {
			return i
		}
	}
	return -1
}

// IsCompleted reports whether id has a completed entry on this day.
func (d *DailyProgress) IsCompleted(id TaskID) bool {
	if d == nil {
		return false
	}
	i := d.Find(id)
	return i >= 0 && d.Tasks[i].Completed
}

// WeeklyProgress is the completion summary of one plan week.
type WeeklyProgress struct {
	WeekID         string `json:"weekId"`
	CompletedTasks int    `json:"completedTasks"`
	TotalTasks     int    `json:"totalTasks"`
	Percentage     int    `json:"percentage"`
}

// MonthlyProgress is the question-count summary of one plan month.
type MonthlyProgress struct {
	Month              Month `json:"month"`
	Year               int   `json:"year"`
	TotalQuestions     int   `json:"totalQuestions"`
	SolvedQuestions    int   `json:"solvedQuestions"`
	RemainingQuestions int   `json:"remainingQuestions"`
	Percentage         int   `json:"percentage"`
}

// MonthKey is the key of a month in UserProgress.Monthly.
func MonthKey(m Month, year int) string {
	return fmt.Sprintf("%s-%d", m, year)
}

// UserProgress is the root aggregate owned by the progress store.
type UserProgress struct {
	Daily map[Day]DailyProgress `json:"daily"`
	// Weekly and Monthly are carried for payload compatibility; aggregates
	// are always recomputed from Daily.
	Weekly      map[string]WeeklyProgress  `json:"weekly"`
	Monthly     map[string]MonthlyProgress `json:"monthly"`
	CustomTasks []CustomTask               `json:"customTasks"`
	Exams       []Exam                     `json:"exams"`
	TopicNotes  []TopicNote                `json:"topicNotes"`
}

// NewUserProgress returns an empty aggregate with every collection allocated.
func NewUserProgress() *UserProgress {
	return &UserProgress{
		Daily:       map[Day]DailyProgress{},
		Weekly:      map[string]WeeklyProgress{},
		Monthly:     map[string]MonthlyProgress{},
		CustomTasks: []CustomTask{},
		Exams:       []Exam{},
		TopicNotes:  []TopicNote{},
	}
}

// Normalize allocates any nil collection so decoded payloads behave like
// NewUserProgress values.
func (p *UserProgress) Normalize() {
	if p.Daily == nil {
		p.Daily = map[Day]DailyProgress{}
	}
	if p.Weekly == nil {
		p.Weekly = map[string]WeeklyProgress{}
	}
	if p.Monthly == nil {
		p.Monthly = map[string]MonthlyProgress{}
	}
	if p.CustomTasks == nil {
		p.CustomTasks = []CustomTask{}
	}
	if p.Exams == nil {
		p.Exams = []Exam{}
	}
	if p.TopicNotes == nil {
		p.TopicNotes = []TopicNote{}
	}
	for day, d := range p.Daily {
		if d.Tasks == nil {
			d.Tasks = []TaskCompletion{}
		}
		if d.Date.IsZero() {
			d.Date = day
		}
		p.Daily[day] = d
	}
	p.RefreshCustomCompletion()
}

// RefreshCustomCompletion copies ledger state onto each custom task's
// Completed field. The ledger entry on the task's own date is authoritative.
func (p *UserProgress) RefreshCustomCompletion() {
	for i := range p.CustomTasks {
		t := &p.CustomTasks[i]
		t.Completed = p.IsTaskCompleted(t.ID, t.Date)
	}
}

// Clone returns a deep copy.
func (p *UserProgress) Clone() *UserProgress {
	if p == nil {
		return NewUserProgress()
	}
	out := &UserProgress{
		Daily:       make(map[Day]DailyProgress, len(p.Daily)),
		Weekly:      make(map[string]WeeklyProgress, len(p.Weekly)),
		Monthly:     make(map[string]MonthlyProgress, len(p.Monthly)),
		CustomTasks: make([]CustomTask, len(p.CustomTasks)),
		Exams:       make([]Exam, len(p.Exams)),
		TopicNotes:  make([]TopicNote, len(p.TopicNotes)),
	}
	for k, d := range p.Daily {
		out.Daily[k] = d.Clone()
	}
	for k, v := range p.Weekly {
		out.Weekly[k] = v
	}
	for k, v := range p.Monthly {
		out.Monthly[k] = v
	}
	for i, t := range p.CustomTasks {
		out.CustomTasks[i] = t.Clone()
	}
	for i, e := range p.Exams {
		out.Exams[i] = e.Clone()
	}
	copy(out.TopicNotes, p.TopicNotes)
	return out
}

func (d DailyProgress) Clone() DailyProgress {
	out := d
	out.Tasks = make([]TaskCompletion, len(d.Tasks))
	for i, t := range d.Tasks {
		out.Tasks[i] = t
		if t.CompletedAt != nil {
			at := *t.CompletedAt
			out.Tasks[i].CompletedAt = &at
		}
	}
	return out
}

// IsTaskCompleted reads the ledger; missing days are simply not completed.
func (p *UserProgress) IsTaskCompleted(id TaskID, day Day) bool {
	if p == nil {
		return false
	}
	d, ok := p.Daily[day]
	if !ok {
		return false
	}
	return d.IsCompleted(id)
}

// CustomTaskByID returns the index of the custom task with id, or -1.
func (p *UserProgress) CustomTaskByID(id TaskID) int {
	key := id.String()
	for i, t := range p.CustomTasks {
		if t.ID.String() == key {
			return i
		}
	}
	return -1
}

// ExamByID returns the index of the exam with id, or -1.
func (p *UserProgress) ExamByID(id TaskID) int {
	key := id.String()
	for i, e := range p.Exams {
		if e.ID.String() == key {
			return i
		}
	}
	return -1
}

// NoteByID returns the index of the topic note with id, or -1.
func (p *UserProgress) NoteByID(id TaskID) int {
	key := id.String()
	for i, n := range p.TopicNotes {
		if n.ID.String() == key {
			return i
		}
	}
	return -1
}
