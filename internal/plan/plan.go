// Package plan holds the static study calendar and the pure queries that
// derive a day's tasks and a subject's topics from it.
package plan

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/alexanderramin/studyplan/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed plan.yaml
var embeddedPlan []byte

// DailyRoutine is the per-day question quota of a week.
type DailyRoutine struct {
	Paragraphs     int
	Problems       int
	SpeedQuestions int
}

// Total is the sum of the three quotas.
func (r DailyRoutine) Total() int {
	return r.Paragraphs + r.Problems + r.SpeedQuestions
}

// SubjectSlots holds one topic name per subject; empty means no slot.
type SubjectSlots struct {
	Tarih       string
	Cografya    string
	Matematik   string
	Turkce      string
	Vatandaslik string
}

// Topic returns the topic name of a subject slot.
func (s SubjectSlots) Topic(subject domain.Subject) string {
	switch subject {
	case domain.SubjectTarih:
		return s.Tarih
	case domain.SubjectCografya:
		return s.Cografya
	case domain.SubjectMatematik:
		return s.Matematik
	case domain.SubjectTurkce:
		return s.Turkce
	case domain.SubjectVatandaslik:
		return s.Vatandaslik
	}
	return ""
}

// WeeklyTask is one week of the calendar.
type WeeklyTask struct {
	WeekNumber   int
	DateRange    domain.DateRange
	DailyRoutine DailyRoutine
	Subjects     SubjectSlots
	WeeklyGoal   string
}

// MonthlyPlan groups the weeks attributed to one month.
type MonthlyPlan struct {
	Month domain.Month
	Year  int
	Weeks []WeeklyTask
}

// KarmaRule adds a mixed maths routine once problems stop being scheduled.
type KarmaRule struct {
	FromMonth    domain.Month
	Count        int
	Label        string
	TimerSeconds int
}

// Schedule carries the schedule-driven derivation rules.
type Schedule struct {
	TimedProblemMonths        []domain.Month
	ProblemSecondsPerQuestion int
	SpeedSecondsPerQuestion   int
	StudySpeedTimerSeconds    int
	Karma                     *KarmaRule
	QuestionBanks             map[domain.Subject]int
}

// IsTimedProblemMonth reports whether problem routines carry a timer in m.
func (s Schedule) IsTimedProblemMonth(m domain.Month) bool {
	for _, v := range s.TimedProblemMonths {
		if v == m {
			return true
		}
	}
	return false
}

// QuestionBank returns the fixed weekly question count of a subject.
func (s Schedule) QuestionBank(subject domain.Subject) int {
	return s.QuestionBanks[subject]
}

// DefaultQuestionBanks are the fixed per-subject weekly question counts.
var DefaultQuestionBanks = map[domain.Subject]int{
	domain.SubjectTarih:       27,
	domain.SubjectCografya:    18,
	domain.SubjectMatematik:   30,
	domain.SubjectTurkce:      25,
	domain.SubjectVatandaslik: 25,
}

// Plan is the immutable study calendar. Use a *Plan; the topic cache must
// not be copied.
type Plan struct {
	StartDate domain.Day
	EndDate   domain.Day
	Months    []MonthlyPlan
	Schedule  Schedule

	topicsOnce sync.Once
	topics     map[domain.Subject][]Topic
}

var (
	defaultOnce sync.Once
	defaultPlan *Plan
)

// Default returns the embedded calendar.
func Default() *Plan {
	defaultOnce.Do(func() {
		p, err := Parse(embeddedPlan)
		if err != nil {
			panic(fmt.Sprintf("embedded plan: %v", err))
		}
		defaultPlan = p
	})
	return defaultPlan
}

// LoadFile reads and validates a calendar from a YAML file.
func LoadFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading plan %s: %w", path, err)
	}
	return p, nil
}

type planDoc struct {
	StartDate string      `yaml:"startDate"`
	EndDate   string      `yaml:"endDate"`
	Schedule  scheduleDoc `yaml:"schedule"`
	Months    []monthDoc  `yaml:"months"`
}

type scheduleDoc struct {
	TimedProblemMonths        []string       `yaml:"timedProblemMonths"`
	ProblemSecondsPerQuestion int            `yaml:"problemSecondsPerQuestion"`
	SpeedSecondsPerQuestion   int            `yaml:"speedSecondsPerQuestion"`
	StudySpeedTimerSeconds    int            `yaml:"studySpeedTimerSeconds"`
	Karma                     *karmaDoc      `yaml:"karma"`
	QuestionBanks             map[string]int `yaml:"questionBanks"`
}

type karmaDoc struct {
	FromMonth    string `yaml:"fromMonth"`
	Count        int    `yaml:"count"`
	Label        string `yaml:"label"`
	TimerSeconds int    `yaml:"timerSeconds"`
}

type monthDoc struct {
	Month string    `yaml:"month"`
	Year  int       `yaml:"year"`
	Weeks []weekDoc `yaml:"weeks"`
}

type weekDoc struct {
	WeekNumber int `yaml:"weekNumber"`
	DateRange  struct {
		Start string `yaml:"start"`
		End   string `yaml:"end"`
	} `yaml:"dateRange"`
	DailyRoutine struct {
		Paragraphs     int `yaml:"paragraphs"`
		Problems       int `yaml:"problems"`
		SpeedQuestions int `yaml:"speedQuestions"`
	} `yaml:"dailyRoutine"`
	Subjects struct {
		Tarih       string `yaml:"tarih"`
		Cografya    string `yaml:"cografya"`
		Matematik   string `yaml:"matematik"`
		Turkce      string `yaml:"turkce"`
		Vatandaslik string `yaml:"vatandaslik"`
	} `yaml:"subjects"`
	WeeklyGoal string `yaml:"weeklyGoal"`
}

// Parse decodes a YAML calendar, reclassifies legacy citizenship topics and
// validates the result.
func Parse(data []byte) (*Plan, error) {
	var doc planDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding plan yaml: %w", err)
	}
	p, err := doc.build()
	if err != nil {
		return nil, err
	}
	reclassifyLegacyTopics(p)
	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (doc planDoc) build() (*Plan, error) {
	start, err := domain.ParseDay(doc.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: startDate: %v", ErrInvalidPlan, err)
	}
	end, err := domain.ParseDay(doc.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: endDate: %v", ErrInvalidPlan, err)
	}
	sched, err := doc.Schedule.build()
	if err != nil {
		return nil, err
	}

	p := &Plan{StartDate: start, EndDate: end, Schedule: sched}
	for mi, md := range doc.Months {
		month, err := domain.ParseMonth(md.Month)
		if err != nil {
			return nil, fmt.Errorf("%w: months[%d]: %v", ErrInvalidPlan, mi, err)
		}
		mp := MonthlyPlan{Month: month, Year: md.Year}
		for wi, wd := range md.Weeks {
			ws, err := domain.ParseDay(wd.DateRange.Start)
			if err != nil {
				return nil, fmt.Errorf("%w: %s week %d start: %v", ErrInvalidPlan, month, wi+1, err)
			}
			we, err := domain.ParseDay(wd.DateRange.End)
			if err != nil {
				return nil, fmt.Errorf("%w: %s week %d end: %v", ErrInvalidPlan, month, wi+1, err)
			}
			mp.Weeks = append(mp.Weeks, WeeklyTask{
				WeekNumber: wd.WeekNumber,
				DateRange:  domain.DateRange{Start: ws, End: we},
				DailyRoutine: DailyRoutine{
					Paragraphs:     wd.DailyRoutine.Paragraphs,
					Problems:       wd.DailyRoutine.Problems,
					SpeedQuestions: wd.DailyRoutine.SpeedQuestions,
				},
				Subjects: SubjectSlots{
					Tarih:       wd.Subjects.Tarih,
					Cografya:    wd.Subjects.Cografya,
					Matematik:   wd.Subjects.Matematik,
					Turkce:      wd.Subjects.Turkce,
					Vatandaslik: wd.Subjects.Vatandaslik,
				},
				WeeklyGoal: wd.WeeklyGoal,
			})
		}
		p.Months = append(p.Months, mp)
	}
	return p, nil
}

func (doc scheduleDoc) build() (Schedule, error) {
	s := Schedule{
		ProblemSecondsPerQuestion: doc.ProblemSecondsPerQuestion,
		SpeedSecondsPerQuestion:   doc.SpeedSecondsPerQuestion,
		StudySpeedTimerSeconds:    doc.StudySpeedTimerSeconds,
		QuestionBanks:             make(map[domain.Subject]int, len(DefaultQuestionBanks)),
	}
	if s.SpeedSecondsPerQuestion == 0 {
		s.SpeedSecondsPerQuestion = 60
	}
	if s.StudySpeedTimerSeconds == 0 {
		s.StudySpeedTimerSeconds = 900
	}
	for _, name := range doc.TimedProblemMonths {
		m, err := domain.ParseMonth(name)
		if err != nil {
			return Schedule{}, fmt.Errorf("%w: timedProblemMonths: %v", ErrInvalidPlan, err)
		}
		s.TimedProblemMonths = append(s.TimedProblemMonths, m)
	}
	if doc.Karma != nil {
		m, err := domain.ParseMonth(doc.Karma.FromMonth)
		if err != nil {
			return Schedule{}, fmt.Errorf("%w: karma.fromMonth: %v", ErrInvalidPlan, err)
		}
		s.Karma = &KarmaRule{
			FromMonth:    m,
			Count:        doc.Karma.Count,
			Label:        doc.Karma.Label,
			TimerSeconds: doc.Karma.TimerSeconds,
		}
	}
	for sub, n := range DefaultQuestionBanks {
		s.QuestionBanks[sub] = n
	}
	for slug, n := range doc.QuestionBanks {
		sub, ok := domain.SubjectFromSlug(slug)
		if !ok {
			return Schedule{}, fmt.Errorf("%w: questionBanks: unknown subject %q", ErrInvalidPlan, slug)
		}
		s.QuestionBanks[sub] = n
	}
	return s, nil
}
