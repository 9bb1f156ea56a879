package plan

import (
	"strings"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// sentinelTopics mark review or hand-in weeks that carry no new topic.
var sentinelTopics = map[string]bool{
	"KONU TESLİMİ": true,
	"ANALİZ":       true,
	"TEKRAR":       true,
}

// Topic is one subject topic taught during a plan week.
type Topic struct {
	ID         string
	Subject    domain.Subject
	Name       string
	WeekID     string
	Month      domain.Month
	Year       int
	WeekNumber int
	DateRange  domain.DateRange
}

// StudyTaskID is the id of the topic's study task on the week's first day.
func (t Topic) StudyTaskID() domain.TaskID {
	return domain.StudyTaskID(t.Subject, t.DateRange.Start)
}

// SubjectTopics returns the ordered topics of a subject. The list is built
// once per plan; callers must not modify it.
func (p *Plan) SubjectTopics(subject domain.Subject) []Topic {
	p.topicsOnce.Do(p.extractTopics)
	return p.topics[subject]
}

// TopicByID finds a topic across all subjects.
func (p *Plan) TopicByID(id string) (Topic, bool) {
	for _, sub := range domain.Subjects {
		for _, t := range p.SubjectTopics(sub) {
			if t.ID == id {
				return t, true
			}
		}
	}
	return Topic{}, false
}

// CurrentTopic returns the subject topic whose week contains day.
func (p *Plan) CurrentTopic(subject domain.Subject, day domain.Day) (Topic, bool) {
	for _, t := range p.SubjectTopics(subject) {
		if t.DateRange.Contains(day) {
			return t, true
		}
	}
	return Topic{}, false
}

func (p *Plan) extractTopics() {
	topics := make(map[domain.Subject][]Topic, len(domain.Subjects))
	for _, m := range p.Months {
		for _, w := range m.Weeks {
			weekID := WeekID(m.Year, m.Month, w.WeekNumber)
			for _, sub := range slotSubjects {
				name := w.Subjects.Topic(sub)
				if name == "" || sentinelTopics[strings.TrimSpace(name)] {
					continue
				}
				topics[sub] = append(topics[sub], Topic{
					ID:         sub.Slug() + "-" + weekID,
					Subject:    sub,
					Name:       name,
					WeekID:     weekID,
					Month:      m.Month,
					Year:       m.Year,
					WeekNumber: w.WeekNumber,
					DateRange:  w.DateRange,
				})
			}
		}
	}
	p.topics = topics
}
