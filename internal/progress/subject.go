package progress

import (
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/plan"
)

// SubjectProgress is topic completion for one subject.
type SubjectProgress struct {
	Subject      domain.Subject
	Completed    int
	Total        int
	Percentage   int
	CurrentTopic *plan.Topic
}

// Subject counts the plan topics of a subject whose study task on the
// topic's first week day has a completed ledger entry on any date.
// CurrentTopic is the topic whose week contains today, if any.
func Subject(p *plan.Plan, subject domain.Subject, up *domain.UserProgress, today domain.Day) SubjectProgress {
	topics := p.SubjectTopics(subject)
	out := SubjectProgress{Subject: subject, Total: len(topics)}

	done := completedIDs(p, up)
	for _, t := range topics {
		if done[t.StudyTaskID().String()] {
			out.Completed++
		}
	}
	out.Percentage = percentage(out.Completed, out.Total)

	if t, ok := p.CurrentTopic(subject, today); ok {
		out.CurrentTopic = &t
	}
	return out
}

// AllSubjects runs Subject for every subject in display order.
func AllSubjects(p *plan.Plan, up *domain.UserProgress, today domain.Day) []SubjectProgress {
	out := make([]SubjectProgress, 0, len(domain.Subjects))
	for _, s := range domain.Subjects {
		out = append(out, Subject(p, s, up, today))
	}
	return out
}

func completedIDs(p *plan.Plan, up *domain.UserProgress) map[string]bool {
	done := map[string]bool{}
	if up == nil {
		return done
	}
	for _, d := range up.Daily {
		for key, t := range p.Completions(d) {
			if t.Completed {
				done[key] = true
			}
		}
	}
	return done
}
