package plan

import (
	"strings"

	"github.com/alexanderramin/studyplan/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// citizenshipKeywords mark a legacy Türkçe slot that actually holds a
// Vatandaşlık topic.
var citizenshipKeywords = []string{"HUKUK", "ANAYASA", "YASAMA", "YÜRÜTME", "YARGI", "VATANDAŞLIK", "GÜNCEL"}

var turkishUpper = cases.Upper(language.Turkish)

// IsCitizenshipTopic reports whether a topic name belongs to Vatandaşlık.
func IsCitizenshipTopic(name string) bool {
	upper := turkishUpper.String(name)
	for _, kw := range citizenshipKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// reclassifyLegacyTopics moves citizenship topics authored in the Türkçe slot
// into the explicit Vatandaşlık slot. Weeks that already set vatandaslik are
// left alone.
func reclassifyLegacyTopics(p *Plan) {
	for mi := range p.Months {
		for wi := range p.Months[mi].Weeks {
			s := &p.Months[mi].Weeks[wi].Subjects
			if s.Vatandaslik != "" || s.Turkce == "" {
				continue
			}
			if IsCitizenshipTopic(s.Turkce) {
				s.Vatandaslik, s.Turkce = s.Turkce, ""
			}
		}
	}
}

// slotSubjects lists the subject slots in display order.
var slotSubjects = []domain.Subject{
	domain.SubjectTarih,
	domain.SubjectCografya,
	domain.SubjectMatematik,
	domain.SubjectTurkce,
	domain.SubjectVatandaslik,
}

// citizenshipFromTurkce reports whether the week's Vatandaşlık topic sits
// where older data kept it: the Türkçe slot.
func (s SubjectSlots) citizenshipFromTurkce() bool {
	return s.Turkce == "" && s.Vatandaslik != ""
}

// CanonicalTaskID maps a Türkçe study-task id recorded on a week whose topic
// is now a Vatandaşlık slot onto the Vatandaşlık id for the same day. Older
// ledgers record those completions as task-turkce-<date>. Other ids are
// returned as is.
func (p *Plan) CanonicalTaskID(id domain.TaskID) domain.TaskID {
	sub, ok := id.Subject()
	if !ok || sub != domain.SubjectTurkce {
		return id
	}
	ref, ok := p.Lookup(id.Date)
	if !ok || !ref.Week.Subjects.citizenshipFromTurkce() {
		return id
	}
	return domain.StudyTaskID(domain.SubjectVatandaslik, id.Date)
}

// Completions returns the day's ledger keyed by canonical task id. An entry
// stored under the canonical id wins over one stored under a legacy id.
func (p *Plan) Completions(d domain.DailyProgress) map[string]domain.TaskCompletion {
	out := make(map[string]domain.TaskCompletion, len(d.Tasks))
	exact := make(map[string]bool, len(d.Tasks))
	for _, tc := range d.Tasks {
		canon := p.CanonicalTaskID(tc.TaskID)
		key := canon.String()
		isExact := canon.Equal(tc.TaskID)
		if exact[key] && !isExact {
			continue
		}
		tc.TaskID = canon
		out[key] = tc
		exact[key] = exact[key] || isExact
	}
	return out
}
