package domain

import "fmt"

// Month is one of the seven Turkish month names the curriculum spans.
type Month string

const (
	MonthOcak    Month = "OCAK"
	MonthSubat   Month = "ŞUBAT"
	MonthMart    Month = "MART"
	MonthNisan   Month = "NİSAN"
	MonthMayis   Month = "MAYIS"
	MonthHaziran Month = "HAZİRAN"
	MonthTemmuz  Month = "TEMMUZ"
)

// Months lists the curriculum months in calendar order.
var Months = []Month{MonthOcak, MonthSubat, MonthMart, MonthNisan, MonthMayis, MonthHaziran, MonthTemmuz}

// Index returns the calendar position of m (0 for OCAK), or -1 when unknown.
func (m Month) Index() int {
	for i, v := range Months {
		if v == m {
			return i
		}
	}
	return -1
}

func (m Month) Valid() bool { return m.Index() >= 0 }

// Before reports whether m comes strictly before other in calendar order.
func (m Month) Before(other Month) bool {
	return m.Index() < other.Index()
}

// ParseMonth accepts the canonical spelling or an ASCII-folded variant
// ("SUBAT", "NISAN", "HAZIRAN").
func ParseMonth(s string) (Month, error) {
	for _, m := range Months {
		if string(m) == s || foldASCII(string(m)) == foldASCII(s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown month %q", s)
}

// Subject is a curriculum subject.
type Subject string

const (
	SubjectTarih       Subject = "TARİH"
	SubjectCografya    Subject = "COĞRAFYA"
	SubjectMatematik   Subject = "MATEMATİK"
	SubjectTurkce      Subject = "TÜRKÇE"
	SubjectVatandaslik Subject = "VATANDAŞLIK"
)

// Subjects lists every subject in display order.
var Subjects = []Subject{SubjectTarih, SubjectCografya, SubjectMatematik, SubjectTurkce, SubjectVatandaslik}

var subjectSlugs = map[Subject]string{
	SubjectTarih:       "tarih",
	SubjectCografya:    "cografya",
	SubjectMatematik:   "matematik",
	SubjectTurkce:      "turkce",
	SubjectVatandaslik: "vatandaslik",
}

// Slug returns the ASCII key used in task ids, plan slots and exam results.
func (s Subject) Slug() string {
	return subjectSlugs[s]
}

func (s Subject) Valid() bool {
	_, ok := subjectSlugs[s]
	return ok
}

// SubjectFromSlug maps an ASCII slug back to its subject.
func SubjectFromSlug(slug string) (Subject, bool) {
	for s, v := range subjectSlugs {
		if v == slug {
			return s, true
		}
	}
	return "", false
}

// ParseSubject accepts either the display name or the slug.
func ParseSubject(s string) (Subject, error) {
	if sub, ok := SubjectFromSlug(s); ok {
		return sub, nil
	}
	for _, sub := range Subjects {
		if string(sub) == s || foldASCII(string(sub)) == foldASCII(s) {
			return sub, nil
		}
	}
	return "", fmt.Errorf("unknown subject %q", s)
}

// TaskType classifies a schedulable task.
type TaskType string

const (
	TaskRoutine TaskType = "routine"
	TaskStudy   TaskType = "study"
	TaskSpeed   TaskType = "speed"
	TaskExam    TaskType = "exam"
)

// ValidTaskTypes is the canonical set of accepted task type strings.
var ValidTaskTypes = map[TaskType]bool{
	TaskRoutine: true, TaskStudy: true, TaskSpeed: true, TaskExam: true,
}

// RoutineKind identifies a daily routine quota.
type RoutineKind string

const (
	RoutineParagraph RoutineKind = "paragraph"
	RoutineProblem   RoutineKind = "problem"
	RoutineSpeed     RoutineKind = "speed"
	RoutineKarma     RoutineKind = "karma"
)

func (k RoutineKind) Valid() bool {
	switch k {
	case RoutineParagraph, RoutineProblem, RoutineSpeed, RoutineKarma:
		return true
	}
	return false
}

// ExamType classifies a practice exam.
type ExamType string

const (
	ExamBranch  ExamType = "branch"
	ExamGeneral ExamType = "general"
	ExamTG      ExamType = "tg"
)

func (t ExamType) Valid() bool {
	switch t {
	case ExamBranch, ExamGeneral, ExamTG:
		return true
	}
	return false
}

var asciiFold = map[rune]rune{
	'Ç': 'C', 'Ğ': 'G', 'İ': 'I', 'Ö': 'O', 'Ş': 'S', 'Ü': 'U',
	'ç': 'C', 'ğ': 'G', 'ı': 'I', 'ö': 'O', 'ş': 'S', 'ü': 'U',
}

func foldASCII(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if f, ok := asciiFold[r]; ok {
			r = f
		} else if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}
