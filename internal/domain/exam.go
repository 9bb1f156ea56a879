package domain

import (
	"fmt"
	"strings"
	"time"
)

// ExamKey names one entry of an exam's results.
type ExamKey string

const (
	ResultTurkce      ExamKey = "turkce"
	ResultMatematik   ExamKey = "matematik"
	ResultTarih       ExamKey = "tarih"
	ResultCografya    ExamKey = "cografya"
	ResultVatandaslik ExamKey = "vatandaslik"
	ResultTotal       ExamKey = "total"
)

// SubjectResultKeys are the per-subject keys a general exam is scored on.
var SubjectResultKeys = []ExamKey{ResultTurkce, ResultMatematik, ResultTarih, ResultCografya, ResultVatandaslik}

func (k ExamKey) Valid() bool {
	if k == ResultTotal {
		return true
	}
	for _, s := range SubjectResultKeys {
		if s == k {
			return true
		}
	}
	return false
}

// ResultKeyFor returns the results key of a subject.
func ResultKeyFor(s Subject) ExamKey {
	return ExamKey(s.Slug())
}

// ExamResult is the score sheet for one subject or the whole exam.
type ExamResult struct {
	Correct int     `json:"correct"`
	Wrong   int     `json:"wrong"`
	Empty   int     `json:"empty"`
	Net     float64 `json:"net"`
}

// IsZero reports whether no answer counts were recorded.
func (r ExamResult) IsZero() bool {
	return r.Correct == 0 && r.Wrong == 0 && r.Empty == 0
}

// ExamResults maps a subject key (or total) to its score sheet.
type ExamResults map[ExamKey]ExamResult

func (r ExamResults) Clone() ExamResults {
	if r == nil {
		return nil
	}
	out := make(ExamResults, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Total returns the total entry, if any.
func (r ExamResults) Total() (ExamResult, bool) {
	t, ok := r[ResultTotal]
	return t, ok
}

// Exam is a practice exam the user scheduled or took.
type Exam struct {
	ID        TaskID      `json:"id"`
	Title     string      `json:"title"`
	Type      ExamType    `json:"type"`
	Subject   *Subject    `json:"subject,omitempty"`
	Date      Day         `json:"date"`
	CreatedAt time.Time   `json:"createdAt"`
	Completed bool        `json:"completed"`
	Results   ExamResults `json:"results,omitempty"`
}

func (e Exam) Clone() Exam {
	out := e
	if e.Subject != nil {
		s := *e.Subject
		out.Subject = &s
	}
	out.Results = e.Results.Clone()
	return out
}

// NewExam is the caller-supplied part of an exam.
type NewExam struct {
	Title   string
	Type    ExamType
	Subject *Subject
	Date    Day
	Results ExamResults
}

func (n NewExam) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return NewValidationError("title", "must not be empty")
	}
	if !n.Type.Valid() {
		return NewValidationError("type", fmt.Sprintf("unknown exam type %q", n.Type))
	}
	if n.Type == ExamBranch && n.Subject == nil {
		return NewValidationError("subject", "is required for branch exams")
	}
	if n.Subject != nil && !n.Subject.Valid() {
		return NewValidationError("subject", fmt.Sprintf("unknown subject %q", *n.Subject))
	}
	if n.Date.IsZero() {
		return NewValidationError("date", "is required")
	}
	return nil
}

// ExamPatch is a partial update; nil fields are left untouched.
type ExamPatch struct {
	Completed *bool
	Results   ExamResults
}

// DefaultExamTitle is the title offered when the user leaves it blank.
func DefaultExamTitle(t ExamType, subject *Subject) string {
	switch t {
	case ExamBranch:
		if subject != nil {
			return string(*subject) + " Branş Denemesi"
		}
		return "Branş Denemesi"
	case ExamTG:
		return "Türkiye Geneli Deneme"
	default:
		return "Genel Deneme"
	}
}
