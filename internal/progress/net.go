// Package progress computes the read-side aggregates (exam nets, weekly and
// monthly completion, per-subject progress) from a UserProgress snapshot.
// Every calculator degrades to a zero value on missing data.
package progress

import (
	"fmt"
	"math"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// WrongPerCorrect is how many wrong answers cancel one correct answer.
const WrongPerCorrect = 4

// Net returns correct - wrong/4, never below zero.
func Net(correct, wrong int) float64 {
	return math.Max(0, float64(correct)-float64(wrong)/WrongPerCorrect)
}

// Score fills in the net of a single score sheet.
func Score(r domain.ExamResult) domain.ExamResult {
	r.Net = Net(r.Correct, r.Wrong)
	return r
}

// NormalizeResults validates exam results and recomputes every net. When any
// subject entry is present the total is rebuilt from the summed answer counts
// with its net recomputed; per-subject nets are never added up. Subject
// entries with no answers recorded are dropped.
func NormalizeResults(results domain.ExamResults) (domain.ExamResults, error) {
	if len(results) == 0 {
		return nil, nil
	}
	out := make(domain.ExamResults, len(results))
	for k, r := range results {
		if !k.Valid() {
			return nil, domain.NewValidationError("results", fmt.Sprintf("unknown result key %q", k))
		}
		if r.Correct < 0 || r.Wrong < 0 || r.Empty < 0 {
			return nil, domain.NewValidationError("results."+string(k), "answer counts must not be negative")
		}
		if k != domain.ResultTotal && r.IsZero() {
			continue
		}
		out[k] = Score(r)
	}

	var sum domain.ExamResult
	subjects := 0
	for _, k := range domain.SubjectResultKeys {
		r, ok := out[k]
		if !ok {
			continue
		}
		subjects++
		sum.Correct += r.Correct
		sum.Wrong += r.Wrong
		sum.Empty += r.Empty
	}
	if subjects > 0 {
		out[domain.ResultTotal] = Score(sum)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// MergeResults overlays patch onto base key by key and renormalizes.
func MergeResults(base, patch domain.ExamResults) (domain.ExamResults, error) {
	merged := base.Clone()
	if merged == nil {
		merged = domain.ExamResults{}
	}
	for k, r := range patch {
		merged[k] = r
	}
	// A patch that only carries subject entries must not keep a stale total.
	for k := range patch {
		if k != domain.ResultTotal {
			delete(merged, domain.ResultTotal)
			break
		}
	}
	return NormalizeResults(merged)
}

func percentage(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	pct := int(math.Round(float64(part) / float64(whole) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
