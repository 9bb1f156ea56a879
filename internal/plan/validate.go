package plan

import (
	"errors"
	"fmt"
)

// ErrInvalidPlan wraps every structural problem found in a calendar.
var ErrInvalidPlan = errors.New("invalid study plan")

// ValidateStructure checks a Plan for structural errors.
// Returns a slice of errors (empty if valid).
func ValidateStructure(p *Plan) []error {
	var errs []error

	if p.EndDate.Before(p.StartDate) {
		errs = append(errs, fmt.Errorf("endDate %s is before startDate %s", p.EndDate, p.StartDate))
	}
	if len(p.Months) == 0 {
		errs = append(errs, fmt.Errorf("at least one month is required"))
		return errs
	}

	// Weeks must tile [startDate, endDate] in iteration order.
	var prev *WeeklyTask
	var prevLabel string
	for mi, m := range p.Months {
		if !m.Month.Valid() {
			errs = append(errs, fmt.Errorf("months[%d]: unknown month %q", mi, m.Month))
		}
		if len(m.Weeks) == 0 {
			errs = append(errs, fmt.Errorf("months[%d] %s: at least one week is required", mi, m.Month))
		}
		for wi := range m.Weeks {
			w := &m.Weeks[wi]
			label := fmt.Sprintf("%s week %d", m.Month, w.WeekNumber)

			if w.DateRange.End.Before(w.DateRange.Start) {
				errs = append(errs, fmt.Errorf("%s: end %s is before start %s", label, w.DateRange.End, w.DateRange.Start))
			}
			if w.DailyRoutine.Paragraphs < 0 || w.DailyRoutine.Problems < 0 || w.DailyRoutine.SpeedQuestions < 0 {
				errs = append(errs, fmt.Errorf("%s: daily routine quotas must not be negative", label))
			}
			if prev == nil {
				if !w.DateRange.Start.Equal(p.StartDate) {
					errs = append(errs, fmt.Errorf("%s: first week starts %s, plan starts %s", label, w.DateRange.Start, p.StartDate))
				}
			} else {
				want := prev.DateRange.End.AddDays(1)
				switch {
				case w.DateRange.Start.Before(want):
					errs = append(errs, fmt.Errorf("%s overlaps %s", label, prevLabel))
				case w.DateRange.Start.After(want):
					errs = append(errs, fmt.Errorf("gap between %s and %s: %s..%s uncovered",
						prevLabel, label, want, w.DateRange.Start.AddDays(-1)))
				}
			}
			prev, prevLabel = w, label
		}
	}
	if prev != nil && !prev.DateRange.End.Equal(p.EndDate) {
		errs = append(errs, fmt.Errorf("%s: last week ends %s, plan ends %s", prevLabel, prev.DateRange.End, p.EndDate))
	}
	return errs
}

// Validate joins ValidateStructure's findings under ErrInvalidPlan.
func Validate(p *Plan) error {
	errs := ValidateStructure(p)
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidPlan, errors.Join(errs...))
}
