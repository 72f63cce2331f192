// Package eligibility provides the pure, stateless predicates that classify
// records into the subsets the indicator formulas require. No function here
// has side effects or touches anything outside its arguments.
package eligibility

import (
	"github.com/ppgmetrics/engiv/internal/domain/model"
)

// IsPermanentInYear reports whether the faculty member holds the Permanent
// category in the given year.
func IsPermanentInYear(f model.Faculty, year int) bool {
	return f.CategoryIn(year) == model.Permanent
}

// PermanentIn returns the permanent faculty for the year. Its length is the
// DP denominator. Returns model.ErrInvalidPeriod when year lies outside the
// snapshot's evaluation period.
func PermanentIn(s *model.Snapshot, year int) ([]model.Faculty, error) {
	if err := s.Period.Check(year); err != nil {
		return nil, err
	}
	var out []model.Faculty
	for _, f := range s.Faculty {
		if IsPermanentInYear(f, year) {
			out = append(out, f)
		}
	}
	return out, nil
}

// IsQualifyingPublication reports whether the publication counts for
// weighted production sums: a journal article in strata A1 through B4.
func IsQualifyingPublication(p model.Publication) bool {
	return p.Kind == model.Journal && p.Stratum.Qualifying()
}

// IsCompletedInYear reports whether the student defended in the given year.
func IsCompletedInYear(st model.Student, year int) bool {
	y, ok := st.DefenseYear()
	return ok && y == year
}

// CompletedIn returns the students who defended in the year, optionally
// restricted to one degree level (empty level means both). Returns
// model.ErrInvalidPeriod when year lies outside the evaluation period.
func CompletedIn(s *model.Snapshot, year int, level model.Level) ([]model.Student, error) {
	if err := s.Period.Check(year); err != nil {
		return nil, err
	}
	var out []model.Student
	for _, st := range s.Students {
		if !IsCompletedInYear(st, year) {
			continue
		}
		if level != "" && st.Level != level {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

// IsEligibleAdvisor reports whether the faculty member is permanent in some
// period year and advised at least one defense inside the period.
func IsEligibleAdvisor(s *model.Snapshot, f model.Faculty) bool {
	permanent := false
	for _, y := range s.Period.Years() {
		if IsPermanentInYear(f, y) {
			permanent = true
			break
		}
	}
	if !permanent {
		return false
	}
	for _, st := range s.Students {
		if st.AdvisorID != f.ID {
			continue
		}
		if y, ok := st.DefenseYear(); ok && s.Period.Contains(y) {
			return true
		}
	}
	return false
}

// IsYoungDoctorate reports whether a non-permanent faculty member earned
// the doctorate within horizon years of the evaluation year. Publications
// by young-doctorate collaborators enter production numerators while their
// authors stay out of DP.
func IsYoungDoctorate(f model.Faculty, year, horizon int) bool {
	if IsPermanentInYear(f, year) {
		return false
	}
	if f.DoctorateYear == 0 || horizon <= 0 {
		return false
	}
	return year-f.DoctorateYear >= 0 && year-f.DoctorateYear <= horizon
}

// Cohort splits a student set into terminal outcomes for completion rates.
// InProgress students are not part of any cohort.
type Cohort struct {
	Defended  int
	Withdrawn int
}

// Size is the number of students with a terminal outcome.
func (c Cohort) Size() int { return c.Defended + c.Withdrawn }

// CohortIn builds the terminal-outcome cohort of students whose outcome was
// reached in the given year.
func CohortIn(s *model.Snapshot, year int, level model.Level) (Cohort, error) {
	if err := s.Period.Check(year); err != nil {
		return Cohort{}, err
	}
	var c Cohort
	for _, st := range s.Students {
		if level != "" && st.Level != level {
			continue
		}
		y, ok := st.TerminalYear()
		if !ok || y != year {
			continue
		}
		switch st.Outcome {
		case model.Defended:
			c.Defended++
		case model.Withdrawn:
			c.Withdrawn++
		}
	}
	return c, nil
}
