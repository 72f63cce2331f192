package indicator

import (
	"sort"

	"github.com/ppgmetrics/engiv/internal/domain/eligibility"
	"github.com/ppgmetrics/engiv/internal/domain/model"
)

// ORI weights: one per titled master, three per titled doctor.
const (
	oriMastersWeight  = 1.0
	oriDoctoralWeight = 3.0
)

const familyOrientation = "orientation"

func (r *Registry) registerOrientation() {
	r.add("ori", familyOrientation, KindIndex, r.ori)
	r.add("pdo", familyOrientation, KindPercent, r.pdo)
	r.add("completion_rate", familyOrientation, KindRatio, r.completionRate)
	r.add("ttd_mean_mest", familyOrientation, KindMonths, timeToDegree(model.Masters, mean))
	r.add("ttd_median_mest", familyOrientation, KindMonths, timeToDegree(model.Masters, median))
	r.add("ttd_mean_dout", familyOrientation, KindMonths, timeToDegree(model.Doctoral, mean))
	r.add("ttd_median_dout", familyOrientation, KindMonths, timeToDegree(model.Doctoral, median))
	r.add("total_mestres_titulados", familyOrientation, KindCount, countTitled(model.Masters))
	r.add("total_doutores_titulados", familyOrientation, KindCount, countTitled(model.Doctoral))
}

// ori measures the intensity of high-level human resource formation:
// (masters*1 + doctors*3) / DP. Programs that offer only the master's level
// drop the doctoral term from the formula entirely.
func (r *Registry) ori(s *model.Snapshot, year int) Outcome {
	permanent, err := eligibility.PermanentIn(s, year)
	if err != nil {
		return failure(err)
	}
	dp := len(permanent)
	if dp == 0 {
		return r.indeterminate()
	}

	masters, err := eligibility.CompletedIn(s, year, model.Masters)
	if err != nil {
		return failure(err)
	}
	numerator := oriMastersWeight * float64(len(masters))

	if offersDoctoral(s) {
		doctors, derr := eligibility.CompletedIn(s, year, model.Doctoral)
		if derr != nil {
			return failure(derr)
		}
		numerator += oriDoctoralWeight * float64(len(doctors))
	}

	return value(numerator / float64(dp))
}

// offersDoctoral reports whether the program has any doctoral student on
// record.
func offersDoctoral(s *model.Snapshot) bool {
	for _, st := range s.Students {
		if st.Level == model.Doctoral {
			return true
		}
	}
	return false
}

// pdo is the share of permanent faculty with at least one completed
// orientation in the year.
func (r *Registry) pdo(s *model.Snapshot, year int) Outcome {
	permanent, err := eligibility.PermanentIn(s, year)
	if err != nil {
		return failure(err)
	}
	dp := len(permanent)
	if dp == 0 {
		return r.indeterminate()
	}

	advised := make(map[string]bool)
	for _, st := range s.Students {
		if eligibility.IsCompletedInYear(st, year) && st.AdvisorID != "" {
			advised[st.AdvisorID] = true
		}
	}

	count := 0
	for _, f := range permanent {
		if advised[f.ID] {
			count++
		}
	}
	return r.percentOf(float64(count), dp)
}

// completionRate is defended over defended-plus-withdrawn for the year's
// terminal cohort. An empty cohort is NoData, never zero.
func (r *Registry) completionRate(s *model.Snapshot, year int) Outcome {
	cohort, err := eligibility.CohortIn(s, year, "")
	if err != nil {
		return failure(err)
	}
	if cohort.Size() == 0 {
		return r.indeterminate()
	}
	return value(float64(cohort.Defended) / float64(cohort.Size()))
}

// countTitled counts the level's defenses in the year. Counts are plain
// values: zero when empty, never NoData.
func countTitled(level model.Level) Func {
	return func(s *model.Snapshot, year int) Outcome {
		completed, err := eligibility.CompletedIn(s, year, level)
		if err != nil {
			return failure(err)
		}
		return value(float64(len(completed)))
	}
}

// aggregate reduces a non-empty slice of month counts.
type aggregate func(months []int) float64

func mean(months []int) float64 {
	total := 0
	for _, m := range months {
		total += m
	}
	return float64(total) / float64(len(months))
}

func median(months []int) float64 {
	sorted := make([]int, len(months))
	copy(sorted, months)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

// timeToDegree aggregates whole months from enrollment to defense over the
// students of one level who defended in the year. Defined only over
// defended students; an empty set is NoData so callers can tell "0 months"
// from "undefined".
func timeToDegree(level model.Level, agg aggregate) Func {
	return func(s *model.Snapshot, year int) Outcome {
		completed, err := eligibility.CompletedIn(s, year, level)
		if err != nil {
			return failure(err)
		}
		var months []int
		for _, st := range completed {
			if m, ok := st.MonthsToDefense(); ok {
				months = append(months, m)
			}
		}
		if len(months) == 0 {
			return noData()
		}
		return value(agg(months))
	}
}
