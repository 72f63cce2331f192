package indicator

import (
	"github.com/ppgmetrics/engiv/internal/domain/eligibility"
	"github.com/ppgmetrics/engiv/internal/domain/model"
	"github.com/ppgmetrics/engiv/internal/domain/result"
)

const familyFaculty = "faculty"

func (r *Registry) registerFaculty() {
	r.add("total_docentes_permanentes", familyFaculty, KindCount, r.totalPermanent)
	r.add("for", familyFaculty, KindPercent, r.forPQ)
	r.add("fordt", familyFaculty, KindPercent, r.forDT)
	r.add("for_fordt", familyFaculty, KindPercent, r.forBlended)
	r.add("for_h", familyFaculty, KindIndex, r.forH)
	r.add("ded", familyFaculty, KindRatio, r.ded)
	r.add("d3a", familyFaculty, KindPercent, r.d3a)
	r.add("ade1", familyFaculty, KindPercent, r.ade1)
	r.add("ade2", familyFaculty, KindPercent, r.ade2)
	r.add("ati", familyFaculty, KindIndex, r.workloadPerPermanent(model.GraduateLevel))
	r.add("atg1", familyFaculty, KindIndex, r.workloadPerPermanent(model.UndergraduateLevel))
	r.add("atg2", familyFaculty, KindIndex, r.atg2)
}

// totalPermanent counts DP for the year. A count, so zero when empty.
func (r *Registry) totalPermanent(s *model.Snapshot, year int) Outcome {
	permanent, err := eligibility.PermanentIn(s, year)
	if err != nil {
		return failure(err)
	}
	return value(float64(len(permanent)))
}

// forPQ is the share of permanent faculty holding a research-productivity
// scholarship, a proxy for scientific maturity.
func (r *Registry) forPQ(s *model.Snapshot, year int) Outcome {
	return r.facultyShare(s, year, func(f model.Faculty) bool { return f.PQScholar })
}

// forDT is the share of permanent faculty holding a tech-development
// scholarship.
func (r *Registry) forDT(s *model.Snapshot, year int) Outcome {
	return r.facultyShare(s, year, func(f model.Faculty) bool { return f.DTScholar })
}

// forBlended combines FOR and FORDT under the program-type weight table.
// The same blend applies wherever the two are combined; it is configuration,
// not a per-indicator special case.
func (r *Registry) forBlended(s *model.Snapshot, year int) Outcome {
	blend, ok := r.blends[s.Program]
	if !ok {
		return failure(model.ErrUnknownProgramType)
	}
	forOut := r.forPQ(s, year)
	fordtOut := r.forDT(s, year)
	forVal, okFor := forOut.Value.Float()
	fordtVal, okFordt := fordtOut.Value.Float()
	if !okFor || !okFordt {
		// Propagate whichever side is undefined or failed.
		if forOut.Value.State() != result.StateValue {
			return forOut
		}
		return fordtOut
	}
	return value(blend.Apply(forVal, fordtVal))
}

// forH is the mean external bibliometric index of permanent faculty,
// normalized by years since the doctorate. Faculty without a collected
// index are excluded and flagged through the completeness bit rather than
// dragging the mean down.
func (r *Registry) forH(s *model.Snapshot, year int) Outcome {
	permanent, err := eligibility.PermanentIn(s, year)
	if err != nil {
		return failure(err)
	}
	if len(permanent) == 0 {
		return r.indeterminate()
	}

	var sum float64
	counted := 0
	missing := 0
	for _, f := range permanent {
		if f.HIndex == nil {
			missing++
			continue
		}
		years := year - f.DoctorateYear
		if years < 1 {
			years = 1
		}
		sum += *f.HIndex / float64(years)
		counted++
	}
	if counted == 0 {
		return Outcome{Value: result.NoData(), Complete: false}
	}
	return Outcome{Value: result.Of(sum / float64(counted)), Complete: missing == 0}
}

// ded is the fraction of permanent faculty exclusively dedicated to the
// program. No bonus adjustments apply.
func (r *Registry) ded(s *model.Snapshot, year int) Outcome {
	permanent, err := eligibility.PermanentIn(s, year)
	if err != nil {
		return failure(err)
	}
	dp := len(permanent)
	if dp == 0 {
		return r.indeterminate()
	}
	exclusive := 0
	for _, f := range permanent {
		if f.Exclusive {
			exclusive++
		}
	}
	return value(float64(exclusive) / float64(dp))
}

// d3a is the share of permanent faculty intensely involved in research:
// contributing any qualifying item, publication or patent, in the year.
func (r *Registry) d3a(s *model.Snapshot, year int) Outcome {
	return r.facultyShare(s, year, func(f model.Faculty) bool {
		for _, p := range s.Publications {
			if p.Year == year && eligibility.IsQualifyingPublication(p) && hasID(p.FacultyIDs, f.ID) {
				return true
			}
		}
		for _, p := range s.Patents {
			if !hasID(p.FacultyIDs, f.ID) {
				continue
			}
			if p.EventIn(model.Filed, year) || p.EventIn(model.Granted, year) {
				return true
			}
		}
		return false
	})
}

// ade1 is the share of graduate course workload hours attributed to
// collaborating or visiting instructors. Hours split evenly among a
// course's instructors.
func (r *Registry) ade1(s *model.Snapshot, year int) Outcome {
	var total, external float64
	complete := true
	for _, c := range s.Courses {
		if c.Year != year || c.Level != model.GraduateLevel || !c.Offered {
			continue
		}
		total += c.WorkloadHours
		if len(c.InstructorIDs) == 0 {
			complete = false
			continue
		}
		share := c.WorkloadHours / float64(len(c.InstructorIDs))
		for _, id := range c.InstructorIDs {
			if f, ok := s.FacultyByID(id); ok && f.External(year) {
				external += share
			}
		}
	}
	if total == 0 {
		return r.indeterminate()
	}
	out := value(external / total * 100)
	out.Complete = complete
	return out
}

// ade2 is the share of the year's defended theses and dissertations advised
// by collaborating or visiting faculty.
func (r *Registry) ade2(s *model.Snapshot, year int) Outcome {
	defended, err := eligibility.CompletedIn(s, year, "")
	if err != nil {
		return failure(err)
	}
	if len(defended) == 0 {
		return r.indeterminate()
	}
	external := 0
	complete := true
	for _, st := range defended {
		if st.AdvisorID == "" {
			complete = false
			continue
		}
		if f, ok := s.FacultyByID(st.AdvisorID); ok && f.External(year) {
			external++
		}
	}
	out := value(float64(external) / float64(len(defended)) * 100)
	out.Complete = complete
	return out
}

// workloadPerPermanent is the mean annual workload hours taught by
// permanent faculty at one course level, per permanent faculty member.
func (r *Registry) workloadPerPermanent(level model.CourseLevel) Func {
	return func(s *model.Snapshot, year int) Outcome {
		permanent, err := eligibility.PermanentIn(s, year)
		if err != nil {
			return failure(err)
		}
		dp := len(permanent)
		if dp == 0 {
			return r.indeterminate()
		}
		var hours float64
		for _, c := range s.Courses {
			if c.Year != year || c.Level != level || !c.Offered || len(c.InstructorIDs) == 0 {
				continue
			}
			share := c.WorkloadHours / float64(len(c.InstructorIDs))
			for _, id := range c.InstructorIDs {
				if f, ok := s.FacultyByID(id); ok && eligibility.IsPermanentInYear(f, year) {
					hours += share
				}
			}
		}
		return value(hours / float64(dp))
	}
}

// atg2 is the mean number of undergraduate research students advised per
// permanent faculty member in the year.
func (r *Registry) atg2(s *model.Snapshot, year int) Outcome {
	permanent, err := eligibility.PermanentIn(s, year)
	if err != nil {
		return failure(err)
	}
	dp := len(permanent)
	if dp == 0 {
		return r.indeterminate()
	}
	total := 0
	for _, f := range permanent {
		total += f.UndergradOrientations[year]
	}
	return value(float64(total) / float64(dp))
}
