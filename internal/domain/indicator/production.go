package indicator

import (
	"github.com/ppgmetrics/engiv/internal/domain/eligibility"
	"github.com/ppgmetrics/engiv/internal/domain/model"
)

// conferenceWorkWeight is the per-item credit added to the master's
// student-production numerator for complete conference works with a student
// author.
const conferenceWorkWeight = 0.15

const familyProduction = "production"

func (r *Registry) registerProduction() {
	r.add("dpi_docente", familyProduction, KindIndex, r.dpiDocente)
	r.add("dpi_discente_dout", familyProduction, KindIndex, r.dpiDiscente(model.Doctoral))
	r.add("dpi_discente_mest", familyProduction, KindIndex, r.dpiDiscente(model.Masters))
	r.add("dpd", familyProduction, KindPercent, r.dpd)
	r.add("dtd", familyProduction, KindPercent, r.dtd)
	r.add("ader", familyProduction, KindPercent, r.ader)
	r.add("total_periodicos", familyProduction, KindCount, countPublications(model.Journal))
	r.add("total_conferencias", familyProduction, KindCount, countPublications(model.Conference))
}

// weightedSum is the shared production primitive: the sum of Qualis stratum
// weights over qualifying publications that pass the filter.
func weightedSum(s *model.Snapshot, year int, keep func(model.Publication) bool) float64 {
	var sum float64
	for _, p := range s.Publications {
		if p.Year != year || !eligibility.IsQualifyingPublication(p) {
			continue
		}
		if keep != nil && !keep(p) {
			continue
		}
		sum += p.Stratum.Weight()
	}
	return sum
}

// bonusSum adds the memoized patent bonuses for the year that pass the
// filter. Bonuses apply at the qualifying transition year only.
func bonusSum(s *model.Snapshot, year int, keep func(model.PatentBonus) bool) float64 {
	var sum float64
	for _, b := range s.BonusesIn(year) {
		if keep != nil && !keep(b) {
			continue
		}
		sum += b.Weight
	}
	return sum
}

// dpiDocente estimates faculty production quality: the weighted stratum sum
// of faculty-authored publications plus patent bonuses, over DP.
// Publications by young-doctorate collaborators enter the numerator; their
// authors never enter DP.
func (r *Registry) dpiDocente(s *model.Snapshot, year int) Outcome {
	permanent, err := eligibility.PermanentIn(s, year)
	if err != nil {
		return failure(err)
	}
	dp := len(permanent)
	if dp == 0 {
		return r.indeterminate()
	}

	counted := func(p model.Publication) bool {
		for _, id := range p.FacultyIDs {
			f, ok := s.FacultyByID(id)
			if !ok {
				continue
			}
			if eligibility.IsPermanentInYear(f, year) || eligibility.IsYoungDoctorate(f, year, r.youngHorizon) {
				return true
			}
		}
		return false
	}

	numerator := weightedSum(s, year, counted) + bonusSum(s, year, nil)
	return value(numerator / float64(dp))
}

// dpiDiscente estimates student production quality at one level: the
// weighted stratum sum of student-authored publications plus associated
// patent bonuses, over the number titled in the year. The master's variant
// also credits complete conference works with a student author.
func (r *Registry) dpiDiscente(level model.Level) Func {
	return func(s *model.Snapshot, year int) Outcome {
		titled, err := eligibility.CompletedIn(s, year, level)
		if err != nil {
			return failure(err)
		}
		nt := len(titled)
		if nt == 0 {
			return r.indeterminate()
		}

		studentAtLevel := func(ids []string) bool {
			for _, id := range ids {
				if st, ok := s.StudentByID(id); ok && st.Level == level {
					return true
				}
			}
			return false
		}

		counted := func(p model.Publication) bool {
			if studentAtLevel(p.StudentIDs) {
				return true
			}
			if !r.studentPolicy {
				return false
			}
			for _, id := range p.FacultyIDs {
				if f, ok := s.FacultyByID(id); ok && eligibility.IsYoungDoctorate(f, year, r.youngHorizon) {
					return true
				}
			}
			return false
		}

		numerator := weightedSum(s, year, counted)
		numerator += bonusSum(s, year, func(b model.PatentBonus) bool {
			return studentAtLevel(b.StudentIDs)
		})

		if level == model.Masters {
			works := 0
			for _, p := range s.Publications {
				if p.Year == year && p.Kind == model.Conference && p.Complete && studentAtLevel(p.StudentIDs) {
					works++
				}
			}
			numerator += conferenceWorkWeight * float64(works)
		}

		return value(numerator / float64(nt))
	}
}

// dpd is the share of permanent faculty contributing to at least one upper
// stratum (A1 through A4) publication in the year.
func (r *Registry) dpd(s *model.Snapshot, year int) Outcome {
	return r.facultyShare(s, year, func(f model.Faculty) bool {
		for _, p := range s.Publications {
			if p.Year != year || p.Kind != model.Journal || !p.Stratum.Upper() {
				continue
			}
			if hasID(p.FacultyIDs, f.ID) {
				return true
			}
		}
		return false
	})
}

// dtd is the share of permanent faculty contributing to at least one patent
// filed or granted in the year.
func (r *Registry) dtd(s *model.Snapshot, year int) Outcome {
	return r.facultyShare(s, year, func(f model.Faculty) bool {
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

// ader is the share of the year's qualifying publications adherent to the
// evaluation area.
func (r *Registry) ader(s *model.Snapshot, year int) Outcome {
	total, adherent := 0, 0
	for _, p := range s.Publications {
		if p.Year != year || !eligibility.IsQualifyingPublication(p) {
			continue
		}
		total++
		if p.AreaAdherent {
			adherent++
		}
	}
	if total == 0 {
		return r.indeterminate()
	}
	return value(float64(adherent) / float64(total) * 100)
}

// countPublications counts the year's publications of one kind. Counts are
// plain values: zero when empty, never NoData.
func countPublications(kind model.PublicationKind) Func {
	return func(s *model.Snapshot, year int) Outcome {
		count := 0
		for _, p := range s.Publications {
			if p.Year == year && p.Kind == kind {
				count++
			}
		}
		return value(float64(count))
	}
}

// facultyShare computes the percentage of permanent faculty matching the
// predicate, the common shape of the distribution indicators.
func (r *Registry) facultyShare(s *model.Snapshot, year int, match func(model.Faculty) bool) Outcome {
	permanent, err := eligibility.PermanentIn(s, year)
	if err != nil {
		return failure(err)
	}
	dp := len(permanent)
	if dp == 0 {
		return r.indeterminate()
	}
	count := 0
	for _, f := range permanent {
		if match(f) {
			count++
		}
	}
	return r.percentOf(float64(count), dp)
}

func hasID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
