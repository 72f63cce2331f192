// Package model contains the read-only domain entities the engine computes
// over. Entities are created by ingestion before any computation; the
// calculators never mutate them.
package model

import (
	"fmt"
	"strings"
)

// ProgramType distinguishes academic from professional graduate programs.
// Several indicators weight their terms by program type.
type ProgramType string

// Program types.
const (
	Academic     ProgramType = "academic"
	Professional ProgramType = "professional"
)

// ParseProgramType parses a case-insensitive program type name.
func ParseProgramType(s string) (ProgramType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "academic":
		return Academic, nil
	case "professional":
		return Professional, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProgramType, s)
	}
}

// Category classifies a faculty member's bond with the program. Only
// Permanent faculty count toward DP-based denominators.
type Category string

// Faculty categories.
const (
	Permanent     Category = "permanent"
	Collaborating Category = "collaborating"
	Visiting      Category = "visiting"
)

// Level is a student's degree level.
type Level string

// Degree levels.
const (
	Masters  Level = "masters"
	Doctoral Level = "doctoral"
)

// Outcome is a student's terminal (or pending) state.
type Outcome string

// Student outcomes. InProgress students have no terminal outcome yet and
// are excluded from completion cohorts.
const (
	Defended   Outcome = "defended"
	Withdrawn  Outcome = "withdrawn"
	InProgress Outcome = "in_progress"
)

// Stratum is a Qualis quality tier used to weight journal publications.
type Stratum string

// Qualis strata, A1 best to B4, plus Other for unranked venues.
const (
	StratumA1    Stratum = "A1"
	StratumA2    Stratum = "A2"
	StratumA3    Stratum = "A3"
	StratumA4    Stratum = "A4"
	StratumB1    Stratum = "B1"
	StratumB2    Stratum = "B2"
	StratumB3    Stratum = "B3"
	StratumB4    Stratum = "B4"
	StratumOther Stratum = "Other"
)

// stratumWeights is the fixed Qualis weight lookup.
var stratumWeights = map[Stratum]float64{
	StratumA1: 1.0,
	StratumA2: 0.875,
	StratumA3: 0.75,
	StratumA4: 0.6,
	StratumB1: 0.3,
	StratumB2: 0.2,
	StratumB3: 0.1,
	StratumB4: 0.05,
}

// Weight returns the fixed Qualis weight for the stratum. Other and unknown
// strata weigh zero.
func (s Stratum) Weight() float64 {
	return stratumWeights[s]
}

// Qualifying reports whether the stratum counts for weighted production
// sums (A1 through B4; excludes Other).
func (s Stratum) Qualifying() bool {
	_, ok := stratumWeights[s]
	return ok
}

// Upper reports whether the stratum sits in the upper tiers (A1 through A4)
// used by the production-distribution indicator.
func (s Stratum) Upper() bool {
	switch s {
	case StratumA1, StratumA2, StratumA3, StratumA4:
		return true
	default:
		return false
	}
}

// PublicationKind separates journal articles from conference works.
type PublicationKind string

// Publication kinds.
const (
	Journal    PublicationKind = "journal"
	Conference PublicationKind = "conference"
)

// PatentStatus is a patent lifecycle stage. Each stage reached can grant an
// equivalence bonus exactly once.
type PatentStatus string

// Patent statuses.
const (
	Filed    PatentStatus = "filed"
	Granted  PatentStatus = "granted"
	Licensed PatentStatus = "licensed"
)

// CourseLevel separates graduate from undergraduate teaching.
type CourseLevel string

// Course levels.
const (
	GraduateLevel      CourseLevel = "graduate"
	UndergraduateLevel CourseLevel = "undergraduate"
)

// Period is the multi-year evaluation window, inclusive on both ends.
type Period struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Valid reports whether the period is well formed.
func (p Period) Valid() bool {
	return p.Start > 0 && p.End >= p.Start
}

// Contains reports whether year falls inside the window.
func (p Period) Contains(year int) bool {
	return year >= p.Start && year <= p.End
}

// Check returns ErrInvalidPeriod when year lies outside the window.
func (p Period) Check(year int) error {
	if !p.Contains(year) {
		return fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidPeriod, year, p.Start, p.End)
	}
	return nil
}

// Years lists the evaluation years in ascending order.
func (p Period) Years() []int {
	if !p.Valid() {
		return nil
	}
	years := make([]int, 0, p.End-p.Start+1)
	for y := p.Start; y <= p.End; y++ {
		years = append(years, y)
	}
	return years
}

// String renders the period as "start-end".
func (p Period) String() string {
	return fmt.Sprintf("%d-%d", p.Start, p.End)
}
