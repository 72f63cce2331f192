package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Patent equivalence bonus weights. Filed counts as one A2, Granted as two
// A1 in the grant year, Licensed above the revenue threshold as five A1 in
// the first year the threshold is met.
const (
	FiledBonus    = 0.875
	GrantedBonus  = 2.0
	LicensedBonus = 5.0

	// DefaultLicenseThreshold is the licensing revenue, in currency units,
	// above which the Licensed bonus applies.
	DefaultLicenseThreshold = 100_000.0
)

// PatentBonus is a derived equivalence bonus, memoized at snapshot build so
// each qualifying status transition contributes exactly once regardless of
// how many yearly passes read it.
type PatentBonus struct {
	PatentID   string
	Status     PatentStatus
	Year       int
	Weight     float64
	FacultyIDs []string
	StudentIDs []string
}

// Records bundles the ingested entities a snapshot is built from.
type Records struct {
	Faculty      []Faculty
	Students     []Student
	Publications []Publication
	Patents      []Patent
	Courses      []Course
	Graduates    []Graduate
}

// Snapshot is the immutable record set one computation pass reads. Ingestion
// builds a fresh snapshot and swaps it in atomically; calculators only read.
type Snapshot struct {
	ID        string
	Program   ProgramType
	Period    Period
	CreatedAt time.Time

	Faculty      []Faculty
	Students     []Student
	Publications []Publication
	Patents      []Patent
	Courses      []Course
	Graduates    []Graduate

	// Bonuses holds the memoized patent equivalence bonuses.
	Bonuses []PatentBonus

	facultyByID map[string]*Faculty
	studentByID map[string]*Student
}

// BuildOption configures snapshot derivation.
type BuildOption func(*builder)

type builder struct {
	licenseThreshold float64
	now              func() time.Time
}

// WithLicenseThreshold overrides the licensing revenue threshold for the
// Licensed patent bonus.
func WithLicenseThreshold(threshold float64) BuildOption {
	return func(b *builder) {
		if threshold > 0 {
			b.licenseThreshold = threshold
		}
	}
}

// WithClock overrides the snapshot timestamp source.
func WithClock(now func() time.Time) BuildOption {
	return func(b *builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewSnapshot assembles an immutable snapshot from ingested records,
// verifies referential integrity, and memoizes the derived patent bonuses.
// Malformed records reject the whole snapshot; the engine never sees them.
func NewSnapshot(program ProgramType, period Period, recs Records, opts ...BuildOption) (*Snapshot, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: period %s", ErrInvalidPeriod, period)
	}
	b := &builder{
		licenseThreshold: DefaultLicenseThreshold,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	s := &Snapshot{
		ID:           uuid.NewString(),
		Program:      program,
		Period:       period,
		CreatedAt:    b.now(),
		Faculty:      recs.Faculty,
		Students:     recs.Students,
		Publications: recs.Publications,
		Patents:      recs.Patents,
		Courses:      recs.Courses,
		Graduates:    recs.Graduates,
		facultyByID:  make(map[string]*Faculty, len(recs.Faculty)),
		studentByID:  make(map[string]*Student, len(recs.Students)),
	}

	for i := range s.Faculty {
		f := &s.Faculty[i]
		if f.ID == "" {
			return nil, fmt.Errorf("%w: faculty with empty id", ErrInvalidRecord)
		}
		s.facultyByID[f.ID] = f
	}
	for i := range s.Students {
		st := &s.Students[i]
		if st.ID == "" {
			return nil, fmt.Errorf("%w: student with empty id", ErrInvalidRecord)
		}
		if !st.DefenseDate.IsZero() && st.DefenseDate.Before(st.Enrollment) {
			return nil, fmt.Errorf("%w: student %s defended before enrollment", ErrInvalidRecord, st.ID)
		}
		if st.AdvisorID != "" {
			if _, ok := s.facultyByID[st.AdvisorID]; !ok {
				return nil, fmt.Errorf("%w: student %s references unknown advisor %s", ErrInvalidRecord, st.ID, st.AdvisorID)
			}
		}
		s.studentByID[st.ID] = st
	}
	for i := range s.Publications {
		p := &s.Publications[i]
		if len(p.FacultyIDs) == 0 && len(p.StudentIDs) == 0 {
			return nil, fmt.Errorf("%w: publication %s has no authors", ErrInvalidRecord, p.ID)
		}
		if err := s.checkRefs(p.ID, p.FacultyIDs, p.StudentIDs); err != nil {
			return nil, err
		}
	}
	for i := range s.Patents {
		if err := s.checkRefs(s.Patents[i].ID, s.Patents[i].FacultyIDs, s.Patents[i].StudentIDs); err != nil {
			return nil, err
		}
	}
	for i := range s.Courses {
		for _, id := range s.Courses[i].InstructorIDs {
			if _, ok := s.facultyByID[id]; !ok {
				return nil, fmt.Errorf("%w: course %s references unknown instructor %s", ErrInvalidRecord, s.Courses[i].ID, id)
			}
		}
	}

	s.Bonuses = deriveBonuses(s.Patents, b.licenseThreshold)
	return s, nil
}

func (s *Snapshot) checkRefs(owner string, facultyIDs, studentIDs []string) error {
	for _, id := range facultyIDs {
		if _, ok := s.facultyByID[id]; !ok {
			return fmt.Errorf("%w: %s references unknown faculty %s", ErrInvalidRecord, owner, id)
		}
	}
	for _, id := range studentIDs {
		if _, ok := s.studentByID[id]; !ok {
			return fmt.Errorf("%w: %s references unknown student %s", ErrInvalidRecord, owner, id)
		}
	}
	return nil
}

// FacultyByID resolves a faculty reference.
func (s *Snapshot) FacultyByID(id string) (Faculty, bool) {
	f, ok := s.facultyByID[id]
	if !ok {
		return Faculty{}, false
	}
	return *f, true
}

// StudentByID resolves a student reference.
func (s *Snapshot) StudentByID(id string) (Student, bool) {
	st, ok := s.studentByID[id]
	if !ok {
		return Student{}, false
	}
	return *st, true
}

// BonusesIn returns the patent bonuses attributed to the given year.
func (s *Snapshot) BonusesIn(year int) []PatentBonus {
	var out []PatentBonus
	for _, b := range s.Bonuses {
		if b.Year == year {
			out = append(out, b)
		}
	}
	return out
}

// deriveBonuses walks each patent's status history once and records the
// first qualifying year per status. A patent that stays Licensed across
// years still earns the Licensed bonus only in the first year revenue met
// the threshold.
func deriveBonuses(patents []Patent, licenseThreshold float64) []PatentBonus {
	var bonuses []PatentBonus
	for _, p := range patents {
		firstFiled, firstGranted, firstLicensed := 0, 0, 0
		for _, e := range p.Events {
			switch e.Status {
			case Filed:
				if firstFiled == 0 || e.Year < firstFiled {
					firstFiled = e.Year
				}
			case Granted:
				if firstGranted == 0 || e.Year < firstGranted {
					firstGranted = e.Year
				}
			case Licensed:
				if e.Revenue >= licenseThreshold && (firstLicensed == 0 || e.Year < firstLicensed) {
					firstLicensed = e.Year
				}
			}
		}
		if firstFiled > 0 {
			bonuses = append(bonuses, bonus(p, Filed, firstFiled, FiledBonus))
		}
		if firstGranted > 0 {
			bonuses = append(bonuses, bonus(p, Granted, firstGranted, GrantedBonus))
		}
		if firstLicensed > 0 {
			bonuses = append(bonuses, bonus(p, Licensed, firstLicensed, LicensedBonus))
		}
	}
	return bonuses
}

func bonus(p Patent, status PatentStatus, year int, weight float64) PatentBonus {
	return PatentBonus{
		PatentID:   p.ID,
		Status:     status,
		Year:       year,
		Weight:     weight,
		FacultyIDs: p.FacultyIDs,
		StudentIDs: p.StudentIDs,
	}
}
