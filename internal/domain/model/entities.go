package model

import "time"

// Faculty is one member of the program's teaching staff. Category may
// change across evaluation years, but each (faculty, year) pair has exactly
// one category: CategoryByYear overrides the base Category for the years it
// names.
type Faculty struct {
	ID             string
	Name           string
	Category       Category
	CategoryByYear map[int]Category
	DoctorateYear  int
	Exclusive      bool
	// HIndex is the external bibliometric index; nil when not collected.
	HIndex *float64
	// PQScholar and DTScholar flag CNPq research-productivity and
	// tech-development scholarships.
	PQScholar bool
	DTScholar bool
	// UndergradOrientations counts undergraduate research students advised
	// per year.
	UndergradOrientations map[int]int
}

// CategoryIn returns the faculty member's category in the given year.
func (f Faculty) CategoryIn(year int) Category {
	if c, ok := f.CategoryByYear[year]; ok {
		return c
	}
	return f.Category
}

// External reports whether the faculty member is Collaborating or Visiting
// in the given year.
func (f Faculty) External(year int) bool {
	switch f.CategoryIn(year) {
	case Collaborating, Visiting:
		return true
	default:
		return false
	}
}

// Student is an enrolled or former student. DefenseDate is the zero time
// while the student is in progress.
type Student struct {
	ID          string
	Level       Level
	AdvisorID   string
	Enrollment  time.Time
	DefenseDate time.Time
	// WithdrawalDate is set for withdrawn students; when missing, the
	// withdrawal is attributed to the enrollment year.
	WithdrawalDate time.Time
	Outcome        Outcome
}

// TerminalYear returns the year the student reached a terminal outcome,
// and false for students still in progress.
func (s Student) TerminalYear() (int, bool) {
	switch s.Outcome {
	case Defended:
		return s.DefenseYear()
	case Withdrawn:
		if !s.WithdrawalDate.IsZero() {
			return s.WithdrawalDate.Year(), true
		}
		return s.Enrollment.Year(), true
	default:
		return 0, false
	}
}

// DefenseYear returns the defense year and true for defended students.
func (s Student) DefenseYear() (int, bool) {
	if s.Outcome != Defended || s.DefenseDate.IsZero() {
		return 0, false
	}
	return s.DefenseDate.Year(), true
}

// MonthsToDefense returns the whole months between enrollment and defense,
// and false when the student has not defended.
func (s Student) MonthsToDefense() (int, bool) {
	if s.Outcome != Defended || s.DefenseDate.IsZero() || s.DefenseDate.Before(s.Enrollment) {
		return 0, false
	}
	months := (s.DefenseDate.Year()-s.Enrollment.Year())*12 + int(s.DefenseDate.Month()) - int(s.Enrollment.Month())
	if s.DefenseDate.Day() < s.Enrollment.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	return months, true
}

// Publication is a journal article or conference work with a non-empty
// author set drawn from faculty and students.
type Publication struct {
	ID         string
	Kind       PublicationKind
	FacultyIDs []string
	StudentIDs []string
	Stratum    Stratum
	Year       int
	// AreaAdherent flags adherence to the evaluation area.
	AreaAdherent bool
	// Complete marks full conference papers as opposed to abstracts. Only
	// meaningful for Kind == Conference.
	Complete bool
}

// HasStudentAuthor reports whether any author is a student.
func (p Publication) HasStudentAuthor() bool {
	return len(p.StudentIDs) > 0
}

// PatentEvent is one status transition in a patent's lifecycle.
type PatentEvent struct {
	Status PatentStatus
	Year   int
	// Revenue is the licensing revenue for Licensed events, in currency
	// units.
	Revenue float64
}

// Patent is an intellectual-property record with its status history.
type Patent struct {
	ID         string
	FacultyIDs []string
	StudentIDs []string
	Events     []PatentEvent
}

// StatusIn reports whether the patent reached status in or before the given
// year.
func (p Patent) StatusIn(status PatentStatus, year int) bool {
	for _, e := range p.Events {
		if e.Status == status && e.Year <= year {
			return true
		}
	}
	return false
}

// EventIn reports whether the patent had a transition to status exactly in
// the given year.
func (p Patent) EventIn(status PatentStatus, year int) bool {
	for _, e := range p.Events {
		if e.Status == status && e.Year == year {
			return true
		}
	}
	return false
}

// Course is one annual course record. Registered courses belong to the
// catalog; Offered ones actually had a class in the year.
type Course struct {
	ID            string
	Level         CourseLevel
	Year          int
	WorkloadHours float64
	InstructorIDs []string
	Registered    bool
	Offered       bool
	Enrolled      int
	Approved      int
}

// Graduate tracks a former student after leaving the program.
type Graduate struct {
	ID    string
	Level Level
	Year  int
	// Employed, InFurtherStudy and OutOfRegion capture the tracked
	// placement facts used by the egress indicators.
	Employed       bool
	InFurtherStudy bool
	OutOfRegion    bool
}
