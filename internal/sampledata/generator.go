package sampledata

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Generation mix constants, roughly matching the shape of a mid-size
// engineering program.
const (
	permanentShare     = 0.70
	collaboratingShare = 0.20
	exclusiveShare     = 0.60
	hIndexShare        = 0.80
	pqShare            = 0.25
	dtShare            = 0.15

	mastersShare   = 0.60
	defendedShare  = 0.50
	withdrawnShare = 0.15

	journalShare       = 0.70
	studentAuthorShare = 0.50
	adherentShare      = 0.85
	completeConfShare  = 0.70

	patentPerFaculty  = 0.25
	grantedShare      = 0.40
	licensedShare     = 0.35
	offeredShare      = 0.85
	employedShare     = 0.70
	furtherStudyShare = 0.30
	outOfRegionShare  = 0.25

	mastersMonths  = 24
	doctoralMonths = 48
	monthsJitter   = 12
)

// strata orders Qualis strata for the weighted draw in pickStratum.
var strata = []string{"A1", "A2", "A3", "A4", "B1", "B2", "B3", "B4", "Other"}

// stratumCDF approximates the production mix of a consolidated program,
// heavier in the middle strata.
var stratumCDF = []float64{0.08, 0.20, 0.38, 0.55, 0.70, 0.82, 0.90, 0.96, 1.0}

// Generator builds reproducible synthetic record batches.
type Generator struct {
	cfg *Config
	rng *rand.Rand
}

// NewGenerator creates a generator seeded from the config.
func NewGenerator(cfg *Config) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Generate builds one full import batch.
func (g *Generator) Generate() *Batch {
	b := &Batch{BatchID: uuid.NewString()}

	g.generateFaculty(b)
	g.generateStudents(b)
	g.generatePublications(b)
	g.generatePatents(b)
	g.generateCourses(b)
	g.generateGraduates(b)

	return b
}

func (g *Generator) years() []int {
	var ys []int
	for y := g.cfg.PeriodStart; y <= g.cfg.PeriodEnd; y++ {
		ys = append(ys, y)
	}
	return ys
}

func (g *Generator) generateFaculty(b *Batch) {
	for i := 0; i < g.cfg.Faculty; i++ {
		category := "visiting"
		switch r := g.rng.Float64(); {
		case r < permanentShare:
			category = "permanent"
		case r < permanentShare+collaboratingShare:
			category = "collaborating"
		}

		f := Faculty{
			ID:            fmt.Sprintf("fac-%03d", i+1),
			Name:          fmt.Sprintf("Researcher %03d", i+1),
			Category:      category,
			DoctorateYear: g.cfg.PeriodStart - 1 - g.rng.Intn(25),
			Exclusive:     category == "permanent" && g.rng.Float64() < exclusiveShare,
		}
		if g.rng.Float64() < hIndexShare {
			h := 2.0 + g.rng.Float64()*28.0
			f.HIndex = &h
		}
		if category == "permanent" {
			f.PQScholar = g.rng.Float64() < pqShare
			f.DTScholar = !f.PQScholar && g.rng.Float64() < dtShare
			f.UndergradOrientations = make(map[int]int)
			for _, y := range g.years() {
				f.UndergradOrientations[y] = g.rng.Intn(4)
			}
		}
		b.Faculty = append(b.Faculty, f)
	}
}

func (g *Generator) generateStudents(b *Batch) {
	advisors := g.permanentIDs(b)
	for i := 0; i < g.cfg.Students; i++ {
		level := "doctoral"
		nominal := doctoralMonths
		if g.rng.Float64() < mastersShare {
			level = "masters"
			nominal = mastersMonths
		}

		enrollYear := g.cfg.PeriodStart - 4 + g.rng.Intn(g.cfg.PeriodEnd-g.cfg.PeriodStart+4)
		enrollment := time.Date(enrollYear, time.Month(1+g.rng.Intn(12)), 1+g.rng.Intn(28), 0, 0, 0, 0, time.UTC)

		s := Student{
			ID:         fmt.Sprintf("stu-%04d", i+1),
			Level:      level,
			Enrollment: enrollment.Format("2006-01-02"),
			Outcome:    "in_progress",
		}
		if len(advisors) > 0 {
			s.AdvisorID = advisors[g.rng.Intn(len(advisors))]
		}

		switch r := g.rng.Float64(); {
		case r < defendedShare:
			months := nominal - monthsJitter/2 + g.rng.Intn(monthsJitter+1)
			defense := enrollment.AddDate(0, months, 0)
			if defense.Year() <= g.cfg.PeriodEnd {
				s.Outcome = "defended"
				s.DefenseDate = defense.Format("2006-01-02")
			}
		case r < defendedShare+withdrawnShare:
			s.Outcome = "withdrawn"
		}
		b.Students = append(b.Students, s)
	}
}

func (g *Generator) generatePublications(b *Batch) {
	studentIDs := make([]string, 0, len(b.Students))
	for _, s := range b.Students {
		studentIDs = append(studentIDs, s.ID)
	}

	n := 0
	for _, f := range b.Faculty {
		if f.Category != "permanent" {
			continue
		}
		for _, y := range g.years() {
			for j := 0; j < 1+g.rng.Intn(3); j++ {
				n++
				p := Publication{
					ID:           fmt.Sprintf("pub-%04d", n),
					Kind:         "conference",
					FacultyIDs:   []string{f.ID},
					Year:         y,
					AreaAdherent: g.rng.Float64() < adherentShare,
				}
				if g.rng.Float64() < journalShare {
					p.Kind = "journal"
					p.Stratum = g.pickStratum()
				} else {
					p.Complete = g.rng.Float64() < completeConfShare
				}
				if len(studentIDs) > 0 && g.rng.Float64() < studentAuthorShare {
					p.StudentIDs = []string{studentIDs[g.rng.Intn(len(studentIDs))]}
				}
				b.Publications = append(b.Publications, p)
			}
		}
	}
}

func (g *Generator) generatePatents(b *Batch) {
	perm := g.permanentIDs(b)
	count := int(float64(len(perm)) * patentPerFaculty)
	span := g.cfg.PeriodEnd - g.cfg.PeriodStart + 1

	for i := 0; i < count; i++ {
		filed := g.cfg.PeriodStart + g.rng.Intn(span)
		p := Patent{
			ID:         fmt.Sprintf("pat-%03d", i+1),
			FacultyIDs: []string{perm[g.rng.Intn(len(perm))]},
			Events:     []PatentEvent{{Status: "filed", Year: filed}},
		}
		if g.rng.Float64() < grantedShare {
			granted := filed + 1 + g.rng.Intn(2)
			p.Events = append(p.Events, PatentEvent{Status: "granted", Year: granted})
			if g.rng.Float64() < licensedShare {
				p.Events = append(p.Events, PatentEvent{
					Status:  "licensed",
					Year:    granted + 1,
					Revenue: 50_000 + g.rng.Float64()*450_000,
				})
			}
		}
		b.Patents = append(b.Patents, p)
	}
}

func (g *Generator) generateCourses(b *Batch) {
	perm := g.permanentIDs(b)
	if len(perm) == 0 {
		return
	}

	workloads := []float64{45, 60, 90}
	n := 0
	for _, y := range g.years() {
		for j := 0; j < max(2, len(perm)/2); j++ {
			n++
			enrolled := 8 + g.rng.Intn(18)
			c := Course{
				ID:            fmt.Sprintf("course-%03d", n),
				Level:         "graduate",
				Year:          y,
				WorkloadHours: workloads[g.rng.Intn(len(workloads))],
				InstructorIDs: []string{perm[g.rng.Intn(len(perm))]},
				Registered:    true,
				Offered:       g.rng.Float64() < offeredShare,
				Enrolled:      enrolled,
				Approved:      enrolled - g.rng.Intn(enrolled/4+1),
			}
			b.Courses = append(b.Courses, c)
		}
		// A couple of undergraduate courses taught by program faculty.
		for j := 0; j < 2; j++ {
			n++
			b.Courses = append(b.Courses, Course{
				ID:            fmt.Sprintf("course-%03d", n),
				Level:         "undergraduate",
				Year:          y,
				WorkloadHours: 60,
				InstructorIDs: []string{perm[g.rng.Intn(len(perm))]},
				Registered:    true,
				Offered:       true,
				Enrolled:      30 + g.rng.Intn(20),
				Approved:      25 + g.rng.Intn(20),
			})
		}
	}
}

func (g *Generator) generateGraduates(b *Batch) {
	n := 0
	for _, s := range b.Students {
		if s.Outcome != "defended" || s.DefenseDate == "" {
			continue
		}
		defense, err := time.Parse("2006-01-02", s.DefenseDate)
		if err != nil || defense.Year() < g.cfg.PeriodStart {
			continue
		}
		n++
		b.Graduates = append(b.Graduates, Graduate{
			ID:             fmt.Sprintf("grad-%04d", n),
			Level:          s.Level,
			Year:           defense.Year(),
			Employed:       g.rng.Float64() < employedShare,
			InFurtherStudy: g.rng.Float64() < furtherStudyShare,
			OutOfRegion:    g.rng.Float64() < outOfRegionShare,
		})
	}
}

func (g *Generator) permanentIDs(b *Batch) []string {
	var ids []string
	for _, f := range b.Faculty {
		if f.Category == "permanent" {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

func (g *Generator) pickStratum() string {
	r := g.rng.Float64()
	for i, cdf := range stratumCDF {
		if r <= cdf {
			return strata[i]
		}
	}
	return "Other"
}
