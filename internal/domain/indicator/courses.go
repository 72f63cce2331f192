package indicator

import (
	"github.com/ppgmetrics/engiv/internal/domain/model"
)

const familyCourses = "courses"

func (r *Registry) registerCourses() {
	r.add("disc", familyCourses, KindPercent, r.disc)
	r.add("taxa_aprovacao", familyCourses, KindPercent, r.approvalRate)
}

// disc is the share of the year's registered graduate courses that were
// actually offered.
func (r *Registry) disc(s *model.Snapshot, year int) Outcome {
	registered, offered := 0, 0
	for _, c := range s.Courses {
		if c.Year != year || c.Level != model.GraduateLevel || !c.Registered {
			continue
		}
		registered++
		if c.Offered {
			offered++
		}
	}
	if registered == 0 {
		return r.indeterminate()
	}
	return value(float64(offered) / float64(registered) * 100)
}

// approvalRate is total approvals over total enrollments across the year's
// offered classes.
func (r *Registry) approvalRate(s *model.Snapshot, year int) Outcome {
	enrolled, approved := 0, 0
	for _, c := range s.Courses {
		if c.Year != year || !c.Offered {
			continue
		}
		enrolled += c.Enrolled
		approved += c.Approved
	}
	if enrolled == 0 {
		return r.indeterminate()
	}
	return value(float64(approved) / float64(enrolled) * 100)
}
