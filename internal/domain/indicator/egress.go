package indicator

import (
	"github.com/ppgmetrics/engiv/internal/domain/model"
)

const familyEgress = "egress"

func (r *Registry) registerEgress() {
	r.add("diep", familyEgress, KindPercent, r.graduateShare(func(g model.Graduate) bool { return g.Employed }))
	r.add("dieg", familyEgress, KindPercent, r.graduateShare(func(g model.Graduate) bool { return g.InFurtherStudy }))
	r.add("dier", familyEgress, KindPercent, r.graduateShare(func(g model.Graduate) bool { return g.OutOfRegion }))
}

// graduateShare computes the percentage of the year's tracked graduates
// matching the predicate. The egress indicators (employment, continued
// study, regional distribution) all share this shape. No tracked graduates
// means NoData.
func (r *Registry) graduateShare(match func(model.Graduate) bool) Func {
	return func(s *model.Snapshot, year int) Outcome {
		total, matched := 0, 0
		for _, g := range s.Graduates {
			if g.Year != year {
				continue
			}
			total++
			if match(g) {
				matched++
			}
		}
		if total == 0 {
			return r.indeterminate()
		}
		return value(float64(matched) / float64(total) * 100)
	}
}
