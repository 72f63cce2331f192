// Package result defines the tagged value type produced by indicator
// calculators.
package result

// Point pairs an evaluation year with its computed value.
type Point struct {
	Year  int   `json:"year"`
	Value Value `json:"value"`
}

// Series is an ordered sequence of yearly points, ascending by year.
type Series []Point

// Trend classifies the direction of a series over the period.
type Trend string

// Trend values. Unknown means fewer than two defined years.
const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendFlat    Trend = "flat"
	TrendUnknown Trend = "unknown"
)

// trendEpsilon bounds the difference below which two values count as flat.
const trendEpsilon = 1e-9

// Summary condenses a series for the evaluation period. Years holding
// NoData or an error are excluded from the mean and counted out of
// DefinedYears; they are never coerced to zero.
type Summary struct {
	Mean         Value `json:"mean"`
	Trend        Trend `json:"trend"`
	DefinedYears int   `json:"defined_years"`
	TotalYears   int   `json:"total_years"`
	Complete     bool  `json:"complete"`
}

// Summarize derives the period summary for a series. complete reports
// whether every required input field was present for every eligible record
// across the period; it is carried through untouched.
func Summarize(s Series, complete bool) Summary {
	sum := Summary{
		Trend:    TrendUnknown,
		Complete: complete,
	}
	sum.TotalYears = len(s)

	var total float64
	var first, last float64
	var seen bool
	for _, p := range s {
		v, ok := p.Value.Float()
		if !ok {
			continue
		}
		total += v
		if !seen {
			first = v
			seen = true
		}
		last = v
		sum.DefinedYears++
	}

	if sum.DefinedYears == 0 {
		sum.Mean = NoData()
		return sum
	}
	sum.Mean = Of(total / float64(sum.DefinedYears))

	if sum.DefinedYears >= 2 {
		switch diff := last - first; {
		case diff > trendEpsilon:
			sum.Trend = TrendUp
		case diff < -trendEpsilon:
			sum.Trend = TrendDown
		default:
			sum.Trend = TrendFlat
		}
	}
	return sum
}
