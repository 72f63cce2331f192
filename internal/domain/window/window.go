// Package window runs calculators once per year over the evaluation period
// and condenses the yearly series into period summaries. Years holding
// NoData are carried through explicitly, never resampled or zero-filled.
package window

import (
	"context"
	"fmt"

	"github.com/ppgmetrics/engiv/internal/domain/indicator"
	"github.com/ppgmetrics/engiv/internal/domain/model"
	"github.com/ppgmetrics/engiv/internal/domain/result"
)

// Evaluation is one calculator's output across the whole period.
type Evaluation struct {
	Series   result.Series
	Summary  result.Summary
	Complete bool
}

// Evaluate runs the calculator for every year of the snapshot's period, in
// ascending order, honoring ctx between years.
func Evaluate(ctx context.Context, s *model.Snapshot, c indicator.Calculator) (Evaluation, error) {
	years := s.Period.Years()
	ev := Evaluation{
		Series:   make(result.Series, 0, len(years)),
		Complete: true,
	}
	for _, year := range years {
		select {
		case <-ctx.Done():
			return Evaluation{}, fmt.Errorf("evaluation canceled: %w", ctx.Err())
		default:
		}
		out := c.Fn(s, year)
		if !out.Complete {
			ev.Complete = false
		}
		ev.Series = append(ev.Series, result.Point{Year: year, Value: out.Value})
	}
	ev.Summary = result.Summarize(ev.Series, ev.Complete)
	return ev, nil
}

// EvaluateYear runs the calculator for a single year, rejecting years
// outside the period before touching the calculator.
func EvaluateYear(s *model.Snapshot, c indicator.Calculator, year int) (indicator.Outcome, error) {
	if err := s.Period.Check(year); err != nil {
		return indicator.Outcome{}, err
	}
	return c.Fn(s, year), nil
}
