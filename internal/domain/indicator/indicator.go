// Package indicator implements the CAPES Engineering-IV evaluation
// indicators as pure functions over an immutable record snapshot. Each
// calculator computes one indicator for one evaluation year; the registry
// exposes them by name so new indicators are additive.
package indicator

import (
	"github.com/ppgmetrics/engiv/internal/domain/model"
	"github.com/ppgmetrics/engiv/internal/domain/result"
)

// FormulaVersion tags the formula set implemented by this package.
const FormulaVersion = "eng4-2021.1"

// DefaultYoungDoctorateHorizon is how many years after the doctorate a
// non-permanent faculty member counts as a young doctorate.
const DefaultYoungDoctorateHorizon = 5

// Kind describes the unit of an indicator for presentation.
type Kind string

// Indicator kinds.
const (
	KindIndex   Kind = "index"
	KindPercent Kind = "percent"
	KindRatio   Kind = "ratio"
	KindCount   Kind = "count"
	KindMonths  Kind = "months"
)

// Outcome is one calculator evaluation: the tagged value plus whether all
// required input fields were present for every eligible record.
type Outcome struct {
	Value    result.Value
	Complete bool
}

// Func computes one indicator for one year of the snapshot's period.
type Func func(s *model.Snapshot, year int) Outcome

// Calculator pairs an indicator name with its computation.
type Calculator struct {
	Name    string
	Family  string
	Kind    Kind
	Version string
	Fn      Func
}

// Blend holds the program-type weights applied wherever FOR and FORDT are
// combined.
type Blend struct {
	FOR   float64
	FORDT float64
}

// Apply combines FOR and FORDT values under the blend weights.
func (b Blend) Apply(forValue, fordtValue float64) float64 {
	return b.FOR*forValue + b.FORDT*fordtValue
}

// DefaultBlends returns the blend weight table keyed by program type.
// Academic programs weight research productivity higher; professional
// programs weight technological development higher.
func DefaultBlends() map[model.ProgramType]Blend {
	return map[model.ProgramType]Blend{
		model.Academic:     {FOR: 0.7, FORDT: 0.3},
		model.Professional: {FOR: 0.3, FORDT: 0.7},
	}
}

// Registry holds the calculator set built for one parameterization.
type Registry struct {
	strict        bool
	youngHorizon  int
	studentPolicy bool
	blends        map[model.ProgramType]Blend

	calcs  []Calculator
	byName map[string]Calculator
}

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithStrict makes zero denominators surface ErrIndeterminate instead of
// degrading to NoData.
func WithStrict(strict bool) Option {
	return func(r *Registry) {
		r.strict = strict
	}
}

// WithYoungDoctorateHorizon sets the young-doctorate horizon in years.
func WithYoungDoctorateHorizon(years int) Option {
	return func(r *Registry) {
		if years > 0 {
			r.youngHorizon = years
		}
	}
}

// WithStudentProductionPolicy controls whether young-doctorate publications
// also enter the student-production numerators.
func WithStudentProductionPolicy(include bool) Option {
	return func(r *Registry) {
		r.studentPolicy = include
	}
}

// WithBlends overrides the FOR/FORDT blend weight table.
func WithBlends(blends map[model.ProgramType]Blend) Option {
	return func(r *Registry) {
		if len(blends) > 0 {
			r.blends = blends
		}
	}
}

// NewRegistry builds the full calculator set.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		youngHorizon: DefaultYoungDoctorateHorizon,
		blends:       DefaultBlends(),
		byName:       make(map[string]Calculator),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.registerOrientation()
	r.registerProduction()
	r.registerFaculty()
	r.registerEgress()
	r.registerCourses()

	return r
}

// All returns every registered calculator.
func (r *Registry) All() []Calculator {
	out := make([]Calculator, len(r.calcs))
	copy(out, r.calcs)
	return out
}

// Get returns the calculator registered under name.
func (r *Registry) Get(name string) (Calculator, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Names lists registered indicator names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.calcs))
	for i, c := range r.calcs {
		names[i] = c.Name
	}
	return names
}

func (r *Registry) add(name, family string, kind Kind, fn Func) {
	c := Calculator{
		Name:    name,
		Family:  family,
		Kind:    kind,
		Version: FormulaVersion,
		Fn:      fn,
	}
	r.calcs = append(r.calcs, c)
	r.byName[name] = c
}

// indeterminate encodes a zero denominator: NoData by default, an error in
// strict mode.
func (r *Registry) indeterminate() Outcome {
	if r.strict {
		return Outcome{Value: result.Err(ErrIndeterminate), Complete: true}
	}
	return Outcome{Value: result.NoData(), Complete: true}
}

func value(v float64) Outcome {
	return Outcome{Value: result.Of(v), Complete: true}
}

func noData() Outcome {
	return Outcome{Value: result.NoData(), Complete: true}
}

func failure(err error) Outcome {
	return Outcome{Value: result.Err(err), Complete: true}
}

// percentOf divides and scales to percent, routing zero denominators
// through the registry's indeterminate policy.
func (r *Registry) percentOf(numerator float64, denominator int) Outcome {
	if denominator == 0 {
		return r.indeterminate()
	}
	return value(numerator / float64(denominator) * 100)
}

// ratioOf divides, routing zero denominators through the indeterminate
// policy.
func (r *Registry) ratioOf(numerator float64, denominator int) Outcome {
	if denominator == 0 {
		return r.indeterminate()
	}
	return value(numerator / float64(denominator))
}
