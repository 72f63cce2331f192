package window_test

import (
	"context"
	"errors"
	"testing"

	indicator "github.com/ppgmetrics/engiv/internal/domain/indicator"
	model "github.com/ppgmetrics/engiv/internal/domain/model"
	result "github.com/ppgmetrics/engiv/internal/domain/result"
	window "github.com/ppgmetrics/engiv/internal/domain/window"
	. "github.com/smartystreets/goconvey/convey"
)

func buildSnapshot() *model.Snapshot {
	snap, err := model.NewSnapshot(model.Academic, model.Period{Start: 2021, End: 2024}, model.Records{
		Graduates: []model.Graduate{
			{ID: "g1", Level: model.Masters, Year: 2021, Employed: true},
			{ID: "g2", Level: model.Masters, Year: 2022, Employed: true},
			{ID: "g3", Level: model.Masters, Year: 2022},
			{ID: "g4", Level: model.Masters, Year: 2024, Employed: true},
		},
	})
	So(err, ShouldBeNil)
	return snap
}

func getCalc(name string) indicator.Calculator {
	c, ok := indicator.NewRegistry().Get(name)
	So(ok, ShouldBeTrue)
	return c
}

func TestEvaluate(t *testing.T) {
	Convey("Given graduates tracked in three of four years", t, func() {
		snap := buildSnapshot()

		Convey("The series covers every period year in order", func() {
			ev, err := window.Evaluate(context.Background(), snap, getCalc("diep"))
			So(err, ShouldBeNil)
			So(ev.Series, ShouldHaveLength, 4)
			for i, year := range []int{2021, 2022, 2023, 2024} {
				So(ev.Series[i].Year, ShouldEqual, year)
			}

			Convey("And the untracked year stays NoData in place", func() {
				So(ev.Series[2].Value.IsNoData(), ShouldBeTrue)

				v, ok := ev.Series[1].Value.Float()
				So(ok, ShouldBeTrue)
				So(v, ShouldAlmostEqual, 50)
			})

			Convey("And the summary excludes the undefined year from the mean", func() {
				So(ev.Summary.DefinedYears, ShouldEqual, 3)
				So(ev.Summary.TotalYears, ShouldEqual, 4)

				mean, ok := ev.Summary.Mean.Float()
				So(ok, ShouldBeTrue)
				So(mean, ShouldAlmostEqual, (100+50+100)/3.0)
				So(ev.Summary.Trend, ShouldEqual, result.TrendFlat)
			})
		})

		Convey("A canceled context stops the walk", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := window.Evaluate(ctx, snap, getCalc("diep"))
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestEvaluateYear(t *testing.T) {
	Convey("Given a single-year evaluation", t, func() {
		snap := buildSnapshot()

		Convey("An in-period year runs the calculator", func() {
			out, err := window.EvaluateYear(snap, getCalc("diep"), 2022)
			So(err, ShouldBeNil)

			v, ok := out.Value.Float()
			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, 50)
		})

		Convey("An out-of-period year is rejected up front", func() {
			_, err := window.EvaluateYear(snap, getCalc("diep"), 2026)
			So(errors.Is(err, model.ErrInvalidPeriod), ShouldBeTrue)
		})
	})
}
