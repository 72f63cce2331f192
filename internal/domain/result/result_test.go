package result_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	result "github.com/ppgmetrics/engiv/internal/domain/result"
	. "github.com/smartystreets/goconvey/convey"
)

func TestValueVariants(t *testing.T) {
	Convey("Given the three value variants", t, func() {
		Convey("When holding a computed number", func() {
			v := result.Of(1.25)
			f, ok := v.Float()
			So(ok, ShouldBeTrue)
			So(f, ShouldEqual, 1.25)
			So(v.IsNoData(), ShouldBeFalse)
			So(v.Unwrap(), ShouldBeNil)
		})

		Convey("When holding no data", func() {
			v := result.NoData()
			_, ok := v.Float()
			So(ok, ShouldBeFalse)
			So(v.IsNoData(), ShouldBeTrue)
		})

		Convey("When holding an error", func() {
			cause := errors.New("bad input")
			v := result.Err(cause)
			_, ok := v.Float()
			So(ok, ShouldBeFalse)
			So(v.IsNoData(), ShouldBeFalse)
			So(errors.Is(v.Unwrap(), cause), ShouldBeTrue)
		})

		Convey("When constructing an error variant from nil", func() {
			So(result.Err(nil).IsNoData(), ShouldBeTrue)
		})

		Convey("When the zero value is used", func() {
			var v result.Value
			f, ok := v.Float()
			So(ok, ShouldBeTrue)
			So(f, ShouldEqual, 0.0)
		})
	})
}

func TestValueEqual(t *testing.T) {
	Convey("Given comparable values", t, func() {
		sentinel := errors.New("boom")

		So(result.Of(2).Equal(result.Of(2)), ShouldBeTrue)
		So(result.Of(2).Equal(result.Of(3)), ShouldBeFalse)
		So(result.NoData().Equal(result.NoData()), ShouldBeTrue)
		So(result.Of(0).Equal(result.NoData()), ShouldBeFalse)

		Convey("Then wrapped sentinel errors still match", func() {
			wrapped := result.Err(fmt.Errorf("context: %w", sentinel))
			So(wrapped.Equal(result.Err(sentinel)), ShouldBeTrue)
		})
	})
}

func TestValueJSON(t *testing.T) {
	Convey("Given values crossing the wire", t, func() {
		Convey("When marshaling a computed value", func() {
			b, err := json.Marshal(result.Of(0.8))
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"state":"value"`)
			So(string(b), ShouldContainSubstring, `"value":0.8`)
		})

		Convey("When marshaling no data", func() {
			b, err := json.Marshal(result.NoData())
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"state":"no_data"}`)
		})

		Convey("When marshaling a non-finite number", func() {
			b, err := json.Marshal(result.Of(math.NaN()))
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"state":"no_data"}`)
		})

		Convey("When marshaling an error", func() {
			b, err := json.Marshal(result.Err(errors.New("boom")))
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"state":"error"`)
			So(string(b), ShouldContainSubstring, `"error":"boom"`)
		})

		Convey("When restoring values from the wire", func() {
			var v result.Value
			So(json.Unmarshal([]byte(`{"state":"value","value":3.5}`), &v), ShouldBeNil)
			f, ok := v.Float()
			So(ok, ShouldBeTrue)
			So(f, ShouldEqual, 3.5)

			So(json.Unmarshal([]byte(`{"state":"no_data"}`), &v), ShouldBeNil)
			So(v.IsNoData(), ShouldBeTrue)

			So(json.Unmarshal([]byte(`{"state":"error","error":"boom"}`), &v), ShouldBeNil)
			So(v.Unwrap(), ShouldNotBeNil)
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given yearly series", t, func() {
		Convey("When every year is defined and rising", func() {
			s := result.Series{
				{Year: 2021, Value: result.Of(1)},
				{Year: 2022, Value: result.Of(2)},
				{Year: 2023, Value: result.Of(3)},
			}
			sum := result.Summarize(s, true)

			mean, ok := sum.Mean.Float()
			So(ok, ShouldBeTrue)
			So(mean, ShouldEqual, 2.0)
			So(sum.Trend, ShouldEqual, result.TrendUp)
			So(sum.DefinedYears, ShouldEqual, 3)
			So(sum.TotalYears, ShouldEqual, 3)
			So(sum.Complete, ShouldBeTrue)
		})

		Convey("When a no-data year sits in the middle", func() {
			s := result.Series{
				{Year: 2021, Value: result.Of(4)},
				{Year: 2022, Value: result.NoData()},
				{Year: 2023, Value: result.Of(2)},
			}
			sum := result.Summarize(s, false)

			// NoData never counts as zero: mean over the two defined years.
			mean, ok := sum.Mean.Float()
			So(ok, ShouldBeTrue)
			So(mean, ShouldEqual, 3.0)
			So(sum.Trend, ShouldEqual, result.TrendDown)
			So(sum.DefinedYears, ShouldEqual, 2)
			So(sum.Complete, ShouldBeFalse)
		})

		Convey("When only one year is defined", func() {
			s := result.Series{
				{Year: 2021, Value: result.NoData()},
				{Year: 2022, Value: result.Of(5)},
			}
			sum := result.Summarize(s, true)
			So(sum.Trend, ShouldEqual, result.TrendUnknown)
			So(sum.DefinedYears, ShouldEqual, 1)
		})

		Convey("When no year is defined", func() {
			s := result.Series{
				{Year: 2021, Value: result.NoData()},
				{Year: 2022, Value: result.Err(errors.New("boom"))},
			}
			sum := result.Summarize(s, true)
			So(sum.Mean.IsNoData(), ShouldBeTrue)
			So(sum.Trend, ShouldEqual, result.TrendUnknown)
			So(sum.DefinedYears, ShouldEqual, 0)
		})

		Convey("When first and last defined years match", func() {
			s := result.Series{
				{Year: 2021, Value: result.Of(2)},
				{Year: 2022, Value: result.Of(9)},
				{Year: 2023, Value: result.Of(2)},
			}
			sum := result.Summarize(s, true)
			So(sum.Trend, ShouldEqual, result.TrendFlat)
		})
	})
}
