package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	api "github.com/ppgmetrics/engiv/internal/adapters/http/api"
	"github.com/ppgmetrics/engiv/internal/adapters/repository"
	"github.com/ppgmetrics/engiv/internal/domain/indicator"
	"github.com/ppgmetrics/engiv/internal/domain/model"
	"github.com/ppgmetrics/engiv/internal/domain/result"
	"github.com/ppgmetrics/engiv/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeDeps implements api.Dependencies over in-memory state.
type fakeDeps struct {
	seen      map[string]struct{}
	imports   []model.Records
	importErr error
	snapshot  *types.SnapshotInfo
}

func newFakeDeps() *fakeDeps {
	return &fakeDeps{seen: make(map[string]struct{})}
}

func (d *fakeDeps) SeenAndRecord(_ context.Context, id string) bool {
	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *fakeDeps) Unrecord(_ context.Context, id string) {
	delete(d.seen, id)
}

func (d *fakeDeps) Size() int64 { return int64(len(d.seen)) }

func (d *fakeDeps) Import(_ context.Context, batchID string, recs model.Records) (types.SnapshotInfo, error) {
	if d.importErr != nil {
		return types.SnapshotInfo{}, d.importErr
	}
	d.imports = append(d.imports, recs)
	info := types.SnapshotInfo{
		ID:        "snap-" + batchID,
		CreatedAt: time.Now(),
		Faculty:   len(recs.Faculty),
		Students:  len(recs.Students),
	}
	d.snapshot = &info
	return info, nil
}

func (d *fakeDeps) Report(_ context.Context) (types.Report, error) {
	if d.snapshot == nil {
		return types.Report{}, repository.ErrNoSnapshot
	}
	return types.Report{
		SnapshotID: d.snapshot.ID,
		Program:    model.Academic,
		Period:     model.Period{Start: 2021, End: 2024},
		ComputedAt: time.Now(),
		Version:    indicator.FormulaVersion,
		Indicators: map[string]types.IndicatorReport{
			"ori": {Name: "ori", Series: result.Series{{Year: 2021, Value: result.Of(1.25)}}},
		},
	}, nil
}

func (d *fakeDeps) Indicator(_ context.Context, name string) (types.IndicatorReport, error) {
	if d.snapshot == nil {
		return types.IndicatorReport{}, repository.ErrNoSnapshot
	}
	if name != "ori" {
		return types.IndicatorReport{}, fmt.Errorf("%w: %s", indicator.ErrUnknownIndicator, name)
	}
	return types.IndicatorReport{Name: "ori", Family: "orientation"}, nil
}

func (d *fakeDeps) Indicators(_ context.Context) []string {
	return []string{"ori", "pdo"}
}

func (d *fakeDeps) SnapshotInfo(_ context.Context) (types.SnapshotInfo, error) {
	if d.snapshot == nil {
		return types.SnapshotInfo{}, repository.ErrNoSnapshot
	}
	return *d.snapshot, nil
}

func (d *fakeDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"dedupe_size": d.Size()}
}

func newTestServer(deps *fakeDeps) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps, deps).Register(context.Background(), mux, deps)
	return httptest.NewServer(mux)
}

const validBatch = `{
	"batch_id": "batch-1",
	"faculty": [
		{"id": "f1", "category": "permanent", "doctorate_year": 2010}
	],
	"students": [
		{"id": "s1", "level": "masters", "advisor_id": "f1", "enrollment": "2020-03-01", "defense_date": "2022-03-01", "outcome": "defended"}
	]
}`

func postImport(ts *httptest.Server, body string) (*http.Response, error) {
	return http.Post(ts.URL+"/import", "application/json", strings.NewReader(body))
}

func TestImportEndpoint(t *testing.T) {
	Convey("Given the import endpoint", t, func() {
		deps := newFakeDeps()
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("A valid batch is imported", func() {
			resp, err := postImport(ts, validBatch)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)

			var ack struct {
				Status    string              `json:"status"`
				Duplicate bool                `json:"duplicate"`
				Snapshot  *types.SnapshotInfo `json:"snapshot"`
			}
			So(json.NewDecoder(resp.Body).Decode(&ack), ShouldBeNil)
			So(ack.Status, ShouldEqual, "imported")
			So(ack.Duplicate, ShouldBeFalse)
			So(ack.Snapshot, ShouldNotBeNil)
			So(ack.Snapshot.Faculty, ShouldEqual, 1)

			Convey("And the records were converted from the wire shape", func() {
				So(deps.imports, ShouldHaveLength, 1)
				recs := deps.imports[0]
				So(recs.Faculty[0].Category, ShouldEqual, model.Permanent)
				So(recs.Students[0].Outcome, ShouldEqual, model.Defended)
				So(recs.Students[0].Enrollment.Year(), ShouldEqual, 2020)
			})

			Convey("And a replay of the same batch is acknowledged as duplicate", func() {
				resp, err := postImport(ts, validBatch)
				So(err, ShouldBeNil)
				defer resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var ack struct {
					Status    string `json:"status"`
					Duplicate bool   `json:"duplicate"`
				}
				So(json.NewDecoder(resp.Body).Decode(&ack), ShouldBeNil)
				So(ack.Duplicate, ShouldBeTrue)
				So(deps.imports, ShouldHaveLength, 1)
			})
		})

		Convey("Malformed JSON is a 400", func() {
			resp, err := postImport(ts, `{"batch_id": `)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Schema violations are a 400", func() {
			resp, err := postImport(ts, `{"faculty": [{"id": "f1", "category": "emeritus"}]}`)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A rejected batch is a 422 and its ID can be retried", func() {
			deps.importErr = fmt.Errorf("%w: bad cross reference", model.ErrInvalidRecord)

			resp, err := postImport(ts, validBatch)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusUnprocessableEntity)

			deps.importErr = nil
			resp, err = postImport(ts, validBatch)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)
		})

		Convey("GET is not routed", func() {
			resp, err := http.Get(ts.URL + "/import")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestReportEndpoint(t *testing.T) {
	Convey("Given the report endpoint", t, func() {
		deps := newFakeDeps()
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("Before any import the report conflicts", func() {
			resp, err := http.Get(ts.URL + "/report")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusConflict)
		})

		Convey("After an import the report is served", func() {
			resp, err := postImport(ts, validBatch)
			So(err, ShouldBeNil)
			resp.Body.Close()

			resp, err = http.Get(ts.URL + "/report")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var report types.Report
			So(json.NewDecoder(resp.Body).Decode(&report), ShouldBeNil)
			So(report.SnapshotID, ShouldEqual, "snap-batch-1")
			So(report.Indicators, ShouldContainKey, "ori")
		})
	})
}

func TestIndicatorEndpoints(t *testing.T) {
	Convey("Given the indicator endpoints", t, func() {
		deps := newFakeDeps()
		ts := newTestServer(deps)
		defer ts.Close()

		resp, err := postImport(ts, validBatch)
		So(err, ShouldBeNil)
		resp.Body.Close()

		Convey("The list endpoint names every indicator", func() {
			resp, err := http.Get(ts.URL + "/indicators")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var list struct {
				Indicators []string `json:"indicators"`
			}
			So(json.NewDecoder(resp.Body).Decode(&list), ShouldBeNil)
			So(list.Indicators, ShouldResemble, []string{"ori", "pdo"})
		})

		Convey("A known indicator is served by name", func() {
			resp, err := http.Get(ts.URL + "/indicators/ori")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var rep types.IndicatorReport
			So(json.NewDecoder(resp.Body).Decode(&rep), ShouldBeNil)
			So(rep.Name, ShouldEqual, "ori")
		})

		Convey("An unknown indicator is a 404", func() {
			resp, err := http.Get(ts.URL + "/indicators/nope")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("A nested path is a 400", func() {
			resp, err := http.Get(ts.URL + "/indicators/ori/extra")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestSnapshotEndpoint(t *testing.T) {
	Convey("Given the snapshot endpoint", t, func() {
		deps := newFakeDeps()
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("Before any import it is a 404", func() {
			resp, err := http.Get(ts.URL + "/snapshot")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("After an import it describes the record set", func() {
			resp, err := postImport(ts, validBatch)
			So(err, ShouldBeNil)
			resp.Body.Close()

			resp, err = http.Get(ts.URL + "/snapshot")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var info types.SnapshotInfo
			So(json.NewDecoder(resp.Body).Decode(&info), ShouldBeNil)
			So(info.Students, ShouldEqual, 1)
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given the operational endpoints", t, func() {
		deps := newFakeDeps()
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("Health answers ok", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("Stats serves the provider's map", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var stats map[string]interface{}
			So(json.NewDecoder(resp.Body).Decode(&stats), ShouldBeNil)
			So(stats, ShouldContainKey, "dedupe_size")
		})
	})
}
