// Package types contains the report shapes shared between the engine and
// its HTTP consumers.
package types

import (
	"time"

	"github.com/ppgmetrics/engiv/internal/domain/model"
	"github.com/ppgmetrics/engiv/internal/domain/result"
)

// IndicatorReport is one indicator's assembled output: the yearly series
// plus the period summary. Consumers must handle NoData points explicitly
// and must not treat the completeness flag as optional.
type IndicatorReport struct {
	Name     string         `json:"name"`
	Family   string         `json:"family"`
	Kind     string         `json:"kind"`
	Version  string         `json:"version"`
	Series   result.Series  `json:"series"`
	Summary  result.Summary `json:"summary"`
	Complete bool           `json:"complete"`
}

// Report is the full assembled output of one computation pass. Keys are
// never dropped: an indicator that failed still appears, with its failure
// recorded structurally in the series.
type Report struct {
	SnapshotID string                     `json:"snapshot_id"`
	Program    model.ProgramType          `json:"program"`
	Period     model.Period               `json:"period"`
	ComputedAt time.Time                  `json:"computed_at"`
	Version    string                     `json:"version"`
	Indicators map[string]IndicatorReport `json:"indicators"`
}

// SnapshotInfo describes the record set currently loaded.
type SnapshotInfo struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Faculty      int       `json:"faculty"`
	Students     int       `json:"students"`
	Publications int       `json:"publications"`
	Patents      int       `json:"patents"`
	Courses      int       `json:"courses"`
	Graduates    int       `json:"graduates"`
}
