// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ppgmetrics/engiv/internal/domain/dedupe"
	"github.com/ppgmetrics/engiv/internal/domain/model"
	"github.com/ppgmetrics/engiv/internal/domain/types"
)

// dateLayout is the wire format for enrollment and defense dates.
const dateLayout = "2006-01-02"

// ImportDependencies defines the interface for batch ingestion dependencies.
type ImportDependencies interface {
	dedupe.Deduper
	Import(ctx context.Context, batchID string, recs model.Records) (types.SnapshotInfo, error)
}

// ImportHandler handles record batch imports.
type ImportHandler struct {
	deps ImportDependencies
}

// NewImportHandler creates a new import handler.
func NewImportHandler(deps ImportDependencies) *ImportHandler {
	return &ImportHandler{deps: deps}
}

// importRequest mirrors the wire schema for POST /import.
type importRequest struct {
	BatchID      string               `json:"batch_id"`
	Faculty      []facultyPayload     `json:"faculty" validate:"dive"`
	Students     []studentPayload     `json:"students" validate:"dive"`
	Publications []publicationPayload `json:"publications" validate:"dive"`
	Patents      []patentPayload      `json:"patents" validate:"dive"`
	Courses      []coursePayload      `json:"courses" validate:"dive"`
	Graduates    []graduatePayload    `json:"graduates" validate:"dive"`
}

type facultyPayload struct {
	ID                    string         `json:"id" validate:"required"`
	Name                  string         `json:"name"`
	Category              string         `json:"category" validate:"required,oneof=permanent collaborating visiting"`
	CategoryByYear        map[int]string `json:"category_by_year" validate:"dive,oneof=permanent collaborating visiting"`
	DoctorateYear         int            `json:"doctorate_year"`
	Exclusive             bool           `json:"exclusive"`
	HIndex                *float64       `json:"h_index" validate:"omitempty,gte=0"`
	PQScholar             bool           `json:"pq_scholar"`
	DTScholar             bool           `json:"dt_scholar"`
	UndergradOrientations map[int]int    `json:"undergrad_orientations" validate:"dive,gte=0"`
}

type studentPayload struct {
	ID             string `json:"id" validate:"required"`
	Level          string `json:"level" validate:"required,oneof=masters doctoral"`
	AdvisorID      string `json:"advisor_id"`
	Enrollment     string `json:"enrollment" validate:"required,datetime=2006-01-02"`
	DefenseDate    string `json:"defense_date" validate:"omitempty,datetime=2006-01-02"`
	WithdrawalDate string `json:"withdrawal_date" validate:"omitempty,datetime=2006-01-02"`
	Outcome        string `json:"outcome" validate:"required,oneof=defended withdrawn in_progress"`
}

type publicationPayload struct {
	ID           string   `json:"id" validate:"required"`
	Kind         string   `json:"kind" validate:"required,oneof=journal conference"`
	FacultyIDs   []string `json:"faculty_ids"`
	StudentIDs   []string `json:"student_ids"`
	Stratum      string   `json:"stratum" validate:"omitempty,oneof=A1 A2 A3 A4 B1 B2 B3 B4 Other"`
	Year         int      `json:"year" validate:"required"`
	AreaAdherent bool     `json:"area_adherent"`
	Complete     bool     `json:"complete"`
}

type patentPayload struct {
	ID         string               `json:"id" validate:"required"`
	FacultyIDs []string             `json:"faculty_ids"`
	StudentIDs []string             `json:"student_ids"`
	Events     []patentEventPayload `json:"events" validate:"min=1,dive"`
}

type patentEventPayload struct {
	Status  string  `json:"status" validate:"required,oneof=filed granted licensed"`
	Year    int     `json:"year" validate:"required"`
	Revenue float64 `json:"revenue" validate:"gte=0"`
}

type coursePayload struct {
	ID            string   `json:"id" validate:"required"`
	Level         string   `json:"level" validate:"required,oneof=graduate undergraduate"`
	Year          int      `json:"year" validate:"required"`
	WorkloadHours float64  `json:"workload_hours" validate:"gte=0"`
	InstructorIDs []string `json:"instructor_ids"`
	Registered    bool     `json:"registered"`
	Offered       bool     `json:"offered"`
	Enrolled      int      `json:"enrolled" validate:"gte=0"`
	Approved      int      `json:"approved" validate:"gte=0"`
}

type graduatePayload struct {
	ID             string `json:"id" validate:"required"`
	Level          string `json:"level" validate:"required,oneof=masters doctoral"`
	Year           int    `json:"year" validate:"required"`
	Employed       bool   `json:"employed"`
	InFurtherStudy bool   `json:"in_further_study"`
	OutOfRegion    bool   `json:"out_of_region"`
}

// HandlePostImport handles POST /import requests.
func (h *ImportHandler) HandlePostImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	recs, err := req.toRecords()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	// Idempotency check - mark the batch as seen first
	if req.BatchID != "" && h.deps.SeenAndRecord(r.Context(), req.BatchID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	info, err := h.deps.Import(r.Context(), req.BatchID, recs)
	if err != nil {
		// Rollback the "seen" status so a corrected batch can reuse the ID
		if req.BatchID != "" {
			h.deps.Unrecord(r.Context(), req.BatchID)
		}
		writeError(w, http.StatusUnprocessableEntity, "invalid_batch", err)
		return
	}
	writeJSON(w, http.StatusCreated, ackResponse{Status: "imported", Duplicate: false, Snapshot: &info})
}

func (r importRequest) toRecords() (model.Records, error) {
	recs := model.Records{
		Faculty:      make([]model.Faculty, 0, len(r.Faculty)),
		Students:     make([]model.Student, 0, len(r.Students)),
		Publications: make([]model.Publication, 0, len(r.Publications)),
		Patents:      make([]model.Patent, 0, len(r.Patents)),
		Courses:      make([]model.Course, 0, len(r.Courses)),
		Graduates:    make([]model.Graduate, 0, len(r.Graduates)),
	}

	for _, f := range r.Faculty {
		var byYear map[int]model.Category
		if len(f.CategoryByYear) > 0 {
			byYear = make(map[int]model.Category, len(f.CategoryByYear))
			for year, c := range f.CategoryByYear {
				byYear[year] = model.Category(c)
			}
		}
		recs.Faculty = append(recs.Faculty, model.Faculty{
			ID:                    f.ID,
			Name:                  f.Name,
			Category:              model.Category(f.Category),
			CategoryByYear:        byYear,
			DoctorateYear:         f.DoctorateYear,
			Exclusive:             f.Exclusive,
			HIndex:                f.HIndex,
			PQScholar:             f.PQScholar,
			DTScholar:             f.DTScholar,
			UndergradOrientations: f.UndergradOrientations,
		})
	}

	for _, s := range r.Students {
		enrollment, err := time.Parse(dateLayout, s.Enrollment)
		if err != nil {
			return model.Records{}, fmt.Errorf("student %s: %w", s.ID, err)
		}
		var defense, withdrawal time.Time
		if s.DefenseDate != "" {
			if defense, err = time.Parse(dateLayout, s.DefenseDate); err != nil {
				return model.Records{}, fmt.Errorf("student %s: %w", s.ID, err)
			}
		}
		if s.WithdrawalDate != "" {
			if withdrawal, err = time.Parse(dateLayout, s.WithdrawalDate); err != nil {
				return model.Records{}, fmt.Errorf("student %s: %w", s.ID, err)
			}
		}
		recs.Students = append(recs.Students, model.Student{
			ID:             s.ID,
			Level:          model.Level(s.Level),
			AdvisorID:      s.AdvisorID,
			Enrollment:     enrollment,
			DefenseDate:    defense,
			WithdrawalDate: withdrawal,
			Outcome:        model.Outcome(s.Outcome),
		})
	}

	for _, p := range r.Publications {
		stratum := model.Stratum(p.Stratum)
		if p.Stratum == "" {
			stratum = model.StratumOther
		}
		recs.Publications = append(recs.Publications, model.Publication{
			ID:           p.ID,
			Kind:         model.PublicationKind(p.Kind),
			FacultyIDs:   p.FacultyIDs,
			StudentIDs:   p.StudentIDs,
			Stratum:      stratum,
			Year:         p.Year,
			AreaAdherent: p.AreaAdherent,
			Complete:     p.Complete,
		})
	}

	for _, p := range r.Patents {
		events := make([]model.PatentEvent, 0, len(p.Events))
		for _, e := range p.Events {
			events = append(events, model.PatentEvent{
				Status:  model.PatentStatus(e.Status),
				Year:    e.Year,
				Revenue: e.Revenue,
			})
		}
		recs.Patents = append(recs.Patents, model.Patent{
			ID:         p.ID,
			FacultyIDs: p.FacultyIDs,
			StudentIDs: p.StudentIDs,
			Events:     events,
		})
	}

	for _, c := range r.Courses {
		recs.Courses = append(recs.Courses, model.Course{
			ID:            c.ID,
			Level:         model.CourseLevel(c.Level),
			Year:          c.Year,
			WorkloadHours: c.WorkloadHours,
			InstructorIDs: c.InstructorIDs,
			Registered:    c.Registered,
			Offered:       c.Offered,
			Enrolled:      c.Enrolled,
			Approved:      c.Approved,
		})
	}

	for _, g := range r.Graduates {
		recs.Graduates = append(recs.Graduates, model.Graduate{
			ID:             g.ID,
			Level:          model.Level(g.Level),
			Year:           g.Year,
			Employed:       g.Employed,
			InFurtherStudy: g.InFurtherStudy,
			OutOfRegion:    g.OutOfRegion,
		})
	}

	return recs, nil
}
