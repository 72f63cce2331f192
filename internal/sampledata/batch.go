package sampledata

// Wire shapes mirroring the POST /import schema. Kept local so the tool can
// be pointed at any running instance without importing server internals.

// Batch is the full import payload.
type Batch struct {
	BatchID      string        `json:"batch_id"`
	Faculty      []Faculty     `json:"faculty"`
	Students     []Student     `json:"students"`
	Publications []Publication `json:"publications"`
	Patents      []Patent      `json:"patents"`
	Courses      []Course      `json:"courses"`
	Graduates    []Graduate    `json:"graduates"`
}

// Faculty mirrors one faculty record.
type Faculty struct {
	ID                    string      `json:"id"`
	Name                  string      `json:"name"`
	Category              string      `json:"category"`
	DoctorateYear         int         `json:"doctorate_year"`
	Exclusive             bool        `json:"exclusive"`
	HIndex                *float64    `json:"h_index,omitempty"`
	PQScholar             bool        `json:"pq_scholar"`
	DTScholar             bool        `json:"dt_scholar"`
	UndergradOrientations map[int]int `json:"undergrad_orientations,omitempty"`
}

// Student mirrors one student record.
type Student struct {
	ID          string `json:"id"`
	Level       string `json:"level"`
	AdvisorID   string `json:"advisor_id"`
	Enrollment  string `json:"enrollment"`
	DefenseDate string `json:"defense_date,omitempty"`
	Outcome     string `json:"outcome"`
}

// Publication mirrors one publication record.
type Publication struct {
	ID           string   `json:"id"`
	Kind         string   `json:"kind"`
	FacultyIDs   []string `json:"faculty_ids"`
	StudentIDs   []string `json:"student_ids,omitempty"`
	Stratum      string   `json:"stratum,omitempty"`
	Year         int      `json:"year"`
	AreaAdherent bool     `json:"area_adherent"`
	Complete     bool     `json:"complete"`
}

// Patent mirrors one patent record.
type Patent struct {
	ID         string        `json:"id"`
	FacultyIDs []string      `json:"faculty_ids"`
	StudentIDs []string      `json:"student_ids,omitempty"`
	Events     []PatentEvent `json:"events"`
}

// PatentEvent mirrors one patent status transition.
type PatentEvent struct {
	Status  string  `json:"status"`
	Year    int     `json:"year"`
	Revenue float64 `json:"revenue,omitempty"`
}

// Course mirrors one annual course record.
type Course struct {
	ID            string   `json:"id"`
	Level         string   `json:"level"`
	Year          int      `json:"year"`
	WorkloadHours float64  `json:"workload_hours"`
	InstructorIDs []string `json:"instructor_ids"`
	Registered    bool     `json:"registered"`
	Offered       bool     `json:"offered"`
	Enrolled      int      `json:"enrolled"`
	Approved      int      `json:"approved"`
}

// Graduate mirrors one tracked graduate record.
type Graduate struct {
	ID             string `json:"id"`
	Level          string `json:"level"`
	Year           int    `json:"year"`
	Employed       bool   `json:"employed"`
	InFurtherStudy bool   `json:"in_further_study"`
	OutOfRegion    bool   `json:"out_of_region"`
}
