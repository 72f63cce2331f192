// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ProgramType selects the evaluation track: academic or professional.
	ProgramType string `koanf:"program_type"`

	// PeriodStart and PeriodEnd bound the evaluation window, inclusive.
	PeriodStart int `koanf:"period_start"`
	PeriodEnd   int `koanf:"period_end"`

	// LicenseThreshold is the minimum yearly revenue, in BRL, for a
	// licensed patent to earn its bonus.
	LicenseThreshold float64 `koanf:"license_threshold"`

	// YoungDoctorateHorizon is how many years after the doctorate a
	// non-permanent faculty member still counts as a young doctorate.
	YoungDoctorateHorizon int `koanf:"young_doctorate_horizon"`

	// IncludeYoungDoctorateStudentProduction also counts young-doctorate
	// publications in the student-production numerators.
	IncludeYoungDoctorateStudentProduction bool `koanf:"include_young_doctorate_student_production"`

	// Strict makes zero denominators surface as errors instead of
	// degrading to no-data.
	Strict bool `koanf:"strict"`

	// WorkerCount sets the number of computation workers.
	WorkerCount int `koanf:"worker_count"`

	// JobQueueSize bounds the in-memory indicator job queue.
	JobQueueSize int `koanf:"job_queue_size"`

	// DedupeSize sets the size of the import batch deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// BlendFOR and BlendFORDT override the program-type blend weights
	// when both are set above zero.
	BlendFOR   float64 `koanf:"blend_for"`
	BlendFORDT float64 `koanf:"blend_fordt"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		ProgramType:           "academic",
		PeriodStart:           2021,
		PeriodEnd:             2024,
		LicenseThreshold:      100_000,
		YoungDoctorateHorizon: 5,
		Strict:                false,
		WorkerCount:           runtime.NumCPU(),
		JobQueueSize:          256,
		DedupeSize:            4096,
	}
	return c
}
