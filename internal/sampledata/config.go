package sampledata

import "time"

// Config holds configuration for the sample data run.
type Config struct {
	BaseURL     string        // Base URL of the service
	Faculty     int           // Number of faculty members to generate
	Students    int           // Number of students to generate
	PeriodStart int           // First evaluation year
	PeriodEnd   int           // Last evaluation year
	Seed        int64         // Random seed for reproducible batches
	Timeout     time.Duration // HTTP request timeout
	Verbose     bool          // Enable verbose logging
}

// Stats holds run statistics.
type Stats struct {
	Faculty      int
	Students     int
	Publications int
	Patents      int
	Courses      int
	Graduates    int
	Indicators   int
	StartTime    time.Time
	Duration     time.Duration
}
