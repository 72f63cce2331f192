package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/ppgmetrics/engiv/internal/sampledata"
	"github.com/ppgmetrics/engiv/pkg/logger"
)

// Default configuration constants.
const (
	defaultFaculty     = 18
	defaultStudents    = 120
	defaultPeriodStart = 2021
	defaultPeriodEnd   = 2024
	defaultTimeout     = 30 * time.Second
	defaultRunTimeout  = 5 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		faculty     = flag.Int("faculty", defaultFaculty, "Number of faculty members to generate")
		students    = flag.Int("students", defaultStudents, "Number of students to generate")
		periodStart = flag.Int("period-start", defaultPeriodStart, "First evaluation year")
		periodEnd   = flag.Int("period-end", defaultPeriodEnd, "Last evaluation year")
		seed        = flag.Int64("seed", 0, "Random seed (0 = time-based)")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose     = flag.Bool("verbose", false, "Log every indicator summary")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &sampledata.Config{
		BaseURL:     *baseURL,
		Faculty:     *faculty,
		Students:    *students,
		PeriodStart: *periodStart,
		PeriodEnd:   *periodEnd,
		Seed:        *seed,
		Timeout:     *timeout,
		Verbose:     *verbose,
	}

	if err := sampledata.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("sample data run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
