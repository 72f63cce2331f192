package sampledata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppgmetrics/engiv/pkg/logger"
)

// Run generates one batch, imports it, and fetches the computed report.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Get().Named("sampledata")
	stats := &Stats{StartTime: time.Now()}

	batch := NewGenerator(cfg).Generate()
	stats.Faculty = len(batch.Faculty)
	stats.Students = len(batch.Students)
	stats.Publications = len(batch.Publications)
	stats.Patents = len(batch.Patents)
	stats.Courses = len(batch.Courses)
	stats.Graduates = len(batch.Graduates)

	log.Info(ctx, "generated batch",
		logger.String("batchID", batch.BatchID),
		logger.Int("faculty", stats.Faculty),
		logger.Int("students", stats.Students),
		logger.Int("publications", stats.Publications),
		logger.Int("patents", stats.Patents),
		logger.Int("courses", stats.Courses),
		logger.Int("graduates", stats.Graduates),
	)

	client := &http.Client{Timeout: cfg.Timeout}

	if err := importBatch(ctx, client, cfg.BaseURL, batch); err != nil {
		return err
	}
	log.Info(ctx, "batch imported")

	report, err := fetchReport(ctx, client, cfg.BaseURL)
	if err != nil {
		return err
	}
	stats.Indicators = len(report.Indicators)
	stats.Duration = time.Since(stats.StartTime)

	log.Info(ctx, "report computed",
		logger.String("snapshotID", report.SnapshotID),
		logger.Int("indicators", stats.Indicators),
		logger.String("elapsed", stats.Duration.String()),
	)

	if cfg.Verbose {
		for name, ind := range report.Indicators {
			log.Info(ctx, "indicator",
				logger.String("name", name),
				logger.Any("summary", ind.Summary),
			)
		}
	}
	return nil
}

// reportEnvelope holds the pieces of GET /report the tool cares about.
type reportEnvelope struct {
	SnapshotID string `json:"snapshot_id"`
	Indicators map[string]struct {
		Summary any `json:"summary"`
	} `json:"indicators"`
}

func importBatch(ctx context.Context, client *http.Client, baseURL string, batch *Batch) error {
	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshaling batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/import", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating import request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("import rejected with status %d: %s", resp.StatusCode, msg)
	}
	return nil
}

func fetchReport(ctx context.Context, client *http.Client, baseURL string) (*reportEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/report", nil)
	if err != nil {
		return nil, fmt.Errorf("creating report request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("report failed with status %d: %s", resp.StatusCode, msg)
	}

	var report reportEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return &report, nil
}
