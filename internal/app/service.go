// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/ppgmetrics/engiv/internal/adapters/mq/queue"
	workerpool "github.com/ppgmetrics/engiv/internal/adapters/mq/worker"
	repository "github.com/ppgmetrics/engiv/internal/adapters/repository"
	"github.com/ppgmetrics/engiv/internal/domain/dedupe"
	"github.com/ppgmetrics/engiv/internal/domain/indicator"
	"github.com/ppgmetrics/engiv/internal/domain/model"
	"github.com/ppgmetrics/engiv/internal/domain/types"
	"github.com/ppgmetrics/engiv/internal/domain/window"
	"github.com/ppgmetrics/engiv/pkg/logger"
	"github.com/ppgmetrics/engiv/pkg/metrics"
)

// Service owns the snapshot store, the calculator registry, and the worker
// pool that fans computation passes out per indicator.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	deduper  dedupe.Deduper
	registry *indicator.Registry

	// Configuration
	program          model.ProgramType
	period           model.Period
	licenseThreshold float64
	youngHorizon     int
	studentPolicy    bool
	strict           bool
	blendOverride    *indicator.Blend
	workerCount      int
	queueSize        int
	dedupeSize       int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProgramType sets the evaluation track.
func WithProgramType(pt model.ProgramType) Option {
	return func(s *Service) {
		s.program = pt
	}
}

// WithPeriod sets the evaluation window.
func WithPeriod(p model.Period) Option {
	return func(s *Service) {
		s.period = p
	}
}

// WithStrict makes zero denominators surface as errors instead of no-data.
func WithStrict(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithLicenseThreshold sets the licensed-patent revenue threshold.
func WithLicenseThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold > 0 {
			s.licenseThreshold = threshold
		}
	}
}

// WithYoungDoctorateHorizon sets the young-doctorate horizon in years.
func WithYoungDoctorateHorizon(years int) Option {
	return func(s *Service) {
		if years > 0 {
			s.youngHorizon = years
		}
	}
}

// WithStudentProductionPolicy also counts young-doctorate publications in
// the student-production numerators.
func WithStudentProductionPolicy(include bool) Option {
	return func(s *Service) {
		s.studentPolicy = include
	}
}

// WithBlendOverride replaces the program-type blend weights for every
// program type.
func WithBlendOverride(forWeight, fordtWeight float64) Option {
	return func(s *Service) {
		if forWeight > 0 || fordtWeight > 0 {
			s.blendOverride = &indicator.Blend{FOR: forWeight, FORDT: fordtWeight}
		}
	}
}

// WithWorkerCount sets the number of computation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithJobQueueSize sets the maximum size of the indicator job queue.
func WithJobQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the import batch deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		program:          model.Academic,
		licenseThreshold: model.DefaultLicenseThreshold,
		youngHorizon:     indicator.DefaultYoungDoctorateHorizon,
		workerCount:      runtime.NumCPU(),
		queueSize:        256,
		dedupeSize:       4096,
		logger:           nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting indicator service...")

	if !s.period.Valid() {
		return fmt.Errorf("%w: %v", model.ErrInvalidPeriod, s.period)
	}

	s.store = repository.NewInMemoryStore()
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)

	regOpts := []indicator.Option{
		indicator.WithStrict(s.strict),
		indicator.WithYoungDoctorateHorizon(s.youngHorizon),
		indicator.WithStudentProductionPolicy(s.studentPolicy),
	}
	if s.blendOverride != nil {
		regOpts = append(regOpts, indicator.WithBlends(map[model.ProgramType]indicator.Blend{
			model.Academic:     *s.blendOverride,
			model.Professional: *s.blendOverride,
		}))
	}
	s.registry = indicator.NewRegistry(regOpts...)

	s.started = true
	s.logger.Info(ctx, "indicator service started",
		logger.String("program", string(s.program)),
		logger.String("period", s.period.String()),
		logger.Int("workers", s.workerCount),
		logger.Int("indicators", len(s.registry.Names())),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping indicator service...")
	s.started = false
	s.logger.Info(context.Background(), "indicator service stopped")
}

// SeenAndRecord atomically checks whether a batch ID was already ingested
// and records it if not. Returns true for duplicates.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordImportDuplicate()
	}
	return seen
}

// Unrecord removes a batch ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size reports how many batch IDs the deduper currently tracks.
func (s *Service) Size() int64 {
	return s.deduper.Size()
}

// Import builds a snapshot from the batch's records and installs it.
// Idempotency is the caller's concern via SeenAndRecord.
func (s *Service) Import(ctx context.Context, batchID string, recs model.Records) (types.SnapshotInfo, error) {
	if batchID == "" {
		batchID = uuid.NewString()
	}

	snap, err := model.NewSnapshot(s.program, s.period, recs,
		model.WithLicenseThreshold(s.licenseThreshold),
	)
	if err != nil {
		metrics.RecordImportRejected()
		s.logger.Warn(ctx, "batch rejected",
			logger.String("batchID", batchID),
			logger.Error(err),
		)
		return types.SnapshotInfo{}, fmt.Errorf("building snapshot: %w", err)
	}

	if err := s.store.Replace(ctx, snap); err != nil {
		metrics.RecordImportRejected()
		return types.SnapshotInfo{}, fmt.Errorf("installing snapshot: %w", err)
	}

	metrics.RecordImportAccepted()
	info := snapshotInfo(snap)
	s.logger.Info(ctx, "batch imported",
		logger.String("batchID", batchID),
		logger.String("snapshotID", info.ID),
		logger.Int("faculty", info.Faculty),
		logger.Int("students", info.Students),
		logger.Int("publications", info.Publications),
		logger.Int("patents", info.Patents),
	)
	return info, nil
}

// Evaluate satisfies the worker pool's evaluator contract.
func (s *Service) Evaluate(ctx context.Context, snap *model.Snapshot, c indicator.Calculator) (window.Evaluation, error) {
	return window.Evaluate(ctx, snap, c)
}

// collector gathers indicator reports from the worker pool.
type collector struct {
	ch chan types.IndicatorReport
}

func (c *collector) Publish(_ context.Context, r types.IndicatorReport) error {
	c.ch <- r
	return nil
}

// Report runs every registered calculator over the current snapshot and
// assembles the full report. Indicators are computed concurrently; an
// indicator is never dropped from the result, failures stay visible in its
// series.
func (s *Service) Report(ctx context.Context) (types.Report, error) {
	snap, err := s.store.View(ctx)
	if err != nil {
		return types.Report{}, fmt.Errorf("no snapshot to compute: %w", err)
	}

	start := time.Now()
	defer func() {
		metrics.RecordComputation()
		metrics.RecordComputationDuration(float64(time.Since(start).Milliseconds()))
	}()

	calcs := s.registry.All()
	queue := jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(max(len(calcs), s.queueSize)),
	)
	sink := &collector{ch: make(chan types.IndicatorReport, len(calcs))}
	pool := workerpool.NewPool(s.workerCount, queue, s, sink)
	pool.Start(ctx)

	for _, c := range calcs {
		job := jobqueue.Job{
			ID:        uuid.NewString(),
			Calc:      c,
			Snapshot:  snap,
			Submitted: time.Now(),
		}
		if !queue.Enqueue(ctx, job) {
			_ = queue.Close()
			pool.Stop()
			return types.Report{}, fmt.Errorf("enqueue %s: %w", c.Name, ErrComputationAborted)
		}
	}
	if err := queue.Close(); err != nil {
		return types.Report{}, fmt.Errorf("closing job queue: %w", err)
	}
	if err := pool.Wait(ctx); err != nil {
		return types.Report{}, fmt.Errorf("computation pass: %w", err)
	}
	close(sink.ch)

	indicators := make(map[string]types.IndicatorReport, len(calcs))
	for r := range sink.ch {
		indicators[r.Name] = r
	}

	return types.Report{
		SnapshotID: snap.ID,
		Program:    snap.Program,
		Period:     snap.Period,
		ComputedAt: time.Now().UTC(),
		Version:    indicator.FormulaVersion,
		Indicators: indicators,
	}, nil
}

// Indicator computes a single indicator by name over the current snapshot.
func (s *Service) Indicator(ctx context.Context, name string) (types.IndicatorReport, error) {
	c, ok := s.registry.Get(name)
	if !ok {
		return types.IndicatorReport{}, fmt.Errorf("%w: %s", indicator.ErrUnknownIndicator, name)
	}

	snap, err := s.store.View(ctx)
	if err != nil {
		return types.IndicatorReport{}, fmt.Errorf("no snapshot to compute: %w", err)
	}

	ev, err := window.Evaluate(ctx, snap, c)
	if err != nil {
		return types.IndicatorReport{}, fmt.Errorf("evaluating %s: %w", name, err)
	}

	return types.IndicatorReport{
		Name:     c.Name,
		Family:   c.Family,
		Kind:     string(c.Kind),
		Version:  c.Version,
		Series:   ev.Series,
		Summary:  ev.Summary,
		Complete: ev.Complete,
	}, nil
}

// Indicators lists the registered indicator names.
func (s *Service) Indicators(_ context.Context) []string {
	return s.registry.Names()
}

// SnapshotInfo describes the currently loaded record set.
func (s *Service) SnapshotInfo(ctx context.Context) (types.SnapshotInfo, error) {
	counts, err := s.store.Info(ctx)
	if err != nil {
		return types.SnapshotInfo{}, err
	}
	return types.SnapshotInfo{
		ID:           counts.ID,
		CreatedAt:    counts.CreatedAt,
		Faculty:      counts.Faculty,
		Students:     counts.Students,
		Publications: counts.Publications,
		Patents:      counts.Patents,
		Courses:      counts.Courses,
		Graduates:    counts.Graduates,
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"program":     string(s.program),
		"period":      s.period.String(),
		"strict":      s.strict,
		"workerCount": s.workerCount,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		stats["indicators"] = len(s.registry.Names())
		stats["batchesSeen"] = s.deduper.Size()
		if counts, err := s.store.Info(context.Background()); err == nil {
			stats["snapshotID"] = counts.ID
			stats["records"] = counts.Faculty + counts.Students + counts.Publications +
				counts.Patents + counts.Courses + counts.Graduates
		}
	}

	return stats
}

func snapshotInfo(s *model.Snapshot) types.SnapshotInfo {
	return types.SnapshotInfo{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		Faculty:      len(s.Faculty),
		Students:     len(s.Students),
		Publications: len(s.Publications),
		Patents:      len(s.Patents),
		Courses:      len(s.Courses),
		Graduates:    len(s.Graduates),
	}
}
