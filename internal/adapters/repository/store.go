// Package repository defines the record snapshot store and its errors.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/ppgmetrics/engiv/internal/domain/model"
	"github.com/ppgmetrics/engiv/pkg/metrics"
)

// Store provides access to the current record snapshot. Replace swaps the
// whole record set atomically; View hands out the snapshot a computation
// pass reads, so imports never mutate records mid-computation.
type Store interface {
	// Replace installs a freshly built snapshot, discarding the previous
	// one.
	Replace(ctx context.Context, s *model.Snapshot) error

	// View returns the current snapshot. Returns ErrNoSnapshot before the
	// first import.
	View(ctx context.Context) (*model.Snapshot, error)

	// Info summarizes the current snapshot's record counts.
	Info(ctx context.Context) (SnapshotCounts, error)
}

// SnapshotCounts summarizes what the store currently holds.
type SnapshotCounts struct {
	ID           string
	CreatedAt    time.Time
	Faculty      int
	Students     int
	Publications int
	Patents      int
	Courses      int
	Graduates    int
}

// InMemoryStore implements Store with a single RWMutex-guarded snapshot
// pointer. Imports take the write lock; computation passes take the read
// lock once to fetch the pointer and then read the immutable snapshot
// without further synchronization.
type InMemoryStore struct {
	mu       sync.RWMutex
	snapshot *model.Snapshot
}

// NewInMemoryStore creates an empty snapshot store.
func NewInMemoryStore(opts ...Option) *InMemoryStore {
	st := &InMemoryStore{}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Replace installs the new snapshot.
func (st *InMemoryStore) Replace(_ context.Context, s *model.Snapshot) error {
	if s == nil {
		return ErrNilSnapshot
	}
	st.mu.Lock()
	st.snapshot = s
	st.mu.Unlock()

	metrics.UpdateSnapshotRecords(len(s.Faculty) + len(s.Students) + len(s.Publications) + len(s.Patents) + len(s.Courses) + len(s.Graduates))
	metrics.RecordSnapshotReplace()
	return nil
}

// View returns the current snapshot pointer.
func (st *InMemoryStore) View(_ context.Context) (*model.Snapshot, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.snapshot == nil {
		return nil, ErrNoSnapshot
	}
	return st.snapshot, nil
}

// Info summarizes the current snapshot.
func (st *InMemoryStore) Info(ctx context.Context) (SnapshotCounts, error) {
	s, err := st.View(ctx)
	if err != nil {
		return SnapshotCounts{}, err
	}
	return SnapshotCounts{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		Faculty:      len(s.Faculty),
		Students:     len(s.Students),
		Publications: len(s.Publications),
		Patents:      len(s.Patents),
		Courses:      len(s.Courses),
		Graduates:    len(s.Graduates),
	}, nil
}
