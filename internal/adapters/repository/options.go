// Package repository defines the record snapshot store and its errors.
package repository

import "github.com/ppgmetrics/engiv/internal/domain/model"

// Option applies a configuration option to the InMemoryStore.
type Option func(*InMemoryStore)

// WithSnapshot seeds the store with an initial snapshot.
func WithSnapshot(s *model.Snapshot) Option {
	return func(st *InMemoryStore) {
		st.snapshot = s
	}
}
