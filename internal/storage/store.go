// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/billease/billease/internal/models"
)

// Store defines the interface for persisting the saved people list and the
// saved custom pools. This abstraction allows swapping storage backends
// (SQLite, PostgreSQL, etc.) without changing the service layer.
//
// Only people and pools persist between sessions; items, assignments and
// charges are deliberately session-local and never reach this interface.
type Store interface {
	// SavePeople replaces the saved people list.
	SavePeople(ctx context.Context, people []models.Person) error

	// LoadPeople returns the saved people list in saved order. Malformed
	// rows are discarded silently; a missing list is an empty slice, not an
	// error.
	LoadPeople(ctx context.Context) ([]models.Person, error)

	// SavePools replaces the saved custom pools.
	SavePools(ctx context.Context, pools []models.CustomPool) error

	// LoadPools returns the saved custom pools. Malformed rows are
	// discarded silently.
	LoadPools(ctx context.Context) ([]models.CustomPool, error)

	// Clear removes everything persisted, backing a full app reset.
	Clear(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
