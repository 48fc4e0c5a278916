// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/billease/billease/internal/models"
	"github.com/billease/billease/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SavePeople replaces the saved people list in one transaction.
func (s *SQLiteStore) SavePeople(ctx context.Context, people []models.Person) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM saved_people"); err != nil {
		return fmt.Errorf("failed to clear saved people: %w", err)
	}
	for i, person := range people {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO saved_people (id, name, position) VALUES (?, ?, ?)",
			person.ID, person.Name, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert person: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadPeople returns the saved people list in saved order. Rows missing an
// id or name are skipped rather than surfaced.
func (s *SQLiteStore) LoadPeople(ctx context.Context) ([]models.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name FROM saved_people ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved people: %w", err)
	}
	defer rows.Close()

	var people []models.Person
	for rows.Next() {
		var person models.Person
		if err := rows.Scan(&person.ID, &person.Name); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		if person.ID == "" || person.Name == "" {
			continue
		}
		people = append(people, person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saved people: %w", err)
	}
	return people, nil
}

// SavePools replaces the saved custom pools in one transaction.
func (s *SQLiteStore) SavePools(ctx context.Context, pools []models.CustomPool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM saved_pools"); err != nil {
		return fmt.Errorf("failed to clear saved pools: %w", err)
	}
	for _, pool := range pools {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO saved_pools (id, name) VALUES (?, ?)",
			pool.ID, pool.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert pool: %w", err)
		}
		for _, personID := range pool.PersonIDs {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO saved_pool_members (pool_id, person_id) VALUES (?, ?)",
				pool.ID, personID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert pool member: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadPools returns the saved custom pools with their memberships. Pools
// missing an id or name and empty member ids are skipped silently.
func (s *SQLiteStore) LoadPools(ctx context.Context) ([]models.CustomPool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM saved_pools")
	if err != nil {
		return nil, fmt.Errorf("failed to load saved pools: %w", err)
	}
	defer rows.Close()

	var pools []models.CustomPool
	for rows.Next() {
		var pool models.CustomPool
		if err := rows.Scan(&pool.ID, &pool.Name); err != nil {
			return nil, fmt.Errorf("failed to scan pool: %w", err)
		}
		if pool.ID == "" || pool.Name == "" {
			continue
		}
		pools = append(pools, pool)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saved pools: %w", err)
	}

	for i := range pools {
		memberRows, err := s.db.QueryContext(ctx,
			"SELECT person_id FROM saved_pool_members WHERE pool_id = ? ORDER BY person_id",
			pools[i].ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load pool members: %w", err)
		}
		for memberRows.Next() {
			var personID string
			if err := memberRows.Scan(&personID); err != nil {
				memberRows.Close()
				return nil, fmt.Errorf("failed to scan pool member: %w", err)
			}
			if personID == "" {
				continue
			}
			pools[i].PersonIDs = append(pools[i].PersonIDs, personID)
		}
		memberRows.Close()
		if err := memberRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate pool members: %w", err)
		}
	}
	return pools, nil
}

// Clear removes all persisted lists.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM saved_pool_members",
		"DELETE FROM saved_pools",
		"DELETE FROM saved_people",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear persisted data: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
