// Package postgres implements storage.ExampleStore backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/launchbox/webapi/internal/storage"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// Store implements storage.ExampleStore backed by PostgreSQL.
type Store struct {
	db *sqlx.DB
}

var _ storage.ExampleStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new example row.
func (s *Store) Create(ctx context.Context, params storage.CreateExampleParams) (storage.Example, error) {
	now := time.Now().UTC()

	var example storage.Example
	err := s.db.GetContext(ctx, &example, `
		INSERT INTO examples (code, value, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING id, code, value, created_at, updated_at
	`, params.Code, params.Value, now)
	if err != nil {
		return storage.Example{}, mapError(err)
	}
	return example, nil
}

// Get retrieves one example by id.
func (s *Store) Get(ctx context.Context, id int64) (storage.Example, error) {
	var example storage.Example
	err := s.db.GetContext(ctx, &example, `
		SELECT id, code, value, created_at, updated_at
		FROM examples
		WHERE id = $1
	`, id)
	if err != nil {
		return storage.Example{}, mapError(err)
	}
	return example, nil
}

// List returns one page of examples ordered by id.
func (s *Store) List(ctx context.Context, page storage.Page) ([]storage.Example, error) {
	examples := []storage.Example{}
	err := s.db.SelectContext(ctx, &examples, `
		SELECT id, code, value, created_at, updated_at
		FROM examples
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, page.Limit, page.Offset())
	if err != nil {
		return nil, mapError(err)
	}
	return examples, nil
}

// Update applies a partial update and returns the updated row.
func (s *Store) Update(ctx context.Context, id int64, params storage.UpdateExampleParams) (storage.Example, error) {
	var example storage.Example
	err := s.db.GetContext(ctx, &example, `
		UPDATE examples
		SET code = COALESCE($2, code),
		    value = COALESCE($3, value),
		    updated_at = $4
		WHERE id = $1
		RETURNING id, code, value, created_at, updated_at
	`, id, params.Code, params.Value, time.Now().UTC())
	if err != nil {
		return storage.Example{}, mapError(err)
	}
	return example, nil
}

// Delete removes one example and returns the deleted row.
func (s *Store) Delete(ctx context.Context, id int64) (storage.Example, error) {
	var example storage.Example
	err := s.db.GetContext(ctx, &example, `
		DELETE FROM examples
		WHERE id = $1
		RETURNING id, code, value, created_at, updated_at
	`, id)
	if err != nil {
		return storage.Example{}, mapError(err)
	}
	return example, nil
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return storage.ErrAlreadyExists
		case pqForeignKeyViolation:
			return storage.ErrNoReference
		}
	}
	return err
}
