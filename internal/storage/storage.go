// Package storage defines the persistence contract for the example resource.
package storage

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by stores. The HTTP layer maps these to response
// statuses.
var (
	ErrNotFound      = errors.New("no result found")
	ErrAlreadyExists = errors.New("already exists")
	ErrNoReference   = errors.New("problem referencing other objects")
)

// Example is the demonstration resource persisted by the service.
type Example struct {
	ID        int64     `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Value     string    `json:"value" db:"value"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateExampleParams carries the fields accepted on resource creation.
type CreateExampleParams struct {
	Code  string `json:"code"`
	Value string `json:"value"`
}

// UpdateExampleParams carries a partial update; nil fields are left untouched.
type UpdateExampleParams struct {
	Code  *string `json:"code"`
	Value *string `json:"value"`
}

// Page bounds a paginated listing. NewPage clamps out-of-range values.
type Page struct {
	Number int
	Limit  int
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

// NewPage normalizes pagination parameters: page numbers start at 1 and the
// limit is clamped to [1, 50] with a default of 10.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// ExampleStore is the persistence interface for the example resource.
type ExampleStore interface {
	Create(ctx context.Context, params CreateExampleParams) (Example, error)
	Get(ctx context.Context, id int64) (Example, error)
	List(ctx context.Context, page Page) ([]Example, error)
	Update(ctx context.Context, id int64, params UpdateExampleParams) (Example, error)
	Delete(ctx context.Context, id int64) (Example, error)
}
