// Package memory provides an in-memory storage.ExampleStore for tests and
// local development without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/launchbox/webapi/internal/storage"
)

// Store implements storage.ExampleStore with an in-process map.
type Store struct {
	mu       sync.RWMutex
	examples map[int64]storage.Example
	nextID   int64
}

var _ storage.ExampleStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{examples: make(map[int64]storage.Example), nextID: 1}
}

// Create inserts a new example, rejecting duplicate codes.
func (s *Store) Create(_ context.Context, params storage.CreateExampleParams) (storage.Example, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.examples {
		if existing.Code == params.Code {
			return storage.Example{}, storage.ErrAlreadyExists
		}
	}

	now := time.Now().UTC()
	example := storage.Example{
		ID:        s.nextID,
		Code:      params.Code,
		Value:     params.Value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.examples[example.ID] = example
	s.nextID++
	return example, nil
}

// Get retrieves one example by id.
func (s *Store) Get(_ context.Context, id int64) (storage.Example, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	example, ok := s.examples[id]
	if !ok {
		return storage.Example{}, storage.ErrNotFound
	}
	return example, nil
}

// List returns one page of examples ordered by id.
func (s *Store) List(_ context.Context, page storage.Page) ([]storage.Example, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]storage.Example, 0, len(s.examples))
	for _, example := range s.examples {
		all = append(all, example)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	offset := page.Offset()
	if offset >= len(all) {
		return []storage.Example{}, nil
	}
	end := offset + page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// Update applies a partial update.
func (s *Store) Update(_ context.Context, id int64, params storage.UpdateExampleParams) (storage.Example, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	example, ok := s.examples[id]
	if !ok {
		return storage.Example{}, storage.ErrNotFound
	}

	if params.Code != nil {
		example.Code = *params.Code
	}
	if params.Value != nil {
		example.Value = *params.Value
	}
	example.UpdatedAt = time.Now().UTC()

	s.examples[id] = example
	return example, nil
}

// Delete removes one example and returns it.
func (s *Store) Delete(_ context.Context, id int64) (storage.Example, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	example, ok := s.examples[id]
	if !ok {
		return storage.Example{}, storage.ErrNotFound
	}
	delete(s.examples, id)
	return example, nil
}
