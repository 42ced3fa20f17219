// Package memory is an in-memory category repository.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pmcouto/centavo/internal/category"
)

type Store struct {
	mu   sync.Mutex
	cats map[uuid.UUID]*category.Category
}

func New() *Store {
	return &Store{cats: make(map[uuid.UUID]*category.Category)}
}

func clone(c *category.Category) *category.Category {
	cp := *c
	return &cp
}

func (s *Store) CreateCategory(_ context.Context, c *category.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	s.cats[c.ID] = clone(c)

	return nil
}

func (s *Store) GetCategory(_ context.Context, id uuid.UUID) (*category.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cats[id]
	if !ok {
		return nil, category.ErrNotFound
	}

	return clone(c), nil
}

func (s *Store) ListCategories(_ context.Context, ownerID *uuid.UUID) ([]*category.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cats []*category.Category

	for _, c := range s.cats {
		if ownerID != nil && c.OwnerID != *ownerID {
			continue
		}

		cats = append(cats, clone(c))
	}

	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })

	return cats, nil
}

func (s *Store) UpdateCategory(_ context.Context, c *category.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cats[c.ID]; !ok {
		return category.ErrNotFound
	}

	s.cats[c.ID] = clone(c)

	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cats[id]; !ok {
		return category.ErrNotFound
	}

	delete(s.cats, id)

	return nil
}
