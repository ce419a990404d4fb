package repository

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// store is an insertion-ordered map guarded by its own lock. Values are
// copied in and out through clone so callers never share state with it.
type store[T any] struct {
	mu    sync.RWMutex
	items map[uuid.UUID]T
	order []uuid.UUID
	clone func(T) T
}

func newStore[T any](clone func(T) T) *store[T] {
	return &store[T]{
		items: make(map[uuid.UUID]T),
		clone: clone,
	}
}

func (s *store[T]) create(id uuid.UUID, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return ErrDuplicateID
	}
	s.items[id] = s.clone(v)
	s.order = append(s.order, id)
	return nil
}

func (s *store[T]) find(id uuid.UUID) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[id]
	if !ok {
		var zero T
		return zero, ErrRecordNotFound
	}
	return s.clone(v), nil
}

func (s *store[T]) list() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.clone(s.items[id]))
	}
	return out
}

func (s *store[T]) ids() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

func (s *store[T]) update(id uuid.UUID, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrRecordNotFound
	}
	s.items[id] = s.clone(v)
	return nil
}

func (s *store[T]) delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrRecordNotFound
	}
	delete(s.items, id)
	s.order = slices.DeleteFunc(s.order, func(other uuid.UUID) bool {
		return other == id
	})
	return nil
}
