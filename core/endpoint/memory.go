package endpoint

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is a map-backed Store. ReadAll returns items in insertion order.
type MemoryStore[T any, K comparable] struct {
	Events[T]

	mu     sync.RWMutex
	key    KeyFunc[T, K]
	items  map[K]T
	order  []K
	assign func(item T, seq int) T
	seq    int
}

// MemoryOption configures a MemoryStore.
type MemoryOption[T any, K comparable] func(*MemoryStore[T, K])

// WithKeyAssigner sets a function that gives keyless items an id on Create.
// seq increases on every call; ids already in use are skipped.
func WithKeyAssigner[T any, K comparable](fn func(item T, seq int) T) MemoryOption[T, K] {
	return func(s *MemoryStore[T, K]) {
		s.assign = fn
	}
}

// WithItems seeds the store without publishing change notifications.
// Keyless and duplicate items are skipped.
func WithItems[T any, K comparable](items ...T) MemoryOption[T, K] {
	return func(s *MemoryStore[T, K]) {
		for _, item := range items {
			k, ok := s.key(item)
			if !ok {
				continue
			}
			if _, exists := s.items[k]; exists {
				continue
			}
			s.items[k] = item
			s.order = append(s.order, k)
		}
	}
}

// NewMemoryStore creates an empty in-memory store indexed by key.
func NewMemoryStore[T any, K comparable](key KeyFunc[T, K], opts ...MemoryOption[T, K]) *MemoryStore[T, K] {
	s := &MemoryStore[T, K]{
		key:   key,
		items: make(map[K]T),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create implements Writer.
func (s *MemoryStore[T, K]) Create(ctx context.Context, item T) (T, error) {
	var zero T

	s.mu.Lock()
	k, ok := s.key(item)
	if !ok && s.assign != nil {
		for {
			s.seq++
			item = s.assign(item, s.seq)
			if k, ok = s.key(item); !ok {
				break
			}
			if _, exists := s.items[k]; !exists {
				break
			}
		}
	}
	if !ok {
		s.mu.Unlock()
		return zero, fmt.Errorf("failed to create item: %w", ErrNoKey)
	}
	if _, exists := s.items[k]; exists {
		s.mu.Unlock()
		return zero, fmt.Errorf("failed to create item %v: %w", k, ErrAlreadyExists)
	}
	s.items[k] = item
	s.order = append(s.order, k)
	s.mu.Unlock()

	s.publish(ChangeCreate, item)
	return item, nil
}

// Read implements Reader.
func (s *MemoryStore[T, K]) Read(ctx context.Context, id K) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	return item, ok, nil
}

// ReadMany implements Reader. Found items follow the order of ids.
func (s *MemoryStore[T, K]) ReadMany(ctx context.Context, ids []K) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make([]T, 0, len(ids))
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			found = append(found, item)
		}
	}
	return found, nil
}

// ReadAll implements Reader.
func (s *MemoryStore[T, K]) ReadAll(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]T, 0, len(s.order))
	for _, k := range s.order {
		all = append(all, s.items[k])
	}
	return all, nil
}

// Update implements Writer.
func (s *MemoryStore[T, K]) Update(ctx context.Context, item T) (T, error) {
	var zero T

	k, ok := s.key(item)
	if !ok {
		return zero, fmt.Errorf("failed to update item: %w", ErrNoKey)
	}

	s.mu.Lock()
	previous, exists := s.items[k]
	if !exists {
		s.mu.Unlock()
		return zero, fmt.Errorf("failed to update item %v: %w", k, ErrNotFound)
	}
	s.items[k] = item
	s.mu.Unlock()

	s.publish(ChangeUpdate, item)
	return previous, nil
}

// Delete implements Writer.
func (s *MemoryStore[T, K]) Delete(ctx context.Context, item T) (T, bool, error) {
	var zero T

	k, ok := s.key(item)
	if !ok {
		return zero, false, nil
	}

	s.mu.Lock()
	removed, exists := s.items[k]
	if !exists {
		s.mu.Unlock()
		return zero, false, nil
	}
	delete(s.items, k)
	for i, existing := range s.order {
		if existing == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.publish(ChangeDelete, removed)
	return removed, true, nil
}

// Len returns the number of stored items.
func (s *MemoryStore[T, K]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
