package channel

import (
	"slices"
	"sync"

	"datasync/core/endpoint"
	"datasync/core/observer"

	"go.uber.org/zap"
)

// LiveView is a materialized collection of one store's items kept current
// through the store's change notifications.
type LiveView[T any, K comparable] struct {
	mu     sync.RWMutex
	items  []T
	key    endpoint.KeyFunc[T, K]
	hook   func(func())
	logger *zap.Logger
	sub    observer.Subscription
}

func newLiveView[T any, K comparable](source endpoint.Notifier[T], key endpoint.KeyFunc[T, K], hook func(func()), logger *zap.Logger) *LiveView[T, K] {
	v := &LiveView[T, K]{key: key, hook: hook, logger: logger}
	v.sub = source.Subscribe(v.onChange)
	return v
}

// Items returns a copy of the current items.
func (v *LiveView[T, K]) Items() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.items)
}

// Len returns the number of items.
func (v *LiveView[T, K]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.items)
}

// Get returns the item with the given id.
func (v *LiveView[T, K]) Get(id K) (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if i := v.indexOf(id); i >= 0 {
		return v.items[i], true
	}
	var zero T
	return zero, false
}

// Close stops tracking store changes.
func (v *LiveView[T, K]) Close() {
	v.sub.Unsubscribe()
}

// seed adds snapshot items not already delivered by a change notification.
func (v *LiveView[T, K]) seed(items []T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, item := range items {
		if id, ok := v.key(item); ok && v.indexOf(id) >= 0 {
			continue
		}
		v.items = append(v.items, item)
	}
}

func (v *LiveView[T, K]) onChange(change endpoint.Change[T]) {
	if v.hook == nil {
		v.apply(change)
		return
	}

	var once sync.Once
	ran := false
	v.hook(func() {
		once.Do(func() {
			ran = true
			v.apply(change)
		})
	})
	if !ran {
		v.logger.Warn("Dispatch hook did not run the view mutation, applying it directly",
			zap.String("change", string(change.Kind)))
		once.Do(func() { v.apply(change) })
	}
}

func (v *LiveView[T, K]) apply(change endpoint.Change[T]) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id, ok := v.key(change.Item)
	if !ok {
		v.logger.Debug("Change without identity ignored by live view",
			zap.String("change", string(change.Kind)))
		return
	}
	i := v.indexOf(id)

	switch change.Kind {
	case endpoint.ChangeCreate, endpoint.ChangeUpdate:
		if i >= 0 {
			v.items[i] = change.Item
			return
		}
		v.items = append(v.items, change.Item)
	case endpoint.ChangeDelete:
		if i >= 0 {
			v.items = slices.Delete(v.items, i, i+1)
		}
	}
}

// indexOf must be called with the lock held.
func (v *LiveView[T, K]) indexOf(id K) int {
	return slices.IndexFunc(v.items, func(item T) bool {
		k, ok := v.key(item)
		return ok && k == id
	})
}
