package endpoint

import (
	"context"
	"errors"

	"datasync/core/observer"
	"datasync/core/syncerr"
)

var (
	// ErrAlreadyExists is returned by Create when the item's id is already stored.
	ErrAlreadyExists = errors.New("item already exists")
	// ErrNotFound is returned by Update when the item's id is not stored.
	ErrNotFound = errors.New("item not found")
	// ErrNoKey is returned when an operation needs an id the item does not have.
	ErrNoKey = errors.New("item has no identifier")
)

// KeyFunc extracts the identifier of an item.
// Returning false means the item has no identifier and cannot be correlated.
type KeyFunc[T any, K comparable] func(item T) (K, bool)

// Reader is the read side of a store.
type Reader[T any, K comparable] interface {
	// Read returns the item stored under id. A missing id is not an error: ok is false.
	Read(ctx context.Context, id K) (item T, ok bool, err error)
	// ReadMany returns the items found for ids. Missing ids are omitted and
	// the result order is not guaranteed to follow ids.
	ReadMany(ctx context.Context, ids []K) ([]T, error)
	// ReadAll returns every stored item.
	ReadAll(ctx context.Context) ([]T, error)
}

// Writer is the mutating side of a store.
type Writer[T any] interface {
	// Create stores a new item and returns it as stored.
	// It fails with ErrAlreadyExists if the id is taken.
	Create(ctx context.Context, item T) (T, error)
	// Update replaces the stored item with the same id and returns the previous one.
	// It fails with ErrNotFound if the id is not stored.
	Update(ctx context.Context, item T) (previous T, err error)
	// Delete removes the item with the same id. Removing a missing item is not an error:
	// ok is false and the returned item is the zero value.
	Delete(ctx context.Context, item T) (removed T, ok bool, err error)
}

// Notifier publishes change notifications.
type Notifier[T any] interface {
	// Subscribe registers fn for every change. Notifications are delivered
	// synchronously from within the mutating call, after the mutation succeeded.
	Subscribe(fn func(Change[T])) observer.Subscription
}

// Store is the full capability set the synchronization core expects of a data store.
type Store[T any, K comparable] interface {
	Reader[T, K]
	Writer[T]
	Notifier[T]
}

// Config binds an entity type to its identifier extractor and its store.
type Config[T any, K comparable] struct {
	// Key extracts the correlation id.
	Key KeyFunc[T, K]
	// Store holds the items.
	Store Store[T, K]
}

// Validate checks that both Key and Store are set.
func (c Config[T, K]) Validate(name string) error {
	if c.Key == nil {
		return syncerr.NewArgumentError(name + ".Key")
	}
	if c.Store == nil {
		return syncerr.NewArgumentError(name + ".Store")
	}
	return nil
}
