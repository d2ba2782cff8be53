package endpoint

import "datasync/core/observer"

// ChangeKind tags a change notification.
type ChangeKind string

const (
	// ChangeCreate is published after Create.
	ChangeCreate ChangeKind = "create"
	// ChangeUpdate is published after Update.
	ChangeUpdate ChangeKind = "update"
	// ChangeDelete is published after Delete removed an item.
	ChangeDelete ChangeKind = "delete"
)

// Change is a single store mutation.
type Change[T any] struct {
	Kind ChangeKind
	// Item is the created, updated (new value) or deleted item.
	Item T
}

// Events is embedded by stores to implement Notifier.
type Events[T any] struct {
	registry observer.Registry[Change[T]]
}

// Subscribe implements Notifier.
func (e *Events[T]) Subscribe(fn func(Change[T])) observer.Subscription {
	return e.registry.Subscribe(fn)
}

func (e *Events[T]) publish(kind ChangeKind, item T) {
	e.registry.Notify(Change[T]{Kind: kind, Item: item})
}
