package observer

import "sync"

// Subscription is the handle returned by Registry.Subscribe.
// Calling Unsubscribe more than once is a no-op.
type Subscription interface {
	Unsubscribe()
}

// Registry holds an ordered list of callbacks for events of type E.
// Callbacks are invoked synchronously, in registration order.
type Registry[E any] struct {
	mu      sync.RWMutex
	nextID  uint64
	entries []entry[E]
}

type entry[E any] struct {
	id uint64
	fn func(E)
}

// Subscribe appends fn to the registry. A nil fn is ignored and yields a no-op subscription.
func (r *Registry[E]) Subscribe(fn func(E)) Subscription {
	if fn == nil {
		return noop{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.entries = append(r.entries, entry[E]{id: id, fn: fn})

	return &subscription[E]{registry: r, id: id}
}

// Notify calls every registered callback with e.
// The callback list is snapshotted first so callbacks may (un)subscribe freely.
func (r *Registry[E]) Notify(e E) {
	r.mu.RLock()
	fns := make([]func(E), len(r.entries))
	for i, en := range r.entries {
		fns[i] = en.fn
	}
	r.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Len returns the number of active subscriptions.
func (r *Registry[E]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry[E]) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, en := range r.entries {
		if en.id == id {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			return
		}
	}
}

type subscription[E any] struct {
	registry *Registry[E]
	id       uint64
	once     sync.Once
}

func (s *subscription[E]) Unsubscribe() {
	s.once.Do(func() {
		s.registry.remove(s.id)
	})
}

type noop struct{}

func (noop) Unsubscribe() {}
