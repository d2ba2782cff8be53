package resolve

import "context"

// Result is the outcome of an executed action.
// A Result with Success false is data, not a fault.
type Result struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	MessageKey string `json:"message_key,omitempty"`
}

// OK reports whether the action succeeded.
func (r Result) OK() bool { return r.Success }

// Succeeded returns a successful result.
func Succeeded(message, key string) Result {
	return Result{Success: true, Message: message, MessageKey: key}
}

// Failed returns an unsuccessful result.
func Failed(message, key string) Result {
	return Result{Success: false, Message: message, MessageKey: key}
}

// Action is a decided synchronization operation on one applicant.
type Action[T any] interface {
	// Applicant is the item the action applies to.
	Applicant() T
	// Name is a human readable action name.
	Name() string
	// Execute performs the action. A returned error is a fault; an unsuccessful
	// Result is a normal outcome.
	Execute(ctx context.Context) (Result, error)
}

// NullActionName is the name of the no-op action.
const NullActionName = "NullAction"

// NullAction is returned when no resolver applies. It does nothing and always succeeds.
type NullAction[T any] struct{}

// Applicant returns the zero value of T.
func (NullAction[T]) Applicant() T {
	var zero T
	return zero
}

// Name returns NullActionName.
func (NullAction[T]) Name() string { return NullActionName }

// Execute returns a successful result.
func (NullAction[T]) Execute(context.Context) (Result, error) {
	return Result{Success: true, MessageKey: "sync.noop"}, nil
}

// IsNull reports whether a is the no-op action.
func IsNull[T any](a Action[T]) bool {
	_, ok := a.(NullAction[T])
	return ok
}

// boundAction is a resolver's action bound to an item and the shared config.
type boundAction[T, C any] struct {
	name   string
	item   T
	config C
	run    func(ctx context.Context, item T, cfg C) (Result, error)
}

func (a *boundAction[T, C]) Applicant() T { return a.item }

func (a *boundAction[T, C]) Name() string { return a.name }

func (a *boundAction[T, C]) Execute(ctx context.Context) (Result, error) {
	return a.run(ctx, a.item, a.config)
}
