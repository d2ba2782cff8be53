package dispatch

import (
	"context"
	"iter"

	"datasync/core/observer"
	"datasync/core/resolve"
	"datasync/core/syncerr"
)

// Dispatched pairs an executed action with its result.
type Dispatched[T any] struct {
	Action resolve.Action[T]
	Result resolve.Result
}

// Dispatcher executes resolved actions.
type Dispatcher[T any] struct {
	taps observer.Registry[Dispatched[T]]
}

// New returns an empty dispatcher.
func New[T any]() *Dispatcher[T] {
	return &Dispatcher[T]{}
}

// Process executes action exactly once. A fault or panic raised by the action is
// returned as a DispatchError naming the action and its applicant.
func (d *Dispatcher[T]) Process(ctx context.Context, action resolve.Action[T]) (resolve.Result, error) {
	if action == nil {
		return resolve.Result{}, syncerr.NewArgumentError("action")
	}

	result, err := execute(ctx, action)
	if err != nil {
		return resolve.Result{}, &syncerr.DispatchError{
			Action:    action.Name(),
			Applicant: action.Applicant(),
			Cause:     err,
		}
	}
	return result, nil
}

func execute[T any](ctx context.Context, action resolve.Action[T]) (result resolve.Result, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = syncerr.PanicError(v)
		}
	}()
	return action.Execute(ctx)
}

// Dispatch processes action and, when it executed without fault, passes the
// outcome to every observer in registration order.
func (d *Dispatcher[T]) Dispatch(ctx context.Context, action resolve.Action[T]) (resolve.Result, error) {
	result, err := d.Process(ctx, action)
	if err != nil {
		return resolve.Result{}, err
	}
	d.taps.Notify(Dispatched[T]{Action: action, Result: result})
	return result, nil
}

// Observe registers fn to see every action executed through Dispatch or Compose.
func (d *Dispatcher[T]) Observe(fn func(Dispatched[T])) observer.Subscription {
	return d.taps.Subscribe(fn)
}

// Compose executes actions lazily. Upstream errors are forwarded unchanged and
// iteration stops after the first error of any kind.
func (d *Dispatcher[T]) Compose(ctx context.Context, actions iter.Seq2[resolve.Action[T], error]) iter.Seq2[Dispatched[T], error] {
	return func(yield func(Dispatched[T], error) bool) {
		for action, err := range actions {
			if err != nil {
				yield(Dispatched[T]{}, err)
				return
			}

			result, err := d.Dispatch(ctx, action)
			if err != nil {
				yield(Dispatched[T]{Action: action}, err)
				return
			}

			if !yield(Dispatched[T]{Action: action, Result: result}, nil) {
				return
			}
		}
	}
}
