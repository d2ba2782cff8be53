package resolve

import (
	"fmt"
	"iter"
	"reflect"

	"datasync/core/observer"
	"datasync/core/syncerr"
)

// Step maps items to actions through an ordered resolver list.
type Step[T, C any] struct {
	resolvers []Resolver[T, C]
	config    C
	taps      observer.Registry[Action[T]]
}

// NewStep creates a resolution step. config is shared by all resolvers and must
// not be nil when C is a nilable type; at least one resolver is required.
func NewStep[T, C any](config C, resolvers ...Resolver[T, C]) (*Step[T, C], error) {
	if isNil(config) {
		return nil, syncerr.NewArgumentError("config")
	}
	if len(resolvers) == 0 {
		return nil, syncerr.NewArgumentError("resolvers")
	}
	for i, r := range resolvers {
		if r.Decision == nil || r.Action == nil {
			return nil, syncerr.NewArgumentError(fmt.Sprintf("resolvers[%d]", i))
		}
	}

	return &Step[T, C]{
		resolvers: append([]Resolver[T, C](nil), resolvers...),
		config:    config,
	}, nil
}

// Config returns the shared resolver configuration.
func (s *Step[T, C]) Config() C { return s.config }

// Resolve returns the action of the first resolver whose decision holds for item,
// or NullAction when none does. A failing or panicking decision aborts resolution
// with a ResolutionError; later resolvers are not consulted.
func (s *Step[T, C]) Resolve(item T) (Action[T], error) {
	for _, r := range s.resolvers {
		action, ok, err := s.try(r, item)
		if err != nil {
			return nil, &syncerr.ResolutionError{Item: item, Cause: err}
		}
		if ok {
			return action, nil
		}
	}
	return NullAction[T]{}, nil
}

func (s *Step[T, C]) try(r Resolver[T, C], item T) (action Action[T], ok bool, err error) {
	defer func() {
		if v := recover(); v != nil {
			action, ok, err = nil, false, syncerr.PanicError(v)
		}
	}()
	return r.Resolve(item, s.config)
}

// Observe registers fn to see every action produced by Compose.
func (s *Step[T, C]) Observe(fn func(Action[T])) observer.Subscription {
	return s.taps.Subscribe(fn)
}

// Compose resolves items lazily. Each action is passed to every observer, in
// registration order, before it is yielded. Iteration ends after the first error.
func (s *Step[T, C]) Compose(items iter.Seq[T]) iter.Seq2[Action[T], error] {
	return func(yield func(Action[T], error) bool) {
		for item := range items {
			action, err := s.Resolve(item)
			if err != nil {
				yield(nil, err)
				return
			}
			s.taps.Notify(action)
			if !yield(action, nil) {
				return
			}
		}
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
