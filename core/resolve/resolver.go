package resolve

import "context"

// DecisionFunc decides whether a resolver applies to item.
type DecisionFunc[T, C any] func(item T, cfg C) (bool, error)

// ActionFunc performs a resolver's synchronization.
type ActionFunc[T, C any] func(ctx context.Context, item T, cfg C) (Result, error)

// Resolver pairs a decision with the action to run when it holds.
type Resolver[T, C any] struct {
	Name     string
	Decision DecisionFunc[T, C]
	Action   ActionFunc[T, C]
}

// NewResolver is a convenience constructor.
func NewResolver[T, C any](name string, decision DecisionFunc[T, C], action ActionFunc[T, C]) Resolver[T, C] {
	return Resolver[T, C]{Name: name, Decision: decision, Action: action}
}

// Resolve returns the bound action when the decision holds for item.
// ok is false when it does not; the no-op action is never returned here.
func (r Resolver[T, C]) Resolve(item T, cfg C) (action Action[T], ok bool, err error) {
	applies, err := r.Decision(item, cfg)
	if err != nil {
		return nil, false, err
	}
	if !applies {
		return nil, false, nil
	}
	return &boundAction[T, C]{name: r.Name, item: item, config: cfg, run: r.Action}, true, nil
}
