package channel

import (
	"datasync/core/dispatch"
	"datasync/core/match"

	"go.uber.org/zap"
)

// Completion selects how partial matches are completed against the stores.
type Completion int

const (
	// CompletionNone leaves matches as produced by the matcher.
	CompletionNone Completion = iota
	// CompletionEach issues one read per incomplete match.
	CompletionEach
	// CompletionBatch issues a single bulk read for the target side.
	CompletionBatch
)

// ParseCompletion maps a configuration value to a Completion.
// Unknown values map to CompletionNone.
func ParseCompletion(s string) Completion {
	switch s {
	case "each":
		return CompletionEach
	case "batch":
		return CompletionBatch
	default:
		return CompletionNone
	}
}

func (c Completion) String() string {
	switch c {
	case CompletionEach:
		return "each"
	case CompletionBatch:
		return "batch"
	default:
		return "none"
	}
}

type options struct {
	logger          *zap.Logger
	completion      Completion
	target          match.Side
	preprocessor    any
	dispatcher      any
	continueOnFault bool
	dispatchHook    func(func())
	identity        any
}

// Option configures a Channel.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCompletion enables completion of partial matches. target is only used by CompletionBatch.
func WithCompletion(mode Completion, target match.Side) Option {
	return func(o *options) {
		o.completion = mode
		o.target = target
	}
}

// WithPreprocessor transforms the first side's items before matching.
// The function's item type must match the channel's first type.
func WithPreprocessor[T1 any](fn func([]T1) ([]T1, error)) Option {
	return func(o *options) {
		o.preprocessor = fn
	}
}

// WithDispatcher replaces the channel's dispatcher, for example one shared with observers.
func WithDispatcher[M any](d *dispatch.Dispatcher[M]) Option {
	return func(o *options) {
		o.dispatcher = d
	}
}

// WithContinueOnDispatchError makes a run count a faulting action as failed
// and continue with the next item instead of aborting.
func WithContinueOnDispatchError() Option {
	return func(o *options) {
		o.continueOnFault = true
	}
}

// WithDispatchHook wraps every mutation of a live view returned by Drain.
// The hook must call the mutation exactly once before returning.
func WithDispatchHook(hook func(mutate func())) Option {
	return func(o *options) {
		o.dispatchHook = hook
	}
}

// WithIdentity sets the function a live view uses to recognize updated and
// deleted items of the first side. It defaults to the first side's correlation key,
// which cannot follow items whose correlation id changes.
func WithIdentity[T1 any, K comparable](fn func(T1) (K, bool)) Option {
	return func(o *options) {
		o.identity = fn
	}
}
