package channel

import (
	"context"
	"iter"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"datasync/core/dispatch"
	"datasync/core/endpoint"
	"datasync/core/match"
	"datasync/core/observer"
	"datasync/core/resolve"
	"datasync/core/syncerr"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Resolution maps matches to actions. *resolve.Step satisfies it.
type Resolution[M any] interface {
	Compose(items iter.Seq[M]) iter.Seq2[resolve.Action[M], error]
}

// Channel orchestrates synchronization runs between two stores.
// At most one run is active at a time; redundant triggers are ignored.
type Channel[T1, T2 any, K comparable] struct {
	name       string
	side1      endpoint.Config[T1, K]
	side2      endpoint.Config[T2, K]
	matcher    *match.Matcher[T1, T2, K]
	completer  *match.Completer[T1, T2, K]
	resolution Resolution[match.ItemMatch[T1, T2]]
	dispatcher *dispatch.Dispatcher[match.ItemMatch[T1, T2]]
	preprocess func([]T1) ([]T1, error)
	identity   endpoint.KeyFunc[T1, K]
	opts       options

	running atomic.Bool

	mu      sync.RWMutex
	last    Stats
	hasLast bool

	started  observer.Registry[Started]
	finished observer.Registry[Finished]
	errs     observer.Registry[*ErrorEvent]
	matched  observer.Registry[match.ItemMatch[T1, T2]]
}

// New creates a channel. Both sides must carry a key function and a store.
func New[T1, T2 any, K comparable](
	name string,
	side1 endpoint.Config[T1, K],
	side2 endpoint.Config[T2, K],
	resolution Resolution[match.ItemMatch[T1, T2]],
	opts ...Option,
) (*Channel[T1, T2, K], error) {
	if err := side1.Validate("side1"); err != nil {
		return nil, err
	}
	if err := side2.Validate("side2"); err != nil {
		return nil, err
	}
	if resolution == nil {
		return nil, syncerr.NewArgumentError("resolution")
	}

	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	matcher, err := match.NewMatcher(side1.Key, side2.Key)
	if err != nil {
		return nil, err
	}
	completer, err := match.NewCompleter(matcher, match.Lookup[T1, K](side1.Store), match.Lookup[T2, K](side2.Store))
	if err != nil {
		return nil, err
	}

	c := &Channel[T1, T2, K]{
		name:       name,
		side1:      side1,
		side2:      side2,
		matcher:    matcher,
		completer:  completer,
		resolution: resolution,
		dispatcher: dispatch.New[match.ItemMatch[T1, T2]](),
		identity:   side1.Key,
		opts:       o,
	}

	if o.preprocessor != nil {
		fn, ok := o.preprocessor.(func([]T1) ([]T1, error))
		if !ok || fn == nil {
			return nil, syncerr.NewArgumentError("preprocessor")
		}
		c.preprocess = fn
	}
	if o.dispatcher != nil {
		d, ok := o.dispatcher.(*dispatch.Dispatcher[match.ItemMatch[T1, T2]])
		if !ok || d == nil {
			return nil, syncerr.NewArgumentError("dispatcher")
		}
		c.dispatcher = d
	}
	if o.identity != nil {
		fn, ok := o.identity.(func(T1) (K, bool))
		if !ok || fn == nil {
			return nil, syncerr.NewArgumentError("identity")
		}
		c.identity = fn
	}

	return c, nil
}

// Name returns the channel name.
func (c *Channel[T1, T2, K]) Name() string { return c.name }

// IsSynchronizing reports whether a run is active.
func (c *Channel[T1, T2, K]) IsSynchronizing() bool { return c.running.Load() }

// LastStats returns the counters of the most recent run, successful or not.
func (c *Channel[T1, T2, K]) LastStats() (Stats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last, c.hasLast
}

// OnStarted registers a run started observer.
func (c *Channel[T1, T2, K]) OnStarted(fn func(Started)) observer.Subscription {
	return c.started.Subscribe(fn)
}

// OnFinished registers a run finished observer.
func (c *Channel[T1, T2, K]) OnFinished(fn func(Finished)) observer.Subscription {
	return c.finished.Subscribe(fn)
}

// OnError registers an error observer.
func (c *Channel[T1, T2, K]) OnError(fn func(*ErrorEvent)) observer.Subscription {
	return c.errs.Subscribe(fn)
}

// OnMatched registers an observer called for every match entering resolution.
func (c *Channel[T1, T2, K]) OnMatched(fn func(match.ItemMatch[T1, T2])) observer.Subscription {
	return c.matched.Subscribe(fn)
}

// Synchronize performs one run. It returns nil immediately, without notifying
// any observer, when another run is in progress.
//
// An error aborting the run is passed to the error observers. It is returned
// only if no observer marked it handled.
func (c *Channel[T1, T2, K]) Synchronize(ctx context.Context) error {
	_, _, err := c.Run(ctx)
	return err
}

// Run performs one run like Synchronize and also returns its counters.
// ran is false when another run was in progress and nothing happened.
func (c *Channel[T1, T2, K]) Run(ctx context.Context) (stats Stats, ran bool, err error) {
	if !c.running.CompareAndSwap(false, true) {
		c.opts.logger.Debug("Synchronization already running, trigger ignored",
			zap.String("channel", c.name))
		return Stats{}, false, nil
	}
	defer c.running.Store(false)

	stats = Stats{RunID: uuid.NewString(), Started: time.Now()}
	logger := c.opts.logger.With(zap.String("channel", c.name), zap.String("run_id", stats.RunID))

	err = c.run(ctx, &stats, logger)
	stats.Finished = time.Now()
	c.record(stats)

	if err != nil {
		return stats, true, c.fail(stats, logger, err)
	}

	c.finished.Notify(Finished{
		Channel: c.name,
		Type1:   reflect.TypeFor[T1](),
		Type2:   reflect.TypeFor[T2](),
		Stats:   stats,
	})

	logger.Info("Synchronization finished",
		zap.Int("processed", stats.ItemsProcessed),
		zap.Int("synchronized", stats.ItemsSynchronized),
		zap.Int("failed", stats.ItemsFailed),
		zap.Duration("duration", stats.Duration()))

	return stats, true, nil
}

func (c *Channel[T1, T2, K]) run(ctx context.Context, stats *Stats, logger *zap.Logger) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &syncerr.UnknownError{Cause: syncerr.PanicError(v)}
		}
	}()

	items1, items2, err := c.load(ctx)
	if err != nil {
		return err
	}

	matches := c.matcher.MatchSlices(items1, items2)

	matches, err = c.complete(ctx, matches)
	if err != nil {
		return err
	}

	c.started.Notify(Started{
		Channel: c.name,
		RunID:   stats.RunID,
		Type1:   reflect.TypeFor[T1](),
		Type2:   reflect.TypeFor[T2](),
	})
	logger.Info("Synchronization started",
		zap.Int("items1", len(items1)),
		zap.Int("items2", len(items2)),
		zap.Int("matches", len(matches)))

	for action, err := range c.resolution.Compose(c.enter(matches, stats)) {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := c.dispatcher.Dispatch(ctx, action)
		if err != nil {
			if c.opts.continueOnFault && syncerr.IsDispatchError(err) {
				stats.ItemsFailed++
				logger.Warn("Action failed, continuing", zap.Error(err))
				continue
			}
			return err
		}

		if resolve.IsNull(action) {
			continue
		}
		if result.OK() {
			stats.ItemsSynchronized++
			continue
		}

		stats.ItemsFailed++
		logger.Info("Item not synchronized",
			zap.String("action", action.Name()),
			zap.String("message", result.Message),
			zap.String("message_key", result.MessageKey))
	}

	return nil
}

// enter counts every match as it enters resolution and notifies the match observers.
func (c *Channel[T1, T2, K]) enter(matches []match.ItemMatch[T1, T2], stats *Stats) iter.Seq[match.ItemMatch[T1, T2]] {
	return func(yield func(match.ItemMatch[T1, T2]) bool) {
		for _, m := range matches {
			stats.ItemsProcessed++
			c.matched.Notify(m)
			if !yield(m) {
				return
			}
		}
	}
}

// load reads both sides concurrently and applies the preprocessor.
func (c *Channel[T1, T2, K]) load(ctx context.Context) ([]T1, []T2, error) {
	var items1 []T1
	var items2 []T2

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := c.side1.Store.ReadAll(gctx)
		if err != nil {
			return syncerr.NewSyncError(err, "failed to read %s items", reflect.TypeFor[T1]())
		}
		items1 = items
		return nil
	})
	g.Go(func() error {
		items, err := c.side2.Store.ReadAll(gctx)
		if err != nil {
			return syncerr.NewSyncError(err, "failed to read %s items", reflect.TypeFor[T2]())
		}
		items2 = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if c.preprocess != nil {
		processed, err := c.preprocess(slices.Clone(items1))
		if err != nil {
			return nil, nil, syncerr.NewSyncError(err, "preprocessor failed")
		}
		items1 = processed
	}

	return items1, items2, nil
}

func (c *Channel[T1, T2, K]) complete(ctx context.Context, matches []match.ItemMatch[T1, T2]) ([]match.ItemMatch[T1, T2], error) {
	switch c.opts.completion {
	case CompletionEach:
		return c.completer.CompleteEach(ctx, matches)
	case CompletionBatch:
		return c.completer.CompleteBatch(ctx, matches, c.opts.target)
	default:
		return matches, nil
	}
}

func (c *Channel[T1, T2, K]) fail(stats Stats, logger *zap.Logger, err error) error {
	if !syncerr.IsDomainError(err) {
		err = &syncerr.UnknownError{Cause: err}
	}

	event := &ErrorEvent{Channel: c.name, RunID: stats.RunID, Err: err}
	c.errs.Notify(event)

	if event.Handled() {
		logger.Warn("Synchronization failed, error handled by observer",
			zap.Int("processed", stats.ItemsProcessed),
			zap.Error(err))
		return nil
	}

	logger.Error("Synchronization failed",
		zap.Int("processed", stats.ItemsProcessed),
		zap.Error(err))
	return err
}

func (c *Channel[T1, T2, K]) record(stats Stats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = stats
	c.hasLast = true
}

// Drain returns a live view of the first side seeded with the store's current
// contents. When syncFirst is set a background run is started; its changes to
// the first store reach the view through change notifications. Errors of the
// background run are only visible to error observers and the log.
func (c *Channel[T1, T2, K]) Drain(ctx context.Context, syncFirst bool) (*LiveView[T1, K], error) {
	view := newLiveView(c.side1.Store, c.identity, c.opts.dispatchHook, c.opts.logger)

	items, err := c.side1.Store.ReadAll(ctx)
	if err != nil {
		view.Close()
		return nil, syncerr.NewSyncError(err, "failed to read %s items", reflect.TypeFor[T1]())
	}
	view.seed(items)

	if syncFirst {
		go func() {
			if err := c.Synchronize(ctx); err != nil {
				c.opts.logger.Error("Background synchronization failed",
					zap.String("channel", c.name),
					zap.Error(err))
			}
		}()
	}

	return view, nil
}
