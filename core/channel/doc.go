// Package channel orchestrates synchronization runs between two stores.
//
// A run loads both sides, matches them by correlation id, optionally completes
// partial matches against the stores, resolves one action per match and
// dispatches it. Counters and lifecycle events are published per run.
//
// # Exclusivity
//
// A Channel runs at most one synchronization at a time. A Synchronize call made
// while a run is active returns nil immediately and notifies no observer.
//
// # Errors
//
// Faults that abort a run are published to error observers as an *ErrorEvent.
// Domain errors from package syncerr pass through unchanged; anything else is
// wrapped in a syncerr.UnknownError. An observer calling MarkHandled absorbs the
// error, otherwise Synchronize returns it. An action that returns an unsuccessful
// result is counted as failed and never aborts the run.
//
// # Usage
//
//	ch, err := channel.New("contacts", localSide, remoteSide, step,
//	    channel.WithLogger(logger),
//	    channel.WithCompletion(channel.CompletionBatch, match.Second),
//	)
//	ch.OnFinished(func(e channel.Finished) { ... })
//	err = ch.Synchronize(ctx)
package channel
