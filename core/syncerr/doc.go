// Package syncerr defines the error taxonomy of the synchronization pipeline.
//
// From innermost to outermost:
//   - ArgumentError: caller contract violations, raised at construction or call time.
//   - ResolutionError: a resolver decision faulted (core/resolve).
//   - DispatchError: an action faulted while executing (core/dispatch).
//   - SyncError: a data source or preprocessor failed (core/match, core/channel).
//   - UnknownError: the channel's wrapper for anything else escaping a run.
//
// Every error carries a Code and unwraps to its cause, so callers can use
// errors.Is / errors.As against both the domain type and the original fault.
package syncerr
