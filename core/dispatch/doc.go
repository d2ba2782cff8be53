// Package dispatch executes resolved synchronization actions.
//
// Process runs an action once, with no retries. Faults are wrapped in a
// syncerr.DispatchError so the caller knows which action failed on which item.
// An unsuccessful resolve.Result is returned as data, not as an error.
package dispatch
