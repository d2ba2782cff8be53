// Package resolve decides which synchronization action applies to an item.
//
// A Resolver pairs a decision predicate with an action. A Step holds an ordered
// resolver list and a configuration value shared by all of them; Step.Resolve
// returns the first applicable action, or NullAction when none applies, so callers
// always receive a usable Action.
//
// A decision that fails aborts resolution of that item with a
// syncerr.ResolutionError carrying the item and the cause.
//
// # Usage
//
//	step, err := resolve.NewStep(settings,
//	    resolve.NewResolver("CreateLocal", missingLocal, createLocal),
//	    resolve.NewResolver("UpdateLocal", nameDiffers, updateLocal),
//	)
//	action, err := step.Resolve(m)
//	result, err := action.Execute(ctx)
package resolve
