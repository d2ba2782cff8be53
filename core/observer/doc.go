// Package observer provides explicit callback registries used across the
// synchronization pipeline.
//
// A Registry replaces implicit multicast events: publishers own a Registry per
// event kind, subscribers receive a Subscription token and release it with
// Unsubscribe. Notification is synchronous and follows registration order.
//
// # Usage
//
//	var created observer.Registry[Change]
//	sub := created.Subscribe(func(c Change) { log.Println(c) })
//	defer sub.Unsubscribe()
//	created.Notify(change)
package observer
