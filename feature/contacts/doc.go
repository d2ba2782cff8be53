// Package contacts synchronizes contacts kept as JSON objects in a storage
// bucket into the contacts table of the local database.
//
// Local contacts are linked to remote ones through their remote_id column.
// Each run matches both sides by that id and applies the first rule that fits:
//
//   - UpdateLocal: a linked pair with different names takes the remote name.
//   - CreateLocal: a remote contact without a local one gets a linked local row.
//   - CreateRemote: with two-way synchronization enabled, an unlinked local contact
//     is published under a new remote id and linked to it.
//
// # Routes
//
//   - GET  /contacts              local contacts
//   - POST /contacts/sync         run a synchronization (?async=true to run in background)
//   - GET  /contacts/sync/status  run state and last counters
package contacts
