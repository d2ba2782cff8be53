// Package endpoint defines the store contract the synchronization core works against,
// together with the stores shipped with the module.
//
// # Contract
//
// A Store offers Create, Read, ReadMany, ReadAll, Update and Delete keyed by an
// identifier K, plus synchronous change notifications. Reading a missing id is never
// an error; Create on an existing id fails with ErrAlreadyExists; Update on a missing
// id fails with ErrNotFound; Delete of a missing item reports ok=false.
//
// # Implementations
//
//   - MemoryStore: map-backed, insertion ordered, optional key assignment.
//   - GormStore: one gorm model table, keyed by a column.
//   - ObjectStore: one JSON object per item in a MinIO/S3 bucket.
//   - Cached: wraps any Store and serves ReadAll from a TTL snapshot, with
//     singleflight protection and invalidation on change.
//
// Config binds a type's correlation KeyFunc to its Store and is what the
// channel is built from.
package endpoint
