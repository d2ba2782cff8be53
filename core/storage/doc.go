// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so that stores built
// on object storage can be tested against the mocks in core/storage/mocks.
//
// # Operations
//
//   - BucketExists / MakeBucket: bucket provisioning, combined in EnsureBucket.
//   - PutObject / GetObject / RemoveObject: single object access.
//   - ListObjects: prefix listing, optionally recursive.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
