package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"datasync/core/storage"

	"github.com/minio/minio-go/v7"
)

const objectExtension = ".json"

// ObjectStore is a Store keeping one JSON object per item in an object storage bucket.
// Objects live at "<prefix>/<id>.json" where id is formatted with %v.
type ObjectStore[T any, K comparable] struct {
	Events[T]

	client storage.Client
	bucket string
	prefix string
	key    KeyFunc[T, K]
}

// NewObjectStore creates a store over bucket/prefix.
func NewObjectStore[T any, K comparable](client storage.Client, bucket, prefix string, key KeyFunc[T, K]) *ObjectStore[T, K] {
	return &ObjectStore[T, K]{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		key:    key,
	}
}

// listPrefix returns the listing prefix, empty for objects at the bucket root.
func (s *ObjectStore[T, K]) listPrefix() string {
	if s.prefix == "" {
		return ""
	}
	return s.prefix + "/"
}

// ObjectName returns the object key used for id.
func (s *ObjectStore[T, K]) ObjectName(id K) string {
	return path.Join(s.prefix, fmt.Sprintf("%v%s", id, objectExtension))
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func (s *ObjectStore[T, K]) readObject(ctx context.Context, name string) (T, bool, error) {
	var item T

	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return item, false, nil
		}
		return item, false, fmt.Errorf("failed to get object %s: %w", name, err)
	}
	defer obj.Close()

	if err := json.NewDecoder(obj).Decode(&item); err != nil {
		var zero T
		if isNoSuchKey(err) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("failed to decode object %s: %w", name, err)
	}
	return item, true, nil
}

func (s *ObjectStore[T, K]) writeObject(ctx context.Context, k K, item T) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode item %v: %w", k, err)
	}

	name := s.ObjectName(k)
	_, err = s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", name, err)
	}
	return nil
}

// Read implements Reader.
func (s *ObjectStore[T, K]) Read(ctx context.Context, id K) (T, bool, error) {
	return s.readObject(ctx, s.ObjectName(id))
}

// ReadMany implements Reader. Object storage has no batch get, so ids are read one by one.
func (s *ObjectStore[T, K]) ReadMany(ctx context.Context, ids []K) ([]T, error) {
	found := make([]T, 0, len(ids))
	for _, id := range ids {
		item, ok, err := s.Read(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			found = append(found, item)
		}
	}
	return found, nil
}

// ReadAll implements Reader. Items follow the listing order of the bucket.
func (s *ObjectStore[T, K]) ReadAll(ctx context.Context) ([]T, error) {
	items := []T{}

	opts := minio.ListObjectsOptions{Prefix: s.listPrefix(), Recursive: true}
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects under %s: %w", s.prefix, obj.Err)
		}
		if !strings.HasSuffix(obj.Key, objectExtension) {
			continue
		}

		item, ok, err := s.readObject(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		if ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// Create implements Writer.
func (s *ObjectStore[T, K]) Create(ctx context.Context, item T) (T, error) {
	var zero T

	k, ok := s.key(item)
	if !ok {
		return zero, fmt.Errorf("failed to create item: %w", ErrNoKey)
	}

	_, exists, err := s.Read(ctx, k)
	if err != nil {
		return zero, err
	}
	if exists {
		return zero, fmt.Errorf("failed to create item %v: %w", k, ErrAlreadyExists)
	}

	if err := s.writeObject(ctx, k, item); err != nil {
		return zero, err
	}

	s.publish(ChangeCreate, item)
	return item, nil
}

// Update implements Writer.
func (s *ObjectStore[T, K]) Update(ctx context.Context, item T) (T, error) {
	var zero T

	k, ok := s.key(item)
	if !ok {
		return zero, fmt.Errorf("failed to update item: %w", ErrNoKey)
	}

	previous, exists, err := s.Read(ctx, k)
	if err != nil {
		return zero, err
	}
	if !exists {
		return zero, fmt.Errorf("failed to update item %v: %w", k, ErrNotFound)
	}

	if err := s.writeObject(ctx, k, item); err != nil {
		return zero, err
	}

	s.publish(ChangeUpdate, item)
	return previous, nil
}

// Delete implements Writer.
func (s *ObjectStore[T, K]) Delete(ctx context.Context, item T) (T, bool, error) {
	var zero T

	k, ok := s.key(item)
	if !ok {
		return zero, false, nil
	}

	removed, exists, err := s.Read(ctx, k)
	if err != nil || !exists {
		return zero, false, err
	}

	name := s.ObjectName(k)
	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return zero, false, fmt.Errorf("failed to remove object %s: %w", name, err)
	}

	s.publish(ChangeDelete, removed)
	return removed, true, nil
}
