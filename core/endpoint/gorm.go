package endpoint

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is a Store backed by a gorm model table.
// T must be a gorm model struct; column is the column holding the key returned by key,
// normally the primary key so that Update can save in place.
type GormStore[T any, K comparable] struct {
	Events[T]

	db     *gorm.DB
	column string
	key    KeyFunc[T, K]
}

// NewGormStore creates a store over db for model T keyed by column.
func NewGormStore[T any, K comparable](db *gorm.DB, column string, key KeyFunc[T, K]) *GormStore[T, K] {
	return &GormStore[T, K]{
		db:     db,
		column: column,
		key:    key,
	}
}

func (s *GormStore[T, K]) eq(id K) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: s.column}, Value: id}
}

// Create implements Writer.
func (s *GormStore[T, K]) Create(ctx context.Context, item T) (T, error) {
	var zero T

	if k, ok := s.key(item); ok {
		_, exists, err := s.Read(ctx, k)
		if err != nil {
			return zero, err
		}
		if exists {
			return zero, fmt.Errorf("failed to create item %v: %w", k, ErrAlreadyExists)
		}
	}

	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return zero, fmt.Errorf("failed to create item: %w", err)
	}

	s.publish(ChangeCreate, item)
	return item, nil
}

// Read implements Reader.
func (s *GormStore[T, K]) Read(ctx context.Context, id K) (T, bool, error) {
	var item T
	err := s.db.WithContext(ctx).Where(s.eq(id)).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, fmt.Errorf("failed to read item %v: %w", id, err)
	}
	return item, true, nil
}

// ReadMany implements Reader.
func (s *GormStore[T, K]) ReadMany(ctx context.Context, ids []K) ([]T, error) {
	items := []T{}
	if len(ids) == 0 {
		return items, nil
	}

	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	err := s.db.WithContext(ctx).
		Where(clause.IN{Column: clause.Column{Name: s.column}, Values: values}).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read %d items: %w", len(ids), err)
	}
	return items, nil
}

// ReadAll implements Reader. Items are ordered by the key column.
func (s *GormStore[T, K]) ReadAll(ctx context.Context) ([]T, error) {
	items := []T{}
	err := s.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: s.column}}).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return items, nil
}

// Update implements Writer.
func (s *GormStore[T, K]) Update(ctx context.Context, item T) (T, error) {
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

	if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
		return zero, fmt.Errorf("failed to update item %v: %w", k, err)
	}

	s.publish(ChangeUpdate, item)
	return previous, nil
}

// Delete implements Writer.
func (s *GormStore[T, K]) Delete(ctx context.Context, item T) (T, bool, error) {
	var zero T

	k, ok := s.key(item)
	if !ok {
		return zero, false, nil
	}

	removed, exists, err := s.Read(ctx, k)
	if err != nil || !exists {
		return zero, false, err
	}

	if err := s.db.WithContext(ctx).Where(s.eq(k)).Delete(new(T)).Error; err != nil {
		return zero, false, fmt.Errorf("failed to delete item %v: %w", k, err)
	}

	s.publish(ChangeDelete, removed)
	return removed, true, nil
}
