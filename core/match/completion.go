package match

import (
	"context"
	"slices"

	"datasync/core/syncerr"
)

// Lookup is the part of a store completion needs.
type Lookup[T any, K comparable] interface {
	Read(ctx context.Context, id K) (T, bool, error)
	ReadMany(ctx context.Context, ids []K) ([]T, error)
}

// Completer fills in missing sides of matches by asking the owning store,
// for when the input sequences only held a window of each store.
type Completer[T1, T2 any, K comparable] struct {
	matcher *Matcher[T1, T2, K]
	store1  Lookup[T1, K]
	store2  Lookup[T2, K]
}

// NewCompleter creates a completer. store1 owns T1 items and store2 owns T2 items.
func NewCompleter[T1, T2 any, K comparable](matcher *Matcher[T1, T2, K], store1 Lookup[T1, K], store2 Lookup[T2, K]) (*Completer[T1, T2, K], error) {
	if matcher == nil {
		return nil, syncerr.NewArgumentError("matcher")
	}
	if store1 == nil {
		return nil, syncerr.NewArgumentError("store1")
	}
	if store2 == nil {
		return nil, syncerr.NewArgumentError("store2")
	}
	return &Completer[T1, T2, K]{matcher: matcher, store1: store1, store2: store2}, nil
}

// CompleteEach performs one point lookup per incomplete match.
// The result has the same length and order as matches.
func (c *Completer[T1, T2, K]) CompleteEach(ctx context.Context, matches []ItemMatch[T1, T2]) ([]ItemMatch[T1, T2], error) {
	out := make([]ItemMatch[T1, T2], 0, len(matches))

	for _, m := range matches {
		completed, err := c.completeOne(ctx, m)
		if err != nil {
			return nil, err
		}
		out = append(out, completed)
	}

	return out, nil
}

func (c *Completer[T1, T2, K]) completeOne(ctx context.Context, m ItemMatch[T1, T2]) (ItemMatch[T1, T2], error) {
	if m.IsComplete() {
		return m, nil
	}

	if item1, ok := m.Item1(); ok {
		k, ok := c.matcher.Key1(item1)
		if !ok {
			return m, nil
		}
		item2, found, err := c.store2.Read(ctx, k)
		if err != nil {
			return m, syncerr.NewSyncError(err, "failed to complete match for %v", k)
		}
		if !found {
			return m, nil
		}
		return Paired(item1, item2), nil
	}

	item2, _ := m.Item2()
	k, ok := c.matcher.Key2(item2)
	if !ok {
		return m, nil
	}
	item1, found, err := c.store1.Read(ctx, k)
	if err != nil {
		return m, syncerr.NewSyncError(err, "failed to complete match for %v", k)
	}
	if !found {
		return m, nil
	}
	return Paired(item1, item2), nil
}

// CompleteBatch fills in the target side of every match missing it with a single
// ReadMany against the store owning that side, then re-matches the result.
//
// Matches that are complete or not missing target come first, in their original
// order, followed by the re-matched ones.
func (c *Completer[T1, T2, K]) CompleteBatch(ctx context.Context, matches []ItemMatch[T1, T2], target Side) ([]ItemMatch[T1, T2], error) {
	if target != First && target != Second {
		return nil, syncerr.NewArgumentError("target")
	}

	out := make([]ItemMatch[T1, T2], 0, len(matches))
	var (
		present1 []T1 // T1 sides of matches missing T2
		present2 []T2 // T2 sides of matches missing T1
		ids      []K
	)

	for _, m := range matches {
		if m.IsComplete() || m.Has(target) {
			out = append(out, m)
			continue
		}

		switch target {
		case First:
			item2, _ := m.Item2()
			present2 = append(present2, item2)
			if k, ok := c.matcher.Key2(item2); ok {
				ids = append(ids, k)
			}
		case Second:
			item1, _ := m.Item1()
			present1 = append(present1, item1)
			if k, ok := c.matcher.Key1(item1); ok {
				ids = append(ids, k)
			}
		}
	}

	if len(present1) == 0 && len(present2) == 0 {
		return out, nil
	}

	switch target {
	case First:
		found, err := c.readMany1(ctx, ids)
		if err != nil {
			return nil, err
		}
		out = append(out, c.matcher.MatchSlices(found, present2)...)
	case Second:
		found, err := c.readMany2(ctx, ids)
		if err != nil {
			return nil, err
		}
		out = append(out, c.matcher.MatchSlices(present1, found)...)
	}

	return out, nil
}

func (c *Completer[T1, T2, K]) readMany1(ctx context.Context, ids []K) ([]T1, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := c.store1.ReadMany(ctx, slices.Clone(ids))
	if err != nil {
		return nil, syncerr.NewSyncError(err, "failed to complete %d matches", len(ids))
	}
	return found, nil
}

func (c *Completer[T1, T2, K]) readMany2(ctx context.Context, ids []K) ([]T2, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := c.store2.ReadMany(ctx, slices.Clone(ids))
	if err != nil {
		return nil, syncerr.NewSyncError(err, "failed to complete %d matches", len(ids))
	}
	return found, nil
}
