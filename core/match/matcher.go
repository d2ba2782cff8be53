package match

import (
	"iter"
	"slices"

	"datasync/core/endpoint"
	"datasync/core/syncerr"
)

// Matcher correlates two sequences sharing an identifier space.
type Matcher[T1, T2 any, K comparable] struct {
	key1 endpoint.KeyFunc[T1, K]
	key2 endpoint.KeyFunc[T2, K]
}

// NewMatcher creates a matcher from the two key extractors.
func NewMatcher[T1, T2 any, K comparable](key1 endpoint.KeyFunc[T1, K], key2 endpoint.KeyFunc[T2, K]) (*Matcher[T1, T2, K], error) {
	if key1 == nil {
		return nil, syncerr.NewArgumentError("key1")
	}
	if key2 == nil {
		return nil, syncerr.NewArgumentError("key2")
	}
	return &Matcher[T1, T2, K]{key1: key1, key2: key2}, nil
}

// Key1 extracts the id of a T1.
func (m *Matcher[T1, T2, K]) Key1(item T1) (K, bool) { return m.key1(item) }

// Key2 extracts the id of a T2.
func (m *Matcher[T1, T2, K]) Key2(item T2) (K, bool) { return m.key2(item) }

// Match correlates seq1 with seq2.
//
// seq2 is read completely when the result is first iterated; seq1 is streamed.
// Every seq1 item yields one match, paired with the earliest unconsumed seq2 item
// of the same id if any. Items without an id are never paired. The remaining seq2
// items follow as second-only matches, in their original order.
func (m *Matcher[T1, T2, K]) Match(seq1 iter.Seq[T1], seq2 iter.Seq[T2]) (iter.Seq[ItemMatch[T1, T2]], error) {
	if seq1 == nil {
		return nil, syncerr.NewArgumentError("seq1")
	}
	if seq2 == nil {
		return nil, syncerr.NewArgumentError("seq2")
	}

	return func(yield func(ItemMatch[T1, T2]) bool) {
		pool := slices.Collect(seq2)
		consumed := make([]bool, len(pool))

		// positions of each id in pool, in encounter order
		index := make(map[K][]int)
		for i, item2 := range pool {
			if k, ok := m.key2(item2); ok {
				index[k] = append(index[k], i)
			}
		}

		for item1 := range seq1 {
			k, ok := m.key1(item1)
			if !ok {
				if !yield(OnlyFirst[T1, T2](item1)) {
					return
				}
				continue
			}

			positions := index[k]
			if len(positions) == 0 {
				if !yield(OnlyFirst[T1, T2](item1)) {
					return
				}
				continue
			}

			i := positions[0]
			index[k] = positions[1:]
			consumed[i] = true
			if !yield(Paired(item1, pool[i])) {
				return
			}
		}

		for i, item2 := range pool {
			if consumed[i] {
				continue
			}
			if !yield(OnlySecond[T1](item2)) {
				return
			}
		}
	}, nil
}

// MatchSlices is Match over slices with the result collected.
func (m *Matcher[T1, T2, K]) MatchSlices(items1 []T1, items2 []T2) []ItemMatch[T1, T2] {
	seq, _ := m.Match(slices.Values(items1), slices.Values(items2))
	return slices.Collect(seq)
}
