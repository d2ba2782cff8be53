package match

import (
	"fmt"

	"datasync/core/syncerr"
)

// Side names one half of a match.
type Side int

const (
	// First is the T1 side.
	First Side = iota + 1
	// Second is the T2 side.
	Second
)

func (s Side) String() string {
	switch s {
	case First:
		return "first"
	case Second:
		return "second"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// ItemMatch pairs at most one T1 with at most one T2. At least one side is present.
// The zero value is not a valid match; use New, Paired, OnlyFirst or OnlySecond.
type ItemMatch[T1, T2 any] struct {
	item1 T1
	item2 T2
	has1  bool
	has2  bool
}

// New builds a match from optional sides. It fails when both are nil.
func New[T1, T2 any](item1 *T1, item2 *T2) (ItemMatch[T1, T2], error) {
	var m ItemMatch[T1, T2]
	if item1 == nil && item2 == nil {
		return m, syncerr.NewArgumentError("item1/item2")
	}
	if item1 != nil {
		m.item1, m.has1 = *item1, true
	}
	if item2 != nil {
		m.item2, m.has2 = *item2, true
	}
	return m, nil
}

// Paired returns a complete match.
func Paired[T1, T2 any](item1 T1, item2 T2) ItemMatch[T1, T2] {
	return ItemMatch[T1, T2]{item1: item1, item2: item2, has1: true, has2: true}
}

// OnlyFirst returns a match with only the T1 side present.
func OnlyFirst[T1, T2 any](item1 T1) ItemMatch[T1, T2] {
	return ItemMatch[T1, T2]{item1: item1, has1: true}
}

// OnlySecond returns a match with only the T2 side present.
func OnlySecond[T1, T2 any](item2 T2) ItemMatch[T1, T2] {
	return ItemMatch[T1, T2]{item2: item2, has2: true}
}

// Item1 returns the T1 side and whether it is present.
func (m ItemMatch[T1, T2]) Item1() (T1, bool) { return m.item1, m.has1 }

// Item2 returns the T2 side and whether it is present.
func (m ItemMatch[T1, T2]) Item2() (T2, bool) { return m.item2, m.has2 }

// Has reports whether side is present.
func (m ItemMatch[T1, T2]) Has(side Side) bool {
	switch side {
	case First:
		return m.has1
	case Second:
		return m.has2
	default:
		return false
	}
}

// IsComplete reports whether both sides are present.
func (m ItemMatch[T1, T2]) IsComplete() bool {
	return m.has1 && m.has2
}

// String renders the match as "(item1, item2)" with "<none>" for a missing side.
func (m ItemMatch[T1, T2]) String() string {
	left, right := "<none>", "<none>"
	if m.has1 {
		left = fmt.Sprintf("%v", m.item1)
	}
	if m.has2 {
		right = fmt.Sprintf("%v", m.item2)
	}
	return fmt.Sprintf("(%s, %s)", left, right)
}
