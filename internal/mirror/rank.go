package mirror

import (
	"fmt"
	"sort"
)

// ranked is satisfied by *models.Product and *models.Category.
type ranked[T any] interface {
	*T
	Key() string
	Rank() int
	SetRank(int)
}

// sortByRank orders items by rank, keeping stored order for ties.
func sortByRank[T any, P ranked[T]](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return P(&items[i]).Rank() < P(&items[j]).Rank()
	})
}

// renumber rewrites ranks to 0..n-1 following slice order.
func renumber[T any, P ranked[T]](items []T) {
	for i := range items {
		P(&items[i]).SetRank(i)
	}
}

func indexOf[T any, P ranked[T]](items []T, id string) int {
	for i := range items {
		if P(&items[i]).Key() == id {
			return i
		}
	}
	return -1
}

func clamp(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

// upsertRanked replaces the item with the same key, moving it to the rank
// it carries, or appends a new item at the end. The result is dense.
func upsertRanked[T any, P ranked[T]](items []T, item T) (out []T, created bool) {
	key := P(&item).Key()
	idx := indexOf[T, P](items, key)
	if idx < 0 {
		P(&item).SetRank(len(items))
		out = append(items, item)
		renumber[T, P](out)
		return out, true
	}

	rest := make([]T, 0, len(items))
	rest = append(rest, items[:idx]...)
	rest = append(rest, items[idx+1:]...)
	at := clamp(P(&item).Rank(), 0, len(rest))

	out = make([]T, 0, len(items))
	out = append(out, rest[:at]...)
	out = append(out, item)
	out = append(out, rest[at:]...)
	renumber[T, P](out)
	return out, false
}

// removeRanked drops the item with key id and closes the gap.
func removeRanked[T any, P ranked[T]](items []T, id string) ([]T, bool) {
	idx := indexOf[T, P](items, id)
	if idx < 0 {
		return items, false
	}
	out := append(items[:idx:idx], items[idx+1:]...)
	renumber[T, P](out)
	return out, true
}

// reorderRanked assigns rank = position in ids. ids must be exactly the
// set of keys in items.
func reorderRanked[T any, P ranked[T]](items []T, ids []string) ([]T, error) {
	if len(ids) != len(items) {
		return nil, fmt.Errorf("%w: got %d ids for %d items", ErrPartialReorder, len(ids), len(items))
	}
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := pos[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrPartialReorder, id)
		}
		pos[id] = i
	}
	out := make([]T, len(items))
	for _, it := range items {
		i, ok := pos[P(&it).Key()]
		if !ok {
			return nil, fmt.Errorf("%w: id %q missing", ErrPartialReorder, P(&it).Key())
		}
		P(&it).SetRank(i)
		out[i] = it
	}
	return out, nil
}

// moveRanked swaps id with its neighbour. Moving past either end is a
// no-op and reports changed=false.
func moveRanked[T any, P ranked[T]](items []T, id string, dir Direction) (changed bool, err error) {
	i := indexOf[T, P](items, id)
	if i < 0 {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	j := i - 1
	switch dir {
	case Up:
	case Down:
		j = i + 1
	default:
		return false, fmt.Errorf("unknown direction %q", dir)
	}
	if j < 0 || j >= len(items) {
		return false, nil
	}
	items[i], items[j] = items[j], items[i]
	renumber[T, P](items)
	return true, nil
}

func keys[T any, P ranked[T]](items []T) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = P(&items[i]).Key()
	}
	return out
}
