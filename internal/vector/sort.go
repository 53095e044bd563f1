package vector

import (
	"slices"

	"github.com/sanspareilsmyn/vecstat/internal/element"
)

// SortInPlace sorts a contiguous backend with missing values last. It
// returns ErrNotContiguous when v cannot expose a slice.
func SortInPlace[T element.Sortable](v View[T], desc bool) error {
	c, ok := v.(Contiguous[T])
	if !ok {
		return ErrNotContiguous
	}
	s, ok := c.Contiguous()
	if !ok {
		return ErrNotContiguous
	}
	slices.SortStableFunc(s, func(a, b T) int { return element.Compare(a, b, desc) })
	return nil
}

// ArgSort returns the indices that sort v, missing values last and ties in
// input order.
func ArgSort[T element.Sortable](v View[T], desc bool) []int {
	idx := make([]int, v.Len())
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(i, j int) int {
		return element.Compare(v.UncheckedGet(i), v.UncheckedGet(j), desc)
	})
	return idx
}
