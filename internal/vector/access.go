package vector

import (
	"fmt"
	"iter"

	"github.com/sanspareilsmyn/vecstat/internal/element"
)

// TryGet is the bounds-checked read.
func TryGet[T any](v View[T], i int) (T, error) {
	if i < 0 || i >= v.Len() {
		var zero T
		return zero, fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, i, v.Len())
	}
	return v.UncheckedGet(i), nil
}

// Get is TryGet for callers that treat a bad index as a bug; it panics.
func Get[T any](v View[T], i int) T {
	x, err := TryGet(v, i)
	if err != nil {
		panic(err)
	}
	return x
}

// VGet returns the element at i unless it is out of range or missing.
func VGet[T element.Element](v View[T], i int) (T, bool) {
	x, err := TryGet(v, i)
	if err != nil {
		var zero T
		return zero, false
	}
	return element.ToOpt(x)
}

// Set is the bounds-checked write.
func Set[T any](v MutView[T], i int, x T) error {
	if i < 0 || i >= v.Len() {
		return fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, i, v.Len())
	}
	v.UncheckedSet(i, x)
	return nil
}

// Values iterates the elements of v in order.
func Values[T any](v View[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		n := v.Len()
		for i := 0; i < n; i++ {
			if !yield(v.UncheckedGet(i)) {
				return
			}
		}
	}
}

// All iterates index/element pairs of v in order.
func All[T any](v View[T]) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		n := v.Len()
		for i := 0; i < n; i++ {
			if !yield(i, v.UncheckedGet(i)) {
				return
			}
		}
	}
}

// TrustedValues is Values tagged with the view's length.
func TrustedValues[T any](v View[T]) TrustedSeq[T] {
	return Trusted(v.Len(), Values(v))
}

// Map applies f to every element of v and returns a trusted sequence of the
// results, ready for a Builder.
func Map[T, U any](v View[T], f func(T) U) TrustedSeq[U] {
	return Trusted(v.Len(), func(yield func(U) bool) {
		n := v.Len()
		for i := 0; i < n; i++ {
			if !yield(f(v.UncheckedGet(i))) {
				return
			}
		}
	})
}
