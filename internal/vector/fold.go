package vector

import "github.com/sanspareilsmyn/vecstat/internal/element"

// Fold reduces v from the left.
func Fold[T, A any](v View[T], init A, f func(acc A, x T) A) A {
	acc := init
	n := v.Len()
	for i := 0; i < n; i++ {
		acc = f(acc, v.UncheckedGet(i))
	}
	return acc
}

// VFold is Fold over the valid elements only.
func VFold[T element.Element, A any](v View[T], init A, f func(acc A, x T) A) A {
	return Fold(v, init, func(acc A, x T) A {
		if x != x {
			return acc
		}
		return f(acc, x)
	})
}

// VCount returns the number of valid elements.
func VCount[T element.Element](v View[T]) int {
	return VFold(v, 0, func(n int, _ T) int { return n + 1 })
}

// NoneCount returns the number of missing elements.
func NoneCount[T element.Element](v View[T]) int {
	return v.Len() - VCount(v)
}
