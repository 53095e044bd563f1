// Package vector defines the capability levels a column backend implements
// so that every algorithm can be written once against the smallest level it
// needs.
//
// A backend implements View to be read, MutView to be written in place, and
// provides a Builder to be produced as an algorithm output. Unchecked access
// is confined to the rolling engine, whose index arithmetic never leaves
// [0, Len()); everything else goes through Get, TryGet or VGet.
package vector

import "iter"

// View is read-only indexed access.
type View[T any] interface {
	Len() int
	// UncheckedGet returns the element at i. i must be in [0, Len()); the
	// result is undefined otherwise.
	UncheckedGet(i int) T
}

// MutView adds in-place writes.
type MutView[T any] interface {
	View[T]
	// UncheckedSet stores v at i. i must be in [0, Len()).
	UncheckedSet(i int, v T)
}

// Contiguous is implemented by backends that can expose their storage as a
// single slice. ok is false when the current value is not contiguous.
type Contiguous[T any] interface {
	Contiguous() (s []T, ok bool)
}

// Builder produces a backend value V from a sequence of elements.
type Builder[T any, V View[T]] interface {
	// Collect builds from a sequence of unknown length.
	Collect(seq iter.Seq[T]) V
	// CollectTrusted builds from a sequence whose length is known up front.
	// It allocates once. If the sequence yields a different number of
	// elements than promised, the buffer is dropped and ErrTrustedLength is
	// returned.
	CollectTrusted(ts TrustedSeq[T]) (V, error)
}

// TrustedSeq is a sequence tagged with the exact number of elements it yields.
type TrustedSeq[T any] struct {
	n   int
	seq iter.Seq[T]
}

// Trusted tags seq with its length.
func Trusted[T any](n int, seq iter.Seq[T]) TrustedSeq[T] {
	return TrustedSeq[T]{n: n, seq: seq}
}

// Len is the promised element count.
func (t TrustedSeq[T]) Len() int { return t.n }

// Seq is the underlying sequence.
func (t TrustedSeq[T]) Seq() iter.Seq[T] { return t.seq }

// FillTrusted writes ts into set by index and reports how many elements the
// sequence actually produced. Writing stops at Len(), so set is never called
// with an out-of-range index.
func FillTrusted[T any](ts TrustedSeq[T], set func(i int, v T)) int {
	i := 0
	for v := range ts.seq {
		if i == ts.n {
			return i + 1
		}
		set(i, v)
		i++
	}
	return i
}
