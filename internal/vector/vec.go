package vector

import (
	"fmt"
	"iter"
)

// Vec is the heap backend: an exclusively owned slice.
type Vec[T any] []T

var (
	_ MutView[float64]               = Vec[float64](nil)
	_ Contiguous[float64]            = Vec[float64](nil)
	_ Builder[float64, Vec[float64]] = VecBuilder[float64]{}
)

func (v Vec[T]) Len() int { return len(v) }

func (v Vec[T]) UncheckedGet(i int) T { return v[i] }

func (v Vec[T]) UncheckedSet(i int, x T) { v[i] = x }

func (v Vec[T]) Contiguous() ([]T, bool) { return v, true }

// VecBuilder builds Vec values.
type VecBuilder[T any] struct{}

func (VecBuilder[T]) Collect(seq iter.Seq[T]) Vec[T] {
	var out Vec[T]
	for v := range seq {
		out = append(out, v)
	}
	return out
}

func (VecBuilder[T]) CollectTrusted(ts TrustedSeq[T]) (Vec[T], error) {
	out := make(Vec[T], ts.Len())
	if n := FillTrusted(ts, out.UncheckedSet); n != ts.Len() {
		return nil, fmt.Errorf("%w: promised %d, got %d", ErrTrustedLength, ts.Len(), n)
	}
	return out, nil
}

// Clone copies any view into a new Vec.
func Clone[T any](v View[T]) Vec[T] {
	if c, ok := v.(Contiguous[T]); ok {
		if s, ok := c.Contiguous(); ok {
			return append(Vec[T](nil), s...)
		}
	}
	out := make(Vec[T], v.Len())
	for i := range out {
		out[i] = v.UncheckedGet(i)
	}
	return out
}
