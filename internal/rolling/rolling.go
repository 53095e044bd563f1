// Package rolling is the sliding-window driver every rolling statistic is
// built on.
//
// For each output position end in [0, n) the window covers
// [max(0, end-window+1), end]. A step function receives the element entering
// the window and, once the window is full, the element at the window start.
// The step must fold the entering element in, take its output, and only then
// fold the start element out: the output for end reflects exactly the
// elements of its own window, and the start element is the one that leaves
// before the next position.
//
// The window is clamped to the input length. An empty input or a zero window
// yields zero output positions.
package rolling

import (
	"fmt"

	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

// Step is the value-based step function. rm is meaningful only when full is
// true.
type Step[T, U any] func(x, rm T, full bool) U

// IdxStep is the index-based step function. start is the first index of the
// current window; when full is true it is also the index that leaves the
// window after this step.
type IdxStep[T, U any] func(start, end int, full bool, x T) U

// Step2 is the two-input form of Step.
type Step2[T, S, U any] func(xa T, xb S, rma T, rmb S, full bool) U

// Clamp returns the effective window for an input of length n.
func Clamp(window, n int) int {
	if window < 0 {
		return 0
	}
	return min(window, n)
}

// positions reports how many outputs a call over n elements produces.
func positions(window, n int) int {
	if window <= 0 || n == 0 {
		return 0
	}
	return n
}

func drive[T, U any](v vector.View[T], window int, set func(int, U), step Step[T, U]) {
	n := v.Len()
	if positions(window, n) == 0 {
		return
	}
	window = Clamp(window, n)
	for end := 0; end < window-1; end++ {
		set(end, step(v.UncheckedGet(end), *new(T), false))
	}
	for start, end := 0, window-1; end < n; start, end = start+1, end+1 {
		set(end, step(v.UncheckedGet(end), v.UncheckedGet(start), true))
	}
}

func driveIdx[T, U any](v vector.View[T], window int, set func(int, U), step IdxStep[T, U]) {
	n := v.Len()
	if positions(window, n) == 0 {
		return
	}
	window = Clamp(window, n)
	for end := 0; end < window-1; end++ {
		set(end, step(0, end, false, v.UncheckedGet(end)))
	}
	for start, end := 0, window-1; end < n; start, end = start+1, end+1 {
		set(end, step(start, end, true, v.UncheckedGet(end)))
	}
}

func drive2[T, S, U any](a vector.View[T], b vector.View[S], window int, set func(int, U), step Step2[T, S, U]) {
	n := a.Len()
	if positions(window, n) == 0 {
		return
	}
	window = Clamp(window, n)
	var zt T
	var zs S
	for end := 0; end < window-1; end++ {
		set(end, step(a.UncheckedGet(end), b.UncheckedGet(end), zt, zs, false))
	}
	for start, end := 0, window-1; end < n; start, end = start+1, end+1 {
		set(end, step(a.UncheckedGet(end), b.UncheckedGet(end), a.UncheckedGet(start), b.UncheckedGet(start), true))
	}
}

// collect runs a driver into a freshly allocated Vec through the trusted
// construction path.
func collect[U any](n int, run func(set func(int, U))) vector.Vec[U] {
	seq := func(yield func(U) bool) {
		stopped := false
		run(func(_ int, u U) {
			if !stopped && !yield(u) {
				stopped = true
			}
		})
	}
	out, err := vector.VecBuilder[U]{}.CollectTrusted(vector.Trusted(n, seq))
	if err != nil {
		// The drivers emit exactly n outputs in index order.
		panic(err)
	}
	return out
}

// Apply runs step over every window position of v and returns the outputs.
func Apply[T, U any](v vector.View[T], window int, step Step[T, U]) vector.Vec[U] {
	return collect(positions(window, v.Len()), func(set func(int, U)) {
		drive(v, window, set, step)
	})
}

// ApplyTo is Apply writing into out, which must have the length of v.
func ApplyTo[T, U any](v vector.View[T], window int, out vector.MutView[U], step Step[T, U]) error {
	if out.Len() != v.Len() {
		return fmt.Errorf("%w: input %d, output %d", ErrLengthMismatch, v.Len(), out.Len())
	}
	drive(v, window, out.UncheckedSet, step)
	return nil
}

// ApplyIdx is Apply with an index-based step.
func ApplyIdx[T, U any](v vector.View[T], window int, step IdxStep[T, U]) vector.Vec[U] {
	return collect(positions(window, v.Len()), func(set func(int, U)) {
		driveIdx(v, window, set, step)
	})
}

// ApplyIdxTo is ApplyIdx writing into out.
func ApplyIdxTo[T, U any](v vector.View[T], window int, out vector.MutView[U], step IdxStep[T, U]) error {
	if out.Len() != v.Len() {
		return fmt.Errorf("%w: input %d, output %d", ErrLengthMismatch, v.Len(), out.Len())
	}
	driveIdx(v, window, out.UncheckedSet, step)
	return nil
}

// Apply2 drives a and b in lockstep. They must have the same length.
func Apply2[T, S, U any](a vector.View[T], b vector.View[S], window int, step Step2[T, S, U]) (vector.Vec[U], error) {
	if a.Len() != b.Len() {
		return nil, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, a.Len(), b.Len())
	}
	return collect(positions(window, a.Len()), func(set func(int, U)) {
		drive2(a, b, window, set, step)
	}), nil
}

// Apply2To is Apply2 writing into out.
func Apply2To[T, S, U any](a vector.View[T], b vector.View[S], window int, out vector.MutView[U], step Step2[T, S, U]) error {
	if a.Len() != b.Len() {
		return fmt.Errorf("%w: %d and %d", ErrLengthMismatch, a.Len(), b.Len())
	}
	if out.Len() != a.Len() {
		return fmt.Errorf("%w: input %d, output %d", ErrLengthMismatch, a.Len(), out.Len())
	}
	drive2(a, b, window, out.UncheckedSet, step)
	return nil
}
