// Package stats is the statistical algorithm library. Every rolling routine
// is one pass over the rolling engine with an O(1) add/remove accumulator;
// the regression residual statistics and the extremum rescans are the only
// O(window) steps.
//
// Routines prefixed with V skip missing input values: the window still
// advances at the same cadence but missing values never touch the
// accumulators, neither on entry nor on exit.
package stats

import (
	"github.com/sanspareilsmyn/vecstat/internal/rolling"
	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

// EPS is the variance floor. Variances at or below it are treated as zero.
const EPS = 1e-14

// Option configures a statistic call.
type Option func(*options)

type options struct {
	minPeriods    int
	hasMinPeriods bool
	out           vector.MutView[float64]
}

// WithMinPeriods sets the number of valid elements a window needs before a
// value is reported. It defaults to window/2, is clamped to the window and
// raised to the minimum the statistic is defined for.
func WithMinPeriods(n int) Option {
	return func(o *options) {
		o.minPeriods = max(n, 0)
		o.hasMinPeriods = true
	}
}

// WithOut makes the call write into out instead of allocating. out must have
// the length of the input; the call then returns a nil vector.
func WithOut(out vector.MutView[float64]) Option {
	return func(o *options) {
		o.out = out
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// periods resolves min_periods for a window over n elements. floor is the
// smallest count the statistic is defined for.
func (o options) periods(window, n, floor int) int {
	w := rolling.Clamp(window, n)
	mp := w / 2
	if o.hasMinPeriods {
		mp = o.minPeriods
	}
	return max(min(mp, w), floor)
}

func run[T any](v vector.View[T], window int, o options, step rolling.Step[T, float64]) (vector.Vec[float64], error) {
	if o.out != nil {
		return nil, rolling.ApplyTo(v, window, o.out, step)
	}
	return rolling.Apply(v, window, step), nil
}

func runIdx[T any](v vector.View[T], window int, o options, step rolling.IdxStep[T, float64]) (vector.Vec[float64], error) {
	if o.out != nil {
		return nil, rolling.ApplyIdxTo(v, window, o.out, step)
	}
	return rolling.ApplyIdx(v, window, step), nil
}

func run2[T, S any](a vector.View[T], b vector.View[S], window int, o options, step rolling.Step2[T, S, float64]) (vector.Vec[float64], error) {
	if o.out != nil {
		return nil, rolling.Apply2To(a, b, window, o.out, step)
	}
	return rolling.Apply2(a, b, window, step)
}
