package stats

import (
	"math"

	"github.com/sanspareilsmyn/vecstat/internal/element"
	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

// extremum tracks the index of the window maximum (or minimum). The index
// stays valid until it falls behind the window start; then the window is
// rescanned. Ties keep the earliest index.
type extremum[T element.Number] struct {
	v   vector.View[T]
	max bool
	idx int
	val float64
}

func newExtremum[T element.Number](v vector.View[T], isMax bool) *extremum[T] {
	return &extremum[T]{v: v, max: isMax, idx: -1, val: math.NaN()}
}

func (e *extremum[T]) better(x float64) bool {
	if e.max {
		return x > e.val
	}
	return x < e.val
}

// step moves the tracker to the window [start, end] whose newest element is x.
func (e *extremum[T]) step(start, end int, x float64) {
	if e.idx < start {
		e.rescan(start, end)
		return
	}
	if x == x && e.better(x) {
		e.idx, e.val = end, x
	}
}

func (e *extremum[T]) rescan(start, end int) {
	e.idx, e.val = -1, math.NaN()
	for i := start; i <= end; i++ {
		x := float64(e.v.UncheckedGet(i))
		if x != x {
			continue
		}
		if e.idx < 0 || e.better(x) {
			e.idx, e.val = i, x
		}
	}
}

func (e *extremum[T]) ok() bool { return e.idx >= 0 }

// rollingExtremum drives one tracker and a valid-element count.
func rollingExtremum[T element.Number](v vector.View[T], window int, isMax bool, opts []Option, value func(e *extremum[T], start int) float64) (vector.Vec[float64], error) {
	o := newOptions(opts)
	mp := o.periods(window, v.Len(), 1)
	e := newExtremum(v, isMax)
	n := 0
	return runIdx(v, window, o, func(start, end int, full bool, x T) float64 {
		if x == x {
			n++
		}
		e.step(start, end, float64(x))
		res := math.NaN()
		if n >= mp && e.ok() {
			res = value(e, start)
		}
		if full {
			if rm := v.UncheckedGet(start); rm == rm {
				n--
			}
		}
		return res
	})
}

// TsVMax is the rolling maximum of the valid elements.
func TsVMax[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingExtremum(v, window, true, opts, func(e *extremum[T], _ int) float64 {
		return e.val
	})
}

// TsVMin is the rolling minimum of the valid elements.
func TsVMin[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingExtremum(v, window, false, opts, func(e *extremum[T], _ int) float64 {
		return e.val
	})
}

// TsVArgMax is the 1-based position of the window maximum inside its window.
func TsVArgMax[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingExtremum(v, window, true, opts, func(e *extremum[T], start int) float64 {
		return float64(e.idx - start + 1)
	})
}

// TsVArgMin is the 1-based position of the window minimum inside its window.
func TsVArgMin[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingExtremum(v, window, false, opts, func(e *extremum[T], start int) float64 {
		return float64(e.idx - start + 1)
	})
}

// TsVMinMaxNorm rescales each element into [0, 1] against its window's
// minimum and maximum. It is missing when x is missing or the window has no
// range.
func TsVMinMaxNorm[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	o := newOptions(opts)
	mp := o.periods(window, v.Len(), 1)
	hi, lo := newExtremum(v, true), newExtremum(v, false)
	n := 0
	return runIdx(v, window, o, func(start, end int, full bool, x T) float64 {
		f := float64(x)
		if x == x {
			n++
		}
		hi.step(start, end, f)
		lo.step(start, end, f)
		res := math.NaN()
		if x == x && n >= mp && hi.val-lo.val > EPS {
			res = (f - lo.val) / (hi.val - lo.val)
		}
		if full {
			if rm := v.UncheckedGet(start); rm == rm {
				n--
			}
		}
		return res
	})
}
