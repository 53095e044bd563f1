package stats

import (
	"math"

	"github.com/sanspareilsmyn/vecstat/internal/element"
	"github.com/sanspareilsmyn/vecstat/internal/rolling"
	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

// ewm keeps q = Σ x_k·(1-α)^(n-k) over the n elements in the window, so an
// entering value costs q += x - α·q and the oldest value leaves with weight
// (1-α)^(n-1).
type ewm struct {
	alpha, oma float64
	q          float64
	n          int
}

func newEwm(window int) *ewm {
	alpha := 2 / float64(window)
	return &ewm{alpha: alpha, oma: 1 - alpha}
}

func (e *ewm) add(x float64) {
	e.n++
	e.q += x - e.alpha*e.q
}

// value applies the bias correction that makes a partially filled window
// match the steady-state weights.
func (e *ewm) value() float64 {
	return e.q * e.alpha / (1 - math.Pow(e.oma, float64(e.n)))
}

func (e *ewm) remove(x float64) {
	e.n--
	e.q -= x * math.Pow(e.oma, float64(e.n))
}

// rollingEwm drives both ewm variants; skip has the meaning it has for
// rollingSum. With a window of 2 every element but the newest has weight 0,
// so only an infinite newest element shows in the output.
func rollingEwm[T element.Number](v vector.View[T], window int, skip bool, opts []Option) (vector.Vec[float64], error) {
	o := newOptions(opts)
	mp := o.periods(window, v.Len(), 0)
	e := newEwm(max(rolling.Clamp(window, v.Len()), 1))
	var (
		c      nonFinite
		newest float64
	)
	return run(v, window, o, func(x, rm T, full bool) float64 {
		if f := float64(x); !skip || f == f {
			e.add(c.add(f))
			newest = f
		}
		res := math.NaN()
		if e.n >= mp && e.n > 0 && c.missing == 0 {
			switch {
			case !c.infinite():
				res = e.value()
			case e.oma != 0:
				res = c.limit()
			case math.IsInf(newest, 0):
				res = newest
			default:
				res = e.value()
			}
		}
		if f := float64(rm); full && (!skip || f == f) {
			e.remove(c.remove(f))
		}
		return res
	})
}

// TsEwm is the exponentially weighted moving mean with α = 2/window. A
// window holding a missing value is missing.
func TsEwm[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingEwm(v, window, false, opts)
}

// TsVEwm is TsEwm over the valid elements of each window.
func TsVEwm[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingEwm(v, window, true, opts)
}
