package stats

import (
	"math"

	"github.com/sanspareilsmyn/vecstat/internal/element"
	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

// weighted keeps Σx and Σ(t·x), where t is the 1-based position of x among
// the elements currently in the window. Removing the oldest element shifts
// every weight down by one, which is Σ(t·x) -= Σx before Σx -= x.
type weighted struct {
	n     int
	sum   float64
	sumXT float64
}

func (w *weighted) add(x float64) {
	w.n++
	w.sumXT += float64(w.n) * x
	w.sum += x
}

func (w *weighted) remove(x float64) {
	w.n--
	w.sumXT -= w.sum
	w.sum -= x
}

func (w *weighted) wma() float64 {
	n := float64(w.n)
	return w.sumXT / (n * (n + 1) / 2)
}

// rollingWma drives both wma variants; skip has the meaning it has for
// rollingSum.
func rollingWma[T element.Number](v vector.View[T], window int, skip bool, opts []Option) (vector.Vec[float64], error) {
	o := newOptions(opts)
	mp := o.periods(window, v.Len(), 0)
	var (
		c nonFinite
		w weighted
	)
	return run(v, window, o, func(x, rm T, full bool) float64 {
		if f := float64(x); !skip || f == f {
			w.add(c.add(f))
		}
		res := math.NaN()
		if w.n >= mp && w.n > 0 && c.missing == 0 {
			res = w.wma()
			if c.infinite() {
				res = c.limit()
			}
		}
		if f := float64(rm); full && (!skip || f == f) {
			w.remove(c.remove(f))
		}
		return res
	})
}

// TsWma is the linearly weighted moving average: the newest element has
// weight n, the oldest weight 1. A window holding a missing value is missing.
func TsWma[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingWma(v, window, false, opts)
}

// TsVWma is TsWma over the valid elements of each window; weights count
// valid elements only.
func TsVWma[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingWma(v, window, true, opts)
}
