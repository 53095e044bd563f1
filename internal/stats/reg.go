package stats

import (
	"math"

	"github.com/sanspareilsmyn/vecstat/internal/element"
	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

// Regression fits x = intercept + slope·t over each window by least squares,
// with t = 1..n the position of each valid element inside the window. The
// time steps are equally spaced, so Σt and Σt² are closed forms of n and
// only Σx and Σ(t·x) are kept; they are the same sums the weighted moving
// average uses. A window holding an infinity has no fit and is missing.

// coef returns the fitted intercept and slope of the current window.
func (w *weighted) coef() (intercept, slope float64) {
	n := float64(w.n)
	sumT := n * (n + 1) / 2
	sumTT := sumT * (2*n + 1) / 3
	divisor := n*sumTT - sumT*sumT
	slope = (n*w.sumXT - sumT*w.sum) / divisor
	intercept = (w.sum - slope*sumT) / n
	return intercept, slope
}

func rollingReg[T element.Number](v vector.View[T], window int, opts []Option, value func(*weighted) float64) (vector.Vec[float64], error) {
	o := newOptions(opts)
	mp := o.periods(window, v.Len(), 2)
	var (
		c nonFinite
		w weighted
	)
	return run(v, window, o, func(x, rm T, full bool) float64 {
		if x == x {
			w.add(c.add(float64(x)))
		}
		res := math.NaN()
		if w.n >= mp && !c.infinite() {
			res = value(&w)
		}
		if full && rm == rm {
			w.remove(c.remove(float64(rm)))
		}
		return res
	})
}

// TsVReg is the fitted value at the newest position of each window.
func TsVReg[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingReg(v, window, opts, func(w *weighted) float64 {
		intercept, slope := w.coef()
		return intercept + slope*float64(w.n)
	})
}

// TsVTsf is the one-step-ahead forecast of each window's fitted line.
func TsVTsf[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingReg(v, window, opts, func(w *weighted) float64 {
		intercept, slope := w.coef()
		return intercept + slope*float64(w.n+1)
	})
}

// TsVRegSlope is the slope of each window's fitted line.
func TsVRegSlope[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingReg(v, window, opts, func(w *weighted) float64 {
		_, slope := w.coef()
		return slope
	})
}

// TsVRegIntercept is the intercept (value at t = 0) of each window's fitted
// line.
func TsVRegIntercept[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingReg(v, window, opts, func(w *weighted) float64 {
		intercept, _ := w.coef()
		return intercept
	})
}

// rollingResid fits the line with the O(1) sums, then rescans the window to
// collect the residual moments. The line is only known once the window's
// elements are all in, so this is O(window) per position.
// TODO: residual std only needs an extra running Σx² to be O(1); keep the
// rescan for skew.
func rollingResid[T element.Number](v vector.View[T], window, floor int, opts []Option, value func(*moments) float64) (vector.Vec[float64], error) {
	o := newOptions(opts)
	mp := o.periods(window, v.Len(), max(floor, 2))
	var (
		c nonFinite
		w weighted
	)
	return runIdx(v, window, o, func(start, end int, full bool, x T) float64 {
		if x == x {
			w.add(c.add(float64(x)))
		}
		res := math.NaN()
		if w.n >= mp && !c.infinite() {
			intercept, slope := w.coef()
			var m moments
			t := 0
			for i := start; i <= end; i++ {
				xi := v.UncheckedGet(i)
				if xi != xi {
					continue
				}
				t++
				m.add(float64(xi) - (intercept + slope*float64(t)))
			}
			res = value(&m)
		}
		if full {
			if rm := v.UncheckedGet(start); rm == rm {
				w.remove(c.remove(float64(rm)))
			}
		}
		return res
	})
}

// TsVRegResidMean is the mean residual of each window's fit.
func TsVRegResidMean[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingResid(v, window, 2, opts, func(m *moments) float64 {
		return m.s1 / float64(m.n)
	})
}

// TsVRegResidStd is the sample standard deviation of each window's
// residuals.
func TsVRegResidStd[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingResid(v, window, 2, opts, func(m *moments) float64 {
		return math.Sqrt(m.sampleVar())
	})
}

// TsVRegResidSkew is the sample skewness of each window's residuals.
func TsVRegResidSkew[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingResid(v, window, 3, opts, (*moments).skew)
}
