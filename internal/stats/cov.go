package stats

import (
	"math"

	"github.com/sanspareilsmyn/vecstat/internal/element"
	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

// comoments keeps the paired sums of the positions where both inputs are
// valid.
type comoments struct {
	n                     int
	sa, sb, saa, sbb, sab float64
}

func (c *comoments) add(a, b float64) {
	c.n++
	c.sa += a
	c.sb += b
	c.saa += a * a
	c.sbb += b * b
	c.sab += a * b
}

func (c *comoments) remove(a, b float64) {
	c.n--
	c.sa -= a
	c.sb -= b
	c.saa -= a * a
	c.sbb -= b * b
	c.sab -= a * b
}

func (c *comoments) cov() float64 {
	n := float64(c.n)
	return (c.sab - c.sa*c.sb/n) / (n - 1)
}

// corr is the Pearson coefficient, missing when either side has no spread.
func (c *comoments) corr() float64 {
	n := float64(c.n)
	meanA, meanB := c.sa/n, c.sb/n
	varA := c.saa/n - meanA*meanA
	varB := c.sbb/n - meanB*meanB
	if varA <= EPS || varB <= EPS {
		return math.NaN()
	}
	return (c.sab/n - meanA*meanB) / math.Sqrt(varA*varB)
}

func rollingComoment[T, S element.Number](a vector.View[T], b vector.View[S], window int, opts []Option, value func(*comoments) float64) (vector.Vec[float64], error) {
	o := newOptions(opts)
	mp := o.periods(window, a.Len(), 2)
	var (
		ca, cb nonFinite
		c      comoments
	)
	return run2(a, b, window, o, func(xa T, xb S, rma T, rmb S, full bool) float64 {
		if xa == xa && xb == xb {
			c.add(ca.add(float64(xa)), cb.add(float64(xb)))
		}
		res := math.NaN()
		if c.n >= mp && !ca.infinite() && !cb.infinite() {
			res = value(&c)
		}
		if full && rma == rma && rmb == rmb {
			c.remove(ca.remove(float64(rma)), cb.remove(float64(rmb)))
		}
		return res
	})
}

// TsVCov is the rolling sample covariance of a and b over the positions
// where both are valid. a and b must have the same length.
func TsVCov[T, S element.Number](a vector.View[T], b vector.View[S], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingComoment(a, b, window, opts, (*comoments).cov)
}

// TsVCorr is the rolling Pearson correlation of a and b.
func TsVCorr[T, S element.Number](a vector.View[T], b vector.View[S], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingComoment(a, b, window, opts, (*comoments).corr)
}
