package stats

import (
	"math"

	"github.com/sanspareilsmyn/vecstat/internal/element"
	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

// moments keeps power sums of the valid elements in a window.
type moments struct {
	n              int
	s1, s2, s3, s4 float64
}

func (m *moments) add(x float64) {
	x2 := x * x
	m.n++
	m.s1 += x
	m.s2 += x2
	m.s3 += x2 * x
	m.s4 += x2 * x2
}

func (m *moments) remove(x float64) {
	x2 := x * x
	m.n--
	m.s1 -= x
	m.s2 -= x2
	m.s3 -= x2 * x
	m.s4 -= x2 * x2
}

// meanVar returns the mean and the population variance.
func (m *moments) meanVar() (mean, variance float64) {
	n := float64(m.n)
	mean = m.s1 / n
	variance = m.s2/n - mean*mean
	return mean, variance
}

// sampleVar applies Bessel's correction. A population variance at or below
// EPS is reported as exactly 0.
func (m *moments) sampleVar() float64 {
	_, variance := m.meanVar()
	if variance <= EPS {
		return 0
	}
	n := float64(m.n)
	return variance * n / (n - 1)
}

// skew is the adjusted Fisher-Pearson coefficient, 0 at the variance floor.
func (m *moments) skew() float64 {
	mean, variance := m.meanVar()
	if variance <= EPS {
		return 0
	}
	n := float64(m.n)
	m3 := m.s3/n - 3*mean*variance - mean*mean*mean
	return math.Sqrt(n*(n-1)) / (n - 2) * m3 / (variance * math.Sqrt(variance))
}

// kurt is the sample excess kurtosis, 0 at the variance floor.
func (m *moments) kurt() float64 {
	mean, variance := m.meanVar()
	if variance <= EPS {
		return 0
	}
	n := float64(m.n)
	mean2 := mean * mean
	m4 := m.s4/n - 4*mean*m.s3/n + 6*mean2*m.s2/n - 3*mean2*mean2
	b2 := m4 / (variance * variance)
	return ((n*n-1)*b2 - 3*(n-1)*(n-1)) / ((n - 2) * (n - 3))
}

// rollingMoment drives the power-sum statistics. A window holding an
// infinity is missing: its deviations are undefined.
func rollingMoment[T element.Number](v vector.View[T], window, floor int, opts []Option, value func(*moments) float64) (vector.Vec[float64], error) {
	o := newOptions(opts)
	mp := o.periods(window, v.Len(), floor)
	var (
		c nonFinite
		m moments
	)
	return run(v, window, o, func(x, rm T, full bool) float64 {
		if x == x {
			m.add(c.add(float64(x)))
		}
		res := math.NaN()
		if m.n >= mp && !c.infinite() {
			res = value(&m)
		}
		if full && rm == rm {
			m.remove(c.remove(float64(rm)))
		}
		return res
	})
}

// TsVVar is the rolling sample variance of the valid elements.
func TsVVar[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingMoment(v, window, 2, opts, (*moments).sampleVar)
}

// TsVStd is the rolling sample standard deviation of the valid elements.
func TsVStd[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingMoment(v, window, 2, opts, func(m *moments) float64 {
		return math.Sqrt(m.sampleVar())
	})
}

// TsVSkew is the rolling sample skewness of the valid elements.
func TsVSkew[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingMoment(v, window, 3, opts, (*moments).skew)
}

// TsVKurt is the rolling sample excess kurtosis of the valid elements.
func TsVKurt[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingMoment(v, window, 4, opts, (*moments).kurt)
}

// TsVZScore standardizes each element against its own window: (x - mean) /
// std. It is missing when x is missing, the window holds an infinity or the
// window has no spread.
func TsVZScore[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	o := newOptions(opts)
	mp := o.periods(window, v.Len(), 2)
	var (
		c nonFinite
		m moments
	)
	return run(v, window, o, func(x, rm T, full bool) float64 {
		res := math.NaN()
		if x == x {
			m.add(c.add(float64(x)))
			if m.n >= mp && !c.infinite() {
				mean, variance := m.meanVar()
				if variance > EPS {
					n := float64(m.n)
					res = (float64(x) - mean) / math.Sqrt(variance*n/(n-1))
				}
			}
		}
		if full && rm == rm {
			m.remove(c.remove(float64(rm)))
		}
		return res
	})
}
