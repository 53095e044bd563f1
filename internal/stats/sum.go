package stats

import (
	"math"

	"github.com/sanspareilsmyn/vecstat/internal/element"
	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

// rollingSum drives the sum and mean variants. With skip, missing values
// are left out of the window; without it they count as entries and make
// every window holding one missing. value maps the window total and entry
// count to the output.
func rollingSum[T element.Number](v vector.View[T], window int, skip bool, opts []Option, value func(total float64, n int) float64) (vector.Vec[float64], error) {
	o := newOptions(opts)
	mp := o.periods(window, v.Len(), 0)
	var (
		c   nonFinite
		sum float64
		n   int
	)
	return run(v, window, o, func(x, rm T, full bool) float64 {
		if f := float64(x); !skip || f == f {
			n++
			sum += c.add(f)
		}
		res := math.NaN()
		if n >= mp && c.missing == 0 {
			total := sum
			if c.infinite() {
				total = c.limit()
			}
			res = value(total, n)
		}
		if f := float64(rm); full && (!skip || f == f) {
			n--
			sum -= c.remove(f)
		}
		return res
	})
}

func sumValue(t float64, _ int) float64 { return t }

func meanValue(t float64, n int) float64 {
	if n == 0 {
		return math.NaN()
	}
	return t / float64(n)
}

// TsSum is the rolling sum. A window holding a missing value is missing;
// use TsVSum to skip them.
func TsSum[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingSum(v, window, false, opts, sumValue)
}

// TsVSum is the rolling sum of the valid elements in each window.
func TsVSum[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingSum(v, window, true, opts, sumValue)
}

// TsMean is the rolling mean. Like TsSum it is missing for any window
// holding a missing value.
func TsMean[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingSum(v, window, false, opts, meanValue)
}

// TsVMean is the rolling mean over the valid elements of each window. It
// divides by the valid count, not by the window size.
func TsVMean[T element.Number](v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error) {
	return rollingSum(v, window, true, opts, meanValue)
}
