package stats

import (
	"math"

	"github.com/sanspareilsmyn/vecstat/internal/element"
	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

// VSum is the sum of the valid elements of the whole column.
func VSum[T element.Number](v vector.View[T]) float64 {
	return vector.VFold(v, 0.0, func(acc float64, x T) float64 { return acc + float64(x) })
}

// VMean is the mean of the valid elements, NaN when there are none.
func VMean[T element.Number](v vector.View[T]) float64 {
	n := vector.VCount(v)
	if n == 0 {
		return math.NaN()
	}
	return VSum(v) / float64(n)
}

// VVar is the sample variance of the valid elements, NaN below two of them.
func VVar[T element.Number](v vector.View[T]) float64 {
	m := vector.VFold(v, moments{}, func(m moments, x T) moments {
		m.add(float64(x))
		return m
	})
	if m.n < 2 {
		return math.NaN()
	}
	return m.sampleVar()
}
