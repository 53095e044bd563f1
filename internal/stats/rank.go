package stats

import (
	"fmt"
	"math"

	"github.com/sanspareilsmyn/vecstat/internal/element"
	"github.com/sanspareilsmyn/vecstat/internal/rolling"
	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

// VRank ranks the whole column from 1. Tied values share the average of the
// ranks they span; missing values are not ranked and stay missing. With pct
// the rank is divided by the number of valid elements. With desc the largest
// value is ranked first.
func VRank[T element.Number](v vector.View[T], pct, desc bool, opts ...Option) (vector.Vec[float64], error) {
	o := newOptions(opts)
	n := v.Len()
	out := o.out
	var fresh vector.Vec[float64]
	if out == nil {
		fresh = make(vector.Vec[float64], n)
		out = fresh
	} else if out.Len() != n {
		return nil, fmt.Errorf("%w: input %d, output %d", rolling.ErrLengthMismatch, n, out.Len())
	}

	idx := vector.ArgSort(v, desc)
	valid := vector.VCount(v)
	scale := 1.0
	if pct && valid > 0 {
		scale = 1 / float64(valid)
	}

	for i := 0; i < valid; {
		x := v.UncheckedGet(idx[i])
		j := i + 1
		for j < valid && v.UncheckedGet(idx[j]) == x {
			j++
		}
		// ranks i+1..j
		r := float64(i+1+j) / 2 * scale
		for k := i; k < j; k++ {
			out.UncheckedSet(idx[k], r)
		}
		i = j
	}
	for _, k := range idx[valid:] {
		out.UncheckedSet(k, math.NaN())
	}
	return fresh, nil
}
