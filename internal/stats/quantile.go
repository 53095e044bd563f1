package stats

import (
	"fmt"
	"math"
	"slices"

	"github.com/sanspareilsmyn/vecstat/internal/element"
	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

// Method chooses how a quantile falling between two order statistics is
// resolved.
type Method int

const (
	// Linear interpolates between the bracketing order statistics.
	Linear Method = iota
	// Lower takes the lower order statistic.
	Lower
	// Higher takes the higher order statistic.
	Higher
	// MidPoint averages the two.
	MidPoint
)

var methodNames = map[Method]string{
	Linear:   "linear",
	Lower:    "lower",
	Higher:   "higher",
	MidPoint: "midpoint",
}

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod is the inverse of Method.String.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// validValues copies the valid elements of v.
func validValues[T element.Number, U any](v vector.View[T], conv func(T) U) []U {
	buf := make([]U, 0, v.Len())
	for x := range vector.Values(v) {
		if x == x {
			buf = append(buf, conv(x))
		}
	}
	return buf
}

// VQuantile returns the q-th quantile of the valid elements of v, q in
// [0, 1]. The position q·(n-1) is located by selection, not by sorting; the
// upper bracketing statistic is the minimum of the right partition. A column
// without valid elements yields NaN.
func VQuantile[T element.Number](v vector.View[T], q float64, method Method) (float64, error) {
	if !(q >= 0 && q <= 1) {
		return math.NaN(), fmt.Errorf("%w: %v", ErrQuantileRange, q)
	}
	buf := validValues(v, element.ToF64[T])
	if len(buf) == 0 {
		return math.NaN(), nil
	}
	pos := q * float64(len(buf)-1)
	lo := int(math.Floor(pos))
	_, vlo, right := selectNth(buf, lo, func(a, b float64) bool { return a < b })
	vhi := vlo
	if float64(lo) != pos {
		vhi = slices.Min(right)
	}
	switch method {
	case Lower:
		return vlo, nil
	case Higher:
		return vhi, nil
	case MidPoint:
		return (vlo + vhi) / 2, nil
	case Linear:
		return vlo + (vhi-vlo)*(pos-float64(lo)), nil
	default:
		return math.NaN(), fmt.Errorf("%w: %v", ErrUnknownMethod, method)
	}
}

// VMedian is the linear 0.5 quantile.
func VMedian[T element.Number](v vector.View[T]) float64 {
	m, _ := VQuantile(v, 0.5, Linear)
	return m
}

// VPartition returns the kth+1 smallest valid elements of v (largest with
// desc), found by selection. With sorted the result is ordered; otherwise its
// order is unspecified.
func VPartition[T element.Number](v vector.View[T], kth int, sorted, desc bool) (vector.Vec[T], error) {
	buf := validValues(v, func(x T) T { return x })
	if kth < 0 || kth >= len(buf) {
		return nil, fmt.Errorf("%w: kth %d, valid elements %d", vector.ErrOutOfRange, kth, len(buf))
	}
	less := func(a, b T) bool { return element.Less(a, b, desc) }
	left, nth, _ := selectNth(buf, kth, less)
	head := append(left, nth)
	if sorted {
		slices.SortFunc(head, func(a, b T) int { return element.Compare(a, b, desc) })
	}
	return vector.VecBuilder[T]{}.CollectTrusted(vector.Trusted(len(head), slices.Values(head)))
}

// selectNth reorders s so that s[k] holds the element a full sort would put
// there, everything before it is not greater and everything after it is not
// less. It returns the three parts. Each round partitions three ways around
// a median-of-three pivot, so runs of equal values end the search early.
// Average cost is O(len(s)).
func selectNth[T any](s []T, k int, less func(a, b T) bool) (left []T, nth T, right []T) {
	lo, hi := 0, len(s)
	for hi-lo > 1 {
		p := medianOfThree(s[lo], s[lo+(hi-lo)/2], s[hi-1], less)
		// [lo, lt) < p, [lt, gt) == p, [gt, hi) > p
		lt, i, gt := lo, lo, hi
		for i < gt {
			switch {
			case less(s[i], p):
				s[lt], s[i] = s[i], s[lt]
				lt++
				i++
			case less(p, s[i]):
				gt--
				s[i], s[gt] = s[gt], s[i]
			default:
				i++
			}
		}
		switch {
		case k < lt:
			hi = lt
		case k >= gt:
			lo = gt
		default:
			return s[:k], s[k], s[k+1:]
		}
	}
	return s[:k], s[k], s[k+1:]
}

func medianOfThree[T any](a, b, c T, less func(a, b T) bool) T {
	if less(b, a) {
		a, b = b, a
	}
	if less(c, b) {
		b = c
		if less(b, a) {
			b = a
		}
	}
	return b
}
