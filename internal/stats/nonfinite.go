package stats

import "math"

// nonFinite counts the window entries a running sum cannot hold: missing
// values and infinities. The sums fold in 0 at their place, so they stay
// finite once the entry leaves, and the counts decide the output. The 0
// keeps the entry's position for the weighted statistics.
type nonFinite struct {
	missing int
	posInf  int
	negInf  int
}

// add records x and returns what the running sums should fold in.
func (c *nonFinite) add(x float64) float64 {
	switch {
	case x != x:
		c.missing++
	case math.IsInf(x, 1):
		c.posInf++
	case math.IsInf(x, -1):
		c.negInf++
	default:
		return x
	}
	return 0
}

// remove undoes add for an entry leaving the window.
func (c *nonFinite) remove(x float64) float64 {
	switch {
	case x != x:
		c.missing--
	case math.IsInf(x, 1):
		c.posInf--
	case math.IsInf(x, -1):
		c.negInf--
	default:
		return x
	}
	return 0
}

func (c *nonFinite) infinite() bool { return c.posInf+c.negInf > 0 }

// limit is the value of a positively weighted sum over a window holding
// infinities: +Inf or -Inf, NaN when both signs are present.
func (c *nonFinite) limit() float64 {
	switch {
	case c.posInf > 0 && c.negInf > 0:
		return math.NaN()
	case c.posInf > 0:
		return math.Inf(1)
	default:
		return math.Inf(-1)
	}
}
