package element

import "cmp"

// Less is a strict order that puts missing values last in both directions.
// Two missing values are never less than each other, which is what unstable
// sorts and selection need.
func Less[T Sortable](a, b T, desc bool) bool {
	switch {
	case a != a:
		return false
	case b != b:
		return true
	case desc:
		return a > b
	default:
		return a < b
	}
}

// Compare is the three-way form of Less. Missing compares equal to missing,
// so a stable sort keeps missing values in input order.
func Compare[T Sortable](a, b T, desc bool) int {
	aNone, bNone := a != a, b != b
	switch {
	case aNone && bNone:
		return 0
	case aNone:
		return 1
	case bNone:
		return -1
	case desc:
		return cmp.Compare(b, a)
	default:
		return cmp.Compare(a, b)
	}
}
