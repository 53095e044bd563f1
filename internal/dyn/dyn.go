// Package dyn dispatches statistics over columns whose element type is only
// known at run time. The supported types form a closed set; every operation
// switches over it once and calls the statically typed kernel for that arm.
package dyn

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sanspareilsmyn/vecstat/internal/element"
	"github.com/sanspareilsmyn/vecstat/internal/stats"
	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

// Kind tags the element type of a Column.
type Kind int

const (
	KindFloat64 Kind = iota
	KindFloat32
	KindInt64
	KindInt32
)

var kindNames = map[Kind]string{
	KindFloat64: "float64",
	KindFloat32: "float32",
	KindInt64:   "int64",
	KindInt32:   "int32",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == strings.ToLower(s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Column is a tagged union over the supported element types. Exactly the
// field matching kind is set.
type Column struct {
	kind Kind
	f64  vector.View[float64]
	f32  vector.View[float32]
	i64  vector.View[int64]
	i32  vector.View[int32]
}

func Float64(v vector.View[float64]) Column { return Column{kind: KindFloat64, f64: v} }
func Float32(v vector.View[float32]) Column { return Column{kind: KindFloat32, f32: v} }
func Int64(v vector.View[int64]) Column     { return Column{kind: KindInt64, i64: v} }
func Int32(v vector.View[int32]) Column     { return Column{kind: KindInt32, i32: v} }

func (c Column) Kind() Kind { return c.kind }

func (c Column) Len() int {
	switch c.kind {
	case KindFloat64:
		return c.f64.Len()
	case KindFloat32:
		return c.f32.Len()
	case KindInt64:
		return c.i64.Len()
	case KindInt32:
		return c.i32.Len()
	default:
		return 0
	}
}

// Float64 widens the column to float64. Float64 columns are returned as is.
func (c Column) Float64() vector.View[float64] {
	switch c.kind {
	case KindFloat64:
		return c.f64
	case KindFloat32:
		return widen(c.f32)
	case KindInt64:
		return widen(c.i64)
	case KindInt32:
		return widen(c.i32)
	default:
		return vector.Vec[float64](nil)
	}
}

func widen[T element.Number](v vector.View[T]) vector.Vec[float64] {
	out, err := vector.VecBuilder[float64]{}.CollectTrusted(vector.Map(v, element.ToF64[T]))
	if err != nil {
		panic(err)
	}
	return out
}

// Rolling runs the named single-input statistic. Each arm instantiates the
// kernel for its own element type, so integer columns are never widened
// up front.
func (c Column) Rolling(name string, window int, opts ...stats.Option) (vector.Vec[float64], error) {
	switch c.kind {
	case KindFloat64:
		return rollingTyped(c.f64, name, window, opts)
	case KindFloat32:
		return rollingTyped(c.f32, name, window, opts)
	case KindInt64:
		return rollingTyped(c.i64, name, window, opts)
	case KindInt32:
		return rollingTyped(c.i32, name, window, opts)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, c.kind)
	}
}

func rollingTyped[T element.Number](v vector.View[T], name string, window int, opts []stats.Option) (vector.Vec[float64], error) {
	f, err := stats.LookupTyped[T](name)
	if err != nil {
		return nil, err
	}
	return f(v, window, opts...)
}

// Rolling2 runs the named two-input statistic over c and other. Both are
// widened to float64 since the arms may differ.
func (c Column) Rolling2(name string, other Column, window int, opts ...stats.Option) (vector.Vec[float64], error) {
	f, err := stats.LookupPair(name)
	if err != nil {
		return nil, err
	}
	return f(c.Float64(), other.Float64(), window, opts...)
}

// Quantile dispatches stats.VQuantile.
func (c Column) Quantile(q float64, method stats.Method) (float64, error) {
	switch c.kind {
	case KindFloat64:
		return stats.VQuantile(c.f64, q, method)
	case KindFloat32:
		return stats.VQuantile(c.f32, q, method)
	case KindInt64:
		return stats.VQuantile(c.i64, q, method)
	case KindInt32:
		return stats.VQuantile(c.i32, q, method)
	default:
		return math.NaN(), fmt.Errorf("%w: %v", ErrUnknownKind, c.kind)
	}
}

// Rank dispatches stats.VRank.
func (c Column) Rank(pct, desc bool) (vector.Vec[float64], error) {
	switch c.kind {
	case KindFloat64:
		return stats.VRank(c.f64, pct, desc)
	case KindFloat32:
		return stats.VRank(c.f32, pct, desc)
	case KindInt64:
		return stats.VRank(c.i64, pct, desc)
	case KindInt32:
		return stats.VRank(c.i32, pct, desc)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, c.kind)
	}
}

// Parse builds a column of the given kind from text values. Empty strings,
// "nan" and "null" are missing, which only float kinds can hold.
func Parse(kind Kind, fields []string) (Column, error) {
	switch kind {
	case KindFloat64:
		v, err := parseFloats[float64](fields, 64)
		return Float64(v), err
	case KindFloat32:
		v, err := parseFloats[float32](fields, 32)
		return Float32(v), err
	case KindInt64:
		v, err := parseInts[int64](fields, 64)
		return Int64(v), err
	case KindInt32:
		v, err := parseInts[int32](fields, 32)
		return Int32(v), err
	default:
		return Column{}, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
}

func isNullText(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "null", "none":
		return true
	default:
		return false
	}
}

func parseFloats[T element.Float](fields []string, bits int) (vector.Vec[T], error) {
	out := make(vector.Vec[T], len(fields))
	for i, s := range fields {
		if isNullText(s) {
			out[i] = element.NaN[T]()
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), bits)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrParse, i, err)
		}
		out[i] = T(f)
	}
	return out, nil
}

func parseInts[T element.Signed](fields []string, bits int) (vector.Vec[T], error) {
	out := make(vector.Vec[T], len(fields))
	for i, s := range fields {
		if isNullText(s) {
			return nil, fmt.Errorf("%w: row %d", element.ErrMissingCast, i)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, bits)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrParse, i, err)
		}
		out[i] = T(n)
	}
	return out, nil
}
