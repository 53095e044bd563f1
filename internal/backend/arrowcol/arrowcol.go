// Package arrowcol adapts Arrow chunked arrays to the vector access
// contract. Arrow columns are immutable, so they implement View only.
//
// Arrow tracks nulls in a validity bitmap; the kernel keeps missing-ness in
// the value. Float columns read nulls as NaN. Integer columns have no
// missing value, so a null in one is rejected when the view is created.
package arrowcol

import (
	"fmt"
	"iter"
	"math"
	"sort"

	"github.com/apache/arrow/go/v7/arrow"
	"github.com/apache/arrow/go/v7/arrow/array"
	"github.com/apache/arrow/go/v7/arrow/memory"

	"github.com/sanspareilsmyn/vecstat/internal/element"
	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

type valuer[T element.Number] interface {
	arrow.Array
	Value(i int) T
}

// Column is a read-only view over a chunked Arrow array.
type Column[T element.Number] struct {
	chunked *arrow.Chunked
	chunks  []valuer[T]
	// offsets[k] is the first logical index of chunk k; the last entry is
	// the total length.
	offsets []int
	nulls   bool
	none    T
}

var (
	_ vector.View[float64]                      = (*Column[float64])(nil)
	_ vector.Builder[float64, *Column[float64]] = Float64Builder{}
)

func newColumn[T element.Number, A valuer[T]](c *arrow.Chunked, id arrow.Type) (*Column[T], error) {
	if c.DataType().ID() != id {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrDataType, id, c.DataType().Name())
	}
	col := &Column[T]{
		chunked: c,
		offsets: make([]int, 0, len(c.Chunks())+1),
		nulls:   c.NullN() > 0,
	}
	if col.nulls {
		if !element.Nullable[T]() {
			return nil, fmt.Errorf("%w: %d nulls in %s column", ErrNullsNotRepresentable, c.NullN(), c.DataType().Name())
		}
		col.none = element.None[T]()
	}
	off := 0
	for _, chunk := range c.Chunks() {
		if chunk.Len() == 0 {
			continue
		}
		a, ok := chunk.(A)
		if !ok {
			return nil, fmt.Errorf("%w: chunk of type %T", ErrDataType, chunk)
		}
		col.chunks = append(col.chunks, a)
		col.offsets = append(col.offsets, off)
		off += chunk.Len()
	}
	col.offsets = append(col.offsets, off)
	c.Retain()
	return col, nil
}

// NewFloat64 views a float64 column. Nulls read as NaN.
func NewFloat64(c *arrow.Chunked) (*Column[float64], error) {
	return newColumn[float64, *array.Float64](c, arrow.FLOAT64)
}

// NewFloat32 views a float32 column. Nulls read as NaN.
func NewFloat32(c *arrow.Chunked) (*Column[float32], error) {
	return newColumn[float32, *array.Float32](c, arrow.FLOAT32)
}

// NewInt64 views an int64 column without nulls.
func NewInt64(c *arrow.Chunked) (*Column[int64], error) {
	return newColumn[int64, *array.Int64](c, arrow.INT64)
}

// NewInt32 views an int32 column without nulls.
func NewInt32(c *arrow.Chunked) (*Column[int32], error) {
	return newColumn[int32, *array.Int32](c, arrow.INT32)
}

// Chunked returns the underlying array.
func (c *Column[T]) Chunked() *arrow.Chunked { return c.chunked }

// Release drops the view's reference to the underlying array.
func (c *Column[T]) Release() { c.chunked.Release() }

func (c *Column[T]) Len() int { return c.offsets[len(c.offsets)-1] }

func (c *Column[T]) UncheckedGet(i int) T {
	k := 0
	if len(c.chunks) > 1 {
		k = sort.SearchInts(c.offsets, i+1) - 1
	}
	j := i - c.offsets[k]
	if c.nulls && c.chunks[k].IsNull(j) {
		return c.none
	}
	return c.chunks[k].Value(j)
}

// NumChunks is the number of non-empty chunks.
func (c *Column[T]) NumChunks() int { return len(c.chunks) }

// Float64Builder builds one-chunk float64 columns. NaN is written as null.
type Float64Builder struct {
	Mem memory.Allocator
}

func (b Float64Builder) mem() memory.Allocator {
	if b.Mem == nil {
		return memory.DefaultAllocator
	}
	return b.Mem
}

func (b Float64Builder) build(n int, fill func(ab *array.Float64Builder) int) (*Column[float64], error) {
	ab := array.NewFloat64Builder(b.mem())
	defer ab.Release()
	if n > 0 {
		ab.Reserve(n)
	}
	got := fill(ab)
	if n >= 0 && got != n {
		return nil, fmt.Errorf("%w: promised %d, got %d", vector.ErrTrustedLength, n, got)
	}
	arr := ab.NewFloat64Array()
	defer arr.Release()
	chunked := arrow.NewChunked(arrow.PrimitiveTypes.Float64, []arrow.Array{arr})
	defer chunked.Release()
	return NewFloat64(chunked)
}

func appendValue(ab *array.Float64Builder, x float64) {
	if math.IsNaN(x) {
		ab.AppendNull()
		return
	}
	ab.Append(x)
}

func (b Float64Builder) Collect(seq iter.Seq[float64]) *Column[float64] {
	col, err := b.build(-1, func(ab *array.Float64Builder) int {
		n := 0
		for x := range seq {
			appendValue(ab, x)
			n++
		}
		return n
	})
	if err != nil {
		// Unreachable: an untrusted build has no length to violate and the
		// data type is fixed.
		panic(err)
	}
	return col
}

func (b Float64Builder) CollectTrusted(ts vector.TrustedSeq[float64]) (*Column[float64], error) {
	return b.build(ts.Len(), func(ab *array.Float64Builder) int {
		return vector.FillTrusted(ts, func(_ int, x float64) { appendValue(ab, x) })
	})
}
