// Package dense adapts gonum vectors and matrix columns to the vector
// access contract.
package dense

import (
	"fmt"
	"iter"

	"gonum.org/v1/gonum/mat"

	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

// Vector is a mutable view over a *mat.VecDense, strided or not.
type Vector struct {
	v *mat.VecDense
}

var (
	_ vector.MutView[float64]         = Vector{}
	_ vector.Contiguous[float64]      = Vector{}
	_ vector.Builder[float64, Vector] = Builder{}
)

// Wrap views v.
func Wrap(v *mat.VecDense) Vector {
	return Vector{v: v}
}

// Col views column j of m without copying. Writes go through to m.
func Col(m *mat.Dense, j int) (Vector, error) {
	_, c := m.Dims()
	if j < 0 || j >= c {
		return Vector{}, fmt.Errorf("%w: column %d of %d", vector.ErrOutOfRange, j, c)
	}
	return Vector{v: m.ColView(j).(*mat.VecDense)}, nil
}

// Raw returns the wrapped gonum vector.
func (d Vector) Raw() *mat.VecDense { return d.v }

func (d Vector) Len() int {
	if d.v == nil || d.v.IsEmpty() {
		return 0
	}
	return d.v.Len()
}

func (d Vector) UncheckedGet(i int) float64 { return d.v.AtVec(i) }

func (d Vector) UncheckedSet(i int, x float64) { d.v.SetVec(i, x) }

// Contiguous exposes the backing slice when the vector has unit stride,
// which a matrix column has only for single-column matrices.
func (d Vector) Contiguous() ([]float64, bool) {
	if d.Len() == 0 {
		return nil, true
	}
	raw := d.v.RawVector()
	if raw.Inc != 1 {
		return nil, false
	}
	return raw.Data[:raw.N], true
}

// Builder produces Vector outputs backed by fresh *mat.VecDense values.
type Builder struct{}

func (Builder) Collect(seq iter.Seq[float64]) Vector {
	var data []float64
	for x := range seq {
		data = append(data, x)
	}
	if len(data) == 0 {
		return Vector{v: &mat.VecDense{}}
	}
	return Vector{v: mat.NewVecDense(len(data), data)}
}

func (Builder) CollectTrusted(ts vector.TrustedSeq[float64]) (Vector, error) {
	if ts.Len() == 0 {
		if n := vector.FillTrusted(ts, func(int, float64) {}); n != 0 {
			return Vector{}, fmt.Errorf("%w: promised 0, got %d", vector.ErrTrustedLength, n)
		}
		return Vector{v: &mat.VecDense{}}, nil
	}
	data := make([]float64, ts.Len())
	if n := vector.FillTrusted(ts, func(i int, x float64) { data[i] = x }); n != ts.Len() {
		return Vector{}, fmt.Errorf("%w: promised %d, got %d", vector.ErrTrustedLength, ts.Len(), n)
	}
	return Vector{v: mat.NewVecDense(len(data), data)}, nil
}
