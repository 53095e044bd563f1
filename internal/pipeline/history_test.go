package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

func TestHistoryEvictsOldest(t *testing.T) {
	h := newHistory(3)
	for _, x := range []float64{1, 2, 3, 4, 5} {
		h.push(x)
	}
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, vector.Vec[float64]{3, 4, 5}, vector.Clone[float64](h))
}

func TestHistoryLast(t *testing.T) {
	h := newHistory(10)
	for _, x := range []float64{1, 2, 3, 4} {
		h.push(x)
	}
	assert.Equal(t, vector.Vec[float64]{3, 4}, vector.Clone[float64](h.last(2)))
	assert.Equal(t, vector.Vec[float64]{1, 2, 3, 4}, vector.Clone[float64](h.last(9)))
	assert.Equal(t, 0, h.last(0).Len())
	assert.Equal(t, 0, h.last(-1).Len())

	// A tail keeps following the history it views.
	w := h.last(2)
	h.push(5)
	assert.Equal(t, 3, w.Len())
}
