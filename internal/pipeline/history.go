package pipeline

import (
	"github.com/gammazero/deque"

	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

// history keeps the most recent values of one feature, oldest first. It is
// a vector.View, so statistics run over it without copying.
type history struct {
	values deque.Deque[float64]
	limit  int
}

var (
	_ vector.View[float64] = (*history)(nil)
	_ vector.View[float64] = tail{}
)

func newHistory(limit int) *history {
	return &history{limit: limit}
}

// push appends x, evicting the oldest value when full.
func (h *history) push(x float64) {
	if h.values.Len() == h.limit {
		h.values.PopFront()
	}
	h.values.PushBack(x)
}

func (h *history) Len() int { return h.values.Len() }

func (h *history) UncheckedGet(i int) float64 { return h.values.At(i) }

// last views the newest n values, or all of them when fewer are held.
func (h *history) last(n int) tail {
	n = min(max(n, 0), h.Len())
	return tail{h: h, off: h.Len() - n}
}

type tail struct {
	h   *history
	off int
}

func (t tail) Len() int { return t.h.Len() - t.off }

func (t tail) UncheckedGet(i int) float64 { return t.h.UncheckedGet(t.off + i) }
