package pipeline

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/vecstat/internal/config"
	"github.com/sanspareilsmyn/vecstat/internal/message"
)

func testFeatures() []config.FeatureConfig {
	return []config.FeatureConfig{
		{Name: "a", Stats: []string{"ts_vmean", "ts_vcorr", "ts_vsum"}, With: "b"},
		{Name: "b", Stats: []string{"ts_vmax"}},
	}
}

func newTestCalculator(input <-chan message.DynamicMessage, output chan<- AggregationResult) *Calculator {
	cfg := config.PipelineConfig{TickInterval: time.Hour, Window: 3, History: 5}
	return NewCalculator(cfg, testFeatures(), input, output, zap.NewNop())
}

func TestCalculatorAggregate(t *testing.T) {
	c := newTestCalculator(nil, nil)
	msgs := []message.DynamicMessage{
		{"a": 1.0, "b": 2.0, "timestamp": "2024-03-01T12:00:00Z"},
		{"a": 2.0, "b": 4.0, "timestamp": "2024-03-01T12:00:02Z"},
		{"a": nil, "b": 6.0, "timestamp": "2024-03-01T12:00:01Z"},
		{"a": 4.0, "b": 8.0},
		{"a": 5.0, "b": 10.0},
	}
	for _, m := range msgs {
		c.processMessage(m)
	}
	assert.Equal(t, 5, c.received)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 2, 0, time.UTC), c.lastEvent.UTC())

	tick := time.Now()
	a := c.aggregate(testFeatures()[0], tick)
	assert.Equal(t, "a", a.FeatureName)
	assert.Equal(t, 5, a.Count)
	assert.Equal(t, 1, a.NullCount)
	assert.InDelta(t, 0.2, a.NullRate(), 1e-12)
	assert.Equal(t, 4.5, a.Values["ts_vmean"])
	assert.Equal(t, 9.0, a.Values["ts_vsum"])
	assert.InDelta(t, 1, a.Values["ts_vcorr"], 1e-9)

	b := c.aggregate(testFeatures()[1], tick)
	assert.Equal(t, 10.0, b.Values["ts_vmax"])
	assert.Equal(t, 0, b.NullCount)
}

func TestCalculatorNonNumericIsMissing(t *testing.T) {
	c := newTestCalculator(nil, nil)
	c.processMessage(message.DynamicMessage{"a": "high", "b": 1.0})
	c.processMessage(message.DynamicMessage{"b": 2.0})

	r := c.aggregate(testFeatures()[0], time.Now())
	assert.Equal(t, 2, r.Count)
	assert.Equal(t, 2, r.NullCount)
	assert.True(t, math.IsNaN(r.Values["ts_vmean"]))
	assert.True(t, math.IsNaN(r.Values["ts_vcorr"]))
	assert.True(t, math.IsNaN(r.Values["ts_vsum"]))
}

func TestCalculatorMinPeriods(t *testing.T) {
	mp := 3
	cfg := config.PipelineConfig{TickInterval: time.Hour, Window: 3, MinPeriods: &mp, History: 5}
	c := NewCalculator(cfg, testFeatures(), nil, nil, zap.NewNop())
	for _, x := range []any{1.0, nil, 3.0, 5.0} {
		c.processMessage(message.DynamicMessage{"a": x, "b": 1.0})
	}
	r := c.aggregate(testFeatures()[0], time.Now())
	assert.True(t, math.IsNaN(r.Values["ts_vmean"]), "two valid values in a window of three")

	c.processMessage(message.DynamicMessage{"a": 7.0, "b": 1.0})
	r = c.aggregate(testFeatures()[0], time.Now())
	assert.Equal(t, 5.0, r.Values["ts_vmean"])
}

func TestCalculatorFlush(t *testing.T) {
	output := make(chan AggregationResult, 1)
	c := newTestCalculator(nil, output)

	c.flush(time.Now())
	assert.Empty(t, output, "nothing received, nothing sent")

	c.processMessage(message.DynamicMessage{"a": 1.0, "b": 2.0})
	c.flush(time.Now())
	require.Len(t, output, 1, "second result dropped on a full channel")
	r := <-output
	assert.Equal(t, "a", r.FeatureName)
	assert.Equal(t, 1, r.Received)
	assert.Equal(t, 0, c.received)
}

func TestCalculatorRunFlushesOnClose(t *testing.T) {
	input := make(chan message.DynamicMessage, 2)
	output := make(chan AggregationResult, 2)
	c := newTestCalculator(input, output)

	input <- message.DynamicMessage{"a": 1.0, "b": 3.0}
	input <- message.DynamicMessage{"a": 3.0, "b": 5.0}
	close(input)

	require.NoError(t, c.Run(context.Background()))
	require.Len(t, output, 2)
	a, b := <-output, <-output
	assert.Equal(t, 2.0, a.Values["ts_vmean"])
	assert.Equal(t, 2, a.Received)
	assert.Equal(t, 5.0, b.Values["ts_vmax"])
}

func TestCalculatorRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := newTestCalculator(make(chan message.DynamicMessage), make(chan AggregationResult, 2))
	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
}
