package pipeline

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/vecstat/internal/config"
	"github.com/sanspareilsmyn/vecstat/internal/message"
	"github.com/sanspareilsmyn/vecstat/internal/stats"
	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

var nan = math.NaN()

const timestampField = "timestamp"

// Calculator appends every message to per-feature histories and, on each
// tick, runs the configured rolling statistics over the newest window.
// All state is owned by the Run goroutine.
type Calculator struct {
	config   config.PipelineConfig
	features []config.FeatureConfig
	input    <-chan message.DynamicMessage
	output   chan<- AggregationResult
	logger   *zap.Logger
	opts     []stats.Option

	histories map[string]*history
	received  int
	lastEvent time.Time
}

// NewCalculator creates a Calculator. features must already be validated.
func NewCalculator(cfg config.PipelineConfig, features []config.FeatureConfig, input <-chan message.DynamicMessage, output chan<- AggregationResult, logger *zap.Logger) *Calculator {
	c := &Calculator{
		config:    cfg,
		features:  features,
		input:     input,
		output:    output,
		logger:    logger,
		histories: make(map[string]*history, len(features)),
	}
	if cfg.MinPeriods != nil {
		c.opts = append(c.opts, stats.WithMinPeriods(*cfg.MinPeriods))
	}
	for _, f := range features {
		c.histories[f.Name] = newHistory(cfg.History)
	}
	logger.Info("Calculator initialized",
		zap.Duration("tick_interval", cfg.TickInterval),
		zap.Int("window", cfg.Window),
		zap.Int("history", cfg.History),
		zap.Int("configured_features", len(features)),
	)
	return c
}

// Run consumes messages until the input closes or ctx is done, flushing on
// every tick and once more on the way out.
func (c *Calculator) Run(ctx context.Context) error {
	sugar := c.logger.Sugar()
	sugar.Info("Starting calculator loop...")
	defer sugar.Info("Calculator loop stopped.")

	ticker := time.NewTicker(c.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.input:
			if !ok {
				sugar.Info("Calculator input channel closed. Flushing...")
				c.flush(time.Now())
				return nil
			}
			c.processMessage(msg)

		case tick := <-ticker.C:
			sugar.Debugw("Ticker fired", zap.Time("tick_time", tick))
			c.flush(tick)

		case <-ctx.Done():
			sugar.Info("Context cancelled, stopping calculator. Flushing...")
			c.flush(time.Now())
			return ctx.Err()
		}
	}
}

// processMessage pushes one value per feature, NaN when the field is
// absent, null or not numeric, so histories stay aligned message by message.
func (c *Calculator) processMessage(msg message.DynamicMessage) {
	for _, f := range c.features {
		x, err := msg.Float64(f.Name)
		if err != nil {
			c.logger.Warn("Non-numeric value recorded as missing",
				zap.String("feature_name", f.Name),
				zap.String("value_snippet", msg.FieldSnippet(f.Name, 50)),
				zap.Error(err),
			)
		}
		c.histories[f.Name].push(x)
	}
	if t, ok := msg.Time(timestampField); ok && t.After(c.lastEvent) {
		c.lastEvent = t
	}
	c.received++
}

// flush emits one result per feature if anything arrived since the last one.
func (c *Calculator) flush(tick time.Time) {
	if c.received == 0 {
		return
	}
	received := c.received
	c.received = 0

	for _, f := range c.features {
		result := c.aggregate(f, tick)
		result.Received = received

		select {
		case c.output <- result:
			c.logger.Debug("Sent aggregation result", zap.String("feature_name", f.Name), zap.Time("tick", tick))
		default:
			c.logger.Warn("Calculator output channel full, dropping result",
				zap.String("feature_name", f.Name),
				zap.Time("tick", tick),
			)
		}
	}
}

func (c *Calculator) aggregate(f config.FeatureConfig, tick time.Time) AggregationResult {
	h := c.histories[f.Name]
	result := AggregationResult{
		FeatureName: f.Name,
		Tick:        tick,
		LastEvent:   c.lastEvent,
		Count:       h.Len(),
		NullCount:   vector.NoneCount[float64](h),
		Values:      make(map[string]float64, len(f.Stats)),
	}

	// Every rolling statistic depends only on the newest window, so the
	// rest of the history is never scanned.
	w := h.last(c.config.Window)
	for _, name := range f.Stats {
		v, err := c.evaluate(name, w, f.With)
		if err != nil {
			c.logger.Warn("Statistic failed",
				zap.String("feature_name", f.Name),
				zap.String("stat", name),
				zap.Error(err),
			)
			continue
		}
		result.Values[name] = v
	}
	return result
}

// evaluate returns the newest output of stat name over w.
func (c *Calculator) evaluate(name string, w vector.View[float64], with string) (float64, error) {
	var (
		out vector.Vec[float64]
		err error
	)
	if stats.IsPair(name) {
		var f stats.PairFunc
		if f, err = stats.LookupPair(name); err != nil {
			return nan, err
		}
		out, err = f(w, c.histories[with].last(c.config.Window), c.config.Window, c.opts...)
	} else {
		var f stats.Func
		if f, err = stats.Lookup(name); err != nil {
			return nan, err
		}
		out, err = f(w, c.config.Window, c.opts...)
	}
	if err != nil {
		return nan, err
	}
	if len(out) == 0 {
		return nan, nil
	}
	return out[len(out)-1], nil
}
