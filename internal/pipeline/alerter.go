package pipeline

import (
	"context"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/vecstat/internal/config"
)

// Alerter exports aggregation results as Prometheus metrics and checks them
// against the configured bounds.
type Alerter struct {
	features map[string]config.FeatureConfig
	input    <-chan AggregationResult
	logger   *zap.Logger
}

func NewAlerter(features []config.FeatureConfig, input <-chan AggregationResult, logger *zap.Logger) *Alerter {
	featureMap := make(map[string]config.FeatureConfig, len(features))
	for _, f := range features {
		featureMap[f.Name] = f
	}
	logger.Debug("Alerter initialized", zap.Int("feature_count", len(featureMap)))

	return &Alerter{
		features: featureMap,
		input:    input,
		logger:   logger,
	}
}

func (a *Alerter) Run(ctx context.Context) error {
	sugar := a.logger.Sugar()
	sugar.Info("Starting alerter loop...")
	defer sugar.Info("Alerter loop stopped.")

	for {
		select {
		case result, ok := <-a.input:
			if !ok {
				sugar.Info("Alerter input channel closed.")
				return nil
			}
			a.processResult(result)

		case <-ctx.Done():
			sugar.Info("Context cancelled, stopping alerter.")
			return ctx.Err()
		}
	}
}

// processResult updates the gauges and returns the number of violations.
func (a *Alerter) processResult(result AggregationResult) int {
	name := result.FeatureName
	cfg, exists := a.features[name]
	if !exists {
		a.logger.Warn("Received result for unconfigured feature, skipping",
			zap.String("feature_name", name),
			zap.Time("tick", result.Tick),
		)
		return 0
	}

	nullRate := result.NullRate()
	featureHistoryCount.WithLabelValues(name).Set(float64(result.Count))
	featureNullCount.WithLabelValues(name).Set(float64(result.NullCount))
	if !math.IsNaN(nullRate) {
		featureNullRate.WithLabelValues(name).Set(nullRate)
	}

	for stat, v := range result.Values {
		if math.IsNaN(v) {
			// Undefined: drop the series instead of keeping the previous value.
			featureStatValue.DeleteLabelValues(name, stat)
			continue
		}
		featureStatValue.WithLabelValues(name, stat).Set(v)
	}

	violations := 0
	keys := make([]string, 0, len(cfg.Thresholds))
	for key := range cfg.Thresholds {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		actual := nullRate
		if key != config.NullRateKey {
			v, ok := result.Values[key]
			if !ok {
				continue
			}
			actual = v
		}
		violations += a.check(result, key, actual, cfg.Thresholds[key])
	}

	a.logStats(result, nullRate)
	return violations
}

// check compares actual with b. NaN never violates.
func (a *Alerter) check(result AggregationResult, stat string, actual float64, b config.Bound) int {
	if math.IsNaN(actual) {
		return 0
	}
	n := 0
	if b.Min != nil && actual < *b.Min {
		a.violation(result, stat, actual, *b.Min, "<")
		n++
	}
	if b.Max != nil && actual > *b.Max {
		a.violation(result, stat, actual, *b.Max, ">")
		n++
	}
	return n
}

func (a *Alerter) violation(result AggregationResult, stat string, actual, threshold float64, comparison string) {
	a.logger.Warn("Threshold violation",
		zap.String("feature_name", result.FeatureName),
		zap.String("stat", stat),
		zap.Time("tick", result.Tick),
		zap.Float64("actual", actual),
		zap.Float64("threshold", threshold),
		zap.String("comparison", comparison),
	)
	featureThresholdViolations.WithLabelValues(result.FeatureName, stat, comparison).Inc()
}

func (a *Alerter) logStats(result AggregationResult, nullRate float64) {
	fields := []zap.Field{
		zap.String("feature_name", result.FeatureName),
		zap.Time("tick", result.Tick),
		zap.Int("count", result.Count),
		zap.Int("received", result.Received),
	}
	if !result.LastEvent.IsZero() {
		fields = append(fields, zap.Time("last_event", result.LastEvent))
	}
	if !math.IsNaN(nullRate) {
		fields = append(fields, zap.Float64("null_rate", nullRate))
	}
	for stat, v := range result.Values {
		if !math.IsNaN(v) {
			fields = append(fields, zap.Float64(stat, v))
		}
	}
	a.logger.Info("Feature stats processed", fields...)
}
