package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	featureHistoryCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vecstat_feature_history_count",
			Help: "Number of values currently held in a feature's history.",
		},
		[]string{"feature"},
	)
	featureNullCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vecstat_feature_null_count",
			Help: "Number of missing values in a feature's history.",
		},
		[]string{"feature"},
	)
	featureNullRate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vecstat_feature_null_rate",
			Help: "Share of missing values in a feature's history.",
		},
		[]string{"feature"},
	)
	featureStatValue = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vecstat_feature_stat_value",
			Help: "Newest rolling value of a statistic for a feature. Undefined values are not exported.",
		},
		[]string{"feature", "stat"},
	)
	featureThresholdViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vecstat_feature_threshold_violations_total",
			Help: "Threshold violations by feature, statistic and comparison (<, >).",
		},
		[]string{"feature", "stat", "comparison"},
	)
)
