package config

import "errors"

var (
	ErrReadingConfigFile    = errors.New("failed to read config file")
	ErrUnmarshallingConfig  = errors.New("failed to unmarshal config")
	ErrConfigFileMissing    = errors.New("config file not found")
	ErrEmptyKafkaBrokers    = errors.New("kafka brokers list cannot be empty")
	ErrEmptyKafkaTopic      = errors.New("kafka topic cannot be empty")
	ErrEmptyKafkaGroupID    = errors.New("kafka groupID cannot be empty")
	ErrInvalidTickInterval  = errors.New("pipeline tickInterval must be positive")
	ErrInvalidWindow        = errors.New("pipeline window must be positive")
	ErrInvalidHistory       = errors.New("pipeline history must be at least the window")
	ErrInvalidMinPeriods    = errors.New("pipeline minPeriods must be within [0, window]")
	ErrNoFeatures           = errors.New("at least one feature must be configured")
	ErrEmptyFeatureName     = errors.New("feature name cannot be empty")
	ErrDuplicateFeature     = errors.New("feature configured twice")
	ErrPairWithoutPartner   = errors.New("two-input statistic needs 'with' naming a configured feature")
	ErrThresholdWithoutStat = errors.New("threshold set for a statistic the feature does not compute")
	ErrInvertedBound        = errors.New("threshold min is greater than max")
)
