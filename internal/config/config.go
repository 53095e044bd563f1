package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sanspareilsmyn/vecstat/internal/stats"
)

const (
	defaultKafkaGroupID         = "vecstat-default-group"
	defaultPipelineTickInterval = 10 * time.Second
	defaultPipelineWindow       = 20
	defaultPipelineHistory      = 200
	defaultLogLevel             = "info"
	defaultLogFormat            = "console"
	defaultLogFileEnabled       = false
	defaultLogDirectory         = "log"
	defaultLogFilename          = "vecstat.log"
	defaultLogMaxSizeMB         = 100
	defaultLogMaxBackups        = 3
	defaultLogMaxAgeDays        = 7
	defaultLogCompress          = false
	defaultMetricsAddr          = ":2112"

	envPrefix = "VECSTAT"

	// NullRateKey names the threshold checked against the share of missing
	// values in a feature's history.
	NullRateKey = "null_rate"
)

type Config struct {
	Kafka    KafkaConfig     `mapstructure:"kafka"`
	Pipeline PipelineConfig  `mapstructure:"pipeline"`
	Features []FeatureConfig `mapstructure:"features"`
	Log      LogConfig       `mapstructure:"log"`
	Metrics  MetricsConfig   `mapstructure:"metrics"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"groupID"`
}

type PipelineConfig struct {
	TickInterval time.Duration `mapstructure:"tickInterval"`
	// Window is the rolling window length, in messages.
	Window int `mapstructure:"window"`
	// MinPeriods overrides the per-statistic default when set.
	MinPeriods *int `mapstructure:"minPeriods"`
	// History is how many values are kept per feature.
	History int `mapstructure:"history"`
}

type FeatureConfig struct {
	Name  string   `mapstructure:"name"`
	Stats []string `mapstructure:"stats"`
	// With names the second feature for two-input statistics.
	With string `mapstructure:"with"`
	// Thresholds is keyed by statistic name or NullRateKey.
	Thresholds map[string]Bound `mapstructure:"thresholds"`
}

type Bound struct {
	Min *float64 `mapstructure:"min"`
	Max *float64 `mapstructure:"max"`
}

type LogConfig struct {
	Level              string `mapstructure:"level"`
	Format             string `mapstructure:"format"`
	FileLoggingEnabled bool   `mapstructure:"fileLoggingEnabled"`
	Directory          string `mapstructure:"directory"`
	Filename           string `mapstructure:"filename"`
	MaxSize            int    `mapstructure:"maxSize"`    // MB
	MaxBackups         int    `mapstructure:"maxBackups"` // files
	MaxAge             int    `mapstructure:"maxAge"`     // days
	Compress           bool   `mapstructure:"compress"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configPath, applies defaults and VECSTAT_* overrides, and
// validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	configureViper(v, configPath)
	setDefaults(v)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("kafka.groupID", defaultKafkaGroupID)
	v.SetDefault("pipeline.tickInterval", defaultPipelineTickInterval)
	v.SetDefault("pipeline.window", defaultPipelineWindow)
	v.SetDefault("pipeline.history", defaultPipelineHistory)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", defaultLogFileEnabled)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", defaultLogCompress)
	v.SetDefault("metrics.addr", defaultMetricsAddr)
}

func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return ErrConfigFileMissing
		}
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if len(cfg.Kafka.Brokers) == 0 {
		return ErrEmptyKafkaBrokers
	}
	if cfg.Kafka.Topic == "" {
		return ErrEmptyKafkaTopic
	}
	if cfg.Kafka.GroupID == "" {
		return ErrEmptyKafkaGroupID
	}
	if err := validatePipeline(cfg.Pipeline); err != nil {
		return err
	}
	return validateFeatures(cfg.Features)
}

func validatePipeline(p PipelineConfig) error {
	if p.TickInterval <= 0 {
		return ErrInvalidTickInterval
	}
	if p.Window <= 0 {
		return ErrInvalidWindow
	}
	if p.History < p.Window {
		return fmt.Errorf("%w: history %d, window %d", ErrInvalidHistory, p.History, p.Window)
	}
	if p.MinPeriods != nil && (*p.MinPeriods < 0 || *p.MinPeriods > p.Window) {
		return fmt.Errorf("%w: %d", ErrInvalidMinPeriods, *p.MinPeriods)
	}
	return nil
}

func validateFeatures(features []FeatureConfig) error {
	if len(features) == 0 {
		return ErrNoFeatures
	}
	names := make(map[string]bool, len(features))
	for _, f := range features {
		if f.Name == "" {
			return ErrEmptyFeatureName
		}
		if names[f.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateFeature, f.Name)
		}
		names[f.Name] = true
	}

	for _, f := range features {
		configured := make(map[string]bool, len(f.Stats))
		for _, name := range f.Stats {
			if stats.IsPair(name) {
				if f.With == "" || !names[f.With] {
					return fmt.Errorf("%w: feature %q, stat %q, with %q", ErrPairWithoutPartner, f.Name, name, f.With)
				}
			} else if _, err := stats.Lookup(name); err != nil {
				return fmt.Errorf("feature %q: %w", f.Name, err)
			}
			configured[name] = true
		}
		for key, b := range f.Thresholds {
			if key != NullRateKey && !configured[key] {
				return fmt.Errorf("%w: feature %q, threshold %q", ErrThresholdWithoutStat, f.Name, key)
			}
			if b.Min != nil && b.Max != nil && *b.Min > *b.Max {
				return fmt.Errorf("%w: feature %q, threshold %q", ErrInvertedBound, f.Name, key)
			}
		}
	}
	return nil
}
