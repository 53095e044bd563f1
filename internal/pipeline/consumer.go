package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/vecstat/internal/config"
)

// kafkaLogger routes kafka-go's printf logging into zap.
type kafkaLogger struct {
	log     *zap.Logger
	asError bool
}

func (l kafkaLogger) Printf(msg string, args ...any) {
	if l.asError {
		l.log.Error(fmt.Sprintf(msg, args...))
		return
	}
	l.log.Debug(fmt.Sprintf(msg, args...))
}

// fetcher is the part of *kafka.Reader the consumer uses.
type fetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer forwards raw message values from a Kafka topic.
type Consumer struct {
	reader fetcher
	output chan<- []byte
	logger *zap.Logger
}

// NewConsumer creates a consumer group reader for cfg.
func NewConsumer(cfg config.KafkaConfig, output chan<- []byte, logger *zap.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" || cfg.GroupID == "" {
		logger.Error("Kafka configuration validation failed",
			zap.Strings("brokers", cfg.Brokers),
			zap.String("topic", cfg.Topic),
			zap.String("group_id", cfg.GroupID),
		)
		return nil, ErrInvalidKafkaConfig
	}

	readerCfg := kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		Logger:      kafkaLogger{log: logger.Named("kafka-reader")},
		ErrorLogger: kafkaLogger{log: logger.Named("kafka-reader"), asError: true},
	}
	logger.Info("Kafka consumer created",
		zap.String("topic", cfg.Topic),
		zap.String("group_id", cfg.GroupID),
		zap.Strings("brokers", cfg.Brokers),
	)
	return newConsumer(kafka.NewReader(readerCfg), output, logger), nil
}

func newConsumer(r fetcher, output chan<- []byte, logger *zap.Logger) *Consumer {
	return &Consumer{reader: r, output: output, logger: logger}
}

// Run forwards messages until ctx is done or a fetch fails. An offset is
// committed once its message is handed downstream; a failed commit is only
// logged, so the message may be seen again after a rebalance. Run closes the
// reader before returning.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("Starting Kafka consumer loop...")
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.logger.Error("Failed to close Kafka reader cleanly", zap.Error(err))
		}
		c.logger.Info("Kafka consumer loop stopped.")
	}()

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Debug("Context done, stopping consumer fetch loop.", zap.Error(err))
				return context.Canceled
			}
			c.logger.Error("Error fetching message from Kafka", zap.Error(err))
			return fmt.Errorf("%w: %w", ErrKafkaFetchFailed, err)
		}

		select {
		case c.output <- m.Value:
		case <-ctx.Done():
			c.logger.Debug("Context cancelled while sending message downstream.", zap.Error(ctx.Err()))
			return context.Canceled
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Warn("Failed to commit offset",
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Error(err),
			)
		}
	}
}
