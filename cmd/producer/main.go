// Command producer writes synthetic feature messages to Kafka for exercising
// the monitor locally.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// FeatureMessage is the record the monitor consumes. Nil pointers encode
// as null and are recorded as missing.
type FeatureMessage struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	FeatureA  *float64  `json:"feature_a"`
	FeatureB  *float64  `json:"feature_b"`
	FeatureC  *float64  `json:"feature_c"`
}

var (
	broker   string
	topic    string
	interval time.Duration
	seed     int64
)

var rootCmd = &cobra.Command{
	Use:          "producer",
	Short:        "Write synthetic feature messages to Kafka",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return produce(ctx, logger)
	},
}

func main() {
	f := rootCmd.Flags()
	f.StringVar(&broker, "broker", "localhost:9092", "Kafka broker address")
	f.StringVar(&topic, "topic", "feature-stream", "topic to write to")
	f.DurationVar(&interval, "interval", time.Second, "delay between messages")
	f.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func produce(ctx context.Context, logger *zap.Logger) error {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(broker),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("Error closing Kafka writer", zap.Error(err))
		}
	}()
	logger.Info("Starting producer", zap.String("topic", topic), zap.String("broker", broker))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	rng := rand.New(rand.NewSource(seed))

	for {
		select {
		case <-ticker.C:
			payload, err := json.Marshal(sample(rng, time.Now()))
			if err != nil {
				logger.Error("Error marshalling message", zap.Error(err))
				continue
			}
			if err := writer.WriteMessages(ctx, kafka.Message{Value: payload}); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn("Error writing message", zap.Error(err))
				continue
			}
			logger.Debug("Produced message", zap.ByteString("payload", payload))

		case <-ctx.Done():
			logger.Info("Producer stopped.")
			return nil
		}
	}
}

// sample draws one message. feature_a is normal around 10 with rare
// outliers, feature_b uniform on [50, 60), feature_c follows feature_a.
func sample(rng *rand.Rand, now time.Time) FeatureMessage {
	msg := FeatureMessage{
		Timestamp: now,
		UserID:    fmt.Sprintf("user_%d", rng.Intn(1000)),
	}

	a := 10 + rng.NormFloat64()*2
	if rng.Float64() < 0.02 {
		a += rng.Float64() * 30
	}
	if rng.Float64() > 0.1 {
		msg.FeatureA = &a
	}
	if rng.Float64() > 0.05 {
		b := 50 + rng.Float64()*10
		msg.FeatureB = &b
	}
	if rng.Float64() > 0.15 {
		c := 0.5*a + rng.NormFloat64()
		msg.FeatureC = &c
	}
	return msg
}
