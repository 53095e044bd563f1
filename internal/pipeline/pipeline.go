// Package pipeline runs the streaming feature monitor: Kafka messages are
// parsed, appended to per-feature histories, summarized with rolling
// statistics on every tick and exported as Prometheus metrics.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/vecstat/internal/config"
	"github.com/sanspareilsmyn/vecstat/internal/message"
)

const channelBufferSize = 100

// Pipeline wires consumer, parser, calculator and alerter together.
type Pipeline struct {
	consumer   *Consumer
	calculator *Calculator
	alerter    *Alerter
	logger     *zap.Logger

	rawMessages    chan []byte
	parsedMessages chan message.DynamicMessage
	aggResults     chan AggregationResult
}

// New creates a pipeline reading from the configured Kafka topic.
func New(cfg *config.Config, logger *zap.Logger) (*Pipeline, error) {
	rawMessages := make(chan []byte, channelBufferSize)
	consumer, err := NewConsumer(cfg.Kafka, rawMessages, logger.Named("consumer"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConsumerCreationFailed, err)
	}
	return assemble(cfg, consumer, rawMessages, logger), nil
}

func assemble(cfg *config.Config, consumer *Consumer, rawMessages chan []byte, logger *zap.Logger) *Pipeline {
	parsedMessages := make(chan message.DynamicMessage, channelBufferSize)
	aggResults := make(chan AggregationResult, channelBufferSize)

	p := &Pipeline{
		consumer:       consumer,
		calculator:     NewCalculator(cfg.Pipeline, cfg.Features, parsedMessages, aggResults, logger.Named("calculator")),
		alerter:        NewAlerter(cfg.Features, aggResults, logger.Named("alerter")),
		logger:         logger.Named("pipeline"),
		rawMessages:    rawMessages,
		parsedMessages: parsedMessages,
		aggResults:     aggResults,
	}
	p.logger.Info("Pipeline created", zap.Int("buffer_size", channelBufferSize))
	return p
}

// Run starts every stage and blocks until ctx is cancelled or a stage fails.
// The first stage error is returned; cancellation is not an error.
func (p *Pipeline) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	errCh := make(chan error, 3)

	wg.Add(4)
	go p.runConsumer(ctx, &wg, errCh)
	go p.runParser(ctx, &wg)
	go p.runCalculator(ctx, &wg, errCh)
	go p.runAlerter(ctx, &wg, errCh)

	// Stages also stop on their own once their input closes, so watch for
	// completion as well as errors.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var firstErr error
	select {
	case <-ctx.Done():
		p.logger.Info("Context cancelled. Waiting for stages to finish...")
	case err := <-errCh:
		p.logger.Error("Stage failed, waiting for the rest to finish...", zap.Error(err))
		firstErr = err
	case <-done:
	}
	<-done
	p.logger.Info("All stages finished.")

	if firstErr == nil {
		select {
		case firstErr = <-errCh:
		default:
		}
	}
	return firstErr
}

func (p *Pipeline) runConsumer(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()
	defer close(p.rawMessages)

	if err := p.consumer.Run(ctx); err != nil && !stopped(err) {
		errCh <- fmt.Errorf("%w: %w", ErrConsumerRunFailed, err)
	}
}

func (p *Pipeline) runParser(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	defer close(p.parsedMessages)

	logger := p.logger.Named("parser")
	for {
		select {
		case raw, ok := <-p.rawMessages:
			if !ok {
				logger.Debug("Raw message channel closed, parser done.")
				return
			}
			msg, err := message.ParseDynamicJSON(raw)
			if err != nil {
				logger.Warn("Failed to parse message, skipping", zap.Error(err))
				continue
			}
			select {
			case p.parsedMessages <- msg:
			case <-ctx.Done():
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (p *Pipeline) runCalculator(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()
	defer close(p.aggResults)

	if err := p.calculator.Run(ctx); err != nil && !stopped(err) {
		errCh <- fmt.Errorf("%w: %w", ErrCalculatorRunFailed, err)
	}
}

func (p *Pipeline) runAlerter(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()

	if err := p.alerter.Run(ctx); err != nil && !stopped(err) {
		errCh <- fmt.Errorf("%w: %w", ErrAlerterRunFailed, err)
	}
}

// stopped reports whether err only signals cancellation.
func stopped(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
