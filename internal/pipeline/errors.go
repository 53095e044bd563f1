package pipeline

import "errors"

var (
	ErrInvalidKafkaConfig     = errors.New("incomplete kafka configuration")
	ErrConsumerCreationFailed = errors.New("failed to create consumer")

	// Stage failures wrap the stage's own error.
	ErrKafkaFetchFailed    = errors.New("kafka fetch failed")
	ErrConsumerRunFailed   = errors.New("consumer stage failed")
	ErrCalculatorRunFailed = errors.New("calculator stage failed")
	ErrAlerterRunFailed    = errors.New("alerter stage failed")
)
