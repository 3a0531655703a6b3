package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/example/inquiry-intake/internal/models"
)

// KafkaOption customises the Kafka queue during construction.
type KafkaOption func(*kafkaOptions)

type kafkaOptions struct {
	config *sarama.Config
}

// WithKafkaConfig allows callers to supply a preconfigured Sarama config. The
// top-level struct is copied before use, but nested reference fields (such as
// the metric registry) remain shared with the caller.
func WithKafkaConfig(cfg *sarama.Config) KafkaOption {
	return func(o *kafkaOptions) {
		if cfg != nil {
			o.config = cfg
		}
	}
}

// KafkaProducer captures the subset of Sarama producer behaviour required by
// the queue, keeping the real producer substitutable in tests.
type KafkaProducer interface {
	SendMessage(msg *sarama.ProducerMessage) (partition int32, offset int64, err error)
	Close() error
}

// KafkaQueue enqueues submissions on a Kafka topic through a Sarama sync
// producer. The submission id is used as the partition key so replays of the
// same submission land on the same partition.
type KafkaQueue struct {
	logger   zerolog.Logger
	producer KafkaProducer
	topic    string
}

// NewKafkaQueue constructs a KafkaQueue using the supplied broker list.
func NewKafkaQueue(brokers []string, topic string, logger zerolog.Logger, opts ...KafkaOption) (*KafkaQueue, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka queue: at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("kafka queue: topic is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	settings := &kafkaOptions{config: defaultKafkaConfig()}
	for _, opt := range opts {
		if opt != nil {
			opt(settings)
		}
	}

	producer, err := sarama.NewSyncProducer(brokers, cloneKafkaConfig(settings.config))
	if err != nil {
		return nil, fmt.Errorf("kafka queue: create producer: %w", err)
	}

	return &KafkaQueue{
		logger:   logger,
		producer: producer,
		topic:    topic,
	}, nil
}

// NewKafkaQueueFromProducer wires an existing sync producer, used by tests.
func NewKafkaQueueFromProducer(producer KafkaProducer, topic string, logger zerolog.Logger) (*KafkaQueue, error) {
	if producer == nil {
		return nil, errors.New("kafka queue: producer dependency is required")
	}
	if topic == "" {
		return nil, errors.New("kafka queue: topic is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &KafkaQueue{logger: logger, producer: producer, topic: topic}, nil
}

// Enqueue publishes the serialized submission and waits for broker
// acknowledgement. The returned reference encodes the assigned partition and
// offset.
func (q *KafkaQueue) Enqueue(_ context.Context, sub models.Submission) (string, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("kafka queue: marshal submission: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: q.topic,
		Key:   sarama.StringEncoder(sub.SubmissionID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("content-type"), Value: []byte("application/json")},
		},
	}

	partition, offset, err := q.producer.SendMessage(msg)
	if err != nil {
		return "", fmt.Errorf("kafka queue: send message: %w", err)
	}

	ref := fmt.Sprintf("%d-%d", partition, offset)
	q.logger.Debug().
		Str("submission_id", sub.SubmissionID).
		Str("message_ref", ref).
		Msg("submission enqueued")
	return ref, nil
}

// Close releases the underlying Sarama producer.
func (q *KafkaQueue) Close() error {
	return q.producer.Close()
}

func defaultKafkaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_5_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 6
	cfg.Producer.Retry.Backoff = 250 * time.Millisecond
	cfg.Producer.Return.Errors = true
	cfg.Producer.Return.Successes = true
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	return cfg
}

func cloneKafkaConfig(cfg *sarama.Config) *sarama.Config {
	if cfg == nil {
		return defaultKafkaConfig()
	}
	cloned := *cfg
	return &cloned
}
