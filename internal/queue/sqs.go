package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog"

	"github.com/example/inquiry-intake/internal/models"
)

// SQSClient captures the subset of the SQS API used by the queue, keeping the
// real client substitutable in tests.
type SQSClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSQueue enqueues submissions on an Amazon SQS queue as single JSON
// messages.
type SQSQueue struct {
	logger   zerolog.Logger
	client   SQSClient
	queueURL string
}

// NewSQSQueue constructs an SQSQueue targeting the given queue URL.
func NewSQSQueue(client SQSClient, queueURL string, logger zerolog.Logger) (*SQSQueue, error) {
	if client == nil {
		return nil, errors.New("sqs queue: client dependency is required")
	}
	queueURL = strings.TrimSpace(queueURL)
	if queueURL == "" {
		return nil, errors.New("sqs queue: queue url is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	return &SQSQueue{
		logger:   logger,
		client:   client,
		queueURL: queueURL,
	}, nil
}

// Enqueue sends the serialized submission and returns the SQS message id.
func (q *SQSQueue) Enqueue(ctx context.Context, sub models.Submission) (string, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("sqs queue: marshal submission: %w", err)
	}

	out, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(payload)),
	})
	if err != nil {
		return "", fmt.Errorf("sqs queue: send message: %w", err)
	}

	ref := aws.ToString(out.MessageId)
	q.logger.Debug().
		Str("submission_id", sub.SubmissionID).
		Str("message_ref", ref).
		Msg("submission enqueued")
	return ref, nil
}
