package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog"

	"github.com/example/inquiry-intake/internal/models"
)

// SNSClient captures the subset of the SNS API used by the publisher,
// keeping the real client substitutable in tests.
type SNSClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher broadcasts submissions to an SNS topic as single JSON
// messages.
type SNSPublisher struct {
	logger   zerolog.Logger
	client   SNSClient
	topicARN string
}

// NewSNSPublisher constructs an SNSPublisher targeting the given topic.
func NewSNSPublisher(client SNSClient, topicARN string, logger zerolog.Logger) (*SNSPublisher, error) {
	if client == nil {
		return nil, errors.New("sns publisher: client dependency is required")
	}
	topicARN = strings.TrimSpace(topicARN)
	if topicARN == "" {
		return nil, errors.New("sns publisher: topic arn is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	return &SNSPublisher{
		logger:   logger,
		client:   client,
		topicARN: topicARN,
	}, nil
}

// Publish broadcasts the serialized submission under the given subject line
// and returns the SNS message id.
func (p *SNSPublisher) Publish(ctx context.Context, subject string, sub models.Submission) (string, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("sns publisher: marshal submission: %w", err)
	}

	out, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(string(payload)),
	})
	if err != nil {
		return "", fmt.Errorf("sns publisher: publish: %w", err)
	}

	ref := aws.ToString(out.MessageId)
	p.logger.Debug().
		Str("submission_id", sub.SubmissionID).
		Str("message_ref", ref).
		Msg("submission broadcast")
	return ref, nil
}
