package email

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog"
)

// SESOption customises the SES provider at construction time.
type SESOption func(*SESProvider)

// WithConfigurationSet attaches an SES configuration set to every send. An
// empty name leaves sends untagged.
func WithConfigurationSet(name string) SESOption {
	return func(p *SESProvider) {
		p.configurationSet = strings.TrimSpace(name)
	}
}

// SESClient captures the subset of the SESv2 API used by the provider,
// keeping the real client substitutable in tests.
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESProvider implements Sender on top of Amazon SESv2. Every message is sent
// from the configured sender identity with both text and HTML bodies.
type SESProvider struct {
	logger           zerolog.Logger
	client           SESClient
	from             string
	configurationSet string
}

// NewSESProvider constructs a Sender backed by SESv2. The sender identity is
// required; constructing without one is a configuration error.
func NewSESProvider(client SESClient, from string, logger zerolog.Logger, opts ...SESOption) (*SESProvider, error) {
	if client == nil {
		return nil, errors.New("ses provider: client dependency is required")
	}
	from = strings.TrimSpace(from)
	if from == "" {
		return nil, errors.New("ses provider: sender identity is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	p := &SESProvider{
		logger: logger,
		client: client,
		from:   from,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p, nil
}

// Send delivers the message to a single recipient and returns the SES
// message id.
func (p *SESProvider) Send(ctx context.Context, to string, msg Message) (string, error) {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(p.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Text)},
					Html: &types.Content{Data: aws.String(msg.HTML)},
				},
			},
		},
	}

	if p.configurationSet != "" {
		input.ConfigurationSetName = aws.String(p.configurationSet)
	}

	out, err := p.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("ses provider: send email: %w", err)
	}

	ref := aws.ToString(out.MessageId)
	p.logger.Debug().Str("recipient", to).Str("message_ref", ref).Msg("ses email sent")
	return ref, nil
}
