package factory

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog"

	"github.com/example/inquiry-intake/internal/broadcast"
	"github.com/example/inquiry-intake/internal/config"
	"github.com/example/inquiry-intake/internal/email"
	"github.com/example/inquiry-intake/internal/intake"
	"github.com/example/inquiry-intake/internal/queue"
	"github.com/example/inquiry-intake/internal/store"
)

// Channels assembles the dispatch channel set from configuration. Channels
// without configuration are left nil so the dispatcher skips them; the email
// sender is left nil when no sender identity is configured, which the
// dispatcher surfaces as a configuration error at dispatch time.
func Channels(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (intake.Channels, error) {
	channels := intake.Channels{
		OwnerAddress:    cfg.Intake.OwnerEmail,
		BusinessAddress: cfg.Intake.BusinessEmail,
	}

	var awsCfg aws.Config
	if needsAWS(cfg) {
		loaded, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
		if err != nil {
			return intake.Channels{}, fmt.Errorf("factory: load aws config: %w", err)
		}
		awsCfg = loaded
	}

	sender, err := emailSender(cfg, awsCfg, logger)
	if err != nil {
		return intake.Channels{}, err
	}
	channels.Email = sender

	q, err := queueProvider(cfg, awsCfg, logger)
	if err != nil {
		return intake.Channels{}, err
	}
	channels.Queue = q

	if cfg.Store.DynamoTable != "" {
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.AWS.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
			}
		})
		st, err := store.NewDynamoStore(client, cfg.Store.DynamoTable, logger.With().Str("component", "store").Logger())
		if err != nil {
			return intake.Channels{}, fmt.Errorf("factory: dynamo store init: %w", err)
		}
		channels.Store = st
		logger.Info().Str("table", cfg.Store.DynamoTable).Msg("durable store initialised")
	}

	if cfg.Broadcast.SNSTopicARN != "" {
		client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
			if cfg.AWS.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
			}
		})
		pub, err := broadcast.NewSNSPublisher(client, cfg.Broadcast.SNSTopicARN, logger.With().Str("component", "broadcast").Logger())
		if err != nil {
			return intake.Channels{}, fmt.Errorf("factory: sns publisher init: %w", err)
		}
		channels.Broadcast = pub
		logger.Info().Str("topic", cfg.Broadcast.SNSTopicARN).Msg("broadcast publisher initialised")
	}

	return channels, nil
}

func emailSender(cfg *config.Config, awsCfg aws.Config, logger zerolog.Logger) (email.Sender, error) {
	if cfg.Intake.SourceEmail == "" {
		logger.Warn().Msg("no sender identity configured; notify operations will fail")
		return nil, nil
	}

	emailLogger := logger.With().Str("component", "email").Logger()

	switch normalize(cfg.Email.Provider, "ses") {
	case "ses":
		client := sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
			if cfg.AWS.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
			}
		})
		sender, err := email.NewSESProvider(client, cfg.Intake.SourceEmail, emailLogger,
			email.WithConfigurationSet(cfg.Email.ConfigurationSet))
		if err != nil {
			return nil, fmt.Errorf("factory: ses provider init: %w", err)
		}
		logger.Info().Str("backend", "ses").Msg("email provider initialised")
		return sender, nil
	case "mock":
		logger.Info().Str("backend", "mock").Msg("email provider initialised")
		return email.NewMockSender(emailLogger), nil
	default:
		return nil, fmt.Errorf("factory: unsupported email provider backend %q", cfg.Email.Provider)
	}
}

func queueProvider(cfg *config.Config, awsCfg aws.Config, logger zerolog.Logger) (intake.Queue, error) {
	queueLogger := logger.With().Str("component", "queue").Logger()

	switch normalize(cfg.Queue.Provider, "") {
	case "":
		return nil, nil
	case "kafka":
		q, err := queue.NewKafkaQueue(cfg.Queue.KafkaBrokers, cfg.Queue.KafkaTopic, queueLogger)
		if err != nil {
			return nil, fmt.Errorf("factory: kafka queue init: %w", err)
		}
		logger.Info().Str("backend", "kafka").Str("topic", cfg.Queue.KafkaTopic).Msg("queue initialised")
		return q, nil
	case "sqs":
		client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
			if cfg.AWS.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
			}
		})
		q, err := queue.NewSQSQueue(client, cfg.Queue.SQSQueueURL, queueLogger)
		if err != nil {
			return nil, fmt.Errorf("factory: sqs queue init: %w", err)
		}
		logger.Info().Str("backend", "sqs").Msg("queue initialised")
		return q, nil
	default:
		return nil, fmt.Errorf("factory: unsupported queue backend %q", cfg.Queue.Provider)
	}
}

func needsAWS(cfg *config.Config) bool {
	if cfg.Intake.SourceEmail != "" && normalize(cfg.Email.Provider, "ses") == "ses" {
		return true
	}
	if normalize(cfg.Queue.Provider, "") == "sqs" {
		return true
	}
	return cfg.Store.DynamoTable != "" || cfg.Broadcast.SNSTopicARN != ""
}

func normalize(value, def string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return def
	}
	return value
}
