package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config captures all runtime configuration for the inquiry intake service.
// Channel settings are optional by design: an empty value disables the
// channel rather than failing startup, mirroring the dispatch contract.
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Intake    IntakeConfig
	Email     EmailConfig
	Queue     QueueConfig
	Store     StoreConfig
	Broadcast BroadcastConfig
	AWS       AWSConfig
}

// AppConfig contains generic application level settings.
type AppConfig struct {
	Env      string
	LogLevel string
}

// ServerConfig holds the HTTP front end settings.
type ServerConfig struct {
	Port int
}

// IntakeConfig controls the submission pipeline itself.
type IntakeConfig struct {
	// BrandName appears in notification subjects and headings.
	BrandName string
	// SourceEmail is the sender identity. When empty, notify operations
	// fail at dispatch time with a configuration error.
	SourceEmail string
	// OwnerEmail receives the owner notification; defaults to SourceEmail.
	OwnerEmail string
	// BusinessEmail receives a copy of the owner notification when set and
	// different from OwnerEmail.
	BusinessEmail string
	// FailureMode is "fatal" (default) or "report".
	FailureMode string
}

// EmailConfig selects and tunes the email provider.
type EmailConfig struct {
	// Provider is "ses" (default) or "mock".
	Provider         string
	ConfigurationSet string
}

// QueueConfig selects and tunes the enqueue channel. An empty provider
// disables the channel.
type QueueConfig struct {
	// Provider is "kafka", "sqs" or empty.
	Provider     string
	KafkaBrokers []string
	KafkaTopic   string
	SQSQueueURL  string
}

// StoreConfig tunes the durable store channel. An empty table disables it.
type StoreConfig struct {
	DynamoTable string
}

// BroadcastConfig tunes the pub/sub channel. An empty topic disables it.
type BroadcastConfig struct {
	SNSTopicARN string
}

// AWSConfig holds the shared AWS client settings.
type AWSConfig struct {
	Region string
	// Endpoint overrides the AWS endpoint for local stacks; empty in
	// production.
	Endpoint string
}

// Load reads configuration from the environment, after loading a .env file
// when present. All validation problems are reported together.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}
	cfg := &Config{}

	cfg.App.Env = ldr.getString("APP_ENV", "development", false)
	cfg.App.LogLevel = ldr.getString("LOG_LEVEL", "info", false)

	cfg.Server.Port = ldr.getInt("HTTP_PORT", 8080, false)

	cfg.Intake.BrandName = ldr.getString("INTAKE_BRAND_NAME", "TravelEase", false)
	cfg.Intake.SourceEmail = ldr.getString("INTAKE_SOURCE_EMAIL", "", false)
	cfg.Intake.OwnerEmail = ldr.getString("INTAKE_OWNER_EMAIL", cfg.Intake.SourceEmail, false)
	cfg.Intake.BusinessEmail = ldr.getString("INTAKE_BUSINESS_EMAIL", "", false)
	cfg.Intake.FailureMode = ldr.getString("INTAKE_FAILURE_MODE", "fatal", false)

	cfg.Email.Provider = ldr.getString("EMAIL_PROVIDER", "ses", false)
	cfg.Email.ConfigurationSet = ldr.getString("SES_CONFIGURATION_SET", "", false)

	cfg.Queue.Provider = ldr.getString("QUEUE_PROVIDER", "", false)
	cfg.Queue.KafkaBrokers = ldr.getStringSlice("KAFKA_BROKERS", false)
	cfg.Queue.KafkaTopic = ldr.getString("KAFKA_TOPIC", "", false)
	cfg.Queue.SQSQueueURL = ldr.getString("SQS_QUEUE_URL", "", false)

	cfg.Store.DynamoTable = ldr.getString("DYNAMO_TABLE", "", false)

	cfg.Broadcast.SNSTopicARN = ldr.getString("SNS_TOPIC_ARN", "", false)

	cfg.AWS.Region = ldr.getString("AWS_REGION", "us-east-1", false)
	cfg.AWS.Endpoint = ldr.getString("AWS_ENDPOINT", "", false)

	switch cfg.Intake.FailureMode {
	case "fatal", "report":
	default:
		ldr.addError(fmt.Sprintf("INTAKE_FAILURE_MODE must be fatal or report, got %q", cfg.Intake.FailureMode))
	}

	switch cfg.Email.Provider {
	case "ses", "mock":
	default:
		ldr.addError(fmt.Sprintf("EMAIL_PROVIDER must be ses or mock, got %q", cfg.Email.Provider))
	}

	switch cfg.Queue.Provider {
	case "":
	case "kafka":
		if len(cfg.Queue.KafkaBrokers) == 0 {
			ldr.addError("KAFKA_BROKERS is required when QUEUE_PROVIDER is kafka")
		}
		if cfg.Queue.KafkaTopic == "" {
			ldr.addError("KAFKA_TOPIC is required when QUEUE_PROVIDER is kafka")
		}
	case "sqs":
		if cfg.Queue.SQSQueueURL == "" {
			ldr.addError("SQS_QUEUE_URL is required when QUEUE_PROVIDER is sqs")
		}
	default:
		ldr.addError(fmt.Sprintf("QUEUE_PROVIDER must be kafka, sqs or empty, got %q", cfg.Queue.Provider))
	}

	if err := ldr.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) getString(key, def string, required bool) string {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		return val
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getInt(key string, def int, required bool) int {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			l.addError(fmt.Sprintf("%s must be a valid integer", key))
			return def
		}
		return i
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getStringSlice(key string, required bool) []string {
	raw := l.getString(key, "", required)
	if raw == "" {
		if required {
			return nil
		}
		return []string{}
	}
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if required && len(out) == 0 {
		l.addError(fmt.Sprintf("%s must contain at least one entry", key))
	}
	return out
}

func (l *envLoader) addError(err string) {
	l.errs = append(l.errs, err)
}
