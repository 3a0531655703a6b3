package intake

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/example/inquiry-intake/internal/email"
	"github.com/example/inquiry-intake/internal/models"
)

// Queue is the enqueue collaborator contract. Enqueue sends the submission
// as one message and returns the queue-assigned reference.
type Queue interface {
	Enqueue(ctx context.Context, sub models.Submission) (string, error)
}

// Store is the durable persistence contract. Put writes the submission as
// one record keyed by its id; no return value is consumed.
type Store interface {
	Put(ctx context.Context, sub models.Submission) error
}

// Broadcaster is the pub/sub contract. Publish broadcasts the submission
// under a subject line and returns the bus-assigned reference.
type Broadcaster interface {
	Publish(ctx context.Context, subject string, sub models.Submission) (string, error)
}

// FailureMode selects how the dispatcher treats a channel failure.
type FailureMode string

const (
	// FailFast aborts the dispatch on the first channel error; already
	// performed side effects are not undone. This is the default.
	FailFast FailureMode = "fatal"
	// ReportFailures records channel errors in the outcome set and keeps
	// dispatching; the request still succeeds.
	ReportFailures FailureMode = "report"
)

// ParseFailureMode maps a configuration string onto a FailureMode, defaulting
// to FailFast for empty input.
func ParseFailureMode(value string) (FailureMode, error) {
	switch FailureMode(value) {
	case "", FailFast:
		return FailFast, nil
	case ReportFailures:
		return ReportFailures, nil
	default:
		return "", fmt.Errorf("unknown failure mode %q", value)
	}
}

// Channels groups the configured collaborators for one dispatcher. A nil
// collaborator means the channel is skipped, except Email: notifications are
// always attempted, so a nil sender is a configuration error surfaced at
// dispatch time.
type Channels struct {
	Queue     Queue
	Store     Store
	Email     email.Sender
	Broadcast Broadcaster

	// OwnerAddress receives the owner notification. The factory falls back
	// to the sender identity when no distinct owner address is configured.
	OwnerAddress string
	// BusinessAddress receives a copy of the owner notification when set and
	// different from OwnerAddress.
	BusinessAddress string
}

// DispatcherOption customises the dispatcher at construction time.
type DispatcherOption func(*Dispatcher)

// WithFailureMode selects the channel failure policy.
func WithFailureMode(mode FailureMode) DispatcherOption {
	return func(d *Dispatcher) {
		if mode != "" {
			d.mode = mode
		}
	}
}

// Dispatcher fans one submission out across the configured channels in a
// fixed order: enqueue, persist, notify customer, notify owner, notify
// business, broadcast. Every channel receives the same submission value.
type Dispatcher struct {
	logger   zerolog.Logger
	channels Channels
	builder  *email.Builder
	mode     FailureMode
}

// NewDispatcher constructs a Dispatcher over the supplied channel set.
func NewDispatcher(channels Channels, builder *email.Builder, logger zerolog.Logger, opts ...DispatcherOption) (*Dispatcher, error) {
	if builder == nil {
		return nil, errors.New("dispatcher: email builder dependency is required")
	}
	if channels.Email != nil && channels.OwnerAddress == "" {
		return nil, errors.New("dispatcher: owner address is required when email is configured")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	d := &Dispatcher{
		logger:   logger,
		channels: channels,
		builder:  builder,
		mode:     FailFast,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	return d, nil
}

// Dispatch runs the channel operations and collects per-channel outcomes. In
// FailFast mode the first channel error aborts the dispatch and is returned;
// outcomes collected up to that point accompany it. A missing sender
// identity aborts in either mode.
func (d *Dispatcher) Dispatch(ctx context.Context, sub models.Submission) ([]models.Outcome, error) {
	log := d.logger.With().Str("submission_id", sub.SubmissionID).Logger()
	outcomes := make([]models.Outcome, 0, 6)

	record := func(ch models.Channel, ref string, err error) error {
		switch {
		case err != nil:
			outcomes = append(outcomes, models.Outcome{Channel: ch, Status: models.OutcomeFailed, Err: err})
			log.Error().Err(err).Str("channel", string(ch)).Msg("channel dispatch failed")
			if d.mode == FailFast {
				return err
			}
		default:
			outcomes = append(outcomes, models.Outcome{Channel: ch, Status: models.OutcomeSucceeded, Reference: ref})
			log.Debug().Str("channel", string(ch)).Str("reference", ref).Msg("channel dispatch succeeded")
		}
		return nil
	}
	skip := func(ch models.Channel) {
		outcomes = append(outcomes, models.Outcome{Channel: ch, Status: models.OutcomeSkipped})
		log.Debug().Str("channel", string(ch)).Msg("channel not configured, skipped")
	}

	// Enqueue.
	if d.channels.Queue == nil {
		skip(models.ChannelQueue)
	} else {
		ref, err := d.channels.Queue.Enqueue(ctx, sub)
		if err := record(models.ChannelQueue, ref, err); err != nil {
			return outcomes, err
		}
	}

	// Persist. Success is not surfaced in the response, but a failure is
	// still a channel failure.
	if d.channels.Store == nil {
		skip(models.ChannelStore)
	} else {
		err := d.channels.Store.Put(ctx, sub)
		if err := record(models.ChannelStore, "", err); err != nil {
			return outcomes, err
		}
	}

	// Notifications are always attempted; without a sender identity the
	// whole dispatch fails regardless of failure mode.
	if d.channels.Email == nil {
		return outcomes, ErrSenderNotConfigured
	}

	customerMsg := d.builder.Customer(sub)
	ref, err := d.channels.Email.Send(ctx, sub.Email, customerMsg)
	if err := record(models.ChannelCustomer, ref, err); err != nil {
		return outcomes, err
	}

	ownerMsg := d.builder.Owner(sub)
	ref, err = d.channels.Email.Send(ctx, d.channels.OwnerAddress, ownerMsg)
	if err := record(models.ChannelOwner, ref, err); err != nil {
		return outcomes, err
	}

	if d.channels.BusinessAddress == "" || d.channels.BusinessAddress == d.channels.OwnerAddress {
		skip(models.ChannelBusiness)
	} else {
		ref, err = d.channels.Email.Send(ctx, d.channels.BusinessAddress, ownerMsg)
		if err := record(models.ChannelBusiness, ref, err); err != nil {
			return outcomes, err
		}
	}

	// Broadcast.
	if d.channels.Broadcast == nil {
		skip(models.ChannelBroadcast)
	} else {
		subject := fmt.Sprintf("%s submission from %s", d.builder.Brand(), sub.Name)
		ref, err = d.channels.Broadcast.Publish(ctx, subject, sub)
		if err := record(models.ChannelBroadcast, ref, err); err != nil {
			return outcomes, err
		}
	}

	return outcomes, nil
}
