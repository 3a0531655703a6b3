package intake_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/inquiry-intake/internal/broadcast"
	"github.com/example/inquiry-intake/internal/email"
	"github.com/example/inquiry-intake/internal/intake"
	"github.com/example/inquiry-intake/internal/models"
	"github.com/example/inquiry-intake/internal/queue"
	"github.com/example/inquiry-intake/internal/store"
)

func testSubmission() models.Submission {
	return models.Submission{
		SubmissionID: "11111111-2222-4333-8444-555555555555",
		Name:         "A",
		Email:        "a@x.com",
		Phone:        "123",
		InquiryType:  "Tour",
		Message:      "Hi",
		CreatedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func outcomeFor(t *testing.T, outcomes []models.Outcome, ch models.Channel) models.Outcome {
	t.Helper()
	for _, o := range outcomes {
		if o.Channel == ch {
			return o
		}
	}
	t.Fatalf("no outcome recorded for channel %s", ch)
	return models.Outcome{}
}

func TestDispatchAllChannelsConfigured(t *testing.T) {
	mockQueue := queue.NewMockQueue()
	mockStore := store.NewMockStore()
	mockEmail := email.NewMockSender(zerolog.Nop())
	mockBus := broadcast.NewMockPublisher()

	channels := intake.Channels{
		Queue:           mockQueue,
		Store:           mockStore,
		Email:           mockEmail,
		Broadcast:       mockBus,
		OwnerAddress:    "owner@x.com",
		BusinessAddress: "business@x.com",
	}

	d, err := intake.NewDispatcher(channels, email.NewBuilder("TravelEase"), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	sub := testSubmission()
	outcomes, err := d.Dispatch(context.Background(), sub)
	if err != nil {
		t.Fatalf("unexpected dispatch error: %v", err)
	}
	if len(outcomes) != 6 {
		t.Fatalf("expected 6 outcomes, got %d", len(outcomes))
	}

	for _, ch := range []models.Channel{
		models.ChannelQueue, models.ChannelStore, models.ChannelCustomer,
		models.ChannelOwner, models.ChannelBusiness, models.ChannelBroadcast,
	} {
		if o := outcomeFor(t, outcomes, ch); !o.Succeeded() {
			t.Fatalf("expected channel %s to succeed, got %+v", ch, o)
		}
	}

	if got := mockQueue.CallCount(); got != 1 {
		t.Fatalf("expected 1 enqueue call, got %d", got)
	}
	if _, ok := mockStore.Get(sub.SubmissionID); !ok {
		t.Fatalf("expected submission to be persisted under its id")
	}

	calls := mockEmail.Calls()
	if len(calls) != 3 {
		t.Fatalf("expected 3 notify calls, got %d", len(calls))
	}
	if calls[0].Recipient != "a@x.com" || calls[1].Recipient != "owner@x.com" || calls[2].Recipient != "business@x.com" {
		t.Fatalf("unexpected notify order: %+v", calls)
	}
	if calls[1].Message.Subject != calls[2].Message.Subject {
		t.Fatalf("expected business notification to reuse the owner message")
	}

	published := mockBus.Published()
	if len(published) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(published))
	}
	if published[0].Subject != "TravelEase submission from A" {
		t.Fatalf("unexpected broadcast subject: %q", published[0].Subject)
	}
}

func TestDispatchSkipsUnconfiguredChannels(t *testing.T) {
	mockEmail := email.NewMockSender(zerolog.Nop())
	channels := intake.Channels{
		Email:        mockEmail,
		OwnerAddress: "owner@x.com",
	}

	d, err := intake.NewDispatcher(channels, email.NewBuilder(""), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	outcomes, err := d.Dispatch(context.Background(), testSubmission())
	if err != nil {
		t.Fatalf("unexpected dispatch error: %v", err)
	}

	for _, ch := range []models.Channel{models.ChannelQueue, models.ChannelStore, models.ChannelBusiness, models.ChannelBroadcast} {
		if o := outcomeFor(t, outcomes, ch); !o.Skipped() {
			t.Fatalf("expected channel %s to be skipped, got %+v", ch, o)
		}
	}
	if got := mockEmail.CallCount(); got != 2 {
		t.Fatalf("expected customer and owner notifications only, got %d calls", got)
	}
}

func TestDispatchBusinessEqualsOwnerDeduplicates(t *testing.T) {
	mockEmail := email.NewMockSender(zerolog.Nop())
	channels := intake.Channels{
		Email:           mockEmail,
		OwnerAddress:    "owner@x.com",
		BusinessAddress: "owner@x.com",
	}

	d, err := intake.NewDispatcher(channels, email.NewBuilder(""), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	outcomes, err := d.Dispatch(context.Background(), testSubmission())
	if err != nil {
		t.Fatalf("unexpected dispatch error: %v", err)
	}

	if o := outcomeFor(t, outcomes, models.ChannelBusiness); !o.Skipped() {
		t.Fatalf("expected business channel to be skipped, got %+v", o)
	}
	if got := mockEmail.CallCount(); got != 2 {
		t.Fatalf("expected exactly 2 notify calls, got %d", got)
	}
}

func TestDispatchWithoutSenderIdentityFails(t *testing.T) {
	d, err := intake.NewDispatcher(intake.Channels{}, email.NewBuilder(""), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	_, err = d.Dispatch(context.Background(), testSubmission())
	if !errors.Is(err, intake.ErrSenderNotConfigured) {
		t.Fatalf("expected ErrSenderNotConfigured, got %v", err)
	}
}

func TestDispatchFailFastAbortsOnFirstError(t *testing.T) {
	queueErr := errors.New("broker unavailable")
	mockQueue := queue.NewMockQueue()
	mockQueue.FailWith(queueErr)
	mockEmail := email.NewMockSender(zerolog.Nop())

	channels := intake.Channels{
		Queue:        mockQueue,
		Email:        mockEmail,
		OwnerAddress: "owner@x.com",
	}

	d, err := intake.NewDispatcher(channels, email.NewBuilder(""), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	outcomes, err := d.Dispatch(context.Background(), testSubmission())
	if !errors.Is(err, queueErr) {
		t.Fatalf("expected queue error, got %v", err)
	}
	if len(outcomes) != 1 || !outcomes[0].Failed() {
		t.Fatalf("expected a single failed outcome, got %+v", outcomes)
	}
	if got := mockEmail.CallCount(); got != 0 {
		t.Fatalf("expected no notifications after fatal failure, got %d", got)
	}
}

func TestDispatchReportModeContinuesPastFailures(t *testing.T) {
	queueErr := errors.New("broker unavailable")
	mockQueue := queue.NewMockQueue()
	mockQueue.FailWith(queueErr)
	mockEmail := email.NewMockSender(zerolog.Nop())

	channels := intake.Channels{
		Queue:        mockQueue,
		Email:        mockEmail,
		OwnerAddress: "owner@x.com",
	}

	d, err := intake.NewDispatcher(channels, email.NewBuilder(""), zerolog.Nop(),
		intake.WithFailureMode(intake.ReportFailures))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	outcomes, err := d.Dispatch(context.Background(), testSubmission())
	if err != nil {
		t.Fatalf("expected report mode to swallow channel errors, got %v", err)
	}

	o := outcomeFor(t, outcomes, models.ChannelQueue)
	if !o.Failed() || !errors.Is(o.Err, queueErr) {
		t.Fatalf("expected failed queue outcome carrying the error, got %+v", o)
	}
	if got := mockEmail.CallCount(); got != 2 {
		t.Fatalf("expected notifications to proceed in report mode, got %d calls", got)
	}
}

func TestParseFailureMode(t *testing.T) {
	if mode, err := intake.ParseFailureMode(""); err != nil || mode != intake.FailFast {
		t.Fatalf("expected empty input to default to fatal, got %v %v", mode, err)
	}
	if mode, err := intake.ParseFailureMode("report"); err != nil || mode != intake.ReportFailures {
		t.Fatalf("expected report mode, got %v %v", mode, err)
	}
	if _, err := intake.ParseFailureMode("bogus"); err == nil {
		t.Fatalf("expected error for unknown failure mode")
	}
}
