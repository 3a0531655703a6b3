package email_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/inquiry-intake/internal/email"
)

func TestMockSenderSequentialReferences(t *testing.T) {
	sender := email.NewMockSender(zerolog.Nop())

	first, err := sender.Send(context.Background(), "a@x.com", email.Message{Subject: "one"})
	if err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}
	second, err := sender.Send(context.Background(), "b@x.com", email.Message{Subject: "two"})
	if err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}

	if first != "mock-email-0001" || second != "mock-email-0002" {
		t.Fatalf("unexpected references: %q, %q", first, second)
	}

	calls := sender.Calls()
	if len(calls) != 2 || calls[0].Recipient != "a@x.com" || calls[1].Recipient != "b@x.com" {
		t.Fatalf("unexpected recorded calls: %+v", calls)
	}
}

func TestMockSenderFailureInjection(t *testing.T) {
	wantErr := errors.New("mailbox full")
	sender := email.NewMockSender(zerolog.Nop(), email.WithMockFailure("a@x.com", wantErr))

	if _, err := sender.Send(context.Background(), "a@x.com", email.Message{}); !errors.Is(err, wantErr) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if _, err := sender.Send(context.Background(), "b@x.com", email.Message{}); err != nil {
		t.Fatalf("expected other recipients to succeed, got %v", err)
	}

	// Failed attempts are still recorded.
	if got := sender.CallCount(); got != 2 {
		t.Fatalf("expected 2 recorded calls, got %d", got)
	}
}

func TestMockSenderClock(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	sender := email.NewMockSender(zerolog.Nop(), email.WithMockClock(func() time.Time { return fixed }))

	if _, err := sender.Send(context.Background(), "a@x.com", email.Message{}); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}
	if got := sender.Calls()[0].SentAt; !got.Equal(fixed) {
		t.Fatalf("expected fixed timestamp, got %v", got)
	}
}

func TestMockSenderCancelledContext(t *testing.T) {
	sender := email.NewMockSender(zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := sender.Send(ctx, "a@x.com", email.Message{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
