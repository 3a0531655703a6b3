package email

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MockOption customises the behaviour of the mock sender at construction
// time.
type MockOption func(*MockSender)

// WithMockClock overrides the clock used for call timestamps, useful for
// deterministic unit tests.
func WithMockClock(now func() time.Time) MockOption {
	return func(s *MockSender) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMockFailure makes every send to the given recipient fail with err.
func WithMockFailure(recipient string, err error) MockOption {
	return func(s *MockSender) {
		if recipient != "" && err != nil {
			s.failFor[recipient] = err
		}
	}
}

// WithMockFailAll makes every send fail with err regardless of recipient.
func WithMockFailAll(err error) MockOption {
	return func(s *MockSender) {
		s.failAll = err
	}
}

// MockCall records a single delivery attempt observed by the mock sender.
type MockCall struct {
	Recipient string
	Message   Message
	SentAt    time.Time
}

// MockSender implements a deterministic Sender suitable for local
// development and automated testing. It records every call and assigns
// sequential references without making network calls.
type MockSender struct {
	logger  zerolog.Logger
	now     func() time.Time
	failFor map[string]error
	failAll error

	mu    sync.Mutex
	seq   int
	calls []MockCall
}

// NewMockSender constructs a MockSender with the supplied options applied.
func NewMockSender(logger zerolog.Logger, opts ...MockOption) *MockSender {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	s := &MockSender{
		logger:  logger,
		now:     time.Now,
		failFor: make(map[string]error),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Send records the call and returns a sequential mock reference, honouring
// any configured failure injection and context cancellation.
func (s *MockSender) Send(ctx context.Context, to string, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, MockCall{Recipient: to, Message: msg, SentAt: s.now()})

	if s.failAll != nil {
		return "", s.failAll
	}
	if err, ok := s.failFor[to]; ok {
		return "", err
	}

	s.seq++
	ref := fmt.Sprintf("mock-email-%04d", s.seq)
	s.logger.Debug().Str("recipient", to).Str("message_ref", ref).Msg("mock email recorded")
	return ref, nil
}

// Calls returns a copy of the recorded delivery attempts in order.
func (s *MockSender) Calls() []MockCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]MockCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns the number of delivery attempts observed so far.
func (s *MockSender) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
