package broadcast

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/inquiry-intake/internal/models"
)

// MockPublish records a single broadcast observed by the mock publisher.
type MockPublish struct {
	Subject    string
	Submission models.Submission
}

// MockPublisher implements the dispatcher's broadcast contract in memory,
// recording every publish and assigning sequential references.
type MockPublisher struct {
	mu        sync.Mutex
	seq       int
	published []MockPublish
	failWith  error
}

// NewMockPublisher constructs an empty MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// FailWith makes every subsequent Publish return err. Passing nil restores
// normal behaviour.
func (p *MockPublisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failWith = err
}

// Publish records the broadcast and returns a sequential mock reference.
func (p *MockPublisher) Publish(ctx context.Context, subject string, sub models.Submission) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.published = append(p.published, MockPublish{Subject: subject, Submission: sub})
	if p.failWith != nil {
		return "", p.failWith
	}

	p.seq++
	return fmt.Sprintf("mock-broadcast-%04d", p.seq), nil
}

// Published returns a copy of the recorded broadcasts in order.
func (p *MockPublisher) Published() []MockPublish {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]MockPublish, len(p.published))
	copy(out, p.published)
	return out
}

// CallCount returns the number of publish attempts observed so far.
func (p *MockPublisher) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}
