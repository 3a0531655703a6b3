package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/inquiry-intake/internal/models"
)

// MockQueue implements the dispatcher's queue contract in memory, recording
// every enqueued submission and assigning sequential references.
type MockQueue struct {
	mu       sync.Mutex
	seq      int
	enqueued []models.Submission
	failWith error
}

// NewMockQueue constructs an empty MockQueue.
func NewMockQueue() *MockQueue {
	return &MockQueue{}
}

// FailWith makes every subsequent Enqueue return err. Passing nil restores
// normal behaviour.
func (q *MockQueue) FailWith(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.failWith = err
}

// Enqueue records the submission and returns a sequential mock reference.
func (q *MockQueue) Enqueue(ctx context.Context, sub models.Submission) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.enqueued = append(q.enqueued, sub)
	if q.failWith != nil {
		return "", q.failWith
	}

	q.seq++
	return fmt.Sprintf("mock-queue-%04d", q.seq), nil
}

// Enqueued returns a copy of the recorded submissions in order.
func (q *MockQueue) Enqueued() []models.Submission {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]models.Submission, len(q.enqueued))
	copy(out, q.enqueued)
	return out
}

// CallCount returns the number of enqueue attempts observed so far.
func (q *MockQueue) CallCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.enqueued)
}
