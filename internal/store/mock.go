package store

import (
	"context"
	"sync"

	"github.com/example/inquiry-intake/internal/models"
)

// MockStore implements the dispatcher's store contract with an in-memory map
// keyed by submission id.
type MockStore struct {
	mu       sync.Mutex
	items    map[string]models.Submission
	calls    int
	failWith error
}

// NewMockStore constructs an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{items: make(map[string]models.Submission)}
}

// FailWith makes every subsequent Put return err. Passing nil restores
// normal behaviour.
func (s *MockStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// Put records the submission under its id.
func (s *MockStore) Put(ctx context.Context, sub models.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.failWith != nil {
		return s.failWith
	}

	s.items[sub.SubmissionID] = sub
	return nil
}

// Get returns the stored submission for the id, if any. Test helper only;
// the production store has no read path.
func (s *MockStore) Get(id string) (models.Submission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.items[id]
	return sub, ok
}

// CallCount returns the number of put attempts observed so far.
func (s *MockStore) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
