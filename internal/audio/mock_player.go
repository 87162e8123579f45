package audio

import (
	"context"
	"sync"
)

// MockCandidate is a Candidate for tests. It fails with Err when set.
type MockCandidate struct {
	ID  string
	Err error

	mu    sync.Mutex
	paths []string
}

// Name returns ID.
func (m *MockCandidate) Name() string {
	return m.ID
}

// Play records path and returns Err.
func (m *MockCandidate) Play(_ context.Context, path string) error {
	m.mu.Lock()
	m.paths = append(m.paths, path)
	m.mu.Unlock()
	return m.Err
}

// Played returns the paths this candidate was asked to play.
func (m *MockCandidate) Played() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}
