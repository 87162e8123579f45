package process

import (
	"context"
	"os"
	"sync"
)

// FakeRunner records invocations and answers them from a script.
// It is used by tests in packages that build invocations.
type FakeRunner struct {
	mu    sync.Mutex
	Calls []Invocation

	// Handle answers an invocation. Nil means exit zero with no output.
	Handle func(inv Invocation) (Outcome, error)

	// StdinSeen records the content of each invocation's stdin file,
	// read while the file still exists.
	StdinSeen []string
}

// Run implements Runner.
func (f *FakeRunner) Run(_ context.Context, inv Invocation) (Outcome, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, inv)
	if inv.Stdin != "" {
		data, _ := os.ReadFile(inv.Stdin)
		f.StdinSeen = append(f.StdinSeen, string(data))
	}
	handle := f.Handle
	f.mu.Unlock()

	if handle == nil {
		return Outcome{}, nil
	}
	return handle(inv)
}

// CallCount returns the number of recorded invocations.
func (f *FakeRunner) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
