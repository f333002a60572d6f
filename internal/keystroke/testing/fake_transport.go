// Package testing provides test doubles for the keystroke package.
package testing

import (
	"context"
	"sync"

	"github.com/rileyhilliard/bootkeys/internal/keystroke"
)

// DeliverCall records a call to Deliver.
type DeliverCall struct {
	VMName string
	Codes  []string
}

// FakeTransport scripts the outcome of each delivery attempt.
type FakeTransport struct {
	mu sync.Mutex

	// Configuration
	PrepareErr error
	// Outcomes are returned in order; once exhausted, the last one repeats.
	// An empty list means every attempt succeeds.
	Outcomes []keystroke.Attempt

	// Call tracking
	PrepareCalls int
	DeliverCalls []DeliverCall
}

// NewFakeTransport creates a transport whose attempts all succeed.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{}
}

// FailThenSucceed returns a transport that fails failures times with a
// non-zero exit code and then succeeds.
func FailThenSucceed(failures int) *FakeTransport {
	f := &FakeTransport{}
	for i := 0; i < failures; i++ {
		f.Outcomes = append(f.Outcomes, keystroke.Attempt{ExitCode: 1, Stderr: "console not ready"})
	}
	f.Outcomes = append(f.Outcomes, keystroke.Attempt{Stdout: "keys sent"})
	return f
}

// AlwaysFail returns a transport whose attempts all exit with code 1.
func AlwaysFail(stderr string) *FakeTransport {
	return &FakeTransport{Outcomes: []keystroke.Attempt{{ExitCode: 1, Stderr: stderr}}}
}

// Prepare records the call and returns PrepareErr.
func (f *FakeTransport) Prepare(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PrepareCalls++
	return f.PrepareErr
}

// Deliver records the call and returns the next scripted outcome.
func (f *FakeTransport) Deliver(ctx context.Context, vmName string, codes []string) keystroke.Attempt {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := len(f.DeliverCalls)
	f.DeliverCalls = append(f.DeliverCalls, DeliverCall{
		VMName: vmName,
		Codes:  append([]string(nil), codes...),
	})

	if len(f.Outcomes) == 0 {
		return keystroke.Attempt{}
	}
	if idx >= len(f.Outcomes) {
		idx = len(f.Outcomes) - 1
	}
	return f.Outcomes[idx]
}

// Calls returns the number of Deliver calls so far.
func (f *FakeTransport) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.DeliverCalls)
}
