// Package testing provides test doubles for the snapshot package.
package testing

import (
	"sync"

	"github.com/glftpd/glspy/internal/errors"
	"github.com/glftpd/glspy/internal/online"
)

// Step is one scripted read: either a buffer or an error.
type Step struct {
	Buf []byte
	Err error
}

// Records returns a step holding the encoded records.
func Records(recs ...online.Record) Step {
	return Step{Buf: online.EncodeTable(recs...)}
}

// Unavailable returns a step failing like a missing shared segment.
func Unavailable() Step {
	return Step{Err: errors.New(errors.ErrSnapshot, "No users found", "")}
}

// FakeSource replays scripted reads. After the script runs out it keeps
// returning the last step.
type FakeSource struct {
	mu    sync.Mutex
	steps []Step
	reads int
}

// NewFakeSource creates a source that plays steps in order.
func NewFakeSource(steps ...Step) *FakeSource {
	return &FakeSource{steps: steps}
}

// Push appends steps to the script.
func (f *FakeSource) Push(steps ...Step) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, steps...)
}

// Read returns the next scripted step.
func (f *FakeSource) Read() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.steps) == 0 {
		return nil, errors.New(errors.ErrSnapshot, "No users found", "")
	}
	i := min(f.reads, len(f.steps)-1)
	f.reads++
	s := f.steps[i]
	return s.Buf, s.Err
}

// Reads returns how often Read was called.
func (f *FakeSource) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}
