// Package testing provides test doubles for the kick package.
package testing

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// FakeProcessTable is an in-memory process table.
type FakeProcessTable struct {
	mu sync.Mutex

	// Names maps pids to command names. Missing pids do not exist.
	Names map[int32]string
	// Deny makes Terminate fail with EPERM for these pids.
	Deny map[int32]bool

	// Terminated records signalled pids in order.
	Terminated []int32
	// NameCalls counts Name lookups.
	NameCalls int
}

// NewFakeProcessTable returns a table holding the given processes.
func NewFakeProcessTable(names map[int32]string) *FakeProcessTable {
	if names == nil {
		names = map[int32]string{}
	}
	return &FakeProcessTable{Names: names, Deny: map[int32]bool{}}
}

// Name returns the command name of pid.
func (f *FakeProcessTable) Name(pid int32) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.NameCalls++
	name, ok := f.Names[pid]
	if !ok {
		return "", fmt.Errorf("no such process %d", pid)
	}
	return name, nil
}

// Terminate records the signal and removes the process.
func (f *FakeProcessTable) Terminate(pid int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Deny[pid] {
		return unix.EPERM
	}
	if _, ok := f.Names[pid]; !ok {
		return unix.ESRCH
	}
	f.Terminated = append(f.Terminated, pid)
	delete(f.Names, pid)
	return nil
}

// Signalled returns a copy of the terminated pids.
func (f *FakeProcessTable) Signalled() []int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int32(nil), f.Terminated...)
}
