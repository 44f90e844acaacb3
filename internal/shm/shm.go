// Package shm reads the shared memory segment glftpd keeps its online
// table in. Segments are attached read-only, copied, and detached again on
// every read, so a reader never holds the segment between refreshes.
package shm

import (
	"fmt"

	"github.com/glftpd/glspy/internal/errors"
)

// Reader returns the current contents of a snapshot source.
type Reader interface {
	Read() ([]byte, error)
}

// Segment is a SysV shared memory segment identified by its IPC key.
type Segment struct {
	key int
}

// New returns a segment reader for key. Nothing is attached until Read.
func New(key int) *Segment {
	return &Segment{key: key}
}

// Key returns the IPC key.
func (s *Segment) Key() int {
	return s.key
}

// String formats the key the way glftpd.conf writes it.
func (s *Segment) String() string {
	return fmt.Sprintf("0x%08X", uint32(s.key))
}

func unavailable(key int, cause error) error {
	return errors.WrapWithCode(cause, errors.ErrSnapshot,
		fmt.Sprintf("No users found (shm 0x%08X)", uint32(key)),
		"Nobody is logged in, or glftpd uses a different ipc_key")
}
