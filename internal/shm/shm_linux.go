//go:build linux

package shm

import (
	"golang.org/x/sys/unix"
)

// Read attaches the segment read-only, copies it and detaches.
// A missing segment is reported as an ErrSnapshot error: glftpd removes the
// segment when the last user logs out.
func (s *Segment) Read() ([]byte, error) {
	id, err := unix.SysvShmGet(s.key, 0, 0)
	if err != nil {
		return nil, unavailable(s.key, err)
	}

	data, err := unix.SysvShmAttach(id, 0, unix.SHM_RDONLY)
	if err != nil {
		return nil, unavailable(s.key, err)
	}
	defer unix.SysvShmDetach(data)

	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}
