//go:build !linux

package shm

import "fmt"

// Read always fails: glftpd only runs on Linux.
func (s *Segment) Read() ([]byte, error) {
	return nil, unavailable(s.key, fmt.Errorf("shared memory is only supported on linux"))
}
