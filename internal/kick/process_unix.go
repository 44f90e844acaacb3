//go:build unix

package kick

import (
	stderrors "errors"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// System is the real process table.
type System struct{}

// Name reads /proc/<pid>/comm, falling back to ps where /proc is missing.
func (System) Name(pid int32) (string, error) {
	data, err := os.ReadFile("/proc/" + strconv.Itoa(int(pid)) + "/comm")
	if err == nil {
		return strings.TrimSpace(string(data)), nil
	}
	if _, statErr := os.Stat("/proc/self"); statErr == nil {
		return "", err
	}

	out, err := exec.Command("ps", "-o", "comm=", "-p", strconv.Itoa(int(pid))).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Terminate sends SIGTERM.
func (System) Terminate(pid int32) error {
	return unix.Kill(int(pid), unix.SIGTERM)
}

func isPermission(err error) bool {
	return stderrors.Is(err, unix.EPERM) || stderrors.Is(err, os.ErrPermission)
}
