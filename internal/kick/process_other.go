//go:build !unix

package kick

import (
	stderrors "errors"
	"os"
)

var errUnsupported = stderrors.New("killing sessions is only supported on unix")

// System is the real process table.
type System struct{}

// Name always fails.
func (System) Name(int32) (string, error) { return "", errUnsupported }

// Terminate always fails.
func (System) Terminate(int32) error { return errUnsupported }

func isPermission(err error) bool {
	return stderrors.Is(err, os.ErrPermission)
}
