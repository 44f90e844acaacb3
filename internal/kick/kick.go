// Package kick terminates glftpd sessions. A process is only signalled
// after its name has been checked against the daemon's, so a stale pid
// from an old snapshot never hits an unrelated process.
package kick

import (
	"fmt"

	"github.com/glftpd/glspy/internal/errors"
	"github.com/glftpd/glspy/internal/logger"
	"github.com/glftpd/glspy/internal/session"
)

// DefaultProcessName is the command name of glftpd session processes.
const DefaultProcessName = "glftpd"

// Outcome is the result of a kick request.
type Outcome int

const (
	Success Outcome = iota
	NotFound
	PermissionDenied
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "Success"
	case NotFound:
		return "NotFound"
	case PermissionDenied:
		return "PermissionDenied"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result describes what a kick request did.
type Result struct {
	Outcome  Outcome
	Username string
	PID      int32
	Err      error
}

// Message returns the text shown to the user.
func (r Result) Message() string {
	switch r.Outcome {
	case Success:
		return fmt.Sprintf("Killed %s (pid %d)", r.Username, r.PID)
	case PermissionDenied:
		return fmt.Sprintf("Kill %s (pid %d) not permitted", r.Username, r.PID)
	default:
		return fmt.Sprintf("User %s not found", r.Username)
	}
}

// Error converts a failed result into an ACTION error, nil on success.
func (r Result) Error() error {
	if r.Outcome == Success {
		return nil
	}
	suggestion := ""
	if r.Outcome == PermissionDenied {
		suggestion = "Run glspy as root or as the user glftpd runs as"
	}
	return &errors.Error{
		Code:       errors.ErrAction,
		Message:    r.Message(),
		Suggestion: suggestion,
		Cause:      r.Err,
	}
}

// ProcessTable is the part of the OS the killer needs.
type ProcessTable interface {
	// Name returns the command name of pid. An error means no such process.
	Name(pid int32) (string, error)
	// Terminate sends SIGTERM to pid.
	Terminate(pid int32) error
}

// Killer sends termination signals to session processes.
type Killer struct {
	Procs       ProcessTable
	ProcessName string
	Log         logger.Logger
}

// New returns a killer backed by the system process table.
func New(processName string, log logger.Logger) *Killer {
	if processName == "" {
		processName = DefaultProcessName
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Killer{Procs: System{}, ProcessName: processName, Log: log}
}

// Kick terminates the first session of username whose process is still a
// glftpd process. A username with no session yields NotFound without any
// signal being sent.
func (k *Killer) Kick(username string, sessions []*session.Session) Result {
	var denied *Result
	for _, s := range sessions {
		if s.Username != username {
			continue
		}
		r := k.KickSession(s)
		switch r.Outcome {
		case Success:
			return r
		case PermissionDenied:
			if denied == nil {
				denied = &r
			}
		}
	}
	if denied != nil {
		return *denied
	}
	return Result{Outcome: NotFound, Username: username}
}

// KickSession terminates one session by pid.
func (k *Killer) KickSession(s *session.Session) Result {
	r := Result{Username: s.Username, PID: s.PID}
	if s.PID <= 0 {
		r.Outcome = NotFound
		return r
	}

	name, err := k.Procs.Name(s.PID)
	if err != nil || name != k.ProcessName {
		k.Log.Debug("pid %d of %s is %q, not %s: %v", s.PID, s.Username, name, k.ProcessName, err)
		r.Outcome = NotFound
		r.Err = err
		return r
	}

	if err := k.Procs.Terminate(s.PID); err != nil {
		r.Err = err
		if isPermission(err) {
			r.Outcome = PermissionDenied
		} else {
			r.Outcome = NotFound
		}
		k.Log.Warn("kill %s (pid %d): %v", s.Username, s.PID, err)
		return r
	}

	k.Log.Info("killed %s (pid %d)", s.Username, s.PID)
	r.Outcome = Success
	return r
}
