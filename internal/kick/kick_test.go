package kick_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glftpd/glspy/internal/errors"
	"github.com/glftpd/glspy/internal/kick"
	kicktesting "github.com/glftpd/glspy/internal/kick/testing"
	"github.com/glftpd/glspy/internal/logger"
	"github.com/glftpd/glspy/internal/session"
)

func newKiller(procs *kicktesting.FakeProcessTable) (*kick.Killer, *logger.BufferLogger) {
	log := logger.NewBufferLogger()
	return &kick.Killer{Procs: procs, ProcessName: kick.DefaultProcessName, Log: log}, log
}

func sessions() []*session.Session {
	return []*session.Session{
		{Username: "alice", PID: 100},
		{Username: "bob", PID: 101},
		{Username: "bob", PID: 102},
	}
}

func TestKick_UnknownUserSendsNoSignal(t *testing.T) {
	procs := kicktesting.NewFakeProcessTable(map[int32]string{100: "glftpd", 101: "glftpd"})
	k, _ := newKiller(procs)

	r := k.Kick("mallory", sessions())

	assert.Equal(t, kick.NotFound, r.Outcome)
	assert.Empty(t, procs.Signalled())
	assert.Zero(t, procs.NameCalls)
	assert.Equal(t, "User mallory not found", r.Message())
}

func TestKick_Success(t *testing.T) {
	procs := kicktesting.NewFakeProcessTable(map[int32]string{100: "glftpd"})
	k, log := newKiller(procs)

	r := k.Kick("alice", sessions())

	assert.Equal(t, kick.Success, r.Outcome)
	assert.Equal(t, int32(100), r.PID)
	assert.Equal(t, []int32{100}, procs.Signalled())
	assert.NoError(t, r.Error())
	assert.True(t, log.HasLevel("info"))
}

func TestKick_SkipsForeignProcess(t *testing.T) {
	procs := kicktesting.NewFakeProcessTable(map[int32]string{101: "sshd", 102: "glftpd"})
	k, _ := newKiller(procs)

	r := k.Kick("bob", sessions())

	assert.Equal(t, kick.Success, r.Outcome)
	assert.Equal(t, int32(102), r.PID)
	assert.Equal(t, []int32{102}, procs.Signalled())
}

func TestKick_ProcessGone(t *testing.T) {
	procs := kicktesting.NewFakeProcessTable(nil)
	k, _ := newKiller(procs)

	r := k.Kick("alice", sessions())

	assert.Equal(t, kick.NotFound, r.Outcome)
	assert.Empty(t, procs.Signalled())
}

func TestKick_PermissionDenied(t *testing.T) {
	procs := kicktesting.NewFakeProcessTable(map[int32]string{100: "glftpd"})
	procs.Deny[100] = true
	k, _ := newKiller(procs)

	r := k.Kick("alice", sessions())

	assert.Equal(t, kick.PermissionDenied, r.Outcome)
	assert.Contains(t, r.Message(), "not permitted")

	err := r.Error()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAction))
}

func TestKickSession_InvalidPID(t *testing.T) {
	procs := kicktesting.NewFakeProcessTable(map[int32]string{0: "glftpd"})
	k, _ := newKiller(procs)

	r := k.KickSession(&session.Session{Username: "x", PID: 0})

	assert.Equal(t, kick.NotFound, r.Outcome)
	assert.Zero(t, procs.NameCalls)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "Success", kick.Success.String())
	assert.Equal(t, "NotFound", kick.NotFound.String())
	assert.Equal(t, "PermissionDenied", kick.PermissionDenied.String())
	assert.Equal(t, "Outcome(7)", kick.Outcome(7).String())
}

func TestNew_Defaults(t *testing.T) {
	k := kick.New("", nil)
	assert.Equal(t, kick.DefaultProcessName, k.ProcessName)
	assert.NotNil(t, k.Log)
}
