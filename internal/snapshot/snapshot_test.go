package snapshot_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glftpd/glspy/internal/errors"
	"github.com/glftpd/glspy/internal/logger"
	"github.com/glftpd/glspy/internal/online"
	"github.com/glftpd/glspy/internal/session"
	"github.com/glftpd/glspy/internal/snapshot"
	snaptesting "github.com/glftpd/glspy/internal/snapshot/testing"
)

var now = time.Unix(1_700_000_000, 0)

func engine() *session.Engine {
	return &session.Engine{
		Threshold:   session.DefaultThreshold,
		IdleBarrier: 30 * time.Second,
		Now:         func() time.Time { return now },
	}
}

func record(user string, pid int32, status string, bytes uint64) online.Record {
	return online.Record{
		Username:         user,
		Status:           status,
		Host:             "ident@127.0.0.1",
		LoginTime:        int32(now.Add(-time.Minute).Unix()),
		TransferStartSec: int32(now.Add(-2 * time.Second).Unix()),
		BytesXfer:        bytes,
		ProcID:           pid,
	}
}

func TestCollect_UnavailableThenPopulated(t *testing.T) {
	src := snaptesting.NewFakeSource(
		snaptesting.Unavailable(),
		snaptesting.Records(record("alice", 100, "STOR a.rar", 2048), record("bob", 101, "", 0)),
	)
	c := snapshot.New(src, engine(), nil, 20, logger.Noop())

	first := c.Collect(context.Background())
	assert.True(t, first.Unavailable())
	assert.Empty(t, first.Sessions)
	assert.Equal(t, 0, first.Stats.Online)
	assert.Equal(t, 20, first.Stats.MaxUsers)

	second := c.Collect(context.Background())
	require.NoError(t, second.Err)
	assert.False(t, second.Unavailable())
	require.Len(t, second.Sessions, 2)
	assert.Equal(t, "alice", second.Sessions[0].Username)
	assert.Equal(t, "bob", second.Sessions[1].Username)
	assert.Equal(t, 1, second.Stats.Uploads)
	assert.Equal(t, 1, second.Stats.Browsers)
	assert.Equal(t, 2, second.Stats.Online)
	assert.Equal(t, 20, second.Stats.MaxUsers)
	assert.Equal(t, now, second.Taken)
}

func TestCollect_SkipsEmptySlots(t *testing.T) {
	src := snaptesting.NewFakeSource(snaptesting.Records(
		record("first", 100, "", 0),
		online.Record{Username: "ghost", Status: "STOR x", BytesXfer: 99},
		record("second", 101, "", 0),
	))
	c := snapshot.New(src, engine(), nil, 0, nil)

	snap := c.Collect(context.Background())

	require.Len(t, snap.Sessions, 2)
	assert.Equal(t, int32(100), snap.Sessions[0].PID)
	assert.Equal(t, int32(101), snap.Sessions[1].PID)
	assert.Equal(t, 0, snap.Sessions[0].Slot)
	assert.Equal(t, 1, snap.Sessions[1].Slot)
}

func TestCollect_TruncatedBufferIsEmpty(t *testing.T) {
	buf := online.EncodeTable(record("alice", 100, "", 0))
	src := snaptesting.NewFakeSource(snaptesting.Step{Buf: buf[:len(buf)-3]})
	log := logger.NewBufferLogger()
	c := snapshot.New(src, engine(), nil, 0, log)

	snap := c.Collect(context.Background())

	assert.Empty(t, snap.Sessions)
	assert.True(t, errors.IsCode(snap.Err, errors.ErrDecode))
	assert.False(t, snap.Unavailable())
	assert.True(t, log.HasLevel("warn"))
}

func TestCollect_HiddenSessionsNotListed(t *testing.T) {
	src := snaptesting.NewFakeSource(snaptesting.Records(
		record("alice", 100, "", 0),
		record("siteop", 101, "", 0),
	))
	e := engine()
	e.Policy = session.Policy{Users: []string{"siteop"}, Count: true}
	c := snapshot.New(src, e, nil, 0, nil)

	snap := c.Collect(context.Background())

	assert.Len(t, snap.Sessions, 2)
	listed := snap.Listed()
	require.Len(t, listed, 1)
	assert.Equal(t, "alice", listed[0].Username)
	assert.Empty(t, snap.Find("siteop"))
	assert.Len(t, snap.Find("alice"), 1)
	assert.Equal(t, 2, snap.Stats.Counted())
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "online.bin")
	require.NoError(t, os.WriteFile(path, online.EncodeTable(record("alice", 100, "", 0)), 0o600))

	c := snapshot.New(snapshot.FileSource{Path: path}, engine(), nil, 0, nil)
	snap := c.Collect(context.Background())
	require.NoError(t, snap.Err)
	require.Len(t, snap.Sessions, 1)

	_, err := snapshot.FileSource{Path: path + ".missing"}.Read()
	assert.True(t, errors.IsCode(err, errors.ErrSnapshot))
}

func TestSort(t *testing.T) {
	mk := func() []*session.Session {
		return []*session.Session{
			{Slot: 0, Username: "carol", Speed: 10, PID: 3},
			{Slot: 1, Username: "Alice", Speed: 30, PID: 1},
			{Slot: 2, Username: "bob", Speed: 30, PID: 2},
		}
	}
	names := func(s []*session.Session) []string {
		out := make([]string, len(s))
		for i, x := range s {
			out[i] = x.Username
		}
		return out
	}

	tests := []struct {
		key     string
		reverse bool
		want    []string
	}{
		{"username", false, []string{"Alice", "bob", "carol"}},
		{"username", true, []string{"carol", "bob", "Alice"}},
		{"speed", false, []string{"carol", "Alice", "bob"}},
		{"speed", true, []string{"Alice", "bob", "carol"}},
		{"pid", false, []string{"Alice", "bob", "carol"}},
		{"bogus", false, []string{"Alice", "bob", "carol"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s := mk()
			snapshot.Sort(s, tt.key, tt.reverse)
			assert.Equal(t, tt.want, names(s))
		})
	}
}
