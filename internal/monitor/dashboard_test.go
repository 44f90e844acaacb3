package monitor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glftpd/glspy/internal/kick"
	"github.com/glftpd/glspy/internal/logger"
	mtesting "github.com/glftpd/glspy/internal/monitor/testing"
	"github.com/glftpd/glspy/internal/online"
	"github.com/glftpd/glspy/internal/session"
	"github.com/glftpd/glspy/internal/snapshot"
	snaptesting "github.com/glftpd/glspy/internal/snapshot/testing"
)

var dashNow = time.Unix(1_700_000_000, 0)

func dashRecord(user string, pid int32, status string, bytes uint64) online.Record {
	return online.Record{
		Username:         user,
		Status:           status,
		Host:             "ident@127.0.0.1",
		LoginTime:        int32(dashNow.Add(-time.Minute).Unix()),
		TransferStartSec: int32(dashNow.Add(-2 * time.Second).Unix()),
		BytesXfer:        bytes,
		ProcID:           pid,
	}
}

type dashFixture struct {
	src    *snaptesting.FakeSource
	screen *mtesting.RecordingScreen
	kicker *fakeKicker
	log    *logger.BufferLogger
	dash   *Dashboard
}

func newDashFixture(input Input, steps ...snaptesting.Step) *dashFixture {
	f := &dashFixture{
		src:    snaptesting.NewFakeSource(steps...),
		screen: mtesting.NewRecordingScreen(),
		kicker: &fakeKicker{},
		log:    logger.NewBufferLogger(),
	}
	engine := &session.Engine{
		Threshold:   session.DefaultThreshold,
		IdleBarrier: 30 * time.Second,
		Now:         func() time.Time { return dashNow },
	}
	collector := snapshot.New(f.src, engine, nil, 10, f.log)
	view := NewView(NewTheme("glspy", "", strings.Repeat("-", 20)), session.DefaultThreshold, KeyMap{})
	view.Width = 160
	f.dash = New(collector, f.kicker, view, f.screen, input, Options{
		Refresh: time.Millisecond,
		Search:  true,
		Log:     f.log,
		Now:     func() time.Time { return dashNow },
	})
	return f
}

func TestDashboard_RecoversWhenTableAppears(t *testing.T) {
	f := newDashFixture(mtesting.Keys("", "", "q"),
		snaptesting.Unavailable(),
		snaptesting.Records(dashRecord("alice", 100, "STOR a.rar", 4096)),
	)
	ctx := context.Background()

	done, err := f.dash.Step(ctx)
	require.NoError(t, err)
	require.False(t, done)
	assert.Contains(t, f.screen.Text(), "No users logged in")
	assert.False(t, f.log.HasLevel("warn"), "a missing table is not a warning")

	done, err = f.dash.Step(ctx)
	require.NoError(t, err)
	require.False(t, done)
	assert.Contains(t, f.screen.Text(), "alice/")
	assert.NotContains(t, f.screen.Text(), "No users logged in")
	assert.Contains(t, f.screen.Text(), "Up: 1 /")

	done, err = f.dash.Step(ctx)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, StateTerminating, f.dash.Model().State())
	assert.Equal(t, 3, f.src.Reads())
}

func TestDashboard_IncrementalFrames(t *testing.T) {
	f := newDashFixture(mtesting.Keys("", "", ""),
		snaptesting.Records(dashRecord("alice", 100, "", 0)),
	)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.dash.Step(ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, f.screen.Count("clear"))
	assert.Equal(t, 2, f.screen.Count("up"))
	assert.Len(t, f.screen.Lines(), f.dash.view.Height-1)
}

func TestDashboard_StateChangeRedrawsFully(t *testing.T) {
	f := newDashFixture(mtesting.Keys("0", "", "esc", ""),
		snaptesting.Records(dashRecord("alice", 100, "", 0)),
	)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := f.dash.Step(ctx)
		require.NoError(t, err)
	}

	// first frame, detail entered, list re-entered
	assert.Equal(t, 3, f.screen.Count("clear"))
	assert.Equal(t, StateList, f.dash.Model().State())
}

func TestDashboard_ResizeRedrawsFully(t *testing.T) {
	f := newDashFixture(mtesting.Keys("", "", ""),
		snaptesting.Records(dashRecord("alice", 100, "", 0)),
	)
	sizes := [][2]int{{80, 24}, {80, 24}, {120, 40}}
	calls := 0
	f.dash.opts.Size = func() (int, int) {
		s := sizes[min(calls, len(sizes)-1)]
		calls++
		return s[0], s[1]
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.dash.Step(ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, f.screen.Count("clear"), "first frame and the resize")
	assert.Equal(t, 120, f.dash.view.Width)
	assert.Len(t, f.screen.Lines(), 39)
}

func TestDashboard_Kill(t *testing.T) {
	f := newDashFixture(mtesting.Keys("0", "k", ""),
		snaptesting.Records(dashRecord("alice", 100, "", 0)),
	)
	f.kicker.outcome = kick.Success
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.dash.Step(ctx)
		require.NoError(t, err)
	}

	require.Len(t, f.kicker.calls, 1)
	assert.Equal(t, int32(100), f.kicker.calls[0].PID)
	assert.Equal(t, StateList, f.dash.Model().State())
	assert.Contains(t, f.screen.Text(), "Killed alice (pid 100)")
}

func TestDashboard_DecodeErrorIsLogged(t *testing.T) {
	f := newDashFixture(mtesting.Keys(""), snaptesting.Step{Buf: []byte{1, 2, 3}})

	_, err := f.dash.Step(context.Background())

	require.NoError(t, err)
	assert.True(t, f.log.HasLevel("warn"))
	assert.Contains(t, f.screen.Text(), "No users logged in")
}

func TestDashboard_RunUntilQuit(t *testing.T) {
	in := mtesting.Keys("", "down", "q", "v")
	f := newDashFixture(in, snaptesting.Records(dashRecord("alice", 100, "", 0)))

	err := f.dash.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, in.Remaining())
}

func TestDashboard_RunStopsOnCancel(t *testing.T) {
	f := newDashFixture(mtesting.Keys(), snaptesting.Unavailable())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.dash.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, f.src.Reads())
}
