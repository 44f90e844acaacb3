// Package snapshot runs one refresh pass: read the online table, decode it,
// build sessions and compute statistics. Every failure of a pass ends up in
// Snapshot.Err and an empty session list, never in a panic or a fatal
// error, so callers can render it and poll again.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/glftpd/glspy/internal/errors"
	"github.com/glftpd/glspy/internal/logger"
	"github.com/glftpd/glspy/internal/online"
	"github.com/glftpd/glspy/internal/session"
	"github.com/glftpd/glspy/internal/shm"
)

// Snapshot is the result of one pass.
type Snapshot struct {
	// Sessions holds every decoded session in slot order, listed or not.
	Sessions []*session.Session
	Stats    session.GlobalStats
	Taken    time.Time
	// Err is an ErrSnapshot or ErrDecode error when the pass came up empty
	// for a reason other than nobody being online.
	Err error
}

// Unavailable reports whether the online table could not be read.
func (s *Snapshot) Unavailable() bool {
	return errors.IsCode(s.Err, errors.ErrSnapshot)
}

// Listed returns the sessions renderers should show.
func (s *Snapshot) Listed() []*session.Session {
	out := make([]*session.Session, 0, len(s.Sessions))
	for _, sess := range s.Sessions {
		if sess.Listed() {
			out = append(out, sess)
		}
	}
	return out
}

// Find returns the listed sessions of username.
func (s *Snapshot) Find(username string) []*session.Session {
	var out []*session.Session
	for _, sess := range s.Listed() {
		if sess.Username == username {
			out = append(out, sess)
		}
	}
	return out
}

// SortKeys are the attributes sessions can be sorted by.
var SortKeys = []string{"username", "group", "status", "speed", "idle", "online", "host", "pid"}

// Sort orders sessions by key, ties broken by slot. Unknown keys sort by
// username.
func Sort(sessions []*session.Session, key string, reverse bool) {
	less := func(a, b *session.Session) int {
		switch strings.ToLower(key) {
		case "group":
			return strings.Compare(a.Group, b.Group)
		case "status":
			return strings.Compare(a.StatusText, b.StatusText)
		case "speed":
			return cmpFloat(a.Speed, b.Speed)
		case "idle":
			return cmpInt(int64(a.Idle), int64(b.Idle))
		case "online":
			return cmpInt(int64(a.Online), int64(b.Online))
		case "host":
			return strings.Compare(a.Host, b.Host)
		case "pid":
			return cmpInt(int64(a.PID), int64(b.PID))
		default:
			return strings.Compare(strings.ToLower(a.Username), strings.ToLower(b.Username))
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		c := less(sessions[i], sessions[j])
		if c == 0 {
			return sessions[i].Slot < sessions[j].Slot
		}
		if reverse {
			return c > 0
		}
		return c < 0
	})
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// FileSource reads a raw online table dumped to a file, so a pass can be
// replayed away from the daemon.
type FileSource struct {
	Path string
}

// Read returns the file contents.
func (f FileSource) Read() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSnapshot,
			fmt.Sprintf("Couldn't read snapshot file %s", f.Path),
			"Create one with 'glspy snapshot --dump <file>'")
	}
	return data, nil
}

// Collector runs passes against one source. The previous pass is kept so
// resolved addresses and country codes carry over; Collect is safe for
// concurrent use.
type Collector struct {
	Source   shm.Reader
	Engine   *session.Engine
	Groups   session.GroupResolver
	MaxUsers int
	Log      logger.Logger

	mu   sync.Mutex
	prev []*session.Session
}

// New creates a collector.
func New(src shm.Reader, engine *session.Engine, groups session.GroupResolver, maxUsers int, log logger.Logger) *Collector {
	if log == nil {
		log = logger.Noop()
	}
	return &Collector{
		Source:   src,
		Engine:   engine,
		Groups:   groups,
		MaxUsers: maxUsers,
		Log:      log,
	}
}

// Collect runs one pass.
func (c *Collector) Collect(ctx context.Context) *Snapshot {
	snap := &Snapshot{
		Taken: c.now(),
		Stats: session.GlobalStats{MaxUsers: c.MaxUsers},
	}

	buf, err := c.Source.Read()
	if err != nil {
		c.Log.Debug("read online table: %v", err)
		snap.Err = err
		return snap
	}

	records, err := online.Decode(buf)
	if err != nil {
		c.Log.Warn("decode online table: %v", err)
		snap.Err = err
		return snap
	}

	sessions := make([]*session.Session, len(records))
	for i, rec := range records {
		sessions[i] = session.New(i, rec, c.Groups)
	}

	c.mu.Lock()
	prev := c.prev
	c.mu.Unlock()

	stats := c.Engine.Compute(ctx, sessions, prev)
	stats.MaxUsers = c.MaxUsers

	c.mu.Lock()
	c.prev = sessions
	c.mu.Unlock()

	snap.Sessions = sessions
	snap.Stats = stats
	return snap
}

func (c *Collector) now() time.Time {
	if c.Engine != nil && c.Engine.Now != nil {
		return c.Engine.Now()
	}
	return time.Now()
}
