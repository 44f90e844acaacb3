package monitor

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glftpd/glspy/internal/kick"
	"github.com/glftpd/glspy/internal/session"
	"github.com/glftpd/glspy/internal/snapshot"
	"github.com/glftpd/glspy/internal/util"
)

// MessageTTL is how long an inline message stays on screen.
const MessageTTL = 2 * time.Second

// Kicker terminates the session shown in the detail view.
type Kicker interface {
	KickSession(s *session.Session) kick.Result
}

// Model is the dashboard state that survives across refresh cycles: mode,
// selection, search buffer and the pending inline message. Sessions are
// replaced wholesale by every snapshot.
type Model struct {
	state    State
	returnTo State
	keys     KeyMap
	kicker   Kicker
	now      func() time.Time

	snap     *snapshot.Snapshot
	visible  []*session.Session
	selected int
	pageSize int

	search string
	filter string

	message      string
	messageUntil time.Time

	redraw bool
}

// NewModel creates a model in the list state.
func NewModel(keys KeyMap, kicker Kicker, now func() time.Time) *Model {
	if now == nil {
		now = time.Now
	}
	return &Model{
		state:    StateList,
		returnTo: StateList,
		keys:     keys,
		kicker:   kicker,
		now:      now,
		snap:     &snapshot.Snapshot{},
		pageSize: 1,
		redraw:   true,
	}
}

// State returns the current state.
func (m *Model) State() State { return m.state }

// Selected returns the selected index into the visible sessions.
func (m *Model) Selected() int { return m.selected }

// Offset returns the index of the first row on the current page.
func (m *Model) Offset() int {
	return (m.selected / m.pageSize) * m.pageSize
}

// Page returns the current page and the page count, both from 1.
func (m *Model) Page() (int, int) {
	pages := (len(m.visible) + m.pageSize - 1) / m.pageSize
	return m.selected/m.pageSize + 1, max(pages, 1)
}

// Visible returns the sessions the list shows, after hiding and filtering.
func (m *Model) Visible() []*session.Session { return m.visible }

// Snapshot returns the last snapshot.
func (m *Model) Snapshot() *snapshot.Snapshot { return m.snap }

// Filter returns the active search filter; while searching it is the
// buffer being typed.
func (m *Model) Filter() string {
	if m.state == StateSearch {
		return m.search
	}
	return m.filter
}

// Current returns the selected session, nil when there is none.
func (m *Model) Current() *session.Session {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return nil
	}
	return m.visible[m.selected]
}

// Message returns the inline message unless it has expired.
func (m *Model) Message() string {
	if m.message == "" || m.now().After(m.messageUntil) {
		return ""
	}
	return m.message
}

// SetMessage shows msg inline for MessageTTL.
func (m *Model) SetMessage(msg string) {
	m.message = msg
	m.messageUntil = m.now().Add(MessageTTL)
}

// SetPageSize sets the number of session rows per page.
func (m *Model) SetPageSize(n int) {
	n = max(n, 1)
	if n != m.pageSize {
		m.pageSize = n
		m.redraw = true
	}
}

// SetSnapshot replaces the sessions. The selection follows the selected
// session by key when it is still present.
func (m *Model) SetSnapshot(snap *snapshot.Snapshot) {
	var key string
	if cur := m.Current(); cur != nil {
		key = cur.Key()
	}
	m.snap = snap
	m.refilter()

	if key != "" {
		for i, s := range m.visible {
			if s.Key() == key {
				m.selected = i
				return
			}
		}
	}
	m.clamp()
}

// TakeRedraw reports and resets the full redraw flag.
func (m *Model) TakeRedraw() bool {
	r := m.redraw
	m.redraw = false
	return r
}

// HandleKeyMsg runs one keystroke through the state table and reports
// whether the dashboard should terminate.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) bool {
	action, arg := m.keys.Resolve(m.state, msg)
	m.Dispatch(action, arg)
	return m.state == StateTerminating
}

// Dispatch applies an action. Pairs missing from the state table are
// ignored.
func (m *Model) Dispatch(action Action, arg int) {
	t, ok := transitions[m.state][action]
	if !ok {
		return
	}
	if t.effect != nil && !t.effect(m, arg) {
		return
	}

	to := t.to
	if to == stateReturn {
		to = m.returnTo
	}
	if to == StateHelp {
		m.returnTo = m.state
	}
	if to != m.state {
		m.state = to
		m.redraw = true
	}
}

func (m *Model) clamp() {
	if len(m.visible) == 0 {
		m.selected = 0
		return
	}
	m.selected = min(max(m.selected, 0), len(m.visible)-1)
}

func (m *Model) refilter() {
	m.refilterAs(m.Filter())
}

// matches reports whether s fits the search query: a case-insensitive
// substring of the username or group, or a username one edit away.
func matches(s *session.Session, q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	name := strings.ToLower(s.Username)
	if strings.Contains(name, q) || strings.Contains(strings.ToLower(s.Group), q) {
		return true
	}
	return len(q) > 1 && util.LevenshteinDistance(name, q) <= 1
}

func (m *Model) jump(idx int) bool {
	if idx < 0 || idx >= len(m.visible) {
		m.SetMessage(fmt.Sprintf("no session #%d", idx))
		return false
	}
	m.selected = idx
	return true
}

func (m *Model) open(int) bool {
	if len(m.visible) == 0 {
		m.SetMessage("No users logged in")
		return false
	}
	return true
}

func (m *Model) moveBy(delta int) bool {
	m.selected += delta
	m.clamp()
	return true
}

func (m *Model) pageBy(dir int) bool {
	m.selected += dir * m.pageSize
	m.clamp()
	return true
}

func (m *Model) home(int) bool {
	m.selected = 0
	return true
}

func (m *Model) end(int) bool {
	m.selected = len(m.visible) - 1
	m.clamp()
	return true
}

func (m *Model) next(int) bool {
	if len(m.visible) == 0 {
		return true
	}
	m.selected = (m.selected + 1) % len(m.visible)
	return true
}

func (m *Model) prev(int) bool {
	m.selected = max(m.selected-1, 0)
	return true
}

func (m *Model) kill(int) bool {
	cur := m.Current()
	if cur == nil {
		m.SetMessage("Session not found")
		return true
	}
	r := m.kicker.KickSession(cur)
	m.SetMessage(r.Message())
	return r.Outcome != kick.PermissionDenied
}

func (m *Model) forceRedraw(int) bool {
	m.redraw = true
	return true
}

func (m *Model) invalidKey(int) bool {
	m.SetMessage("Invalid key, press h for help")
	return true
}

func (m *Model) startSearch(int) bool {
	m.search = m.filter
	return true
}

func (m *Model) searchInput(r int) bool {
	m.search += string(rune(r))
	m.selected = 0
	m.refilterAs(m.search)
	return true
}

func (m *Model) searchDelete(int) bool {
	if m.search != "" {
		_, size := utf8.DecodeLastRuneInString(m.search)
		m.search = m.search[:len(m.search)-size]
	}
	m.refilterAs(m.search)
	return true
}

func (m *Model) searchCommit(int) bool {
	m.filter = m.search
	m.selected = 0
	m.refilterAs(m.filter)
	return true
}

func (m *Model) searchCancel(int) bool {
	m.search = ""
	m.refilterAs(m.filter)
	return true
}

// refilterAs filters with q regardless of the current state; effects run
// before the state changes.
func (m *Model) refilterAs(q string) {
	m.visible = nil
	for _, s := range m.snap.Listed() {
		if matches(s, q) {
			m.visible = append(m.visible, s)
		}
	}
	m.clamp()
}
