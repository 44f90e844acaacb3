// Package testing provides test doubles for the monitor package.
package testing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Op is one recorded screen operation.
type Op struct {
	Kind string // "clear", "up", "cleardown", "line", "flush"
	N    int
	Line string
}

func (o Op) String() string {
	switch o.Kind {
	case "up":
		return fmt.Sprintf("up(%d)", o.N)
	case "line":
		return "line(" + o.Line + ")"
	default:
		return o.Kind
	}
}

// RecordingScreen records operations and keeps a virtual copy of what is
// visible, so tests can check both the cursor math and the result.
type RecordingScreen struct {
	mu     sync.Mutex
	Ops    []Op
	lines  []string
	cursor int
}

// NewRecordingScreen creates an empty screen.
func NewRecordingScreen() *RecordingScreen {
	return &RecordingScreen{}
}

func (s *RecordingScreen) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ops = append(s.Ops, Op{Kind: "clear"})
	s.lines = nil
	s.cursor = 0
}

func (s *RecordingScreen) MoveUp(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ops = append(s.Ops, Op{Kind: "up", N: n})
	s.cursor = max(s.cursor-n, 0)
}

func (s *RecordingScreen) ClearDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ops = append(s.Ops, Op{Kind: "cleardown"})
	if s.cursor < len(s.lines) {
		s.lines = s.lines[:s.cursor]
	}
}

func (s *RecordingScreen) WriteLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ops = append(s.Ops, Op{Kind: "line", Line: line})
	if s.cursor < len(s.lines) {
		s.lines[s.cursor] = line
	} else {
		s.lines = append(s.lines, line)
	}
	s.cursor++
}

func (s *RecordingScreen) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ops = append(s.Ops, Op{Kind: "flush"})
	return nil
}

// Lines returns the visible lines.
func (s *RecordingScreen) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// Text returns the visible lines joined by newlines.
func (s *RecordingScreen) Text() string {
	return strings.Join(s.Lines(), "\n")
}

// Cursor returns the line the cursor is on.
func (s *RecordingScreen) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Count returns how often an operation kind was recorded.
func (s *RecordingScreen) Count(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, op := range s.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset forgets recorded operations but keeps the visible lines.
func (s *RecordingScreen) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ops = nil
}

// ScriptedInput plays back keys, one per Next call. An empty slot in the
// script is a timeout. After the script ends every call times out.
type ScriptedInput struct {
	mu    sync.Mutex
	keys  []*tea.KeyMsg
	calls int
}

// Keys builds a script from key strings: single characters are runes,
// names like "enter", "esc", "up" or "ctrl+c" are special keys, and ""
// is a timeout.
func Keys(names ...string) *ScriptedInput {
	in := &ScriptedInput{}
	for _, n := range names {
		if n == "" {
			in.keys = append(in.keys, nil)
			continue
		}
		k := Key(n)
		in.keys = append(in.keys, &k)
	}
	return in
}

// Next implements the monitor Input interface.
func (in *ScriptedInput) Next(ctx context.Context, _ time.Duration) (tea.KeyMsg, bool, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return tea.KeyMsg{}, false, err
	}
	in.calls++
	if len(in.keys) == 0 {
		return tea.KeyMsg{}, false, nil
	}
	k := in.keys[0]
	in.keys = in.keys[1:]
	if k == nil {
		return tea.KeyMsg{}, false, nil
	}
	return *k, true, nil
}

// Remaining returns how many scripted entries are left.
func (in *ScriptedInput) Remaining() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.keys)
}

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"pgup":      tea.KeyPgUp,
	"pgdown":    tea.KeyPgDown,
	"backspace": tea.KeyBackspace,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+l":    tea.KeyCtrlL,
}

// Key builds a key message from its name.
func Key(name string) tea.KeyMsg {
	if t, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: t}
	}
	if name == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}
