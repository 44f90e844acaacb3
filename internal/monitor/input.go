package monitor

import (
	"context"
	stderrors "errors"
	"io"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/cancelreader"
)

// Input delivers keystrokes to the dashboard loop.
type Input interface {
	// Next waits up to timeout for a key. ok is false on timeout.
	Next(ctx context.Context, timeout time.Duration) (msg tea.KeyMsg, ok bool, err error)
}

// escapeSequences maps CSI and SS3 sequences (without the leading ESC) to
// key types. Both xterm and vt220 spellings of home/end are accepted.
var escapeSequences = map[string]tea.KeyType{
	"[A": tea.KeyUp, "[B": tea.KeyDown, "[C": tea.KeyRight, "[D": tea.KeyLeft,
	"OA": tea.KeyUp, "OB": tea.KeyDown, "OC": tea.KeyRight, "OD": tea.KeyLeft,
	"[H": tea.KeyHome, "OH": tea.KeyHome, "[1~": tea.KeyHome, "[7~": tea.KeyHome,
	"[F": tea.KeyEnd, "OF": tea.KeyEnd, "[4~": tea.KeyEnd, "[8~": tea.KeyEnd,
	"[5~": tea.KeyPgUp, "[6~": tea.KeyPgDown,
	"[3~": tea.KeyDelete, "[2~": tea.KeyInsert,
	"[Z": tea.KeyShiftTab,
}

// DecodeKeys turns raw terminal input into key messages. One read can hold
// several keys when the user types fast or pastes. Unknown escape sequences
// are dropped.
func DecodeKeys(b []byte) []tea.KeyMsg {
	var keys []tea.KeyMsg
	for len(b) > 0 {
		msg, n := decodeKey(b)
		b = b[n:]
		if msg != nil {
			keys = append(keys, *msg)
		}
	}
	return keys
}

func decodeKey(b []byte) (*tea.KeyMsg, int) {
	switch c := b[0]; {
	case c == 0x1b:
		if len(b) == 1 {
			return &tea.KeyMsg{Type: tea.KeyEsc}, 1
		}
		if b[1] == '[' || b[1] == 'O' {
			n := sequenceLen(b)
			if t, ok := escapeSequences[string(b[1:n])]; ok {
				return &tea.KeyMsg{Type: t}, n
			}
			return nil, n
		}
		// No alt bindings: ESC and a key read together are two keys.
		return &tea.KeyMsg{Type: tea.KeyEsc}, 1
	case c == '\r' || c == '\n':
		return &tea.KeyMsg{Type: tea.KeyEnter}, 1
	case c == 0x7f:
		return &tea.KeyMsg{Type: tea.KeyBackspace}, 1
	case c == ' ':
		return &tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, 1
	case c < 0x20:
		return &tea.KeyMsg{Type: tea.KeyType(c)}, 1
	}

	r, n := utf8.DecodeRune(b)
	if r == utf8.RuneError {
		return nil, n
	}
	return &tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, n
}

// sequenceLen returns the length of the CSI/SS3 sequence at the start of b:
// ESC, the introducer, parameters, and one final byte.
func sequenceLen(b []byte) int {
	if b[1] == 'O' {
		return min(3, len(b))
	}
	for i := 2; i < len(b); i++ {
		if b[i] >= 0x40 && b[i] <= 0x7e {
			return i + 1
		}
	}
	return len(b)
}

// RawInput reads keys from a terminal in raw mode. A background goroutine
// owns the reader; Close cancels the pending read so the goroutine exits.
type RawInput struct {
	reader cancelreader.CancelReader
	keys   chan tea.KeyMsg
	errs   chan error
	done   chan struct{}
}

// NewRawInput starts reading from r.
func NewRawInput(r io.Reader) (*RawInput, error) {
	cr, err := cancelreader.NewReader(r)
	if err != nil {
		return nil, err
	}
	in := &RawInput{
		reader: cr,
		keys:   make(chan tea.KeyMsg, 64),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go in.loop()
	return in, nil
}

func (in *RawInput) loop() {
	defer close(in.done)
	buf := make([]byte, 256)
	for {
		n, err := in.reader.Read(buf)
		for _, k := range DecodeKeys(buf[:n]) {
			select {
			case in.keys <- k:
			default:
				// loop is not keeping up; drop the key
			}
		}
		if err != nil {
			if !stderrors.Is(err, cancelreader.ErrCanceled) {
				in.errs <- err
			}
			return
		}
	}
}

// Next implements Input.
func (in *RawInput) Next(ctx context.Context, timeout time.Duration) (tea.KeyMsg, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case k := <-in.keys:
		return k, true, nil
	case err := <-in.errs:
		return tea.KeyMsg{}, false, err
	case <-timer.C:
		return tea.KeyMsg{}, false, nil
	case <-ctx.Done():
		return tea.KeyMsg{}, false, ctx.Err()
	}
}

// Close stops the reader goroutine.
func (in *RawInput) Close() error {
	if in.reader.Cancel() {
		<-in.done
	}
	return in.reader.Close()
}
