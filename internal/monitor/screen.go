package monitor

import (
	"bufio"
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Screen is the terminal capability the renderer draws with. Keeping it
// this small lets frames be tested without a terminal.
type Screen interface {
	// Clear erases the screen and homes the cursor.
	Clear()
	// MoveUp moves the cursor to the start of the line n lines up.
	MoveUp(n int)
	// ClearDown erases from the cursor to the end of the screen.
	ClearDown()
	// WriteLine writes one line and moves to the start of the next.
	WriteLine(s string)
	// Flush sends buffered output to the terminal.
	Flush() error
}

// TermScreen writes escape sequences through termenv. Output is buffered
// per frame so a redraw reaches the terminal in one write.
type TermScreen struct {
	buf *bufio.Writer
	out *termenv.Output
}

// NewTermScreen creates a screen writing to w. Lines end in CRLF because
// the terminal is in raw mode and does not translate newlines.
func NewTermScreen(w io.Writer) *TermScreen {
	buf := bufio.NewWriterSize(w, 16*1024)
	return &TermScreen{
		buf: buf,
		out: termenv.NewOutput(buf),
	}
}

func (s *TermScreen) Clear() {
	s.out.ClearScreen()
}

func (s *TermScreen) MoveUp(n int) {
	if n > 0 {
		s.out.CursorPrevLine(n)
	}
}

func (s *TermScreen) ClearDown() {
	fmt.Fprintf(s.buf, termenv.CSI+termenv.EraseDisplaySeq, 0)
}

func (s *TermScreen) WriteLine(line string) {
	s.buf.WriteString(line)
	s.buf.WriteString("\r\n")
}

func (s *TermScreen) Flush() error {
	return s.buf.Flush()
}

// HideCursor hides the cursor until ShowCursor.
func (s *TermScreen) HideCursor() {
	s.out.HideCursor()
}

// ShowCursor restores the cursor.
func (s *TermScreen) ShowCursor() {
	s.out.ShowCursor()
}
