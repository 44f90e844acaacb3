package monitor

// Renderer draws frames onto a Screen. A full redraw clears the screen;
// otherwise the cursor moves back up over the previous frame, which must
// therefore be counted exactly, and erases it before drawing the new one.
type Renderer struct {
	screen    Screen
	prevLines int
	drawn     bool
}

// NewRenderer creates a renderer for screen.
func NewRenderer(screen Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws lines. full forces a clear-and-redraw.
func (r *Renderer) Render(lines []string, full bool) error {
	if full || !r.drawn {
		r.screen.Clear()
	} else {
		r.screen.MoveUp(r.prevLines)
		r.screen.ClearDown()
	}

	for _, l := range lines {
		r.screen.WriteLine(l)
	}
	r.prevLines = len(lines)
	r.drawn = true
	return r.screen.Flush()
}

// PrevLines returns the line count of the last frame.
func (r *Renderer) PrevLines() int {
	return r.prevLines
}
