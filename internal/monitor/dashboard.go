package monitor

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/glftpd/glspy/internal/errors"
	"github.com/glftpd/glspy/internal/logger"
	"github.com/glftpd/glspy/internal/snapshot"
)

// Collector produces one snapshot per refresh.
type Collector interface {
	Collect(ctx context.Context) *snapshot.Snapshot
}

// Options configures a Dashboard.
type Options struct {
	Refresh time.Duration
	Search  bool
	Log     logger.Logger
	// Now defaults to time.Now; tests pin it to expire messages.
	Now func() time.Time
	// Size reports the terminal size; nil keeps the view's size.
	Size func() (width, height int)
}

// Dashboard is the interactive refresh loop.
type Dashboard struct {
	model     *Model
	view      *View
	renderer  *Renderer
	collector Collector
	input     Input
	opts      Options

	lastState State
}

// New creates a dashboard. view supplies theme and layout; input delivers
// keys.
func New(collector Collector, kicker Kicker, view *View, screen Screen, input Input, opts Options) *Dashboard {
	if opts.Refresh <= 0 {
		opts.Refresh = 500 * time.Millisecond
	}
	if opts.Log == nil {
		opts.Log = logger.Noop()
	}
	keys := DefaultKeyMap(opts.Search)
	view.keys = keys
	return &Dashboard{
		model:     NewModel(keys, kicker, opts.Now),
		view:      view,
		renderer:  NewRenderer(screen),
		collector: collector,
		input:     input,
		opts:      opts,
	}
}

// Model returns the dashboard state.
func (d *Dashboard) Model() *Model { return d.model }

// Step runs one cycle: collect, render, wait up to the refresh interval for
// a key, dispatch it. It reports whether the dashboard reached the
// terminating state. Per-cycle failures are rendered, not returned; only a
// broken screen or input ends the loop with an error.
func (d *Dashboard) Step(ctx context.Context) (bool, error) {
	if d.opts.Size != nil {
		if w, h := d.opts.Size(); w > 0 && h > 0 && (w != d.view.Width || h != d.view.Height) {
			d.view.Width, d.view.Height = w, h
			d.model.redraw = true
		}
	}
	d.model.SetPageSize(d.view.PageSize())

	snap := d.collector.Collect(ctx)
	if snap.Err != nil && !snap.Unavailable() {
		d.opts.Log.Warn("refresh: %v", snap.Err)
	}
	d.model.SetSnapshot(snap)

	if err := d.render(); err != nil {
		return true, errors.WrapWithCode(err, errors.ErrTerminal, "Couldn't draw the dashboard", "")
	}

	msg, ok, err := d.input.Next(ctx, d.opts.Refresh)
	if err != nil {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return true, nil
		}
		return true, errors.WrapWithCode(err, errors.ErrTerminal, "Couldn't read from the terminal", "")
	}
	if !ok {
		return false, nil
	}
	return d.model.HandleKeyMsg(msg), nil
}

func (d *Dashboard) render() error {
	full := d.model.TakeRedraw() || d.model.State() != d.lastState
	d.lastState = d.model.State()
	return d.renderer.Render(d.view.Frame(d.model), full)
}

// Run loops until quit, a termination signal or ctx ends.
func (d *Dashboard) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGHUP, os.Interrupt)
	defer stop()

	for {
		done, err := d.Step(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// RunTerminal runs a dashboard on a real terminal. Raw mode, the input
// reader and the hidden cursor are released on every return path.
func RunTerminal(ctx context.Context, in, out *os.File, collector Collector, kicker Kicker, view *View, opts Options) error {
	restore, err := RawMode(int(in.Fd()))
	if err != nil {
		return err
	}
	defer restore()

	input, err := NewRawInput(in)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrTerminal, "Couldn't read from the terminal", "")
	}
	defer input.Close()

	screen := NewTermScreen(out)
	screen.HideCursor()
	defer func() {
		screen.ShowCursor()
		_ = screen.Flush()
	}()

	if opts.Size == nil {
		opts.Size = TerminalSize(int(out.Fd()))
	}
	return New(collector, kicker, view, screen, input, opts).Run(ctx)
}

// RawMode puts the terminal behind fd into raw mode. The returned function
// restores it and is safe to call more than once.
func RawMode(fd int) (func(), error) {
	if !term.IsTerminal(fd) {
		return nil, errors.New(errors.ErrTerminal,
			"Standard input is not a terminal",
			"Use 'glspy snapshot' for non-interactive output")
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTerminal,
			"Couldn't switch the terminal to raw mode", "")
	}
	restored := false
	return func() {
		if !restored {
			restored = true
			_ = term.Restore(fd, old)
		}
	}, nil
}

// TerminalSize returns a Size function for fd.
func TerminalSize(fd int) func() (int, int) {
	return func() (int, int) {
		w, h, err := term.GetSize(fd)
		if err != nil {
			return 0, 0
		}
		return w, h
	}
}
