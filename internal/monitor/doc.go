// Package monitor implements the interactive glspy dashboard.
//
// The dashboard is a finite state machine driven by one keystroke per
// refresh cycle. It does not use a Bubble Tea program: the loop is
// synchronous so that a snapshot is read, rendered and acted on in a fixed
// order, and so the terminal is only ever written by one goroutine.
// Bubble Tea and Bubbles still supply the key model (tea.KeyMsg, key.Binding)
// and the footer help.
//
// # Cycle
//
//  1. Collector.Collect reads and decodes the online table
//  2. View.Frame builds the lines of the current state
//  3. Renderer draws them, fully or incrementally
//  4. Input.Next waits up to the refresh interval for a key
//  5. Model.HandleKeyMsg runs the key through the state table
//
// # States
//
//	StateList        - session list with paging (initial)
//	StateDetail      - one session, with kill
//	StateHelp        - key reference; any key returns to the caller
//	StateSearch      - typing a user/group filter
//	StateTerminating - quit
//
// Transitions live in one table (state.go) keyed by state and action.
//
// # Rendering
//
// Incremental redraws move the cursor up by the previous frame's line
// count and erase downward, so every frame has a fixed shape: the list is
// padded with empty rows to the page size and lines are truncated to the
// terminal width. The Screen interface hides the escape sequences; tests
// use a recording screen from monitor/testing.
package monitor
