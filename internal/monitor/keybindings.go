package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap holds the dashboard key bindings. The same key can mean different
// things per state ('k' kills in the detail view only), so bindings are
// resolved per state in Resolve.
type KeyMap struct {
	Quit       key.Binding
	QuitDetail key.Binding
	Back       key.Binding
	Open       key.Binding
	Next       key.Binding
	Prev       key.Binding
	Kill       key.Binding
	Help       key.Binding
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Home       key.Binding
	End        key.Binding
	Search     key.Binding
	Redraw     key.Binding
	Commit     key.Binding
	Cancel     key.Binding
	Delete     key.Binding
	Jump       key.Binding
}

// DefaultKeyMap returns the standard bindings. Letter keys also work
// uppercase. search toggles '/'.
func DefaultKeyMap(search bool) KeyMap {
	km := KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		QuitDetail: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Open: key.NewBinding(
			key.WithKeys("v", "V", "enter", "right"),
			key.WithHelp("v/enter", "view"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "N", "right"),
			key.WithHelp("n/→", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p", "P", "left"),
			key.WithHelp("p/←", "prev"),
		),
		Kill: key.NewBinding(
			key.WithKeys("k", "K"),
			key.WithHelp("k", "kill"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "H", "?"),
			key.WithHelp("h/?", "help"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑/↓", "select"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup/pgdn", "page"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Redraw: key.NewBinding(
			key.WithKeys("ctrl+l"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Delete: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
		),
		Jump: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "jump"),
		),
	}
	km.Search.SetEnabled(search)
	return km
}

// ShortHelp returns the bindings shown in the footer of state s.
func (km KeyMap) ShortHelp(s State) []key.Binding {
	switch s {
	case StateDetail:
		return []key.Binding{km.Next, km.Prev, km.Kill, km.Back, km.Help, km.QuitDetail}
	case StateSearch:
		return []key.Binding{km.Commit, km.Cancel}
	default:
		return []key.Binding{km.Jump, km.Open, km.Up, km.PageUp, km.Search, km.Help, km.Quit}
	}
}

// Resolve maps a keystroke to an action in state s. The int is the action
// argument: the digit of a jump, the direction of a move, or the rune typed
// into the search buffer.
func (km KeyMap) Resolve(s State, msg tea.KeyMsg) (Action, int) {
	switch s {
	case StateHelp:
		return ActionDismiss, 0

	case StateSearch:
		switch {
		case key.Matches(msg, km.Commit):
			return ActionSearchCommit, 0
		case key.Matches(msg, km.Cancel):
			return ActionSearchCancel, 0
		case key.Matches(msg, km.Delete):
			return ActionSearchDelete, 0
		case msg.String() == "ctrl+c":
			return ActionQuit, 0
		case (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) && !msg.Alt && len(msg.Runes) == 1:
			return ActionSearchInput, int(msg.Runes[0])
		}
		return ActionNone, 0

	case StateDetail:
		switch {
		case key.Matches(msg, km.Next):
			return ActionNext, 1
		case key.Matches(msg, km.Prev):
			return ActionPrev, -1
		case key.Matches(msg, km.Kill):
			return ActionKill, 0
		case key.Matches(msg, km.Help):
			return ActionHelp, 0
		case key.Matches(msg, km.Back):
			return ActionBack, 0
		case key.Matches(msg, km.QuitDetail):
			return ActionQuit, 0
		case key.Matches(msg, km.Redraw):
			return ActionRedraw, 0
		}
		return ActionNone, 0

	case StateList:
		switch {
		case key.Matches(msg, km.Jump):
			return ActionJump, int(msg.Runes[0] - '0')
		case key.Matches(msg, km.Open):
			return ActionOpen, 0
		case key.Matches(msg, km.Help):
			return ActionHelp, 0
		case key.Matches(msg, km.Up):
			return ActionUp, -1
		case key.Matches(msg, km.Down):
			return ActionDown, 1
		case key.Matches(msg, km.PageUp):
			return ActionPageUp, -1
		case key.Matches(msg, km.PageDown):
			return ActionPageDown, 1
		case key.Matches(msg, km.Home):
			return ActionHome, 0
		case key.Matches(msg, km.End):
			return ActionEnd, 0
		case key.Matches(msg, km.Search):
			return ActionSearch, 0
		case key.Matches(msg, km.Quit):
			return ActionQuit, 0
		case key.Matches(msg, km.Redraw):
			return ActionRedraw, 0
		}
		return ActionInvalid, 0
	}
	return ActionNone, 0
}
