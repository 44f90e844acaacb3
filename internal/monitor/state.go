package monitor

// State is the mode of the dashboard.
type State int

const (
	StateList State = iota
	StateDetail
	StateHelp
	StateSearch
	StateTerminating
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateList:
		return "list"
	case StateDetail:
		return "detail"
	case StateHelp:
		return "help"
	case StateSearch:
		return "search"
	case StateTerminating:
		return "terminating"
	default:
		return "unknown"
	}
}

// Action is what a keystroke means in the current state.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionBack
	ActionOpen
	ActionJump
	ActionNext
	ActionPrev
	ActionKill
	ActionHelp
	ActionDismiss
	ActionUp
	ActionDown
	ActionPageUp
	ActionPageDown
	ActionHome
	ActionEnd
	ActionSearch
	ActionSearchInput
	ActionSearchDelete
	ActionSearchCommit
	ActionSearchCancel
	ActionRedraw
	ActionInvalid
)

// stateReturn is a pseudo target: go back to the state that opened help.
const stateReturn State = -1

// transition is one row of the state table. effect runs before the state
// changes; returning false vetoes the change.
type transition struct {
	to     State
	effect func(m *Model, arg int) bool
}

// transitions is the complete state table. A (state, action) pair that is
// not listed is ignored.
var transitions = map[State]map[Action]transition{
	StateList: {
		ActionJump:     {StateDetail, (*Model).jump},
		ActionOpen:     {StateDetail, (*Model).open},
		ActionHelp:     {StateHelp, nil},
		ActionUp:       {StateList, (*Model).moveBy},
		ActionDown:     {StateList, (*Model).moveBy},
		ActionPageUp:   {StateList, (*Model).pageBy},
		ActionPageDown: {StateList, (*Model).pageBy},
		ActionHome:     {StateList, (*Model).home},
		ActionEnd:      {StateList, (*Model).end},
		ActionSearch:   {StateSearch, (*Model).startSearch},
		ActionQuit:     {StateTerminating, nil},
		ActionRedraw:   {StateList, (*Model).forceRedraw},
		ActionInvalid:  {StateList, (*Model).invalidKey},
	},
	StateDetail: {
		ActionNext:   {StateDetail, (*Model).next},
		ActionPrev:   {StateDetail, (*Model).prev},
		ActionKill:   {StateList, (*Model).kill},
		ActionHelp:   {StateHelp, nil},
		ActionBack:   {StateList, nil},
		ActionQuit:   {StateTerminating, nil},
		ActionRedraw: {StateDetail, (*Model).forceRedraw},
	},
	StateHelp: {
		ActionDismiss: {stateReturn, nil},
	},
	StateSearch: {
		ActionSearchInput:  {StateSearch, (*Model).searchInput},
		ActionSearchDelete: {StateSearch, (*Model).searchDelete},
		ActionSearchCommit: {StateList, (*Model).searchCommit},
		ActionSearchCancel: {StateList, (*Model).searchCancel},
		ActionQuit:         {StateTerminating, nil},
	},
}
