package core

// Action is a semantic input, decoupled from physical keys.
type Action int

const (
	ActionNone Action = iota

	// Paddle movement. Each paddle owns a pair of actions along its axis.
	ActionBottomLeft
	ActionBottomRight
	ActionTopLeft
	ActionTopRight
	ActionLeftUp
	ActionLeftDown
	ActionRightUp
	ActionRightDown

	ActionBump    // space: bump every active paddle
	ActionConfirm // enter
	ActionBack    // esc in menus
	ActionRestart // r after game over
	ActionQuit    // q, ctrl+c
	ActionPause   // p, esc in game
)

var actionNames = map[Action]string{
	ActionNone:        "None",
	ActionBottomLeft:  "BottomLeft",
	ActionBottomRight: "BottomRight",
	ActionTopLeft:     "TopLeft",
	ActionTopRight:    "TopRight",
	ActionLeftUp:      "LeftUp",
	ActionLeftDown:    "LeftDown",
	ActionRightUp:     "RightUp",
	ActionRightDown:   "RightDown",
	ActionBump:        "Bump",
	ActionConfirm:     "Confirm",
	ActionBack:        "Back",
	ActionRestart:     "Restart",
	ActionQuit:        "Quit",
	ActionPause:       "Pause",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return "Unknown"
}

// InputFrame is the set of actions triggered during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions != nil && f.Actions[a]
}

// Axis folds a negative/positive action pair into -1, 0 or 1.
func (f InputFrame) Axis(neg, pos Action) int {
	d := 0
	if f.Has(neg) {
		d--
	}
	if f.Has(pos) {
		d++
	}
	return d
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
