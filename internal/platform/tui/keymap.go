package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/videobydak/castle-pong/internal/core"
)

// HoldTicks is how long a movement key stays pressed after its last key
// event. Terminals only report repeats, so without it paddles would stutter
// between repeat events.
const HoldTicks = 9

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a game action.
// Returns the action (may be ActionNone) and whether it's a quit request.
//
//	bottom paddle  left/right arrows
//	top paddle     a/d
//	left paddle    w/s
//	right paddle   up/down arrows
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "left":
		return core.ActionBottomLeft, false
	case "right":
		return core.ActionBottomRight, false
	case "a":
		return core.ActionTopLeft, false
	case "d":
		return core.ActionTopRight, false
	case "w":
		return core.ActionLeftUp, false
	case "s":
		return core.ActionLeftDown, false
	case "up":
		return core.ActionRightUp, false
	case "down":
		return core.ActionRightDown, false
	case " ":
		return core.ActionBump, false
	case "enter":
		return core.ActionConfirm, false
	case "b":
		return core.ActionBack, false
	case "p", "esc":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}

	return core.ActionNone, false
}

// IsMovement reports whether a is a paddle movement action.
func IsMovement(a core.Action) bool {
	return a >= core.ActionBottomLeft && a <= core.ActionRightDown
}

// HeldInput accumulates key events between ticks. Movement actions stay
// set for HoldTicks ticks; everything else fires on one tick only.
type HeldInput struct {
	frame core.InputFrame
	held  map[core.Action]int
}

// NewHeldInput creates an empty input accumulator.
func NewHeldInput() *HeldInput {
	return &HeldInput{
		frame: core.NewInputFrame(),
		held:  make(map[core.Action]int),
	}
}

// Press records an action.
func (h *HeldInput) Press(a core.Action) {
	if a == core.ActionNone {
		return
	}
	if IsMovement(a) {
		h.held[a] = HoldTicks
		// The opposite direction is released at once.
		delete(h.held, opposite(a))
		return
	}
	h.frame.Set(a)
}

// Frame returns the input for the next tick and ages the held keys.
func (h *HeldInput) Frame() core.InputFrame {
	out := h.frame.Clone()
	h.frame.Clear()
	for a, left := range h.held {
		out.Set(a)
		if left <= 1 {
			delete(h.held, a)
		} else {
			h.held[a] = left - 1
		}
	}
	return out
}

// Reset drops every pending and held action.
func (h *HeldInput) Reset() {
	h.frame.Clear()
	clear(h.held)
}

func opposite(a core.Action) core.Action {
	switch a {
	case core.ActionBottomLeft:
		return core.ActionBottomRight
	case core.ActionBottomRight:
		return core.ActionBottomLeft
	case core.ActionTopLeft:
		return core.ActionTopRight
	case core.ActionTopRight:
		return core.ActionTopLeft
	case core.ActionLeftUp:
		return core.ActionLeftDown
	case core.ActionLeftDown:
		return core.ActionLeftUp
	case core.ActionRightUp:
		return core.ActionRightDown
	case core.ActionRightDown:
		return core.ActionRightUp
	}
	return core.ActionNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
