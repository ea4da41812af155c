// Package registry maps game mode ids to constructors. Modes register from
// init, so the CLI and the SSH server find them without importing each one
// by name.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/videobydak/castle-pong/internal/core"
)

// ErrUnknownGame is returned by Create for an id nobody registered.
var ErrUnknownGame = errors.New("registry: unknown game")

// Game is one playable mode. Implementations hold pure simulation state;
// the platform owns input mapping, timing and drawing to a terminal.
type Game interface {
	// ID is the stable key used on the command line and in the score table,
	// e.g. "siege" or "siege_endless".
	ID() string
	Title() string

	// Reset starts a fresh game for the screen size and seed in cfg. It is
	// also how a finished game is restarted.
	Reset(cfg core.RuntimeConfig)

	// Step advances one fixed tick with the actions held this tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a cleared screen.
	Render(dst *core.Screen)

	State() core.GameState
}

// Resizer is implemented by games that keep their state when the terminal
// changes size. Other games are reset on resize.
type Resizer interface {
	Resize(w, h int)
}

// GameInfo describes a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory returns a new, not yet reset, game.
type Factory func() Game

type entry struct {
	info GameInfo
	make Factory
}

var (
	mu      sync.RWMutex
	entries = map[string]entry{}
)

// Register adds a game under id. The title is read once from a throwaway
// instance. Registering an id twice panics.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, dup := entries[id]; dup {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	entries[id] = entry{
		info: GameInfo{ID: id, Title: f().Title()},
		make: f,
	}
}

// List returns every registered game ordered by id.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]GameInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.info)
	}
	slices.SortFunc(out, func(a, b GameInfo) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Create builds a new game. Unknown ids wrap ErrUnknownGame.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownGame, id)
	}
	return e.make(), nil
}

func Exists(id string) bool {
	_, ok := Info(id)
	return ok
}

// Info returns the metadata registered for id.
func Info(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	return e.info, ok
}
