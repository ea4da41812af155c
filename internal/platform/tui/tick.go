// Package tui provides the Bubble Tea integration for castle pong: the game
// loop, key handling, menus and the SSH server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick. Gen identifies the
// tick chain, so a chain left over from an earlier game is dropped instead
// of doubling the speed of the next one.
type TickMsg struct {
	Time time.Time
	Gen  int
}

// tickCmd returns a Bubble Tea command that sends one tick for chain gen
// after a tick interval.
func tickCmd(tickRate, gen int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Gen: gen}
	})
}

// genCounter hands out tick chain ids. SSH sessions share it.
var genCounter atomic.Int64

func newGen() int {
	return int(genCounter.Add(1))
}
