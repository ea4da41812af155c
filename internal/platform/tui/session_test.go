package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/videobydak/castle-pong/internal/core"
	_ "github.com/videobydak/castle-pong/internal/games/castle"
)

func testSession() SessionModel {
	cfg := core.RuntimeConfig{ScreenW: 120, ScreenH: 40, TickRate: 60}
	return NewSessionModel(nil, cfg, nil)
}

func send(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return sm, cmd
}

func TestSessionScoreboardRoundTrip(t *testing.T) {
	m := testSession()

	m, _ = send(t, m, key("tab"))
	if m.screen != screenScores {
		t.Fatalf("screen after tab = %d, want scores", m.screen)
	}
	if !strings.Contains(m.View(), "HIGH SCORES") {
		t.Error("scoreboard view missing title")
	}

	m, _ = send(t, m, key("r"))
	if !strings.Contains(m.View(), "SIMULATION RUNS") {
		t.Error("r did not switch to the runs view")
	}

	m, cmd := send(t, m, key("esc"))
	if m.screen != screenMenu || m.quitting {
		t.Fatalf("esc: screen=%d quitting=%v, want menu", m.screen, m.quitting)
	}
	if cmd != nil {
		if _, isQuit := cmd().(tea.QuitMsg); isQuit {
			t.Error("leaving the scoreboard quit the session")
		}
	}
}

func TestSessionGameBackToMenu(t *testing.T) {
	m := testSession()

	m, _ = send(t, m, key("enter"))
	if m.screen != screenGame {
		t.Fatalf("screen after enter = %d, want game", m.screen)
	}

	// b only leaves a game that is paused or over.
	m, _ = send(t, m, key("b"))
	if m.screen != screenGame {
		t.Fatal("b left a running game")
	}

	m, _ = send(t, m, key("p"))
	m, _ = send(t, m, TickMsg{Time: time.Now(), Gen: m.game.gen})
	if !m.game.GameState().Paused {
		t.Fatal("game not paused after p and a tick")
	}

	m, _ = send(t, m, key("b"))
	if m.screen != screenMenu {
		t.Errorf("screen after b while paused = %d, want menu", m.screen)
	}
}

func TestSessionDropsStaleTicks(t *testing.T) {
	m := testSession()
	m, _ = send(t, m, key("enter"))

	_, cmd := send(t, m, TickMsg{Time: time.Now(), Gen: m.game.gen - 1})
	if cmd != nil {
		t.Error("stale tick scheduled another tick")
	}
	_, cmd = send(t, m, TickMsg{Time: time.Now(), Gen: m.game.gen})
	if cmd == nil {
		t.Error("current tick did not schedule the next one")
	}
}

func TestSessionQuit(t *testing.T) {
	m := testSession()
	m, cmd := send(t, m, key("q"))
	if !m.quitting || cmd == nil {
		t.Fatal("q did not quit the session")
	}
	if m.View() != "" {
		t.Error("View() after quit not empty")
	}
}
