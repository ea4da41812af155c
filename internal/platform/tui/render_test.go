package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/videobydak/castle-pong/internal/core"
)

func TestScreenRendererPlainOutput(t *testing.T) {
	s := core.NewScreen(12, 3)
	s.DrawTextColored(1, 0, "castle", core.ColorOrange)
	s.DrawTextColored(7, 0, "!", core.ColorRed)
	s.DrawText(0, 2, "wall")

	// A renderer that is not writing to a terminal drops colour.
	sr := NewScreenRenderer(lipgloss.NewRenderer(&bytes.Buffer{}))
	got := sr.Render(s)

	if got != s.String() {
		t.Errorf("Render() =\n%q\nwant\n%q", got, s.String())
	}
	if n := strings.Count(got, "\n"); n != 2 {
		t.Errorf("Render() has %d newlines, want 2", n)
	}
}

func TestScreenRendererUnknownColour(t *testing.T) {
	sr := NewScreenRenderer(lipgloss.NewRenderer(&bytes.Buffer{}))
	if got := sr.style(core.Color(200)).Render("x"); got != "x" {
		t.Errorf("style(200).Render(x) = %q, want plain x", got)
	}
}

func TestRenderScreenSharesDefault(t *testing.T) {
	if defaultRenderer() != defaultRenderer() {
		t.Error("defaultRenderer() built twice")
	}
	s := core.NewScreen(4, 1)
	s.DrawText(0, 0, "ok")
	if got := RenderScreen(s); !strings.Contains(got, "ok") {
		t.Errorf("RenderScreen() = %q, want it to contain ok", got)
	}
}
