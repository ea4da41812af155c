package castle

import (
	"fmt"
	"strings"

	"github.com/videobydak/castle-pong/internal/core"
	"github.com/videobydak/castle-pong/internal/siege"
)

// Visual characters for rendering
const (
	DebrisChar     = '·'
	HPaddleChar    = '='
	VPaddleChar    = '‖'
	BallChar       = '●'
	FireChar       = '✶'
	PotionChar     = '♦'
	PierceChar     = '◆'
	CannonChar     = 'ʘ'
	CannonIdleChar = 'o'
	BorderHoriz    = '─'
)

// Block glyphs by tier, lowest first.
var TierGlyphs = []rune{'░', '▒', '▓', '█'}

var castleColors = []core.Color{core.ColorYellow, core.ColorOrange, core.ColorRed, core.ColorBrightRed}

// viewport maps world pixels onto screen cells below the HUD row.
type viewport struct {
	sx, sy float64
	top    int
}

func (g *Game) viewport(dst *core.Screen) viewport {
	a := g.cfg.Arena
	return viewport{
		sx:  float64(dst.Width()) / a.Width,
		sy:  float64(dst.Height()-1) / a.Height,
		top: 1,
	}
}

func (v viewport) cell(p core.Vec2) (int, int) {
	return int(p.X * v.sx), v.top + int(p.Y*v.sy)
}

// rect returns the cells covered by box, at least one cell.
func (v viewport) rect(b core.Box) core.Rect {
	x0, y0 := v.cell(core.V(b.X, b.Y))
	x1, y1 := v.cell(core.V(b.Right()-0.001, b.Bottom()-0.001))
	return core.NewRect(x0, y0, max(1, x1-x0+1), max(1, y1-y0+1))
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.screenTooSmall {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", g.minScreenW, g.minScreenH)
		dst.DrawTextCentered(dst.Height()/2-1, msg, core.ColorDefault)
		dst.DrawTextCentered(dst.Height()/2+1, hint, core.ColorDefault)
		return
	}
	if g.sim == nil {
		return
	}

	v := g.viewport(dst)
	g.renderDebris(dst, v)
	g.renderStructure(dst, v, g.sim.Wall())
	g.renderStructure(dst, v, g.sim.Castle())
	g.renderCannons(dst, v)
	g.renderPaddles(dst, v)
	g.renderProjectiles(dst, v)
	g.renderHUD(dst)
	g.renderOverlay(dst)
}

func (g *Game) renderHUD(dst *core.Screen) {
	for x := range dst.Width() {
		dst.Set(x, 0, BorderHoriz)
	}
	dst.DrawText(1, 0, fmt.Sprintf(" Score: %d  Coins: %d ", g.score, g.coins))

	var waveText string
	if g.mode == ModeEndless {
		waveText = fmt.Sprintf(" Wave: %d ", g.wave)
	} else {
		waveText = fmt.Sprintf(" Wave: %d/%d ", g.wave, g.cfg.Gameplay.CampaignWaves)
	}
	dst.DrawText(dst.Width()-len(waveText)-1, 0, waveText)

	if g.msgMs > 0 && g.lastMsg != "" {
		dst.DrawTextCentered(0, " "+g.lastMsg+" ", core.ColorBrightYellow)
	} else if fx := g.effectsString(); fx != "" {
		dst.DrawTextCentered(0, " "+fx+" ", core.ColorBrightCyan)
	}
}

// effectsString lists active paddle powers, the barrier and time slow in
// seconds, and flags shots holding a reservation slot.
func (g *Game) effectsString() string {
	var parts []string
	potion, fire := g.sim.Battery().Reservations()
	if potion {
		parts = append(parts, "potion incoming")
	}
	if fire {
		parts = append(parts, "fire incoming")
	}
	if b := g.sim.Barrier(); b > 0 {
		parts = append(parts, fmt.Sprintf("barrier(%d)", int(b/1000)+1))
	}
	if g.slowMs > 0 {
		parts = append(parts, fmt.Sprintf("slow(%d)", int(g.slowMs/1000)+1))
	}
	for _, side := range siege.Sides {
		pd := g.sim.Paddle(side)
		if !pd.Active {
			continue
		}
		for _, k := range siege.PotionKinds {
			if ms := pd.PowerRemaining(k); ms > 0 {
				parts = append(parts, fmt.Sprintf("%s:%s(%d)", side, k, int(ms/1000)+1))
			}
		}
	}
	return strings.Join(parts, " ")
}

func (g *Game) renderDebris(dst *core.Screen, v viewport) {
	for _, p := range g.sim.Debris().Particles() {
		x, y := v.cell(p.Pos)
		dst.SetColored(x, y, DebrisChar, core.ColorGray)
	}
}

func (g *Game) renderStructure(dst *core.Screen, v viewport, s *siege.Structure) {
	for _, b := range s.Alive() {
		idx := core.Clamp(b.Tier-1, 0, len(TierGlyphs)-1)
		color := core.ColorWhite
		if s.Role() == siege.RoleCastle {
			color = castleColors[idx]
			if b.Rebuilt {
				color = core.ColorGray
			}
		}
		dst.DrawRect(v.rect(b.Box), TierGlyphs[idx], color)
	}
}

func (g *Game) renderCannons(dst *core.Screen, v viewport) {
	for _, c := range g.sim.Battery().Cannons() {
		if !c.Alive() {
			continue
		}
		x, y := v.cell(c.Pos)
		switch c.State {
		case siege.CannonCharging:
			color := core.ColorOrange
			if c.ChargeProgress() > 0.66 {
				color = core.ColorBrightRed
			}
			dst.SetColored(x, y, CannonChar, color)
		case siege.CannonFiring:
			dst.SetColored(x, y, CannonChar, core.ColorBrightWhite)
		case siege.CannonRepositioning:
			dst.SetColored(x, y, CannonIdleChar, core.ColorBrightYellow)
		default:
			dst.SetColored(x, y, CannonIdleChar, core.ColorBrightWhite)
		}
	}
}

func (g *Game) renderPaddles(dst *core.Screen, v viewport) {
	for _, side := range siege.Sides {
		pd := g.sim.Paddle(side)
		if !pd.Active {
			continue
		}
		glyph := HPaddleChar
		if !side.Horizontal() {
			glyph = VPaddleChar
		}
		color := core.ColorBrightCyan
		switch {
		case pd.HasPower(siege.PotionSticky):
			color = core.ColorBrightGreen
		case pd.HasPower(siege.PotionPierce), pd.HasPower(siege.PotionThrough):
			color = core.ColorBrightMagenta
		case pd.WidenDepth() > 0:
			color = core.ColorBrightBlue
		}
		dst.DrawRect(v.rect(pd.Box), glyph, color)
	}
}

func (g *Game) renderProjectiles(dst *core.Screen, v viewport) {
	for _, p := range g.sim.Projectiles() {
		if !p.Alive() {
			continue
		}
		x, y := v.cell(p.Pos)
		glyph, color := projectileGlyph(p)
		dst.SetColored(x, y, glyph, color)
	}
}

func projectileGlyph(p *siege.Projectile) (rune, core.Color) {
	switch p.Kind {
	case siege.KindFire:
		return FireChar, core.ColorOrange
	case siege.KindPotion:
		return PotionChar, core.ColorBrightMagenta
	case siege.KindPiercing:
		return PierceChar, core.ColorBrightCyan
	}
	if p.Owner == siege.OwnerFriendly {
		return BallChar, core.ColorBrightWhite
	}
	return BallChar, core.ColorRed
}

func (g *Game) renderOverlay(dst *core.Screen) {
	switch g.state {
	case StateIntro:
		drawCenteredBox(dst, fmt.Sprintf("WAVE %d", g.wave), "Get ready...")
	case StatePaused:
		drawCenteredBox(dst, "PAUSED", "Press P to resume")
	case StateGameOver:
		subtitle := fmt.Sprintf("Score: %d  |  Press R to restart", g.score)
		drawCenteredBox(dst, "THE WALL HAS FALLEN", subtitle)
	case StateWin:
		subtitle := fmt.Sprintf("Final Score: %d  |  Press R to restart", g.score)
		drawCenteredBox(dst, "CASTLE TAKEN!", subtitle)
	}
}

// drawCenteredBox draws a centered message box.
func drawCenteredBox(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2
	r := core.NewRect(boxX, boxY, boxW, boxH)

	dst.DrawRect(r, ' ', core.ColorDefault)
	dst.DrawBox(r, core.ColorBrightWhite)
	dst.DrawTextColored(boxX+(boxW-len([]rune(title)))/2, boxY+1, title, core.ColorBrightYellow)
	dst.DrawTextColored(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle, core.ColorDefault)
}
