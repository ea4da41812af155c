package castle

import (
	"fmt"

	"github.com/videobydak/castle-pong/internal/config"
	"github.com/videobydak/castle-pong/internal/siege"
)

// messageMs is how long a HUD message stays up.
const messageMs = 2000

// level is the difficulty level of the current wave.
func (g *Game) level() int {
	base := config.ClampLevel(g.cfg.Difficulty.InitialLevel)
	if !g.cfg.Difficulty.Enabled {
		return base
	}
	return base + g.wave - 1
}

// potions returns the potion kinds unlocked at the current level.
func (g *Game) potions() siege.PotionSet {
	var set siege.PotionSet
	lvl := g.level()
	for name, at := range g.cfg.Unlocks.Potions {
		k, ok := siege.ParsePotionKind(name)
		if ok && lvl >= at {
			set = set.With(k)
		}
	}
	return set
}

// updateUnlocks activates paddles whose score threshold has been reached.
// Paddles never lock again.
func (g *Game) updateUnlocks() {
	for _, side := range siege.Sides {
		at, ok := g.cfg.Unlocks.Paddles[side.String()]
		if !ok || g.unlocked[side] || g.score < at {
			continue
		}
		g.unlocked[side] = true
		if g.tickCount > 0 {
			g.say(fmt.Sprintf("%s paddle unlocked", side))
			g.log.Info("paddle unlocked", "side", side, "score", g.score)
		}
	}
	if _, ok := g.cfg.Unlocks.Paddles["bottom"]; !ok {
		g.unlocked[siege.SideBottom] = true
	}
}

func (g *Game) beginIntro() {
	g.state = StateIntro
	g.introMs = float64(g.cfg.Gameplay.StartDelay)
	g.say(fmt.Sprintf("Wave %d: %s", g.wave, g.sim.LayoutName()))
}

// clearWave awards the wave bonus and builds the next castle, or ends the
// campaign.
func (g *Game) clearWave() {
	g.score += g.cfg.Gameplay.WaveBonus
	g.log.Info("wave cleared", "wave", g.wave, "score", g.score, "shots", g.sim.TotalShots())

	if g.mode == ModeCampaign && g.wave >= g.cfg.Gameplay.CampaignWaves {
		g.state = StateWin
		g.log.Info("campaign won", "score", g.score)
		return
	}

	g.wave++
	g.sim.NewWave(g.level())
	g.updateUnlocks()
	g.beginIntro()
	g.restock()
}

// applyRewards turns fallen castle blocks into hearts and coins. A heart
// rebuilds one player wall block; with the wall intact it counts as a coin.
func (g *Game) applyRewards(rewards []siege.RewardEvent) {
	for range rewards {
		if g.rewards.Float64() < g.cfg.Gameplay.HeartChance {
			if _, ok := g.sim.RestoreWallBlock(); ok {
				g.hearts++
				g.say("+1 heart: wall repaired")
				continue
			}
		}
		g.coinFrac += g.coinRate()
		whole := int(g.coinFrac)
		g.coins += whole
		g.coinFrac -= float64(whole)
		g.score += g.cfg.Gameplay.CoinValue
	}
}

func (g *Game) logEvents(out siege.TickOutput) {
	for _, p := range out.Potions {
		if p.Wasted {
			continue
		}
		g.say(fmt.Sprintf("%s: %s", p.Side, p.Kind))
		g.log.Debug("potion", "side", p.Side, "kind", p.Kind)
	}
	for _, c := range out.Cannons {
		if c.Lost {
			g.log.Debug("cannon lost", "cannon", c.Cannon)
		}
	}
	if len(out.Repaired) > 0 {
		g.say("the castle rebuilds")
		g.log.Debug("castle repaired", "blocks", len(out.Repaired))
	}
}

func (g *Game) say(msg string) {
	g.lastMsg = msg
	g.msgMs = messageMs
}
