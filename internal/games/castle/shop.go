package castle

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/videobydak/castle-pong/internal/siege"
)

// Upgrade ids, as used in the gameplay.shop config list.
const (
	UpgradePaddleWidth   = "paddle_width"
	UpgradePaddleAgility = "paddle_agility"
	UpgradeCoinBoost     = "coin_boost"
	UpgradePaddleHeal    = "paddle_heal"
	UpgradeWallRepair    = "wall_repair"
	UpgradeTimeSlow      = "time_slow"
	UpgradeShieldBarrier = "shield_barrier"
)

// Shop errors
var (
	ErrShopClosed     = errors.New("castle: shop is only open between waves")
	ErrUnknownUpgrade = errors.New("castle: unknown upgrade")
	ErrUpgradeMaxed   = errors.New("castle: upgrade already at max level")
	ErrNotEnoughCoins = errors.New("castle: not enough coins")
)

// Upgrade is one shop item. Tiered upgrades cost more per level; the
// others are used up on purchase and always cost the same.
type Upgrade struct {
	ID     string
	Name   string
	Cost   int
	Max    int // levels for tiered upgrades, 0 for consumables
	Tiered bool
}

// Upgrades is the shop catalogue.
var Upgrades = []Upgrade{
	{ID: UpgradePaddleWidth, Name: "Wider paddles", Cost: 50, Max: 5, Tiered: true},
	{ID: UpgradePaddleAgility, Name: "Faster paddles", Cost: 45, Max: 3, Tiered: true},
	{ID: UpgradeCoinBoost, Name: "Coin boost", Cost: 70, Max: 4, Tiered: true},
	{ID: UpgradePaddleHeal, Name: "Heal paddle", Cost: 15},
	{ID: UpgradeWallRepair, Name: "Wall repair", Cost: 25},
	{ID: UpgradeTimeSlow, Name: "Slow time", Cost: 95},
	{ID: UpgradeShieldBarrier, Name: "Shield barrier", Cost: 110},
}

const (
	priceGrowth = 1.5 // tiered price multiplier per owned level

	widthPerLevel   = 30.0
	accelPerLevel   = 0.2
	speedPerLevel   = 3.0
	coinBoostStep   = 0.25
	repairBlocks    = 3
	slowScale       = 0.3
	slowDurationMs  = 10000
	shieldBarrierMs = 30000
)

func upgradeByID(id string) (Upgrade, bool) {
	for _, u := range Upgrades {
		if u.ID == id {
			return u, true
		}
	}
	return Upgrade{}, false
}

// price returns what the next level of u costs, or false once maxed.
func price(u Upgrade, level int) (int, bool) {
	if !u.Tiered {
		return u.Cost, true
	}
	if level >= u.Max {
		return 0, false
	}
	return int(float64(u.Cost) * math.Pow(priceGrowth, float64(level))), true
}

// UpgradeLevel returns how many times id has been bought this run.
func (g *Game) UpgradeLevel(id string) int { return g.upgrades[id] }

// Buy spends coins on an upgrade and applies it at once. The shop is open
// while the wave banner is up.
func (g *Game) Buy(id string) error {
	if g.state != StateIntro {
		return ErrShopClosed
	}
	u, ok := upgradeByID(id)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownUpgrade, id)
	}
	cost, ok := price(u, g.upgrades[id])
	if !ok {
		return fmt.Errorf("%w: %s", ErrUpgradeMaxed, id)
	}
	if g.coins < cost {
		return fmt.Errorf("%w: %s costs %d, have %d", ErrNotEnoughCoins, id, cost, g.coins)
	}

	g.coins -= cost
	g.upgrades[id]++
	g.applyUpgrade(u)
	g.log.Info("upgrade bought", "upgrade", id, "level", g.upgrades[id], "cost", cost, "coins", g.coins)
	return nil
}

// restock buys from the configured shop list in order, skipping what the
// coins do not cover.
func (g *Game) restock() {
	var bought []string
	for _, id := range g.cfg.Gameplay.Shop {
		if err := g.Buy(id); err != nil {
			g.log.Debug("upgrade skipped", "upgrade", id, "error", err)
			continue
		}
		u, _ := upgradeByID(id)
		bought = append(bought, u.Name)
	}
	if len(bought) > 0 {
		g.say(fmt.Sprintf("Wave %d: %s | bought %s", g.wave, g.sim.LayoutName(), strings.Join(bought, ", ")))
	}
}

func (g *Game) applyUpgrade(u Upgrade) {
	switch u.ID {
	case UpgradePaddleWidth:
		for _, side := range siege.Sides {
			g.sim.Paddle(side).Grow(widthPerLevel)
		}
	case UpgradePaddleAgility:
		for _, side := range siege.Sides {
			g.sim.Paddle(side).Tune(accelPerLevel, speedPerLevel)
		}
	case UpgradePaddleHeal:
		if pd := g.weakestPaddle(); pd != nil {
			pd.Heal()
		}
	case UpgradeWallRepair:
		for range repairBlocks {
			if _, ok := g.sim.RestoreWallBlock(); !ok {
				break
			}
		}
	case UpgradeTimeSlow:
		g.slowMs = slowDurationMs
	case UpgradeShieldBarrier:
		g.sim.RaiseBarrier(shieldBarrierMs)
	}
}

// weakestPaddle is the unlocked paddle with the least length left.
func (g *Game) weakestPaddle() *siege.Paddle {
	var weakest *siege.Paddle
	for _, side := range siege.Sides {
		if !g.unlocked[side] {
			continue
		}
		pd := g.sim.Paddle(side)
		if weakest == nil || pd.BaseLength() < weakest.BaseLength() {
			weakest = pd
		}
	}
	return weakest
}

// coinRate is coins per fallen castle block.
func (g *Game) coinRate() float64 {
	return 1 + coinBoostStep*float64(g.upgrades[UpgradeCoinBoost])
}

// timeScale slows the arena while a time slow is running.
func (g *Game) timeScale() float64 {
	if g.slowMs > 0 {
		return slowScale
	}
	return 1
}
