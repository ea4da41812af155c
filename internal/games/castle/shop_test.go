package castle

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/videobydak/castle-pong/internal/config"
	"github.com/videobydak/castle-pong/internal/core"
	"github.com/videobydak/castle-pong/internal/siege"
)

func TestPriceByKind(t *testing.T) {
	width, _ := upgradeByID(UpgradePaddleWidth)
	heal, _ := upgradeByID(UpgradePaddleHeal)

	tests := []struct {
		name  string
		u     Upgrade
		level int
		want  int
		ok    bool
	}{
		{"tiered first level", width, 0, 50, true},
		{"tiered second level", width, 1, 75, true},
		{"tiered third level", width, 2, 112, true},
		{"tiered maxed", width, 5, 0, false},
		{"consumable", heal, 0, 15, true},
		{"consumable again", heal, 7, 15, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := price(tt.u, tt.level)
			if got != tt.want || ok != tt.ok {
				t.Errorf("price = %d, %v, want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBuySpendsCoins(t *testing.T) {
	g := newTestGame(t, 21)
	g.coins = 200
	full := g.sim.Paddle(siege.SideBottom).FullLength()

	if err := g.Buy(UpgradePaddleWidth); err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if err := g.Buy(UpgradePaddleWidth); err != nil {
		t.Fatalf("second Buy: %v", err)
	}
	if g.coins != 200-50-75 {
		t.Errorf("coins = %d, want %d", g.coins, 200-50-75)
	}
	if g.UpgradeLevel(UpgradePaddleWidth) != 2 {
		t.Errorf("level = %d, want 2", g.UpgradeLevel(UpgradePaddleWidth))
	}
	for _, side := range siege.Sides {
		if got := g.sim.Paddle(side).FullLength(); got != full+2*widthPerLevel {
			t.Errorf("%s full length = %v, want %v", side, got, full+2*widthPerLevel)
		}
	}
	u, _ := upgradeByID(UpgradePaddleWidth)
	if p, _ := price(u, g.UpgradeLevel(UpgradePaddleWidth)); p != 112 {
		t.Errorf("next price = %d, want 112", p)
	}
}

func TestBuyErrors(t *testing.T) {
	g := newTestGame(t, 22)

	if err := g.Buy(UpgradeWallRepair); !errors.Is(err, ErrNotEnoughCoins) {
		t.Errorf("broke: err = %v, want ErrNotEnoughCoins", err)
	}
	g.coins = 10000
	if err := g.Buy("dragon"); !errors.Is(err, ErrUnknownUpgrade) {
		t.Errorf("unknown: err = %v, want ErrUnknownUpgrade", err)
	}
	for range 3 {
		if err := g.Buy(UpgradePaddleAgility); err != nil {
			t.Fatalf("Buy agility: %v", err)
		}
	}
	if err := g.Buy(UpgradePaddleAgility); !errors.Is(err, ErrUpgradeMaxed) {
		t.Errorf("maxed: err = %v, want ErrUpgradeMaxed", err)
	}

	g.state = StatePlaying
	before := g.coins
	if err := g.Buy(UpgradeWallRepair); !errors.Is(err, ErrShopClosed) {
		t.Errorf("mid-wave: err = %v, want ErrShopClosed", err)
	}
	if g.coins != before {
		t.Errorf("coins = %d after a refused purchase, want %d", g.coins, before)
	}
}

func TestConsumableEffects(t *testing.T) {
	g := newTestGame(t, 23)
	g.coins = 10000

	wall := g.sim.Wall()
	total := wall.AliveCount()
	for _, b := range wall.Alive()[:5] {
		wall.Shatter(b.ID, core.V(0, 1), siege.PhaseSuspended)
	}
	if err := g.Buy(UpgradeWallRepair); err != nil {
		t.Fatal(err)
	}
	if wall.AliveCount() != total-5+repairBlocks {
		t.Errorf("wall = %d, want %d", wall.AliveCount(), total-5+repairBlocks)
	}

	pd := g.sim.Paddle(siege.SideBottom)
	pd.Shrink()
	pd.Shrink()
	damaged := pd.BaseLength()
	if err := g.Buy(UpgradePaddleHeal); err != nil {
		t.Fatal(err)
	}
	if pd.BaseLength() <= damaged {
		t.Errorf("paddle length = %v, want above %v", pd.BaseLength(), damaged)
	}

	if err := g.Buy(UpgradeShieldBarrier); err != nil {
		t.Fatal(err)
	}
	if g.sim.Barrier() != shieldBarrierMs {
		t.Errorf("barrier = %v, want %v", g.sim.Barrier(), shieldBarrierMs)
	}

	if err := g.Buy(UpgradeTimeSlow); err != nil {
		t.Fatal(err)
	}
	if g.timeScale() != slowScale {
		t.Errorf("time scale = %v, want %v", g.timeScale(), slowScale)
	}
	if fx := g.effectsString(); !strings.Contains(fx, "slow(") || !strings.Contains(fx, "barrier(") {
		t.Errorf("effects = %q, want slow and barrier", fx)
	}
}

func TestTimeSlowScalesArena(t *testing.T) {
	run := func(slow bool) float64 {
		g := newTestGame(t, 24)
		if slow {
			g.coins = slowCost()
			if err := g.Buy(UpgradeTimeSlow); err != nil {
				t.Fatal(err)
			}
		}
		right := core.NewInputFrame()
		right.Set(core.ActionBottomRight)
		x := g.sim.Paddle(siege.SideBottom).Box.X
		for range 10 {
			g.Step(right)
		}
		return g.sim.Paddle(siege.SideBottom).Box.X - x
	}

	normal, slowed := run(false), run(true)
	if slowed <= 0 || slowed >= normal {
		t.Errorf("slowed travel = %v, normal = %v", slowed, normal)
	}
}

func slowCost() int {
	u, _ := upgradeByID(UpgradeTimeSlow)
	return u.Cost
}

func TestCoinBoost(t *testing.T) {
	g := newTestGame(t, 25)
	g.cfg.Gameplay.HeartChance = 0
	g.coins = 70
	if err := g.Buy(UpgradeCoinBoost); err != nil {
		t.Fatal(err)
	}
	if g.coins != 0 {
		t.Fatalf("coins = %d, want 0", g.coins)
	}

	g.applyRewards(make([]siege.RewardEvent, 4))
	if g.coins != 5 {
		t.Errorf("coins = %d from 4 blocks at 1.25 each, want 5", g.coins)
	}
}

func TestClearWaveRestocks(t *testing.T) {
	g := newTestGame(t, 26)
	g.cfg.Gameplay.Shop = []string{UpgradeShieldBarrier, UpgradeCoinBoost, UpgradeWallRepair}
	g.coins = 120

	razeCastle(g)
	g.Step(core.NewInputFrame())

	if g.wave != 2 {
		t.Fatalf("wave = %d, want 2", g.wave)
	}
	// The barrier takes 110, coin boost is unaffordable after it and the
	// repair is skipped too.
	if g.coins != 10 {
		t.Errorf("coins = %d, want 10", g.coins)
	}
	if g.sim.Barrier() != shieldBarrierMs {
		t.Errorf("barrier = %v, want it raised for the new wave", g.sim.Barrier())
	}
	if g.UpgradeLevel(UpgradeCoinBoost) != 0 {
		t.Error("bought coin boost without the coins")
	}
	if !strings.Contains(g.lastMsg, "Shield barrier") {
		t.Errorf("message = %q, want the purchase listed", g.lastMsg)
	}
}

func TestShopListIDsAreKnown(t *testing.T) {
	for _, id := range config.DefaultSiegeConfig().Gameplay.Shop {
		if _, ok := upgradeByID(id); !ok {
			t.Errorf("default shop lists unknown upgrade %q", id)
		}
	}
}

func TestReservationsShownInHUD(t *testing.T) {
	g := newTestGame(t, 27)
	cfg := g.cfg
	cfg.Cannon.PotionChance = 1
	g.sim = siege.New(siege.Options{Config: cfg, Seed: 27})
	g.cfg.Unlocks.Potions = map[string]int{"widen": 1}

	for i := 0; i < 5000; i++ {
		g.Step(g.AutoInput())
		if potion, _ := g.sim.Battery().Reservations(); potion {
			if fx := g.effectsString(); !strings.Contains(fx, "potion incoming") {
				t.Errorf("effects = %q while a potion is in flight", fx)
			}
			return
		}
		if g.Over() {
			break
		}
	}
	t.Fatal("no potion was ever fired")
}

func TestUnlockMessagesFollowSideOrder(t *testing.T) {
	for range 20 {
		var buf bytes.Buffer
		g := newTestGame(t, 28)
		g.log = log.New(&buf)
		g.tickCount = 1
		g.score = 500

		g.updateUnlocks()

		if g.lastMsg != "right paddle unlocked" {
			t.Fatalf("last message = %q, want the right paddle", g.lastMsg)
		}
		out := buf.String()
		top, left, right := strings.Index(out, "side=top"), strings.Index(out, "side=left"), strings.Index(out, "side=right")
		if top < 0 || !(top < left && left < right) {
			t.Fatalf("unlock log out of order:\n%s", out)
		}
	}
}
