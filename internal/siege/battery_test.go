package siege

import (
	"testing"

	"github.com/videobydak/castle-pong/internal/config"
	"github.com/videobydak/castle-pong/internal/core"
)

type stubContext struct {
	shots   int
	enabled bool
}

func (c *stubContext) TotalShots() int       { return c.shots }
func (c *stubContext) ShootingEnabled() bool { return c.enabled }

// testBattle builds a castle, a wall and a battery around them.
func testBattle(t *testing.T, cfg config.SiegeConfig, seed int64) (*Battery, *battleEnv, *stubContext) {
	t.Helper()
	rng := NewLCG(seed)
	castle := NewStructure(RoleCastle, cfg, nil, rng, nil)
	l, err := ParseLayout("test", []string{"11111", "12221", "11111"}, cfg.Structure.MaxTier)
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}
	castle.Build(l, core.V(500, 300))

	wall := NewStructure(RoleWall, cfg, nil, rng, nil)
	wl, _ := ParseLayout("wall", []string{"2222222222222222222222222222"}, cfg.Structure.MaxTier)
	wall.Build(wl, core.V(10, 855))

	paddles := make([]*Paddle, 0, NumSides)
	for _, side := range Sides {
		p := NewPaddle(side, cfg.Arena, cfg.Paddle)
		p.Active = side == SideBottom
		paddles = append(paddles, p)
	}

	ctx := &stubContext{enabled: true}
	b := NewBattery(cfg, ctx, rng, nil)
	b.Reset(castle, 1)
	env := &battleEnv{level: 1, paddles: paddles, castle: castle, wall: wall}
	return b, env, ctx
}

func wallRow(n int) []*Block {
	out := make([]*Block, n)
	for i := range out {
		out[i] = &Block{ID: BlockID(i + 1), Box: core.NewBox(float64(i)*45, 800, 45, 45), Tier: 2}
	}
	return out
}

func TestSelectWallTargetWindow(t *testing.T) {
	blocks := wallRow(20) // centres 22.5..877.5, middle 450
	rng := NewLCG(5)

	for _, frac := range []float64{0.4, 0.6, 0.95} {
		half := 855 * frac / 2
		for i := 0; i < 500; i++ {
			b, ok := SelectWallTarget(blocks, nil, frac, rng)
			if !ok {
				t.Fatal("no target chosen")
			}
			if x := b.Center().X; x < 450-half || x > 450+half {
				t.Fatalf("frac %v picked x=%v outside [%v, %v]", frac, x, 450-half, 450+half)
			}
		}
	}
}

func TestSelectWallTargetCoversWindow(t *testing.T) {
	blocks := wallRow(20)
	rng := NewLCG(11)
	seen := make(map[BlockID]bool)
	for i := 0; i < 2000; i++ {
		b, _ := SelectWallTarget(blocks, nil, 0.4, rng)
		seen[b.ID] = true
	}
	// 0.4 of 855 is 342 wide around 450: centres 292.5..607.5, 8 blocks.
	if len(seen) != 8 {
		t.Errorf("picked %d distinct blocks, want 8", len(seen))
	}
}

func TestSelectWallTargetFallsBack(t *testing.T) {
	// Two blocks far apart leave the narrow centre window empty.
	blocks := []*Block{
		{ID: 1, Box: core.NewBox(0, 800, 45, 45), Tier: 1},
		{ID: 2, Box: core.NewBox(1000, 800, 45, 45), Tier: 1},
	}
	rng := NewLCG(2)
	seen := make(map[BlockID]bool)
	for i := 0; i < 200; i++ {
		b, ok := SelectWallTarget(blocks, nil, 0.1, rng)
		if !ok {
			t.Fatal("fallback chose nothing")
		}
		seen[b.ID] = true
	}
	if len(seen) != 2 {
		t.Errorf("fallback reached %d blocks, want both", len(seen))
	}

	if _, ok := SelectWallTarget(nil, nil, 0.5, rng); ok {
		t.Error("empty wall produced a target")
	}
}

func TestSelectWallTargetAvoidsGuard(t *testing.T) {
	blocks := wallRow(20)
	guard := core.NewBox(300, 700, 300, 18)
	rng := NewLCG(8)
	for i := 0; i < 500; i++ {
		b, _ := SelectWallTarget(blocks, &guard, 0.95, rng)
		if x := b.Center().X; x >= guard.X && x <= guard.Right() {
			t.Fatalf("picked shadowed block at x=%v", x)
		}
	}

	// Everything shadowed: the guard is ignored.
	wide := core.NewBox(-100, 700, 2000, 18)
	if _, ok := SelectWallTarget(blocks, &wide, 0.5, rng); !ok {
		t.Error("fully shadowed wall produced no target")
	}
}

func TestSelectWallTargetWindowIgnoresGuardPosition(t *testing.T) {
	blocks := wallRow(20)
	const frac = 0.4
	lo, hi := 450-855*frac/2, 450+855*frac/2 // 279..621

	for _, guardX := range []float64{0, 675} {
		guard := core.NewBox(guardX, 700, 225, 18)
		rng := NewLCG(21)
		for i := 0; i < 5000; i++ {
			b, ok := SelectWallTarget(blocks, &guard, frac, rng)
			if !ok {
				t.Fatal("no target chosen")
			}
			if x := b.Center().X; x < lo || x > hi {
				t.Fatalf("guard at %v: picked x=%v outside [%v, %v]", guardX, x, lo, hi)
			}
		}
	}
}

func TestNoPotionWhenNothingUnlocked(t *testing.T) {
	cfg := config.DefaultSiegeConfig()
	cfg.Cannon.PotionChance = 1
	b, env, _ := testBattle(t, cfg, 42)
	env.unlocked = 0

	c := b.Cannons()[0]
	c.target = shotTarget{kind: aimPaddle, side: SideBottom}
	for i := 0; i < 1000; i++ {
		ammo := b.classify(c, env)
		if ammo.Kind == KindPotion || ammo.Potion != PotionNone {
			t.Fatalf("cycle %d produced %v/%v", i, ammo.Kind, ammo.Potion)
		}
		b.refreshReservations(nil)
	}
}

func TestNoPotionOverFullCycles(t *testing.T) {
	cfg := config.DefaultSiegeConfig()
	cfg.Cannon.PotionChance = 1
	cfg.Cannon.ChargeBase = 1
	cfg.Cannon.ChargeMin = 1
	cfg.Cannon.CooldownMin = 1
	cfg.Cannon.CooldownMax = 2
	cfg.Cannon.RelocateChance = 0
	b, env, _ := testBattle(t, cfg, 9)

	fired := 0
	for tick := 0; fired < 1000 && tick < 20000; tick++ {
		shots, _ := b.Update(1000.0/60, 1, env)
		for _, p := range shots {
			fired++
			if p.Kind == KindPotion || p.Potion != PotionNone {
				t.Fatalf("shot %d was %v/%v with nothing unlocked", fired, p.Kind, p.Potion)
			}
		}
		b.refreshReservations(nil)
	}
	if fired < 1000 {
		t.Fatalf("only %d shots fired", fired)
	}
}

func TestPotionReservationIsSingle(t *testing.T) {
	cfg := config.DefaultSiegeConfig()
	cfg.Cannon.PotionChance = 1
	b, env, _ := testBattle(t, cfg, 3)
	env.unlocked = NewPotionSet(PotionWiden)

	c1, c2 := b.Cannons()[0], b.Cannons()[1]
	c1.target = shotTarget{kind: aimPaddle}
	c2.target = shotTarget{kind: aimPaddle}

	first := b.classify(c1, env)
	if first.Kind != KindPotion || first.Potion != PotionWiden {
		t.Fatalf("first draw = %+v, want a widen potion", first)
	}
	c1.Ammo = first
	if second := b.classify(c2, env); second.Kind != KindPlain {
		t.Errorf("second draw = %+v while the slot is held, want plain", second)
	}

	// The slot stays held while the potion is in flight.
	p := &Projectile{Kind: KindPotion, reserve: first.reserve}
	c1.Ammo = Ammo{}
	b.refreshReservations([]*Projectile{p})
	if held, _ := b.Reservations(); !held {
		t.Error("reservation dropped while the potion is in flight")
	}

	p.kill()
	b.refreshReservations([]*Projectile{p})
	if again := b.classify(c2, env); again.Kind != KindPotion {
		t.Errorf("draw after release = %+v, want a potion", again)
	}
}

func TestPotionsOnlyTargetPaddles(t *testing.T) {
	cfg := config.DefaultSiegeConfig()
	cfg.Cannon.PotionChance = 1
	b, env, _ := testBattle(t, cfg, 4)
	env.unlocked = NewPotionSet(PotionWiden, PotionSticky)

	c := b.Cannons()[0]
	c.target = shotTarget{kind: aimWall}
	for i := 0; i < 100; i++ {
		if ammo := b.classify(c, env); ammo.Kind == KindPotion {
			t.Fatal("wall shot classified as a potion")
		}
		b.refreshReservations(nil)
	}
}

func TestFireReservationBelowLockLevel(t *testing.T) {
	cfg := config.DefaultSiegeConfig()
	cfg.Cannon.PotionChance = 0
	cfg.Cannon.FireBase = 1
	cfg.Cannon.FireMax = 1
	b, env, _ := testBattle(t, cfg, 5)
	c := b.Cannons()[0]
	c.target = shotTarget{kind: aimWall}

	env.level = 1
	if a := b.classify(c, env); a.Kind != KindFire {
		t.Fatalf("first shot = %v, want fire", a.Kind)
	}
	if a := b.classify(c, env); a.Kind != KindPlain {
		t.Errorf("second shot below lock level = %v, want plain", a.Kind)
	}

	b.refreshReservations(nil)
	env.level = cfg.Cannon.FireLockLevel
	for i := 0; i < 3; i++ {
		if a := b.classify(c, env); a.Kind != KindFire {
			t.Errorf("shot %d at lock level = %v, want fire", i, a.Kind)
		}
	}
}

func TestDrawPotionRespectsUnlockedSet(t *testing.T) {
	weights := config.DefaultSiegeConfig().Potions.Weights
	rng := NewLCG(1)
	set := NewPotionSet(PotionSticky, PotionPierce)
	for i := 0; i < 500; i++ {
		k := drawPotion(rng, weights, set)
		if !set.Has(k) {
			t.Fatalf("drew %v outside %v", k, set.Kinds())
		}
	}
	if k := drawPotion(rng, map[string]int{}, set); k != PotionNone {
		t.Errorf("zero weights drew %v", k)
	}
}

func TestMayRelocate(t *testing.T) {
	cfg := config.DefaultSiegeConfig()
	b, env, _ := testBattle(t, cfg, 1)

	tests := []struct {
		cannons, live int
		want          bool
	}{
		{1, 5, false},
		{2, 0, false},
		{2, 1, true},
		{3, 0, true},
	}
	all := b.cannons
	for _, tt := range tests {
		b.cannons = all[:tt.cannons]
		env.live = tt.live
		if got := b.mayRelocate(env); got != tt.want {
			t.Errorf("cannons=%d live=%d: got %v, want %v", tt.cannons, tt.live, got, tt.want)
		}
	}
}

func TestCannonStateCycle(t *testing.T) {
	cfg := config.DefaultSiegeConfig()
	cfg.Cannon.RelocateChance = 0
	b, env, _ := testBattle(t, cfg, 21)
	c := b.Cannons()[0]

	seen := map[CannonState]bool{}
	var shot *Projectile
	for tick := 0; tick < 3000; tick++ {
		shots, _ := b.Update(1000.0/60, 1, env)
		if shot == nil && len(shots) > 0 {
			shot = shots[0]
		}
		seen[c.State] = true
		if seen[CannonFiring] && c.State == CannonDormant {
			break
		}
	}
	if shot == nil {
		t.Fatal("no shot fired")
	}
	for _, st := range []CannonState{CannonCharging, CannonFiring} {
		if !seen[st] {
			t.Errorf("never saw state %s", st)
		}
	}
	if shot.Owner != OwnerHostile {
		t.Errorf("shot owner = %v", shot.Owner)
	}
	if got := shot.Speed(); got < cfg.Physics.BallSpeed*cfg.Cannon.SpeedJitterMin-1e-9 {
		t.Errorf("shot speed = %v", got)
	}
}

func TestShootingDisabledHoldsFire(t *testing.T) {
	cfg := config.DefaultSiegeConfig()
	b, env, ctx := testBattle(t, cfg, 2)
	ctx.enabled = false
	for tick := 0; tick < 1000; tick++ {
		if shots, _ := b.Update(1000.0/60, 1, env); len(shots) > 0 {
			t.Fatal("fired with shooting disabled")
		}
	}
	for _, c := range b.Cannons() {
		if c.State != CannonDormant {
			t.Errorf("cannon %d left dormant: %s", c.ID, c.State)
		}
	}
}

func TestCannonDiesWithMount(t *testing.T) {
	cfg := config.DefaultSiegeConfig()
	cfg.Cannon.RespawnDelay = 1000
	b, env, ctx := testBattle(t, cfg, 6)
	ctx.enabled = false
	before := len(b.Cannons())
	c := b.Cannons()[0]

	env.castle.Shatter(c.Mount, core.V(0, 1), PhaseNormal)
	_, events := b.Update(1, 0.06, env)
	if len(b.Cannons()) != before-1 {
		t.Fatalf("cannons = %d, want %d", len(b.Cannons()), before-1)
	}
	if c.Alive() {
		t.Error("cannon still alive")
	}
	lost := false
	for _, ev := range events {
		if ev.Lost && ev.Cannon == c.ID {
			lost = true
		}
	}
	if !lost {
		t.Error("no lost event")
	}

	// A replacement is mounted on a free rail point after the delay.
	b.Invalidate()
	for i := 0; i < 100 && len(b.Cannons()) < before; i++ {
		b.Update(1000.0/60, 1, env)
	}
	if len(b.Cannons()) != before {
		t.Errorf("cannons after respawn = %d, want %d", len(b.Cannons()), before)
	}
	mounts := map[BlockID]bool{}
	for _, c := range b.Cannons() {
		if mounts[c.Mount] {
			t.Errorf("two cannons share block %d", c.Mount)
		}
		mounts[c.Mount] = true
	}
}

func TestResetMountsWaveCannons(t *testing.T) {
	cfg := config.DefaultSiegeConfig()
	b, env, _ := testBattle(t, cfg, 1)
	scaler := config.NewScaler(cfg.Difficulty)

	for _, level := range []int{1, 3, 9} {
		events := b.Reset(env.castle, level)
		want := min(scaler.MaxCannons(level), b.Rail().Len())
		if len(b.Cannons()) != want || len(events) != want {
			t.Errorf("level %d: %d cannons, %d events, want %d", level, len(b.Cannons()), len(events), want)
		}
	}
}
