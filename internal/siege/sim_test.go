package siege

import (
	"testing"

	"github.com/videobydak/castle-pong/internal/config"
	"github.com/videobydak/castle-pong/internal/core"
)

// quietInput is a normal tick with the cannons silenced.
func quietInput(active ...Side) TickInput {
	in := TickInput{DT: 1, Level: 1, Phase: PhaseNormal}
	for _, side := range active {
		in.Paddles[side].Active = true
	}
	return in
}

func runUntilExpired(t *testing.T, s *Sim, p *Projectile, in TickInput) []TickOutput {
	t.Helper()
	var outs []TickOutput
	for i := 0; i < 600 && p.Alive(); i++ {
		outs = append(outs, s.Step(in))
	}
	if p.Alive() {
		t.Fatalf("projectile still alive at %v", p.Pos)
	}
	return outs
}

func TestSimDeterminism(t *testing.T) {
	run := func(seed int64) Snapshot {
		s := New(Options{Seed: seed})
		pilot := NewAutopilot()
		active := [NumSides]bool{true, true, false, false}
		for i := 0; i < 3000; i++ {
			in := TickInput{
				DT:              1,
				Paddles:         pilot.Inputs(s, active),
				Level:           3,
				Score:           i / 10,
				Unlocked:        NewPotionSet(PotionWiden, PotionSticky, PotionThrough),
				ShootingEnabled: true,
				Phase:           PhaseNormal,
			}
			s.Step(in)
		}
		return s.Snapshot()
	}

	a, b := run(12345), run(12345)
	if a.Hash() != b.Hash() {
		t.Errorf("same seed diverged: %d vs %d", a.Hash(), b.Hash())
	}
	if a.TotalShots == 0 {
		t.Error("no shots were fired, determinism check is vacuous")
	}
	if c := run(54321); c.Hash() == a.Hash() {
		t.Error("different seeds produced identical runs")
	}
}

func TestSimSuspendedPhaseFreezesPlay(t *testing.T) {
	s := New(Options{Seed: 1})
	p := s.spawn(&Projectile{Pos: core.V(640, 650), Vel: core.V(0, -5), Radius: 12, Owner: OwnerFriendly})

	in := quietInput()
	in.Phase = PhaseSuspended
	in.ShootingEnabled = true
	for i := 0; i < 200; i++ {
		out := s.Step(in)
		if len(out.Spawned) != 0 || len(out.Destroyed) != 0 {
			t.Fatal("suspended tick produced events")
		}
	}
	if p.Pos != core.V(640, 650) {
		t.Errorf("projectile moved to %v while suspended", p.Pos)
	}
	if s.Debris().Len() != 0 {
		t.Errorf("debris = %d while suspended", s.Debris().Len())
	}
}

func TestSimZeroDT(t *testing.T) {
	s := New(Options{Seed: 1})
	p := s.spawn(&Projectile{Pos: core.V(640, 650), Vel: core.V(0, -5), Radius: 12})

	in := quietInput()
	in.DT = 0
	s.Step(in)
	if p.Pos != core.V(640, 650) {
		t.Fatalf("dt=0 moved the projectile to %v", p.Pos)
	}
	in.DT = 1
	s.Step(in)
	if p.Pos.Y >= 650 {
		t.Errorf("projectile did not move after a zero step: %v", p.Pos)
	}
}

func TestSimHostileShotDamagesWall(t *testing.T) {
	s := New(Options{Seed: 1})
	p := s.spawn(&Projectile{Pos: core.V(640, 700), Vel: core.V(0, 5), Radius: 12})

	outs := runUntilExpired(t, s, p, quietInput())
	last := outs[len(outs)-1]
	if len(last.Expired) != 1 || last.Expired[0].Reason != ExpiredImpact {
		t.Fatalf("expired = %+v, want an impact", last.Expired)
	}
	if len(last.Hits) != 1 || last.Hits[0].Target != TargetWall {
		t.Fatalf("hits = %+v", last.Hits)
	}
	b, _ := s.Wall().Block(last.Hits[0].Block)
	if b.Tier != s.Config().Structure.WallTier-1 {
		t.Errorf("wall tier = %d, want %d", b.Tier, s.Config().Structure.WallTier-1)
	}
}

func TestSimFriendlyShotDamagesCastle(t *testing.T) {
	cfg := config.DefaultSiegeConfig()
	s := New(Options{Config: cfg, Seed: 1})
	before := s.Castle().AliveCount()
	p := s.spawn(&Projectile{Pos: core.V(640, 650), Vel: core.V(0, -5), Radius: 12, Owner: OwnerFriendly})

	var hit *HitEvent
	var destroyed []DestroyedEvent
	var rewards []RewardEvent
	for i := 0; i < 200 && hit == nil; i++ {
		out := s.Step(quietInput())
		for j := range out.Hits {
			if out.Hits[j].Target == TargetCastle {
				hit = &out.Hits[j]
			}
		}
		destroyed = append(destroyed, out.Destroyed...)
		rewards = append(rewards, out.Rewards...)
	}
	if hit == nil {
		t.Fatal("castle never hit")
	}
	// The gatehouse bottom row is tier 1, so one plain hit destroys a block.
	if len(destroyed) != 1 || len(rewards) != 1 {
		t.Fatalf("destroyed=%d rewards=%d, want 1 each", len(destroyed), len(rewards))
	}
	if hit.Score != cfg.Structure.HitScore+cfg.Structure.DestroyScore {
		t.Errorf("score = %d", hit.Score)
	}
	if s.Castle().AliveCount() != before-1 {
		t.Errorf("alive = %d, want %d", s.Castle().AliveCount(), before-1)
	}
	if !p.Alive() || p.Vel.Y <= 0 {
		t.Errorf("plain ball should bounce back down, alive=%v vel=%v", p.Alive(), p.Vel)
	}
}

func TestSimHostileShotPassesCastle(t *testing.T) {
	s := New(Options{Seed: 1})
	p := s.spawn(&Projectile{Pos: core.V(640, 250), Vel: core.V(0, 5), Radius: 12})
	for i := 0; i < 40; i++ {
		out := s.Step(quietInput())
		for _, h := range out.Hits {
			if h.Target == TargetCastle {
				t.Fatal("hostile shot hit its own castle")
			}
		}
	}
	if !p.Alive() {
		t.Error("hostile shot died crossing the castle")
	}
}

func TestSimPotionGrantsPower(t *testing.T) {
	s := New(Options{Seed: 1})
	p := s.spawn(&Projectile{Pos: core.V(640, 700), Vel: core.V(0, 5), Radius: 12, Kind: KindPotion, Potion: PotionWiden})

	outs := runUntilExpired(t, s, p, quietInput(SideBottom))
	last := outs[len(outs)-1]
	if len(last.Potions) != 1 || last.Potions[0].Kind != PotionWiden || last.Potions[0].Side != SideBottom {
		t.Fatalf("potions = %+v", last.Potions)
	}
	if s.Paddle(SideBottom).WidenDepth() != 1 {
		t.Errorf("widen depth = %d, want 1", s.Paddle(SideBottom).WidenDepth())
	}
}

func TestSimBarrierIsGlobal(t *testing.T) {
	s := New(Options{Seed: 1})
	p := s.spawn(&Projectile{Pos: core.V(640, 700), Vel: core.V(0, 5), Radius: 12, Kind: KindPotion, Potion: PotionBarrier})
	runUntilExpired(t, s, p, quietInput(SideBottom))
	if s.Barrier() <= 0 {
		t.Fatal("barrier not raised")
	}

	// A ball leaving through the side edge is kept in play.
	q := s.spawn(&Projectile{Pos: core.V(1260, 300), Vel: core.V(8, 0), Radius: 12, Owner: OwnerFriendly})
	for i := 0; i < 10; i++ {
		s.Step(quietInput(SideBottom))
	}
	if !q.Alive() || q.Vel.X >= 0 {
		t.Errorf("barrier did not reflect: alive=%v vel=%v", q.Alive(), q.Vel)
	}
}

func TestSimRaiseBarrier(t *testing.T) {
	s := New(Options{Seed: 1})
	s.RaiseBarrier(1000)
	s.RaiseBarrier(500)
	if s.Barrier() != 1000 {
		t.Fatalf("barrier = %v, want the longer 1000", s.Barrier())
	}
	for i := 0; i < 70; i++ {
		s.Step(quietInput(SideBottom))
	}
	if s.Barrier() != 0 {
		t.Errorf("barrier = %v after 70 ticks, want it expired", s.Barrier())
	}
}

func TestSimHostileFireShrinksPaddle(t *testing.T) {
	s := New(Options{Seed: 1})
	before := s.Paddle(SideBottom).Length()
	p := s.spawn(&Projectile{Pos: core.V(640, 700), Vel: core.V(0, 5), Radius: 12, Kind: KindFire})

	runUntilExpired(t, s, p, quietInput(SideBottom))
	if got := s.Paddle(SideBottom).Length(); got >= before {
		t.Errorf("paddle length %v, want below %v", got, before)
	}
}

func TestSimPaddleReturnsShot(t *testing.T) {
	s := New(Options{Seed: 1})
	p := s.spawn(&Projectile{Pos: core.V(640, 700), Vel: core.V(0, 5), Radius: 12})

	for i := 0; i < 60 && p.Owner == OwnerHostile; i++ {
		s.Step(quietInput(SideBottom))
	}
	if p.Owner != OwnerFriendly || p.LastPaddle != SideBottom {
		t.Fatalf("owner=%v last=%v, want friendly from bottom", p.Owner, p.LastPaddle)
	}
	if p.Vel.Y >= 0 {
		t.Errorf("returned shot heading %v, want upwards", p.Vel)
	}
	if p.Speed() > s.Config().Physics.MaxSpeed {
		t.Errorf("speed %v above cap", p.Speed())
	}
}

func TestSimStickyCatchAndRelease(t *testing.T) {
	s := New(Options{Seed: 1})
	pd := s.Paddle(SideBottom)
	pd.GrantPower(PotionSticky, 5000)
	p := s.spawn(&Projectile{Pos: core.V(640, 700), Vel: core.V(0, 5), Radius: 12})

	in := quietInput(SideBottom)
	for i := 0; i < 60 && !p.Stuck; i++ {
		s.Step(in)
	}
	if !p.Stuck || p.StuckTo != SideBottom {
		t.Fatal("ball was not caught")
	}

	in.Paddles[SideBottom].Dir = 1
	for i := 0; i < 10; i++ {
		s.Step(in)
	}
	if !p.Stuck {
		t.Fatal("ball fell off while riding")
	}
	if d := p.Pos.X - pd.Center().X; d < -pd.Length()/2 || d > pd.Length()/2 {
		t.Errorf("ball drifted off the paddle: offset %v", d)
	}

	in.Paddles[SideBottom].Dir = 0
	in.Paddles[SideBottom].Bump = true
	s.Step(in)
	if p.Stuck {
		t.Fatal("bump did not release the ball")
	}
	if p.Vel.Y >= 0 || p.Owner != OwnerFriendly {
		t.Errorf("released ball vel=%v owner=%v", p.Vel, p.Owner)
	}
}

func TestSimPierceShatters(t *testing.T) {
	s := New(Options{Seed: 1})
	p := s.spawn(&Projectile{
		Pos: core.V(640, 650), Vel: core.V(0, -6), Radius: 12,
		Kind: KindPiercing, Owner: OwnerFriendly, PierceLeft: 2,
	})
	var shattered int
	for i := 0; i < 300 && p.Alive(); i++ {
		out := s.Step(quietInput())
		for _, d := range out.Destroyed {
			if d.Shattered {
				shattered++
			}
		}
	}
	if p.Alive() {
		t.Fatal("piercing ball was not consumed")
	}
	if shattered != 2 {
		t.Errorf("shattered %d blocks, want 2", shattered)
	}
}

func TestSimStalledShotIsRemoved(t *testing.T) {
	s := New(Options{Seed: 1})
	p := s.spawn(&Projectile{Pos: core.V(100, 400), Vel: core.V(1, 0), Radius: 12})
	out := s.Step(quietInput())
	if p.Alive() {
		t.Fatal("slow projectile survived")
	}
	if len(out.Expired) != 1 || out.Expired[0].Reason != ExpiredStalled {
		t.Errorf("expired = %+v", out.Expired)
	}
}

func TestSimNewWaveClearsProjectiles(t *testing.T) {
	s := New(Options{Seed: 1})
	s.spawn(&Projectile{Pos: core.V(100, 400), Vel: core.V(5, 0), Radius: 12})
	events := s.NewWave(4)
	if len(s.Projectiles()) != 0 {
		t.Error("projectiles survived the new wave")
	}
	if s.Level() != 4 || len(events) == 0 {
		t.Errorf("level=%d cannons=%d", s.Level(), len(events))
	}
}

func TestSimRestoreWallBlock(t *testing.T) {
	s := New(Options{Seed: 1})
	total := s.Wall().AliveCount()
	if _, ok := s.RestoreWallBlock(); ok {
		t.Fatal("restored on an intact wall")
	}
	b := s.Wall().Alive()[0]
	s.Wall().Shatter(b.ID, core.V(0, 1), PhaseNormal)
	if _, ok := s.RestoreWallBlock(); !ok {
		t.Fatal("nothing restored")
	}
	if s.Wall().AliveCount() != total {
		t.Errorf("wall = %d blocks, want %d", s.Wall().AliveCount(), total)
	}
}

func TestSimWallLayout(t *testing.T) {
	s := New(Options{Seed: 1})
	cfg := s.Config()
	cols := int(cfg.Arena.Width / cfg.Arena.BlockSize)
	if got := s.Wall().AliveCount(); got != cols*cfg.Structure.WallRows {
		t.Errorf("wall blocks = %d, want %d", got, cols*cfg.Structure.WallRows)
	}
	first := s.Wall().Blocks()[0]
	if first.Box.X != 10 || first.Box.Y != cfg.Arena.Height-float64(cfg.Structure.WallRows)*cfg.Arena.BlockSize {
		t.Errorf("first wall block at %v", first.Box)
	}
}

func TestSimNilCollaborators(t *testing.T) {
	s := New(Options{})
	for i := 0; i < 100; i++ {
		s.Step(TickInput{DT: 1, ShootingEnabled: true})
	}
	if s.Tick() != 100 {
		t.Errorf("tick = %d", s.Tick())
	}
}

func TestSimCastleHitSpeedsUp(t *testing.T) {
	s := New(Options{Seed: 1})
	p := s.spawn(&Projectile{Pos: core.V(640, 650), Vel: core.V(0, -5), Radius: 12, Owner: OwnerFriendly})

	for i := 0; i < 200; i++ {
		before := p.Speed()
		out := s.Step(quietInput())
		for _, h := range out.Hits {
			if h.Target == TargetCastle {
				if p.Speed() <= before {
					t.Errorf("speed %v after castle hit, want above %v", p.Speed(), before)
				}
				return
			}
		}
	}
	t.Fatal("castle never hit")
}

func TestSimExplosionShrinksNearbyPaddles(t *testing.T) {
	s := New(Options{Seed: 1})
	s.Step(quietInput(SideBottom))
	before := s.Paddle(SideBottom).Length()

	p := s.spawn(&Projectile{Pos: s.Paddle(SideBottom).Center(), Radius: 12, Kind: KindFire, Owner: OwnerFriendly})
	var out TickOutput
	s.explode(p, PhaseNormal, &out)

	if p.Alive() {
		t.Error("fireball survived its explosion")
	}
	if len(out.Expired) != 1 || out.Expired[0].Reason != ExpiredExploded {
		t.Errorf("expired = %+v, want one explosion", out.Expired)
	}
	if got := s.Paddle(SideBottom).Length(); got >= before {
		t.Errorf("paddle length %v, want below %v", got, before)
	}
}
