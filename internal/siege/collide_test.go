package siege

import (
	"math"
	"testing"

	"github.com/videobydak/castle-pong/internal/config"
	"github.com/videobydak/castle-pong/internal/core"
)

func TestCircleRectContact(t *testing.T) {
	box := core.NewBox(0, 0, 40, 20)

	tests := []struct {
		name      string
		center    core.Vec2
		hit       bool
		normal    core.Vec2
		wantDepth float64
	}{
		{"clear of box", core.V(100, 100), false, core.Vec2{}, 0},
		{"just touching", core.V(50, 10), false, core.Vec2{}, 0},
		{"overlapping top", core.V(20, -5), true, core.V(0, -1), 5},
		{"overlapping right", core.V(45, 10), true, core.V(1, 0), 5},
		{"centre inside near left", core.V(2, 10), true, core.V(-1, 0), 12},
		{"centre inside near bottom", core.V(20, 19), true, core.V(0, 1), 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := CircleRectContact(tt.center, 10, box)
			if ok != tt.hit {
				t.Fatalf("hit = %v, want %v", ok, tt.hit)
			}
			if !ok {
				return
			}
			if !c.Normal.Eq(tt.normal, 1e-9) {
				t.Errorf("normal = %v, want %v", c.Normal, tt.normal)
			}
			if math.Abs(c.Depth-tt.wantDepth) > 1e-9 {
				t.Errorf("depth = %v, want %v", c.Depth, tt.wantDepth)
			}
		})
	}
}

func TestCircleCircleContact(t *testing.T) {
	if _, ok := CircleCircleContact(core.V(0, 0), 5, core.V(20, 0), 5); ok {
		t.Error("separated circles reported a contact")
	}
	c, ok := CircleCircleContact(core.V(0, 0), 5, core.V(8, 0), 5)
	if !ok {
		t.Fatal("overlapping circles reported no contact")
	}
	if !c.Normal.Eq(core.V(-1, 0), 1e-9) || math.Abs(c.Depth-2) > 1e-9 {
		t.Errorf("contact = %+v, want normal (-1,0) depth 2", c)
	}
}

func TestReflect(t *testing.T) {
	n := core.V(0, -1)
	if got := Reflect(core.V(3, 4), n); !got.Eq(core.V(3, -4), 1e-9) {
		t.Errorf("incoming reflect = %v, want (3,-4)", got)
	}
	if got := Reflect(core.V(3, -4), n); got != core.V(3, -4) {
		t.Errorf("outgoing velocity changed to %v", got)
	}
}

func TestResolveProjectilePairHeadOn(t *testing.T) {
	a := &Projectile{Pos: core.V(0, 0), Vel: core.V(2, 0), Radius: 5}
	b := &Projectile{Pos: core.V(8, 0), Vel: core.V(-3, 0), Radius: 5}

	if !ResolveProjectilePair(a, b) {
		t.Fatal("expected a contact")
	}
	if !a.Vel.Eq(core.V(-3, 0), 1e-9) || !b.Vel.Eq(core.V(2, 0), 1e-9) {
		t.Errorf("velocities = %v %v, want swapped", a.Vel, b.Vel)
	}
	if d := a.Pos.Dist(b.Pos); d < 10-1e-9 {
		t.Errorf("projectiles still overlap, distance %v", d)
	}
}

func TestResolveProjectilePairSkipsStuck(t *testing.T) {
	a := &Projectile{Pos: core.V(0, 0), Vel: core.V(2, 0), Radius: 5, Stuck: true}
	b := &Projectile{Pos: core.V(8, 0), Vel: core.V(-3, 0), Radius: 5}
	if ResolveProjectilePair(a, b) {
		t.Error("stuck projectile took part in a pair collision")
	}
}

func TestDeepestPicksGreatestPenetration(t *testing.T) {
	cands := []rectCandidate{
		{contact: Contact{Depth: 2}, role: RoleWall},
		{contact: Contact{Depth: 7}, role: RoleCastle},
		{contact: Contact{Depth: 7}, role: RoleWall},
		{contact: Contact{Depth: 1}},
	}
	got, ok := deepest(cands)
	if !ok {
		t.Fatal("no candidate chosen")
	}
	if got.contact.Depth != 7 || got.role != RoleCastle {
		t.Errorf("chose %+v, want the first depth-7 candidate", got)
	}
	if _, ok := deepest(nil); ok {
		t.Error("empty candidate list chose something")
	}
}

func TestPaddleHitNeverExceedsMaxSpeed(t *testing.T) {
	cfg := config.DefaultSiegeConfig()
	s := New(Options{Config: cfg, Seed: 7})
	pd := s.Paddle(SideBottom)
	pd.Active = true

	// Drive the paddle to full speed with the bump held.
	for i := 0; i < 30; i++ {
		pd.Update(1, i > 20, 1)
	}
	n := pd.InwardNormal()

	for _, speed := range []float64{0.5, 5, 14, 15, 40, 1000} {
		for _, deg := range []float64{30, 60, 90, 120, 150} {
			rad := deg * math.Pi / 180
			p := &Projectile{
				Pos:    pd.Center().Add(pd.Axis().Scale(pd.Length() / 3)),
				Vel:    core.FromAngle(rad, speed),
				Radius: cfg.Physics.BallRadius,
				Spin:   0.4,
			}
			s.deflect(p, pd, n)
			if got := p.Speed(); got > cfg.Physics.MaxSpeed+1e-9 {
				t.Errorf("speed %v at %v deg left the paddle at %v, cap %v", speed, deg, got, cfg.Physics.MaxSpeed)
			}
			if p.Vel.Dot(n) <= 0 {
				t.Errorf("speed %v at %v deg left heading into the paddle: %v", speed, deg, p.Vel)
			}
		}
	}
}

func TestPaddleHitOffsetDeflects(t *testing.T) {
	cfg := config.DefaultSiegeConfig()
	s := New(Options{Config: cfg, Seed: 1})
	pd := s.Paddle(SideBottom)
	n := pd.InwardNormal()

	right := &Projectile{Pos: pd.Center().Add(core.V(pd.Length()/2, 0)), Vel: core.V(0, 5)}
	left := &Projectile{Pos: pd.Center().Sub(core.V(pd.Length()/2, 0)), Vel: core.V(0, 5)}
	s.deflect(right, pd, n)
	s.deflect(left, pd, n)

	if right.Vel.X <= 0 {
		t.Errorf("hit on the right end went %v, want rightwards", right.Vel)
	}
	if left.Vel.X >= 0 {
		t.Errorf("hit on the left end went %v, want leftwards", left.Vel)
	}
}
