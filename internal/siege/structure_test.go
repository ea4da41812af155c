package siege

import (
	"testing"

	"github.com/videobydak/castle-pong/internal/config"
	"github.com/videobydak/castle-pong/internal/core"
)

func newTestStructure(t *testing.T, role Role, rows ...string) (*Structure, *DebrisPool) {
	t.Helper()
	cfg := config.DefaultSiegeConfig()
	l, err := ParseLayout("test", rows, cfg.Structure.MaxTier)
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}
	debris := NewDebrisPool(cfg.Structure.DebrisCap)
	s := NewStructure(role, cfg, debris, NewLCG(3), nil)
	s.Build(l, core.V(100, 100))
	return s, debris
}

func TestApplyDamageTierProgression(t *testing.T) {
	s, debris := newTestStructure(t, RoleCastle, "3")
	id := s.Blocks()[0].ID

	wantTiers := []int{2, 1, 0}
	destroyed := 0
	for i, want := range wantTiers {
		res := s.ApplyDamage(id, core.V(110, 100), 0, PhaseNormal)
		if !res.Applied {
			t.Fatalf("hit %d was not applied", i+1)
		}
		b, _ := s.Block(id)
		if b.Tier != want {
			t.Errorf("after hit %d tier = %d, want %d", i+1, b.Tier, want)
		}
		if res.Destroyed != nil {
			destroyed++
			if i != 2 {
				t.Errorf("destroyed on hit %d, want the third", i+1)
			}
			if res.Destroyed.Tier != 0 || res.Destroyed.Block != id {
				t.Errorf("event = %+v", res.Destroyed)
			}
		}
	}
	if destroyed != 1 {
		t.Errorf("destruction events = %d, want 1", destroyed)
	}
	if debris.Len() == 0 {
		t.Error("destruction emitted no debris")
	}
	if s.AliveCount() != 0 || len(s.Query(core.NewBox(0, 0, 500, 500))) != 0 {
		t.Error("destroyed block still in the collision set")
	}
}

func TestApplyDamageOnDestroyedIsNoOp(t *testing.T) {
	s, debris := newTestStructure(t, RoleCastle, "1")
	id := s.Blocks()[0].ID
	s.ApplyDamage(id, core.Vec2{}, 0, PhaseNormal)
	before := debris.Len()

	for i := 0; i < 5; i++ {
		res := s.ApplyDamage(id, core.Vec2{}, 0, PhaseNormal)
		if res.Applied || res.Destroyed != nil {
			t.Fatalf("damage to a destroyed block returned %+v", res)
		}
		if res := s.Shatter(id, core.V(1, 0), PhaseNormal); res.Applied {
			t.Fatal("shatter on a destroyed block was applied")
		}
	}
	b, _ := s.Block(id)
	if b.Tier != 0 {
		t.Errorf("tier = %d, want 0", b.Tier)
	}
	if debris.Len() != before {
		t.Errorf("debris grew from %d to %d", before, debris.Len())
	}
	if s.AliveCount() != 0 {
		t.Errorf("alive = %d, want 0", s.AliveCount())
	}
}

func TestApplyDamageUnknownBlock(t *testing.T) {
	s, _ := newTestStructure(t, RoleCastle, "1")
	if res := s.ApplyDamage(9999, core.Vec2{}, 0, PhaseNormal); res.Applied {
		t.Error("damage to an unknown block was applied")
	}
}

func TestSuspendedPhaseSuppressesDebris(t *testing.T) {
	s, debris := newTestStructure(t, RoleCastle, "11")
	blocks := s.Blocks()

	res := s.ApplyDamage(blocks[0].ID, core.Vec2{}, 0, PhaseSuspended)
	if res.Destroyed == nil {
		t.Fatal("block was not destroyed")
	}
	if debris.Len() != 0 || res.Destroyed.Debris != (core.Vec2{}) {
		t.Errorf("suspended destruction emitted %d particles", debris.Len())
	}

	s.Shatter(blocks[1].ID, core.V(0, 1), PhaseSuspended)
	if debris.Len() != 0 {
		t.Errorf("suspended shatter emitted %d particles", debris.Len())
	}
}

func TestShatterBypassesTiers(t *testing.T) {
	s, debris := newTestStructure(t, RoleCastle, "3")
	id := s.Blocks()[0].ID

	res := s.Shatter(id, core.V(0, -5), PhaseNormal)
	if res.Destroyed == nil || !res.Destroyed.Shattered {
		t.Fatalf("shatter result = %+v", res)
	}
	if debris.Len() != config.DefaultSiegeConfig().Structure.ShatterDebris {
		t.Errorf("debris = %d, want the shatter burst", debris.Len())
	}
}

func TestDebrisBiasedAwayFromImpact(t *testing.T) {
	s, _ := newTestStructure(t, RoleCastle, "1")
	// Projectile travelling right: debris flies back to the left.
	res := s.ApplyDamage(s.Blocks()[0].ID, core.V(100, 120), 0, PhaseNormal)
	if res.Destroyed == nil {
		t.Fatal("block not destroyed")
	}
	if res.Destroyed.Debris.X >= 0 {
		t.Errorf("mean debris velocity %v, want leftwards", res.Destroyed.Debris)
	}
}

func TestGroupsSplit(t *testing.T) {
	s, _ := newTestStructure(t, RoleCastle, "111")
	if s.GroupCount() != 1 {
		t.Fatalf("groups = %d, want 1", s.GroupCount())
	}
	s.Shatter(s.Blocks()[1].ID, core.V(0, 1), PhaseNormal)
	if s.GroupCount() != 2 {
		t.Errorf("groups = %d, want 2", s.GroupCount())
	}
	left, right := s.Blocks()[0], s.Blocks()[2]
	if left.Group == right.Group {
		t.Error("split blocks share a group")
	}
}

func TestRepairRebuildsOnce(t *testing.T) {
	cfg := config.DefaultSiegeConfig()
	s, _ := newTestStructure(t, RoleCastle, "2")
	orig := s.Blocks()[0]
	s.Shatter(orig.ID, core.V(0, 1), PhaseNormal)

	if s.PendingRepairs() != 1 {
		t.Fatalf("pending = %d, want 1", s.PendingRepairs())
	}
	if got := s.Update(float64(cfg.Repair.Delay), nil); len(got) != 0 {
		t.Fatal("rebuilt before the repair time elapsed")
	}
	rebuilt := s.Update(float64(cfg.Repair.Time), nil)
	if len(rebuilt) != 1 {
		t.Fatalf("rebuilt %d blocks, want 1", len(rebuilt))
	}
	b := rebuilt[0]
	if b.ID == orig.ID || b.Tier != 1 || !b.Rebuilt || b.Col != orig.Col || b.Row != orig.Row {
		t.Errorf("rebuilt block = %+v", b)
	}

	s.Shatter(b.ID, core.V(0, 1), PhaseNormal)
	if s.PendingRepairs() != 0 {
		t.Errorf("rebuilt block scheduled another repair")
	}
}

func TestRepairWaitsForClearCell(t *testing.T) {
	cfg := config.DefaultSiegeConfig()
	s, _ := newTestStructure(t, RoleCastle, "1")
	s.Shatter(s.Blocks()[0].ID, core.V(0, 1), PhaseNormal)

	wait := float64(cfg.Repair.Delay + cfg.Repair.Time)
	if got := s.Update(wait, func(core.Box) bool { return true }); len(got) != 0 {
		t.Fatal("rebuilt under a projectile")
	}
	if got := s.Update(1, func(core.Box) bool { return false }); len(got) != 1 {
		t.Errorf("rebuilt %d once the cell cleared, want 1", len(got))
	}
}

func TestWallNeverRepairs(t *testing.T) {
	s, _ := newTestStructure(t, RoleWall, "1")
	s.Shatter(s.Blocks()[0].ID, core.V(0, 1), PhaseNormal)
	if s.PendingRepairs() != 0 {
		t.Error("wall scheduled a repair")
	}
}

func TestRestoreRefillsVacatedCell(t *testing.T) {
	s, _ := newTestStructure(t, RoleWall, "22")
	first := s.Blocks()[0]
	s.Shatter(first.ID, core.V(0, 1), PhaseNormal)

	b, ok := s.Restore(2)
	if !ok {
		t.Fatal("nothing restored")
	}
	if b.Col != first.Col || b.Row != first.Row || b.Tier != 2 {
		t.Errorf("restored %+v", b)
	}
	if _, ok := s.Restore(2); ok {
		t.Error("restored with no vacated cell")
	}
}

func TestQueryReturnsOverlappingBlocks(t *testing.T) {
	s, _ := newTestStructure(t, RoleCastle, "111", "1.1")
	// Blocks are 45px starting at (100, 100). This box covers the top-left
	// block and the left half of the top-middle block.
	got := s.Query(core.NewBox(120, 110, 40, 10))
	if len(got) != 2 {
		t.Fatalf("query found %d blocks, want 2", len(got))
	}
	if got[0].ID > got[1].ID {
		t.Error("query results not ordered by ID")
	}
	if got := s.Query(core.NewBox(150, 150, 30, 30)); len(got) != 0 {
		t.Errorf("query over an empty cell found %d blocks", len(got))
	}
}

func TestExposed(t *testing.T) {
	s, _ := newTestStructure(t, RoleCastle, "111", "111", "111")
	if got := len(s.Exposed()); got != 8 {
		t.Errorf("exposed = %d, want 8", got)
	}
}

func TestBounds(t *testing.T) {
	s, _ := newTestStructure(t, RoleCastle, "1.1")
	b, ok := s.Bounds()
	if !ok {
		t.Fatal("no bounds")
	}
	if b.X != 100 || b.W != 135 || b.H != 45 {
		t.Errorf("bounds = %+v", b)
	}
	for _, blk := range s.Blocks() {
		s.Shatter(blk.ID, core.V(0, 1), PhaseNormal)
	}
	if _, ok := s.Bounds(); ok {
		t.Error("empty structure has bounds")
	}
}
