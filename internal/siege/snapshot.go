package siege

import "math"

// fixed converts a float to hundredths for stable hashing.
func fixed(v float64) int {
	return int(math.Round(v * 100))
}

// Snapshot is a flattened copy of the simulation state.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick       uint64
	Level      int
	Layout     string
	Barrier    int
	TotalShots int

	// Each paddle is 6 ints: Active, X, Y, Length, WidenDepth, BumpOffset
	PaddleData []int

	// Each projectile is 11 ints: ID, X, Y, VX, VY, Spin, Kind, Potion,
	// Owner, PierceLeft, Stuck
	ProjectileCount int
	ProjectileData  []int

	// Each block is 2 ints: ID, Tier (live blocks only, creation order)
	CastleData []int
	WallData   []int

	// Each cannon is 5 ints: ID, State, Rail, Mount, Cooldown
	CannonData []int

	DebrisCount int
	RNGState    uint64
}

// Snapshot captures the current state.
func (s *Sim) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:        s.tick,
		Level:       s.level,
		Layout:      s.layout,
		Barrier:     fixed(s.barrier),
		TotalShots:  s.battery.TotalShots(),
		DebrisCount: s.debris.Len(),
	}

	snap.PaddleData = make([]int, 0, int(NumSides)*6)
	for _, pd := range s.paddles {
		active := 0
		if pd.Active {
			active = 1
		}
		snap.PaddleData = append(snap.PaddleData,
			active, fixed(pd.Box.X), fixed(pd.Box.Y), fixed(pd.Length()), pd.WidenDepth(), fixed(pd.Bump.Offset))
	}

	snap.ProjectileCount = len(s.projectiles)
	snap.ProjectileData = make([]int, 0, len(s.projectiles)*11)
	for _, p := range s.projectiles {
		stuck := 0
		if p.Stuck {
			stuck = 1
		}
		snap.ProjectileData = append(snap.ProjectileData,
			p.ID, fixed(p.Pos.X), fixed(p.Pos.Y), fixed(p.Vel.X), fixed(p.Vel.Y),
			int(math.Round(p.Spin*1000)), int(p.Kind), int(p.Potion), int(p.Owner), p.PierceLeft, stuck)
	}

	for _, b := range s.castle.Alive() {
		snap.CastleData = append(snap.CastleData, int(b.ID), b.Tier)
	}
	for _, b := range s.wall.Alive() {
		snap.WallData = append(snap.WallData, int(b.ID), b.Tier)
	}
	for _, c := range s.battery.Cannons() {
		snap.CannonData = append(snap.CannonData, c.ID, int(c.State), c.Rail, int(c.Mount), fixed(c.Cooldown))
	}

	if lcg, ok := s.rng.(*LCG); ok {
		snap.RNGState = lcg.State()
	}
	return snap
}

// CastleBlocks returns the number of live castle blocks in the snapshot.
func (snap *Snapshot) CastleBlocks() int { return len(snap.CastleData) / 2 }

// WallBlocks returns the number of live wall blocks in the snapshot.
func (snap *Snapshot) WallBlocks() int { return len(snap.WallData) / 2 }

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.Level)           //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Barrier)         //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.TotalShots)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.ProjectileCount) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.DebrisCount)     //#nosec G115 -- hash computation

	for _, r := range snap.Layout {
		h = h*31 + uint64(r) //#nosec G115 -- hash computation
	}

	for _, data := range [][]int{snap.PaddleData, snap.ProjectileData, snap.CastleData, snap.WallData, snap.CannonData} {
		h = h*31 + uint64(len(data)) //#nosec G115 -- hash computation
		for _, v := range data {
			h = h*31 + uint64(v) //#nosec G115 -- hash computation
		}
	}

	h = h*31 + snap.RNGState

	return h
}
