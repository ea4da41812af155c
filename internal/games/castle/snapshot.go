package castle

import "github.com/videobydak/castle-pong/internal/siege"

// Snapshot contains the complete game state for replay verification.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick     int
	Score    int
	Wave     int
	State    string
	Mode     int // 0=Campaign, 1=Endless
	Hearts   int
	Coins    int
	IntroMs  int
	SlowMs   int
	Unlocked int   // bitmask by side
	Upgrades []int // levels in catalogue order

	Sim         siege.Snapshot
	RewardState uint64
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:    g.tickCount,
		Score:   g.score,
		Wave:    g.wave,
		State:   g.state,
		Mode:    int(g.mode),
		Hearts:  g.hearts,
		Coins:   g.coins,
		IntroMs: int(g.introMs),
		SlowMs:  int(g.slowMs),
	}
	for _, u := range Upgrades {
		snap.Upgrades = append(snap.Upgrades, g.upgrades[u.ID])
	}
	for side, on := range g.unlocked {
		if on {
			snap.Unlocked |= 1 << side
		}
	}
	if g.sim != nil {
		snap.Sim = g.sim.Snapshot()
	}
	if lcg, ok := g.rewards.(*siege.LCG); ok {
		snap.RewardState = lcg.State()
	}
	return snap
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Sim.Hash()
	h = h*31 + uint64(snap.Tick)     //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Score)    //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Wave)     //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Mode)     //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Hearts)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Coins)    //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.IntroMs)  //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.SlowMs)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Unlocked) //#nosec G115 -- hash computation

	for _, lvl := range snap.Upgrades {
		h = h*31 + uint64(lvl) //#nosec G115 -- hash computation
	}

	for _, r := range snap.State {
		h = h*31 + uint64(r) //#nosec G115 -- hash computation
	}

	h = h*31 + snap.RewardState

	return h
}
