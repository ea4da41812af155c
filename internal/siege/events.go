package siege

import "github.com/videobydak/castle-pong/internal/core"

// DestroyedEvent is emitted exactly once per destroyed block.
type DestroyedEvent struct {
	Role      Role
	Block     BlockID
	Pos       core.Vec2
	Tier      int       // tier reached, always 0
	Debris    core.Vec2 // mean debris velocity, zero when debris was suppressed
	Shattered bool
}

// RewardEvent asks the host to drop a reward where a castle block fell.
type RewardEvent struct {
	Block BlockID
	Pos   core.Vec2
}

// Target says what a projectile struck.
type Target uint8

const (
	TargetPaddle Target = iota
	TargetCastle
	TargetWall
)

func (t Target) String() string {
	switch t {
	case TargetPaddle:
		return "paddle"
	case TargetCastle:
		return "castle"
	}
	return "wall"
}

// HitEvent records a scoring-relevant contact.
type HitEvent struct {
	Target     Target
	Side       Side    // set for paddle hits
	Block      BlockID // set for block hits
	Kind       ProjectileKind
	Owner      Owner // owner before the hit was resolved
	Projectile int
	Score      int
}

// PotionEvent reports an absorbed potion. Side is the paddle that receives
// the effect. Wasted potions hit the player wall and grant nothing.
type PotionEvent struct {
	Side   Side
	Kind   PotionKind
	Wasted bool
}

// ExpireReason says why a projectile left play.
type ExpireReason uint8

const (
	ExpiredOutOfBounds ExpireReason = iota
	ExpiredAbsorbed
	ExpiredPierced
	ExpiredExploded
	ExpiredStalled
	ExpiredImpact
)

var expireNames = [...]string{"out_of_bounds", "absorbed", "pierced", "exploded", "stalled", "impact"}

func (r ExpireReason) String() string {
	if int(r) < len(expireNames) {
		return expireNames[r]
	}
	return "unknown"
}

// ExpiredEvent records a projectile removed this tick.
type ExpiredEvent struct {
	Projectile int
	Kind       ProjectileKind
	Reason     ExpireReason
	Pos        core.Vec2
}

// CannonEvent reports emplacements appearing or being lost with their block.
type CannonEvent struct {
	Cannon int
	Pos    core.Vec2
	Lost   bool
}
