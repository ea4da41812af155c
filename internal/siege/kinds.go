// Package siege is the simulation engine: projectile physics, collision
// resolution, the castle's tiered block health and the cannon state machine.
//
// A Sim is owned by a single goroutine. Every call that can create debris
// takes an explicit Phase so that suspended ticks never emit particles.
package siege

import "strings"

// ProjectileKind classifies a projectile. The set is closed.
type ProjectileKind uint8

const (
	KindPlain ProjectileKind = iota
	KindFire
	KindPotion
	KindPiercing
)

func (k ProjectileKind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindFire:
		return "fire"
	case KindPotion:
		return "potion"
	case KindPiercing:
		return "piercing"
	}
	return "unknown"
}

// PotionKind is the effect carried by a potion projectile. PotionNone is
// the only valid value for non-potion projectiles.
type PotionKind uint8

const (
	PotionNone PotionKind = iota
	PotionWiden
	PotionSticky
	PotionThrough
	PotionBarrier
	PotionPierce

	numPotionKinds
)

// PotionKinds lists every real potion in draw order.
var PotionKinds = []PotionKind{PotionWiden, PotionSticky, PotionThrough, PotionBarrier, PotionPierce}

var potionNames = [...]string{"none", "widen", "sticky", "through", "barrier", "pierce"}

func (k PotionKind) String() string {
	if int(k) < len(potionNames) {
		return potionNames[k]
	}
	return "unknown"
}

// ParsePotionKind maps a config name onto a kind.
func ParsePotionKind(name string) (PotionKind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range PotionKinds {
		if potionNames[k] == name {
			return k, true
		}
	}
	return PotionNone, false
}

// PotionSet is a small bitset of potion kinds.
type PotionSet uint8

// NewPotionSet builds a set from kinds. PotionNone is ignored.
func NewPotionSet(kinds ...PotionKind) PotionSet {
	var s PotionSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

func (s PotionSet) With(k PotionKind) PotionSet {
	if k == PotionNone || k >= numPotionKinds {
		return s
	}
	return s | 1<<k
}

func (s PotionSet) Has(k PotionKind) bool {
	return k != PotionNone && k < numPotionKinds && s&(1<<k) != 0
}

func (s PotionSet) Empty() bool { return s == 0 }

// Kinds returns the members in draw order.
func (s PotionSet) Kinds() []PotionKind {
	out := make([]PotionKind, 0, len(PotionKinds))
	for _, k := range PotionKinds {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Owner says who a projectile currently threatens. Hostile shots come from
// the castle and damage the player wall. Friendly shots have been deflected
// by a paddle or barrier and damage the castle.
type Owner uint8

const (
	OwnerHostile Owner = iota
	OwnerFriendly
)

func (o Owner) String() string {
	if o == OwnerFriendly {
		return "friendly"
	}
	return "hostile"
}

// Side names a paddle by the arena edge it guards.
type Side uint8

const (
	SideBottom Side = iota
	SideTop
	SideLeft
	SideRight

	NumSides
)

// Sides lists every side in index order.
var Sides = [NumSides]Side{SideBottom, SideTop, SideLeft, SideRight}

var sideNames = [NumSides]string{"bottom", "top", "left", "right"}

func (s Side) String() string {
	if s < NumSides {
		return sideNames[s]
	}
	return "unknown"
}

// ParseSide maps a config name onto a side.
func ParseSide(name string) (Side, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range sideNames {
		if n == name {
			return Side(i), true
		}
	}
	return 0, false
}

// Horizontal reports whether paddles on this side move along x.
func (s Side) Horizontal() bool { return s == SideBottom || s == SideTop }

// Phase is the caller-declared simulation phase.
type Phase uint8

const (
	PhaseNormal Phase = iota
	// PhaseSuspended skips integration, collision and debris. Used for
	// pause, intros and overlays.
	PhaseSuspended
)

// Simulating reports whether physics and debris run in this phase.
func (p Phase) Simulating() bool { return p == PhaseNormal }

func (p Phase) String() string {
	if p == PhaseSuspended {
		return "suspended"
	}
	return "normal"
}

// Role distinguishes the two destructible structures.
type Role uint8

const (
	RoleCastle Role = iota
	RoleWall
)

func (r Role) String() string {
	if r == RoleWall {
		return "wall"
	}
	return "castle"
}
