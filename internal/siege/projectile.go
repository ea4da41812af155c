package siege

import "github.com/videobydak/castle-pong/internal/core"

// reservation flags carried by shots that hold a castle-wide slot.
const (
	reservePotion uint8 = 1 << iota
	reserveFire
)

// Projectile is a cannonball, fireball or potion in flight.
type Projectile struct {
	ID     int
	Pos    core.Vec2
	Vel    core.Vec2
	Radius float64
	Spin   float64 // signed, turns the velocity via the Magnus term

	Kind       ProjectileKind
	Potion     PotionKind // PotionNone unless Kind == KindPotion
	Owner      Owner
	PierceLeft int // remaining shatters for KindPiercing
	BlocksHit  int // castle or wall blocks struck by a fireball

	// Stuck projectiles ride a sticky paddle until it bumps. The side is a
	// lookup key, never a pointer, so a projectile cannot keep a paddle alive.
	Stuck       bool
	StuckTo     Side
	StuckOffset float64

	LastPaddle Side // who last deflected it, receives absorbed potions
	Deflected  bool

	reserve uint8
	dead    bool
}

// Speed returns the velocity magnitude.
func (p *Projectile) Speed() float64 { return p.Vel.Len() }

// Bounds returns the projectile's bounding box.
func (p *Projectile) Bounds() core.Box {
	return core.BoxAt(p.Pos, 2*p.Radius, 2*p.Radius)
}

// Alive reports whether the projectile is still in play.
func (p *Projectile) Alive() bool { return !p.dead }

func (p *Projectile) kill() { p.dead = true }

// Reserved reports whether the shot holds the potion or fire slot.
func (p *Projectile) Reserved() (potion, fire bool) {
	return p.reserve&reservePotion != 0, p.reserve&reserveFire != 0
}
