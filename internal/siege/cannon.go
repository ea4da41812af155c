package siege

import (
	"math"

	"github.com/videobydak/castle-pong/internal/core"
)

// CannonState is the emplacement state machine.
type CannonState uint8

const (
	CannonDormant CannonState = iota
	CannonCharging
	CannonRepositioning
	CannonFiring
)

var cannonStateNames = [...]string{"dormant", "charging", "repositioning", "firing"}

func (s CannonState) String() string {
	if int(s) < len(cannonStateNames) {
		return cannonStateNames[s]
	}
	return "unknown"
}

// SimulationContext is the read-only view of the simulation a cannon needs.
type SimulationContext interface {
	// TotalShots is the number of shots fired by the castle this run.
	TotalShots() int
	// ShootingEnabled is the host's global fire gate for this tick.
	ShootingEnabled() bool
}

// Ammo is the classification chosen for a cannon's next shot.
type Ammo struct {
	Kind   ProjectileKind
	Potion PotionKind
	// reserve holds the structure-wide slot taken at classification.
	reserve uint8
}

// targetKind says what a cannon is aiming at.
type targetKind uint8

const (
	aimNone targetKind = iota
	aimPaddle
	aimWall
)

type shotTarget struct {
	kind  targetKind
	side  Side
	block BlockID
	point core.Vec2
}

// Cannon is one emplacement mounted on a castle block.
type Cannon struct {
	ID       int
	State    CannonState
	Rail     int     // index of the rail position it sits on
	Mount    BlockID // dies with this block
	Pos      core.Vec2
	Aim      float64 // barrel heading in radians
	Ammo     Ammo
	Cooldown float64 // ms until it may act again
	Charge   float64 // ms charged so far
	ChargeOf float64 // ms the current charge lasts
	Level    int     // wave level the cannon was last updated with

	ctx      SimulationContext
	target   shotTarget
	travelTo int
	travelDx int
	dead     bool
}

func newCannon(id int, pos RailPos, ctx SimulationContext, cooldown float64, level int) *Cannon {
	return &Cannon{
		ID:       id,
		State:    CannonDormant,
		Rail:     pos.Index,
		Mount:    pos.Block,
		Pos:      pos.Pos,
		Aim:      angleOf(pos.Normal),
		Cooldown: cooldown,
		Level:    level,
		ctx:      ctx,
	}
}

// Alive reports whether the cannon's mount still stands.
func (c *Cannon) Alive() bool { return !c.dead }

// ChargeProgress returns how far the current charge is, in [0, 1].
func (c *Cannon) ChargeProgress() float64 {
	if c.State != CannonCharging || c.ChargeOf <= 0 {
		return 0
	}
	return core.ClampF(c.Charge/c.ChargeOf, 0, 1)
}

// Muzzle returns the spawn point for a shot heading dir.
func (c *Cannon) Muzzle(dir core.Vec2, length, gap float64) core.Vec2 {
	return c.Pos.Add(dir.Scale(length + gap))
}

// ready reports whether a dormant cannon may start its next action.
func (c *Cannon) ready() bool {
	return c.Cooldown <= 0 && c.ctx != nil && c.ctx.ShootingEnabled()
}

// turnToward eases the barrel toward a point.
func (c *Cannon) turnToward(pt core.Vec2, smoothing, dt float64) {
	want := angleOf(pt.Sub(c.Pos))
	diff := math.Remainder(want-c.Aim, 2*math.Pi)
	k := 1 - math.Pow(1-core.ClampF(smoothing, 0, 1), dt)
	c.Aim += diff * k
}
