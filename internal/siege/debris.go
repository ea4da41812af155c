package siege

import (
	"math"

	"github.com/videobydak/castle-pong/internal/core"
)

// Particle is one piece of block debris.
type Particle struct {
	Pos      core.Vec2
	Vel      core.Vec2
	Friction float64
	Life     int // frames left
	Role     Role
}

// DebrisPool holds live particles up to a fixed cap. When full the oldest
// particles are dropped first.
type DebrisPool struct {
	parts []Particle
	cap   int
}

// NewDebrisPool creates a pool holding at most limit particles.
func NewDebrisPool(limit int) *DebrisPool {
	if limit <= 0 {
		limit = 1
	}
	return &DebrisPool{cap: limit}
}

// burstOpts describes a debris burst.
type burstOpts struct {
	at       core.Vec2
	bias     float64 // centre heading in radians
	spread   float64 // half-width in radians
	count    int
	minSpeed float64
	maxSpeed float64
	life     int
	role     Role
}

// Burst emits particles and returns their mean velocity.
func (d *DebrisPool) Burst(rng Rand, b burstOpts) core.Vec2 {
	var sum core.Vec2
	for i := 0; i < b.count; i++ {
		a := b.bias + uniform(rng, -b.spread, b.spread)
		v := core.FromAngle(a, uniform(rng, b.minSpeed, b.maxSpeed))
		sum = sum.Add(v)
		d.push(Particle{
			Pos:      b.at,
			Vel:      v,
			Friction: uniform(rng, 0.94, 0.985),
			Life:     b.life/2 + rng.Intn(b.life/2+1),
			Role:     b.role,
		})
	}
	if b.count == 0 {
		return core.Vec2{}
	}
	return sum.Scale(1 / float64(b.count))
}

func (d *DebrisPool) push(p Particle) {
	if len(d.parts) >= d.cap {
		copy(d.parts, d.parts[1:])
		d.parts = d.parts[:len(d.parts)-1]
	}
	d.parts = append(d.parts, p)
}

// Update moves particles and drops the expired ones.
func (d *DebrisPool) Update(dt float64) {
	if dt <= 0 {
		return
	}
	live := d.parts[:0]
	for _, p := range d.parts {
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		p.Vel = p.Vel.Scale(math.Pow(p.Friction, dt))
		p.Life -= int(math.Ceil(dt))
		if p.Life > 0 {
			live = append(live, p)
		}
	}
	d.parts = live
}

// Len returns the number of live particles.
func (d *DebrisPool) Len() int { return len(d.parts) }

// Particles returns the live particles. The slice must not be retained.
func (d *DebrisPool) Particles() []Particle { return d.parts }

// Clear drops every particle.
func (d *DebrisPool) Clear() { d.parts = d.parts[:0] }
