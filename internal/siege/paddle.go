package siege

import (
	"math"

	"github.com/videobydak/castle-pong/internal/config"
	"github.com/videobydak/castle-pong/internal/core"
)

// BumpState tracks the inward "bump" extension of a paddle.
type BumpState struct {
	Pressed     bool
	ChargeTicks int     // frames the bump has been held
	Progress    float64 // 0 retracted, 1 fully extended
	Offset      float64 // current inward offset in pixels
	Speed       float64 // inward pixels per frame over the last update

	prevPressed bool
}

// Paddle is one of the four player bats.
type Paddle struct {
	Side      Side
	Box       core.Box
	Vel       float64 // along the movement axis
	Dir       int     // -1, 0 or 1
	InwardVel float64 // bump motion toward the arena centre, pixels per frame
	Active    bool
	Bump      BumpState

	length      float64 // current length before widen stacking
	widenTimers []float64
	powers      [numPotionKinds]float64 // ms remaining
	rest        float64                 // retracted top-left coordinate on the normal axis

	cfg   config.PaddleConfig
	arena config.ArenaConfig
}

// NewPaddle creates a paddle centred on its edge.
func NewPaddle(side Side, arena config.ArenaConfig, cfg config.PaddleConfig) *Paddle {
	p := &Paddle{Side: side, length: cfg.Length, cfg: cfg, arena: arena}

	switch side {
	case SideTop:
		p.rest = cfg.Margin
	case SideBottom:
		p.rest = arena.Height - cfg.Thickness - cfg.BottomMargin
	case SideLeft:
		p.rest = cfg.Margin
	case SideRight:
		p.rest = arena.Width - cfg.Thickness - cfg.Margin
	}

	if side.Horizontal() {
		p.Box = core.NewBox((arena.Width-cfg.Length)/2, p.rest, cfg.Length, cfg.Thickness)
	} else {
		p.Box = core.NewBox(p.rest, (arena.Height-cfg.Length)/2, cfg.Thickness, cfg.Length)
	}
	p.applyLength()
	return p
}

// Axis returns the unit movement direction.
func (p *Paddle) Axis() core.Vec2 {
	if p.Side.Horizontal() {
		return core.V(1, 0)
	}
	return core.V(0, 1)
}

// InwardNormal points from the paddle toward the playfield.
func (p *Paddle) InwardNormal() core.Vec2 {
	switch p.Side {
	case SideTop:
		return core.V(0, 1)
	case SideLeft:
		return core.V(1, 0)
	case SideRight:
		return core.V(-1, 0)
	}
	return core.V(0, -1)
}

// Center returns the centre of the paddle box.
func (p *Paddle) Center() core.Vec2 { return p.Box.Center() }

// Length is the paddle's extent along its axis including widen stacks.
func (p *Paddle) Length() float64 {
	l := p.length * math.Pow(p.cfg.WidenFactor, float64(len(p.widenTimers)))
	return math.Min(l, p.axisSpan()-2*p.cfg.Margin)
}

// BaseLength is the length before widen stacks.
func (p *Paddle) BaseLength() float64 { return p.length }

// WidenDepth is the number of stacked widen potions.
func (p *Paddle) WidenDepth() int { return len(p.widenTimers) }

// PushWiden stacks one widen effect lasting ms.
func (p *Paddle) PushWiden(ms float64) {
	p.widenTimers = append(p.widenTimers, ms)
	p.applyLength()
}

// PopWiden removes the oldest widen stack. It is a no-op at depth zero.
func (p *Paddle) PopWiden() {
	if len(p.widenTimers) == 0 {
		return
	}
	p.widenTimers = p.widenTimers[1:]
	p.applyLength()
}

// Shrink reduces the paddle after a fire hit unless widen protects it.
// It reports whether the paddle changed.
func (p *Paddle) Shrink() bool {
	if p.HasPower(PotionWiden) {
		return false
	}
	next := math.Max(p.cfg.MinLength, p.length*p.cfg.ShrinkFactor)
	if next == p.length {
		return false
	}
	p.length = next
	p.applyLength()
	return true
}

// FullLength is the undamaged length, including permanent growth.
func (p *Paddle) FullLength() float64 { return p.cfg.Length }

// Grow permanently lengthens the paddle by px.
func (p *Paddle) Grow(px float64) {
	p.cfg.Length += px
	p.length += px
	p.applyLength()
}

// Heal restores half the current length, capped at the full length. It
// reports whether the paddle changed.
func (p *Paddle) Heal() bool {
	next := math.Min(p.cfg.Length, p.length*1.5)
	if next <= p.length {
		return false
	}
	p.length = next
	p.applyLength()
	return true
}

// Tune raises acceleration and top speed.
func (p *Paddle) Tune(accel, maxSpeed float64) {
	p.cfg.Accel += accel
	p.cfg.MaxSpeed += maxSpeed
}

// MaxSpeed is the current top speed along the axis.
func (p *Paddle) MaxSpeed() float64 { return p.cfg.MaxSpeed }

// GrantPower starts or refreshes a timed potion effect. Widen stacks.
func (p *Paddle) GrantPower(k PotionKind, ms float64) {
	if k == PotionWiden {
		p.PushWiden(ms)
		return
	}
	if k != PotionNone && k < numPotionKinds {
		p.powers[k] = ms
	}
}

// HasPower reports whether an effect is active on this paddle.
func (p *Paddle) HasPower(k PotionKind) bool {
	if k == PotionWiden {
		return len(p.widenTimers) > 0
	}
	return k != PotionNone && k < numPotionKinds && p.powers[k] > 0
}

// PowerRemaining returns milliseconds left on an effect.
func (p *Paddle) PowerRemaining(k PotionKind) float64 {
	if k == PotionWiden {
		if len(p.widenTimers) == 0 {
			return 0
		}
		return p.widenTimers[len(p.widenTimers)-1]
	}
	if k >= numPotionKinds {
		return 0
	}
	return p.powers[k]
}

// tickPowers advances effect timers and returns the kinds that ran out.
func (p *Paddle) tickPowers(ms float64) []PotionKind {
	var expired []PotionKind
	for k := PotionKind(1); k < numPotionKinds; k++ {
		if k == PotionWiden || p.powers[k] <= 0 {
			continue
		}
		p.powers[k] -= ms
		if p.powers[k] <= 0 {
			p.powers[k] = 0
			expired = append(expired, k)
		}
	}

	popped := 0
	for i := range p.widenTimers {
		p.widenTimers[i] -= ms
		if p.widenTimers[i] <= 0 {
			popped++
		}
	}
	for ; popped > 0; popped-- {
		p.PopWiden()
		expired = append(expired, PotionWiden)
	}
	return expired
}

// Update applies input for one step of dt frames.
func (p *Paddle) Update(dir int, bump bool, dt float64) {
	if dt <= 0 {
		return
	}
	p.Dir = dir

	if dir != 0 {
		p.Vel += float64(dir) * p.cfg.Accel * dt
		p.Vel = core.ClampF(p.Vel, -p.cfg.MaxSpeed, p.cfg.MaxSpeed)
	} else {
		p.Vel *= math.Pow(p.cfg.Friction, dt)
		if math.Abs(p.Vel) < 0.1 {
			p.Vel = 0
		}
	}

	lo, hi := p.travel()
	pos := p.axisPos() + p.Vel*dt
	if pos <= lo || pos >= hi {
		pos = core.ClampF(pos, lo, hi)
		p.Vel = 0
	}
	p.setAxisPos(pos)

	p.Bump.prevPressed = p.Bump.Pressed
	p.Bump.Pressed = bump
	if bump {
		p.Bump.ChargeTicks++
	} else {
		p.Bump.ChargeTicks = 0
	}

	target := 0.0
	if bump {
		target = 1
	}
	ease := 1 - math.Pow(1-p.cfg.BumpEase, dt)
	p.Bump.Progress += (target - p.Bump.Progress) * ease

	desired := p.Bump.Progress * p.cfg.BumpDist
	delta := desired - p.Bump.Offset
	p.Bump.Offset = desired
	p.Bump.Speed = math.Abs(delta) / dt
	p.InwardVel = delta / dt
	p.setNormalPos(p.rest + p.inwardSign()*p.Bump.Offset)
}

// BumpPressedEdge reports a press edge this update, used to launch stuck shots.
func (p *Paddle) BumpPressedEdge() bool {
	return p.Bump.Pressed && !p.Bump.prevPressed
}

// BumpBoost is the speed multiplier a hit receives from the current bump.
func (p *Paddle) BumpBoost() float64 {
	if p.cfg.BumpDist <= 0 {
		return 1
	}
	return 1 + (p.cfg.BumpStrength-1)*math.Min(1, p.Bump.Speed/p.cfg.BumpDist)
}

// Velocity2D combines lateral and bump motion.
func (p *Paddle) Velocity2D() core.Vec2 {
	return p.Axis().Scale(p.Vel).Add(p.InwardNormal().Scale(p.InwardVel))
}

// offsetAlong returns the signed distance of pt from the paddle centre along
// its axis, normalised to [-1, 1].
func (p *Paddle) offsetAlong(pt core.Vec2) float64 {
	half := p.Length() / 2
	if half <= 0 {
		return 0
	}
	d := pt.Sub(p.Center()).Dot(p.Axis())
	return core.ClampF(d/half, -1, 1)
}

func (p *Paddle) inwardSign() float64 {
	if p.Side == SideTop || p.Side == SideLeft {
		return 1
	}
	return -1
}

func (p *Paddle) axisSpan() float64 {
	if p.Side.Horizontal() {
		return p.arena.Width
	}
	return p.arena.Height
}

func (p *Paddle) travel() (lo, hi float64) {
	return p.cfg.Margin, p.axisSpan() - p.Length() - p.cfg.Margin
}

func (p *Paddle) axisPos() float64 {
	if p.Side.Horizontal() {
		return p.Box.X
	}
	return p.Box.Y
}

func (p *Paddle) setAxisPos(v float64) {
	if p.Side.Horizontal() {
		p.Box.X = v
	} else {
		p.Box.Y = v
	}
}

func (p *Paddle) setNormalPos(v float64) {
	if p.Side.Horizontal() {
		p.Box.Y = v
	} else {
		p.Box.X = v
	}
}

// applyLength resizes the box around its centre and keeps it in bounds.
func (p *Paddle) applyLength() {
	l := p.Length()
	c := p.Center().Dot(p.Axis())
	if p.Side.Horizontal() {
		p.Box.W = l
	} else {
		p.Box.H = l
	}
	lo, hi := p.travel()
	p.setAxisPos(core.ClampF(c-l/2, lo, math.Max(lo, hi)))
}
