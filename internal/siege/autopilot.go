package siege

import "math"

// Autopilot steers paddles toward incoming projectiles. It is used for
// headless runs and attract mode.
type Autopilot struct {
	// Deadzone is the distance along the axis within which a paddle stops.
	Deadzone float64
	// BumpRange is how close a shot must be to the paddle face to bump.
	BumpRange float64
}

// NewAutopilot returns an autopilot tuned for the default paddle.
func NewAutopilot() Autopilot {
	return Autopilot{Deadzone: 12, BumpRange: 40}
}

// Inputs returns one tick of input for every paddle. active says which
// paddles take part.
func (a Autopilot) Inputs(s *Sim, active [NumSides]bool) [NumSides]PaddleInput {
	var in [NumSides]PaddleInput
	for _, side := range Sides {
		in[side].Active = active[side]
		if !active[side] {
			continue
		}
		pd := s.Paddle(side)
		p := a.threat(pd, s.Projectiles())
		if p == nil {
			continue
		}

		axis := pd.Axis()
		diff := p.Pos.Sub(pd.Center()).Dot(axis)
		if diff > a.Deadzone {
			in[side].Dir = 1
		} else if diff < -a.Deadzone {
			in[side].Dir = -1
		}

		face := p.Pos.Sub(pd.Center()).Dot(pd.InwardNormal())
		in[side].Bump = face > 0 && face < a.BumpRange+p.Radius && !p.Stuck
		if p.Stuck && p.StuckTo == side {
			in[side].Bump = s.tick%2 == 0
		}
	}
	return in
}

// threat picks the projectile that will reach the paddle soonest. Hostile
// shots win over friendly ones.
func (a Autopilot) threat(pd *Paddle, projectiles []*Projectile) *Projectile {
	var best *Projectile
	bestT := math.Inf(1)
	bestHostile := false
	n := pd.InwardNormal()
	for _, p := range projectiles {
		if !p.Alive() {
			continue
		}
		if p.Stuck {
			if p.StuckTo == pd.Side {
				return p
			}
			continue
		}
		closing := -p.Vel.Dot(n)
		if closing <= 0 {
			continue
		}
		dist := p.Pos.Sub(pd.Center()).Dot(n)
		if dist < 0 {
			continue
		}
		t := dist / closing
		hostile := p.Owner == OwnerHostile
		if best == nil || (hostile && !bestHostile) || (hostile == bestHostile && t < bestT) {
			best, bestT, bestHostile = p, t, hostile
		}
	}
	return best
}
