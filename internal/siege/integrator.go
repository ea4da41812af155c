package siege

import (
	"math"

	"github.com/videobydak/castle-pong/internal/config"
)

// spinEpsilon is the magnitude below which spin snaps to zero.
const spinEpsilon = 1e-4

// Integrator advances one projectile at a time. dt is measured in 60 Hz
// frames, so 1.0 is one frame at the reference rate.
type Integrator struct {
	cfg config.PhysicsConfig
}

// NewIntegrator creates an integrator over the given constants.
func NewIntegrator(cfg config.PhysicsConfig) Integrator {
	return Integrator{cfg: cfg}
}

// ClampDT sanitises an elapsed time. Zero, negative and NaN become a
// zero-length step. Positive values are clamped into [MinDT, MaxDT].
func (in Integrator) ClampDT(dt float64) float64 {
	if !(dt > 0) {
		return 0
	}
	if in.cfg.MaxDT > 0 && dt > in.cfg.MaxDT {
		return in.cfg.MaxDT
	}
	if dt < in.cfg.MinDT {
		return in.cfg.MinDT
	}
	return dt
}

// Integrate moves p by one step and mutates nothing else.
func (in Integrator) Integrate(p *Projectile, dt float64) {
	dt = in.ClampDT(dt)
	if dt == 0 || p.Stuck {
		return
	}

	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	p.Vel = p.Vel.Scale(math.Pow(in.cfg.Friction, dt))

	// Lateral Magnus force: perpendicular to velocity, so speed is kept.
	if p.Spin != 0 {
		p.Vel = p.Vel.Rotate(in.cfg.MagnusCoeff * p.Spin * dt)
	}

	p.Spin *= math.Pow(in.cfg.SpinDamping, dt)
	if math.Abs(p.Spin) < spinEpsilon {
		p.Spin = 0
	}

	clampSpeed(p, in.cfg.MaxSpeed)
}

func clampSpeed(p *Projectile, limit float64) {
	if limit <= 0 {
		return
	}
	if s := p.Vel.Len(); s > limit {
		p.Vel = p.Vel.Scale(limit / s)
	}
}
