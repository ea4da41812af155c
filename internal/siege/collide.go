package siege

import (
	"math"

	"github.com/videobydak/castle-pong/internal/core"
)

// Contact describes a circle overlapping another shape.
type Contact struct {
	Normal core.Vec2 // unit vector pointing away from the other shape
	Depth  float64   // penetration distance
	Point  core.Vec2 // closest point on the other shape
}

// CircleRectContact tests a circle against a box using closest-point
// clamping. A centre inside the box is pushed out along the axis of least
// overlap.
func CircleRectContact(c core.Vec2, r float64, b core.Box) (Contact, bool) {
	q := b.ClosestPoint(c)
	d := c.Sub(q)
	dist := d.Len()

	if dist > 0 {
		if dist >= r {
			return Contact{}, false
		}
		return Contact{Normal: d.Scale(1 / dist), Depth: r - dist, Point: q}, true
	}

	left := c.X - b.X
	right := b.Right() - c.X
	top := c.Y - b.Y
	bottom := b.Bottom() - c.Y

	ct := Contact{Normal: core.V(-1, 0), Depth: r + left, Point: core.V(b.X, c.Y)}
	if right < ct.Depth-r {
		ct = Contact{Normal: core.V(1, 0), Depth: r + right, Point: core.V(b.Right(), c.Y)}
	}
	if top < ct.Depth-r {
		ct = Contact{Normal: core.V(0, -1), Depth: r + top, Point: core.V(c.X, b.Y)}
	}
	if bottom < ct.Depth-r {
		ct = Contact{Normal: core.V(0, 1), Depth: r + bottom, Point: core.V(c.X, b.Bottom())}
	}
	return ct, true
}

// CircleCircleContact tests two circles. The normal points from b to a.
func CircleCircleContact(a core.Vec2, ra float64, b core.Vec2, rb float64) (Contact, bool) {
	d := a.Sub(b)
	dist := d.Len()
	sum := ra + rb
	if dist >= sum {
		return Contact{}, false
	}
	n := core.V(0, -1)
	if dist > 0 {
		n = d.Scale(1 / dist)
	}
	return Contact{Normal: n, Depth: sum - dist, Point: b.Add(n.Scale(rb))}, true
}

// Reflect mirrors v across a surface with unit normal n when v points into
// the surface. Velocities already leaving are returned unchanged.
func Reflect(v, n core.Vec2) core.Vec2 {
	vn := v.Dot(n)
	if vn >= 0 {
		return v
	}
	return v.Sub(n.Scale(2 * vn))
}

// ResolveProjectilePair applies an equal-mass elastic collision between two
// free projectiles and separates them. It reports whether they touched.
func ResolveProjectilePair(a, b *Projectile) bool {
	if a.Stuck || b.Stuck || a.dead || b.dead {
		return false
	}
	c, ok := CircleCircleContact(a.Pos, a.Radius, b.Pos, b.Radius)
	if !ok {
		return false
	}

	n := c.Normal
	rel := a.Vel.Sub(b.Vel).Dot(n)
	if rel < 0 {
		// equal masses swap their normal components
		a.Vel = a.Vel.Sub(n.Scale(rel))
		b.Vel = b.Vel.Add(n.Scale(rel))
	}

	half := c.Depth / 2
	a.Pos = a.Pos.Add(n.Scale(half))
	b.Pos = b.Pos.Sub(n.Scale(half))
	return true
}

// rectCandidate is one overlapping box found for a projectile this tick.
type rectCandidate struct {
	contact Contact
	paddle  *Paddle
	block   *Block
	role    Role
}

// deepest returns the candidate with the greatest penetration. Ties keep
// the earlier candidate so results do not depend on float noise.
func deepest(cands []rectCandidate) (rectCandidate, bool) {
	if len(cands) == 0 {
		return rectCandidate{}, false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.contact.Depth > best.contact.Depth+1e-9 {
			best = c
		}
	}
	return best, true
}

// pushOut moves p clear of a contact along its normal.
func pushOut(p *Projectile, c Contact) {
	p.Pos = p.Pos.Add(c.Normal.Scale(c.Depth + 0.01))
}

// angleOf returns the heading of v, or straight up for a zero vector.
func angleOf(v core.Vec2) float64 {
	if v.LenSq() == 0 {
		return -math.Pi / 2
	}
	return v.Angle()
}
