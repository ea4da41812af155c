package siege

import (
	"math"
	"sort"

	"github.com/videobydak/castle-pong/internal/core"
)

// RailPos is one mount point on the castle perimeter.
type RailPos struct {
	Index  int
	Block  BlockID
	Pos    core.Vec2 // block centre
	Normal core.Vec2 // outward, away from the castle centroid
}

// Rail is the closed loop of perimeter blocks cannons travel along.
// Positions run clockwise on screen starting from straight up.
// A rail is built once per layout and rebuilt only when invalidated.
type Rail struct {
	Positions []RailPos
	Center    core.Vec2
}

// NewRail builds a rail over the exposed blocks of s.
func NewRail(s *Structure) Rail {
	exposed := s.Exposed()
	if len(exposed) == 0 {
		return Rail{}
	}

	var sum core.Vec2
	for _, b := range exposed {
		sum = sum.Add(b.Center())
	}
	center := sum.Scale(1 / float64(len(exposed)))

	// heading measured clockwise from straight up, in [0, 2pi)
	heading := func(b *Block) float64 {
		d := b.Center().Sub(center)
		a := math.Atan2(d.Y, d.X) + math.Pi/2
		if a < 0 {
			a += 2 * math.Pi
		}
		return a
	}
	sort.SliceStable(exposed, func(i, j int) bool {
		hi, hj := heading(exposed[i]), heading(exposed[j])
		if hi != hj {
			return hi < hj
		}
		return exposed[i].ID < exposed[j].ID
	})

	positions := make([]RailPos, len(exposed))
	for i, b := range exposed {
		n := b.Center().Sub(center)
		if n.LenSq() == 0 {
			n = core.V(0, -1)
		}
		positions[i] = RailPos{
			Index:  i,
			Block:  b.ID,
			Pos:    b.Center(),
			Normal: n.Norm(),
		}
	}
	return Rail{Positions: positions, Center: center}
}

// Len returns the total number of positions on the rail.
func (r Rail) Len() int {
	return len(r.Positions)
}

// Get returns the rail position at the given index.
func (r Rail) Get(index int) RailPos {
	n := r.Len()
	index = ((index % n) + n) % n
	return r.Positions[index]
}

// IndexOf finds the position mounted on a block.
func (r Rail) IndexOf(id BlockID) (int, bool) {
	for _, p := range r.Positions {
		if p.Block == id {
			return p.Index, true
		}
	}
	return 0, false
}

// Step moves one live position in direction dir (+1 clockwise) and skips
// positions whose block has been destroyed. It returns from when no other
// position is alive.
func (r Rail) Step(from, dir int, alive func(BlockID) bool) int {
	n := r.Len()
	if n == 0 {
		return from
	}
	i := from
	for k := 0; k < n; k++ {
		i = ((i+dir)%n + n) % n
		if i == from {
			break
		}
		if alive == nil || alive(r.Positions[i].Block) {
			return i
		}
	}
	return from
}

// Direction returns the shorter way round from one index to another.
func (r Rail) Direction(from, to int) int {
	n := r.Len()
	if n == 0 {
		return 0
	}
	cw := ((to-from)%n + n) % n
	if cw == 0 {
		return 0
	}
	if cw <= n-cw {
		return 1
	}
	return -1
}

// NearestX returns the live position whose x is closest to x. ok is false
// when nothing on the rail is alive.
func (r Rail) NearestX(x float64, alive func(BlockID) bool) (int, bool) {
	best, bestD := -1, math.Inf(1)
	for _, p := range r.Positions {
		if alive != nil && !alive(p.Block) {
			continue
		}
		if d := math.Abs(p.Pos.X - x); d < bestD {
			best, bestD = p.Index, d
		}
	}
	return best, best >= 0
}
