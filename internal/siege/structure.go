package siege

import (
	"io"
	"math"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/solarlune/resolv"

	"github.com/videobydak/castle-pong/internal/config"
	"github.com/videobydak/castle-pong/internal/core"
)

const (
	tagBlock = "block"
	tagProbe = "probe"
)

// BlockID identifies a block within its structure. Rebuilt blocks get a
// fresh ID.
type BlockID int

// Material is a visual hint for renderers.
type Material uint8

const (
	MaterialStone Material = iota
	MaterialBrick
)

// Block is one destructible cell of a structure.
type Block struct {
	ID       BlockID
	Role     Role
	Box      core.Box
	Col, Row int
	Tier     int // 0 means destroyed
	MaxTier  int
	Material Material
	Group    int // connectivity group, -1 once destroyed
	Rebuilt  bool

	obj *resolv.Object
}

// Destroyed reports whether the block has reached tier zero.
func (b *Block) Destroyed() bool { return b.Tier <= 0 }

// Center returns the block centre.
func (b *Block) Center() core.Vec2 { return b.Box.Center() }

// DamageOutcome is the result of ApplyDamage or Shatter.
type DamageOutcome struct {
	Applied   bool // false for no-ops on missing or destroyed blocks
	Tier      int
	Destroyed *DestroyedEvent
}

type cell struct{ col, row int }

type repairJob struct {
	at      cell
	readyAt float64
}

// Structure is a grid of tiered blocks: the castle or the player wall.
// Live blocks are indexed in a resolv space for broadphase queries.
type Structure struct {
	role   Role
	cfg    config.StructureConfig
	repair config.RepairConfig
	arena  config.ArenaConfig
	size   float64
	origin core.Vec2

	blocks []*Block // creation order, includes destroyed blocks
	byID   map[BlockID]*Block
	grid   map[cell]*Block // live blocks only
	space  *resolv.Space
	probe  *resolv.Object

	debris  *DebrisPool
	rng     Rand
	log     *log.Logger
	nextID  BlockID
	alive   int
	groups  int
	clock   float64 // ms
	repairs []repairJob
	vacated []cell
}

// NewStructure creates an empty structure. debris and logger may be nil.
func NewStructure(role Role, cfg config.SiegeConfig, debris *DebrisPool, rng Rand, logger *log.Logger) *Structure {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if rng == nil {
		rng = NewLCG(1)
	}
	s := &Structure{
		role:   role,
		cfg:    cfg.Structure,
		repair: cfg.Repair,
		arena:  cfg.Arena,
		size:   cfg.Arena.BlockSize,
		debris: debris,
		rng:    rng,
		log:    logger,
	}
	s.reset()
	return s
}

func (s *Structure) reset() {
	cellSize := int(s.size)
	if cellSize <= 0 {
		cellSize = 1
	}
	s.space = resolv.NewSpace(int(s.arena.Width), int(s.arena.Height), cellSize, cellSize)
	s.probe = resolv.NewObject(0, 0, 1, 1, tagProbe)
	s.space.Add(s.probe)
	s.blocks = nil
	s.byID = make(map[BlockID]*Block)
	s.grid = make(map[cell]*Block)
	s.alive = 0
	s.groups = 0
	s.repairs = nil
	s.vacated = nil
}

// Build replaces every block with the given layout, top-left at origin.
func (s *Structure) Build(l Layout, origin core.Vec2) {
	s.reset()
	s.origin = origin
	for row, tiers := range l.Tiers {
		for col, t := range tiers {
			if t > 0 {
				s.addBlock(cell{col, row}, t, false)
			}
		}
	}
	s.recomputeGroups()
}

func (s *Structure) cellBox(c cell) core.Box {
	return core.NewBox(s.origin.X+float64(c.col)*s.size, s.origin.Y+float64(c.row)*s.size, s.size, s.size)
}

func (s *Structure) addBlock(c cell, tier int, rebuilt bool) *Block {
	s.nextID++
	mat := MaterialStone
	if s.role == RoleWall {
		mat = MaterialBrick
	}
	b := &Block{
		ID:       s.nextID,
		Role:     s.role,
		Box:      s.cellBox(c),
		Col:      c.col,
		Row:      c.row,
		Tier:     tier,
		MaxTier:  tier,
		Material: mat,
		Rebuilt:  rebuilt,
	}
	b.obj = resolv.NewObject(b.Box.X, b.Box.Y, b.Box.W, b.Box.H, tagBlock)
	b.obj.Data = b
	s.space.Add(b.obj)

	s.blocks = append(s.blocks, b)
	s.byID[b.ID] = b
	s.grid[c] = b
	s.alive++
	return b
}

// Role returns what the structure is.
func (s *Structure) Role() Role { return s.role }

// Block returns a block by ID, destroyed or not.
func (s *Structure) Block(id BlockID) (*Block, bool) {
	b, ok := s.byID[id]
	return b, ok
}

// Blocks returns every block built since the last Build, in creation order.
func (s *Structure) Blocks() []*Block { return s.blocks }

// Alive returns live blocks in creation order.
func (s *Structure) Alive() []*Block {
	out := make([]*Block, 0, s.alive)
	for _, b := range s.blocks {
		if !b.Destroyed() {
			out = append(out, b)
		}
	}
	return out
}

// AliveCount returns the number of live blocks.
func (s *Structure) AliveCount() int { return s.alive }

// GroupCount returns the number of 4-connected groups of live blocks.
func (s *Structure) GroupCount() int { return s.groups }

// Bounds returns the box around every live block.
func (s *Structure) Bounds() (core.Box, bool) {
	first := true
	var minX, minY, maxX, maxY float64
	for _, b := range s.blocks {
		if b.Destroyed() {
			continue
		}
		if first {
			minX, minY, maxX, maxY = b.Box.X, b.Box.Y, b.Box.Right(), b.Box.Bottom()
			first = false
			continue
		}
		minX = math.Min(minX, b.Box.X)
		minY = math.Min(minY, b.Box.Y)
		maxX = math.Max(maxX, b.Box.Right())
		maxY = math.Max(maxY, b.Box.Bottom())
	}
	if first {
		return core.Box{}, false
	}
	return core.NewBox(minX, minY, maxX-minX, maxY-minY), true
}

// Query returns live blocks overlapping box, ordered by ID.
func (s *Structure) Query(box core.Box) []*Block {
	s.probe.X, s.probe.Y = box.X, box.Y
	s.probe.W, s.probe.H = box.W, box.H
	s.probe.Update()

	c := s.probe.Check(0, 0, tagBlock)
	if c == nil {
		return nil
	}
	var out []*Block
	for _, o := range c.Objects {
		b, ok := o.Data.(*Block)
		if !ok || b.Destroyed() || !b.Box.Intersects(box) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ApplyDamage lowers a block by exactly one tier. angle is the heading of
// the incoming projectile. Damage to a destroyed or unknown block is a no-op.
func (s *Structure) ApplyDamage(id BlockID, impact core.Vec2, angle float64, phase Phase) DamageOutcome {
	b, ok := s.byID[id]
	if !ok || b.Destroyed() {
		s.log.Debug("damage ignored", "structure", s.role, "block", id)
		return DamageOutcome{}
	}

	b.Tier--
	if b.Tier > 0 {
		return DamageOutcome{Applied: true, Tier: b.Tier}
	}
	ev := s.destroy(b, impact, angle, s.cfg.DebrisCount, phase, false)
	return DamageOutcome{Applied: true, Destroyed: ev}
}

// Shatter destroys a block immediately with a larger debris burst.
func (s *Structure) Shatter(id BlockID, incoming core.Vec2, phase Phase) DamageOutcome {
	b, ok := s.byID[id]
	if !ok || b.Destroyed() {
		s.log.Debug("shatter ignored", "structure", s.role, "block", id)
		return DamageOutcome{}
	}
	ev := s.destroy(b, b.Center(), angleOf(incoming), s.cfg.ShatterDebris, phase, true)
	return DamageOutcome{Applied: true, Destroyed: ev}
}

func (s *Structure) destroy(b *Block, at core.Vec2, angle float64, debris int, phase Phase, shattered bool) *DestroyedEvent {
	if b.obj != nil {
		s.space.Remove(b.obj)
		b.obj = nil
	}
	c := cell{b.Col, b.Row}
	delete(s.grid, c)
	b.Tier = 0
	b.Group = -1
	s.alive--
	s.vacated = append(s.vacated, c)

	var mean core.Vec2
	if phase.Simulating() && s.debris != nil && debris > 0 {
		mean = s.debris.Burst(s.rng, burstOpts{
			at:       at,
			bias:     angle + math.Pi,
			spread:   s.cfg.DebrisSpread * math.Pi / 180,
			count:    debris,
			minSpeed: s.cfg.DebrisMinSpeed,
			maxSpeed: s.cfg.DebrisMaxSpeed,
			life:     s.cfg.DebrisLife,
			role:     s.role,
		})
	}

	if s.role == RoleCastle && s.repair.Enabled && !b.Rebuilt {
		s.repairs = append(s.repairs, repairJob{
			at:      c,
			readyAt: s.clock + float64(s.repair.Delay+s.repair.Time),
		})
	}

	s.recomputeGroups()
	return &DestroyedEvent{
		Role:      s.role,
		Block:     b.ID,
		Pos:       b.Center(),
		Debris:    mean,
		Shattered: shattered,
	}
}

// Update advances the repair clock and rebuilds cells whose timer ran out.
// A cell stays pending while blocked reports something in the way.
func (s *Structure) Update(dtMs float64, blocked func(core.Box) bool) []*Block {
	s.clock += dtMs
	if len(s.repairs) == 0 {
		return nil
	}

	var rebuilt []*Block
	pending := s.repairs[:0]
	for _, job := range s.repairs {
		if s.clock < job.readyAt {
			pending = append(pending, job)
			continue
		}
		if _, taken := s.grid[job.at]; taken {
			continue
		}
		if blocked != nil && blocked(s.cellBox(job.at)) {
			pending = append(pending, job)
			continue
		}
		rebuilt = append(rebuilt, s.addBlock(job.at, 1, true))
	}
	s.repairs = pending
	if len(rebuilt) > 0 {
		s.recomputeGroups()
	}
	return rebuilt
}

// Restore rebuilds the oldest vacated cell at the given tier. Used by heart
// rewards on the player wall.
func (s *Structure) Restore(tier int) (*Block, bool) {
	for i, c := range s.vacated {
		if _, taken := s.grid[c]; taken {
			continue
		}
		s.vacated = append(s.vacated[:i:i], s.vacated[i+1:]...)
		b := s.addBlock(c, tier, true)
		s.recomputeGroups()
		return b, true
	}
	return nil, false
}

// PendingRepairs returns the number of cells waiting to be rebuilt.
func (s *Structure) PendingRepairs() int { return len(s.repairs) }

// Exposed returns live blocks with at least one empty 4-neighbour.
func (s *Structure) Exposed() []*Block {
	var out []*Block
	for _, b := range s.blocks {
		if b.Destroyed() {
			continue
		}
		for _, n := range neighbours(cell{b.Col, b.Row}) {
			if _, ok := s.grid[n]; !ok {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

func neighbours(c cell) [4]cell {
	return [4]cell{{c.col + 1, c.row}, {c.col - 1, c.row}, {c.col, c.row + 1}, {c.col, c.row - 1}}
}

// recomputeGroups labels 4-connected components of live blocks.
func (s *Structure) recomputeGroups() {
	for _, b := range s.blocks {
		if !b.Destroyed() {
			b.Group = -1
		}
	}
	group := 0
	for _, b := range s.blocks {
		if b.Destroyed() || b.Group >= 0 {
			continue
		}
		stack := []*Block{b}
		b.Group = group
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, n := range neighbours(cell{cur.Col, cur.Row}) {
				nb, ok := s.grid[n]
				if ok && nb.Group < 0 {
					nb.Group = group
					stack = append(stack, nb)
				}
			}
		}
		group++
	}
	s.groups = group
}
