package siege

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/videobydak/castle-pong/internal/config"
	"github.com/videobydak/castle-pong/internal/core"
)

// Options configures a new Sim. Every field may be left zero.
type Options struct {
	Config config.SiegeConfig
	Seed   int64
	Rand   Rand // overrides Seed when set
	Logger *log.Logger
}

// PaddleInput is the per-side input for one tick.
type PaddleInput struct {
	Dir    int // -1, 0 or 1 along the paddle axis
	Bump   bool
	Active bool
}

// TickInput is everything the host supplies for one tick.
type TickInput struct {
	DT              float64 // elapsed time in 60 Hz frames
	Paddles         [NumSides]PaddleInput
	Level           int
	Score           int
	Unlocked        PotionSet
	ShootingEnabled bool
	Phase           Phase
}

// TickOutput is what one tick produced. Slices are owned by the caller.
type TickOutput struct {
	Tick        uint64
	Projectiles []*Projectile // live projectiles after the tick
	Spawned     []*Projectile
	Destroyed   []DestroyedEvent
	Hits        []HitEvent
	Potions     []PotionEvent
	Rewards     []RewardEvent
	Expired     []ExpiredEvent
	Cannons     []CannonEvent
	Repaired    []BlockID
}

// Score sums the score deltas of every hit.
func (o TickOutput) Score() int {
	total := 0
	for _, h := range o.Hits {
		total += h.Score
	}
	return total
}

// Sim is the siege engine. It is not safe for concurrent use.
type Sim struct {
	cfg   config.SiegeConfig
	log   *log.Logger
	rng   Rand
	integ Integrator

	paddles [NumSides]*Paddle
	castle  *Structure
	wall    *Structure
	debris  *DebrisPool
	battery *Battery

	projectiles []*Projectile
	nextProj    int
	tick        uint64
	level       int
	score       int
	unlocked    PotionSet
	shooting    bool
	barrier     float64 // ms left on the global barrier
	layout      string
}

// New creates a simulation with the player wall and the first wave built.
func New(opts Options) *Sim {
	cfg := opts.Config
	if cfg.Arena.Width <= 0 || cfg.Arena.Height <= 0 || cfg.Arena.BlockSize <= 0 {
		cfg = config.DefaultSiegeConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rng := opts.Rand
	if rng == nil {
		rng = NewLCG(opts.Seed)
	}

	s := &Sim{
		cfg:    cfg,
		log:    logger,
		rng:    rng,
		integ:  NewIntegrator(cfg.Physics),
		debris: NewDebrisPool(cfg.Structure.DebrisCap),
		level:  config.ClampLevel(cfg.Difficulty.InitialLevel),
	}
	for _, side := range Sides {
		s.paddles[side] = NewPaddle(side, cfg.Arena, cfg.Paddle)
	}
	s.castle = NewStructure(RoleCastle, cfg, s.debris, rng, logger)
	s.wall = NewStructure(RoleWall, cfg, s.debris, rng, logger)
	s.battery = NewBattery(cfg, s, rng, logger)

	s.ResetWall()
	s.NewWave(s.level)
	return s
}

// TotalShots implements SimulationContext.
func (s *Sim) TotalShots() int { return s.battery.TotalShots() }

// ShootingEnabled implements SimulationContext.
func (s *Sim) ShootingEnabled() bool { return s.shooting }

// Config returns the constants the simulation runs with.
func (s *Sim) Config() config.SiegeConfig { return s.cfg }

// Tick returns the number of ticks stepped.
func (s *Sim) Tick() uint64 { return s.tick }

// Level returns the wave level of the current layout.
func (s *Sim) Level() int { return s.level }

// LayoutName returns the name of the current castle layout.
func (s *Sim) LayoutName() string { return s.layout }

// Paddle returns the paddle guarding a side.
func (s *Sim) Paddle(side Side) *Paddle { return s.paddles[side] }

// Castle returns the enemy structure.
func (s *Sim) Castle() *Structure { return s.castle }

// Wall returns the player's wall.
func (s *Sim) Wall() *Structure { return s.wall }

// Battery returns the castle's cannons.
func (s *Sim) Battery() *Battery { return s.battery }

// Debris returns the particle pool.
func (s *Sim) Debris() *DebrisPool { return s.debris }

// Projectiles returns live projectiles. The slice must not be retained.
func (s *Sim) Projectiles() []*Projectile { return s.projectiles }

// Barrier returns ms left on the arena barrier.
func (s *Sim) Barrier() float64 { return s.barrier }

// NewWave builds the castle for a wave and remounts its cannons.
func (s *Sim) NewWave(level int) []CannonEvent {
	level = config.ClampLevel(level)
	return s.LoadLayout(LayoutForWave(s.cfg, level, s.rng), level)
}

// LoadLayout replaces the castle with l, centred at the keep position, and
// clears projectiles in flight.
func (s *Sim) LoadLayout(l Layout, level int) []CannonEvent {
	s.level = config.ClampLevel(level)
	s.layout = l.Name
	size := s.cfg.Arena.BlockSize
	center := core.V(s.cfg.Arena.Width/2, s.cfg.Arena.Height*0.45)
	origin := center.Sub(core.V(float64(l.Width())*size/2, float64(l.Height())*size/2))
	s.castle.Build(l, origin)
	s.projectiles = nil
	s.barrier = 0
	s.log.Info("wave built", "level", s.level, "layout", l.Name, "blocks", s.castle.AliveCount())
	return s.battery.Reset(s.castle, s.level)
}

// ResetWall rebuilds the player's wall along the bottom edge.
func (s *Sim) ResetWall() {
	size := s.cfg.Arena.BlockSize
	cols := int(s.cfg.Arena.Width / size)
	rows := max(1, s.cfg.Structure.WallRows)
	tier := max(1, s.cfg.Structure.WallTier)

	l := Layout{Name: "wall", Tiers: make([][]int, rows)}
	for y := range l.Tiers {
		l.Tiers[y] = make([]int, cols)
		for x := range l.Tiers[y] {
			l.Tiers[y][x] = tier
		}
	}
	offset := (s.cfg.Arena.Width - float64(cols)*size) / 2
	s.wall.Build(l, core.V(offset, s.cfg.Arena.Height-float64(rows)*size))
}

// RestoreWallBlock rebuilds one destroyed wall block at full tier.
func (s *Sim) RestoreWallBlock() (*Block, bool) {
	return s.wall.Restore(max(1, s.cfg.Structure.WallTier))
}

// RaiseBarrier keeps the arena barrier up for at least ms.
func (s *Sim) RaiseBarrier(ms float64) {
	s.barrier = math.Max(s.barrier, ms)
}

// Step advances the simulation by one tick in the fixed order: paddles,
// timers, attached shots, integration, collisions, stalls, projectile
// pairs, debris, repairs, cannons and finally bookkeeping.
func (s *Sim) Step(in TickInput) TickOutput {
	s.tick++
	out := TickOutput{Tick: s.tick}

	s.level = config.ClampLevel(in.Level)
	s.score = in.Score
	s.unlocked = in.Unlocked
	s.shooting = in.ShootingEnabled
	for _, side := range Sides {
		s.paddles[side].Active = in.Paddles[side].Active
	}

	dt := s.integ.ClampDT(in.DT)
	if !in.Phase.Simulating() || dt == 0 {
		out.Projectiles = s.projectiles
		return out
	}
	dtMs := dt * 1000 / 60

	for _, side := range Sides {
		if pi := in.Paddles[side]; pi.Active {
			s.paddles[side].Update(pi.Dir, pi.Bump, dt)
		}
	}
	s.tickTimers(dtMs)
	s.updateAttached()

	for _, p := range s.projectiles {
		if p.Alive() {
			s.integ.Integrate(p, dt)
		}
	}
	for _, p := range s.projectiles {
		if p.Alive() && !p.Stuck {
			s.collide(p, in.Phase, &out)
		}
	}
	s.checkStalls(in.Phase, &out)
	if s.cfg.Physics.BallCollide {
		s.collidePairs()
	}

	s.debris.Update(dt)

	if rebuilt := s.castle.Update(dtMs, s.occupied); len(rebuilt) > 0 {
		for _, b := range rebuilt {
			out.Repaired = append(out.Repaired, b.ID)
		}
		s.battery.Invalidate()
	}
	s.wall.Update(dtMs, nil)

	env := &battleEnv{
		level:    s.level,
		score:    s.score,
		unlocked: s.unlocked,
		paddles:  s.paddles[:],
		castle:   s.castle,
		wall:     s.wall,
		live:     s.liveCount(),
	}
	shots, cannons := s.battery.Update(dtMs, dt, env)
	for _, p := range shots {
		out.Spawned = append(out.Spawned, s.spawn(p))
	}
	out.Cannons = cannons

	s.battery.refreshReservations(s.projectiles)
	s.compact()
	out.Projectiles = s.projectiles
	return out
}

// spawn assigns an ID and puts p in play.
func (s *Sim) spawn(p *Projectile) *Projectile {
	s.nextProj++
	p.ID = s.nextProj
	s.projectiles = append(s.projectiles, p)
	return p
}

func (s *Sim) tickTimers(dtMs float64) {
	for _, pd := range s.paddles {
		for _, k := range pd.tickPowers(dtMs) {
			s.log.Debug("power expired", "side", pd.Side, "kind", k)
		}
	}
	if s.barrier > 0 {
		s.barrier = math.Max(0, s.barrier-dtMs)
	}
}

func (s *Sim) liveCount() int {
	n := 0
	for _, p := range s.projectiles {
		if p.Alive() {
			n++
		}
	}
	return n
}

func (s *Sim) compact() {
	live := s.projectiles[:0]
	for _, p := range s.projectiles {
		if p.Alive() {
			live = append(live, p)
		}
	}
	for i := len(live); i < len(s.projectiles); i++ {
		s.projectiles[i] = nil
	}
	s.projectiles = live
}

// occupied reports whether a live projectile overlaps box.
func (s *Sim) occupied(box core.Box) bool {
	for _, p := range s.projectiles {
		if p.Alive() && p.Bounds().Intersects(box) {
			return true
		}
	}
	return false
}

func (s *Sim) expire(p *Projectile, reason ExpireReason, out *TickOutput) {
	if !p.Alive() {
		return
	}
	p.kill()
	out.Expired = append(out.Expired, ExpiredEvent{Projectile: p.ID, Kind: p.Kind, Reason: reason, Pos: p.Pos})
}

// grant applies a potion effect to a paddle. Barrier is arena-wide.
func (s *Sim) grant(side Side, k PotionKind) {
	ms := float64(s.cfg.Paddle.PowerDuration)
	if k == PotionBarrier {
		s.barrier = ms
		return
	}
	s.paddles[side].GrantPower(k, ms)
}

// updateAttached keeps stuck shots on their paddle and launches them on a
// bump press or when the sticky effect is gone.
func (s *Sim) updateAttached() {
	for _, p := range s.projectiles {
		if !p.Alive() || !p.Stuck {
			continue
		}
		pd := s.paddles[p.StuckTo]
		if !pd.Active || !pd.HasPower(PotionSticky) || pd.BumpPressedEdge() {
			s.launch(p, pd)
			continue
		}
		s.ride(p, pd)
	}
}

func (s *Sim) ride(p *Projectile, pd *Paddle) {
	half := pd.Length() / 2
	p.StuckOffset = core.ClampF(p.StuckOffset, -half, half)
	depth := s.cfg.Paddle.Thickness/2 + p.Radius + 1
	p.Pos = pd.Center().Add(pd.Axis().Scale(p.StuckOffset)).Add(pd.InwardNormal().Scale(depth))
}

func (s *Sim) launch(p *Projectile, pd *Paddle) {
	phys, pc := s.cfg.Physics, s.cfg.Paddle
	s.ride(p, pd)
	p.Stuck = false

	n := pd.InwardNormal()
	dir := n
	if pc.DeflectAngle > 0 {
		off := 0.0
		if half := pd.Length() / 2; half > 0 {
			off = core.ClampF(p.StuckOffset/half, -1, 1)
		}
		sgn := core.Sign(pd.Axis().Dot(n.Perp()))
		dir = dir.Rotate(off * pc.DeflectAngle * math.Pi / 180 * sgn)
	}
	speed := math.Max(p.Speed(), phys.BallSpeed) * pd.BumpBoost()
	p.Vel = dir.Scale(speed)
	clampSpeed(p, phys.MaxSpeed)
}

func (s *Sim) outOfBounds(p *Projectile) bool {
	a := s.cfg.Arena
	r := p.Radius
	return p.Pos.X < -r || p.Pos.X > a.Width+r || p.Pos.Y < -r || p.Pos.Y > a.Height+r
}

// barrierReflect bounces a projectile off the arena edges.
func (s *Sim) barrierReflect(p *Projectile) {
	a := s.cfg.Arena
	r := p.Radius
	if p.Pos.X < r {
		p.Pos.X = r
		p.Vel = Reflect(p.Vel, core.V(1, 0))
	} else if p.Pos.X > a.Width-r {
		p.Pos.X = a.Width - r
		p.Vel = Reflect(p.Vel, core.V(-1, 0))
	}
	if p.Pos.Y < r {
		p.Pos.Y = r
		p.Vel = Reflect(p.Vel, core.V(0, 1))
	} else if p.Pos.Y > a.Height-r {
		p.Pos.Y = a.Height - r
		p.Vel = Reflect(p.Vel, core.V(0, -1))
	}
}

func (s *Sim) collide(p *Projectile, phase Phase, out *TickOutput) {
	if s.barrier > 0 && p.Kind != KindFire {
		s.barrierReflect(p)
	} else if s.outOfBounds(p) {
		s.expire(p, ExpiredOutOfBounds, out)
		return
	}

	c, ok := deepest(s.candidates(p))
	if !ok {
		return
	}
	switch {
	case c.paddle != nil:
		s.hitPaddle(p, c, phase, out)
	case c.role == RoleCastle:
		s.hitCastle(p, c, phase, out)
	default:
		s.hitWall(p, c, phase, out)
	}
}

// candidates gathers every rectangle the projectile overlaps. Hostile
// shots pass over the castle they were fired from.
func (s *Sim) candidates(p *Projectile) []rectCandidate {
	var cands []rectCandidate
	for _, side := range Sides {
		pd := s.paddles[side]
		if !pd.Active {
			continue
		}
		if ct, ok := CircleRectContact(p.Pos, p.Radius, pd.Box); ok {
			cands = append(cands, rectCandidate{contact: ct, paddle: pd})
		}
	}
	bounds := p.Bounds()
	if p.Owner == OwnerFriendly {
		for _, b := range s.castle.Query(bounds) {
			if ct, ok := CircleRectContact(p.Pos, p.Radius, b.Box); ok {
				cands = append(cands, rectCandidate{contact: ct, block: b, role: RoleCastle})
			}
		}
	}
	for _, b := range s.wall.Query(bounds) {
		if ct, ok := CircleRectContact(p.Pos, p.Radius, b.Box); ok {
			cands = append(cands, rectCandidate{contact: ct, block: b, role: RoleWall})
		}
	}
	return cands
}

func (s *Sim) hitPaddle(p *Projectile, c rectCandidate, phase Phase, out *TickOutput) {
	pd := c.paddle
	hit := HitEvent{Target: TargetPaddle, Side: pd.Side, Kind: p.Kind, Owner: p.Owner, Projectile: p.ID}

	if p.Kind == KindPotion {
		s.grant(pd.Side, p.Potion)
		out.Potions = append(out.Potions, PotionEvent{Side: pd.Side, Kind: p.Potion})
		out.Hits = append(out.Hits, hit)
		s.expire(p, ExpiredAbsorbed, out)
		return
	}

	if p.Kind == KindFire && p.Owner == OwnerHostile && !pd.HasPower(PotionWiden) {
		pd.Shrink()
		out.Hits = append(out.Hits, hit)
		s.puff(p, phase)
		s.expire(p, ExpiredImpact, out)
		return
	}

	n := c.contact.Normal
	if n.Dot(pd.InwardNormal()) <= 0 {
		// edge or back face: bounce without the paddle response
		p.Vel = Reflect(p.Vel, n)
		pushOut(p, c.contact)
		out.Hits = append(out.Hits, hit)
		return
	}

	if pd.HasPower(PotionSticky) {
		p.Stuck = true
		p.StuckTo = pd.Side
		p.StuckOffset = p.Pos.Sub(pd.Center()).Dot(pd.Axis())
		p.Owner = OwnerFriendly
		p.LastPaddle = pd.Side
		p.Deflected = true
		s.ride(p, pd)
		out.Hits = append(out.Hits, hit)
		return
	}

	s.deflect(p, pd, n)
	pushOut(p, c.contact)
	p.Owner = OwnerFriendly
	p.LastPaddle = pd.Side
	p.Deflected = true

	if p.Kind == KindPlain && pd.HasPower(PotionPierce) {
		p.Kind = KindPiercing
		p.PierceLeft = max(1, s.cfg.Potions.PierceCount)
	}
	if p.Kind == KindPlain && pd.HasPower(PotionThrough) {
		s.transmute(p)
	}
	out.Hits = append(out.Hits, hit)
}

// deflect is the paddle response: mirror, bump boost, momentum transfer,
// spin transfer and hit-offset deflection, capped at MaxSpeed.
func (s *Sim) deflect(p *Projectile, pd *Paddle, n core.Vec2) {
	pc := s.cfg.Paddle
	v := Reflect(p.Vel, n).Scale(pd.BumpBoost())

	k := 2 * pc.Mass / (1 + pc.Mass)
	pv := pd.Velocity2D()
	if pn := pv.Dot(n); pn > 0 {
		v = v.Add(n.Scale(k * pn))
	}
	axis := pd.Axis()
	v = v.Add(axis.Scale(0.5 * k * pv.Dot(axis)))

	if pd.Side.Horizontal() {
		p.Spin += pd.Vel * pc.SpinTransfer
	} else {
		p.Spin -= pd.Vel * pc.SpinTransfer
	}

	if pc.DeflectAngle > 0 {
		off := pd.offsetAlong(p.Pos)
		sgn := core.Sign(axis.Dot(n.Perp()))
		v = v.Rotate(off * pc.DeflectAngle * math.Pi / 180 * sgn)
	}

	p.Vel = v
	clampSpeed(p, s.cfg.Physics.MaxSpeed)
	if vn := p.Vel.Dot(n); vn < 1 {
		p.Vel = p.Vel.Add(n.Scale(1 - vn))
		clampSpeed(p, s.cfg.Physics.MaxSpeed)
	}
}

// transmute turns a ball deflected by a through paddle into a fireball or
// a friendly potion.
func (s *Sim) transmute(p *Projectile) {
	if chance(s.rng, s.cfg.Potions.ThroughFireRatio) {
		p.Kind = KindFire
		p.BlocksHit = 0
		return
	}
	allowed := s.unlocked & NewPotionSet(PotionWiden, PotionSticky, PotionBarrier)
	if k := drawPotion(s.rng, s.cfg.Potions.Weights, allowed); k != PotionNone {
		p.Kind = KindPotion
		p.Potion = k
	}
}

func (s *Sim) hitCastle(p *Projectile, c rectCandidate, phase Phase, out *TickOutput) {
	st := s.cfg.Structure
	blk := c.block
	hit := HitEvent{Target: TargetCastle, Block: blk.ID, Kind: p.Kind, Owner: p.Owner, Projectile: p.ID}

	switch p.Kind {
	case KindPotion:
		s.grant(p.LastPaddle, p.Potion)
		out.Potions = append(out.Potions, PotionEvent{Side: p.LastPaddle, Kind: p.Potion})
		out.Hits = append(out.Hits, hit)
		s.expire(p, ExpiredAbsorbed, out)
		return

	case KindPlain:
		res := s.castle.ApplyDamage(blk.ID, c.contact.Point, angleOf(p.Vel), phase)
		p.Vel = Reflect(p.Vel, c.contact.Normal)
		pushOut(p, c.contact)
		if p.Speed() < 1.5*s.cfg.Physics.BallSpeed {
			p.Vel = p.Vel.Scale(s.cfg.Physics.HitSpeedUp)
			clampSpeed(p, s.cfg.Physics.MaxSpeed)
		}
		hit.Score = st.HitScore
		if s.destroyed(res, out) {
			hit.Score += st.DestroyScore
		}

	case KindFire:
		res := s.castle.Shatter(blk.ID, p.Vel, phase)
		p.BlocksHit++
		hit.Score = st.HitScore
		if s.destroyed(res, out) {
			hit.Score += st.DestroyScore
		}
		if p.BlocksHit >= 2 {
			out.Hits = append(out.Hits, hit)
			s.explode(p, phase, out)
			return
		}

	case KindPiercing:
		res := s.castle.Shatter(blk.ID, p.Vel, phase)
		p.PierceLeft--
		hit.Score = st.HitScore
		if s.destroyed(res, out) {
			hit.Score += st.DestroyScore
		}
		if p.PierceLeft <= 0 {
			out.Hits = append(out.Hits, hit)
			s.expire(p, ExpiredPierced, out)
			return
		}
	}
	out.Hits = append(out.Hits, hit)
}

func (s *Sim) hitWall(p *Projectile, c rectCandidate, phase Phase, out *TickOutput) {
	blk := c.block
	hit := HitEvent{Target: TargetWall, Block: blk.ID, Kind: p.Kind, Owner: p.Owner, Projectile: p.ID}
	out.Hits = append(out.Hits, hit)

	if p.Owner == OwnerFriendly {
		p.Vel = Reflect(p.Vel, c.contact.Normal)
		pushOut(p, c.contact)
		return
	}

	switch p.Kind {
	case KindPotion:
		if p.Potion == PotionPierce {
			s.destroyed(s.wall.Shatter(blk.ID, p.Vel, phase), out)
		}
		out.Potions = append(out.Potions, PotionEvent{Side: p.LastPaddle, Kind: p.Potion, Wasted: true})
		s.expire(p, ExpiredAbsorbed, out)

	case KindPiercing:
		s.destroyed(s.wall.Shatter(blk.ID, p.Vel, phase), out)

	case KindFire:
		s.destroyed(s.wall.ApplyDamage(blk.ID, c.contact.Point, angleOf(p.Vel), phase), out)
		p.Vel = Reflect(p.Vel, c.contact.Normal)
		pushOut(p, c.contact)
		p.BlocksHit++
		if p.BlocksHit >= 2 {
			s.explode(p, phase, out)
		}

	default:
		s.destroyed(s.wall.ApplyDamage(blk.ID, c.contact.Point, angleOf(p.Vel), phase), out)
		s.expire(p, ExpiredImpact, out)
	}
}

// destroyed records a destruction and reports whether there was one.
func (s *Sim) destroyed(res DamageOutcome, out *TickOutput) bool {
	ev := res.Destroyed
	if ev == nil {
		return false
	}
	out.Destroyed = append(out.Destroyed, *ev)
	if ev.Role == RoleCastle {
		out.Rewards = append(out.Rewards, RewardEvent{Block: ev.Block, Pos: ev.Pos})
		s.battery.Invalidate()
	}
	return true
}

// explode removes a fireball with a blast that shrinks nearby paddles.
func (s *Sim) explode(p *Projectile, phase Phase, out *TickOutput) {
	st := s.cfg.Structure
	if phase.Simulating() {
		s.debris.Burst(s.rng, burstOpts{
			at:       p.Pos,
			spread:   math.Pi,
			count:    st.ShatterDebris,
			minSpeed: st.DebrisMinSpeed,
			maxSpeed: st.DebrisMaxSpeed * 1.5,
			life:     st.DebrisLife,
			role:     RoleCastle,
		})
	}
	for _, pd := range s.paddles {
		if !pd.Active {
			continue
		}
		if pd.Box.ClosestPoint(p.Pos).Dist(p.Pos) <= s.cfg.Physics.ExplodeRadius {
			pd.Shrink()
		}
	}
	s.expire(p, ExpiredExploded, out)
}

// puff is the small burst left by a spent projectile.
func (s *Sim) puff(p *Projectile, phase Phase) {
	st := s.cfg.Structure
	if !phase.Simulating() {
		return
	}
	s.debris.Burst(s.rng, burstOpts{
		at:       p.Pos,
		bias:     angleOf(p.Vel),
		spread:   math.Pi,
		count:    max(1, st.DebrisCount/3),
		minSpeed: st.DebrisMinSpeed / 2,
		maxSpeed: st.DebrisMaxSpeed / 2,
		life:     st.DebrisLife / 2,
		role:     RoleCastle,
	})
}

func (s *Sim) checkStalls(phase Phase, out *TickOutput) {
	limit := s.cfg.Physics.ShatterSpeed()
	for _, p := range s.projectiles {
		if !p.Alive() || p.Stuck || p.Speed() > limit {
			continue
		}
		if p.Kind == KindFire {
			s.explode(p, phase, out)
			continue
		}
		s.puff(p, phase)
		s.expire(p, ExpiredStalled, out)
	}
}

func (s *Sim) collidePairs() {
	for i, a := range s.projectiles {
		if !a.Alive() || a.Stuck {
			continue
		}
		for _, b := range s.projectiles[i+1:] {
			ResolveProjectilePair(a, b)
		}
	}
}
