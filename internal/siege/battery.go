package siege

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/videobydak/castle-pong/internal/config"
	"github.com/videobydak/castle-pong/internal/core"
)

// relocateSettleMs is the pause after a cannon reaches its new rail point.
const relocateSettleMs = 300

// battleEnv is the per-tick view of the world the battery aims at.
type battleEnv struct {
	level    int
	score    int
	unlocked PotionSet
	paddles  []*Paddle
	castle   *Structure
	wall     *Structure
	live     int // projectiles in flight
}

// Battery owns every cannon of the castle, the rail they ride and the
// structure-wide potion and fire reservations.
type Battery struct {
	cfg    config.SiegeConfig
	scaler config.Scaler
	ctx    SimulationContext
	rng    Rand
	log    *log.Logger

	rail      Rail
	railDirty bool
	cannons   []*Cannon
	nextID    int
	shots     int

	potionHeld bool
	fireHeld   bool

	respawnArmed bool
	respawnIn    float64
}

// NewBattery creates an empty battery. logger may be nil.
func NewBattery(cfg config.SiegeConfig, ctx SimulationContext, rng Rand, logger *log.Logger) *Battery {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if rng == nil {
		rng = NewLCG(1)
	}
	return &Battery{
		cfg:    cfg,
		scaler: config.NewScaler(cfg.Difficulty),
		ctx:    ctx,
		rng:    rng,
		log:    logger,
	}
}

// Reset builds a fresh rail over castle and mounts the wave's cannons at
// evenly spaced rail points.
func (b *Battery) Reset(castle *Structure, level int) []CannonEvent {
	level = config.ClampLevel(level)
	b.rail = NewRail(castle)
	b.railDirty = false
	b.cannons = nil
	b.potionHeld, b.fireHeld = false, false
	b.respawnArmed, b.respawnIn = false, 0

	n := min(b.scaler.MaxCannons(level), b.rail.Len())
	events := make([]CannonEvent, 0, n)
	for i := 0; i < n; i++ {
		pos := b.rail.Get(i * b.rail.Len() / n)
		c := b.mount(pos, level, 0)
		events = append(events, CannonEvent{Cannon: c.ID, Pos: c.Pos})
	}
	b.log.Debug("battery reset", "cannons", n, "rail", b.rail.Len(), "level", level)
	return events
}

// Invalidate marks the rail stale. It is rebuilt before the next update.
func (b *Battery) Invalidate() { b.railDirty = true }

// Cannons returns the live cannons.
func (b *Battery) Cannons() []*Cannon { return b.cannons }

// Rail returns the current rail.
func (b *Battery) Rail() Rail { return b.rail }

// TotalShots returns the number of shots fired since creation.
func (b *Battery) TotalShots() int { return b.shots }

// Reservations reports whether the potion and fire slots are held.
func (b *Battery) Reservations() (potion, fire bool) { return b.potionHeld, b.fireHeld }

func (b *Battery) mount(pos RailPos, level, score int) *Cannon {
	b.nextID++
	c := newCannon(b.nextID, pos, b.ctx, b.cooldown(level, score), level)
	b.cannons = append(b.cannons, c)
	return c
}

func (b *Battery) cooldown(level, score int) float64 {
	cc := b.cfg.Cannon
	ms := uniform(b.rng, float64(cc.CooldownMin), float64(cc.CooldownMax))
	return ms * b.scaler.WaveFactor(level) * b.scaler.ThinkFactor(score)
}

func (b *Battery) rebuildRail(castle *Structure) {
	type pending struct{ mount, travel BlockID }
	keep := make([]pending, len(b.cannons))
	for i, c := range b.cannons {
		keep[i].mount = c.Mount
		if c.State == CannonRepositioning && b.rail.Len() > 0 {
			keep[i].travel = b.rail.Get(c.travelTo).Block
		}
	}

	b.rail = NewRail(castle)
	b.railDirty = false
	for i, c := range b.cannons {
		if idx, ok := b.rail.IndexOf(keep[i].mount); ok {
			c.Rail = idx
		} else if idx, ok := b.rail.NearestX(c.Pos.X, nil); ok {
			c.Rail = idx
		}
		if c.State != CannonRepositioning {
			continue
		}
		if idx, ok := b.rail.IndexOf(keep[i].travel); ok {
			c.travelTo = idx
			c.travelDx = b.rail.Direction(c.Rail, idx)
		} else {
			b.arrive(c)
		}
	}
}

// Update advances every cannon by one step and returns the shots fired.
func (b *Battery) Update(dtMs, dt float64, env *battleEnv) ([]*Projectile, []CannonEvent) {
	env.level = config.ClampLevel(env.level)
	if b.railDirty {
		b.rebuildRail(env.castle)
	}
	alive := func(id BlockID) bool {
		blk, ok := env.castle.Block(id)
		return ok && !blk.Destroyed()
	}

	var events []CannonEvent
	live := b.cannons[:0]
	for _, c := range b.cannons {
		if alive(c.Mount) {
			live = append(live, c)
			continue
		}
		c.dead = true
		b.release(c.Ammo)
		events = append(events, CannonEvent{Cannon: c.ID, Pos: c.Pos, Lost: true})
		b.log.Debug("cannon lost", "cannon", c.ID, "block", c.Mount)
	}
	b.cannons = live

	var shots []*Projectile
	for _, c := range b.cannons {
		c.Level = env.level
		if p := b.step(c, dtMs, dt, env, alive); p != nil {
			shots = append(shots, p)
		}
	}

	if ev, ok := b.respawn(dtMs, env, alive); ok {
		events = append(events, ev)
	}
	return shots, events
}

func (b *Battery) respawn(dtMs float64, env *battleEnv, alive func(BlockID) bool) (CannonEvent, bool) {
	if len(b.cannons) >= b.scaler.MaxCannons(env.level) {
		b.respawnArmed = false
		return CannonEvent{}, false
	}
	if !b.respawnArmed {
		b.respawnArmed = true
		b.respawnIn = float64(b.cfg.Cannon.RespawnDelay)
	}
	b.respawnIn -= dtMs
	if b.respawnIn > 0 {
		return CannonEvent{}, false
	}

	taken := make(map[BlockID]bool, len(b.cannons))
	for _, c := range b.cannons {
		taken[c.Mount] = true
	}
	var free []RailPos
	for _, p := range b.rail.Positions {
		if alive(p.Block) && !taken[p.Block] {
			free = append(free, p)
		}
	}
	if len(free) == 0 {
		return CannonEvent{}, false
	}
	c := b.mount(free[b.rng.Intn(len(free))], env.level, env.score)
	b.respawnArmed = false
	b.log.Debug("cannon respawned", "cannon", c.ID, "block", c.Mount)
	return CannonEvent{Cannon: c.ID, Pos: c.Pos}, true
}

func (b *Battery) step(c *Cannon, dtMs, dt float64, env *battleEnv, alive func(BlockID) bool) *Projectile {
	switch c.State {
	case CannonDormant:
		c.Cooldown -= dtMs
		if !c.ready() {
			return nil
		}
		t, ok := b.pickTarget(c, env)
		if !ok {
			c.Cooldown = b.cooldown(env.level, env.score)
			return nil
		}
		c.target = t
		if b.mayRelocate(env) && chance(b.rng, b.cfg.Cannon.RelocateChance) {
			if idx, ok := b.rail.NearestX(t.point.X, alive); ok && idx != c.Rail {
				c.travelTo = idx
				c.travelDx = b.rail.Direction(c.Rail, idx)
				c.State = CannonRepositioning
				return nil
			}
		}
		c.State = CannonCharging
		c.Charge = 0
		c.ChargeOf = config.ChargeDuration(b.cfg.Cannon, b.scaler, env.level, c.ctx.TotalShots())

	case CannonRepositioning:
		b.travel(c, dt, alive)

	case CannonCharging:
		c.Charge += dtMs
		if pt, ok := b.resolve(c, env); ok {
			c.turnToward(pt, b.cfg.Cannon.AimSmoothing, dt)
		}
		if c.Charge >= c.ChargeOf {
			c.Ammo = b.classify(c, env)
			c.State = CannonFiring
		}

	case CannonFiring:
		return b.fire(c, env)
	}
	return nil
}

// mayRelocate forbids moving the only cannon, and moving one of two while
// nothing is in flight.
func (b *Battery) mayRelocate(env *battleEnv) bool {
	n := len(b.cannons)
	if n <= 1 {
		return false
	}
	return n > 2 || env.live > 0
}

func (b *Battery) travel(c *Cannon, dt float64, alive func(BlockID) bool) {
	if c.travelDx == 0 || b.rail.Len() == 0 || !alive(b.rail.Get(c.travelTo).Block) {
		b.arrive(c)
		return
	}
	remaining := b.cfg.Cannon.RailSpeed * dt
	for remaining > 0 {
		next := b.rail.Step(c.Rail, c.travelDx, alive)
		if next == c.Rail {
			b.arrive(c)
			return
		}
		np := b.rail.Get(next)
		d := np.Pos.Dist(c.Pos)
		if d > remaining {
			c.Pos = c.Pos.Add(np.Pos.Sub(c.Pos).Scale(remaining / d))
			return
		}
		remaining -= d
		c.Pos = np.Pos
		c.Rail = next
		c.Mount = np.Block
		if next == c.travelTo {
			b.arrive(c)
			return
		}
	}
}

func (b *Battery) arrive(c *Cannon) {
	if b.rail.Len() > 0 {
		pos := b.rail.Get(c.Rail)
		c.Pos = pos.Pos
		c.Mount = pos.Block
	}
	c.travelDx = 0
	c.State = CannonDormant
	c.Cooldown = relocateSettleMs
}

// pickTarget chooses between the player wall and a paddle.
func (b *Battery) pickTarget(c *Cannon, env *battleEnv) (shotTarget, bool) {
	wallFirst := chance(b.rng, b.scaler.WallShotProbability(env.level))
	if wallFirst {
		if t, ok := b.wallTarget(env); ok {
			return t, true
		}
	}
	if t, ok := nearestPaddle(c.Pos, env.paddles); ok {
		return t, true
	}
	if !wallFirst {
		return b.wallTarget(env)
	}
	return shotTarget{}, false
}

func (b *Battery) wallTarget(env *battleEnv) (shotTarget, bool) {
	if env.wall == nil {
		return shotTarget{}, false
	}
	var guard *core.Box
	for _, p := range env.paddles {
		if p.Active && p.Side == SideBottom {
			box := p.Box
			guard = &box
		}
	}
	blk, ok := SelectWallTarget(env.wall.Alive(), guard, b.scaler.WallTargetingWidthFraction(env.level), b.rng)
	if !ok {
		return shotTarget{}, false
	}
	return shotTarget{kind: aimWall, block: blk.ID, point: blk.Center()}, true
}

func nearestPaddle(from core.Vec2, paddles []*Paddle) (shotTarget, bool) {
	var best *Paddle
	bestD := math.Inf(1)
	for _, p := range paddles {
		if !p.Active {
			continue
		}
		if d := p.Center().Dist(from); d < bestD {
			best, bestD = p, d
		}
	}
	if best == nil {
		return shotTarget{}, false
	}
	return shotTarget{kind: aimPaddle, side: best.Side, point: best.Center()}, true
}

// resolve refreshes the cannon's target against the current world. A dead
// block or an inactive paddle triggers a new choice of the same kind.
func (b *Battery) resolve(c *Cannon, env *battleEnv) (core.Vec2, bool) {
	switch c.target.kind {
	case aimPaddle:
		for _, p := range env.paddles {
			if p.Side == c.target.side && p.Active {
				c.target.point = p.Center()
				return c.target.point, true
			}
		}
		if t, ok := nearestPaddle(c.Pos, env.paddles); ok {
			c.target = t
			return t.point, true
		}
	case aimWall:
		if env.wall != nil {
			if blk, ok := env.wall.Block(c.target.block); ok && !blk.Destroyed() {
				c.target.point = blk.Center()
				return c.target.point, true
			}
		}
	}
	if t, ok := b.wallTarget(env); ok {
		c.target = t
		return t.point, true
	}
	if t, ok := nearestPaddle(c.Pos, env.paddles); ok {
		c.target = t
		return t.point, true
	}
	return core.Vec2{}, false
}

// classify picks the ammunition at the end of a charge. Potions only go to
// paddles and need an unlocked kind plus the free potion slot. Anything
// that cannot be satisfied degrades to a plain ball.
func (b *Battery) classify(c *Cannon, env *battleEnv) Ammo {
	cc := b.cfg.Cannon
	if c.target.kind == aimPaddle && !env.unlocked.Empty() && chance(b.rng, cc.PotionChance) {
		k := b.drawPotion(env.unlocked)
		if k != PotionNone && b.reserve(reservePotion) {
			return Ammo{Kind: KindPotion, Potion: k, reserve: reservePotion}
		}
		b.log.Debug("potion draw degraded", "cannon", c.ID, "kind", k, "held", b.potionHeld)
		return Ammo{Kind: KindPlain}
	}
	if chance(b.rng, config.FireProbability(cc, env.score)) {
		if env.level >= cc.FireLockLevel {
			return Ammo{Kind: KindFire}
		}
		if b.reserve(reserveFire) {
			return Ammo{Kind: KindFire, reserve: reserveFire}
		}
	}
	return Ammo{Kind: KindPlain}
}

// drawPotion draws a kind from the configured weights restricted to the
// unlocked set.
func (b *Battery) drawPotion(unlocked PotionSet) PotionKind {
	return drawPotion(b.rng, b.cfg.Potions.Weights, unlocked)
}

func drawPotion(rng Rand, weights map[string]int, unlocked PotionSet) PotionKind {
	kinds := unlocked.Kinds()
	if len(kinds) == 0 {
		return PotionNone
	}
	w := make([]int, len(kinds))
	for i, k := range kinds {
		w[i] = weights[k.String()]
	}
	i := weightedPick(rng, w)
	if i < 0 {
		return PotionNone
	}
	return kinds[i]
}

// reserve is the atomic check-and-set on a structure-wide slot.
func (b *Battery) reserve(slot uint8) bool {
	switch slot {
	case reservePotion:
		if b.potionHeld {
			return false
		}
		b.potionHeld = true
	case reserveFire:
		if b.fireHeld {
			return false
		}
		b.fireHeld = true
	}
	return true
}

func (b *Battery) release(a Ammo) {
	if a.reserve&reservePotion != 0 {
		b.potionHeld = false
	}
	if a.reserve&reserveFire != 0 {
		b.fireHeld = false
	}
}

// refreshReservations recomputes both slots from what is still in play.
func (b *Battery) refreshReservations(projectiles []*Projectile) {
	b.potionHeld, b.fireHeld = false, false
	hold := func(r uint8) {
		if r&reservePotion != 0 {
			b.potionHeld = true
		}
		if r&reserveFire != 0 {
			b.fireHeld = true
		}
	}
	for _, p := range projectiles {
		if p.Alive() {
			hold(p.reserve)
		}
	}
	for _, c := range b.cannons {
		hold(c.Ammo.reserve)
	}
}

func (b *Battery) fire(c *Cannon, env *battleEnv) *Projectile {
	pt, ok := b.resolve(c, env)
	if !ok {
		b.release(c.Ammo)
		c.Ammo = Ammo{}
		c.State = CannonDormant
		c.Cooldown = b.cooldown(env.level, env.score)
		return nil
	}

	phys, cc := b.cfg.Physics, b.cfg.Cannon
	noise := b.scaler.AimNoiseDegrees(env.level) * math.Pi / 180
	heading := angleOf(pt.Sub(c.Pos)) + uniform(b.rng, -noise, noise)
	dir := core.FromAngle(heading, 1)

	speed := phys.BallSpeed * b.scaler.ShotSpeedBoost(env.level)
	if c.Ammo.Kind != KindPotion {
		speed *= uniform(b.rng, cc.SpeedJitterMin, cc.SpeedJitterMax)
	}

	p := &Projectile{
		Pos:     c.Muzzle(dir, cc.Length, cc.MuzzleGap),
		Vel:     dir.Scale(speed),
		Radius:  phys.BallRadius,
		Spin:    uniform(b.rng, -cc.SpinJitter, cc.SpinJitter),
		Kind:    c.Ammo.Kind,
		Potion:  c.Ammo.Potion,
		Owner:   OwnerHostile,
		reserve: c.Ammo.reserve,
	}
	clampSpeed(p, phys.MaxSpeed)

	c.Aim = heading
	c.Ammo = Ammo{}
	c.Charge = 0
	c.State = CannonDormant
	c.Cooldown = b.cooldown(env.level, env.score)
	b.shots++
	return p
}

// SelectWallTarget picks the block a wall shot aims at. Blocks shadowed by
// guard are skipped when any are left. The rest are narrowed to a window
// of width frac times the span of all block centres, centred on that span,
// falling back to the unshadowed set when the window is empty. The pick
// inside is uniform.
func SelectWallTarget(blocks []*Block, guard *core.Box, frac float64, rng Rand) (*Block, bool) {
	if len(blocks) == 0 {
		return nil, false
	}

	cands := blocks
	if guard != nil {
		var open []*Block
		for _, blk := range blocks {
			if x := blk.Center().X; x < guard.X || x > guard.Right() {
				open = append(open, blk)
			}
		}
		if len(open) > 0 {
			cands = open
		}
	}

	// The window is centred on the whole wall, shadowed blocks included.
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, blk := range blocks {
		x := blk.Center().X
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
	}
	center := (minX + maxX) / 2
	half := (maxX - minX) * frac / 2

	var window []*Block
	for _, blk := range cands {
		if x := blk.Center().X; x >= center-half && x <= center+half {
			window = append(window, blk)
		}
	}
	if len(window) == 0 {
		window = cands
	}
	return window[rng.Intn(len(window))], true
}
