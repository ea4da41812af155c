// Package castle hosts the siege engine as an arcade game: waves, unlocks,
// rewards and the terminal rendering of the arena.
package castle

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/videobydak/castle-pong/internal/config"
	"github.com/videobydak/castle-pong/internal/core"
	"github.com/videobydak/castle-pong/internal/registry"
	"github.com/videobydak/castle-pong/internal/siege"
)

// Game states
const (
	StateIntro    = "intro"    // wave banner, cannons hold fire
	StatePlaying  = "playing"  // cannons active
	StatePaused   = "paused"   // simulation suspended
	StateGameOver = "gameover" // player wall destroyed
	StateWin      = "win"      // campaign cleared
)

// GameMode represents the game mode.
type GameMode int

const (
	ModeCampaign GameMode = iota // win after the last campaign wave
	ModeEndless                  // waves keep coming until the wall falls
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// logger receives wave and reward events. Discarded unless SetLogger is called.
var logger *log.Logger

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	switch preset {
	case "easy":
		difficultyPreset = config.DifficultyEasy
	case "normal":
		difficultyPreset = config.DifficultyNormal
	case "hard":
		difficultyPreset = config.DifficultyHard
	case "fixed":
		difficultyPreset = config.DifficultyFixed
	default:
		difficultyPreset = ""
	}
}

// SetLogger routes game events to l.
func SetLogger(l *log.Logger) {
	logger = l
}

// Game implements castle siege on top of siege.Sim.
type Game struct {
	mode GameMode

	sim     *siege.Sim
	rewards siege.Rand // separate stream so reward draws never shift the sim
	pilot   siege.Autopilot

	state     string
	resume    string // state to return to after a pause
	score     int
	wave      int
	tickCount int
	introMs   float64
	unlocked  [siege.NumSides]bool

	hearts   int
	coins    int
	coinFrac float64 // boosted coin income not yet whole
	upgrades map[string]int
	slowMs   float64
	lastMsg  string
	msgMs    float64

	runtime core.RuntimeConfig
	cfg     config.SiegeConfig
	log     *log.Logger

	minScreenW     int
	minScreenH     int
	screenTooSmall bool
}

// New creates a campaign game.
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewEndless creates an endless game.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "siege_endless"
	}
	return "siege"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Castle Siege (Endless)"
	}
	return "Castle Siege"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	if runtime.TickRate <= 0 {
		runtime.TickRate = 60
	}
	g.runtime = runtime

	cfg, err := config.LoadSiege(configPath)
	if err != nil {
		cfg = config.DefaultSiegeConfig()
	}
	if difficultyPreset != "" {
		config.ApplySiegePreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg

	g.log = logger
	if g.log == nil {
		g.log = log.New(io.Discard)
	}
	if err != nil {
		g.log.Warn("falling back to default config", "error", err)
	}

	g.minScreenW = 40
	g.minScreenH = 20
	g.screenTooSmall = runtime.ScreenW < g.minScreenW || runtime.ScreenH < g.minScreenH

	g.score = 0
	g.wave = 1
	g.tickCount = 0
	g.hearts = 0
	g.coins = 0
	g.coinFrac = 0
	g.upgrades = map[string]int{}
	g.slowMs = 0
	g.lastMsg = ""
	g.msgMs = 0
	g.unlocked = [siege.NumSides]bool{}
	g.pilot = siege.NewAutopilot()
	g.rewards = siege.NewLCG(runtime.Seed ^ 0x5bd1e995)

	g.sim = siege.New(siege.Options{
		Config: cfg,
		Seed:   runtime.Seed,
		Logger: g.log.WithPrefix("sim"),
	})
	g.updateUnlocks()
	g.beginIntro()
}

// Resize adapts the game to a new terminal size without restarting it.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
	g.screenTooSmall = w < g.minScreenW || h < g.minScreenH
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.screenTooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) && g.Over() {
		g.Reset(g.runtime)
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		switch g.state {
		case StatePaused:
			g.state = g.resume
		case StatePlaying, StateIntro:
			g.resume = g.state
			g.state = StatePaused
		}
	}

	if g.Over() {
		return core.StepResult{State: g.State()}
	}

	g.tickCount++
	dt := 60 / float64(g.runtime.TickRate)
	dtMs := dt * 1000 / 60

	ti := g.tickInput(in, dt*g.timeScale())
	out := g.sim.Step(ti)
	if g.state == StatePaused {
		return core.StepResult{State: g.State()}
	}

	g.score += out.Score()
	g.applyRewards(out.Rewards)
	g.logEvents(out)
	g.updateUnlocks()

	if g.msgMs > 0 {
		g.msgMs -= dtMs
	}
	if g.slowMs > 0 {
		g.slowMs -= dtMs
	}
	if g.state == StateIntro {
		g.introMs -= dtMs
		if g.introMs <= 0 {
			g.state = StatePlaying
		}
	}

	switch {
	case g.sim.Wall().AliveCount() == 0:
		g.state = StateGameOver
		g.log.Info("wall destroyed", "wave", g.wave, "score", g.score)
	case g.sim.Castle().AliveCount() == 0:
		g.clearWave()
	}

	return core.StepResult{State: g.State()}
}

// tickInput maps actions onto paddle input.
func (g *Game) tickInput(in core.InputFrame, dt float64) siege.TickInput {
	ti := siege.TickInput{
		DT:              dt,
		Level:           g.level(),
		Score:           g.score,
		Unlocked:        g.potions(),
		ShootingEnabled: g.state == StatePlaying,
		Phase:           siege.PhaseNormal,
	}
	if g.state == StatePaused {
		ti.Phase = siege.PhaseSuspended
	}

	bump := in.Has(core.ActionBump)
	for _, side := range siege.Sides {
		neg, pos := paddleActions(side)
		ti.Paddles[side] = siege.PaddleInput{
			Dir:    in.Axis(neg, pos),
			Bump:   bump,
			Active: g.unlocked[side],
		}
	}
	return ti
}

// paddleActions returns the actions that move a paddle toward the low and
// high end of its axis.
func paddleActions(side siege.Side) (neg, pos core.Action) {
	switch side {
	case siege.SideTop:
		return core.ActionTopLeft, core.ActionTopRight
	case siege.SideLeft:
		return core.ActionLeftUp, core.ActionLeftDown
	case siege.SideRight:
		return core.ActionRightUp, core.ActionRightDown
	}
	return core.ActionBottomLeft, core.ActionBottomRight
}

// AutoInput returns the autopilot's input for the next tick as actions, so
// headless runs go through the same path as a player.
func (g *Game) AutoInput() core.InputFrame {
	in := core.NewInputFrame()
	if g.sim == nil {
		return in
	}
	for side, pi := range g.pilot.Inputs(g.sim, g.unlocked) {
		if !pi.Active {
			continue
		}
		neg, pos := paddleActions(siege.Side(side))
		switch pi.Dir {
		case -1:
			in.Set(neg)
		case 1:
			in.Set(pos)
		}
		if pi.Bump {
			in.Set(core.ActionBump)
		}
	}
	return in
}

// Over reports whether the run has ended.
func (g *Game) Over() bool {
	return g.state == StateGameOver || g.state == StateWin
}

// Sim exposes the engine for headless tools and tests.
func (g *Game) Sim() *siege.Sim { return g.sim }

// Wave returns the current wave number, starting at 1.
func (g *Game) Wave() int { return g.wave }

// Phase returns the current game state name.
func (g *Game) Phase() string { return g.state }

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		Level:    g.wave,
		GameOver: g.Over(),
		Won:      g.state == StateWin,
		Paused:   g.state == StatePaused,
	}
}

var _ registry.Resizer = (*Game)(nil)

func init() {
	registry.Register("siege", func() registry.Game {
		return New()
	})
	registry.Register("siege_endless", func() registry.Game {
		return NewEndless()
	})
}
