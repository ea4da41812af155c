package config

import "math"

// Scaler turns a wave level into the numbers that drive the castle's
// aggression. Every method is a pure function of its arguments.
type Scaler struct {
	cfg DifficultyConfig
}

// NewScaler creates a scaler over the given curves.
func NewScaler(cfg DifficultyConfig) Scaler {
	return Scaler{cfg: cfg}
}

var defaultScaler = NewScaler(DefaultSiegeConfig().Difficulty)

// ClampLevel raises levels below 1 to 1.
func ClampLevel(level int) int {
	if level < 1 {
		return 1
	}
	return level
}

// WallShotProbability is the chance a shot targets the player wall instead
// of a paddle: 1 - max(floor, base*decay^(L-1)).
func (s Scaler) WallShotProbability(level int) float64 {
	level = ClampLevel(level)
	paddle := s.cfg.WallShotBase * math.Pow(s.cfg.WallShotDecay, float64(level-1))
	return 1 - math.Max(s.cfg.WallShotFloor, paddle)
}

// WallTargetingWidthFraction is the share of the wall span that wall shots
// are allowed to hit, centred on the span: min(cap, base*growth^(L-1)).
func (s Scaler) WallTargetingWidthFraction(level int) float64 {
	level = ClampLevel(level)
	return math.Min(s.cfg.WidthCap, s.cfg.WidthBase*math.Pow(s.cfg.WidthGrowth, float64(level-1)))
}

// WaveFactor shortens charge and cooldown timers as waves advance.
func (s Scaler) WaveFactor(level int) float64 {
	return math.Pow(s.cfg.WaveDecay, float64(ClampLevel(level)-1))
}

// ShotSpeedBoost multiplies the launch speed of every shot.
func (s Scaler) ShotSpeedBoost(level int) float64 {
	return 1 + s.cfg.SpeedBoostStep*float64(ClampLevel(level)-1)
}

// AimNoiseDegrees is the half-width of the random aim error.
func (s Scaler) AimNoiseDegrees(level int) float64 {
	return math.Max(0, s.cfg.AimNoiseBase-s.cfg.AimNoiseStep*float64(ClampLevel(level)-1))
}

// MaxCannons is the emplacement cap for a wave.
func (s Scaler) MaxCannons(level int) int {
	table := s.cfg.MaxCannons
	if len(table) == 0 {
		return 1
	}
	i := ClampLevel(level) - 1
	if i >= len(table) {
		i = len(table) - 1
	}
	return table[i]
}

// ThinkFactor shortens cooldowns once the player starts scoring.
func (s Scaler) ThinkFactor(score int) float64 {
	span := float64(s.cfg.ThinkScoreSpan)
	if span <= 0 {
		span = 1
	}
	t := clampF(float64(score-s.cfg.ThinkScoreStart)/span, 0, 1)
	return 1 - s.cfg.ThinkReduction*t
}

// ChargeDuration returns how long a cannon charges before firing, in ms.
// It shrinks with the wave and with the number of shots already fired.
func ChargeDuration(c CannonConfig, s Scaler, level, totalShots int) float64 {
	shotCap := float64(c.ChargeShotCap)
	if shotCap <= 0 {
		shotCap = 1
	}
	ramp := math.Min(1, float64(totalShots)/shotCap)
	ms := float64(c.ChargeBase) * s.WaveFactor(level) * (1 - c.ChargeReduction*ramp)
	return math.Max(float64(c.ChargeMin), ms)
}

// FireProbability is the chance a non-potion shot is a fireball.
func FireProbability(c CannonConfig, score int) float64 {
	scoreCap := float64(c.FireScoreCap)
	if scoreCap <= 0 {
		scoreCap = 1
	}
	return c.FireBase + (c.FireMax-c.FireBase)*math.Min(1, math.Max(0, float64(score))/scoreCap)
}

// WallShotProbability uses the default curves.
func WallShotProbability(level int) float64 {
	return defaultScaler.WallShotProbability(level)
}

// WallTargetingWidthFraction uses the default curves.
func WallTargetingWidthFraction(level int) float64 {
	return defaultScaler.WallTargetingWidthFraction(level)
}

// clampF restricts a float64 to [lo, hi].
func clampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
