// Package config provides YAML-based configuration for the siege engine and
// the pure difficulty scaling functions that read it.
package config

// SiegeConfig contains every tunable of a siege run. All distances are world
// pixels and all speeds are pixels per 60 Hz frame unless noted otherwise.
type SiegeConfig struct {
	Arena      ArenaConfig      `yaml:"arena" json:"arena"`
	Physics    PhysicsConfig    `yaml:"physics" json:"physics"`
	Paddle     PaddleConfig     `yaml:"paddle" json:"paddle"`
	Structure  StructureConfig  `yaml:"structure" json:"structure"`
	Cannon     CannonConfig     `yaml:"cannon" json:"cannon"`
	Difficulty DifficultyConfig `yaml:"difficulty" json:"difficulty"`
	Potions    PotionConfig     `yaml:"potions" json:"potions"`
	Unlocks    UnlockConfig     `yaml:"unlocks" json:"unlocks"`
	Repair     RepairConfig     `yaml:"repair" json:"repair"`
	Gameplay   GameplayConfig   `yaml:"gameplay" json:"gameplay"`
	Layouts    []LayoutConfig   `yaml:"layouts" json:"layouts,omitempty"`
}

// ArenaConfig describes the playfield.
type ArenaConfig struct {
	Width     float64 `yaml:"width" json:"width"`
	Height    float64 `yaml:"height" json:"height"`
	BlockSize float64 `yaml:"block_size" json:"block_size"`
}

// PhysicsConfig holds projectile integration constants.
type PhysicsConfig struct {
	BallSpeed     float64 `yaml:"ball_speed" json:"ball_speed"`
	MaxSpeed      float64 `yaml:"max_speed" json:"max_speed"`
	BallRadius    float64 `yaml:"ball_radius" json:"ball_radius"`
	Friction      float64 `yaml:"friction" json:"friction"`             // velocity retained per frame
	MagnusCoeff   float64 `yaml:"magnus_coeff" json:"magnus_coeff"`     // lateral turn rate per unit spin
	SpinDamping   float64 `yaml:"spin_damping" json:"spin_damping"`     // spin retained per frame
	ShatterFactor float64 `yaml:"shatter_factor" json:"shatter_factor"` // stall speed as a fraction of BallSpeed
	MinDT         float64 `yaml:"min_dt" json:"min_dt"`
	MaxDT         float64 `yaml:"max_dt" json:"max_dt"`
	BallCollide   bool    `yaml:"ball_collide" json:"ball_collide"` // projectile-vs-projectile response
	HitSpeedUp    float64 `yaml:"hit_speed_up" json:"hit_speed_up"`
	ExplodeRadius float64 `yaml:"explode_radius" json:"explode_radius"`
}

// PaddleConfig holds paddle geometry and feel.
type PaddleConfig struct {
	Length        float64 `yaml:"length" json:"length"`
	Thickness     float64 `yaml:"thickness" json:"thickness"`
	Margin        float64 `yaml:"margin" json:"margin"`
	BottomMargin  float64 `yaml:"bottom_margin" json:"bottom_margin"`
	Accel         float64 `yaml:"accel" json:"accel"`
	MaxSpeed      float64 `yaml:"max_speed" json:"max_speed"`
	Friction      float64 `yaml:"friction" json:"friction"`
	WidenFactor   float64 `yaml:"widen_factor" json:"widen_factor"`
	ShrinkFactor  float64 `yaml:"shrink_factor" json:"shrink_factor"`
	MinLength     float64 `yaml:"min_length" json:"min_length"`
	BumpDist      float64 `yaml:"bump_dist" json:"bump_dist"`
	BumpStrength  float64 `yaml:"bump_strength" json:"bump_strength"`
	BumpEase      float64 `yaml:"bump_ease" json:"bump_ease"`
	SpinTransfer  float64 `yaml:"spin_transfer" json:"spin_transfer"`
	Mass          float64 `yaml:"mass" json:"mass"`
	DeflectAngle  float64 `yaml:"deflect_angle" json:"deflect_angle"` // max hit-offset deflection in degrees, 0 disables
	PowerDuration int     `yaml:"power_duration_ms" json:"power_duration_ms"`
}

// StructureConfig holds block and debris parameters.
type StructureConfig struct {
	MaxTier        int     `yaml:"max_tier" json:"max_tier"`
	HitScore       int     `yaml:"hit_score" json:"hit_score"`
	DestroyScore   int     `yaml:"destroy_score" json:"destroy_score"`
	DebrisCount    int     `yaml:"debris_count" json:"debris_count"`
	ShatterDebris  int     `yaml:"shatter_debris" json:"shatter_debris"`
	DebrisSpread   float64 `yaml:"debris_spread" json:"debris_spread"` // degrees either side of the bias
	DebrisMinSpeed float64 `yaml:"debris_min_speed" json:"debris_min_speed"`
	DebrisMaxSpeed float64 `yaml:"debris_max_speed" json:"debris_max_speed"`
	DebrisLife     int     `yaml:"debris_life" json:"debris_life"` // frames
	DebrisCap      int     `yaml:"debris_cap" json:"debris_cap"`
	WallRows       int     `yaml:"wall_rows" json:"wall_rows"`
	WallTier       int     `yaml:"wall_tier" json:"wall_tier"`
}

// CannonConfig holds emplacement parameters. Durations are milliseconds.
type CannonConfig struct {
	Length          float64 `yaml:"length" json:"length"`
	MuzzleGap       float64 `yaml:"muzzle_gap" json:"muzzle_gap"`
	ChargeBase      int     `yaml:"charge_base_ms" json:"charge_base_ms"`
	ChargeMin       int     `yaml:"charge_min_ms" json:"charge_min_ms"`
	ChargeShotCap   int     `yaml:"charge_shot_cap" json:"charge_shot_cap"`
	ChargeReduction float64 `yaml:"charge_reduction" json:"charge_reduction"`
	CooldownMin     int     `yaml:"cooldown_min_ms" json:"cooldown_min_ms"`
	CooldownMax     int     `yaml:"cooldown_max_ms" json:"cooldown_max_ms"`
	RelocateChance  float64 `yaml:"relocate_chance" json:"relocate_chance"`
	RailSpeed       float64 `yaml:"rail_speed" json:"rail_speed"` // pixels per frame along the rail
	RespawnDelay    int     `yaml:"respawn_delay_ms" json:"respawn_delay_ms"`
	FireBase        float64 `yaml:"fire_base" json:"fire_base"`
	FireMax         float64 `yaml:"fire_max" json:"fire_max"`
	FireScoreCap    int     `yaml:"fire_score_cap" json:"fire_score_cap"`
	FireLockLevel   int     `yaml:"fire_lock_level" json:"fire_lock_level"` // fire reservation applies below this level
	PotionChance    float64 `yaml:"potion_chance" json:"potion_chance"`
	SpeedJitterMin  float64 `yaml:"speed_jitter_min" json:"speed_jitter_min"`
	SpeedJitterMax  float64 `yaml:"speed_jitter_max" json:"speed_jitter_max"`
	SpinJitter      float64 `yaml:"spin_jitter" json:"spin_jitter"`
	AimSmoothing    float64 `yaml:"aim_smoothing" json:"aim_smoothing"`
}

// DifficultyConfig defines the wave scaling curves.
type DifficultyConfig struct {
	Enabled      bool `yaml:"enabled" json:"enabled"` // false pins every wave to InitialLevel
	InitialLevel int  `yaml:"initial_level" json:"initial_level"`

	WallShotBase    float64 `yaml:"wall_shot_base" json:"wall_shot_base"`
	WallShotDecay   float64 `yaml:"wall_shot_decay" json:"wall_shot_decay"`
	WallShotFloor   float64 `yaml:"wall_shot_floor" json:"wall_shot_floor"`
	WidthBase       float64 `yaml:"width_base" json:"width_base"`
	WidthGrowth     float64 `yaml:"width_growth" json:"width_growth"`
	WidthCap        float64 `yaml:"width_cap" json:"width_cap"`
	WaveDecay       float64 `yaml:"wave_decay" json:"wave_decay"`
	SpeedBoostStep  float64 `yaml:"speed_boost_step" json:"speed_boost_step"`
	AimNoiseBase    float64 `yaml:"aim_noise_base" json:"aim_noise_base"`
	AimNoiseStep    float64 `yaml:"aim_noise_step" json:"aim_noise_step"`
	ThinkScoreStart int     `yaml:"think_score_start" json:"think_score_start"`
	ThinkScoreSpan  int     `yaml:"think_score_span" json:"think_score_span"`
	ThinkReduction  float64 `yaml:"think_reduction" json:"think_reduction"`
	MaxCannons      []int   `yaml:"max_cannons" json:"max_cannons"` // indexed by wave-1, last entry repeats
}

// PotionConfig holds potion draw weights by kind name.
type PotionConfig struct {
	Weights          map[string]int `yaml:"weights" json:"weights"`
	ThroughFireRatio float64        `yaml:"through_fire_ratio" json:"through_fire_ratio"`
	PierceCount      int            `yaml:"pierce_count" json:"pierce_count"`
}

// UnlockConfig maps paddle sides to score thresholds and potion kinds to
// the wave where they become available.
type UnlockConfig struct {
	Paddles map[string]int `yaml:"paddles" json:"paddles"`
	Potions map[string]int `yaml:"potions" json:"potions"`
}

// RepairConfig controls castle self-repair.
type RepairConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Delay   int  `yaml:"delay_ms" json:"delay_ms"`
	Time    int  `yaml:"time_ms" json:"time_ms"`
}

// GameplayConfig holds scoring and wave rules for the game layer.
type GameplayConfig struct {
	CampaignWaves int     `yaml:"campaign_waves" json:"campaign_waves"`
	HeartChance   float64 `yaml:"heart_chance" json:"heart_chance"`
	CoinValue     int     `yaml:"coin_value" json:"coin_value"`
	WaveBonus     int     `yaml:"wave_bonus" json:"wave_bonus"`
	StartDelay    int     `yaml:"start_delay_ms" json:"start_delay_ms"`

	// Shop lists upgrade ids bought in order, one each, whenever a wave is
	// cleared and the coins cover the price.
	Shop []string `yaml:"shop" json:"shop"`
}

// LayoutConfig is a named ASCII castle layout.
type LayoutConfig struct {
	Name string   `yaml:"name" json:"name"`
	Wave int      `yaml:"wave" json:"wave"`
	Rows []string `yaml:"rows" json:"rows"`
}

// ShatterSpeed is the speed below which a projectile stalls.
func (p PhysicsConfig) ShatterSpeed() float64 {
	return p.BallSpeed * p.ShatterFactor
}

// LayoutFor returns the layout pinned to wave. ok is false when the wave has
// no hand-made layout and should be generated.
func (c SiegeConfig) LayoutFor(wave int) (LayoutConfig, bool) {
	for _, l := range c.Layouts {
		if l.Wave == wave {
			return l, true
		}
	}
	return LayoutConfig{}, false
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the starting wave level for a preset.
func InitialLevelForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyNormal:
		return 2
	case DifficultyHard:
		return 5
	default:
		return 1
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
