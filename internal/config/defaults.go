package config

import (
	_ "embed"
)

//go:embed defaults/siege.yaml
var defaultSiegeYAML []byte

// DefaultSiegeConfig returns the hard-coded siege configuration. It mirrors
// defaults/siege.yaml and is used when the embedded file cannot be parsed.
func DefaultSiegeConfig() SiegeConfig {
	return SiegeConfig{
		Arena: ArenaConfig{
			Width:     1280,
			Height:    900,
			BlockSize: 45,
		},
		Physics: PhysicsConfig{
			BallSpeed:     5,
			MaxSpeed:      15,
			BallRadius:    12,
			Friction:      0.999,
			MagnusCoeff:   0.054,
			SpinDamping:   0.995,
			ShatterFactor: 0.45,
			MinDT:         0.1,
			MaxDT:         3,
			BallCollide:   true,
			HitSpeedUp:    1.05,
			ExplodeRadius: 150,
		},
		Paddle: PaddleConfig{
			Length:        225,
			Thickness:     18,
			Margin:        45,
			BottomMargin:  105,
			Accel:         0.6,
			MaxSpeed:      10,
			Friction:      0.85,
			WidenFactor:   1.5,
			ShrinkFactor:  0.8,
			MinLength:     20,
			BumpDist:      20,
			BumpStrength:  2.8,
			BumpEase:      0.3,
			SpinTransfer:  0.1,
			Mass:          2,
			DeflectAngle:  15,
			PowerDuration: 10000,
		},
		Structure: StructureConfig{
			MaxTier:        3,
			HitScore:       10,
			DestroyScore:   5,
			DebrisCount:    30,
			ShatterDebris:  45,
			DebrisSpread:   40,
			DebrisMinSpeed: 2,
			DebrisMaxSpeed: 6,
			DebrisLife:     40,
			DebrisCap:      1000,
			WallRows:       2,
			WallTier:       2,
		},
		Cannon: CannonConfig{
			Length:          37,
			MuzzleGap:       8,
			ChargeBase:      1800,
			ChargeMin:       500,
			ChargeShotCap:   30,
			ChargeReduction: 0.6,
			CooldownMin:     1500,
			CooldownMax:     3000,
			RelocateChance:  0.05,
			RailSpeed:       3,
			RespawnDelay:    6000,
			FireBase:        0.05,
			FireMax:         0.40,
			FireScoreCap:    1000,
			FireLockLevel:   10,
			PotionChance:    0.03,
			SpeedJitterMin:  0.85,
			SpeedJitterMax:  1.25,
			SpinJitter:      0.5,
			AimSmoothing:    0.15,
		},
		Difficulty: DifficultyConfig{
			Enabled:         true,
			InitialLevel:    1,
			WallShotBase:    0.8,
			WallShotDecay:   0.9,
			WallShotFloor:   0.1,
			WidthBase:       0.4,
			WidthGrowth:     1.1,
			WidthCap:        0.95,
			WaveDecay:       0.95,
			SpeedBoostStep:  0.05,
			AimNoiseBase:    25,
			AimNoiseStep:    3,
			ThinkScoreStart: 100,
			ThinkScoreSpan:  40,
			ThinkReduction:  0.5,
			MaxCannons:      []int{3, 3, 4, 4, 5, 5, 6, 6, 7, 8},
		},
		Potions: PotionConfig{
			Weights: map[string]int{
				"widen":   20,
				"sticky":  20,
				"through": 10,
				"barrier": 5,
				"pierce":  2,
			},
			ThroughFireRatio: 0.35,
			PierceCount:      3,
		},
		Unlocks: UnlockConfig{
			Paddles: map[string]int{
				"bottom": 0,
				"top":    30,
				"left":   100,
				"right":  200,
			},
			Potions: map[string]int{
				"widen":   1,
				"sticky":  2,
				"through": 3,
				"barrier": 4,
				"pierce":  5,
			},
		},
		Repair: RepairConfig{
			Enabled: true,
			Delay:   8000,
			Time:    2000,
		},
		Gameplay: GameplayConfig{
			CampaignWaves: 10,
			HeartChance:   0.1,
			CoinValue:     5,
			WaveBonus:     50,
			StartDelay:    1500,
			Shop:          []string{"wall_repair", "paddle_heal", "paddle_width", "coin_boost", "paddle_agility"},
		},
		Layouts: []LayoutConfig{
			{
				Name: "gatehouse",
				Wave: 1,
				Rows: []string{
					"1.1.1.1",
					"1111111",
					"1222221",
					"1233321",
					"1222221",
					"1111111",
				},
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "siege", "siege_endless":
		return defaultSiegeYAML
	default:
		return nil
	}
}
