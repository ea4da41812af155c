package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const siegeFile = "siege.yaml"

// LoadSiege loads the siege configuration.
// Search order: customPath -> ~/.castlepong/configs/siege.yaml -> ./configs/siege.yaml -> embedded default.
// Files are decoded over the defaults, so a partial file only overrides the
// keys it names.
func LoadSiege(customPath string) (SiegeConfig, error) {
	cfg := DefaultSiegeConfig()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if p := userConfigPath(siegeFile); p != "" {
		if c, ok := tryLoad(p); ok {
			return c, nil
		}
	}

	if c, ok := tryLoad(filepath.Join("configs", siegeFile)); ok {
		return c, nil
	}

	var embedded SiegeConfig
	if err := yaml.Unmarshal(defaultSiegeYAML, &embedded); err != nil {
		return DefaultSiegeConfig(), nil
	}
	return embedded, nil
}

func tryLoad(path string) (SiegeConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SiegeConfig{}, false
	}
	cfg := DefaultSiegeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SiegeConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".castlepong", "configs", filename)
}

// ApplySiegePreset modifies the config based on a difficulty preset.
func ApplySiegePreset(cfg *SiegeConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
	}
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.Paddle.PowerDuration = cfg.Paddle.PowerDuration * 3 / 2
		cfg.Repair.Enabled = false
	case DifficultyHard:
		cfg.Cannon.PotionChance /= 2
		cfg.Physics.BallSpeed *= 1.1
	}
}
