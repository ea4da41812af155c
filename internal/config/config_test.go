package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-4 }

func TestWallShotProbabilityValues(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{1, 0.2},
		{2, 0.28},
		{10, 0.6901},
		{100, 0.9},
	}
	for _, tc := range tests {
		if got := WallShotProbability(tc.level); !approx(got, tc.want) {
			t.Errorf("WallShotProbability(%d) = %.4f, expected %.4f", tc.level, got, tc.want)
		}
	}
}

func TestWallTargetingWidthFractionValues(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{1, 0.4},
		{4, 0.5324},
		{50, 0.95},
	}
	for _, tc := range tests {
		if got := WallTargetingWidthFraction(tc.level); !approx(got, tc.want) {
			t.Errorf("WallTargetingWidthFraction(%d) = %.4f, expected %.4f", tc.level, got, tc.want)
		}
	}
}

func TestScalingMonotonicAndBounded(t *testing.T) {
	prevShot, prevWidth := 0.0, 0.0
	for l := 1; l <= 200; l++ {
		shot := WallShotProbability(l)
		width := WallTargetingWidthFraction(l)
		if shot < 0.1 || shot > 0.9 {
			t.Fatalf("WallShotProbability(%d) = %v out of [0.1, 0.9]", l, shot)
		}
		if width < 0.4 || width > 0.95 {
			t.Fatalf("WallTargetingWidthFraction(%d) = %v out of [0.4, 0.95]", l, width)
		}
		if shot < prevShot || width < prevWidth {
			t.Fatalf("scaling decreased at level %d", l)
		}
		prevShot, prevWidth = shot, width
	}
}

func TestLevelBelowOneIsClamped(t *testing.T) {
	for _, l := range []int{0, -3} {
		if WallShotProbability(l) != WallShotProbability(1) {
			t.Errorf("WallShotProbability(%d) should equal level 1", l)
		}
		if WallTargetingWidthFraction(l) != WallTargetingWidthFraction(1) {
			t.Errorf("WallTargetingWidthFraction(%d) should equal level 1", l)
		}
	}
}

func TestSupplementaryCurves(t *testing.T) {
	cfg := DefaultSiegeConfig()
	s := NewScaler(cfg.Difficulty)

	if got := ChargeDuration(cfg.Cannon, s, 1, 0); got != 1800 {
		t.Errorf("ChargeDuration(1, 0) = %v, expected 1800", got)
	}
	if got := ChargeDuration(cfg.Cannon, s, 30, 1000); got != 500 {
		t.Errorf("ChargeDuration should floor at 500, got %v", got)
	}
	if got := s.AimNoiseDegrees(20); got != 0 {
		t.Errorf("AimNoiseDegrees(20) = %v, expected 0", got)
	}
	if got := s.ShotSpeedBoost(3); !approx(got, 1.1) {
		t.Errorf("ShotSpeedBoost(3) = %v, expected 1.1", got)
	}
	if got := s.ThinkFactor(0); got != 1 {
		t.Errorf("ThinkFactor(0) = %v, expected 1", got)
	}
	if got := s.ThinkFactor(500); got != 0.5 {
		t.Errorf("ThinkFactor(500) = %v, expected 0.5", got)
	}
	if got := FireProbability(cfg.Cannon, 5000); !approx(got, 0.4) {
		t.Errorf("FireProbability(5000) = %v, expected 0.4", got)
	}

	maxCannons := map[int]int{1: 3, 2: 3, 3: 4, 8: 6, 9: 7, 10: 8, 40: 8}
	for l, want := range maxCannons {
		if got := s.MaxCannons(l); got != want {
			t.Errorf("MaxCannons(%d) = %d, expected %d", l, got, want)
		}
	}
}

func TestEmbeddedYAMLMatchesDefaults(t *testing.T) {
	var fromYAML SiegeConfig
	if err := yaml.Unmarshal(GetDefaultYAML("siege"), &fromYAML); err != nil {
		t.Fatalf("embedded yaml does not parse: %v", err)
	}

	want, err := yaml.Marshal(DefaultSiegeConfig())
	if err != nil {
		t.Fatal(err)
	}
	got, err := yaml.Marshal(fromYAML)
	if err != nil {
		t.Fatal(err)
	}
	if string(want) != string(got) {
		t.Error("defaults/siege.yaml and DefaultSiegeConfig have drifted apart")
	}
}

func TestLoadSiegeCustomPathOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "siege.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  ball_speed: 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSiege(path)
	if err != nil {
		t.Fatalf("LoadSiege: %v", err)
	}
	if cfg.Physics.BallSpeed != 7 {
		t.Errorf("ball_speed = %v, expected 7", cfg.Physics.BallSpeed)
	}
	if cfg.Physics.MagnusCoeff != 0.054 {
		t.Errorf("unspecified keys should keep defaults, magnus = %v", cfg.Physics.MagnusCoeff)
	}
}

func TestLoadSiegeMissingCustomPath(t *testing.T) {
	_, err := LoadSiege(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestApplySiegePreset(t *testing.T) {
	cfg := DefaultSiegeConfig()
	ApplySiegePreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	cfg = DefaultSiegeConfig()
	ApplySiegePreset(&cfg, DifficultyHard)
	if cfg.Difficulty.InitialLevel != 5 {
		t.Errorf("hard preset initial level = %d, expected 5", cfg.Difficulty.InitialLevel)
	}
}

func TestSchema(t *testing.T) {
	out, err := Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	for _, key := range []string{"physics", "magnus_coeff", "max_cannons"} {
		if !strings.Contains(string(out), key) {
			t.Errorf("schema missing %q", key)
		}
	}
}
