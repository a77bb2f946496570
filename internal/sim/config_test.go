package sim

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to validate, got %v", err)
	}
	if cfg.StepsPerFrame != 5 || cfg.Gravity != 9.8 || cfg.OutOfBoundsY != -25 {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if c := cfg.Spawn.Capsule(); c.Radius != 0.35 || c.End.Y != 1 {
		t.Errorf("Unexpected spawn capsule %+v", c)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(*Config)
	}{
		{"steps", func(c *Config) { c.StepsPerFrame = 0 }},
		{"frame delta", func(c *Config) { c.MaxFrameDelta = 0 }},
		{"pool", func(c *Config) { c.PoolSize = -1 }},
		{"ammo", func(c *Config) { c.Ammo = -1 }},
		{"sphere radius", func(c *Config) { c.SphereRadius = 0 }},
		{"spawn radius", func(c *Config) { c.Spawn.Radius = 0 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.tweak(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
		}
	}
}

func TestJSONOverridesOnlyPresentFields(t *testing.T) {
	cfg := DefaultConfig()
	if err := json.Unmarshal([]byte(`{"gravity": 3.5, "ammo": 5}`), &cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.Gravity != 3.5 || cfg.Ammo != 5 {
		t.Errorf("Expected overrides applied, got gravity %f ammo %d", cfg.Gravity, cfg.Ammo)
	}
	if cfg.StepsPerFrame != 5 || cfg.JumpSpeed != 5 {
		t.Errorf("Expected other fields kept, got %+v", cfg)
	}
	if cfg.PlayerSettings().Gravity != 3.5 || cfg.ProjectileSettings().Gravity != 3.5 {
		t.Error("Expected gravity shared by player and projectiles")
	}
}
