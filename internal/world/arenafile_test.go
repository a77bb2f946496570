package world

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"arena3d/internal/geometry"
	"arena3d/internal/sim"
)

func TestDefaultArena(t *testing.T) {
	a := Default()

	if len(a.Targets) != 10 {
		t.Fatalf("Expected 10 targets, got %d", len(a.Targets))
	}
	first := a.Targets[0]
	if first.Name != "target-0" || first.Placement.Position.X != 7 || first.Placement.Position.Z != -14 {
		t.Errorf("Unexpected first target %+v", first)
	}
	if second := a.Targets[1].Placement; second.Scale.X != 1.5 {
		t.Errorf("Expected second target scale 1.5, got %v", second.Scale)
	}
	if err := a.Config.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	a, err := Parse([]byte(`{
		"name": "small",
		"targets": [{"position": [1, 2, 3]}, {"name": "far", "position": [0, 0, -30], "scale": [2, 2, 2]}],
		"physics": {"gravity": 4, "stepsPerFrame": 10}
	}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if a.Name != "small" || len(a.Targets) != 2 {
		t.Fatalf("Unexpected arena %+v", a)
	}
	if a.Targets[0].Name != "target-0" {
		t.Errorf("Expected generated name target-0, got %q", a.Targets[0].Name)
	}
	if s := a.Targets[0].Placement.Scale; s.X != 1 || s.Y != 1 || s.Z != 1 {
		t.Errorf("Expected zero scale to default to 1, got %v", s)
	}
	if a.Targets[1].Placement.Scale.X != 2 {
		t.Errorf("Expected explicit scale 2, got %v", a.Targets[1].Placement.Scale)
	}
	if a.Config.Gravity != 4 || a.Config.StepsPerFrame != 10 || a.Config.Ammo != 20 {
		t.Errorf("Expected physics overrides on top of defaults, got %+v", a.Config)
	}
	if a.Assets != DefaultAssets() {
		t.Errorf("Expected default asset names, got %+v", a.Assets)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	if _, err := Parse([]byte(`{"targets": 3}`)); err == nil || !strings.Contains(err.Error(), "parse arena") {
		t.Errorf("Expected parse error, got %v", err)
	}
	if _, err := Parse([]byte(`{"physics": {"poolSize": 0}}`)); !errors.Is(err, sim.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.json")
	a := Default()
	a.Config.JumpSpeed = 7
	a.Assets.World = "custom-world"

	if err := a.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Config != a.Config {
		t.Errorf("Expected config %+v, got %+v", a.Config, loaded.Config)
	}
	if loaded.Assets.World != "custom-world" {
		t.Errorf("Expected custom world asset, got %q", loaded.Assets.World)
	}
	if len(loaded.Targets) != len(a.Targets) {
		t.Fatalf("Expected %d targets, got %d", len(a.Targets), len(loaded.Targets))
	}
	for i := range a.Targets {
		if loaded.Targets[i] != a.Targets[i] {
			t.Errorf("target %d: expected %+v, got %+v", i, a.Targets[i], loaded.Targets[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, os.ErrNotExist) || !strings.Contains(err.Error(), "read arena") {
		t.Errorf("Expected wrapped not-exist error, got %v", err)
	}
}

func TestPopulateCatalog(t *testing.T) {
	a := Default()
	c := geometry.NewCatalog()
	a.PopulateCatalog(c)

	for _, name := range []string{a.Assets.World, a.Assets.TargetPristine, a.Assets.TargetHit} {
		m, err := c.Load(context.Background(), name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if err := m.Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	world, _ := c.Load(context.Background(), a.Assets.World)
	index, err := geometry.BuildIndex(world, geometry.Placement{})
	if err != nil {
		t.Fatal(err)
	}
	if index.TriangleCount() == 0 {
		t.Error("Expected world triangles")
	}
}
