package world

import (
	"encoding/json"
	"fmt"
	"os"

	"arena3d/internal/geometry"
	"arena3d/internal/sim"
	"arena3d/internal/target"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// --- JSON types ---

type ArenaFile struct {
	Name    string      `json:"name"`
	Assets  AssetsDef   `json:"assets"`
	Targets []TargetDef `json:"targets"`
	// Physics overrides fields of sim.DefaultConfig; absent keys keep their default.
	Physics json.RawMessage `json:"physics,omitempty"`
}

type AssetsDef struct {
	World     string `json:"world,omitempty"`
	Target    string `json:"target,omitempty"`
	TargetHit string `json:"targetHit,omitempty"`
}

type TargetDef struct {
	Name     string     `json:"name"`
	Position [3]float32 `json:"position"`
	Rotation [3]float32 `json:"rotation"`
	Scale    [3]float32 `json:"scale"`
}

func (d TargetDef) placement() geometry.Placement {
	p := geometry.Placement{
		Position: rl.Vector3{X: d.Position[0], Y: d.Position[1], Z: d.Position[2]},
		Rotation: rl.Vector3{X: d.Rotation[0], Y: d.Rotation[1], Z: d.Rotation[2]},
	}

	// Default scale to 1 if zero
	if d.Scale == [3]float32{} {
		p.Scale = rl.Vector3{X: 1, Y: 1, Z: 1}
	} else {
		p.Scale = rl.Vector3{X: d.Scale[0], Y: d.Scale[1], Z: d.Scale[2]}
	}
	return p
}

// --- Loading ---

func Load(path string) (*Arena, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read arena: %w", err)
	}
	a, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("arena %s: %w", path, err)
	}
	return a, nil
}

func Parse(data []byte) (*Arena, error) {
	var af ArenaFile
	if err := json.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("parse arena: %w", err)
	}

	a := &Arena{
		Name:   af.Name,
		Config: sim.DefaultConfig(),
		Assets: DefaultAssets(),
	}
	if len(af.Physics) > 0 {
		if err := json.Unmarshal(af.Physics, &a.Config); err != nil {
			return nil, fmt.Errorf("parse physics: %w", err)
		}
	}
	if err := a.Config.Validate(); err != nil {
		return nil, err
	}

	if af.Assets.World != "" {
		a.Assets.World = af.Assets.World
	}
	if af.Assets.Target != "" {
		a.Assets.TargetPristine = af.Assets.Target
	}
	if af.Assets.TargetHit != "" {
		a.Assets.TargetHit = af.Assets.TargetHit
	}

	for i, def := range af.Targets {
		name := def.Name
		if name == "" {
			name = targetName(i)
		}
		a.Targets = append(a.Targets, target.Definition{Name: name, Placement: def.placement()})
	}

	return a, nil
}

// --- Saving ---

func (a *Arena) Save(path string) error {
	physics, err := json.Marshal(a.Config)
	if err != nil {
		return fmt.Errorf("marshal physics: %w", err)
	}

	af := ArenaFile{
		Name: a.Name,
		Assets: AssetsDef{
			World:     a.Assets.World,
			Target:    a.Assets.TargetPristine,
			TargetHit: a.Assets.TargetHit,
		},
		Physics: physics,
	}
	for _, t := range a.Targets {
		p := t.Placement
		af.Targets = append(af.Targets, TargetDef{
			Name:     t.Name,
			Position: [3]float32{p.Position.X, p.Position.Y, p.Position.Z},
			Rotation: [3]float32{p.Rotation.X, p.Rotation.Y, p.Rotation.Z},
			Scale:    [3]float32{p.Scale.X, p.Scale.Y, p.Scale.Z},
		})
	}

	data, err := json.MarshalIndent(af, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal arena: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write arena: %w", err)
	}

	return nil
}
