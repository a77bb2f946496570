package world

import (
	"fmt"
	"math"

	"arena3d/internal/geometry"
	"arena3d/internal/sim"
	"arena3d/internal/target"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Arena is everything needed to start a round: tuning, asset names and target placements.
type Arena struct {
	Name    string
	Config  sim.Config
	Assets  sim.AssetNames
	Targets []target.Definition
}

func DefaultAssets() sim.AssetNames {
	return sim.AssetNames{
		World:          "collision-world",
		TargetPristine: "target",
		TargetHit:      "target-hit",
	}
}

const halfPi = math.Pi / 2

// defaultPlacements is the stock arena layout.
var defaultPlacements = []TargetDef{
	{Position: [3]float32{7, 4, -14}, Rotation: [3]float32{0, halfPi, 0}, Scale: [3]float32{1, 1, 1}},
	{Position: [3]float32{4.75, 3.56, 16.5}, Rotation: [3]float32{0, halfPi, 0}, Scale: [3]float32{1.5, 1.5, 1.5}},
	{Position: [3]float32{7.4, -1.25, 4.1}, Rotation: [3]float32{0, halfPi, 0}, Scale: [3]float32{0.9, 0.9, 0.9}},
	{Position: [3]float32{-0.708183, -0.5, -20.3813}, Scale: [3]float32{1, 1, 1}},
	{Position: [3]float32{-11.2, 3, -34.3}, Rotation: [3]float32{0, halfPi, 0}, Scale: [3]float32{0.75, 0.75, 0.75}},
	{Position: [3]float32{-12.5, 0, -9}, Scale: [3]float32{1, 1, 1}},
	{Position: [3]float32{-5, 2.75, -9}, Scale: [3]float32{0.9, 0.9, 0.9}},
	{Position: [3]float32{-6.2, 3.5, -32.5}, Rotation: [3]float32{0, halfPi, 0}, Scale: [3]float32{0.8, 0.8, 0.8}},
	{Position: [3]float32{16, 3.5, -4.85}, Rotation: [3]float32{0, halfPi, 0}, Scale: [3]float32{1, 1, 1}},
	{Position: [3]float32{-6.65, -1.35, 9.8}, Rotation: [3]float32{0, halfPi, 0}, Scale: [3]float32{0.9, 0.9, 0.9}},
}

// Default returns the stock arena with default tuning.
func Default() *Arena {
	a := &Arena{
		Name:   "default",
		Config: sim.DefaultConfig(),
		Assets: DefaultAssets(),
	}
	for i, def := range defaultPlacements {
		def.Name = targetName(i)
		a.Targets = append(a.Targets, target.Definition{Name: def.Name, Placement: def.placement()})
	}
	return a
}

// targetName is the name given to unnamed targets, by placement index.
func targetName(i int) string {
	return fmt.Sprintf("target-%d", i)
}

const FloorSize = 80.0

// PopulateCatalog registers procedural stand-ins for the arena's assets: a floor with a
// raised spawn pad, a ring of walls and a few ledges for the world, a post for a pristine
// target and a flattened stump for a hit one.
func (a *Arena) PopulateCatalog(c *geometry.Catalog) {
	c.Add(a.Assets.World, worldMesh())
	c.Add(a.Assets.TargetPristine, geometry.Merge(geometry.Part{
		Mesh:      geometry.Box(rl.Vector3{X: 0.6, Y: 1.8, Z: 0.6}),
		Placement: geometry.At(rl.Vector3{Y: 0.9}),
	}))
	c.Add(a.Assets.TargetHit, geometry.Merge(geometry.Part{
		Mesh:      geometry.Box(rl.Vector3{X: 0.6, Y: 0.3, Z: 0.6}),
		Placement: geometry.At(rl.Vector3{Y: 0.15}),
	}))
}

func worldMesh() geometry.Mesh {
	wall := func(x, z, w, d float32) geometry.Part {
		return geometry.Part{
			Mesh:      geometry.Box(rl.Vector3{X: w, Y: 12, Z: d}),
			Placement: geometry.At(rl.Vector3{X: x, Y: 4, Z: z}),
		}
	}
	ledge := func(x, y, z, size float32) geometry.Part {
		return geometry.Part{
			Mesh:      geometry.Box(rl.Vector3{X: size, Y: 0.5, Z: size}),
			Placement: geometry.At(rl.Vector3{X: x, Y: y - 0.25, Z: z}),
		}
	}
	half := float32(FloorSize / 2)

	return geometry.Merge(
		geometry.Part{Mesh: geometry.Plane(FloorSize, FloorSize), Placement: geometry.At(rl.Vector3{Y: -2})},
		// spawn pad, top face at y=0
		geometry.Part{
			Mesh:      geometry.Box(rl.Vector3{X: 6, Y: 2, Z: 6}),
			Placement: geometry.At(rl.Vector3{Y: -1}),
		},
		wall(0, -half, FloorSize, 1),
		wall(0, half, FloorSize, 1),
		wall(-half, 0, 1, FloorSize),
		wall(half, 0, 1, FloorSize),
		ledge(7, 4, -14, 3),
		ledge(4.75, 3.56, 16.5, 3),
		ledge(-11.2, 3, -34.3, 3),
		ledge(-5, 2.75, -9, 3),
		ledge(-6.2, 3.5, -32.5, 3),
		ledge(16, 3.5, -4.85, 3),
	)
}
