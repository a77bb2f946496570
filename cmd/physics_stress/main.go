// Stress test comparing octree vs brute-force triangle queries
package main

import (
	"fmt"
	"math/rand"
	"time"

	"arena3d/internal/geometry"
	"arena3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const probes = 2000

func main() {
	// Test various box counts (12 triangles each)
	testCounts := []int{10, 50, 100, 500, 1000, 2000, 5000}

	for _, count := range testCounts {
		testIndex(count)
	}
}

func testIndex(count int) {
	rng := rand.New(rand.NewSource(42)) // Consistent results

	// Spawn in a cube, size scales with count to keep density reasonable
	spawnSize := float32(50.0) + float32(count)/100.0
	random := func() rl.Vector3 {
		return rl.Vector3{
			X: rng.Float32()*spawnSize - spawnSize/2,
			Y: rng.Float32()*spawnSize - spawnSize/2,
			Z: rng.Float32()*spawnSize - spawnSize/2,
		}
	}

	parts := make([]geometry.Part, count)
	for i := range parts {
		size := 0.5 + rng.Float32()*2
		parts[i] = geometry.Part{
			Mesh:      geometry.Box(rl.Vector3{X: size, Y: size, Z: size}),
			Placement: geometry.At(random()),
		}
	}
	mesh := geometry.Merge(parts...)

	buildStart := time.Now()
	index, err := geometry.BuildIndex(mesh, geometry.At(rl.Vector3{}))
	if err != nil {
		fmt.Printf("%5d boxes: BUILD ERROR: %v\n", count, err)
		return
	}
	buildTime := time.Since(buildStart)

	triangles, _ := mesh.Triangles(geometry.At(rl.Vector3{}))

	spheres := make([]physics.Sphere, probes)
	for i := range spheres {
		spheres[i] = physics.Sphere{Center: random(), Radius: 0.2 + rng.Float32()*0.8}
	}

	// Octree
	indexStart := time.Now()
	indexHits := 0
	for _, s := range spheres {
		if _, ok := index.SphereIntersect(s); ok {
			indexHits++
		}
	}
	indexTime := time.Since(indexStart)

	// Brute force: bounds test against every triangle
	bruteStart := time.Now()
	bruteCandidates := 0
	for _, s := range spheres {
		b := s.Bounds()
		for i := range triangles {
			if triangles[i].Bounds().Intersects(b) {
				bruteCandidates++
			}
		}
	}
	bruteTime := time.Since(bruteStart)

	speedup := float64(bruteTime) / float64(indexTime)

	fmt.Printf("%5d boxes (%6d tris): build %8v | octree %10v (%4d hits) | brute %10v (%5d candidates) | %.1fx speedup\n",
		count, index.TriangleCount(), buildTime.Round(time.Microsecond),
		indexTime.Round(time.Microsecond), indexHits,
		bruteTime.Round(time.Microsecond), bruteCandidates, speedup)
}
