package geometry

import (
	"errors"
	"fmt"

	"arena3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrMalformedMesh is returned when vertex or index data cannot describe whole triangles.
var ErrMalformedMesh = errors.New("malformed mesh")

// Mesh is a triangle soup in the same flat layout raylib uses for rl.Mesh: xyz triples in
// Vertices and, for indexed meshes, three entries per triangle in Indices.
type Mesh struct {
	Vertices []float32
	Indices  []uint16
}

func (m Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

func (m Mesh) TriangleCount() int {
	if m.Indices != nil {
		return len(m.Indices) / 3
	}
	return m.VertexCount() / 3
}

func (m Mesh) vertex(i int) rl.Vector3 {
	return rl.Vector3{X: m.Vertices[i*3+0], Y: m.Vertices[i*3+1], Z: m.Vertices[i*3+2]}
}

// Validate checks that the buffers describe whole triangles and every index is in range.
func (m Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("%w: %d floats is not a whole number of vertices", ErrMalformedMesh, len(m.Vertices))
	}
	if m.Indices == nil {
		if m.VertexCount()%3 != 0 {
			return fmt.Errorf("%w: %d vertices is not a whole number of triangles", ErrMalformedMesh, m.VertexCount())
		}
		return nil
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a whole number of triangles", ErrMalformedMesh, len(m.Indices))
	}
	for _, idx := range m.Indices {
		if int(idx) >= m.VertexCount() {
			return fmt.Errorf("%w: index %d out of range (%d vertices)", ErrMalformedMesh, idx, m.VertexCount())
		}
	}
	return nil
}

// Triangles transforms the mesh into world space with the placement and returns its
// non-degenerate triangles.
func (m Mesh) Triangles(p Placement) ([]physics.Triangle, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	transform := p.Matrix()
	tris := make([]physics.Triangle, 0, m.TriangleCount())

	add := func(i0, i1, i2 int) {
		v0 := applyMatrix(transform, m.vertex(i0))
		v1 := applyMatrix(transform, m.vertex(i1))
		v2 := applyMatrix(transform, m.vertex(i2))
		if tri, ok := physics.NewTriangle(v0, v1, v2); ok {
			tris = append(tris, tri)
		}
	}

	if m.Indices != nil {
		// Indexed mesh
		for i := 0; i+2 < len(m.Indices); i += 3 {
			add(int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2]))
		}
	} else {
		// Non-indexed mesh (every 3 vertices = 1 triangle)
		for i := 0; i+2 < m.VertexCount(); i += 3 {
			add(i, i+1, i+2)
		}
	}

	return tris, nil
}

// BuildIndex is the ingestion entry point: mesh plus placement in, collision index out.
func BuildIndex(m Mesh, p Placement) (*physics.TriangleIndex, error) {
	tris, err := m.Triangles(p)
	if err != nil {
		return nil, err
	}
	return physics.NewTriangleIndex(tris), nil
}
