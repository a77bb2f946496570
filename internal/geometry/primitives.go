package geometry

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Plane generates a flat, upward-facing quad of the given size centered on the origin.
func Plane(width, depth float32) Mesh {
	hw, hd := width/2, depth/2
	return Mesh{
		Vertices: []float32{
			-hw, 0, -hd,
			hw, 0, -hd,
			hw, 0, hd,
			-hw, 0, hd,
		},
		Indices: []uint16{0, 3, 2, 0, 2, 1},
	}
}

// Box generates a closed cuboid centered on the origin with outward-facing triangles.
func Box(size rl.Vector3) Mesh {
	h := rl.Vector3Scale(size, 0.5)
	vertices := make([]float32, 0, 8*3)
	// Corner i has +x when bit 0 is set, +y for bit 1, +z for bit 2.
	for i := 0; i < 8; i++ {
		x, y, z := -h.X, -h.Y, -h.Z
		if i&1 != 0 {
			x = h.X
		}
		if i&2 != 0 {
			y = h.Y
		}
		if i&4 != 0 {
			z = h.Z
		}
		vertices = append(vertices, x, y, z)
	}

	return Mesh{
		Vertices: vertices,
		Indices: []uint16{
			0, 4, 6, 0, 6, 2, // -X
			1, 3, 7, 1, 7, 5, // +X
			0, 1, 5, 0, 5, 4, // -Y
			2, 6, 7, 2, 7, 3, // +Y
			0, 2, 3, 0, 3, 1, // -Z
			4, 5, 7, 4, 7, 6, // +Z
		},
	}
}

// maxIndexedVertices is the most vertices a uint16 index can address.
const maxIndexedVertices = math.MaxUint16 + 1

// Merge concatenates meshes, each moved by its own placement, into one soup. The result is
// indexed while every vertex fits a uint16 index and falls back to a non-indexed soup
// otherwise.
func Merge(parts ...Part) Mesh {
	total := 0
	for _, part := range parts {
		total += part.Mesh.VertexCount()
	}
	if total > maxIndexedVertices {
		return mergeUnindexed(parts)
	}

	var out Mesh
	for _, part := range parts {
		base := uint16(out.VertexCount())
		for i := 0; i < part.Mesh.VertexCount(); i++ {
			v := part.Placement.Apply(part.Mesh.vertex(i))
			out.Vertices = append(out.Vertices, v.X, v.Y, v.Z)
		}
		if part.Mesh.Indices != nil {
			for _, idx := range part.Mesh.Indices {
				out.Indices = append(out.Indices, base+idx)
			}
		} else {
			for i := 0; i < part.Mesh.VertexCount(); i++ {
				out.Indices = append(out.Indices, base+uint16(i))
			}
		}
	}
	return out
}

// mergeUnindexed writes every triangle's three corners out in full.
func mergeUnindexed(parts []Part) Mesh {
	var out Mesh
	for _, part := range parts {
		m := part.Mesh
		transform := part.Placement.Matrix()
		corner := func(i int) {
			v := applyMatrix(transform, m.vertex(i))
			out.Vertices = append(out.Vertices, v.X, v.Y, v.Z)
		}
		if m.Indices != nil {
			for i := 0; i+2 < len(m.Indices); i += 3 {
				corner(int(m.Indices[i]))
				corner(int(m.Indices[i+1]))
				corner(int(m.Indices[i+2]))
			}
		} else {
			for i := 0; i+2 < m.VertexCount(); i += 3 {
				corner(i)
				corner(i + 1)
				corner(i + 2)
			}
		}
	}
	return out
}

// Part is one mesh positioned inside a merged mesh.
type Part struct {
	Mesh      Mesh
	Placement Placement
}
