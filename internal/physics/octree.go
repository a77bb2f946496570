package physics

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	// A node splits once it holds more triangles than this.
	maxNodeTriangles = 8
	// Octree depth limit; deeper cells stop paying for themselves on arena-sized meshes.
	maxOctreeDepth = 16
)

// octreeNode is a cell of a loose octree. Objects are filed by the center of their bounds
// but may overhang the cell by half its size, so queries test the loose bounds.
type octreeNode struct {
	loose     AABB
	triangles []int
	children  [8]*octreeNode
}

// TriangleIndex is an immutable spatial index over static triangles. Build a new one when
// the geometry changes; there is no incremental update.
//
// A nil *TriangleIndex is valid and never reports a collision, which is how absent
// geometry (still loading or failed) is represented.
type TriangleIndex struct {
	triangles []Triangle
	root      *octreeNode
	bounds    AABB
}

// NewTriangleIndex builds the index. Degenerate triangles should already be filtered out
// by NewTriangle.
func NewTriangleIndex(triangles []Triangle) *TriangleIndex {
	t := &TriangleIndex{
		triangles: triangles,
		bounds:    EmptyAABB(),
	}
	if len(triangles) == 0 {
		return t
	}

	indices := make([]int, len(triangles))
	for i := range triangles {
		indices[i] = i
		t.bounds = t.bounds.Union(triangles[i].Bounds())
	}

	t.root = t.buildNode(cubeAround(t.bounds), indices, 0)
	return t
}

// cubeAround turns the mesh bounds into a cubic root cell with a small margin so that
// children stay cubic and flat meshes still get a volume.
func cubeAround(b AABB) AABB {
	size := b.Size()
	edge := size.X
	if size.Y > edge {
		edge = size.Y
	}
	if size.Z > edge {
		edge = size.Z
	}
	edge += 0.02
	return NewAABBFromCenter(b.Center(), rl.Vector3{X: edge, Y: edge, Z: edge})
}

func looseBounds(cell AABB) AABB {
	return cell.Expand(cell.Size().X / 2)
}

func (t *TriangleIndex) buildNode(cell AABB, indices []int, depth int) *octreeNode {
	node := &octreeNode{loose: looseBounds(cell)}

	if len(indices) <= maxNodeTriangles || depth >= maxOctreeDepth {
		node.triangles = indices
		return node
	}

	center := cell.Center()
	var cells [8]AABB
	for i := range cells {
		cells[i] = childCell(cell, center, i)
	}

	var buckets [8][]int
	for _, idx := range indices {
		tb := t.triangles[idx].Bounds()
		child := octant(center, tb.Center())
		if looseBounds(cells[child]).Contains(tb) {
			buckets[child] = append(buckets[child], idx)
		} else {
			node.triangles = append(node.triangles, idx)
		}
	}

	for i := range buckets {
		if len(buckets[i]) > 0 {
			node.children[i] = t.buildNode(cells[i], buckets[i], depth+1)
		}
	}

	return node
}

// octant numbers children by which side of the center each axis falls on.
func octant(center, p rl.Vector3) int {
	i := 0
	if p.X >= center.X {
		i |= 1
	}
	if p.Y >= center.Y {
		i |= 2
	}
	if p.Z >= center.Z {
		i |= 4
	}
	return i
}

func childCell(cell AABB, center rl.Vector3, i int) AABB {
	child := AABB{Min: cell.Min, Max: center}
	if i&1 != 0 {
		child.Min.X, child.Max.X = center.X, cell.Max.X
	}
	if i&2 != 0 {
		child.Min.Y, child.Max.Y = center.Y, cell.Max.Y
	}
	if i&4 != 0 {
		child.Min.Z, child.Max.Z = center.Z, cell.Max.Z
	}
	return child
}

// candidates appends the indices of triangles whose bounds overlap query.
func (t *TriangleIndex) candidates(query AABB, dst []int) []int {
	if t == nil || t.root == nil {
		return dst
	}

	stack := []*octreeNode{t.root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !node.loose.Intersects(query) {
			continue
		}
		for _, idx := range node.triangles {
			if t.triangles[idx].Bounds().Intersects(query) {
				dst = append(dst, idx)
			}
		}
		for _, child := range node.children {
			if child != nil {
				stack = append(stack, child)
			}
		}
	}
	return dst
}

// CapsuleIntersect pushes a copy of the capsule out of every triangle it touches, one
// after another, and reports the copy's total displacement as a single correction.
func (t *TriangleIndex) CapsuleIntersect(c Capsule) (Correction, bool) {
	if t == nil {
		return Correction{}, false
	}

	moved := c
	var last *Correction
	for _, idx := range t.candidates(c.Bounds(), nil) {
		if corr, ok := capsuleTriangleIntersect(moved, &t.triangles[idx]); ok {
			moved.Translate(corr.Offset())
			last = &corr
		}
	}
	if last == nil {
		return Correction{}, false
	}
	return displacementCorrection(c.Center(), moved.Center(), last.Normal)
}

// SphereIntersect is the sphere counterpart of CapsuleIntersect.
func (t *TriangleIndex) SphereIntersect(s Sphere) (Correction, bool) {
	if t == nil {
		return Correction{}, false
	}

	moved := s
	var last *Correction
	for _, idx := range t.candidates(s.Bounds(), nil) {
		if corr, ok := sphereTriangleIntersect(moved, &t.triangles[idx]); ok {
			moved.Center = rl.Vector3Add(moved.Center, corr.Offset())
			last = &corr
		}
	}
	if last == nil {
		return Correction{}, false
	}
	return displacementCorrection(s.Center, moved.Center, last.Normal)
}

// displacementCorrection turns the scratch copy's net movement into a correction. A contact
// that moved it by next to nothing is a resting touch and keeps the last contact's normal.
func displacementCorrection(from, to, lastNormal rl.Vector3) (Correction, bool) {
	d := rl.Vector3Subtract(to, from)
	normal, ok := SafeNormalize(d)
	if !ok {
		return Correction{Normal: lastNormal}, true
	}
	return Correction{Normal: normal, Depth: rl.Vector3Length(d)}, true
}

// TriangleCount returns the number of triangles in the index
func (t *TriangleIndex) TriangleCount() int {
	if t == nil {
		return 0
	}
	return len(t.triangles)
}

// Bounds returns the AABB of every indexed triangle
func (t *TriangleIndex) Bounds() AABB {
	if t == nil {
		return EmptyAABB()
	}
	return t.bounds
}
