package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

type RaycastHit struct {
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
}

// Raycast returns the nearest triangle hit along the ray within maxDistance. Triangles
// are two-sided; the reported normal faces back toward the origin.
func (t *TriangleIndex) Raycast(origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	if t == nil || t.root == nil {
		return RaycastHit{}, false
	}
	direction, ok := SafeNormalize(direction)
	if !ok {
		return RaycastHit{}, false
	}

	var closestHit RaycastHit
	closestHit.Distance = maxDistance
	hit := false

	stack := []*octreeNode{t.root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !rayHitsBox(origin, direction, node.loose, closestHit.Distance) {
			continue
		}
		for _, idx := range node.triangles {
			tri := &t.triangles[idx]
			dist, ok := rayTriangle(origin, direction, tri)
			if !ok || dist > closestHit.Distance {
				continue
			}
			normal := tri.Normal
			if rl.Vector3DotProduct(normal, direction) > 0 {
				normal = rl.Vector3Negate(normal)
			}
			closestHit = RaycastHit{
				Point:    rl.Vector3Add(origin, rl.Vector3Scale(direction, dist)),
				Normal:   normal,
				Distance: dist,
			}
			hit = true
		}
		for _, child := range node.children {
			if child != nil {
				stack = append(stack, child)
			}
		}
	}

	return closestHit, hit
}

// rayHitsBox is the slab test: the ray enters the box before maxDistance and leaves it
// after the origin.
func rayHitsBox(origin, direction rl.Vector3, box AABB, maxDistance float32) bool {
	tmin := float32(-1e30)
	tmax := float32(1e30)

	for axis := 0; axis < 3; axis++ {
		o := getAxisValue(origin, axis)
		d := getAxisValue(direction, axis)
		lo := getAxisValue(box.Min, axis)
		hi := getAxisValue(box.Max, axis)

		if d == 0 {
			if o < lo || o > hi {
				return false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return false
		}
	}

	return tmax >= 0 && tmin <= maxDistance
}

// rayTriangle is Möller–Trumbore. direction must be unit length.
func rayTriangle(origin, direction rl.Vector3, tri *Triangle) (float32, bool) {
	const epsilon = 1e-7

	edge1 := rl.Vector3Subtract(tri.V1, tri.V0)
	edge2 := rl.Vector3Subtract(tri.V2, tri.V0)
	p := rl.Vector3CrossProduct(direction, edge2)
	det := rl.Vector3DotProduct(edge1, p)
	if det > -epsilon && det < epsilon {
		return 0, false
	}
	inv := 1 / det

	s := rl.Vector3Subtract(origin, tri.V0)
	u := rl.Vector3DotProduct(s, p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := rl.Vector3CrossProduct(s, edge1)
	v := rl.Vector3DotProduct(direction, q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	dist := rl.Vector3DotProduct(edge2, q) * inv
	if dist < 0 {
		return 0, false
	}
	return dist, true
}
