package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Triangle represents a single triangle with precomputed normal
type Triangle struct {
	V0, V1, V2 rl.Vector3
	Normal     rl.Vector3
}

// NewTriangle computes the face normal from the winding order. It returns false for
// zero-area triangles, which carry no usable normal.
func NewTriangle(v0, v1, v2 rl.Vector3) (Triangle, bool) {
	edge1 := rl.Vector3Subtract(v1, v0)
	edge2 := rl.Vector3Subtract(v2, v0)
	normal, ok := SafeNormalize(rl.Vector3CrossProduct(edge1, edge2))
	if !ok {
		return Triangle{}, false
	}
	return Triangle{V0: v0, V1: v1, V2: v2, Normal: normal}, true
}

func (t *Triangle) Bounds() AABB {
	return AABB{Min: t.V0, Max: t.V0}.Extend(t.V1).Extend(t.V2)
}

// planeDistance is the signed distance from p to the triangle's plane.
func (t *Triangle) planeDistance(p rl.Vector3) float32 {
	return rl.Vector3DotProduct(t.Normal, rl.Vector3Subtract(p, t.V0))
}

// containsPoint reports whether p, projected onto the plane, falls inside the triangle.
func (t *Triangle) containsPoint(p rl.Vector3) bool {
	v0 := rl.Vector3Subtract(t.V2, t.V0)
	v1 := rl.Vector3Subtract(t.V1, t.V0)
	v2 := rl.Vector3Subtract(p, t.V0)

	dot00 := rl.Vector3DotProduct(v0, v0)
	dot01 := rl.Vector3DotProduct(v0, v1)
	dot02 := rl.Vector3DotProduct(v0, v2)
	dot11 := rl.Vector3DotProduct(v1, v1)
	dot12 := rl.Vector3DotProduct(v1, v2)

	denom := dot00*dot11 - dot01*dot01
	if denom == 0 {
		return false
	}
	inv := 1 / denom
	u := (dot11*dot02 - dot01*dot12) * inv
	v := (dot00*dot12 - dot01*dot02) * inv
	return u >= 0 && v >= 0 && u+v <= 1
}

// sphereTriangleIntersect tests sphere vs triangle and returns the separating correction
func sphereTriangleIntersect(s Sphere, tri *Triangle) (Correction, bool) {
	closest := closestPointOnTriangle(s.Center, tri.V0, tri.V1, tri.V2)

	diff := rl.Vector3Subtract(s.Center, closest)
	distSq := rl.Vector3DotProduct(diff, diff)
	if distSq >= s.Radius*s.Radius {
		return Correction{}, false
	}

	if distSq < normalEpsilon {
		// Center is on triangle, push along normal
		return Correction{Normal: tri.Normal, Depth: s.Radius}, true
	}

	dist := sqrt32(distSq)
	return Correction{Normal: rl.Vector3Scale(diff, 1/dist), Depth: s.Radius - dist}, true
}

// capsuleTriangleIntersect first tests where the capsule axis crosses the triangle's plane,
// then falls back to the nearest approach between the axis and each triangle edge.
func capsuleTriangleIntersect(c Capsule, tri *Triangle) (Correction, bool) {
	d1 := tri.planeDistance(c.Start) - c.Radius
	d2 := tri.planeDistance(c.End) - c.Radius

	if (d1 > contactSlop && d2 > contactSlop) || (d1 < -c.Radius && d2 < -c.Radius) {
		return Correction{}, false
	}

	var delta float32
	if sum := float32(math.Abs(float64(d1)) + math.Abs(float64(d2))); sum > 0 {
		delta = float32(math.Abs(float64(d1 / sum)))
	}
	crossing := rl.Vector3Lerp(c.Start, c.End, delta)
	if tri.containsPoint(crossing) {
		depth := -float32(math.Min(float64(d1), float64(d2)))
		if depth < 0 {
			depth = 0
		}
		return Correction{Normal: tri.Normal, Depth: depth}, true
	}

	r2 := c.Radius * c.Radius
	edges := [3][2]rl.Vector3{{tri.V0, tri.V1}, {tri.V1, tri.V2}, {tri.V2, tri.V0}}
	for _, edge := range edges {
		onAxis, onEdge := closestPointsBetweenSegments(c.Start, c.End, edge[0], edge[1])
		diff := rl.Vector3Subtract(onAxis, onEdge)
		distSq := rl.Vector3DotProduct(diff, diff)
		if distSq >= r2 {
			continue
		}
		normal, ok := SafeNormalize(diff)
		if !ok {
			continue
		}
		return Correction{Normal: normal, Depth: c.Radius - sqrt32(distSq)}, true
	}

	return Correction{}, false
}

// closestPointOnTriangle finds the closest point on a triangle to point p
func closestPointOnTriangle(p, a, b, c rl.Vector3) rl.Vector3 {
	// Check if P in vertex region outside A
	ab := rl.Vector3Subtract(b, a)
	ac := rl.Vector3Subtract(c, a)
	ap := rl.Vector3Subtract(p, a)

	d1 := rl.Vector3DotProduct(ab, ap)
	d2 := rl.Vector3DotProduct(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	// Check if P in vertex region outside B
	bp := rl.Vector3Subtract(p, b)
	d3 := rl.Vector3DotProduct(ab, bp)
	d4 := rl.Vector3DotProduct(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	// Check if P in edge region of AB
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return rl.Vector3Add(a, rl.Vector3Scale(ab, v))
	}

	// Check if P in vertex region outside C
	cp := rl.Vector3Subtract(p, c)
	d5 := rl.Vector3DotProduct(ab, cp)
	d6 := rl.Vector3DotProduct(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	// Check if P in edge region of AC
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return rl.Vector3Add(a, rl.Vector3Scale(ac, w))
	}

	// Check if P in edge region of BC
	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return rl.Vector3Add(b, rl.Vector3Scale(rl.Vector3Subtract(c, b), w))
	}

	// P inside face region
	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return rl.Vector3Add(a, rl.Vector3Add(rl.Vector3Scale(ab, v), rl.Vector3Scale(ac, w)))
}
