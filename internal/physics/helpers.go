package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// normalEpsilon is the squared length below which a direction is treated as degenerate.
const normalEpsilon = 1e-12

// contactSlop is how far a capsule may hover above a plane and still count as touching it.
// It absorbs float32 rounding so a body at rest keeps its contact.
const contactSlop = 1e-5

// clamp restricts a value to a range
func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

func getAxisValue(v rl.Vector3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func vector3Min(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: float32(math.Min(float64(a.X), float64(b.X))),
		Y: float32(math.Min(float64(a.Y), float64(b.Y))),
		Z: float32(math.Min(float64(a.Z), float64(b.Z))),
	}
}

func vector3Max(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: float32(math.Max(float64(a.X), float64(b.X))),
		Y: float32(math.Max(float64(a.Y), float64(b.Y))),
		Z: float32(math.Max(float64(a.Z), float64(b.Z))),
	}
}

func distanceSqr(a, b rl.Vector3) float32 {
	d := rl.Vector3Subtract(a, b)
	return rl.Vector3DotProduct(d, d)
}

// SafeNormalize returns v scaled to unit length, or false when v is too short to carry a
// direction.
func SafeNormalize(v rl.Vector3) (rl.Vector3, bool) {
	lenSq := rl.Vector3DotProduct(v, v)
	if lenSq < normalEpsilon {
		return rl.Vector3{}, false
	}
	return rl.Vector3Scale(v, 1/sqrt32(lenSq)), true
}

// closestPointOnSegment returns the point of segment [a,b] nearest to p.
func closestPointOnSegment(p, a, b rl.Vector3) rl.Vector3 {
	ab := rl.Vector3Subtract(b, a)
	lenSq := rl.Vector3DotProduct(ab, ab)
	if lenSq < normalEpsilon {
		return a
	}
	t := clamp(rl.Vector3DotProduct(rl.Vector3Subtract(p, a), ab)/lenSq, 0, 1)
	return rl.Vector3Add(a, rl.Vector3Scale(ab, t))
}

// closestPointsBetweenSegments returns the pair of nearest points on segments [p1,q1] and
// [p2,q2] (Ericson, Real-Time Collision Detection 5.1.9).
func closestPointsBetweenSegments(p1, q1, p2, q2 rl.Vector3) (rl.Vector3, rl.Vector3) {
	d1 := rl.Vector3Subtract(q1, p1)
	d2 := rl.Vector3Subtract(q2, p2)
	r := rl.Vector3Subtract(p1, p2)
	a := rl.Vector3DotProduct(d1, d1)
	e := rl.Vector3DotProduct(d2, d2)
	f := rl.Vector3DotProduct(d2, r)

	// Either segment collapsed to a point.
	switch {
	case a < normalEpsilon:
		return p1, closestPointOnSegment(p1, p2, q2)
	case e < normalEpsilon:
		return closestPointOnSegment(p2, p1, q1), p2
	}

	c := rl.Vector3DotProduct(d1, r)
	b := rl.Vector3DotProduct(d1, d2)
	denom := a*e - b*b

	var s float32
	if denom != 0 {
		s = clamp((b*f-c*e)/denom, 0, 1)
	}
	t := (b*s + f) / e
	if t < 0 {
		t = 0
		s = clamp(-c/a, 0, 1)
	} else if t > 1 {
		t = 1
		s = clamp((b-c)/a, 0, 1)
	}

	return rl.Vector3Add(p1, rl.Vector3Scale(d1, s)), rl.Vector3Add(p2, rl.Vector3Scale(d2, t))
}
