package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// Correction is the minimum translation that separates a volume from the geometry it
// penetrates: move by Normal*Depth.
type Correction struct {
	Normal rl.Vector3
	Depth  float32
}

// Offset returns the translation described by the correction.
func (c Correction) Offset() rl.Vector3 {
	return rl.Vector3Scale(c.Normal, c.Depth)
}

// Collider is anything static that capsules and spheres can be pushed out of.
type Collider interface {
	CapsuleIntersect(c Capsule) (Correction, bool)
	SphereIntersect(s Sphere) (Correction, bool)
}

// Capsule is a segment swept by a radius. Start is the bottom sphere center, End the top.
type Capsule struct {
	Start  rl.Vector3
	End    rl.Vector3
	Radius float32
}

func NewCapsule(start, end rl.Vector3, radius float32) Capsule {
	return Capsule{Start: start, End: end, Radius: radius}
}

func (c *Capsule) Translate(v rl.Vector3) {
	c.Start = rl.Vector3Add(c.Start, v)
	c.End = rl.Vector3Add(c.End, v)
}

func (c Capsule) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(c.Start, c.End), 0.5)
}

func (c Capsule) Bounds() AABB {
	return AABB{
		Min: vector3Min(c.Start, c.End),
		Max: vector3Max(c.Start, c.End),
	}.Expand(c.Radius)
}

// Sphere is a center and radius.
type Sphere struct {
	Center rl.Vector3
	Radius float32
}

func (s Sphere) Bounds() AABB {
	return AABB{Min: s.Center, Max: s.Center}.Expand(s.Radius)
}

// ExchangeAlongNormal swaps the components of va and vb that lie along normal, leaving the
// tangential parts untouched. For equal masses this is a perfectly elastic head-on collision.
func ExchangeAlongNormal(va, vb *rl.Vector3, normal rl.Vector3) {
	a := rl.Vector3Scale(normal, rl.Vector3DotProduct(normal, *va))
	b := rl.Vector3Scale(normal, rl.Vector3DotProduct(normal, *vb))

	*va = rl.Vector3Subtract(rl.Vector3Add(*va, b), a)
	*vb = rl.Vector3Subtract(rl.Vector3Add(*vb, a), b)
}
