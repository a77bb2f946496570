package geometry

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Placement positions a static object in the world. Rotation is Euler angles in radians,
// applied X then Y then Z in the object's frame.
type Placement struct {
	Position rl.Vector3
	Rotation rl.Vector3
	Scale    rl.Vector3
}

// At returns an unrotated, unit-scale placement.
func At(position rl.Vector3) Placement {
	return Placement{Position: position, Scale: rl.Vector3{X: 1, Y: 1, Z: 1}}
}

// Matrix composes translate * rotX * rotY * rotZ * scale.
func (p Placement) Matrix() mgl32.Mat4 {
	scale := p.Scale
	if scale == (rl.Vector3{}) {
		scale = rl.Vector3{X: 1, Y: 1, Z: 1}
	}

	rot := mgl32.HomogRotate3DX(p.Rotation.X).
		Mul4(mgl32.HomogRotate3DY(p.Rotation.Y)).
		Mul4(mgl32.HomogRotate3DZ(p.Rotation.Z))

	return mgl32.Translate3D(p.Position.X, p.Position.Y, p.Position.Z).
		Mul4(rot).
		Mul4(mgl32.Scale3D(scale.X, scale.Y, scale.Z))
}

// Apply transforms a local-space point into world space.
func (p Placement) Apply(v rl.Vector3) rl.Vector3 {
	return applyMatrix(p.Matrix(), v)
}

func applyMatrix(m mgl32.Mat4, v rl.Vector3) rl.Vector3 {
	out := m.Mul4x1(mgl32.Vec4{v.X, v.Y, v.Z, 1})
	return rl.Vector3{X: out.X(), Y: out.Y(), Z: out.Z()}
}
