package engine

import (
	"arena3d/internal/geometry"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// PlayerTransform is what the camera needs to follow the player.
type PlayerTransform struct {
	Eye      rl.Vector3 // top of the capsule segment
	Start    rl.Vector3
	End      rl.Vector3
	Velocity rl.Vector3
	OnFloor  bool
	// ResetView is set on respawn: the camera should drop its yaw/pitch back to zero.
	ResetView bool
}

// SphereTransform is the per-projectile state a renderer syncs its meshes to.
type SphereTransform struct {
	Index  int
	Center rl.Vector3
	Active bool
}

// Snapshot is the state at the end of a tick.
type Snapshot struct {
	Tick    uint64
	Player  PlayerTransform
	Spheres []SphereTransform
	Ammo    int
	Hits    int
}

// TargetHitEvent tells the asset layer which target to swap and where it sits.
type TargetHitEvent struct {
	ID        int
	Name      string
	Placement geometry.Placement
	Hits      int // targets hit so far this round, including this one
}

// GeometryFailure reports an asset that could not be loaded. Target is -1 for the world.
type GeometryFailure struct {
	Target  int
	Variant string
	Err     error
}

// Events is the core's output surface. Everything runs on the simulation goroutine.
type Events struct {
	PlayerMoved    EventWithArg[PlayerTransform]
	Respawned      EventWithArg[PlayerTransform]
	Jumped         EventWithArg[rl.Vector3]
	AmmoChanged    EventWithArg[int]
	TargetHit      EventWithArg[TargetHitEvent]
	SphereRecycled EventWithArg[int]
	GeometryFailed EventWithArg[GeometryFailure]
	Frame          EventWithArg[Snapshot]
}

func NewEvents() *Events {
	return &Events{}
}
