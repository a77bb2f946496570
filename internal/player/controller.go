package player

import (
	"math"

	"arena3d/internal/engine"
	"arena3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var up = rl.Vector3{X: 0, Y: 1, Z: 0}

// Settings tunes the player's movement.
type Settings struct {
	Gravity           float32 // positive = down
	Damping           float32 // exponential velocity decay rate on the floor
	AirDampingScale   float32 // fraction of Damping applied while airborne
	FloorAcceleration float32
	AirAcceleration   float32
	JumpSpeed         float32
}

func DefaultSettings() Settings {
	return Settings{
		Gravity:           9.8,
		Damping:           4,
		AirDampingScale:   0.1,
		FloorAcceleration: 25,
		AirAcceleration:   4,
		JumpSpeed:         5,
	}
}

// Input is the movement intent for one substep. View is the camera's look direction.
type Input struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Jump     bool
	View     rl.Vector3
}

// Controller moves the player's capsule. It is either on the floor or airborne; which one
// is decided fresh by the collision pass of every Step.
type Controller struct {
	Settings Settings
	Collider physics.Capsule
	Velocity rl.Vector3
	OnFloor  bool

	events *engine.Events
}

func NewController(spawn physics.Capsule, settings Settings, events *engine.Events) *Controller {
	if events == nil {
		events = engine.NewEvents()
	}
	return &Controller{
		Settings: settings,
		Collider: spawn,
		events:   events,
	}
}

// Step advances the player by dt: damping and gravity, input acceleration, jump,
// integration, then collision against colliders in the given order.
func (c *Controller) Step(dt float32, in Input, colliders ...physics.Collider) {
	c.applyDamping(dt)
	c.applyInput(dt, in)
	c.Collider.Translate(rl.Vector3Scale(c.Velocity, dt))
	c.collide(colliders)

	c.events.PlayerMoved.Invoke(c.Transform())
}

func (c *Controller) applyDamping(dt float32) {
	damping := float32(math.Exp(float64(-c.Settings.Damping*dt))) - 1

	if !c.OnFloor {
		c.Velocity.Y -= c.Settings.Gravity * dt

		// small air resistance
		damping *= c.Settings.AirDampingScale
	}

	c.Velocity = rl.Vector3Add(c.Velocity, rl.Vector3Scale(c.Velocity, damping))
}

func (c *Controller) applyInput(dt float32, in Input) {
	// gives a bit of air control
	accel := c.Settings.AirAcceleration
	if c.OnFloor {
		accel = c.Settings.FloorAcceleration
	}
	speedDelta := dt * accel

	forward, side := directions(in.View)
	if in.Forward {
		c.Velocity = rl.Vector3Add(c.Velocity, rl.Vector3Scale(forward, speedDelta))
	}
	if in.Backward {
		c.Velocity = rl.Vector3Add(c.Velocity, rl.Vector3Scale(forward, -speedDelta))
	}
	if in.Left {
		c.Velocity = rl.Vector3Add(c.Velocity, rl.Vector3Scale(side, -speedDelta))
	}
	if in.Right {
		c.Velocity = rl.Vector3Add(c.Velocity, rl.Vector3Scale(side, speedDelta))
	}

	if c.OnFloor && in.Jump {
		c.Velocity.Y = c.Settings.JumpSpeed
		c.events.Jumped.Invoke(c.Collider.End)
	}
}

// directions flattens the view onto the ground plane. A view pointing straight up or down
// has no horizontal heading and yields zero vectors.
func directions(view rl.Vector3) (forward, side rl.Vector3) {
	forward, ok := physics.SafeNormalize(rl.Vector3{X: view.X, Z: view.Z})
	if !ok {
		return rl.Vector3{}, rl.Vector3{}
	}
	return forward, rl.Vector3CrossProduct(forward, up)
}

// collide applies each collider's correction in turn. The corrections are not merged, so
// the last collider that reports a contact decides OnFloor.
func (c *Controller) collide(colliders []physics.Collider) {
	c.OnFloor = false

	for _, col := range colliders {
		if col == nil {
			continue
		}
		result, ok := col.CapsuleIntersect(c.Collider)
		if !ok {
			continue
		}

		c.OnFloor = result.Normal.Y > 0
		if !c.OnFloor {
			along := rl.Vector3DotProduct(result.Normal, c.Velocity)
			c.Velocity = rl.Vector3Subtract(c.Velocity, rl.Vector3Scale(result.Normal, along))
		}

		c.Collider.Translate(result.Offset())
	}
}

// Respawn puts the player back at spawn at rest and announces it so the camera can reset.
func (c *Controller) Respawn(spawn physics.Capsule) {
	c.Collider = spawn
	c.Velocity = rl.Vector3{}
	c.OnFloor = false

	t := c.Transform()
	t.ResetView = true
	c.events.Respawned.Invoke(t)
}

// Eye is where the camera sits.
func (c *Controller) Eye() rl.Vector3 {
	return c.Collider.End
}

func (c *Controller) Transform() engine.PlayerTransform {
	return engine.PlayerTransform{
		Eye:      c.Eye(),
		Start:    c.Collider.Start,
		End:      c.Collider.End,
		Velocity: c.Velocity,
		OnFloor:  c.OnFloor,
	}
}
