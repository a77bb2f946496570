package projectile

import (
	"math"
	"time"

	"arena3d/internal/engine"
	"arena3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ParkedPosition is where idle bodies wait, far below the arena.
var ParkedPosition = rl.Vector3{X: 0, Y: -100, Z: 0}

// Settings tunes projectile behaviour.
type Settings struct {
	Radius              float32
	PoolSize            int
	Ammo                int
	Gravity             float32
	Restitution         float32 // 1 = slide along the surface, 2 = mirror bounce
	Damping             float32
	FireOffset          float32 // spawn distance in front of the eye, in player radii
	BaseImpulse         float32
	ChargeImpulse       float32 // extra speed approached as the trigger is held longer
	PlayerVelocityCarry float32
	OutOfBoundsY        float32
}

func DefaultSettings() Settings {
	return Settings{
		Radius:              0.2,
		PoolSize:            20,
		Ammo:                20,
		Gravity:             9.8,
		Restitution:         1.5,
		Damping:             1.5,
		FireOffset:          1.5,
		BaseImpulse:         15,
		ChargeImpulse:       30,
		PlayerVelocityCarry: 2,
		OutOfBoundsY:        -25,
	}
}

// Body is one reusable sphere.
type Body struct {
	Collider physics.Sphere
	Velocity rl.Vector3
	Active   bool
}

// HitVolumes is the ordered set of target volumes a sphere is tested against after the
// world. SphereIntersect returns the first target, in placement order, that the sphere
// penetrates; Strike reports that a sphere touched it.
type HitVolumes interface {
	SphereIntersect(s physics.Sphere) (id int, c physics.Correction, ok bool)
	Strike(id int) bool
}

// Pool is a fixed ring of sphere bodies fired round-robin.
type Pool struct {
	Settings Settings

	bodies []Body
	next   int
	ammo   int
	events *engine.Events
}

func NewPool(settings Settings, events *engine.Events) *Pool {
	if events == nil {
		events = engine.NewEvents()
	}
	p := &Pool{
		Settings: settings,
		bodies:   make([]Body, settings.PoolSize),
		events:   events,
	}
	p.Reset()
	return p
}

// Reset parks every body and refills the ammunition.
func (p *Pool) Reset() {
	for i := range p.bodies {
		p.bodies[i] = Body{
			Collider: physics.Sphere{Center: ParkedPosition, Radius: p.Settings.Radius},
		}
	}
	p.next = 0
	p.ammo = p.Settings.Ammo
	p.events.AmmoChanged.Invoke(p.ammo)
}

// Refill sets the remaining ammunition without touching bodies in flight.
func (p *Pool) Refill(ammo int) {
	if ammo < 0 {
		ammo = 0
	}
	p.ammo = ammo
	p.events.AmmoChanged.Invoke(p.ammo)
}

// Impulse is the launch speed for a trigger held for the given time. It starts at
// BaseImpulse and saturates toward BaseImpulse+ChargeImpulse.
func (p *Pool) Impulse(held time.Duration) float32 {
	ms := float64(held) / float64(time.Millisecond)
	if ms < 0 {
		ms = 0
	}
	return p.Settings.BaseImpulse + p.Settings.ChargeImpulse*float32(1-math.Exp(-ms*0.001))
}

// Fire launches the next body from the top of the player's capsule. It returns false and
// leaves the pool untouched when there is no ammunition left.
func (p *Pool) Fire(direction rl.Vector3, held time.Duration, origin physics.Capsule, playerVelocity rl.Vector3) bool {
	if p.ammo <= 0 || len(p.bodies) == 0 {
		return false
	}

	b := &p.bodies[p.next]
	b.Collider.Center = rl.Vector3Add(origin.End, rl.Vector3Scale(direction, origin.Radius*p.Settings.FireOffset))
	b.Velocity = rl.Vector3Add(
		rl.Vector3Scale(direction, p.Impulse(held)),
		rl.Vector3Scale(playerVelocity, p.Settings.PlayerVelocityCarry),
	)
	b.Active = true

	p.next = (p.next + 1) % len(p.bodies)
	p.ammo--
	p.events.AmmoChanged.Invoke(p.ammo)
	return true
}

// Update advances every active body by dt. World geometry is tested first, then the
// targets; only the first contact is resolved per body. The player's capsule is treated as
// three spheres and exchanges momentum with any body touching it. Sphere pairs are resolved
// last, once every body has moved.
func (p *Pool) Update(dt float32, world physics.Collider, targets HitVolumes, player physics.Capsule, playerVelocity *rl.Vector3) {
	for i := range p.bodies {
		b := &p.bodies[i]
		if !b.Active {
			continue
		}

		b.Collider.Center = rl.Vector3Add(b.Collider.Center, rl.Vector3Scale(b.Velocity, dt))

		if result, ok := p.firstContact(b, world, targets); ok {
			along := rl.Vector3DotProduct(result.Normal, b.Velocity)
			b.Velocity = rl.Vector3Subtract(b.Velocity, rl.Vector3Scale(result.Normal, along*p.Settings.Restitution))
			b.Collider.Center = rl.Vector3Add(b.Collider.Center, result.Offset())
		} else {
			b.Velocity.Y -= p.Settings.Gravity * dt
		}

		damping := float32(math.Exp(float64(-p.Settings.Damping*dt))) - 1
		b.Velocity = rl.Vector3Add(b.Velocity, rl.Vector3Scale(b.Velocity, damping))

		if playerVelocity != nil {
			collidePlayer(b, player, playerVelocity)
		}
	}

	p.collideBodies()
	p.recycleFallen()
}

func (p *Pool) firstContact(b *Body, world physics.Collider, targets HitVolumes) (physics.Correction, bool) {
	if world != nil {
		if result, ok := world.SphereIntersect(b.Collider); ok {
			return result, true
		}
	}
	if targets != nil {
		if id, result, ok := targets.SphereIntersect(b.Collider); ok {
			targets.Strike(id)
			return result, true
		}
	}
	return physics.Correction{}, false
}

// collidePlayer approximates the capsule as spheres at its start, end and middle.
func collidePlayer(b *Body, player physics.Capsule, playerVelocity *rl.Vector3) {
	r := player.Radius + b.Collider.Radius
	r2 := r * r

	for _, point := range [3]rl.Vector3{player.Start, player.End, player.Center()} {
		diff := rl.Vector3Subtract(point, b.Collider.Center)
		d2 := rl.Vector3DotProduct(diff, diff)
		if d2 >= r2 {
			continue
		}
		normal, ok := physics.SafeNormalize(diff)
		if !ok {
			continue
		}

		physics.ExchangeAlongNormal(playerVelocity, &b.Velocity, normal)

		d := (r - float32(math.Sqrt(float64(d2)))) / 2
		b.Collider.Center = rl.Vector3Add(b.Collider.Center, rl.Vector3Scale(normal, -d))
	}
}

// collideBodies resolves every overlapping pair of active bodies. This is O(n²), which is
// fine for pools of a few dozen.
func (p *Pool) collideBodies() {
	for i := range p.bodies {
		s1 := &p.bodies[i]
		if !s1.Active {
			continue
		}
		for j := i + 1; j < len(p.bodies); j++ {
			s2 := &p.bodies[j]
			if !s2.Active {
				continue
			}

			diff := rl.Vector3Subtract(s1.Collider.Center, s2.Collider.Center)
			d2 := rl.Vector3DotProduct(diff, diff)
			r := s1.Collider.Radius + s2.Collider.Radius
			if d2 >= r*r {
				continue
			}
			normal, ok := physics.SafeNormalize(diff)
			if !ok {
				continue
			}

			physics.ExchangeAlongNormal(&s1.Velocity, &s2.Velocity, normal)

			d := (r - float32(math.Sqrt(float64(d2)))) / 2
			s1.Collider.Center = rl.Vector3Add(s1.Collider.Center, rl.Vector3Scale(normal, d))
			s2.Collider.Center = rl.Vector3Add(s2.Collider.Center, rl.Vector3Scale(normal, -d))
		}
	}
}

// recycleFallen parks bodies that dropped out of the arena.
func (p *Pool) recycleFallen() {
	for i := range p.bodies {
		b := &p.bodies[i]
		if b.Active && b.Collider.Center.Y <= p.Settings.OutOfBoundsY {
			b.Active = false
			b.Velocity = rl.Vector3{}
			b.Collider.Center = ParkedPosition
			p.events.SphereRecycled.Invoke(i)
		}
	}
}

func (p *Pool) Ammo() int {
	return p.ammo
}

// Bodies exposes the ring for inspection. Callers must not keep the slice across ticks.
func (p *Pool) Bodies() []Body {
	return p.bodies
}

func (p *Pool) ActiveCount() int {
	n := 0
	for i := range p.bodies {
		if p.bodies[i].Active {
			n++
		}
	}
	return n
}

// Transforms returns the render-facing view of every body.
func (p *Pool) Transforms() []engine.SphereTransform {
	out := make([]engine.SphereTransform, len(p.bodies))
	for i := range p.bodies {
		out[i] = engine.SphereTransform{
			Index:  i,
			Center: p.bodies[i].Collider.Center,
			Active: p.bodies[i].Active,
		}
	}
	return out
}
