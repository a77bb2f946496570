package sim

import (
	"errors"
	"fmt"

	"arena3d/internal/physics"
	"arena3d/internal/player"
	"arena3d/internal/projectile"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrInvalidConfig wraps every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// CapsuleDef is the JSON form of a capsule.
type CapsuleDef struct {
	Start  [3]float32 `json:"start"`
	End    [3]float32 `json:"end"`
	Radius float32    `json:"radius"`
}

func (c CapsuleDef) Capsule() physics.Capsule {
	return physics.NewCapsule(
		rl.Vector3{X: c.Start[0], Y: c.Start[1], Z: c.Start[2]},
		rl.Vector3{X: c.End[0], Y: c.End[1], Z: c.End[2]},
		c.Radius,
	)
}

// Config holds every tuning constant of the simulation. Decoding JSON into a
// DefaultConfig() value overrides only the fields present in the document.
type Config struct {
	Gravity       float32 `json:"gravity"`
	StepsPerFrame int     `json:"stepsPerFrame"`
	MaxFrameDelta float32 `json:"maxFrameDelta"` // seconds
	OutOfBoundsY  float32 `json:"outOfBoundsY"`

	SphereRadius        float32 `json:"sphereRadius"`
	PoolSize            int     `json:"poolSize"`
	Ammo                int     `json:"ammo"`
	SphereRestitution   float32 `json:"sphereRestitution"`
	SphereDamping       float32 `json:"sphereDamping"`
	FireOffset          float32 `json:"fireOffset"`
	BaseImpulse         float32 `json:"baseImpulse"`
	ChargeImpulse       float32 `json:"chargeImpulse"`
	PlayerVelocityCarry float32 `json:"playerVelocityCarry"`

	PlayerDamping     float32    `json:"playerDamping"`
	AirDampingScale   float32    `json:"airDampingScale"`
	FloorAcceleration float32    `json:"floorAcceleration"`
	AirAcceleration   float32    `json:"airAcceleration"`
	JumpSpeed         float32    `json:"jumpSpeed"`
	Spawn             CapsuleDef `json:"spawn"`
}

func DefaultConfig() Config {
	p := player.DefaultSettings()
	s := projectile.DefaultSettings()
	return Config{
		Gravity:       9.8,
		StepsPerFrame: 5,
		MaxFrameDelta: 0.05,
		OutOfBoundsY:  -25,

		SphereRadius:        s.Radius,
		PoolSize:            s.PoolSize,
		Ammo:                s.Ammo,
		SphereRestitution:   s.Restitution,
		SphereDamping:       s.Damping,
		FireOffset:          s.FireOffset,
		BaseImpulse:         s.BaseImpulse,
		ChargeImpulse:       s.ChargeImpulse,
		PlayerVelocityCarry: s.PlayerVelocityCarry,

		PlayerDamping:     p.Damping,
		AirDampingScale:   p.AirDampingScale,
		FloorAcceleration: p.FloorAcceleration,
		AirAcceleration:   p.AirAcceleration,
		JumpSpeed:         p.JumpSpeed,
		Spawn: CapsuleDef{
			Start:  [3]float32{0, 0.35, 0},
			End:    [3]float32{0, 1, 0},
			Radius: 0.35,
		},
	}
}

func (c Config) Validate() error {
	switch {
	case c.StepsPerFrame <= 0:
		return fmt.Errorf("%w: stepsPerFrame must be positive, got %d", ErrInvalidConfig, c.StepsPerFrame)
	case c.MaxFrameDelta <= 0:
		return fmt.Errorf("%w: maxFrameDelta must be positive, got %g", ErrInvalidConfig, c.MaxFrameDelta)
	case c.PoolSize <= 0:
		return fmt.Errorf("%w: poolSize must be positive, got %d", ErrInvalidConfig, c.PoolSize)
	case c.Ammo < 0:
		return fmt.Errorf("%w: ammo must not be negative, got %d", ErrInvalidConfig, c.Ammo)
	case c.SphereRadius <= 0:
		return fmt.Errorf("%w: sphereRadius must be positive, got %g", ErrInvalidConfig, c.SphereRadius)
	case c.Spawn.Radius <= 0:
		return fmt.Errorf("%w: spawn radius must be positive, got %g", ErrInvalidConfig, c.Spawn.Radius)
	}
	return nil
}

func (c Config) PlayerSettings() player.Settings {
	return player.Settings{
		Gravity:           c.Gravity,
		Damping:           c.PlayerDamping,
		AirDampingScale:   c.AirDampingScale,
		FloorAcceleration: c.FloorAcceleration,
		AirAcceleration:   c.AirAcceleration,
		JumpSpeed:         c.JumpSpeed,
	}
}

func (c Config) ProjectileSettings() projectile.Settings {
	return projectile.Settings{
		Radius:              c.SphereRadius,
		PoolSize:            c.PoolSize,
		Ammo:                c.Ammo,
		Gravity:             c.Gravity,
		Restitution:         c.SphereRestitution,
		Damping:             c.SphereDamping,
		FireOffset:          c.FireOffset,
		BaseImpulse:         c.BaseImpulse,
		ChargeImpulse:       c.ChargeImpulse,
		PlayerVelocityCarry: c.PlayerVelocityCarry,
		OutOfBoundsY:        c.OutOfBoundsY,
	}
}
