package sim

import (
	"context"
	"fmt"
	"time"

	"arena3d/internal/engine"
	"arena3d/internal/geometry"
	"arena3d/internal/physics"
	"arena3d/internal/player"
	"arena3d/internal/projectile"
	"arena3d/internal/target"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// WorldGeometry is the GeometryDelivery.Target value for the world mesh.
const WorldGeometry = -1

const defaultDeliveryBuffer = 64

// SimulationState is every piece of mutable simulation state. The driver owns it; it is
// only changed inside Tick, Fire, Reset and the Apply* calls.
type SimulationState struct {
	Player  *player.Controller
	Pool    *projectile.Pool
	Targets *target.Set
	// World is nil until the world mesh has been applied.
	World *physics.TriangleIndex
	Tick  uint64
}

// GeometryDelivery carries a finished (or failed) asset load back to the simulation.
type GeometryDelivery struct {
	Target    int // target id, or WorldGeometry
	Variant   target.State
	Mesh      geometry.Mesh
	Placement geometry.Placement // world only; targets use their own placement
	Err       error
}

// Driver advances the simulation in fixed substeps.
type Driver struct {
	cfg        Config
	state      *SimulationState
	events     *engine.Events
	logger     *log.Logger
	deliveries chan GeometryDelivery
}

type Option func(*Driver)

func WithLogger(l *log.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// WithEvents shares an existing event bus, so listeners can be attached before the
// state is built.
func WithEvents(e *engine.Events) Option {
	return func(d *Driver) { d.events = e }
}

func WithDeliveryBuffer(n int) Option {
	return func(d *Driver) { d.deliveries = make(chan GeometryDelivery, n) }
}

func NewDriver(cfg Config, targets []target.Definition, opts ...Option) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Driver{
		cfg:        cfg,
		events:     engine.NewEvents(),
		logger:     log.Default().WithPrefix("sim"),
		deliveries: make(chan GeometryDelivery, defaultDeliveryBuffer),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.state = &SimulationState{
		Player:  player.NewController(cfg.Spawn.Capsule(), cfg.PlayerSettings(), d.events),
		Pool:    projectile.NewPool(cfg.ProjectileSettings(), d.events),
		Targets: target.NewSet(targets, d.events, d.logger.WithPrefix("target")),
	}
	return d, nil
}

func (d *Driver) State() *SimulationState {
	return d.state
}

func (d *Driver) Events() *engine.Events {
	return d.events
}

func (d *Driver) Config() Config {
	return d.cfg
}

// SubstepDelta converts a frame's wall-clock time into the length of one substep.
// Long frames are clamped so a stall cannot tunnel bodies through walls.
func (d *Driver) SubstepDelta(elapsed time.Duration) float32 {
	frame := float32(elapsed.Seconds())
	if frame > d.cfg.MaxFrameDelta {
		frame = d.cfg.MaxFrameDelta
	}
	if frame < 0 {
		frame = 0
	}
	return frame / float32(d.cfg.StepsPerFrame)
}

// Tick runs one external frame: pending geometry is applied, then StepsPerFrame
// substeps, then a Frame snapshot is published.
func (d *Driver) Tick(elapsed time.Duration, in player.Input) {
	d.drainDeliveries()

	dt := d.SubstepDelta(elapsed)
	if dt > 0 {
		for i := 0; i < d.cfg.StepsPerFrame; i++ {
			d.Step(dt, in)
		}
	}

	d.state.Tick++
	d.events.Frame.Invoke(d.Snapshot())
}

// Step is a single substep: player, projectiles, then out-of-bounds recovery.
func (d *Driver) Step(dt float32, in player.Input) {
	st := d.state

	st.Player.Step(dt, in, d.playerColliders()...)

	var world physics.Collider
	if st.World != nil {
		world = st.World
	}
	st.Pool.Update(dt, world, st.Targets, st.Player.Collider, &st.Player.Velocity)

	d.teleportPlayerIfOutOfBounds()
}

// playerColliders orders the world first, then each target in placement order.
func (d *Driver) playerColliders() []physics.Collider {
	targets := d.state.Targets.Colliders()
	out := make([]physics.Collider, 0, len(targets)+1)
	if d.state.World != nil {
		out = append(out, d.state.World)
	}
	return append(out, targets...)
}

func (d *Driver) teleportPlayerIfOutOfBounds() {
	p := d.state.Player
	if p.Eye().Y > d.cfg.OutOfBoundsY {
		return
	}
	d.logger.Info("player out of bounds, respawning", "y", p.Eye().Y)
	p.Respawn(d.cfg.Spawn.Capsule())
}

// Fire throws the next sphere along direction. held is how long the trigger was down.
func (d *Driver) Fire(direction rl.Vector3, held time.Duration) bool {
	dir, ok := physics.SafeNormalize(direction)
	if !ok {
		return false
	}
	p := d.state.Player
	return d.state.Pool.Fire(dir, held, p.Collider, p.Velocity)
}

// AimHit is the first surface a ray from the player's eye reaches.
type AimHit struct {
	Target int // target id, or WorldGeometry
	physics.RaycastHit
}

// Aim casts a ray from the player's eye along direction and reports the nearest world or
// target surface within maxDistance.
func (d *Driver) Aim(direction rl.Vector3, maxDistance float32) (AimHit, bool) {
	eye := d.state.Player.Eye()

	aim := AimHit{Target: WorldGeometry}
	found := false
	if hit, ok := d.state.World.Raycast(eye, direction, maxDistance); ok {
		aim.RaycastHit, found = hit, true
		maxDistance = hit.Distance
	}
	if id, hit, ok := d.state.Targets.Raycast(eye, direction, maxDistance); ok {
		aim, found = AimHit{Target: id, RaycastHit: hit}, true
	}
	return aim, found
}

// Refill sets the remaining ammunition for the current round.
func (d *Driver) Refill(ammo int) {
	d.state.Pool.Refill(ammo)
}

// Reset starts a new round without touching loaded world geometry.
func (d *Driver) Reset() {
	d.state.Player.Respawn(d.cfg.Spawn.Capsule())
	d.state.Pool.Reset()
	d.state.Targets.Reset()
	d.state.Tick = 0
}

// ApplyWorldGeometry replaces the world index.
func (d *Driver) ApplyWorldGeometry(mesh geometry.Mesh, placement geometry.Placement) error {
	index, err := geometry.BuildIndex(mesh, placement)
	if err != nil {
		return fmt.Errorf("world geometry: %w", err)
	}
	d.state.World = index
	d.logger.Info("world geometry applied", "triangles", index.TriangleCount())
	return nil
}

// ApplyTargetGeometry is the synchronous ingestion point for target meshes.
func (d *Driver) ApplyTargetGeometry(id int, variant target.State, mesh geometry.Mesh) error {
	return d.state.Targets.ApplyLoadedGeometry(id, variant, mesh)
}

// Deliver queues a load result for the next tick. It is the only method that may be called
// from another goroutine.
func (d *Driver) Deliver(ctx context.Context, dl GeometryDelivery) error {
	select {
	case d.deliveries <- dl:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Driver) drainDeliveries() {
	for {
		select {
		case dl := <-d.deliveries:
			d.apply(dl)
		default:
			return
		}
	}
}

func (d *Driver) apply(dl GeometryDelivery) {
	if dl.Err == nil {
		if dl.Target == WorldGeometry {
			dl.Err = d.ApplyWorldGeometry(dl.Mesh, dl.Placement)
		} else {
			dl.Err = d.ApplyTargetGeometry(dl.Target, dl.Variant, dl.Mesh)
		}
		if dl.Err == nil {
			return
		}
	}

	if dl.Target == WorldGeometry {
		d.logger.Warn("world geometry failed", "err", dl.Err)
		d.events.GeometryFailed.Invoke(engine.GeometryFailure{Target: WorldGeometry, Variant: "world", Err: dl.Err})
		return
	}
	d.state.Targets.GeometryFailed(dl.Target, dl.Variant, dl.Err)
}

// Snapshot captures what a renderer needs for the current frame.
func (d *Driver) Snapshot() engine.Snapshot {
	return engine.Snapshot{
		Tick:    d.state.Tick,
		Player:  d.state.Player.Transform(),
		Spheres: d.state.Pool.Transforms(),
		Ammo:    d.state.Pool.Ammo(),
		Hits:    d.state.Targets.Hits(),
	}
}
