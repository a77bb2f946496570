package target

import (
	"errors"
	"fmt"

	"arena3d/internal/engine"
	"arena3d/internal/geometry"
	"arena3d/internal/physics"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	// ErrUnknownTarget is returned for an id outside the placement list.
	ErrUnknownTarget = errors.New("unknown target")
	// ErrGeometryUnavailable stands in when a load failed without saying why.
	ErrGeometryUnavailable = errors.New("geometry unavailable")
)

// State is where a target is in its one-way lifecycle.
type State int

const (
	Pristine State = iota
	Hit
)

func (s State) String() string {
	switch s {
	case Pristine:
		return "pristine"
	case Hit:
		return "hit"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Definition is the load-time description of one target.
type Definition struct {
	Name      string
	Placement geometry.Placement
}

// Target is one placed destructible. Its identity and placement never change; only the
// state and the collision index built from the geometry currently shown.
type Target struct {
	ID        int
	Name      string
	Placement geometry.Placement

	state State
	// index is nil until geometry for the current variant has arrived.
	index *physics.TriangleIndex
	// pristine is kept so a new round can rebuild without reloading the asset.
	pristine    *geometry.Mesh
	swapPending bool
}

func (t *Target) State() State {
	return t.state
}

// Present reports whether the target currently takes part in collision queries.
func (t *Target) Present() bool {
	return t.index != nil
}

// SwapPending is true between the hit and the arrival of the hit geometry.
func (t *Target) SwapPending() bool {
	return t.swapPending
}

// Set holds every target in placement order and runs their state machines.
type Set struct {
	targets []*Target
	hits    int
	events  *engine.Events
	logger  *log.Logger
}

func NewSet(defs []Definition, events *engine.Events, logger *log.Logger) *Set {
	if events == nil {
		events = engine.NewEvents()
	}
	if logger == nil {
		logger = log.Default().WithPrefix("target")
	}
	s := &Set{
		targets: make([]*Target, len(defs)),
		events:  events,
		logger:  logger,
	}
	for i, def := range defs {
		s.targets[i] = &Target{ID: i, Name: def.Name, Placement: def.Placement}
	}
	return s
}

func (s *Set) get(id int) (*Target, error) {
	if id < 0 || id >= len(s.targets) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTarget, id)
	}
	return s.targets[id], nil
}

// Strike moves a pristine target to Hit and announces it. It returns false for targets
// that are already hit or unknown, so repeated contacts never retrigger.
func (s *Set) Strike(id int) bool {
	t, err := s.get(id)
	if err != nil || t.state != Pristine {
		return false
	}

	t.state = Hit
	t.swapPending = true
	s.hits++

	s.logger.Debug("target hit", "id", t.ID, "name", t.Name, "hits", s.hits)
	s.events.TargetHit.Invoke(engine.TargetHitEvent{
		ID:        t.ID,
		Name:      t.Name,
		Placement: t.Placement,
		Hits:      s.hits,
	})
	return true
}

// ApplyLoadedGeometry installs geometry for one variant of a target and rebuilds its
// index from scratch. A variant that no longer matches the target's state is dropped, so
// a slow pristine load cannot undo a hit.
func (s *Set) ApplyLoadedGeometry(id int, variant State, mesh geometry.Mesh) error {
	t, err := s.get(id)
	if err != nil {
		return err
	}
	if err := mesh.Validate(); err != nil {
		return fmt.Errorf("target %d %s geometry: %w", id, variant, err)
	}

	if variant == Pristine {
		m := mesh
		t.pristine = &m
	}
	if variant != t.state {
		s.logger.Debug("stale geometry ignored", "id", id, "variant", variant, "state", t.state)
		return nil
	}

	index, err := geometry.BuildIndex(mesh, t.Placement)
	if err != nil {
		return fmt.Errorf("target %d %s geometry: %w", id, variant, err)
	}

	t.index = index
	if variant == Hit {
		t.swapPending = false
	}
	s.logger.Debug("target geometry applied", "id", id, "variant", variant, "triangles", index.TriangleCount())
	return nil
}

// GeometryFailed records that an asset never arrived. The target keeps whatever index it
// had; if it had none it stays out of collision queries.
func (s *Set) GeometryFailed(id int, variant State, cause error) {
	if cause == nil {
		cause = ErrGeometryUnavailable
	}
	s.logger.Warn("target geometry failed", "id", id, "variant", variant, "err", cause)
	s.events.GeometryFailed.Invoke(engine.GeometryFailure{Target: id, Variant: variant.String(), Err: cause})
}

// Reset starts a new round: every target is pristine again, rebuilt from its cached
// pristine mesh.
func (s *Set) Reset() {
	for _, t := range s.targets {
		t.state = Pristine
		t.swapPending = false
		t.index = nil
		if t.pristine == nil {
			continue
		}
		index, err := geometry.BuildIndex(*t.pristine, t.Placement)
		if err != nil {
			// The mesh was validated when it was first applied.
			s.logger.Error("rebuild pristine index", "id", t.ID, "err", err)
			continue
		}
		t.index = index
	}
	s.hits = 0
}

// SphereIntersect returns the first target, in placement order, the sphere penetrates.
func (s *Set) SphereIntersect(sphere physics.Sphere) (int, physics.Correction, bool) {
	for _, t := range s.targets {
		if t.index == nil {
			continue
		}
		if c, ok := t.index.SphereIntersect(sphere); ok {
			return t.ID, c, true
		}
	}
	return -1, physics.Correction{}, false
}

// Raycast returns the nearest present target along the ray and where it was struck.
func (s *Set) Raycast(origin, direction rl.Vector3, maxDistance float32) (int, physics.RaycastHit, bool) {
	id := -1
	var nearest physics.RaycastHit
	for _, t := range s.targets {
		if t.index == nil {
			continue
		}
		if hit, ok := t.index.Raycast(origin, direction, maxDistance); ok {
			id, nearest, maxDistance = t.ID, hit, hit.Distance
		}
	}
	return id, nearest, id >= 0
}

// Colliders returns the present targets' indices in placement order.
func (s *Set) Colliders() []physics.Collider {
	out := make([]physics.Collider, 0, len(s.targets))
	for _, t := range s.targets {
		if t.index != nil {
			out = append(out, t.index)
		}
	}
	return out
}

// State returns the state of target id, or Pristine for unknown ids.
func (s *Set) State(id int) State {
	t, err := s.get(id)
	if err != nil {
		return Pristine
	}
	return t.state
}

func (s *Set) Target(id int) (*Target, error) {
	return s.get(id)
}

// Targets exposes the records in placement order.
func (s *Set) Targets() []*Target {
	return s.targets
}

func (s *Set) Hits() int {
	return s.hits
}

func (s *Set) Len() int {
	return len(s.targets)
}
