package target

import (
	"errors"
	"io"
	"testing"

	"arena3d/internal/engine"
	"arena3d/internal/geometry"
	"arena3d/internal/physics"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	pristineMesh = geometry.Box(rl.Vector3{X: 1, Y: 2, Z: 1})
	hitMesh      = geometry.Box(rl.Vector3{X: 1, Y: 0.2, Z: 1})

	// upperProbe touches the tall pristine box but not the flat hit variant.
	upperProbe = physics.Sphere{Center: rl.Vector3{Y: 1.8, Z: -4.4}, Radius: 0.2}
)

func newTestSet(t *testing.T, n int) (*Set, *engine.Events) {
	t.Helper()
	defs := make([]Definition, n)
	for i := range defs {
		defs[i] = Definition{Name: "t", Placement: geometry.At(rl.Vector3{Y: 1, Z: -5})}
	}
	events := engine.NewEvents()
	return NewSet(defs, events, log.New(io.Discard)), events
}

func TestStrikeTransitionsOnce(t *testing.T) {
	s, events := newTestSet(t, 2)
	var hits []engine.TargetHitEvent
	events.TargetHit.AddListener(func(e engine.TargetHitEvent) { hits = append(hits, e) })

	if !s.Strike(1) {
		t.Fatal("Expected first strike to transition")
	}
	for i := 0; i < 5; i++ {
		if s.Strike(1) {
			t.Errorf("strike %d: expected repeated strike to be a no-op", i)
		}
	}

	if len(hits) != 1 {
		t.Fatalf("Expected 1 hit event, got %d", len(hits))
	}
	if hits[0].ID != 1 || hits[0].Hits != 1 {
		t.Errorf("Expected hit on target 1 (hits=1), got %+v", hits[0])
	}
	if s.State(1) != Hit || s.State(0) != Pristine {
		t.Errorf("Expected states [pristine hit], got [%s %s]", s.State(0), s.State(1))
	}
	if s.Hits() != 1 {
		t.Errorf("Expected 1 hit, got %d", s.Hits())
	}
	if s.Strike(7) || s.Strike(-1) {
		t.Error("Expected unknown ids to be rejected")
	}
}

func TestApplyLoadedGeometryUsesPlacement(t *testing.T) {
	s, _ := newTestSet(t, 1)

	if _, _, ok := s.SphereIntersect(upperProbe); ok {
		t.Error("Expected target without geometry to be absent")
	}
	if err := s.ApplyLoadedGeometry(0, Pristine, pristineMesh); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	id, result, ok := s.SphereIntersect(upperProbe)
	if !ok || id != 0 {
		t.Fatalf("Expected contact with target 0, got id=%d ok=%v", id, ok)
	}
	if result.Normal.Z < 0.99 {
		t.Errorf("Expected normal along +Z, got %v", result.Normal)
	}
	if len(s.Colliders()) != 1 {
		t.Errorf("Expected 1 collider, got %d", len(s.Colliders()))
	}
}

func TestOldIndexStaysUntilHitGeometryArrives(t *testing.T) {
	s, _ := newTestSet(t, 1)
	s.ApplyLoadedGeometry(0, Pristine, pristineMesh)
	s.Strike(0)

	tgt, _ := s.Target(0)
	if !tgt.SwapPending() {
		t.Error("Expected swap to be pending")
	}
	if _, _, ok := s.SphereIntersect(upperProbe); !ok {
		t.Error("Expected pristine index to keep colliding until the swap")
	}

	if err := s.ApplyLoadedGeometry(0, Hit, hitMesh); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tgt.SwapPending() {
		t.Error("Expected swap to be complete")
	}
	if _, _, ok := s.SphereIntersect(upperProbe); ok {
		t.Error("Expected hit geometry to replace the pristine index")
	}
}

func TestStalePristineIgnored(t *testing.T) {
	s, _ := newTestSet(t, 1)
	s.Strike(0)

	if err := s.ApplyLoadedGeometry(0, Pristine, pristineMesh); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	tgt, _ := s.Target(0)
	if tgt.Present() {
		t.Error("Expected stale pristine geometry not to be applied")
	}

	// It is still cached for the next round.
	s.Reset()
	if !tgt.Present() || s.State(0) != Pristine {
		t.Error("Expected reset to rebuild from the cached pristine mesh")
	}
	if _, _, ok := s.SphereIntersect(upperProbe); !ok {
		t.Error("Expected pristine collision after reset")
	}
	if s.Hits() != 0 {
		t.Errorf("Expected hits reset to 0, got %d", s.Hits())
	}
}

func TestApplyLoadedGeometryErrors(t *testing.T) {
	s, _ := newTestSet(t, 1)

	if err := s.ApplyLoadedGeometry(3, Pristine, pristineMesh); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("Expected ErrUnknownTarget, got %v", err)
	}
	bad := geometry.Mesh{Vertices: []float32{0, 0, 0, 1}}
	if err := s.ApplyLoadedGeometry(0, Pristine, bad); !errors.Is(err, geometry.ErrMalformedMesh) {
		t.Errorf("Expected ErrMalformedMesh, got %v", err)
	}

	tgt, _ := s.Target(0)
	if tgt.Present() {
		t.Error("Expected target to stay absent after a bad mesh")
	}
}

func TestGeometryFailedKeepsOthersWorking(t *testing.T) {
	s, events := newTestSet(t, 2)
	var failures []engine.GeometryFailure
	events.GeometryFailed.AddListener(func(f engine.GeometryFailure) { failures = append(failures, f) })

	s.GeometryFailed(0, Pristine, errors.New("timeout"))
	s.ApplyLoadedGeometry(1, Pristine, pristineMesh)

	if len(failures) != 1 || failures[0].Target != 0 || failures[0].Variant != "pristine" {
		t.Errorf("Expected one failure for target 0, got %+v", failures)
	}
	id, _, ok := s.SphereIntersect(upperProbe)
	if !ok || id != 1 {
		t.Errorf("Expected target 1 to collide, got id=%d ok=%v", id, ok)
	}
}

func TestGeometryFailedWithoutCause(t *testing.T) {
	s, events := newTestSet(t, 1)
	var failures []engine.GeometryFailure
	events.GeometryFailed.AddListener(func(f engine.GeometryFailure) { failures = append(failures, f) })

	s.GeometryFailed(0, Hit, nil)

	if len(failures) != 1 || !errors.Is(failures[0].Err, ErrGeometryUnavailable) {
		t.Errorf("Expected ErrGeometryUnavailable, got %+v", failures)
	}
}

func TestRaycastReturnsNearestPresentTarget(t *testing.T) {
	defs := []Definition{
		{Name: "far", Placement: geometry.At(rl.Vector3{Y: 1, Z: -8})},
		{Name: "near", Placement: geometry.At(rl.Vector3{Y: 1, Z: -5})},
		{Name: "loading", Placement: geometry.At(rl.Vector3{Y: 1, Z: -3})},
	}
	s := NewSet(defs, nil, log.New(io.Discard))
	s.ApplyLoadedGeometry(0, Pristine, pristineMesh)
	s.ApplyLoadedGeometry(1, Pristine, pristineMesh)

	origin := rl.Vector3{X: 0.2, Y: 1.3}
	id, hit, ok := s.Raycast(origin, rl.Vector3{Z: -1}, 50)
	if !ok || id != 1 {
		t.Fatalf("Expected target 1, got id=%d ok=%v", id, ok)
	}
	if hit.Distance < 4.4999 || hit.Distance > 4.5001 {
		t.Errorf("Expected distance 4.5, got %f", hit.Distance)
	}

	if id, _, ok := s.Raycast(origin, rl.Vector3{Z: 1}, 50); ok {
		t.Errorf("Expected no target behind, got %d", id)
	}
}

func TestSphereIntersectPlacementOrder(t *testing.T) {
	s, _ := newTestSet(t, 3)
	for id := 2; id >= 0; id-- {
		s.ApplyLoadedGeometry(id, Pristine, pristineMesh)
	}

	id, _, ok := s.SphereIntersect(upperProbe)
	if !ok || id != 0 {
		t.Errorf("Expected first target in placement order, got %d", id)
	}
}

func TestStateString(t *testing.T) {
	if Pristine.String() != "pristine" || Hit.String() != "hit" {
		t.Errorf("Unexpected names %q %q", Pristine, Hit)
	}
	if State(9).String() != "State(9)" {
		t.Errorf("Expected State(9), got %q", State(9))
	}
}
