package main

import (
	"io"
	"testing"
	"time"

	"arena3d/internal/geometry"
	"arena3d/internal/sim"
	"arena3d/internal/target"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
)

func newBotDriver(t *testing.T) *sim.Driver {
	t.Helper()
	defs := []target.Definition{{Name: "post", Placement: geometry.At(rl.Vector3{X: 0.2, Y: 1.3, Z: -5})}}
	d, err := sim.NewDriver(sim.DefaultConfig(), defs, sim.WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	if err := d.ApplyTargetGeometry(0, target.Pristine, geometry.Box(rl.Vector3{X: 1, Y: 2, Z: 1})); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestBotThrowsAtVisibleTarget(t *testing.T) {
	d := newBotDriver(t)
	b := newScriptedBot()
	now := time.Unix(1000, 0)

	in := b.next(d, now)
	if d.State().Pool.Ammo() != 19 {
		t.Fatalf("Expected the bot to throw, ammo = %d", d.State().Pool.Ammo())
	}
	if in.Forward || in.View.Z >= 0 || in.View.Y <= 0 {
		t.Errorf("Expected to stand and look ahead and slightly up, got %+v", in)
	}

	// Within the fire interval the bot only walks.
	in = b.next(d, now.Add(100*time.Millisecond))
	if d.State().Pool.Ammo() != 19 || !in.Forward {
		t.Errorf("Expected no second throw yet, ammo = %d input %+v", d.State().Pool.Ammo(), in)
	}
}

func TestBotHoldsFireWhenBlocked(t *testing.T) {
	d := newBotDriver(t)
	wall := geometry.Box(rl.Vector3{X: 4, Y: 4, Z: 0.2})
	if err := d.ApplyWorldGeometry(wall, geometry.At(rl.Vector3{X: 0.3, Y: 1.2, Z: -2})); err != nil {
		t.Fatal(err)
	}

	b := newScriptedBot()
	if in := b.next(d, time.Unix(1000, 0)); !in.Forward {
		t.Errorf("Expected the bot to keep walking, got %+v", in)
	}
	if d.State().Pool.Ammo() != 20 {
		t.Errorf("Expected no throw through a wall, ammo = %d", d.State().Pool.Ammo())
	}
}

func TestBotIgnoresHitTargets(t *testing.T) {
	d := newBotDriver(t)
	d.State().Targets.Strike(0)

	b := newScriptedBot()
	b.next(d, time.Unix(1000, 0))
	if d.State().Pool.Ammo() != 20 {
		t.Errorf("Expected no throw at a hit target, ammo = %d", d.State().Pool.Ammo())
	}
}
