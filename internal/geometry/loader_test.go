package geometry

import (
	"context"
	"errors"
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestCatalogLoad(t *testing.T) {
	c := NewCatalog()
	c.Add("floor", Plane(2, 2))

	m, err := c.Load(context.Background(), "floor")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", m.TriangleCount())
	}

	if _, err := c.Load(context.Background(), "missing"); !errors.Is(err, ErrUnknownAsset) {
		t.Errorf("Expected ErrUnknownAsset, got %v", err)
	}
}

func TestCatalogLatencyHonoursContext(t *testing.T) {
	c := NewCatalog()
	c.Latency = time.Hour
	c.Add("floor", Plane(2, 2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Load(ctx, "floor"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestLoadAsyncDeliversOnce(t *testing.T) {
	c := NewCatalog()
	c.Latency = 10 * time.Millisecond
	c.Add("box", Box(rl.Vector3{X: 1, Y: 1, Z: 1}))

	select {
	case r := <-LoadAsync(context.Background(), c, "box"):
		if r.Err != nil {
			t.Fatalf("Unexpected error: %v", r.Err)
		}
		if r.Name != "box" || r.Mesh.TriangleCount() != 12 {
			t.Errorf("Expected box with 12 triangles, got %s with %d", r.Name, r.Mesh.TriangleCount())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for load")
	}

	r := <-LoadAsync(context.Background(), c, "nope")
	if !errors.Is(r.Err, ErrUnknownAsset) {
		t.Errorf("Expected wrapped ErrUnknownAsset, got %v", r.Err)
	}
}
