package geometry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrUnknownAsset is returned by Catalog for names it does not hold.
var ErrUnknownAsset = errors.New("unknown asset")

// Loader fetches mesh data for a named asset. Implementations may block; callers run them
// off the simulation goroutine and hand the result back through the driver.
type Loader interface {
	Load(ctx context.Context, name string) (Mesh, error)
}

// Result is the outcome of an asynchronous load.
type Result struct {
	Name string
	Mesh Mesh
	Err  error
}

// LoadAsync runs loader.Load on its own goroutine and delivers exactly one Result.
func LoadAsync(ctx context.Context, loader Loader, name string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		mesh, err := loader.Load(ctx, name)
		if err != nil {
			err = fmt.Errorf("load %s: %w", name, err)
		}
		out <- Result{Name: name, Mesh: mesh, Err: err}
	}()
	return out
}

// Catalog is an in-memory Loader. Latency simulates slow asset storage.
type Catalog struct {
	Latency time.Duration

	mu     sync.RWMutex
	meshes map[string]Mesh
}

func NewCatalog() *Catalog {
	return &Catalog{meshes: make(map[string]Mesh)}
}

func (c *Catalog) Add(name string, m Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meshes[name] = m
}

func (c *Catalog) Load(ctx context.Context, name string) (Mesh, error) {
	if c.Latency > 0 {
		timer := time.NewTimer(c.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Mesh{}, ctx.Err()
		case <-timer.C:
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.meshes[name]
	if !ok {
		return Mesh{}, fmt.Errorf("%w: %q", ErrUnknownAsset, name)
	}
	return m, nil
}
