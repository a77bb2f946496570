package sim

import (
	"context"

	"arena3d/internal/engine"
	"arena3d/internal/geometry"
	"arena3d/internal/target"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// AssetNames maps the simulation's geometry slots to loader asset names.
type AssetNames struct {
	World          string
	TargetPristine string
	TargetHit      string
}

// StreamAssets requests the world and every pristine target from loader and, whenever a
// target is hit, its hit variant. Results come back through Deliver, so all state changes
// still happen at tick boundaries.
func (d *Driver) StreamAssets(ctx context.Context, loader geometry.Loader, names AssetNames) {
	d.request(ctx, loader, names.World, WorldGeometry, target.Pristine)
	for id := 0; id < d.state.Targets.Len(); id++ {
		d.request(ctx, loader, names.TargetPristine, id, target.Pristine)
	}

	d.events.TargetHit.AddListener(func(e engine.TargetHitEvent) {
		d.request(ctx, loader, names.TargetHit, e.ID, target.Hit)
	})
}

func (d *Driver) request(ctx context.Context, loader geometry.Loader, name string, id int, variant target.State) {
	results := geometry.LoadAsync(ctx, loader, name)
	go func() {
		var r geometry.Result
		select {
		case r = <-results:
		case <-ctx.Done():
			return
		}
		dl := GeometryDelivery{
			Target:    id,
			Variant:   variant,
			Mesh:      r.Mesh,
			Placement: geometry.At(rl.Vector3{}),
			Err:       r.Err,
		}
		if err := d.Deliver(ctx, dl); err != nil {
			d.logger.Debug("delivery dropped", "asset", name, "err", err)
		}
	}()
}
