package main

import (
	"math"
	"time"

	"arena3d/internal/player"
	"arena3d/internal/sim"
	"arena3d/internal/target"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const botFireInterval = 500 * time.Millisecond

// scriptedBot walks in a slow circle and throws at any pristine target it can see.
type scriptedBot struct {
	yaw      float64
	lastFire time.Time
}

func newScriptedBot() *scriptedBot {
	return &scriptedBot{}
}

func (b *scriptedBot) next(driver *sim.Driver, now time.Time) player.Input {
	if now.Sub(b.lastFire) > botFireInterval {
		if dir, ok := visibleTarget(driver); ok {
			b.lastFire = now
			b.yaw = math.Atan2(float64(dir.X), -float64(dir.Z))
			driver.Fire(dir, 0)
			return player.Input{View: dir}
		}
	}

	b.yaw += 0.01
	view := rl.Vector3{X: float32(math.Sin(b.yaw)), Y: 0.1, Z: -float32(math.Cos(b.yaw))}
	return player.Input{Forward: true, View: view}
}

// visibleTarget returns a throwing direction toward the first pristine target with a clear
// line of sight from the eye, lifted to make up for the drop of an uncharged throw.
func visibleTarget(driver *sim.Driver) (rl.Vector3, bool) {
	st := driver.State()
	cfg := driver.Config()
	eye := st.Player.Eye()

	for _, t := range st.Targets.Targets() {
		if t.State() != target.Pristine || !t.Present() {
			continue
		}
		toTarget := rl.Vector3Subtract(t.Placement.Position, eye)
		dist := rl.Vector3Length(toTarget)
		hit, ok := driver.Aim(toTarget, dist+1)
		if !ok || hit.Target != t.ID {
			continue
		}

		flight := dist / cfg.BaseImpulse
		toTarget.Y += 0.5 * cfg.Gravity * flight * flight
		return toTarget, true
	}
	return rl.Vector3{}, false
}
