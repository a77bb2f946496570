package stream

import (
	"time"

	"arena3d/internal/player"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Controls is the subset of the simulation driver that client commands act on.
type Controls interface {
	Fire(direction rl.Vector3, held time.Duration) bool
	Reset()
	Refill(ammo int)
}

// Dispatch applies one client command between ticks. Input messages replace the held
// movement state in *in; fire, reset and refill act on the driver
// immediately.
func Dispatch(ctl Controls, cmd Command, in *player.Input) {
	msg := cmd.Message
	switch msg.Type {
	case TypeInput:
		*in = msg.PlayerInput()
	case TypeFire:
		ctl.Fire(unvec(msg.Direction), msg.Held())
	case TypeReset:
		ctl.Reset()
	case TypeRefill:
		ctl.Refill(msg.Ammo)
	}
}

// DrainCommands dispatches every queued command without blocking.
func DrainCommands(ctl Controls, commands <-chan Command, in *player.Input) int {
	n := 0
	for {
		select {
		case cmd := <-commands:
			Dispatch(ctl, cmd, in)
			n++
		default:
			return n
		}
	}
}
