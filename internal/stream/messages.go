package stream

import (
	"errors"
	"fmt"
	"time"

	"arena3d/internal/engine"
	"arena3d/internal/player"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/vmihailenco/msgpack/v5"
)

// Message types on the wire.
const (
	TypeFrame          = "frame"
	TypeTargetHit      = "targetHit"
	TypeRespawn        = "respawn"
	TypeGeometryFailed = "geometryFailed"

	TypeInput  = "input"
	TypeFire   = "fire"
	TypeReset  = "reset"
	TypeRefill = "refill"
)

var ErrUnknownMessage = errors.New("unknown message type")

type SphereState struct {
	Index  int        `msgpack:"i"`
	Center [3]float32 `msgpack:"c"`
}

// Frame is the wire form of a tick snapshot. Parked spheres are left out.
type Frame struct {
	Type     string        `msgpack:"type"`
	Tick     uint64        `msgpack:"tick"`
	Eye      [3]float32    `msgpack:"eye"`
	Velocity [3]float32    `msgpack:"vel"`
	OnFloor  bool          `msgpack:"floor"`
	Spheres  []SphereState `msgpack:"spheres"`
	Ammo     int           `msgpack:"ammo"`
	Hits     int           `msgpack:"hits"`
}

// Event carries the one-off notifications: target hits, respawns and asset failures.
type Event struct {
	Type     string     `msgpack:"type"`
	Target   int        `msgpack:"target"`
	Name     string     `msgpack:"name,omitempty"`
	Position [3]float32 `msgpack:"pos"`
	Hits     int        `msgpack:"hits,omitempty"`
	Error    string     `msgpack:"err,omitempty"`
}

// ClientMessage is everything a client may send. Type selects which fields matter.
type ClientMessage struct {
	Type      string     `msgpack:"type"`
	Seq       uint64     `msgpack:"seq"`
	Forward   bool       `msgpack:"fwd"`
	Backward  bool       `msgpack:"back"`
	Left      bool       `msgpack:"left"`
	Right     bool       `msgpack:"right"`
	Jump      bool       `msgpack:"jump"`
	View      [3]float32 `msgpack:"view"`
	Direction [3]float32 `msgpack:"dir"`
	HeldMs    int64      `msgpack:"heldMs"`
	Ammo      int        `msgpack:"ammo,omitempty"`
}

func vec(v rl.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

func unvec(a [3]float32) rl.Vector3 {
	return rl.Vector3{X: a[0], Y: a[1], Z: a[2]}
}

func NewFrame(s engine.Snapshot) Frame {
	f := Frame{
		Type:     TypeFrame,
		Tick:     s.Tick,
		Eye:      vec(s.Player.Eye),
		Velocity: vec(s.Player.Velocity),
		OnFloor:  s.Player.OnFloor,
		Ammo:     s.Ammo,
		Hits:     s.Hits,
	}
	for _, sphere := range s.Spheres {
		if sphere.Active {
			f.Spheres = append(f.Spheres, SphereState{Index: sphere.Index, Center: vec(sphere.Center)})
		}
	}
	return f
}

func EncodeFrame(s engine.Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(NewFrame(s))
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return data, nil
}

func EncodeEvent(e Event) ([]byte, error) {
	data, err := msgpack.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", e.Type, err)
	}
	return data, nil
}

func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := msgpack.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("decode client message: %w", err)
	}
	switch msg.Type {
	case TypeInput, TypeFire, TypeReset, TypeRefill:
		return msg, nil
	default:
		return ClientMessage{}, fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
}

func (m ClientMessage) PlayerInput() player.Input {
	return player.Input{
		Forward:  m.Forward,
		Backward: m.Backward,
		Left:     m.Left,
		Right:    m.Right,
		Jump:     m.Jump,
		View:     unvec(m.View),
	}
}

func (m ClientMessage) Held() time.Duration {
	return time.Duration(m.HeldMs) * time.Millisecond
}
