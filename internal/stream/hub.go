package stream

import (
	"net/http"
	"sync"
	"time"

	"arena3d/internal/engine"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait       = 5 * time.Second
	defaultSendSize = 32
	defaultCmdSize  = 256
)

// Command is a decoded client message tagged with its sender.
type Command struct {
	Client  uint64
	Message ClientMessage
}

type HubConfig struct {
	Logger *log.Logger
	// SendBuffer is the number of outgoing messages queued per client before frames
	// start being dropped for it.
	SendBuffer int
	// CommandBuffer is the capacity of the Commands channel.
	CommandBuffer int
}

// Hub fans simulation output out to websocket clients and collects their input. The
// simulation goroutine only ever calls Broadcast and drains Commands.
type Hub struct {
	upgrader   websocket.Upgrader
	logger     *log.Logger
	sendBuffer int
	commands   chan Command

	mu      sync.RWMutex
	clients map[uint64]*client
	nextID  uint64
	closed  bool
}

type client struct {
	id   uint64
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

func NewHub(cfg HubConfig) *Hub {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default().WithPrefix("stream")
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaultSendSize
	}
	if cfg.CommandBuffer <= 0 {
		cfg.CommandBuffer = defaultCmdSize
	}

	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:     logger,
		sendBuffer: cfg.SendBuffer,
		commands:   make(chan Command, cfg.CommandBuffer),
		clients:    make(map[uint64]*client),
	}
}

// Commands delivers client input in arrival order.
func (h *Hub) Commands() <-chan Command {
	return h.commands
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c, ok := h.register(conn)
	if !ok {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	h.logger.Info("client connected", "client", c.id, "remote", r.RemoteAddr)

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) register(conn *websocket.Conn) (*client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	h.nextID++
	c := &client{id: h.nextID, conn: conn, send: make(chan []byte, h.sendBuffer)}
	h.clients[c.id] = c
	return c, true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
	}
	h.mu.Unlock()
	c.close()
}

func (h *Hub) readLoop(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		h.logger.Info("client disconnected", "client", c.id)
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := DecodeClientMessage(payload)
		if err != nil {
			h.logger.Debug("discarding malformed message", "client", c.id, "err", err)
			continue
		}

		select {
		case h.commands <- Command{Client: c.id, Message: msg}:
		default:
			h.logger.Warn("command queue full, dropping input", "client", c.id, "type", msg.Type)
		}
	}
}

// writeLoop is the only goroutine that writes to the connection.
func (h *Hub) writeLoop(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			h.logger.Debug("write failed", "client", c.id, "err", err)
			c.conn.Close()
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}

// Broadcast queues data for every client. It never blocks: a client whose queue is full
// misses this message.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Debug("client lagging, message dropped", "client", c.id)
		}
	}
}

// Attach publishes frames and notable events from the simulation's event bus. The returned
// func detaches the hub again; call it on the simulation goroutine.
func (h *Hub) Attach(events *engine.Events) (detach func()) {
	frame := events.Frame.AddListener(func(s engine.Snapshot) {
		if h.ClientCount() == 0 {
			return
		}
		h.send(EncodeFrame(s))
	})
	hit := events.TargetHit.AddListener(func(e engine.TargetHitEvent) {
		h.send(EncodeEvent(Event{
			Type:     TypeTargetHit,
			Target:   e.ID,
			Name:     e.Name,
			Position: vec(e.Placement.Position),
			Hits:     e.Hits,
		}))
	})
	respawn := events.Respawned.AddListener(func(p engine.PlayerTransform) {
		h.send(EncodeEvent(Event{Type: TypeRespawn, Target: -1, Position: vec(p.Eye)}))
	})
	failed := events.GeometryFailed.AddListener(func(f engine.GeometryFailure) {
		h.send(EncodeEvent(Event{Type: TypeGeometryFailed, Target: f.Target, Name: f.Variant, Error: errorText(f.Err)}))
	})

	return func() {
		events.Frame.RemoveListener(frame)
		events.TargetHit.RemoveListener(hit)
		events.Respawned.RemoveListener(respawn)
		events.GeometryFailed.RemoveListener(failed)
	}
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func (h *Hub) send(data []byte, err error) {
	if err != nil {
		h.logger.Error("encode failed", "err", err)
		return
	}
	h.Broadcast(data)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[uint64]*client)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}
