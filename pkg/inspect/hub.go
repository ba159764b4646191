package inspect

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/reactor/pkg/cell"
	"github.com/vango-dev/reactor/pkg/reactor"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrAlreadyWatched is returned by Watch when the name is taken.
var ErrAlreadyWatched = errors.New("inspect: name already watched")

// MessageType identifies a message on the change feed.
type MessageType string

const (
	TypeSnapshot    MessageType = "snapshot"
	TypeChange      MessageType = "change"
	TypeArrayChange MessageType = "arrayChange"
	TypeEvent       MessageType = "event"
)

// Message is sent to feed clients as JSON.
type Message struct {
	Seq      uint64             `json:"seq"`
	Type     MessageType        `json:"type"`
	Object   string             `json:"object"`
	Property string             `json:"property,omitempty"`
	Value    any                `json:"value,omitempty"`
	Changes  []cell.ArrayChange `json:"changes,omitempty"`
	Args     []any              `json:"args,omitempty"`
	Client   string             `json:"client,omitempty"`
}

// Hub watches named objects and streams their changes to websocket
// clients. The reactive engine is single-threaded, so every access to
// watched objects from other goroutines must go through Do; the hub itself
// only touches them while holding the same lock.
type Hub struct {
	reactor.Disposable

	engineMu sync.Mutex

	mu      sync.RWMutex
	objects map[string]*reactor.Object
	clients map[string]*client

	upgrader websocket.Upgrader
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	seq      atomic.Uint64
}

// client is one feed connection. Messages are queued and written by the
// client's own writer goroutine, so engine callbacks never wait on a socket.
type client struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

const (
	writeTimeout = 5 * time.Second

	// sendBuffer is how many messages a client may fall behind before it is
	// dropped.
	sendBuffer = 256
)

func newClient(conn *websocket.Conn) *client {
	return &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// enqueue queues data without blocking. It reports false when the client is
// closed or its queue is full.
func (c *client) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// writeLoop writes queued messages until the client closes or a write fails.
func (c *client) writeLoop(onError func()) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				onError()
				return
			}
		}
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(h *Hub) {
		h.logger = l
	}
}

// WithAllowedOrigins accepts websocket upgrades from the given origins in
// addition to same-origin requests.
func WithAllowedOrigins(origins ...string) Option {
	return func(h *Hub) {
		allowed := make(map[string]bool, len(origins))
		for _, o := range origins {
			allowed[o] = true
		}
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin] || origin == "http://"+r.Host || origin == "https://"+r.Host
		}
	}
}

// WithGatherer serves g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(h *Hub) {
		h.gatherer = g
	}
}

// NewHub creates a hub with no watched objects.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		objects: make(map[string]*reactor.Object),
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Do runs fn while holding the engine lock. Mutate watched objects only
// from inside Do.
func (h *Hub) Do(fn func()) {
	h.engineMu.Lock()
	defer h.engineMu.Unlock()
	fn()
}

// Watch subscribes to every materialized property, derived property and
// event of obj and publishes their changes under name. Properties written
// for the first time after Watch are picked up by the object snapshot but
// do not stream.
func (h *Hub) Watch(name string, obj *reactor.Object) error {
	h.engineMu.Lock()
	defer h.engineMu.Unlock()

	h.mu.Lock()
	if _, ok := h.objects[name]; ok {
		h.mu.Unlock()
		return ErrAlreadyWatched
	}
	h.objects[name] = obj
	h.mu.Unlock()

	for _, key := range obj.Keys() {
		if err := h.watchProperty(name, obj, key); err != nil {
			return err
		}
	}
	h.logger.Debug("inspect: watching", slog.String("object", name), slog.Int("subscriptions", h.Len()))
	return nil
}

func (h *Hub) watchProperty(name string, obj *reactor.Object, key string) error {
	kind := kindOf(obj, key)

	if kind == reactor.KindEvent {
		ev, err := obj.Event(key)
		if err != nil {
			return err
		}
		h.Track(reactor.SubscribeEvent(ev, func(args ...any) {
			h.broadcast(Message{Type: TypeEvent, Object: name, Property: key, Args: snapshotAll(args)})
		}))
		return nil
	}
	if kind != reactor.KindDerived && !obj.Materialized(key) {
		return nil
	}

	dep := func() any {
		v, err := obj.Get(key)
		if err != nil {
			return nil
		}
		if a, ok := v.(*reactor.Array); ok {
			a.Len()
		}
		return v
	}
	_, err := h.Subscribe(dep, func(v any) {
		h.broadcast(Message{Type: TypeChange, Object: name, Property: key, Value: reactor.Snapshot(v)})
	})
	if err != nil {
		return err
	}

	if _, isArray := cell.Ignore(dep).(*reactor.Array); isArray {
		_, err = h.Subscribe(dep, func(changes []cell.ArrayChange) {
			out := make([]cell.ArrayChange, len(changes))
			for i, c := range changes {
				c.Value = reactor.Snapshot(c.Value)
				out[i] = c
			}
			h.broadcast(Message{Type: TypeArrayChange, Object: name, Property: key, Changes: out})
		}, reactor.OnEvent(cell.EventArrayChange))
	}
	return err
}

// kindOf returns the declared kind of key, treating record fields as
// scalars.
func kindOf(obj *reactor.Object, key string) reactor.Kind {
	if t := obj.Type(); t != nil {
		if k, ok := t.Kind(key); ok {
			return k
		}
	}
	return reactor.KindScalar
}

func snapshotAll(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = reactor.Snapshot(a)
	}
	return out
}

// Names returns the watched names in sorted order.
func (h *Hub) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.objects))
	for n := range h.objects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns the plain snapshot of the object watched under name.
func (h *Hub) Snapshot(name string) (any, bool) {
	h.mu.RLock()
	obj, ok := h.objects[name]
	h.mu.RUnlock()
	if !ok {
		return nil, false
	}

	var snap any
	h.Do(func() { snap = reactor.Snapshot(obj) })
	return snap, true
}

// Snapshots returns the snapshots of every watched object.
func (h *Hub) Snapshots() map[string]any {
	out := make(map[string]any)
	for _, name := range h.Names() {
		if snap, ok := h.Snapshot(name); ok {
			out[name] = snap
		}
	}
	return out
}

// broadcast queues msg for every client. Called from engine callbacks, so the
// engine lock is held; it never blocks on I/O.
func (h *Hub) broadcast(msg Message) {
	msg.Seq = h.seq.Add(1)
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("inspect: encode failed", slog.String("object", msg.Object), slog.Any("error", err))
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.enqueue(data) {
			h.logger.Warn("inspect: dropping slow client", slog.String("client", c.id))
			h.removeClient(c)
		}
	}
}

func (h *Hub) addClient(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.logger.Info("inspect: client connected", slog.String("client", c.id))
}

func (h *Hub) removeClient(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()

	c.close()
	if ok {
		h.logger.Info("inspect: client disconnected", slog.String("client", c.id))
	}
}

// ClientCount returns the number of connected feed clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disposes every subscription and disconnects every client.
func (h *Hub) Close() {
	h.Do(h.Dispose)

	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*client)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

// handleFeed upgrades the request and streams messages until the client
// goes away. The client first receives one snapshot message per object.
func (h *Hub) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("inspect: upgrade failed", slog.Any("error", err))
		return
	}
	c := newClient(conn)
	go c.writeLoop(func() { h.removeClient(c) })

	h.engineMu.Lock()
	for _, name := range h.Names() {
		h.mu.RLock()
		obj := h.objects[name]
		h.mu.RUnlock()

		data, err := json.Marshal(Message{
			Seq:    h.seq.Add(1),
			Type:   TypeSnapshot,
			Object: name,
			Value:  reactor.Snapshot(obj),
			Client: c.id,
		})
		if err != nil || !c.enqueue(data) {
			h.engineMu.Unlock()
			c.close()
			return
		}
	}
	h.addClient(c)
	h.engineMu.Unlock()

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.removeClient(c)
}
