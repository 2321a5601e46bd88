// Package notify fans post changes out to every connected websocket
// observer. Delivery is best-effort and at-most-once: observers that are not
// connected, or whose queue is full, miss the message.
package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/logging"
)

// Action names the kind of change a message reports.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Message is the wire format pushed to observers. Post is the full post for
// create and update and the post id for delete.
type Message struct {
	Channel string `json:"channel"`
	Action  Action `json:"action"`
	Post    any    `json:"post"`
}

const (
	defaultQueueSize    = 16
	defaultPingInterval = 30 * time.Second
	defaultReadTimeout  = 60 * time.Second
	writeTimeout        = 10 * time.Second
	maxInboundMessage   = 512
)

type observer struct {
	send chan []byte
}

type Hub struct {
	mu        sync.RWMutex
	observers map[*observer]struct{}
	closed    bool

	logger       logging.Logger
	upgrader     websocket.Upgrader
	queueSize    int
	pingInterval time.Duration
	readTimeout  time.Duration
}

type Option func(*Hub)

// WithQueueSize bounds how many undelivered messages an observer may have.
func WithQueueSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.queueSize = n
		}
	}
}

// WithKeepalive overrides the ping interval and the read deadline.
func WithKeepalive(ping, read time.Duration) Option {
	return func(h *Hub) {
		h.pingInterval, h.readTimeout = ping, read
	}
}

func NewHub(logger logging.Logger, opts ...Option) *Hub {
	h := &Hub{
		observers:    make(map[*observer]struct{}),
		logger:       logger,
		queueSize:    defaultQueueSize,
		pingInterval: defaultPingInterval,
		readTimeout:  defaultReadTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *Hub) register() *observer {
	o := &observer{send: make(chan []byte, h.queueSize)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(o.send)
		return o
	}
	h.observers[o] = struct{}{}
	return o
}

func (h *Hub) unregister(o *observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.observers[o]; ok {
		delete(h.observers, o)
		close(o.send)
	}
}

// Observers returns the number of connected observers.
func (h *Hub) Observers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers)
}

// Broadcast queues msg for every observer without blocking.
func (h *Hub) Broadcast(msg Message) error {
	if msg.Channel == "" {
		msg.Channel = common.PostsChannel
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for o := range h.observers {
		select {
		case o.send <- payload:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn(context.Background(), "observer queue full, message dropped",
			"action", string(msg.Action), "dropped", dropped)
	}
	return nil
}

// Close disconnects every observer and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for o := range h.observers {
		delete(h.observers, o)
		close(o.send)
	}
}

// ServeWS upgrades the request and streams broadcasts to it until either
// side goes away. Anything the client sends is read and discarded.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	o := h.register()
	h.logger.Debug(r.Context(), "observer connected", "remote", r.RemoteAddr)

	go h.writeLoop(conn, o)
	h.readLoop(conn, o)
	h.logger.Debug(r.Context(), "observer disconnected", "remote", r.RemoteAddr)
}

func (h *Hub) readLoop(conn *websocket.Conn, o *observer) {
	defer func() {
		h.unregister(o)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxInboundMessage)
	_ = conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(conn *websocket.Conn, o *observer) {
	ticker := time.NewTicker(h.pingInterval)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case payload, ok := <-o.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
