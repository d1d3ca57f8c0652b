package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Versifine/coinrun/internal/game"
)

const (
	DefaultInterval = 100 * time.Millisecond
	Path            = "/ws"

	sendBuffer   = 16
	writeTimeout = 2 * time.Second
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub streams game snapshots to websocket viewers. Publish is called from the
// game loop and never blocks on a slow client; a client whose buffer is full
// is dropped.
type Hub struct {
	addr     string
	interval time.Duration
	upgrader websocket.Upgrader
	now      func() time.Time

	mu       sync.RWMutex
	clients  map[*client]struct{}
	lastSent time.Time
}

func NewHub(addr string, interval time.Duration) *Hub {
	if interval < 0 {
		interval = 0
	}
	return &Hub{
		addr:     addr,
		interval: interval,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		now:     time.Now,
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish implements game.SnapshotSink.
func (h *Hub) Publish(snap game.Snapshot) {
	h.mu.Lock()
	now := h.now()
	if len(h.clients) == 0 || (!h.lastSent.IsZero() && now.Sub(h.lastSent) < h.interval) {
		h.mu.Unlock()
		return
	}
	h.lastSent = now
	h.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		slog.Warn("Telemetry snapshot encode failed", "error", err)
		return
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		slog.Warn("Telemetry client too slow, dropping", "remote", c.conn.RemoteAddr())
		h.remove(c)
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Telemetry upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	slog.Info("Telemetry client connected", "remote", conn.RemoteAddr())

	go h.writeLoop(c)
	h.readLoop(c)
}

// writeLoop is the only writer on the connection.
func (h *Hub) writeLoop(c *client) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Debug("Telemetry write failed", "remote", c.conn.RemoteAddr(), "error", err)
			h.remove(c)
			return
		}
	}
}

// readLoop drains control frames until the viewer goes away.
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()

	_ = c.conn.Close()
	slog.Info("Telemetry client disconnected", "remote", c.conn.RemoteAddr())
}

// Start serves the hub at Path until ctx is cancelled.
func (h *Hub) Start(ctx context.Context) error {
	slog.Info("Starting telemetry hub", "addr", h.addr, "path", Path)
	listener, err := net.Listen("tcp", h.addr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle(Path, h)
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down telemetry hub")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		h.closeAll()
	}()

	err = server.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		slog.Info("Telemetry hub stopped")
		return nil
	}
	return err
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		h.remove(c)
	}
}
