// Package stream pushes session output to browser renderers over
// websockets.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SeamusWaldron/smartcube"
)

const writeWait = 2 * time.Second

// Frame is one websocket text message.
type Frame struct {
	Type        string                `json:"type"` // "state" or "orientation"
	Facelets    string                `json:"facelets,omitempty"`
	State       *smartcube.State      `json:"state,omitempty"`
	Solved      bool                  `json:"solved,omitempty"`
	Orientation *smartcube.Quaternion `json:"orientation,omitempty"`
	Timestamp   int64                 `json:"timestamp"`
}

// Hub is an http.Handler that upgrades requests to websockets and
// broadcasts every published frame to all clients. New clients first get
// the latest state and orientation.
//
// Hub implements smartcube.StateSink and smartcube.OrientationSink.
type Hub struct {
	upgrader websocket.Upgrader
	log      *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	latest  map[string][]byte
}

// NewHub creates a hub with no clients.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log:     log,
		now:     time.Now,
		clients: make(map[*websocket.Conn]bool),
		latest:  make(map[string][]byte),
	}
}

// PublishState broadcasts a state frame.
func (h *Hub) PublishState(_ context.Context, facelets string, s smartcube.State) error {
	return h.broadcast(Frame{
		Type:      "state",
		Facelets:  facelets,
		State:     &s,
		Solved:    s.IsSolved(),
		Timestamp: h.now().UnixMilli(),
	})
}

// PublishOrientation broadcasts an orientation frame.
func (h *Hub) PublishOrientation(_ context.Context, q smartcube.Quaternion) error {
	return h.broadcast(Frame{
		Type:        "orientation",
		Orientation: &q,
		Timestamp:   h.now().UnixMilli(),
	})
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcast(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling %s frame: %w", f.Type, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest[f.Type] = data
	for conn := range h.clients {
		if err := write(conn, data); err != nil {
			h.log.Debug("dropping websocket client", "remote", conn.RemoteAddr(), "err", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
	return nil
}

func write(conn *websocket.Conn, data []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// ServeHTTP handles one websocket client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}

	h.mu.Lock()
	for _, kind := range []string{"state", "orientation"} {
		if data, ok := h.latest[kind]; ok {
			if err := write(conn, data); err != nil {
				h.mu.Unlock()
				conn.Close()
				return
			}
		}
	}
	h.clients[conn] = true
	h.mu.Unlock()
	h.log.Info("websocket client connected", "remote", conn.RemoteAddr())

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
		h.log.Info("websocket client disconnected", "remote", conn.RemoteAddr())
	}()

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

// Serve runs an HTTP server with the hub at /ws until ctx is done.
func Serve(ctx context.Context, addr string, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		h.log.Info("websocket server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
