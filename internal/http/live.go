package http

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	applog "gestor/internal/log"
	"gestor/internal/session"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
)

// liveMessage is pushed to dashboards when their tracker changed.
type liveMessage struct {
	Type   string `json:"type"`
	Period string `json:"period"`
}

const liveAggregatesChanged = "aggregates:changed"

// LiveHub tracks the open dashboard sockets so they can be counted and closed
// on shutdown.
type LiveHub struct {
	upgrader websocket.Upgrader
	logger   *applog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]string
	closed  bool
}

func NewLiveHub(logger *applog.Logger) *LiveHub {
	return &LiveHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:  logger.WithComponent(applog.ComponentLive),
		clients: make(map[*websocket.Conn]string),
	}
}

func (h *LiveHub) register(conn *websocket.Conn, sessionID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[conn] = sessionID
	h.logger.Debug("Live client connected",
		applog.FieldSessionID, sessionID,
		"clients", len(h.clients))
	return true
}

func (h *LiveHub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	sessionID, ok := h.clients[conn]
	delete(h.clients, conn)
	remaining := len(h.clients)
	h.mu.Unlock()

	if ok {
		_ = conn.Close()
		h.logger.Debug("Live client disconnected",
			applog.FieldSessionID, sessionID,
			"clients", remaining)
	}
}

// Count returns the number of open sockets.
func (h *LiveHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll sends a close frame to every socket and refuses new ones.
func (h *LiveHub) CloseAll() {
	h.mu.Lock()
	h.closed = true
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, c := range conns {
		_ = c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(liveWriteWait))
		h.unregister(c)
	}
}

// Serve upgrades the request and forwards the session tracker's change
// signals until either side goes away.
func (h *LiveHub) Serve(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to upgrade to WebSocket",
			applog.FieldError, err,
			applog.FieldSessionID, sess.ID)
		return
	}
	changes, unsubscribe := sess.Tracker.Subscribe()
	defer unsubscribe()

	if !h.register(conn, sess.ID) {
		_ = conn.Close()
		return
	}
	defer h.unregister(conn)

	done := make(chan struct{})
	go h.readPump(conn, done)

	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()

	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
			payload, err := json.Marshal(liveMessage{Type: liveAggregatesChanged, Period: string(sess.Tracker.Period())})
			if err != nil {
				h.logger.Error("Failed to marshal live message", applog.FieldError, err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// readPump discards client messages and keeps the read deadline alive on
// pongs. done is closed when the peer disconnects.
func (h *LiveHub) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(r)
	if !ok {
		http.Error(w, "not signed in", http.StatusUnauthorized)
		return
	}
	s.live.Serve(w, r, sess)
}
