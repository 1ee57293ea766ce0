package webchat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/net/websocket"

	"github.com/captureclient/demo-engine/internal/demo"
	"github.com/captureclient/demo-engine/pkg/logging"
)

// Handler manages demo widget connections and relays engine state updates.
type Handler struct {
	registry *demo.Registry
	logger   *logging.Logger
	widgetJS []byte

	mu       sync.RWMutex
	sessions map[string]*wsConn // sessionID -> active connection
}

// wsConn serializes writes: engine callbacks and the read loop both push
// frames to the same socket.
type wsConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsConn) send(msg OutboundMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return websocket.JSON.Send(c.conn, msg)
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type         string `json:"type"` // "message", "reset", "business_type", "ping"
	SessionID    string `json:"session_id"`
	BusinessType string `json:"business_type"`
	Text         string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string         `json:"type"` // "session", "state", "pong"
	SessionID string         `json:"session_id,omitempty"`
	State     *demo.Snapshot `json:"state,omitempty"`
}

// NewHandler creates a demo chat handler. AttachRegistry must be called
// before the handler serves traffic.
func NewHandler(widgetJS []byte, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		logger:   logger,
		widgetJS: widgetJS,
		sessions: make(map[string]*wsConn),
	}
}

// AttachRegistry wires the session registry. Separate from the constructor
// because engine factories push updates back through this handler.
func (h *Handler) AttachRegistry(registry *demo.Registry) {
	h.registry = registry
}

// PushState relays an engine snapshot to the session's active WebSocket, if
// any. Safe to call from engine goroutines.
func (h *Handler) PushState(s demo.Snapshot) {
	h.mu.RLock()
	wsc, ok := h.sessions[s.SessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	snapshot := s
	if err := wsc.send(OutboundMessage{Type: "state", State: &snapshot}); err != nil {
		h.logger.Debug("webchat: state push failed", "session_id", s.SessionID, "error", err)
	}
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	bt := demo.ParseBusinessType(r.URL.Query().Get("business"))
	engine, sessionID := h.registry.Get(r.URL.Query().Get("session"), bt)

	wsc := &wsConn{conn: conn}
	h.mu.Lock()
	h.sessions[sessionID] = wsc
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		if h.sessions[sessionID] == wsc {
			delete(h.sessions, sessionID)
		}
		h.mu.Unlock()
	}()

	_ = wsc.send(OutboundMessage{Type: "session", SessionID: sessionID})

	// Catch the widget up before the first engine event arrives.
	state := engine.Snapshot()
	_ = wsc.send(OutboundMessage{Type: "state", State: &state})

	h.logger.Info("webchat: connection opened", "session_id", sessionID, "business_type", bt)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		switch msg.Type {
		case "ping":
			_ = wsc.send(OutboundMessage{Type: "pong"})
		case "reset":
			engine.ResetDemo()
		case "business_type":
			engine.SetBusinessType(demo.ParseBusinessType(msg.BusinessType))
		case "message":
			if strings.TrimSpace(msg.Text) == "" {
				continue
			}
			engine.SendMessage(context.Background(), msg.Text)
		}
	}
}

// HandleMessage is the HTTP fallback for sending messages.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID    string `json:"session_id"`
		BusinessType string `json:"business_type"`
		Text         string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	engine, sessionID := h.registry.Get(req.SessionID, demo.ParseBusinessType(req.BusinessType))
	accepted := engine.SendMessage(context.Background(), req.Text)

	status := "accepted"
	if !accepted {
		// A turn is already in flight; the engine drops the input.
		status = "rejected"
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":     status,
		"session_id": sessionID,
	})
}

// HandleReset restores a session to its initial state.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	engine, ok := h.registry.Lookup(req.SessionID)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	engine.ResetDemo()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "reset"})
}

// HandleState returns the current snapshot for a session.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	engine, ok := h.registry.Lookup(sessionID)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(engine.Snapshot())
}

// HandleWidgetJS serves the embeddable widget JavaScript.
func (h *Handler) HandleWidgetJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_, _ = w.Write(h.widgetJS)
}
