package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	models "pagemill/internal/domain/models/conversion"
)

// WebSocketManager fans job updates out to connected console clients so
// they see status changes without polling the HTTP API.
type WebSocketManager struct {
	clients    map[string]*websocket.Conn
	broadcast  chan []byte
	register   chan wsClient
	unregister chan string
	logger     *slog.Logger
	mu         sync.Mutex
}

type wsClient struct {
	id   string
	conn *websocket.Conn
}

// NewWebSocketManager creates a new WebSocket manager
func NewWebSocketManager(logger *slog.Logger) *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]*websocket.Conn),
		broadcast:  make(chan []byte, 64),
		register:   make(chan wsClient),
		unregister: make(chan string),
		logger:     logger,
	}
}

// Start begins the broadcast loop
func (m *WebSocketManager) Start() {
	go func() {
		for {
			select {
			case client := <-m.register:
				m.mu.Lock()
				m.clients[client.id] = client.conn
				total := len(m.clients)
				m.mu.Unlock()
				m.logger.Debug("websocket client connected", "client_id", client.id, "total", total)
			case id := <-m.unregister:
				m.mu.Lock()
				if conn, ok := m.clients[id]; ok {
					delete(m.clients, id)
					conn.Close()
				}
				total := len(m.clients)
				m.mu.Unlock()
				m.logger.Debug("websocket client disconnected", "client_id", id, "total", total)
			case message := <-m.broadcast:
				m.mu.Lock()
				for id, conn := range m.clients {
					if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
						m.logger.Warn("websocket write failed", "client_id", id, "error", err)
						conn.Close()
						delete(m.clients, id)
					}
				}
				m.mu.Unlock()
			}
		}
	}()
}

// BroadcastJobUpdate sends a job update to all connected clients. It is the
// registry's update listener and must not block the caller: when the
// broadcast buffer is full the update is dropped - the next poll produces a
// fresh one.
func (m *WebSocketManager) BroadcastJobUpdate(job models.Job) {
	payload, err := json.Marshal(map[string]interface{}{
		"type": "job_update",
		"job":  job,
	})
	if err != nil {
		m.logger.Error("failed to marshal job update", "job_id", job.ID, "error", err)
		return
	}

	select {
	case m.broadcast <- payload:
	default:
		m.logger.Warn("job update dropped, broadcast buffer full", "job_id", job.ID)
	}
}

// WebSocketHandler upgrades console connections for live job updates
type WebSocketHandler struct {
	manager  *WebSocketManager
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(manager *WebSocketManager, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS for the socket itself is enforced by the surrounding
			// middleware chain; the upgrader accepts any origin here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Serve upgrades the connection and keeps it registered until it closes
// GET /api/ws
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.New().String()
	h.manager.register <- wsClient{id: id, conn: conn}

	// Drain reads to detect disconnects; the console never sends data.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.manager.unregister <- id
				return
			}
		}
	}()
}
