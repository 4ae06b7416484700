package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/san360/gh-demo/internal/model"
)

// WebSocket configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	clientBuffer   = 16
)

// eventClient is a connected WebSocket subscriber.
type eventClient struct {
	conn   *websocket.Conn
	send   chan model.ProductEvent
	cancel context.CancelFunc
}

// EventHub pushes catalog change events to connected WebSocket clients.
// It implements service.EventPublisher; slow clients drop events rather
// than block the request path.
type EventHub struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger
	mu       sync.RWMutex
	clients  map[*websocket.Conn]*eventClient
	pumps    sync.WaitGroup
	closed   bool
}

// NewEventHub creates a new EventHub instance.
func NewEventHub(logger *zap.Logger) *EventHub {
	return &EventHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true // Allow all origins for development
			},
		},
		logger:  logger,
		clients: make(map[*websocket.Conn]*eventClient),
	}
}

// RegisterRoutes registers the WebSocket routes with the router.
func (h *EventHub) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws/events", h.HandleEvents).Methods(http.MethodGet)
}

// Publish fans a change event out to all connected clients without
// blocking the caller.
func (h *EventHub) Publish(event model.ProductEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- event:
		default:
			h.logger.Debug("dropping event for slow client",
				zap.String("remote_addr", client.conn.RemoteAddr().String()),
				zap.String("type", event.Type),
			)
		}
	}
}

// HandleEvents handles WebSocket connection requests on /ws/events.
//
//nolint:contextcheck // intentional: WebSocket connections outlive the HTTP request context
func (h *EventHub) HandleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}

	// Use background context instead of request context because the HTTP
	// request context gets canceled when the handler returns, but the
	// connection needs to persist beyond the upgrade.
	ctx, cancel := context.WithCancel(context.Background())

	client := &eventClient{
		conn:   conn,
		send:   make(chan model.ProductEvent, clientBuffer),
		cancel: cancel,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		cancel()
		_ = conn.Close()
		return
	}
	h.clients[conn] = client
	h.pumps.Add(1)
	h.mu.Unlock()

	h.logger.Info("events client connected",
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)

	go h.writePump(ctx, client)
	go h.readPump(ctx, client)
}

// readPump discards incoming messages and keeps the read deadline fresh
// via pong handling.
func (h *EventHub) readPump(ctx context.Context, client *eventClient) {
	conn := client.conn

	defer func() {
		client.cancel()
		h.removeClient(conn)
		if err := conn.Close(); err != nil {
			h.logger.Debug("error closing connection", zap.Error(err))
		}
	}()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		h.logger.Error("failed to set read deadline", zap.Error(err))
		return
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.logger.Warn("websocket read error", zap.Error(err))
				}
				return
			}
		}
	}
}

// writePump forwards published events to the connection and keeps it
// alive with periodic pings.
func (h *EventHub) writePump(ctx context.Context, client *eventClient) {
	defer h.pumps.Done()

	conn := client.conn
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.sendCloseMessage(conn)
			return
		case event := <-client.send:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Debug("failed to send event", zap.Error(err))
				return
			}
		case <-pingTicker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.logger.Debug("failed to send ping", zap.Error(err))
				return
			}
		}
	}
}

// sendCloseMessage sends a close message to the connection.
func (h *EventHub) sendCloseMessage(conn *websocket.Conn) {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		h.logger.Debug("failed to set write deadline for close", zap.Error(err))
		return
	}

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "server shutting down")
	if err := conn.WriteMessage(websocket.CloseMessage, closeMsg); err != nil {
		h.logger.Debug("failed to send close message", zap.Error(err))
	}
}

// removeClient removes a client from the clients map.
func (h *EventHub) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, exists := h.clients[conn]; exists {
		client.cancel()
		delete(h.clients, conn)
		h.logger.Info("events client disconnected",
			zap.String("remote_addr", conn.RemoteAddr().String()),
		)
	}
}

// CloseAllConnections closes all active WebSocket connections. New
// clients are refused once it has been called.
func (h *EventHub) CloseAllConnections() {
	h.mu.Lock()
	h.closed = true
	// Copy the clients map to avoid holding the lock while closing
	clients := make(map[*websocket.Conn]*eventClient, len(h.clients))
	for conn, client := range h.clients {
		clients[conn] = client
	}
	h.mu.Unlock()

	// Cancel all contexts first - this triggers writePump to send close
	// messages
	for _, client := range clients {
		client.cancel()
	}

	// Wait for every writePump to flush its close message
	h.pumps.Wait()

	h.mu.Lock()
	for conn := range h.clients {
		if err := conn.Close(); err != nil {
			h.logger.Debug("error closing connection", zap.Error(err))
		}
		delete(h.clients, conn)
	}
	h.mu.Unlock()

	h.logger.Info("all websocket connections closed")
}
