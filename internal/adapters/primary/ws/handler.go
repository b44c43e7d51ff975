// Package ws is the live transport layer: it owns the websocket lifecycle
// and feeds connect/disconnect events into the presence registry.
package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/swathi-reddy30/pulse-app/internal/core/ports"
)

type Handler struct {
	identity ports.IdentityService
	registry ports.PresenceRegistry
	upgrader websocket.Upgrader
}

func NewHandler(identity ports.IdentityService, registry ports.PresenceRegistry, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &Handler{
		identity: identity,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

// ServeHTTP authenticates the handshake token, upgrades, and registers the
// connection. Unregistration happens the moment the read pump returns, so a
// dead channel never lingers in the registry.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	userID, err := h.identity.ValidateToken(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		slog.Warn("⚠️ WebSocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	conn := newConn(userID, wsConn)
	h.registry.Register(userID, conn)
	slog.Info("🔌 User connected", "user_id", userID, "connection", conn.ID())

	go conn.writePump()
	go func() {
		conn.readPump()
		h.registry.Unregister(userID, conn)
		slog.Info("🔌 User disconnected", "user_id", userID, "connection", conn.ID())
	}()
}
