package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/dkrasnov/markethub/backend/internal/apperrors"
	"github.com/dkrasnov/markethub/backend/internal/token"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler authenticates and upgrades live-channel connections.
type Handler struct {
	hub    *Hub
	tokens *token.Service
}

// NewHandler creates a new ws Handler.
func NewHandler(hub *Hub, tokens *token.Service) *Handler {
	return &Handler{hub: hub, tokens: tokens}
}

// RegisterRoutes registers the live-channel endpoint.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Connect)
}

// Connect authenticates the bearer-style token from the query string,
// upgrades the connection and places it into the user's room.
func (h *Handler) Connect(c echo.Context) error {
	raw := c.QueryParam("token")
	if raw == "" {
		return apperrors.ErrUnauthorized
	}
	userID, err := h.tokens.VerifyAccess(raw)
	if err != nil {
		return apperrors.ErrUnauthorized
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "user_id", userID, "error", err)
		return nil // Upgrade already wrote the handshake error
	}

	client := newClient(h.hub, conn, userID)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
	return nil
}
