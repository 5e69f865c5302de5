package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dkrasnov/markethub/backend/internal/middleware"
	"github.com/dkrasnov/markethub/backend/internal/repositories"
)

// NotificationHandler handles HTTP requests for the caller's
// notification feed. Every route is scoped to the authenticated user.
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notificationRepo}
}

// RegisterProtectedRoutes registers the notification routes.
func (h *NotificationHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.GET("/notifications", h.ListNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// ListNotifications returns a cursor-mode page of the caller's
// notifications, newest first.
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	params := cursorParamsFromQuery(c)

	notifications, nextCursor, err := h.notificationRepository.ListByRecipient(middleware.UserID(c), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"notifications": notifications},
		"meta": echo.Map{
			"nextCursor": nextCursor,
			"limit":      params.Limit,
		},
	})
}

// GetUnreadCount returns the caller's unread notification count.
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notificationRepository.GetUnreadCount(middleware.UserID(c))
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, echo.Map{"unread_count": count})
}

// MarkAsRead flips one of the caller's notifications to read. Repeating
// the call succeeds without effect.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.notificationRepository.MarkAsRead(id, middleware.UserID(c)); err != nil {
		return err
	}
	return Message(c, http.StatusOK, "Notification marked as read")
}

// MarkAllAsRead flips every unread notification of the caller.
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	updated, err := h.notificationRepository.MarkAllAsRead(middleware.UserID(c))
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, echo.Map{"updated": updated})
}
