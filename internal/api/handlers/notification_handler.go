package handlers

import (
	"net/http"

	"silent-auction/internal/services"
	"silent-auction/pkg/logger"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct {
	notifications *services.NotificationService
	log           logger.Logger
}

func NewNotificationHandler(notifications *services.NotificationService, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		log:           log,
	}
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(c echo.Context) error {
	caller, ok := requireCaller(c)
	if !ok {
		return nil
	}

	notifications, err := h.notifications.ListForUser(c.Request().Context(), caller)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, notifications)
}

// MarkRead handles PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	caller, ok := requireCaller(c)
	if !ok {
		return nil
	}

	if err := h.notifications.MarkRead(c.Request().Context(), c.Param("id"), caller); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "notification marked as read"})
}
