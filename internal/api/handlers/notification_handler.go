package handlers

import (
	"fin-guardian/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notifications *service.NotificationService
	logger        *zap.Logger
}

func NewNotificationHandler(notifications *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        logger,
	}
}

// ListNotifications godoc
// @Summary Pending notifications
// @Description Oldest first. Only the most recent entries per user are kept
// @Tags notifications
// @Produce json
// @Security Bearer
// @Success 200 {array} models.Notification
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	return c.JSON(h.notifications.List(userID))
}

// ClearNotifications godoc
// @Summary Clear notifications
// @Tags notifications
// @Security Bearer
// @Success 204
// @Router /api/v1/notifications [delete]
func (h *NotificationHandler) ClearNotifications(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	h.notifications.Clear(userID)
	return c.SendStatus(fiber.StatusNoContent)
}
