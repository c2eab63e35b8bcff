package handler

import (
	"github.com/gin-gonic/gin"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/service"
	"campus-events/backend/pkg/response"
)

// NotificationHandler in-app notifications.
type NotificationHandler struct {
	notifySvc service.NotificationService
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(notifySvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifySvc: notifySvc}
}

// Fetch returns the latest notifications and marks them read.
// GET /api/v1/notifications
func (h *NotificationHandler) Fetch(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	list, err := h.notifySvc.Fetch(c.Request.Context(), p)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, list)
}

// Unread GET /api/v1/notifications/unread
func (h *NotificationHandler) Unread(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	n, err := h.notifySvc.UnreadCount(c.Request.Context(), p)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, dto.UnreadCountResponse{Unread: n})
}
