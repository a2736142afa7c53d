package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/service"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(c echo.Context) error {
	uid := uidOf(c)
	if uid == "" {
		return unauthorized(c)
	}
	unreadOnly := c.QueryParam("unread_only") != "false"
	limit := 20
	if lStr := c.QueryParam("limit"); lStr != "" {
		if lParsed, err := strconv.Atoi(lStr); err == nil && lParsed > 0 {
			limit = lParsed
		}
	}
	list, unreadCount, err := h.svc.List(c.Request().Context(), uid, unreadOnly, limit)
	if err != nil {
		return respondError(c, err, "failed to fetch notifications")
	}
	if list == nil {
		list = []model.Notification{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": list,
		"unreadCount":   unreadCount,
	})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	uid := uidOf(c)
	if uid == "" {
		return unauthorized(c)
	}
	n, err := h.svc.MarkAllRead(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, err, "failed to mark read")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"status": "ok", "updated": n})
}
