package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/raqtkosh/backend/internal/service"
)

type DashboardHandler struct {
	svc service.DashboardService
}

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Get(c echo.Context) error {
	out, err := h.svc.Get(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Failed to fetch dashboard data")
	}
	return c.JSON(http.StatusOK, out)
}
