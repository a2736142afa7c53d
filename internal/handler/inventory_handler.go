package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/service"
)

type InventoryHandler struct {
	svc service.InventoryService
}

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Failed to fetch inventory")
	}
	if list == nil {
		list = []model.BloodInventory{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *InventoryHandler) AddStock(c echo.Context) error {
	var req service.StockInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	inv, err := h.svc.AddStock(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "Failed to update inventory")
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *InventoryHandler) Centers(c echo.Context) error {
	list, err := h.svc.Centers(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Failed to fetch centers")
	}
	if list == nil {
		list = []model.DonationCenter{}
	}
	return c.JSON(http.StatusOK, list)
}
