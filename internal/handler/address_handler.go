package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/service"
)

type AddressHandler struct {
	svc service.AddressService
}

func NewAddressHandler(svc service.AddressService) *AddressHandler {
	return &AddressHandler{svc: svc}
}

func (h *AddressHandler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context(), uidOf(c))
	if err != nil {
		return respondError(c, err, "Failed to fetch addresses")
	}
	if list == nil {
		list = []model.Address{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"addresses": list})
}

func (h *AddressHandler) Create(c echo.Context) error {
	var req service.AddressInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	out, err := h.svc.Create(c.Request().Context(), uidOf(c), req)
	if err != nil {
		return respondError(c, err, "Failed to create address")
	}
	return c.JSON(http.StatusCreated, out)
}
