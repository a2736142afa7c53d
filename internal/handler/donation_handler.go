package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/service"
)

type DonationHandler struct {
	svc service.DonationService
}

func NewDonationHandler(svc service.DonationService) *DonationHandler {
	return &DonationHandler{svc: svc}
}

func (h *DonationHandler) Submit(c echo.Context) error {
	var req service.DonationInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	d, err := h.svc.Submit(c.Request().Context(), uidOf(c), req)
	if err != nil {
		return respondError(c, err, "Internal server error")
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *DonationHandler) ListMine(c echo.Context) error {
	list, err := h.svc.ListMine(c.Request().Context(), uidOf(c))
	if err != nil {
		return respondError(c, err, "failed to fetch donations")
	}
	if list == nil {
		list = []model.Donation{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *DonationHandler) ListAll(c echo.Context) error {
	limit, offset := pageParams(c)
	list, total, err := h.svc.ListAll(c.Request().Context(), limit, offset)
	if err != nil {
		return respondError(c, err, "failed to fetch donations")
	}
	return c.JSON(http.StatusOK, newList(list, total))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *DonationHandler) UpdateStatus(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	d, err := h.svc.UpdateStatus(c.Request().Context(), id, model.DonationStatus(req.Status))
	if err != nil {
		return respondError(c, err, "Failed to update donation status")
	}
	return c.JSON(http.StatusOK, d)
}
