package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/service"
)

type ReferralHandler struct {
	svc service.ReferralService
}

func NewReferralHandler(svc service.ReferralService) *ReferralHandler {
	return &ReferralHandler{svc: svc}
}

func (h *ReferralHandler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context(), uidOf(c))
	if err != nil {
		return respondError(c, err, "Internal Server Error")
	}
	if list == nil {
		list = []model.Referral{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ReferralHandler) Create(c echo.Context) error {
	var req service.ReferralInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	ref, err := h.svc.Create(c.Request().Context(), uidOf(c), req)
	if err != nil {
		return respondError(c, err, "Internal Server Error")
	}
	return c.JSON(http.StatusCreated, ref)
}

func (h *ReferralHandler) Complete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	ref, err := h.svc.Complete(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Internal Server Error")
	}
	return c.JSON(http.StatusOK, ref)
}
