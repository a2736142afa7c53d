package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/service"
)

type RequestHandler struct {
	svc      service.RequestService
	shortage service.ShortageService
}

func NewRequestHandler(svc service.RequestService, shortage service.ShortageService) *RequestHandler {
	return &RequestHandler{svc: svc, shortage: shortage}
}

func (h *RequestHandler) Create(c echo.Context) error {
	var req service.RequestInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	out, err := h.svc.Create(c.Request().Context(), uidOf(c), req)
	if err != nil {
		return respondError(c, err, "Internal server error")
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *RequestHandler) HomeDonation(c echo.Context) error {
	out, err := h.svc.RaiseHomeDonation(c.Request().Context(), uidOf(c))
	if err != nil {
		return respondError(c, err, "Failed to create home donation request")
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *RequestHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Missing request ID")
	}
	out, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Internal server error")
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RequestHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)
	list, total, err := h.svc.List(c.Request().Context(), model.RequestStatus(c.QueryParam("status")), limit, offset)
	if err != nil {
		return respondError(c, err, "failed to fetch requests")
	}
	return c.JSON(http.StatusOK, newList(list, total))
}

func (h *RequestHandler) ListMine(c echo.Context) error {
	list, err := h.svc.ListMine(c.Request().Context(), uidOf(c))
	if err != nil {
		return respondError(c, err, "failed to fetch requests")
	}
	if list == nil {
		list = []model.Request{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *RequestHandler) UpdateStatus(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Missing request ID")
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	out, err := h.svc.UpdateStatus(c.Request().Context(), uidOf(c), id, model.RequestStatus(req.Status))
	if err != nil {
		return respondError(c, err, "Internal server error")
	}
	return c.JSON(http.StatusOK, out)
}

type notifyUsersRequest struct {
	RequestID uint64 `json:"requestId"`
}

// NotifyUsers alerts eligible donors for a request when stock is short.
func (h *RequestHandler) NotifyUsers(c echo.Context) error {
	var req notifyUsersRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	if req.RequestID == 0 {
		return badRequest(c, "Missing requestId")
	}
	out, err := h.shortage.DispatchIfShort(c.Request().Context(), req.RequestID)
	if err != nil {
		return respondError(c, err, "Failed to send notifications")
	}
	return c.JSON(http.StatusOK, out)
}

type shortageAlertRequest struct {
	BloodType model.BloodType `json:"bloodType"`
}

// ShortageAlert is the admin broadcast to every eligible donor of a type.
func (h *RequestHandler) ShortageAlert(c echo.Context) error {
	var req shortageAlertRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	if req.BloodType == "" {
		return badRequest(c, "Blood type is required")
	}
	out, err := h.shortage.DispatchShortageAlert(c.Request().Context(), req.BloodType)
	if err != nil {
		return respondError(c, err, "Internal server error")
	}
	return c.JSON(http.StatusOK, out)
}
