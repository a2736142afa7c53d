package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/raqtkosh/backend/internal/service"
)

type ProfileHandler struct {
	svc service.ProfileService
}

func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Sync upserts the caller from the claims of their ID token.
func (h *ProfileHandler) Sync(c echo.Context) error {
	uid := uidOf(c)
	if uid == "" {
		return unauthorized(c)
	}
	email, _ := c.Get("email").(string)
	name, _ := c.Get("name").(string)
	phone, _ := c.Get("phone").(string)
	first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
	u, err := h.svc.Sync(c.Request().Context(), service.Identity{
		UID:         uid,
		Email:       email,
		FirstName:   first,
		LastName:    strings.TrimSpace(last),
		PhoneNumber: phone,
	}, false)
	if err != nil {
		return respondError(c, err, "failed to sync user")
	}
	return c.JSON(http.StatusOK, u)
}

func (h *ProfileHandler) Get(c echo.Context) error {
	u, err := h.svc.Get(c.Request().Context(), uidOf(c))
	if err != nil {
		return respondError(c, err, "failed to fetch profile")
	}
	return c.JSON(http.StatusOK, u)
}

func (h *ProfileHandler) Update(c echo.Context) error {
	var req service.ProfileUpdate
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	u, err := h.svc.Update(c.Request().Context(), uidOf(c), req)
	if err != nil {
		return respondError(c, err, "failed to update profile")
	}
	return c.JSON(http.StatusOK, u)
}

func (h *ProfileHandler) Eligibility(c echo.Context) error {
	el, err := h.svc.Eligibility(c.Request().Context(), uidOf(c))
	if err != nil {
		return respondError(c, err, "failed to compute eligibility")
	}
	return c.JSON(http.StatusOK, el)
}

func (h *ProfileHandler) ListUsers(c echo.Context) error {
	limit, offset := pageParams(c)
	list, total, err := h.svc.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		return respondError(c, err, "failed to fetch users")
	}
	return c.JSON(http.StatusOK, newList(list, total))
}

// Feedbacks is public; it backs the landing page testimonials.
func (h *ProfileHandler) Feedbacks(c echo.Context) error {
	list, err := h.svc.Feedbacks(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Failed to fetch feedbacks")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"feedbacks": list})
}
