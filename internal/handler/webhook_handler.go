package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/raqtkosh/backend/internal/identity"
	"github.com/raqtkosh/backend/internal/reqctx"
	"github.com/raqtkosh/backend/internal/service"
)

// maxWebhookBody bounds identity deliveries.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	verifier *identity.Verifier
	profiles service.ProfileService
}

func NewWebhookHandler(verifier *identity.Verifier, profiles service.ProfileService) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, profiles: profiles}
}

func (h *WebhookHandler) Identity(c echo.Context) error {
	ctx := c.Request().Context()
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return badRequest(c, "failed to read body")
	}
	if err := h.verifier.Verify(c.Request().Header, body); err != nil {
		log.Printf("[webhook] rid=%s verify err=%v", reqctx.RID(ctx), err)
		if errors.Is(err, identity.ErrMissingHeaders) {
			return badRequest(c, "Missing Svix headers")
		}
		return badRequest(c, "Invalid signature")
	}
	ev, err := identity.ParseEvent(body)
	if err != nil {
		return badRequest(c, "invalid payload")
	}

	switch ev.Type {
	case identity.EventUserCreated, identity.EventUserUpdated:
		email := ev.Data.PrimaryEmail()
		if email == "" {
			return badRequest(c, "Missing email")
		}
		_, err := h.profiles.Sync(ctx, service.Identity{
			ExternalID:  ev.Data.ID,
			Email:       email,
			FirstName:   ev.Data.FirstName,
			LastName:    ev.Data.LastName,
			PhoneNumber: ev.Data.PrimaryPhone(),
		}, ev.Type == identity.EventUserCreated)
		if err != nil {
			return respondError(c, err, "failed to sync user")
		}
	case identity.EventUserDeleted:
		err := h.profiles.Delete(ctx, ev.Data.ID)
		if err != nil && !errors.Is(err, service.ErrNotFound) {
			return respondError(c, err, "failed to delete user")
		}
	default:
		log.Printf("[webhook] rid=%s ignored type=%s", reqctx.RID(ctx), ev.Type)
	}
	return c.NoContent(http.StatusOK)
}
