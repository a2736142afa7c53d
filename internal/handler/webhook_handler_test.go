package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/raqtkosh/backend/internal/identity"
	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProfiles struct {
	service.ProfileService
	synced  []service.Identity
	created []bool
	deleted []string
}

func (s *stubProfiles) Sync(_ context.Context, id service.Identity, created bool) (*model.User, error) {
	s.synced = append(s.synced, id)
	s.created = append(s.created, created)
	return &model.User{Email: id.Email}, nil
}

func (s *stubProfiles) Delete(_ context.Context, externalID string) error {
	s.deleted = append(s.deleted, externalID)
	return service.ErrNotFound
}

func webhookCall(t *testing.T, h *WebhookHandler, v *identity.Verifier, body string, signed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/identity", strings.NewReader(body))
	if signed {
		now := time.Now()
		sig, err := v.Sign("msg_1", now, []byte(body))
		require.NoError(t, err)
		req.Header.Set(identity.HeaderID, "msg_1")
		req.Header.Set(identity.HeaderTimestamp, strconv.FormatInt(now.Unix(), 10))
		req.Header.Set(identity.HeaderSignature, sig)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h.Identity(echo.New().NewContext(req, rec)))
	return rec
}

func TestWebhookRoutesByExternalID(t *testing.T) {
	v, err := identity.NewVerifier("whsec_" + base64.StdEncoding.EncodeToString([]byte("handler-test-key")))
	require.NoError(t, err)
	profiles := &stubProfiles{}
	h := NewWebhookHandler(v, profiles)

	rec := webhookCall(t, h, v, `{"type":"user.created","data":{"id":"user_2abc","first_name":"Asha",
		"email_addresses":[{"email_address":"asha@example.com"}],"phone_numbers":[{"phone_number":"+919800000000"}]}}`, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, profiles.synced, 1)
	assert.Equal(t, "user_2abc", profiles.synced[0].ExternalID)
	assert.Empty(t, profiles.synced[0].UID, "provider ids must not overwrite Firebase uids")
	assert.Equal(t, "+919800000000", profiles.synced[0].PhoneNumber)
	assert.True(t, profiles.created[0])

	rec = webhookCall(t, h, v, `{"type":"user.deleted","data":{"id":"user_2abc"}}`, true)
	assert.Equal(t, http.StatusOK, rec.Code, "unknown users are already gone")
	assert.Equal(t, []string{"user_2abc"}, profiles.deleted)

	rec = webhookCall(t, h, v, `{"type":"user.created","data":{"id":"user_x"}}`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing Svix headers")

	rec = webhookCall(t, h, v, `{"type":"user.created","data":{"id":"user_x"}}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing email")
	assert.Len(t, profiles.synced, 1)
}
