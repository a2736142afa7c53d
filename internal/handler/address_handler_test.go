package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAddresses struct {
	service.AddressService
	in   service.AddressInput
	list []model.Address
}

func (s *stubAddresses) List(context.Context, string) ([]model.Address, error) {
	return s.list, nil
}

func (s *stubAddresses) Create(_ context.Context, _ string, in service.AddressInput) (*model.Address, error) {
	s.in = in
	if in.Street == "" {
		return nil, &service.ValidationError{Field: "street", Message: "street is required"}
	}
	return &model.Address{ID: 1, Street: in.Street, Country: model.DefaultCountry, IsPrimary: in.IsPrimary}, nil
}

func addressCall(t *testing.T, fn func(echo.Context) error, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/api/user/addresses", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("uid", "u1")
	require.NoError(t, fn(c))
	return rec
}

func TestAddressHandler(t *testing.T) {
	stub := &stubAddresses{}
	h := NewAddressHandler(stub)

	rec := addressCall(t, h.List, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"addresses":[]}`, rec.Body.String())

	rec = addressCall(t, h.Create, http.MethodPost, `{"street":"9 Hill Rd","city":"Mumbai","state":"MH","postalCode":"400050","isPrimary":true}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "400050", stub.in.PostalCode)
	assert.True(t, stub.in.IsPrimary)
	assert.Contains(t, rec.Body.String(), `"country":"India"`)

	rec = addressCall(t, h.Create, http.MethodPost, `{"city":"Mumbai"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubFeedbacks struct {
	service.ProfileService
	list []service.Feedback
}

func (s *stubFeedbacks) Feedbacks(context.Context) ([]service.Feedback, error) {
	return s.list, nil
}

func TestFeedbacksHandler(t *testing.T) {
	h := NewProfileHandler(&stubFeedbacks{list: []service.Feedback{{ID: 2, Name: "Anonymous Donor", Feedback: "Thanks!"}}})
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/feedbacks", nil), rec)

	require.NoError(t, h.Feedbacks(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"feedbacks":[{"id":2,"name":"Anonymous Donor","feedback":"Thanks!"}]}`, rec.Body.String())
}
