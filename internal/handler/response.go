package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/raqtkosh/backend/internal/repository"
	"github.com/raqtkosh/backend/internal/reqctx"
	"github.com/raqtkosh/backend/internal/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: message, Code: code}
}

// respondError maps service errors onto status codes. Anything unclassified
// is logged and answered with fallback so store details never leak.
func respondError(c echo.Context, err error, fallback string) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", ve.Message))
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "Unauthorized"))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "Forbidden"))
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "Not found"))
	case errors.Is(err, service.ErrInsufficientPoints):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("insufficient_points", "Insufficient points"))
	case errors.Is(err, service.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, NewErrorResponse("invalid_transition", "Status can no longer be changed"))
	case errors.Is(err, repository.ErrDBNotReady):
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("unavailable", "Service is starting, try again"))
	}
	log.Printf("[http] rid=%s %s %s err=%v", reqctx.RID(c.Request().Context()), c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", fallback))
}

func uidOf(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "Unauthorized"))
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", msg))
}

func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func pageParams(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}

type listResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

func newList[T any](items []T, total int64) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Total: total}
}
