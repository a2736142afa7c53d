package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/raqtkosh/backend/internal/service"
)

type UploadHandler struct {
	svc service.UploadService
}

func NewUploadHandler(svc service.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

func (h *UploadHandler) Upload(c echo.Context) error {
	uid := uidOf(c)
	if uid == "" {
		return unauthorized(c)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No file provided")
	}
	if fh.Size > service.MaxUploadBytes {
		return badRequest(c, "File too large. Max 5 MB.")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "No file provided")
	}
	defer f.Close()
	// One byte over the limit is enough for the service to reject it.
	data, err := io.ReadAll(io.LimitReader(f, service.MaxUploadBytes+1))
	if err != nil {
		return badRequest(c, "failed to read file")
	}
	u, err := h.svc.UploadPrescription(c.Request().Context(), uid, fh.Header.Get("Content-Type"), data)
	if err != nil {
		return respondError(c, err, "Upload failed")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": u})
}
