package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/raqtkosh/backend/internal/reqctx"
)

// MaxUploadBytes is the largest prescription file accepted.
const MaxUploadBytes = 5 << 20

var uploadExt = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// ObjectStore persists a blob and returns its public URL.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error)
}

type UploadService interface {
	UploadPrescription(ctx context.Context, uid, contentType string, data []byte) (string, error)
}

type uploadService struct {
	store   ObjectStore
	newName func() string
}

func NewUploadService(store ObjectStore) UploadService {
	return &uploadService{store: store, newName: uuid.NewString}
}

func (s *uploadService) UploadPrescription(ctx context.Context, uid, contentType string, data []byte) (string, error) {
	if uid == "" {
		return "", ErrUnauthorized
	}
	if len(data) == 0 {
		return "", invalid("file", "No file provided")
	}
	if len(data) > MaxUploadBytes {
		return "", invalid("file", "File too large. Max 5 MB.")
	}
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if ct == "" || ct == "application/octet-stream" {
		ct = strings.SplitN(http.DetectContentType(data), ";", 2)[0]
	}
	ext, ok := uploadExt[ct]
	if !ok {
		return "", invalid("file", "Invalid file type. Only JPG, PNG, WEBP, PDF allowed.")
	}
	if s.store == nil {
		return "", fmt.Errorf("object storage is not configured")
	}
	path := fmt.Sprintf("prescriptions/%s/%s%s", uid, s.newName(), ext)
	u, err := s.store.Upload(ctx, path, ct, data)
	if err != nil {
		log.Printf("[upload] rid=%s uid=%s err=%v", reqctx.RID(ctx), uid, err)
		return "", err
	}
	log.Printf("[upload] rid=%s uid=%s path=%s bytes=%d", reqctx.RID(ctx), uid, path, len(data))
	return u, nil
}
