// Package storage writes user uploads to a Cloud Storage bucket and hands back
// Firebase-style download URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

type Uploader struct {
	client   *storage.Client
	bucket   string
	newToken func() string
}

// New opens a client for bucket. An empty credentialsFile falls back to
// application default credentials.
func New(ctx context.Context, bucket, credentialsFile string) (*Uploader, error) {
	if bucket == "" {
		return nil, errors.New("storage bucket is not set")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Uploader{client: client, bucket: bucket, newToken: uuid.NewString}, nil
}

// Upload stores data at objectPath with a download token and returns the
// public URL.
func (u *Uploader) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	token := u.newToken()
	w := u.client.Bucket(u.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return DownloadURL(u.bucket, objectPath, token), nil
}

func (u *Uploader) Close() error {
	return u.client.Close()
}

func DownloadURL(bucket, objectPath, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(objectPath), token)
}
