package service

import (
	"context"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/repository"
)

// callerByUID resolves the authenticated uid to its users row.
func callerByUID(ctx context.Context, users repository.UserRepository, uid string) (*model.User, error) {
	if uid == "" {
		return nil, ErrUnauthorized
	}
	u, err := users.FindByUID(ctx, uid)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}
