package service

import (
	"context"
	"log"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/repository"
	"github.com/raqtkosh/backend/internal/reqctx"
)

type NotificationService interface {
	Notify(ctx context.Context, userID uint64, typ, title, message string, relatedID *uint64)
	List(ctx context.Context, uid string, unreadOnly bool, limit int) ([]model.Notification, int64, error)
	MarkAllRead(ctx context.Context, uid string) (int64, error)
}

type notificationService struct {
	repo  repository.NotificationRepository
	users repository.UserRepository
}

func NewNotificationService(repo repository.NotificationRepository, users repository.UserRepository) NotificationService {
	return &notificationService{repo: repo, users: users}
}

// Notify is best-effort; it logs errors but does not return them to avoid breaking main flows.
func (s *notificationService) Notify(ctx context.Context, userID uint64, typ, title, message string, relatedID *uint64) {
	if userID == 0 || typ == "" {
		return
	}
	n := &model.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Printf("[notify] rid=%s user=%d type=%s err=%v", reqctx.RID(ctx), userID, typ, err)
	}
}

func (s *notificationService) List(ctx context.Context, uid string, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	u, err := callerByUID(ctx, s.users, uid)
	if err != nil {
		return nil, 0, err
	}
	list, err := s.repo.ListByUser(ctx, u.ID, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	cnt, err := s.repo.CountUnread(ctx, u.ID)
	if err != nil {
		return list, 0, err
	}
	return list, cnt, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, uid string) (int64, error) {
	u, err := callerByUID(ctx, s.users, uid)
	if err != nil {
		return 0, err
	}
	return s.repo.MarkAllRead(ctx, u.ID)
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}
