package repository

import (
	"context"

	"github.com/raqtkosh/backend/internal/model"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	CreateBatch(ctx context.Context, list []model.Notification) error
	ListByUser(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]model.Notification, error)
	Recent(ctx context.Context, limit int) ([]model.Notification, error)
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
	CountUnread(ctx context.Context, userID uint64) (int64, error)
	SetDB(db *gorm.DB)
}

type notificationRepository struct {
	base
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	r := &notificationRepository{}
	r.SetDB(db)
	return r
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return db.Create(n).Error
}

// CreateBatch inserts the fan-out in chunks. Rows written by an earlier chunk
// stay in place if a later one fails.
func (r *notificationRepository) CreateBatch(ctx context.Context, list []model.Notification) error {
	if len(list) == 0 {
		return nil
	}
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return db.CreateInBatches(&list, 500).Error
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]model.Notification, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.Notification
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	q := db.Model(&model.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if err := q.Order("created_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *notificationRepository) Recent(ctx context.Context, limit int) ([]model.Notification, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.Notification
	if err := db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	res := db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	var cnt int64
	if err := db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}
