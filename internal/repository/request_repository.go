package repository

import (
	"context"
	"time"

	"github.com/raqtkosh/backend/internal/model"
	"gorm.io/gorm"
)

type RequestRepository interface {
	Create(ctx context.Context, req *model.Request) error
	FindByID(ctx context.Context, id uint64) (*model.Request, error)
	List(ctx context.Context, status model.RequestStatus, limit, offset int) ([]model.Request, int64, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Request, error)
	UpdateStatus(ctx context.Context, id uint64, from, to model.RequestStatus, assignedTo *string, fulfilledAt *time.Time, mark *DonationMark) (int64, error)
	Count(ctx context.Context) (int64, error)
	SetDB(db *gorm.DB)
}

type requestRepository struct {
	base
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	r := &requestRepository{}
	r.SetDB(db)
	return r
}

func (r *requestRepository) Create(ctx context.Context, req *model.Request) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return db.Create(req).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uint64) (*model.Request, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var req model.Request
	if err := db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) List(ctx context.Context, status model.RequestStatus, limit, offset int) ([]model.Request, int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, 0, err
	}
	limit, offset = clampPage(limit, offset, 50, 200)
	q := db.Model(&model.Request{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var (
		list  []model.Request
		total int64
	)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *requestRepository) ListByUser(ctx context.Context, userID uint64) ([]model.Request, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.Request
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStatus is a compare-and-set on the current status; zero rows affected
// means another writer moved the request first. A non-nil mark is applied to
// the donor in the same transaction.
func (r *requestRepository) UpdateStatus(ctx context.Context, id uint64, from, to model.RequestStatus, assignedTo *string, fulfilledAt *time.Time, mark *DonationMark) (int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Request{}).
			Where("id = ? AND status = ?", id, from).
			Updates(map[string]interface{}{
				"status":       to,
				"assigned_to":  assignedTo,
				"fulfilled_at": fulfilledAt,
			})
		if res.Error != nil {
			return res.Error
		}
		n = res.RowsAffected
		if n == 0 || mark == nil {
			return nil
		}
		return markDonated(tx, *mark)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *requestRepository) Count(ctx context.Context) (int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	var cnt int64
	err = db.Model(&model.Request{}).Count(&cnt).Error
	return cnt, err
}
