package repository

import (
	"context"

	"github.com/raqtkosh/backend/internal/model"
	"gorm.io/gorm"
)

type DonationRepository interface {
	Create(ctx context.Context, d *model.Donation) error
	FindByID(ctx context.Context, id uint64) (*model.Donation, error)
	UpdateStatusIfPending(ctx context.Context, id uint64, status model.DonationStatus, mark *DonationMark) (int64, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Donation, error)
	ListAll(ctx context.Context, limit, offset int) ([]model.Donation, int64, error)
	Count(ctx context.Context) (int64, error)
	SetDB(db *gorm.DB)
}

type donationRepository struct {
	base
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	r := &donationRepository{}
	r.SetDB(db)
	return r
}

func (r *donationRepository) Create(ctx context.Context, d *model.Donation) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return db.Create(d).Error
}

func (r *donationRepository) FindByID(ctx context.Context, id uint64) (*model.Donation, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var d model.Donation
	if err := db.Preload("Center").First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateStatusIfPending only moves donations out of PENDING, so a terminal
// status is written once. A non-nil mark is applied to the donor in the same
// transaction when the status actually changed.
func (r *donationRepository) UpdateStatusIfPending(ctx context.Context, id uint64, status model.DonationStatus, mark *DonationMark) (int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Donation{}).
			Where("id = ? AND status = ?", id, model.DonationStatusPending).
			Update("status", status)
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

func (r *donationRepository) ListByUser(ctx context.Context, userID uint64) ([]model.Donation, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.Donation
	if err := db.Preload("Center").
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *donationRepository) ListAll(ctx context.Context, limit, offset int) ([]model.Donation, int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, 0, err
	}
	limit, offset = clampPage(limit, offset, 50, 200)
	var (
		list  []model.Donation
		total int64
	)
	if err := db.Model(&model.Donation{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Preload("Center").Order("date DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *donationRepository) Count(ctx context.Context) (int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	var cnt int64
	err = db.Model(&model.Donation{}).Count(&cnt).Error
	return cnt, err
}
