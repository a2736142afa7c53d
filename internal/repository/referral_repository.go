package repository

import (
	"context"
	"errors"
	"time"

	"github.com/raqtkosh/backend/internal/model"
	"gorm.io/gorm"
)

type ReferralRepository interface {
	Create(ctx context.Context, ref *model.Referral) error
	FindByID(ctx context.Context, id uint64) (*model.Referral, error)
	FindByReferrerAndPhone(ctx context.Context, referrerID uint64, phone string) (*model.Referral, error)
	ListByReferrer(ctx context.Context, referrerID uint64) ([]model.Referral, error)
	ListPendingByPhone(ctx context.Context, phone string) ([]model.Referral, error)
	MarkCompleted(ctx context.Context, id uint64, at time.Time) (int64, error)
	SetDB(db *gorm.DB)
}

type referralRepository struct {
	base
}

func NewReferralRepository(db *gorm.DB) ReferralRepository {
	r := &referralRepository{}
	r.SetDB(db)
	return r
}

func (r *referralRepository) Create(ctx context.Context, ref *model.Referral) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return db.Create(ref).Error
}

func (r *referralRepository) FindByID(ctx context.Context, id uint64) (*model.Referral, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var ref model.Referral
	if err := db.First(&ref, id).Error; err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *referralRepository) FindByReferrerAndPhone(ctx context.Context, referrerID uint64, phone string) (*model.Referral, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var ref model.Referral
	if err := db.Where("referrer_id = ? AND phone_number = ?", referrerID, phone).First(&ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ref, nil
}

func (r *referralRepository) ListByReferrer(ctx context.Context, referrerID uint64) ([]model.Referral, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.Referral
	if err := db.Where("referrer_id = ?", referrerID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *referralRepository) ListPendingByPhone(ctx context.Context, phone string) ([]model.Referral, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.Referral
	if err := db.Where("phone_number = ? AND status = ?", phone, model.ReferralStatusPending).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *referralRepository) MarkCompleted(ctx context.Context, id uint64, at time.Time) (int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	res := db.Model(&model.Referral{}).
		Where("id = ? AND status = ?", id, model.ReferralStatusPending).
		Updates(map[string]interface{}{
			"status":       model.ReferralStatusCompleted,
			"completed_at": at,
		})
	return res.RowsAffected, res.Error
}
