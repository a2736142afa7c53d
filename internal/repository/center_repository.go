package repository

import (
	"context"

	"github.com/raqtkosh/backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CenterRepository interface {
	List(ctx context.Context) ([]model.DonationCenter, error)
	FindByID(ctx context.Context, id uint64) (*model.DonationCenter, error)
	Upsert(ctx context.Context, c *model.DonationCenter) error
	SetDB(db *gorm.DB)
}

type centerRepository struct {
	base
}

func NewCenterRepository(db *gorm.DB) CenterRepository {
	r := &centerRepository{}
	r.SetDB(db)
	return r
}

func (r *centerRepository) List(ctx context.Context) ([]model.DonationCenter, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.DonationCenter
	if err := db.Order("state ASC, city ASC, name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *centerRepository) FindByID(ctx context.Context, id uint64) (*model.DonationCenter, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var c model.DonationCenter
	if err := db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *centerRepository) Upsert(ctx context.Context, c *model.DonationCenter) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{
		DoUpdates: clause.AssignmentColumns([]string{"address", "state", "postal_code", "phone", "updated_at"}),
	}).Create(c).Error
}
