package repository

import (
	"context"
	"errors"

	"github.com/raqtkosh/backend/internal/model"
	"gorm.io/gorm"
)

type AddressRepository interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.Address, error)
	// Create clears the user's other primary flags when a is primary.
	Create(ctx context.Context, a *model.Address) error
	// FindPrimary returns nil, nil when the user has no primary address.
	FindPrimary(ctx context.Context, userID uint64) (*model.Address, error)
	SetDB(db *gorm.DB)
}

type addressRepository struct {
	base
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	r := &addressRepository{}
	r.SetDB(db)
	return r
}

func (r *addressRepository) ListByUser(ctx context.Context, userID uint64) ([]model.Address, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.Address
	if err := db.Where("user_id = ?", userID).
		Order("is_primary DESC").Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *addressRepository) Create(ctx context.Context, a *model.Address) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	if a.Country == "" {
		a.Country = model.DefaultCountry
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if a.IsPrimary {
			if err := tx.Model(&model.Address{}).
				Where("user_id = ? AND is_primary = ?", a.UserID, true).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(a).Error
	})
}

func (r *addressRepository) FindPrimary(ctx context.Context, userID uint64) (*model.Address, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var a model.Address
	err = db.Where("user_id = ? AND is_primary = ?", userID, true).
		Order("id DESC").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
