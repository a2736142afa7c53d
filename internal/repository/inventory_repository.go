package repository

import (
	"context"
	"errors"

	"github.com/raqtkosh/backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository interface {
	List(ctx context.Context) ([]model.BloodInventory, error)
	AddStock(ctx context.Context, centerID uint64, bloodType model.BloodType, quantity int) (*model.BloodInventory, error)
	FindSufficient(ctx context.Context, bloodType model.BloodType, quantity int) (*model.BloodInventory, error)
	SetDB(db *gorm.DB)
}

type inventoryRepository struct {
	base
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	r := &inventoryRepository{}
	r.SetDB(db)
	return r
}

func (r *inventoryRepository) List(ctx context.Context) ([]model.BloodInventory, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.BloodInventory
	if err := db.Preload("Center").Order("last_updated DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// AddStock increments the (center, blood type) counter, creating it on first use.
func (r *inventoryRepository) AddStock(ctx context.Context, centerID uint64, bloodType model.BloodType, quantity int) (*model.BloodInventory, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	row := model.BloodInventory{CenterID: centerID, BloodType: bloodType, Quantity: quantity}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "center_id"}, {Name: "blood_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":     gorm.Expr("quantity + ?", quantity),
			"last_updated": gorm.Expr("CURRENT_TIMESTAMP(3)"),
		}),
	}).Create(&row).Error; err != nil {
		return nil, err
	}
	var out model.BloodInventory
	if err := db.Preload("Center").
		Where("center_id = ? AND blood_type = ?", centerID, bloodType).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// FindSufficient returns any center row holding at least quantity units of
// the blood type, or nil when none does.
func (r *inventoryRepository) FindSufficient(ctx context.Context, bloodType model.BloodType, quantity int) (*model.BloodInventory, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var inv model.BloodInventory
	if err := db.Where("blood_type = ? AND quantity >= ?", bloodType, quantity).
		Order("quantity DESC").
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}
