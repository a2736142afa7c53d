package service

import (
	"context"
	"log"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/repository"
	"github.com/raqtkosh/backend/internal/reqctx"
)

type StockInput struct {
	CenterID  uint64          `json:"centerId"`
	BloodType model.BloodType `json:"bloodType"`
	Quantity  int             `json:"quantity"`
}

type InventoryService interface {
	List(ctx context.Context) ([]model.BloodInventory, error)
	AddStock(ctx context.Context, in StockInput) (*model.BloodInventory, error)
	Centers(ctx context.Context) ([]model.DonationCenter, error)
}

type inventoryService struct {
	inventory repository.InventoryRepository
	centers   repository.CenterRepository
}

func NewInventoryService(inventory repository.InventoryRepository, centers repository.CenterRepository) InventoryService {
	return &inventoryService{inventory: inventory, centers: centers}
}

func (s *inventoryService) List(ctx context.Context) ([]model.BloodInventory, error) {
	return s.inventory.List(ctx)
}

func (s *inventoryService) AddStock(ctx context.Context, in StockInput) (*model.BloodInventory, error) {
	if in.CenterID == 0 || in.BloodType == "" || in.Quantity <= 0 {
		return nil, invalid("", "Invalid data. Please provide centerId, bloodType, and positive quantity")
	}
	if !in.BloodType.Valid() {
		return nil, invalid("bloodType", "invalid blood type")
	}
	if _, err := s.centers.FindByID(ctx, in.CenterID); err != nil {
		return nil, notFound(err)
	}
	inv, err := s.inventory.AddStock(ctx, in.CenterID, in.BloodType, in.Quantity)
	if err != nil {
		return nil, err
	}
	log.Printf("[inventory] rid=%s center=%d blood=%s +%d total=%d", reqctx.RID(ctx), in.CenterID, in.BloodType, in.Quantity, inv.Quantity)
	return inv, nil
}

func (s *inventoryService) Centers(ctx context.Context) ([]model.DonationCenter, error) {
	return s.centers.List(ctx)
}
