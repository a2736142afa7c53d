package service

import (
	"context"
	"log"
	"strings"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/repository"
	"github.com/raqtkosh/backend/internal/reqctx"
)

type AddressInput struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	IsPrimary  bool   `json:"isPrimary"`
}

type AddressService interface {
	// List puts the primary address first.
	List(ctx context.Context, uid string) ([]model.Address, error)
	Create(ctx context.Context, uid string, in AddressInput) (*model.Address, error)
}

type addressService struct {
	users     repository.UserRepository
	addresses repository.AddressRepository
}

func NewAddressService(users repository.UserRepository, addresses repository.AddressRepository) AddressService {
	return &addressService{users: users, addresses: addresses}
}

func (s *addressService) List(ctx context.Context, uid string) ([]model.Address, error) {
	u, err := callerByUID(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	return s.addresses.ListByUser(ctx, u.ID)
}

func (s *addressService) Create(ctx context.Context, uid string, in AddressInput) (*model.Address, error) {
	a := &model.Address{
		Street:     strings.TrimSpace(in.Street),
		City:       strings.TrimSpace(in.City),
		State:      strings.TrimSpace(in.State),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.TrimSpace(in.Country),
		IsPrimary:  in.IsPrimary,
	}
	switch {
	case a.Street == "":
		return nil, invalid("street", "is required")
	case a.City == "":
		return nil, invalid("city", "is required")
	case a.State == "":
		return nil, invalid("state", "is required")
	case a.PostalCode == "":
		return nil, invalid("postalCode", "is required")
	}
	if a.Country == "" {
		a.Country = model.DefaultCountry
	}
	u, err := callerByUID(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	a.UserID = u.ID
	if err := s.addresses.Create(ctx, a); err != nil {
		return nil, err
	}
	log.Printf("[address] rid=%s uid=%s id=%d primary=%t", reqctx.RID(ctx), uid, a.ID, a.IsPrimary)
	return a, nil
}
