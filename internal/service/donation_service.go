package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/repository"
	"github.com/raqtkosh/backend/internal/reqctx"
	"github.com/raqtkosh/backend/internal/rewards"
)

type DonationInput struct {
	CenterID  uint64          `json:"hospitalId"`
	BloodType model.BloodType `json:"bloodType"`
	Units     int             `json:"quantity"`
}

type DonationService interface {
	Submit(ctx context.Context, uid string, in DonationInput) (*model.Donation, error)
	ListMine(ctx context.Context, uid string) ([]model.Donation, error)
	ListAll(ctx context.Context, limit, offset int) ([]model.Donation, int64, error)
	// UpdateStatus moves a PENDING donation to a terminal status. COMPLETED
	// starts the donor's cooldown and credits the ledger.
	UpdateStatus(ctx context.Context, id uint64, status model.DonationStatus) (*model.Donation, error)
}

type donationService struct {
	users     repository.UserRepository
	donations repository.DonationRepository
	centers   repository.CenterRepository
	ledger    LedgerService
	notifier  NotificationService
	now       func() time.Time
}

func NewDonationService(
	users repository.UserRepository,
	donations repository.DonationRepository,
	centers repository.CenterRepository,
	ledger LedgerService,
	notifier NotificationService,
) DonationService {
	return &donationService{
		users:     users,
		donations: donations,
		centers:   centers,
		ledger:    ledger,
		notifier:  notifier,
		now:       time.Now,
	}
}

func validateUnits(units int) error {
	if units <= 0 || units > rewards.MaxUnits {
		return invalid("quantity", "must be between 1 and %d units", rewards.MaxUnits)
	}
	return nil
}

func validateBloodType(bt model.BloodType) error {
	if bt == "" {
		return invalid("bloodType", "is required")
	}
	if !bt.Valid() {
		return invalid("bloodType", "invalid blood type")
	}
	return nil
}

func (s *donationService) Submit(ctx context.Context, uid string, in DonationInput) (*model.Donation, error) {
	if in.CenterID == 0 {
		return nil, invalid("hospitalId", "is required")
	}
	if err := validateBloodType(in.BloodType); err != nil {
		return nil, err
	}
	if in.Units == 0 {
		in.Units = 1
	}
	if err := validateUnits(in.Units); err != nil {
		return nil, err
	}
	center, err := s.centers.FindByID(ctx, in.CenterID)
	if err != nil {
		return nil, notFound(err)
	}
	u, err := callerByUID(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	centerID := center.ID
	d := &model.Donation{
		UserID:       u.ID,
		CenterID:     &centerID,
		BloodType:    in.BloodType,
		Quantity:     in.Units * rewards.UnitML,
		Status:       model.DonationStatusPending,
		PointsEarned: rewards.DonationSubmitPoints,
		Date:         s.now().UTC(),
	}
	if err := s.donations.Create(ctx, d); err != nil {
		return nil, err
	}
	d.Center = center
	log.Printf("[donation] rid=%s uid=%s id=%d center=%d ml=%d", reqctx.RID(ctx), uid, d.ID, centerID, d.Quantity)
	return d, nil
}

func (s *donationService) ListMine(ctx context.Context, uid string) ([]model.Donation, error) {
	u, err := callerByUID(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	return s.donations.ListByUser(ctx, u.ID)
}

func (s *donationService) ListAll(ctx context.Context, limit, offset int) ([]model.Donation, int64, error) {
	return s.donations.ListAll(ctx, limit, offset)
}

func (s *donationService) UpdateStatus(ctx context.Context, id uint64, status model.DonationStatus) (*model.Donation, error) {
	if status == "" {
		return nil, invalid("status", "is required")
	}
	if !status.Valid() {
		return nil, invalid("status", "invalid status %q", status)
	}
	d, err := s.donations.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if d.Status == status {
		return d, nil
	}
	if d.Status.Terminal() || !status.Terminal() {
		return nil, ErrInvalidTransition
	}
	var mark *repository.DonationMark
	if status == model.DonationStatusCompleted {
		mark = &repository.DonationMark{UserID: d.UserID, At: s.now().UTC()}
	}
	n, err := s.donations.UpdateStatusIfPending(ctx, id, status, mark)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrInvalidTransition
	}
	d.Status = status
	log.Printf("[donation] rid=%s id=%d status=%s", reqctx.RID(ctx), id, status)

	if status == model.DonationStatusCompleted {
		// the status change is committed; a missed reconcile is caught up
		// on the donor's next ledger read
		if _, err := s.ledger.Reconcile(ctx, d.UserID); err != nil {
			log.Printf("[donation] rid=%s reconcile user=%d: %v", reqctx.RID(ctx), d.UserID, err)
		}
		s.notifier.Notify(ctx, d.UserID, model.NotificationTypeDonation,
			"Donation completed",
			fmt.Sprintf("Thank you for donating. You earned %d points.", d.PointsEarned),
			uint64Ptr(d.ID))
	}
	return d, nil
}
