package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/repository"
	"github.com/raqtkosh/backend/internal/reqctx"
)

type RequestInput struct {
	CenterID        uint64          `json:"hospitalId"`
	BloodType       model.BloodType `json:"bloodType"`
	Units           int             `json:"quantity"`
	PatientName     string          `json:"patientName"`
	Urgency         string          `json:"urgency"`
	Reason          string          `json:"reason"`
	PrescriptionURL string          `json:"prescriptionUrl"`
}

type RequestService interface {
	Create(ctx context.Context, uid string, in RequestInput) (*model.Request, error)
	Get(ctx context.Context, id uint64) (*model.Request, error)
	List(ctx context.Context, status model.RequestStatus, limit, offset int) ([]model.Request, int64, error)
	ListMine(ctx context.Context, uid string) ([]model.Request, error)
	// RaiseHomeDonation files a one-unit request for the caller's own blood
	// type at their primary address.
	RaiseHomeDonation(ctx context.Context, uid string) (*model.Request, error)
	// UpdateStatus is the admin transition. FULFILLED is credited to the
	// requester's ledger.
	UpdateStatus(ctx context.Context, adminUID string, id uint64, status model.RequestStatus) (*model.Request, error)
}

type requestService struct {
	users     repository.UserRepository
	requests  repository.RequestRepository
	centers   repository.CenterRepository
	addresses repository.AddressRepository
	ledger    LedgerService
	notifier  NotificationService
	now       func() time.Time
}

func NewRequestService(
	users repository.UserRepository,
	requests repository.RequestRepository,
	centers repository.CenterRepository,
	addresses repository.AddressRepository,
	ledger LedgerService,
	notifier NotificationService,
) RequestService {
	return &requestService{
		users:     users,
		requests:  requests,
		centers:   centers,
		addresses: addresses,
		ledger:    ledger,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (s *requestService) Create(ctx context.Context, uid string, in RequestInput) (*model.Request, error) {
	in.PatientName = strings.TrimSpace(in.PatientName)
	if in.CenterID == 0 {
		return nil, invalid("hospitalId", "is required")
	}
	if in.PatientName == "" {
		return nil, invalid("patientName", "is required")
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
	if in.Urgency == "" {
		in.Urgency = "normal"
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
	req := &model.Request{
		UserID:      u.ID,
		BloodType:   in.BloodType,
		Quantity:    in.Units,
		Urgency:     in.Urgency,
		PatientName: in.PatientName,
		Reason:      in.Reason,
		Hospital:    center.Name,
		CenterID:    &centerID,
		Status:      model.RequestStatusPending,
	}
	if in.PrescriptionURL != "" {
		p := in.PrescriptionURL
		req.PrescriptionURL = &p
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	log.Printf("[request] rid=%s uid=%s id=%d blood=%s units=%d", reqctx.RID(ctx), uid, req.ID, req.BloodType, req.Quantity)
	return req, nil
}

func (s *requestService) RaiseHomeDonation(ctx context.Context, uid string) (*model.Request, error) {
	u, err := callerByUID(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	if u.BloodType == nil || *u.BloodType == "" {
		return nil, invalid("bloodType", "blood type not found for user")
	}
	addr, err := s.addresses.FindPrimary(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if addr == nil {
		return nil, invalid("address", "primary address not found")
	}
	addrID := addr.ID
	req := &model.Request{
		UserID:      u.ID,
		BloodType:   *u.BloodType,
		Quantity:    1,
		Urgency:     "normal",
		PatientName: u.FullName(),
		Reason:      "Home Donation Request",
		Hospital:    "Home",
		AddressID:   &addrID,
		Status:      model.RequestStatusPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	log.Printf("[request] rid=%s uid=%s id=%d home address=%d", reqctx.RID(ctx), uid, req.ID, addrID)
	return req, nil
}

func (s *requestService) Get(ctx context.Context, id uint64) (*model.Request, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return req, nil
}

func (s *requestService) List(ctx context.Context, status model.RequestStatus, limit, offset int) ([]model.Request, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, invalid("status", "invalid status %q", status)
	}
	return s.requests.List(ctx, status, limit, offset)
}

func (s *requestService) ListMine(ctx context.Context, uid string) ([]model.Request, error) {
	u, err := callerByUID(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	return s.requests.ListByUser(ctx, u.ID)
}

func (s *requestService) UpdateStatus(ctx context.Context, adminUID string, id uint64, status model.RequestStatus) (*model.Request, error) {
	if status == "" {
		return nil, invalid("status", "is required")
	}
	if !status.Valid() {
		return nil, invalid("status", "invalid status %q", status)
	}
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if req.Status.Terminal() {
		return nil, ErrInvalidTransition
	}

	var assigned *string
	if status != model.RequestStatusPending {
		a := adminUID
		assigned = &a
	}
	var (
		fulfilledAt *time.Time
		mark        *repository.DonationMark
	)
	if status == model.RequestStatusFulfilled {
		t := s.now().UTC()
		fulfilledAt = &t
		mark = &repository.DonationMark{UserID: req.UserID, At: t}
	}
	n, err := s.requests.UpdateStatus(ctx, id, req.Status, status, assigned, fulfilledAt, mark)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrInvalidTransition
	}
	req.Status = status
	req.AssignedTo = assigned
	req.FulfilledAt = fulfilledAt
	log.Printf("[request] rid=%s id=%d status=%s by=%s", reqctx.RID(ctx), id, status, adminUID)

	switch status {
	case model.RequestStatusFulfilled:
		if _, err := s.ledger.Reconcile(ctx, req.UserID); err != nil {
			log.Printf("[request] rid=%s reconcile user=%d: %v", reqctx.RID(ctx), req.UserID, err)
		}
		s.notifier.Notify(ctx, req.UserID, model.NotificationTypeBloodRequest,
			"Request fulfilled",
			"Your blood request for "+req.PatientName+" has been fulfilled.",
			uint64Ptr(req.ID))
	case model.RequestStatusApproved, model.RequestStatusRejected:
		s.notifier.Notify(ctx, req.UserID, model.NotificationTypeBloodRequest,
			"Request "+strings.ToLower(string(status)),
			"Your blood request for "+req.PatientName+" is now "+strings.ToLower(string(status))+".",
			uint64Ptr(req.ID))
	}
	return req, nil
}
