package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/repository"
	"github.com/raqtkosh/backend/internal/reqctx"
	"github.com/raqtkosh/backend/internal/rewards"
)

// ShortageRoutingKey is the broker routing key of dispatched shortage alerts.
const ShortageRoutingKey = "blood.shortage"

// EventPublisher sends domain events to the broker. A nil publisher disables
// publishing.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}

type ShortageAlert struct {
	Success    bool            `json:"success"`
	DonorCount int             `json:"donorCount"`
	BloodType  model.BloodType `json:"bloodType"`
	Message    string          `json:"message"`
}

type DispatchResult struct {
	NotifiedCount  int    `json:"notifiedCount"`
	StockAvailable bool   `json:"stockAvailable"`
	Message        string `json:"message"`
}

// ShortageEvent is the payload published after a successful fan-out.
type ShortageEvent struct {
	BloodType  model.BloodType `json:"bloodType"`
	RequestID  *uint64         `json:"requestId,omitempty"`
	DonorCount int             `json:"donorCount"`
	At         time.Time       `json:"at"`
}

type ShortageService interface {
	// DispatchShortageAlert notifies every eligible donor of bloodType.
	DispatchShortageAlert(ctx context.Context, bloodType model.BloodType) (*ShortageAlert, error)
	// DispatchIfShort notifies eligible donors for a request unless some
	// center already holds enough stock.
	DispatchIfShort(ctx context.Context, requestID uint64) (*DispatchResult, error)
}

type shortageService struct {
	requests      repository.RequestRepository
	inventory     repository.InventoryRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	publisher     EventPublisher
	now           func() time.Time
}

func NewShortageService(
	requests repository.RequestRepository,
	inventory repository.InventoryRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	publisher EventPublisher,
) ShortageService {
	return &shortageService{
		requests:      requests,
		inventory:     inventory,
		users:         users,
		notifications: notifications,
		publisher:     publisher,
		now:           time.Now,
	}
}

// eligibleDonors is the single donor predicate shared by both dispatch paths:
// USER role, matching blood type, outside the donation cooldown.
func (s *shortageService) eligibleDonors(ctx context.Context, bloodType model.BloodType) ([]model.User, error) {
	return s.users.FindDonors(ctx, bloodType, rewards.EligibilityCutoff(s.now().UTC()))
}

func (s *shortageService) DispatchShortageAlert(ctx context.Context, bloodType model.BloodType) (*ShortageAlert, error) {
	if bloodType == "" {
		return nil, invalid("bloodType", "is required")
	}
	if !bloodType.Valid() {
		return nil, invalid("bloodType", "unknown blood type %q", bloodType)
	}
	donors, err := s.eligibleDonors(ctx, bloodType)
	if err != nil {
		return nil, err
	}
	label := bloodType.Label()
	list := make([]model.Notification, 0, len(donors))
	for _, d := range donors {
		list = append(list, model.Notification{
			UserID:  d.ID,
			Type:    model.NotificationTypeBloodRequest,
			Title:   "Blood Donation Request",
			Message: fmt.Sprintf("Urgent need for %s blood. Please consider donating.", label),
		})
	}
	if err := s.notifications.CreateBatch(ctx, list); err != nil {
		return nil, err
	}
	log.Printf("[shortage] rid=%s blood=%s donors=%d", reqctx.RID(ctx), bloodType, len(list))

	out := &ShortageAlert{Success: true, DonorCount: len(list), BloodType: bloodType}
	if len(list) == 0 {
		out.Message = fmt.Sprintf("No eligible donors found for %s", label)
		return out, nil
	}
	out.Message = fmt.Sprintf("Notification sent to %d potential donors", len(list))
	s.publish(ctx, ShortageEvent{BloodType: bloodType, DonorCount: len(list), At: s.now().UTC()})
	return out, nil
}

func (s *shortageService) DispatchIfShort(ctx context.Context, requestID uint64) (*DispatchResult, error) {
	if requestID == 0 {
		return nil, invalid("requestId", "is required")
	}
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, notFound(err)
	}
	stock, err := s.inventory.FindSufficient(ctx, req.BloodType, req.Quantity)
	if err != nil {
		return nil, err
	}
	if stock != nil {
		return &DispatchResult{StockAvailable: true, Message: "Stock available, no notification sent"}, nil
	}

	donors, err := s.eligibleDonors(ctx, req.BloodType)
	if err != nil {
		return nil, err
	}
	if len(donors) == 0 {
		return &DispatchResult{Message: "No matching users to notify"}, nil
	}
	spoken := strings.Replace(string(req.BloodType), "_", " ", 1)
	list := make([]model.Notification, 0, len(donors))
	for _, d := range donors {
		list = append(list, model.Notification{
			UserID:    d.ID,
			Type:      model.NotificationTypeBloodRequest,
			Title:     "Urgent Blood Request",
			Message:   fmt.Sprintf("Hi %s, blood group %s urgently needed!", d.DisplayName(), spoken),
			RelatedID: uint64Ptr(req.ID),
		})
	}
	if err := s.notifications.CreateBatch(ctx, list); err != nil {
		return nil, err
	}
	log.Printf("[shortage] rid=%s request=%d blood=%s donors=%d", reqctx.RID(ctx), req.ID, req.BloodType, len(list))

	s.publish(ctx, ShortageEvent{BloodType: req.BloodType, RequestID: uint64Ptr(req.ID), DonorCount: len(list), At: s.now().UTC()})
	return &DispatchResult{
		NotifiedCount: len(list),
		Message:       fmt.Sprintf("%d notifications sent successfully", len(list)),
	}, nil
}

// publish is best-effort; the notifications are already stored.
func (s *shortageService) publish(ctx context.Context, ev ShortageEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishJSON(ctx, ShortageRoutingKey, ev); err != nil {
		log.Printf("[shortage] rid=%s publish err=%v", reqctx.RID(ctx), err)
	}
}
