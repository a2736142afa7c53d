package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/repository"
	"github.com/raqtkosh/backend/internal/reqctx"
	"github.com/raqtkosh/backend/internal/rewards"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

type ReferralInput struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

type ReferralService interface {
	List(ctx context.Context, uid string) ([]model.Referral, error)
	Create(ctx context.Context, uid string, in ReferralInput) (*model.Referral, error)
	Complete(ctx context.Context, id uint64) (*model.Referral, error)
	// CompleteBySignup completes every pending referral of phone and
	// reconciles the referrers. It returns the number completed.
	CompleteBySignup(ctx context.Context, phone string) (int, error)
}

type referralService struct {
	users     repository.UserRepository
	referrals repository.ReferralRepository
	ledger    LedgerService
	notifier  NotificationService
	now       func() time.Time
}

func NewReferralService(
	users repository.UserRepository,
	referrals repository.ReferralRepository,
	ledger LedgerService,
	notifier NotificationService,
) ReferralService {
	return &referralService{
		users:     users,
		referrals: referrals,
		ledger:    ledger,
		notifier:  notifier,
		now:       time.Now,
	}
}

// NormalizePhone keeps the digits of p and returns the last ten, which is how
// referral phones are stored.
func NormalizePhone(p string) string {
	var b strings.Builder
	for _, r := range p {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if len(d) > 10 {
		d = d[len(d)-10:]
	}
	return d
}

func (s *referralService) List(ctx context.Context, uid string) ([]model.Referral, error) {
	u, err := callerByUID(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	return s.referrals.ListByReferrer(ctx, u.ID)
}

func (s *referralService) Create(ctx context.Context, uid string, in ReferralInput) (*model.Referral, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, invalid("name", "is required")
	}
	if !phonePattern.MatchString(in.PhoneNumber) {
		return nil, invalid("phoneNumber", "Invalid phone number format (must be 10 digits)")
	}
	u, err := callerByUID(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	existing, err := s.referrals.FindByReferrerAndPhone(ctx, u.ID, in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, invalid("phoneNumber", "You have already referred this number")
	}
	ref := &model.Referral{
		ReferrerID:  u.ID,
		Name:        in.Name,
		PhoneNumber: in.PhoneNumber,
		Status:      model.ReferralStatusPending,
	}
	if err := s.referrals.Create(ctx, ref); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, u.ID, model.NotificationTypeReferral,
		"Referral Submitted",
		fmt.Sprintf("You referred %s. You'll earn %d points when they sign up.", in.Name, rewards.ReferralPoints),
		uint64Ptr(ref.ID))
	return ref, nil
}

func (s *referralService) Complete(ctx context.Context, id uint64) (*model.Referral, error) {
	ref, err := s.referrals.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if ref.Status == model.ReferralStatusCompleted {
		return nil, ErrInvalidTransition
	}
	if err := s.complete(ctx, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *referralService) complete(ctx context.Context, ref *model.Referral) error {
	at := s.now().UTC()
	n, err := s.referrals.MarkCompleted(ctx, ref.ID, at)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidTransition
	}
	ref.Status = model.ReferralStatusCompleted
	ref.CompletedAt = &at
	if _, err := s.ledger.Reconcile(ctx, ref.ReferrerID); err != nil {
		return err
	}
	s.notifier.Notify(ctx, ref.ReferrerID, model.NotificationTypeReferral,
		"Referral completed",
		fmt.Sprintf("%s signed up. You earned %d points.", ref.Name, rewards.ReferralPoints),
		uint64Ptr(ref.ID))
	log.Printf("[referral] rid=%s id=%d referrer=%d completed", reqctx.RID(ctx), ref.ID, ref.ReferrerID)
	return nil
}

func (s *referralService) CompleteBySignup(ctx context.Context, phone string) (int, error) {
	phone = NormalizePhone(phone)
	if len(phone) != 10 {
		return 0, nil
	}
	pending, err := s.referrals.ListPendingByPhone(ctx, phone)
	if err != nil {
		return 0, err
	}
	done := 0
	for i := range pending {
		if err := s.complete(ctx, &pending[i]); err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				continue
			}
			return done, err
		}
		done++
	}
	return done, nil
}
