package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/repository"
	"github.com/raqtkosh/backend/internal/reqctx"
	"github.com/raqtkosh/backend/internal/rewards"
	"gorm.io/gorm"
)

// Identity is the profile an identity provider knows about a user. UID is
// the Firebase uid; ExternalID is the signup webhook provider's user id.
// At least one of them is set.
type Identity struct {
	UID         string
	ExternalID  string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
}

type ProfileUpdate struct {
	FirstName   *string          `json:"firstName"`
	LastName    *string          `json:"lastName"`
	PhoneNumber *string          `json:"phoneNumber"`
	BloodType   *model.BloodType `json:"bloodType"`
	Feedback    *string          `json:"feedback"`
}

// Feedback is a donor testimonial shown on the public landing page.
type Feedback struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Feedback string `json:"feedback"`
}

const (
	feedbackLimit     = 6
	anonymousFeedback = "Anonymous Donor"
)

type Eligibility struct {
	CanDonate        bool       `json:"canDonate"`
	LastDonation     *time.Time `json:"lastDonation"`
	NextEligibleDate *time.Time `json:"nextEligibleDate"`
}

type ProfileService interface {
	// Sync upserts the user by email and keeps an existing role. A first
	// sign-up, flagged by created or by the upsert inserting the row,
	// completes referrals of the phone number.
	Sync(ctx context.Context, id Identity, created bool) (*model.User, error)
	// Delete removes the user the webhook provider knows as externalID.
	Delete(ctx context.Context, externalID string) error
	Get(ctx context.Context, uid string) (*model.User, error)
	Update(ctx context.Context, uid string, in ProfileUpdate) (*model.User, error)
	Eligibility(ctx context.Context, uid string) (*Eligibility, error)
	IsAdmin(ctx context.Context, uid string) (bool, error)
	ListUsers(ctx context.Context, limit, offset int) ([]model.User, int64, error)
	Feedbacks(ctx context.Context) ([]Feedback, error)
}

type profileService struct {
	users     repository.UserRepository
	referrals ReferralService
	now       func() time.Time
}

func NewProfileService(users repository.UserRepository, referrals ReferralService) ProfileService {
	return &profileService{users: users, referrals: referrals, now: time.Now}
}

func (s *profileService) Sync(ctx context.Context, id Identity, created bool) (*model.User, error) {
	id.Email = strings.TrimSpace(strings.ToLower(id.Email))
	if id.Email == "" {
		return nil, invalid("email", "is required")
	}
	if id.UID == "" && id.ExternalID == "" {
		return nil, invalid("uid", "is required")
	}
	in := &model.User{
		UID:         id.UID,
		Email:       id.Email,
		FirstName:   id.FirstName,
		LastName:    id.LastName,
		PhoneNumber: id.PhoneNumber,
	}
	if id.ExternalID != "" {
		ext := id.ExternalID
		in.ExternalID = &ext
	}
	u, inserted, err := s.users.UpsertByEmail(ctx, in)
	if err != nil {
		return nil, err
	}
	log.Printf("[identity] rid=%s uid=%s email=%s role=%s inserted=%t synced", reqctx.RID(ctx), u.UID, u.Email, u.Role, inserted)

	if created || inserted {
		s.completeReferrals(ctx, u.UID, id.PhoneNumber)
	}
	return u, nil
}

func (s *profileService) completeReferrals(ctx context.Context, uid, phone string) {
	if phone == "" || s.referrals == nil {
		return
	}
	n, err := s.referrals.CompleteBySignup(ctx, phone)
	if err != nil {
		log.Printf("[identity] rid=%s uid=%s referral completion err=%v", reqctx.RID(ctx), uid, err)
	} else if n > 0 {
		log.Printf("[identity] rid=%s uid=%s completed_referrals=%d", reqctx.RID(ctx), uid, n)
	}
}

func (s *profileService) Delete(ctx context.Context, externalID string) error {
	if externalID == "" {
		return invalid("id", "is required")
	}
	n, err := s.users.DeleteByExternalID(ctx, externalID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	log.Printf("[identity] rid=%s external=%s deleted", reqctx.RID(ctx), externalID)
	return nil
}

func (s *profileService) Get(ctx context.Context, uid string) (*model.User, error) {
	return callerByUID(ctx, s.users, uid)
}

func (s *profileService) Update(ctx context.Context, uid string, in ProfileUpdate) (*model.User, error) {
	u, err := callerByUID(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if in.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*in.LastName)
	}
	var phone string
	if in.PhoneNumber != nil {
		phone = strings.TrimSpace(*in.PhoneNumber)
		fields["phone_number"] = phone
	}
	if in.BloodType != nil {
		if !in.BloodType.Valid() {
			return nil, invalid("bloodType", "invalid blood type")
		}
		fields["blood_type"] = *in.BloodType
	}
	if in.Feedback != nil {
		fields["feedback"] = strings.TrimSpace(*in.Feedback)
	}
	out, err := s.users.UpdateProfile(ctx, u.ID, fields)
	if err != nil {
		return nil, err
	}
	// a phone added after sign-up still completes pending referrals
	if u.PhoneNumber == "" && phone != "" {
		s.completeReferrals(ctx, uid, phone)
	}
	return out, nil
}

func (s *profileService) Eligibility(ctx context.Context, uid string) (*Eligibility, error) {
	u, err := callerByUID(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	out := &Eligibility{
		CanDonate:    rewards.CanDonate(u.LastDonation, s.now().UTC()),
		LastDonation: u.LastDonation,
	}
	if u.LastDonation != nil {
		next := rewards.NextEligibleDate(*u.LastDonation)
		out.NextEligibleDate = &next
	}
	return out, nil
}

func (s *profileService) IsAdmin(ctx context.Context, uid string) (bool, error) {
	if uid == "" {
		return false, nil
	}
	u, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.Role.IsAdmin(), nil
}

func (s *profileService) ListUsers(ctx context.Context, limit, offset int) ([]model.User, int64, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *profileService) Feedbacks(ctx context.Context) ([]Feedback, error) {
	users, err := s.users.ListFeedback(ctx, feedbackLimit)
	if err != nil {
		return nil, err
	}
	out := make([]Feedback, 0, len(users))
	for _, u := range users {
		if u.Feedback == nil {
			continue
		}
		name := u.FullName()
		if name == "" {
			name = anonymousFeedback
		}
		out = append(out, Feedback{ID: u.ID, Name: name, Feedback: strings.TrimSpace(*u.Feedback)})
	}
	return out, nil
}
