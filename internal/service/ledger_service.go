package service

import (
	"context"
	"log"
	"time"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/repository"
	"github.com/raqtkosh/backend/internal/reqctx"
	"github.com/raqtkosh/backend/internal/rewards"
)

// Achievements is the caller-facing view of a reconciled ledger.
type Achievements struct {
	CompletedRequests  int64        `json:"completedRequests"`
	CompletedReferrals int64        `json:"completedReferrals"`
	CompletedDonations int64        `json:"completedDonations"`
	RequestPoints      int64        `json:"requestPoints"`
	ReferralPoints     int64        `json:"referralPoints"`
	DonationPoints     int64        `json:"donationPoints"`
	TotalPoints        int64        `json:"totalPoints"`
	Balance            int64        `json:"balance"`
	RewardTier         rewards.Tier `json:"rewardTier"`
	PointsToNextTier   int64        `json:"pointsToNextTier"`
}

type LedgerService interface {
	// Reconcile recomputes the user's points from completed requests,
	// referrals and donations, backfilling donation rows for fulfilled
	// requests. Safe to call repeatedly.
	Reconcile(ctx context.Context, userID uint64) (*Achievements, error)
	Achievements(ctx context.Context, uid string) (*Achievements, error)
	History(ctx context.Context, uid string, limit int) ([]model.PointEvent, error)
}

type ledgerService struct {
	users  repository.UserRepository
	ledger repository.LedgerRepository
	now    func() time.Time
}

func NewLedgerService(users repository.UserRepository, ledger repository.LedgerRepository) LedgerService {
	return &ledgerService{users: users, ledger: ledger, now: time.Now}
}

func (s *ledgerService) Reconcile(ctx context.Context, userID uint64) (*Achievements, error) {
	sum, err := s.ledger.Reconcile(ctx, userID, s.now().UTC())
	if err != nil {
		return nil, notFound(err)
	}
	if sum.Changed {
		log.Printf("[ledger] rid=%s user=%d inserted=%d balance=%d tier=%s",
			reqctx.RID(ctx), userID, sum.Inserted, sum.Balance, sum.RewardTier)
	}
	return toAchievements(sum), nil
}

func (s *ledgerService) Achievements(ctx context.Context, uid string) (*Achievements, error) {
	u, err := callerByUID(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	return s.Reconcile(ctx, u.ID)
}

func (s *ledgerService) History(ctx context.Context, uid string, limit int) ([]model.PointEvent, error) {
	u, err := callerByUID(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	return s.ledger.ListEvents(ctx, u.ID, limit)
}

func toAchievements(sum *repository.LedgerSummary) *Achievements {
	return &Achievements{
		CompletedRequests:  sum.CompletedRequests,
		CompletedReferrals: sum.CompletedReferrals,
		CompletedDonations: sum.CompletedDonations,
		RequestPoints:      sum.RequestPoints,
		ReferralPoints:     sum.ReferralPoints,
		DonationPoints:     sum.DonationPoints,
		TotalPoints:        sum.TotalPoints,
		Balance:            sum.Balance,
		RewardTier:         sum.RewardTier,
		PointsToNextTier:   rewards.PointsToNext(sum.TotalPoints),
	}
}
