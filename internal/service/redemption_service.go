package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/repository"
	"github.com/raqtkosh/backend/internal/reqctx"
)

// MaxRedeemQuantity bounds the units of a single reward in one redemption.
const MaxRedeemQuantity = 100

type RedeemItem struct {
	RewardID uint64 `json:"rewardId"`
	Quantity int    `json:"quantity"`
}

type RedeemResult struct {
	NewPoints       int64              `json:"newPoints"`
	Spent           int64              `json:"spent"`
	RedeemRef       string             `json:"redeemRef"`
	RedeemedRewards []model.UserReward `json:"redeemedRewards"`
}

type MyRewards struct {
	Points     int64              `json:"points"`
	RewardTier string             `json:"rewardTier"`
	Rewards    []model.UserReward `json:"rewards"`
}

type RedemptionService interface {
	Catalog(ctx context.Context) ([]model.Reward, error)
	Mine(ctx context.Context, uid string) (*MyRewards, error)
	Redeem(ctx context.Context, uid string, items []RedeemItem) (*RedeemResult, error)
}

type redemptionService struct {
	users    repository.UserRepository
	rewards  repository.RewardRepository
	notifier NotificationService
	newToken func() string
}

func NewRedemptionService(users repository.UserRepository, rewardRepo repository.RewardRepository, notifier NotificationService) RedemptionService {
	return &redemptionService{
		users:    users,
		rewards:  rewardRepo,
		notifier: notifier,
		newToken: uuid.NewString,
	}
}

func (s *redemptionService) Catalog(ctx context.Context) ([]model.Reward, error) {
	return s.rewards.ListCatalog(ctx)
}

func (s *redemptionService) Mine(ctx context.Context, uid string) (*MyRewards, error) {
	u, err := callerByUID(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	list, err := s.rewards.ListUserRewards(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &MyRewards{Points: u.Points, RewardTier: u.RewardTier, Rewards: list}, nil
}

// normalizeItems checks quantities and folds repeated reward ids into one
// line, keeping first-seen order.
func normalizeItems(items []RedeemItem) ([]repository.RedeemLine, error) {
	if len(items) == 0 {
		return nil, invalid("items", "at least one item is required")
	}
	idx := make(map[uint64]int, len(items))
	lines := make([]repository.RedeemLine, 0, len(items))
	for i, it := range items {
		if it.RewardID == 0 {
			return nil, invalid(fmt.Sprintf("items[%d].rewardId", i), "is required")
		}
		if it.Quantity < 1 || it.Quantity > MaxRedeemQuantity {
			return nil, invalid(fmt.Sprintf("items[%d].quantity", i), "must be between 1 and %d", MaxRedeemQuantity)
		}
		if j, ok := idx[it.RewardID]; ok {
			lines[j].Quantity += it.Quantity
			if lines[j].Quantity > MaxRedeemQuantity {
				return nil, invalid(fmt.Sprintf("items[%d].quantity", i), "must be between 1 and %d", MaxRedeemQuantity)
			}
			continue
		}
		idx[it.RewardID] = len(lines)
		lines = append(lines, repository.RedeemLine{RewardID: it.RewardID, Quantity: it.Quantity})
	}
	return lines, nil
}

func (s *redemptionService) Redeem(ctx context.Context, uid string, items []RedeemItem) (*RedeemResult, error) {
	lines, err := normalizeItems(items)
	if err != nil {
		return nil, err
	}
	u, err := callerByUID(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	rid := reqctx.RID(ctx)
	res, err := s.rewards.Redeem(ctx, u.ID, s.newToken(), lines)
	switch {
	case errors.Is(err, repository.ErrInsufficientPoints):
		log.Printf("[redeem] rid=%s uid=%s insufficient", rid, uid)
		return nil, ErrInsufficientPoints
	case errors.Is(err, repository.ErrRewardNotFound):
		return nil, invalid("items", "%s", err.Error())
	case err != nil:
		log.Printf("[redeem] rid=%s uid=%s err=%v", rid, uid, err)
		return nil, notFound(err)
	}
	log.Printf("[redeem] rid=%s uid=%s ref=%s spent=%d balance=%d units=%d",
		rid, uid, res.RedeemRef, res.Spent, res.NewPoints, len(res.Rewards))

	s.notifier.Notify(ctx, u.ID, model.NotificationTypeReward,
		"Reward redeemed",
		fmt.Sprintf("You spent %d points. Remaining balance: %d.", res.Spent, res.NewPoints),
		nil)

	return &RedeemResult{
		NewPoints:       res.NewPoints,
		Spent:           res.Spent,
		RedeemRef:       res.RedeemRef,
		RedeemedRewards: res.Rewards,
	}, nil
}
