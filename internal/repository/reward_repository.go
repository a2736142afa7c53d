package repository

import (
	"context"
	"fmt"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/rewards"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RedeemLine is one catalog entry and the number of units to redeem.
type RedeemLine struct {
	RewardID uint64
	Quantity int
}

type RedeemResult struct {
	RedeemRef string
	Spent     int64
	NewPoints int64
	Rewards   []model.UserReward
}

type RewardRepository interface {
	ListCatalog(ctx context.Context) ([]model.Reward, error)
	ListUserRewards(ctx context.Context, userID uint64) ([]model.UserReward, error)
	Redeem(ctx context.Context, userID uint64, token string, lines []RedeemLine) (*RedeemResult, error)
	UpsertCatalog(ctx context.Context, r *model.Reward) error
	SetDB(db *gorm.DB)
}

type rewardRepository struct {
	base
}

func NewRewardRepository(db *gorm.DB) RewardRepository {
	r := &rewardRepository{}
	r.SetDB(db)
	return r
}

func (r *rewardRepository) ListCatalog(ctx context.Context) ([]model.Reward, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.Reward
	if err := db.Where("active = ?", true).Order("points_cost ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *rewardRepository) ListUserRewards(ctx context.Context, userID uint64) ([]model.UserReward, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.UserReward
	if err := db.Preload("Reward").
		Where("user_id = ?", userID).
		Order("redeemed_at DESC").Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Redeem spends points on lines inside one transaction. The user row is held
// with SELECT ... FOR UPDATE, so concurrent redemptions for the same user run
// one after another and the balance check always sees committed spending.
// The balance is read from the event log, not the cached users.points.
func (r *rewardRepository) Redeem(ctx context.Context, userID uint64, token string, lines []RedeemLine) (*RedeemResult, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	out := &RedeemResult{RedeemRef: rewards.RedeemRef(token)}
	err = db.Transaction(func(tx *gorm.DB) error {
		var u model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, userID).Error; err != nil {
			return err
		}

		ids := make([]uint64, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.RewardID)
		}
		var catalog []model.Reward
		if err := tx.Where("id IN ? AND active = ?", ids, true).Find(&catalog).Error; err != nil {
			return err
		}
		byID := make(map[uint64]model.Reward, len(catalog))
		for _, rw := range catalog {
			byID[rw.ID] = rw
		}

		var total int64
		for _, l := range lines {
			rw, ok := byID[l.RewardID]
			if !ok {
				return fmt.Errorf("%w: %d", ErrRewardNotFound, l.RewardID)
			}
			total += rw.PointsCost * int64(l.Quantity)
		}
		balance, err := sumEvents(tx, userID)
		if err != nil {
			return err
		}
		if balance < total {
			return ErrInsufficientPoints
		}

		ev := model.PointEvent{
			UserID: userID,
			Kind:   model.PointEventRedemption,
			Points: -total,
			RefKey: out.RedeemRef,
		}
		if err := tx.Create(&ev).Error; err != nil {
			return err
		}

		rows := make([]model.UserReward, 0)
		for _, l := range lines {
			for i := 0; i < l.Quantity; i++ {
				rows = append(rows, model.UserReward{
					UserID:    userID,
					RewardID:  l.RewardID,
					RedeemRef: out.RedeemRef,
				})
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			rw := byID[rows[i].RewardID]
			rows[i].Reward = &rw
		}

		newPoints := balance - total
		if err := tx.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"points":         newPoints,
			"points_version": gorm.Expr("points_version + 1"),
		}).Error; err != nil {
			return err
		}

		out.Spent = total
		out.NewPoints = newPoints
		out.Rewards = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *rewardRepository) UpsertCatalog(ctx context.Context, rw *model.Reward) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "points_cost", "image_url", "active"}),
	}).Create(rw).Error
}
