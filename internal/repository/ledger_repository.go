package repository

import (
	"context"
	"time"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/rewards"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerSummary is the outcome of one reconciliation.
type LedgerSummary struct {
	CompletedRequests  int64
	CompletedReferrals int64
	CompletedDonations int64
	RequestPoints      int64
	ReferralPoints     int64
	DonationPoints     int64
	// TotalPoints is everything ever earned; it drives the tier.
	TotalPoints int64
	// Balance is earned minus redeemed.
	Balance    int64
	RewardTier rewards.Tier
	Inserted   int64
	Changed    bool
}

type LedgerRepository interface {
	Reconcile(ctx context.Context, userID uint64, now time.Time) (*LedgerSummary, error)
	Balance(ctx context.Context, userID uint64) (int64, error)
	ListEvents(ctx context.Context, userID uint64, limit int) ([]model.PointEvent, error)
	SetDB(db *gorm.DB)
}

type ledgerRepository struct {
	base
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	r := &ledgerRepository{}
	r.SetDB(db)
	return r
}

// Reconcile turns the user's completed facts into point events and refreshes
// the cached balance and tier. Each fact has a unique ref key, so running it
// again without new facts inserts nothing and writes nothing.
func (r *ledgerRepository) Reconcile(ctx context.Context, userID uint64, now time.Time) (*LedgerSummary, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	sum := &LedgerSummary{}
	err = db.Transaction(func(tx *gorm.DB) error {
		var u model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, userID).Error; err != nil {
			return err
		}

		var reqs []model.Request
		if err := tx.Where("user_id = ? AND status = ?", userID, model.RequestStatusFulfilled).
			Order("id ASC").Find(&reqs).Error; err != nil {
			return err
		}
		var refs []model.Referral
		if err := tx.Where("referrer_id = ? AND status = ?", userID, model.ReferralStatusCompleted).
			Order("id ASC").Find(&refs).Error; err != nil {
			return err
		}
		var dons []model.Donation
		if err := tx.Where("user_id = ? AND status = ? AND request_id IS NULL", userID, model.DonationStatusCompleted).
			Order("id ASC").Find(&dons).Error; err != nil {
			return err
		}

		events := make([]model.PointEvent, 0, len(reqs)+len(refs)+len(dons))
		for _, rq := range reqs {
			if err := backfillDonation(tx, rq, now); err != nil {
				return err
			}
			events = append(events, model.PointEvent{
				UserID: userID,
				Kind:   model.PointEventRequestFulfilled,
				Points: rewards.RequestFulfilledPoints,
				RefKey: rewards.RequestRef(rq.ID),
			})
		}
		for _, rf := range refs {
			events = append(events, model.PointEvent{
				UserID: userID,
				Kind:   model.PointEventReferralCompleted,
				Points: rewards.ReferralPoints,
				RefKey: rewards.ReferralRef(rf.ID),
			})
		}
		for _, d := range dons {
			events = append(events, model.PointEvent{
				UserID: userID,
				Kind:   model.PointEventDonationCompleted,
				Points: d.PointsEarned,
				RefKey: rewards.DonationRef(d.ID),
			})
			sum.DonationPoints += d.PointsEarned
		}
		if len(events) > 0 {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&events, 200)
			if res.Error != nil {
				return res.Error
			}
			sum.Inserted = res.RowsAffected
		}

		sum.CompletedRequests = int64(len(reqs))
		sum.CompletedReferrals = int64(len(refs))
		sum.CompletedDonations = int64(len(dons))
		sum.RequestPoints = sum.CompletedRequests * rewards.RequestFulfilledPoints
		sum.ReferralPoints = sum.CompletedReferrals * rewards.ReferralPoints
		sum.TotalPoints = sum.RequestPoints + sum.ReferralPoints + sum.DonationPoints

		balance, err := sumEvents(tx, userID)
		if err != nil {
			return err
		}
		sum.Balance = balance
		sum.RewardTier = rewards.Classify(sum.TotalPoints)

		if u.Points == balance && u.RewardTier == string(sum.RewardTier) {
			return nil
		}
		sum.Changed = true
		return tx.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"points":         balance,
			"reward_tier":    string(sum.RewardTier),
			"points_version": gorm.Expr("points_version + 1"),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// backfillDonation records the donation implied by a fulfilled request. The
// unique request_id index keeps it to one row per request.
func backfillDonation(tx *gorm.DB, rq model.Request, now time.Time) error {
	date := now
	if rq.FulfilledAt != nil {
		date = *rq.FulfilledAt
	}
	reqID := rq.ID
	d := model.Donation{
		UserID:       rq.UserID,
		CenterID:     rq.CenterID,
		RequestID:    &reqID,
		BloodType:    rq.BloodType,
		Quantity:     rewards.UnitML,
		Status:       model.DonationStatusCompleted,
		PointsEarned: rewards.RequestFulfilledPoints,
		Date:         date,
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&d).Error
}

func sumEvents(tx *gorm.DB, userID uint64) (int64, error) {
	var total int64
	err := tx.Model(&model.PointEvent{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	return total, err
}

func (r *ledgerRepository) Balance(ctx context.Context, userID uint64) (int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	return sumEvents(db, userID)
}

func (r *ledgerRepository) ListEvents(ctx context.Context, userID uint64, limit int) ([]model.PointEvent, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var list []model.PointEvent
	if err := db.Where("user_id = ?", userID).Order("id DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
