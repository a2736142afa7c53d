package repository

import (
	"context"
	"testing"
	"time"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/rewards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileIsIdempotent(t *testing.T) {
	gdb := testDB(t)
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	u := seedUser(t, gdb, "donor-l", nil)

	fulfilled := now.Add(-time.Hour)
	rq := &model.Request{UserID: u.ID, BloodType: model.BloodTypeOPositive, Quantity: 1, Status: model.RequestStatusFulfilled, FulfilledAt: &fulfilled}
	require.NoError(t, gdb.Create(rq).Error)
	require.NoError(t, gdb.Create(&model.Request{UserID: u.ID, BloodType: model.BloodTypeOPositive, Quantity: 1, Status: model.RequestStatusPending}).Error)
	require.NoError(t, gdb.Create(&model.Referral{ReferrerID: u.ID, Name: "Friend", PhoneNumber: "9000000001", Status: model.ReferralStatusCompleted}).Error)
	require.NoError(t, gdb.Create(&model.Donation{UserID: u.ID, BloodType: model.BloodTypeOPositive, Quantity: 450, Status: model.DonationStatusCompleted, PointsEarned: 10, Date: now}).Error)

	repo := NewLedgerRepository(gdb)
	sum, err := repo.Reconcile(ctx, u.ID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum.CompletedRequests)
	assert.Equal(t, int64(1), sum.CompletedReferrals)
	assert.Equal(t, int64(1), sum.CompletedDonations)
	assert.Equal(t, int64(160), sum.TotalPoints)
	assert.Equal(t, int64(160), sum.Balance)
	assert.Equal(t, rewards.Classify(160), sum.RewardTier)
	assert.Equal(t, int64(3), sum.Inserted)
	assert.True(t, sum.Changed)

	var backfilled []model.Donation
	require.NoError(t, gdb.Where("request_id = ?", rq.ID).Find(&backfilled).Error)
	require.Len(t, backfilled, 1)
	assert.Equal(t, rewards.UnitML, backfilled[0].Quantity)
	assert.Equal(t, model.DonationStatusCompleted, backfilled[0].Status)

	again, err := repo.Reconcile(ctx, u.ID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, again.Inserted)
	assert.False(t, again.Changed)
	assert.Equal(t, sum.TotalPoints, again.TotalPoints)

	var donations int64
	require.NoError(t, gdb.Model(&model.Donation{}).Where("user_id = ?", u.ID).Count(&donations).Error)
	assert.Equal(t, int64(2), donations)

	var got model.User
	require.NoError(t, gdb.First(&got, u.ID).Error)
	assert.Equal(t, int64(160), got.Points)
	assert.Equal(t, string(rewards.Classify(160)), got.RewardTier)

	events, err := repo.ListEvents(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestReconcileKeepsRedemptionsInBalance(t *testing.T) {
	gdb := testDB(t)
	ctx := context.Background()
	u := seedUser(t, gdb, "donor-m", nil)
	for i := 0; i < 3; i++ {
		require.NoError(t, gdb.Create(&model.Referral{ReferrerID: u.ID, Name: "F", PhoneNumber: "900000000" + string(rune('1'+i)), Status: model.ReferralStatusCompleted}).Error)
	}
	repo := NewLedgerRepository(gdb)
	_, err := repo.Reconcile(ctx, u.ID, time.Now())
	require.NoError(t, err)

	rw := &model.Reward{Name: "Mug", PointsCost: 250, Active: true}
	require.NoError(t, gdb.Create(rw).Error)
	_, err = NewRewardRepository(gdb).Redeem(ctx, u.ID, "m1", []RedeemLine{{RewardID: rw.ID, Quantity: 1}})
	require.NoError(t, err)

	sum, err := repo.Reconcile(ctx, u.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(300), sum.TotalPoints, "tier is earned points")
	assert.Equal(t, int64(50), sum.Balance)
	assert.False(t, sum.Changed)
}
