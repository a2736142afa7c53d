package repository

import (
	"context"
	"testing"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddStockAndFindSufficient(t *testing.T) {
	gdb := testDB(t)
	ctx := context.Background()
	center := &model.DonationCenter{Name: "Red Cross", City: "Pune"}
	require.NoError(t, gdb.Create(center).Error)
	repo := NewInventoryRepository(gdb)

	row, err := repo.AddStock(ctx, center.ID, model.BloodTypeAPositive, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, row.Quantity)
	require.NotNil(t, row.Center)
	assert.Equal(t, "Red Cross", row.Center.Name)

	row, err = repo.AddStock(ctx, center.ID, model.BloodTypeAPositive, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, row.Quantity)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := repo.FindSufficient(ctx, model.BloodTypeAPositive, 5)
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = repo.FindSufficient(ctx, model.BloodTypeAPositive, 6)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.FindSufficient(ctx, model.BloodTypeONegative, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReposAnswerNotReadyWithoutDB(t *testing.T) {
	ctx := context.Background()
	_, err := NewInventoryRepository(nil).List(ctx)
	assert.ErrorIs(t, err, ErrDBNotReady)
	_, err = NewLedgerRepository(nil).Balance(ctx, 1)
	assert.ErrorIs(t, err, ErrDBNotReady)
	_, err = NewRewardRepository(nil).Redeem(ctx, 1, "x", nil)
	assert.ErrorIs(t, err, ErrDBNotReady)
}
