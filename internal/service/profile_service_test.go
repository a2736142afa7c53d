package service

import (
	"context"
	"testing"
	"time"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupReferrals struct {
	ReferralService
	phones []string
}

func (s *signupReferrals) CompleteBySignup(_ context.Context, phone string) (int, error) {
	s.phones = append(s.phones, phone)
	return 1, nil
}

func TestProfileSync(t *testing.T) {
	users := newFakeUsers()
	refs := &signupReferrals{}
	s := NewProfileService(users, refs)
	ctx := context.Background()

	u, err := s.Sync(ctx, Identity{UID: "u1", Email: "  Asha@Example.COM ", PhoneNumber: "9876543210"}, true)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.Equal(t, []string{"9876543210"}, refs.phones)

	_, err = s.Sync(ctx, Identity{UID: "u1", Email: "asha@example.com", PhoneNumber: "9876543210"}, false)
	require.NoError(t, err)
	assert.Len(t, refs.phones, 1, "updates do not complete referrals")

	_, err = s.Sync(ctx, Identity{UID: "u2"}, true)
	assert.True(t, IsValidation(err))
}

func TestProfileEligibility(t *testing.T) {
	last := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
	users := newFakeUsers(
		&model.User{ID: 1, UID: "new"},
		&model.User{ID: 2, UID: "recent", LastDonation: &last},
	)
	s := NewProfileService(users, nil).(*profileService)
	ctx := context.Background()

	s.now = fixedNow(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	e, err := s.Eligibility(ctx, "new")
	require.NoError(t, err)
	assert.True(t, e.CanDonate)
	assert.Nil(t, e.NextEligibleDate)

	e, err = s.Eligibility(ctx, "recent")
	require.NoError(t, err)
	assert.False(t, e.CanDonate)
	require.NotNil(t, e.NextEligibleDate)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), *e.NextEligibleDate)

	s.now = fixedNow(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	e, err = s.Eligibility(ctx, "recent")
	require.NoError(t, err)
	assert.True(t, e.CanDonate)
}

func TestProfileIsAdmin(t *testing.T) {
	users := newFakeUsers(
		&model.User{ID: 1, UID: "admin", Role: model.RoleAdmin},
		&model.User{ID: 2, UID: "root", Role: model.RoleSuperAdmin},
		&model.User{ID: 3, UID: "donor", Role: model.RoleUser},
	)
	s := NewProfileService(users, nil)
	ctx := context.Background()

	for uid, want := range map[string]bool{"admin": true, "root": true, "donor": false, "ghost": false, "": false} {
		got, err := s.IsAdmin(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, want, got, uid)
	}
}

func TestProfileSyncFirstSignInCompletesReferrals(t *testing.T) {
	users := newFakeUsers(&model.User{ID: 1, UID: "known", Email: "known@example.com"})
	refs := &signupReferrals{}
	s := NewProfileService(users, refs)
	ctx := context.Background()

	// /me/sync never flags created; the insert alone marks the sign-up
	_, err := s.Sync(ctx, Identity{UID: "fresh", Email: "fresh@example.com", PhoneNumber: "9000000001"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"9000000001"}, refs.phones)

	_, err = s.Sync(ctx, Identity{UID: "known", Email: "known@example.com", PhoneNumber: "9000000002"}, false)
	require.NoError(t, err)
	assert.Len(t, refs.phones, 1)
}

func TestProfileSyncFromWebhook(t *testing.T) {
	users := newFakeUsers()
	s := NewProfileService(users, &signupReferrals{})
	ctx := context.Background()

	u, err := s.Sync(ctx, Identity{ExternalID: "user_2abc", Email: "w@example.com"}, true)
	require.NoError(t, err)
	assert.Equal(t, model.PendingUID("user_2abc"), u.UID)
	require.Len(t, users.upserted, 1)
	assert.Empty(t, users.upserted[0].UID, "webhook ids never land in uid")
	require.NotNil(t, users.upserted[0].ExternalID)
	assert.Equal(t, "user_2abc", *users.upserted[0].ExternalID)
}

func TestProfileUpdatePhoneCompletesReferrals(t *testing.T) {
	users := newFakeUsers(
		&model.User{ID: 1, UID: "nophone"},
		&model.User{ID: 2, UID: "hasphone", PhoneNumber: "9111111111"},
	)
	refs := &signupReferrals{}
	s := NewProfileService(users, refs)
	ctx := context.Background()

	phone := " 9222222222 "
	u, err := s.Update(ctx, "nophone", ProfileUpdate{PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, "9222222222", u.PhoneNumber)
	assert.Equal(t, []string{"9222222222"}, refs.phones)

	other := "9333333333"
	_, err = s.Update(ctx, "hasphone", ProfileUpdate{PhoneNumber: &other})
	require.NoError(t, err)
	assert.Len(t, refs.phones, 1, "changing an existing phone is not a sign-up")
}

func TestProfileFeedbacks(t *testing.T) {
	text := func(s string) *string { return &s }
	users := newFakeUsers()
	users.feedback = []model.User{
		{ID: 4, FirstName: "Arjun", LastName: "Mehta", Feedback: text(" Great staff. ")},
		{ID: 7, Feedback: text("Quick and clean.")},
	}
	s := NewProfileService(users, nil)

	list, err := s.Feedbacks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Feedback{
		{ID: 4, Name: "Arjun Mehta", Feedback: "Great staff."},
		{ID: 7, Name: "Anonymous Donor", Feedback: "Quick and clean."},
	}, list)

	msg := "Will donate again"
	_, err = s.Update(context.Background(), "ghost", ProfileUpdate{Feedback: &msg})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileListUsers(t *testing.T) {
	users := newFakeUsers(
		&model.User{ID: 1, UID: "a"},
		&model.User{ID: 2, UID: "b"},
		&model.User{ID: 3, UID: "c"},
	)
	list, total, err := NewProfileService(users, nil).ListUsers(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 2)
	assert.Equal(t, uint64(2), list[0].ID)
	assert.Equal(t, uint64(3), list[1].ID)
}
