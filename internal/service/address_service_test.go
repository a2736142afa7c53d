package service

import (
	"context"
	"testing"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressCreate(t *testing.T) {
	users := newFakeUsers(&model.User{ID: 3, UID: "u3"})
	addrs := &fakeAddresses{}
	s := NewAddressService(users, addrs)
	ctx := context.Background()

	full := AddressInput{Street: "12 Lake Rd", City: "Kolkata", State: "WB", PostalCode: "700029"}
	for _, blank := range []func(in *AddressInput){
		func(in *AddressInput) { in.Street = " " },
		func(in *AddressInput) { in.City = "" },
		func(in *AddressInput) { in.State = "" },
		func(in *AddressInput) { in.PostalCode = "" },
	} {
		in := full
		blank(&in)
		_, err := s.Create(ctx, "u3", in)
		assert.True(t, IsValidation(err), "%+v", in)
	}

	_, err := s.Create(ctx, "ghost", full)
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := s.Create(ctx, "u3", AddressInput{Street: "12 Lake Rd", City: "Kolkata", State: "WB", PostalCode: "700029", IsPrimary: true})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCountry, first.Country)
	assert.Equal(t, uint64(3), first.UserID)

	second, err := s.Create(ctx, "u3", AddressInput{Street: "5 Elgin Rd", City: "Kolkata", State: "WB", PostalCode: "700020", Country: "India", IsPrimary: true})
	require.NoError(t, err)

	list, err := s.List(ctx, "u3")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].IsPrimary)
	assert.Equal(t, second.ID, list[1].ID)
	assert.True(t, list[1].IsPrimary)
}
