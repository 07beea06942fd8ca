package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/storefront-api/internal/dto"
)

func addressRequest(isDefault bool) dto.AddressRequest {
	return dto.AddressRequest{
		FullName: "Jane Doe", Line1: "1 Main St", City: "Springfield",
		PostalCode: "12345", Country: "us", IsDefault: isDefault,
	}
}

func defaults(t *testing.T, svc *AddressService, userID uuid.UUID) []uuid.UUID {
	t.Helper()
	list, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	var ids []uuid.UUID
	for _, a := range list {
		if a.IsDefault {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func TestAddressService_FirstAddressIsDefault(t *testing.T) {
	svc := NewAddressService(newMockAddressRepo())
	userID := uuid.New()

	a, err := svc.Create(context.Background(), userID, addressRequest(false))
	require.NoError(t, err)
	assert.True(t, a.IsDefault)
	assert.Equal(t, "US", a.Country)
}

func TestAddressService_SingleDefault(t *testing.T) {
	svc := NewAddressService(newMockAddressRepo())
	userID := uuid.New()
	ctx := context.Background()

	a, err := svc.Create(ctx, userID, addressRequest(true))
	require.NoError(t, err)
	b, err := svc.Create(ctx, userID, addressRequest(true))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b.ID}, defaults(t, svc, userID))

	_, err = svc.SetDefault(ctx, userID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID}, defaults(t, svc, userID))

	_, err = svc.Update(ctx, userID, b.ID, addressRequest(true))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b.ID}, defaults(t, svc, userID))
}

func TestAddressService_Ownership(t *testing.T) {
	svc := NewAddressService(newMockAddressRepo())
	owner := uuid.New()
	stranger := uuid.New()
	ctx := context.Background()

	a, err := svc.Create(ctx, owner, addressRequest(true))
	require.NoError(t, err)

	_, err = svc.Get(ctx, stranger, a.ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)
	_, err = svc.Update(ctx, stranger, a.ID, addressRequest(false))
	assert.ErrorIs(t, err, ErrAddressNotFound)
	_, err = svc.SetDefault(ctx, stranger, a.ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, stranger, a.ID), ErrAddressNotFound)
}

func TestAddressService_DeleteReferenced(t *testing.T) {
	repo := newMockAddressRepo()
	svc := NewAddressService(repo)
	userID := uuid.New()
	ctx := context.Background()

	a, err := svc.Create(ctx, userID, addressRequest(true))
	require.NoError(t, err)
	repo.referenced[a.ID] = true
	assert.ErrorIs(t, svc.Delete(ctx, userID, a.ID), ErrAddressInUse)

	repo.referenced[a.ID] = false
	require.NoError(t, svc.Delete(ctx, userID, a.ID))
}
