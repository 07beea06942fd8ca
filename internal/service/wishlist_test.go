package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/storefront-api/internal/model"
)

func TestWishlistService_AddIsIdempotent(t *testing.T) {
	products := newMockProductRepo()
	p := products.add(model.Product{Title: "Lamp", PriceCents: 1999})
	svc := NewWishlistService(newMockWishlistRepo(products))
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.Add(ctx, userID, p.ID)
	require.NoError(t, err)
	items, err := svc.Add(ctx, userID, p.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "19.99", items[0].Product.Price.StringFixed(2))
}

func TestWishlistService_Errors(t *testing.T) {
	products := newMockProductRepo()
	p := products.add(model.Product{Title: "Lamp"})
	svc := NewWishlistService(newMockWishlistRepo(products))
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.Add(ctx, userID, uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, svc.Remove(ctx, userID, p.ID), ErrWishlistItemNotFound)
	_, err = svc.Add(ctx, userID, p.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, userID, p.ID))

	items, err := svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
