package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/storefront-api/internal/dto"
	"github.com/flicky/storefront-api/internal/model"
)

func TestCartService_AddItem(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	p := productRepo.add(model.Product{Title: "Lamp", PriceCents: 1250, Inventory: 100})
	svc := NewCartService(cartRepo, productRepo)

	resp, err := svc.AddItem(context.Background(), uuid.New(), dto.AddCartItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.ItemCount)
	assert.Equal(t, int64(2500), resp.SubtotalCents)
	assert.Equal(t, "25.00", resp.Subtotal.StringFixed(2))
}

func TestCartService_AddItem_ProductNotFound(t *testing.T) {
	svc := NewCartService(newMockCartRepo(), newMockProductRepo())
	_, err := svc.AddItem(context.Background(), uuid.New(), dto.AddCartItemRequest{ProductID: uuid.New(), Quantity: 2})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddItem_ExceedsInventory(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	p := productRepo.add(model.Product{Title: "Lamp", PriceCents: 100, Inventory: 3})
	svc := NewCartService(cartRepo, productRepo)

	_, err := svc.AddItem(context.Background(), uuid.New(), dto.AddCartItemRequest{ProductID: p.ID, Quantity: 4})
	assert.ErrorIs(t, err, ErrInsufficientInventory)
	assert.Empty(t, cartRepo.items)
}

func TestCartService_AddItem_CountsQuantityAlreadyInCart(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	p := productRepo.add(model.Product{Title: "Lamp", PriceCents: 100, Inventory: 3})
	svc := NewCartService(cartRepo, productRepo)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, dto.AddCartItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, userID, dto.AddCartItemRequest{ProductID: p.ID, Quantity: 2})
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	resp, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
}

func TestCartService_UpdateItem(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	p := productRepo.add(model.Product{Title: "Lamp", PriceCents: 100, Inventory: 5})
	svc := NewCartService(cartRepo, productRepo)
	userID := uuid.New()
	ctx := context.Background()

	resp, err := svc.AddItem(ctx, userID, dto.AddCartItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	itemID := resp.Items[0].ID

	resp, err = svc.UpdateItem(ctx, userID, itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Items[0].Quantity)

	_, err = svc.UpdateItem(ctx, userID, itemID, 6)
	assert.ErrorIs(t, err, ErrInsufficientInventory)
	assert.Equal(t, 5, cartRepo.items[itemID].Quantity)

	_, err = svc.UpdateItem(ctx, uuid.New(), itemID, 1)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_DeleteItem(t *testing.T) {
	cartRepo := newMockCartRepo()
	svc := NewCartService(cartRepo, newMockProductRepo())
	userID := uuid.New()
	cart, _ := cartRepo.GetOrCreateCart(context.Background(), userID)
	item := &model.CartItem{ID: uuid.New(), CartID: cart.ID, ProductID: uuid.New(), Quantity: 1}
	cartRepo.items[item.ID] = item

	_, err := svc.DeleteItem(context.Background(), uuid.New(), item.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	_, err = svc.DeleteItem(context.Background(), userID, item.ID)
	require.NoError(t, err)
	assert.Empty(t, cartRepo.items)
}

func TestCartService_Clear(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	p := productRepo.add(model.Product{Title: "Lamp", PriceCents: 100, Inventory: 5})
	svc := NewCartService(cartRepo, productRepo)
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, dto.AddCartItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, svc.Clear(context.Background(), userID))

	resp, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Zero(t, resp.SubtotalCents)
}
