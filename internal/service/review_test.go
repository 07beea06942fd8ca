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

func TestReviewService_RatingIsMean(t *testing.T) {
	products := newMockProductRepo()
	p := products.add(model.Product{Title: "Lamp"})
	invalidator := &recordingInvalidator{}
	svc := NewReviewService(newMockReviewRepo(products), products, invalidator)
	ctx := context.Background()

	for _, rating := range []int{5, 3, 4, 1} {
		_, err := svc.Create(ctx, uuid.New(), dto.CreateReviewRequest{ProductID: p.ID, Rating: rating})
		require.NoError(t, err)
	}
	assert.InDelta(t, 3.25, products.products[p.ID].Rating, 1e-9)
	assert.Equal(t, 4, products.products[p.ID].ReviewCount)
	assert.Len(t, invalidator.ids, 4)
}

func TestReviewService_DuplicateReview(t *testing.T) {
	products := newMockProductRepo()
	p := products.add(model.Product{Title: "Lamp"})
	svc := NewReviewService(newMockReviewRepo(products), products, nil)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, userID, dto.CreateReviewRequest{ProductID: p.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.Create(ctx, userID, dto.CreateReviewRequest{ProductID: p.ID, Rating: 1})
	assert.ErrorIs(t, err, ErrDuplicateReview)
	assert.InDelta(t, 5.0, products.products[p.ID].Rating, 1e-9)
}

func TestReviewService_Validation(t *testing.T) {
	products := newMockProductRepo()
	p := products.add(model.Product{Title: "Lamp"})
	svc := NewReviewService(newMockReviewRepo(products), products, nil)
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(ctx, uuid.New(), dto.CreateReviewRequest{ProductID: p.ID, Rating: rating})
		assert.ErrorIs(t, err, ErrInvalidRating)
	}
	_, err := svc.Create(ctx, uuid.New(), dto.CreateReviewRequest{ProductID: uuid.New(), Rating: 3})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestReviewService_Delete(t *testing.T) {
	products := newMockProductRepo()
	p := products.add(model.Product{Title: "Lamp"})
	svc := NewReviewService(newMockReviewRepo(products), products, nil)
	author := uuid.New()
	ctx := context.Background()

	rv, err := svc.Create(ctx, author, dto.CreateReviewRequest{ProductID: p.ID, Rating: 4})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, uuid.New(), rv.ID), ErrReviewNotFound)
	require.NoError(t, svc.Delete(ctx, author, rv.ID))
	assert.Zero(t, products.products[p.ID].Rating)
	assert.Zero(t, products.products[p.ID].ReviewCount)

	list, err := svc.ListByProduct(ctx, p.ID, dto.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, list.Total)

	_, err = svc.ListByProduct(ctx, uuid.New(), dto.PageRequest{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, ErrProductNotFound)
}
