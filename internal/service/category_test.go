package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/storefront-api/internal/apperr"
	"github.com/flicky/storefront-api/internal/dto"
)

func TestCategoryService_CRUD(t *testing.T) {
	svc := NewCategoryService(newMockCategoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CategoryRequest{Name: "Desk Lamps"})
	require.NoError(t, err)
	assert.Equal(t, "desk-lamps", created.Slug)

	_, err = svc.Create(ctx, dto.CategoryRequest{Name: "Desk lamps"})
	assert.ErrorIs(t, err, ErrSlugTaken)

	got, err := svc.GetBySlug(ctx, "desk-lamps")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	updated, err := svc.Update(ctx, created.ID, dto.CategoryRequest{Name: "Lamps", Slug: "lamps"})
	require.NoError(t, err)
	assert.Equal(t, "lamps", updated.Slug)

	_, err = svc.Update(ctx, created.ID, dto.CategoryRequest{Name: "Lamps", Slug: "Not A Slug"})
	assert.Equal(t, apperr.KindValidation, apperr.From(err).Kind)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetBySlug(ctx, "lamps")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), ErrCategoryNotFound)
}
