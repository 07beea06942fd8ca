package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/flicky/storefront-api/internal/dto"
	"github.com/flicky/storefront-api/internal/repository"
)

type WishlistService struct {
	wishlistRepo repository.WishlistRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo}
}

func (s *WishlistService) List(ctx context.Context, userID uuid.UUID) ([]dto.WishlistItemResponse, error) {
	items, err := s.wishlistRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	resp := make([]dto.WishlistItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, dto.WishlistItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Product:   toProductResponse(item.Product),
			AddedAt:   item.CreatedAt,
		})
	}
	return resp, nil
}

// Add puts a product on the wishlist. Adding it twice is a no-op.
func (s *WishlistService) Add(ctx context.Context, userID, productID uuid.UUID) ([]dto.WishlistItemResponse, error) {
	if err := s.wishlistRepo.Add(ctx, userID, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("add wishlist item: %w", err)
	}
	return s.List(ctx, userID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.wishlistRepo.Remove(ctx, userID, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWishlistItemNotFound
		}
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	return nil
}
