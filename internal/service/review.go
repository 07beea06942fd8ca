package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/flicky/storefront-api/internal/dto"
	"github.com/flicky/storefront-api/internal/model"
	"github.com/flicky/storefront-api/internal/repository"
)

// CacheInvalidator drops cached product reads after their data changed.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, ids ...uuid.UUID)
}

type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	products    CacheInvalidator
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, products CacheInvalidator) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, productRepo: productRepo, products: products}
}

// Create records the user's review and updates the product's mean rating.
// A user may review each product once.
func (s *ReviewService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	review := &model.Review{
		UserID: userID, ProductID: req.ProductID, Rating: req.Rating, Title: req.Title, Comment: req.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrProductNotFound
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	s.invalidate(ctx, review.ProductID)
	resp := toReviewResponse(review)
	return &resp, nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID, page dto.PageRequest) (*dto.ReviewListResponse, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	reviews, total, err := s.reviewRepo.ListByProductID(ctx, productID, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	resp := &dto.ReviewListResponse{
		Reviews: make([]dto.ReviewResponse, 0, len(reviews)), Total: total, Page: page.Page, Limit: page.Limit,
	}
	for i := range reviews {
		resp.Reviews = append(resp.Reviews, toReviewResponse(&reviews[i]))
	}
	return resp, nil
}

// Delete removes the user's own review.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("get review: %w", err)
	}
	if review == nil || review.UserID != userID {
		return ErrReviewNotFound
	}
	if err := s.reviewRepo.Delete(ctx, review); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("delete review: %w", err)
	}
	s.invalidate(ctx, review.ProductID)
	return nil
}

func (s *ReviewService) invalidate(ctx context.Context, productID uuid.UUID) {
	if s.products != nil {
		s.products.Invalidate(ctx, productID)
	}
}
