package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/flicky/storefront-api/internal/apperr"
	"github.com/flicky/storefront-api/internal/cache"
	"github.com/flicky/storefront-api/internal/dto"
	"github.com/flicky/storefront-api/internal/model"
	"github.com/flicky/storefront-api/internal/repository"
)

type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        cache.ProductCache
	sfg          singleflight.Group
	log          *slog.Logger
}

// NewProductService builds the catalog service. productCache may be nil, in
// which case every read goes to the database.
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	productCache cache.ProductCache,
	log *slog.Logger,
) *ProductService {
	return &ProductService{productRepo: productRepo, categoryRepo: categoryRepo, cache: productCache, log: log}
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &model.Product{
		Title:              req.Title,
		Slug:               req.Slug,
		Description:        req.Description,
		PriceCents:         *req.PriceCents,
		OriginalPriceCents: req.OriginalPriceCents,
		DiscountPercent:    req.DiscountPercent,
		Inventory:          *req.Inventory,
		CategoryID:         req.CategoryID,
		ImageURL:           req.ImageURL,
	}
	if product.Slug == "" {
		product.Slug = slugify(product.Title)
	}
	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	resp := toProductResponse(product)
	return &resp, nil
}

// Get resolves a product by id or, failing that, by slug.
func (s *ProductService) Get(ctx context.Context, idOrSlug string) (*dto.ProductResponse, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return s.GetByID(ctx, id)
	}
	product, err := s.productRepo.GetBySlug(ctx, idOrSlug)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	resp := toProductResponse(product)
	return &resp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(product)
	return &resp, nil
}

// load reads through the cache. Concurrent misses for one id share a single
// database read.
func (s *ProductService) load(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	v, err, _ := s.sfg.Do(id.String(), func() (interface{}, error) {
		if s.cache != nil {
			cached, err := s.cache.Get(ctx, id)
			if err == nil {
				return cached, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				s.log.Warn("product cache get", "product_id", id, "error", err)
			}
		}

		product, err := s.productRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		if product == nil {
			return nil, ErrProductNotFound
		}

		if s.cache != nil {
			if err := s.cache.Set(ctx, product); err != nil {
				s.log.Warn("product cache set", "product_id", id, "error", err)
			}
		}
		return product, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Product), nil
}

func (s *ProductService) List(ctx context.Context, req dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	filter := repository.ProductFilter{
		Search: req.Search, Sort: req.Sort, Order: req.Order,
		Limit: req.Limit, Offset: req.Offset(),
	}
	if req.Category != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, req.Category)
		if err != nil {
			return nil, fmt.Errorf("get category: %w", err)
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		filter.CategoryID = &category.ID
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	return &dto.ProductListResponse{Products: items, Total: total, Page: req.Page, Limit: req.Limit}, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Slug != nil {
		product.Slug = *req.Slug
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.PriceCents != nil {
		product.PriceCents = *req.PriceCents
	}
	if req.OriginalPriceCents != nil {
		product.OriginalPriceCents = req.OriginalPriceCents
	}
	if req.DiscountPercent != nil {
		product.DiscountPercent = req.DiscountPercent
	}
	if req.Inventory != nil {
		product.Inventory = *req.Inventory
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product, req.Inventory != nil); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrProductNotFound
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.Invalidate(ctx, id)
	resp := toProductResponse(product)
	return &resp, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrProductNotFound
		case errors.Is(err, repository.ErrReferenced):
			return ErrProductInUse
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.Invalidate(ctx, id)
	return nil
}

// Invalidate drops cached entries for the given products.
func (s *ProductService) Invalidate(ctx context.Context, ids ...uuid.UUID) {
	if s.cache == nil {
		return
	}
	for _, id := range ids {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.Warn("product cache delete", "product_id", id, "error", err)
		}
	}
}

func (s *ProductService) validate(ctx context.Context, p *model.Product) error {
	if p.Slug == "" || p.Slug != slugify(p.Slug) {
		return apperr.Validation("slug must contain only lowercase letters, digits and single dashes")
	}
	if p.OriginalPriceCents != nil && *p.OriginalPriceCents < p.PriceCents {
		return apperr.Validation("original price must not be lower than the price")
	}
	if p.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *p.CategoryID)
		if err != nil {
			return fmt.Errorf("get category: %w", err)
		}
		if category == nil {
			return ErrCategoryNotFound
		}
	}
	return nil
}
