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

// CartService keeps per-user carts. Quantities are checked against inventory
// when written but nothing is reserved; checkout checks again.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toCartResponse(ctx, cart)
}

func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req dto.AddCartItemRequest) (*dto.CartResponse, error) {
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	inCart := 0
	if existing := findByProduct(cart.Items, req.ProductID); existing != nil {
		inCart = existing.Quantity
	}
	if inCart+req.Quantity > product.Inventory {
		return nil, insufficient(product, inCart)
	}

	if err := s.cartRepo.AddItem(ctx, &model.CartItem{
		CartID:    cart.ID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}); err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*dto.CartResponse, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	item := findByID(cart.Items, itemID)
	if item == nil {
		return nil, ErrCartItemNotFound
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if quantity > product.Inventory {
		return nil, insufficient(product, 0)
	}

	if err := s.cartRepo.UpdateItem(ctx, &model.CartItem{ID: itemID, Quantity: quantity}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) (*dto.CartResponse, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if findByID(cart.Items, itemID) == nil {
		return nil, ErrCartItemNotFound
	}

	if err := s.cartRepo.DeleteItem(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("delete cart item: %w", err)
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return fmt.Errorf("get or create cart: %w", err)
	}
	if err := s.cartRepo.ClearCart(ctx, cart.ID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *CartService) loadCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}
	withItems, err := s.cartRepo.GetCartWithItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	if withItems == nil {
		return cart, nil
	}
	return withItems, nil
}

func (s *CartService) toCartResponse(ctx context.Context, cart *model.Cart) (*dto.CartResponse, error) {
	resp := &dto.CartResponse{ID: cart.ID, Items: make([]dto.CartItemResponse, 0, len(cart.Items))}
	if len(cart.Items) == 0 {
		resp.Subtotal = dto.Money(0)
		return resp, nil
	}

	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get cart products: %w", err)
	}

	for _, item := range cart.Items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		line := p.PriceCents * int64(item.Quantity)
		resp.Items = append(resp.Items, dto.CartItemResponse{
			ID:             item.ID,
			ProductID:      p.ID,
			Title:          p.Title,
			Slug:           p.Slug,
			ImageURL:       p.ImageURL,
			PriceCents:     p.PriceCents,
			Price:          dto.Money(p.PriceCents),
			Quantity:       item.Quantity,
			Available:      p.Inventory,
			LineTotalCents: line,
			LineTotal:      dto.Money(line),
		})
		resp.ItemCount += item.Quantity
		resp.SubtotalCents += line
	}
	resp.Subtotal = dto.Money(resp.SubtotalCents)
	return resp, nil
}

func insufficient(p *model.Product, inCart int) error {
	if inCart > 0 {
		return ErrInsufficientInventory.Withf("only %d of %q available and %d already in cart", p.Inventory, p.Title, inCart)
	}
	return ErrInsufficientInventory.Withf("only %d of %q available", p.Inventory, p.Title)
}

func findByID(items []model.CartItem, id uuid.UUID) *model.CartItem {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

func findByProduct(items []model.CartItem, productID uuid.UUID) *model.CartItem {
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i]
		}
	}
	return nil
}
