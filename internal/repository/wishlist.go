package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flicky/storefront-api/internal/model"
)

type WishlistRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error)
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

type pgWishlistRepo struct{ pool *pgxpool.Pool }

func NewWishlistRepository(pool *pgxpool.Pool) WishlistRepository {
	return &pgWishlistRepo{pool: pool}
}

func (r *pgWishlistRepo) List(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT w.id, w.user_id, w.created_at, p.id, p.title, p.slug, p.description, p.price_cents,
			p.original_price_cents, p.discount_percent, p.inventory, p.category_id, p.image_url,
			p.rating, p.review_count, p.created_at, p.updated_at
		 FROM wishlist_items w JOIN products p ON p.id = w.product_id
		 WHERE w.user_id = $1 ORDER BY w.created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	var items []model.WishlistItem
	for rows.Next() {
		item := model.WishlistItem{Product: &model.Product{}}
		p := item.Product
		if err := rows.Scan(&item.ID, &item.UserID, &item.CreatedAt, &p.ID, &p.Title, &p.Slug, &p.Description,
			&p.PriceCents, &p.OriginalPriceCents, &p.DiscountPercent, &p.Inventory, &p.CategoryID, &p.ImageURL,
			&p.Rating, &p.ReviewCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		item.ProductID = p.ID
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *pgWishlistRepo) Add(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO wishlist_items (id, user_id, product_id, created_at) VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (user_id, product_id) DO NOTHING`,
		uuid.New(), userID, productID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("add wishlist item: %w", err)
	}
	return nil
}

func (r *pgWishlistRepo) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`, userID, productID,
	)
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
