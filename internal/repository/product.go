package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flicky/storefront-api/internal/model"
)

type ProductFilter struct {
	Search     string
	CategoryID *uuid.UUID
	Sort       string
	Order      string
	Limit      int
	Offset     int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product, setInventory bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

const productColumns = `id, title, slug, description, price_cents, original_price_cents, discount_percent,
	inventory, category_id, image_url, rating, review_count, created_at, updated_at`

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.PriceCents, &p.OriginalPriceCents, &p.DiscountPercent,
		&p.Inventory, &p.CategoryID, &p.ImageURL, &p.Rating, &p.ReviewCount, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *pgProductRepo) Create(ctx context.Context, p *model.Product) error {
	p.ID = uuid.New()
	query := `INSERT INTO products (id, title, slug, description, price_cents, original_price_cents,
				discount_percent, inventory, category_id, image_url, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()) RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Title, p.Slug, p.Description, p.PriceCents, p.OriginalPriceCents,
		p.DiscountPercent, p.Inventory, p.CategoryID, p.ImageURL,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

func (r *pgProductRepo) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
}

func (r *pgProductRepo) getOne(ctx context.Context, query string, arg any) (*model.Product, error) {
	p := &model.Product{}
	if err := scanProduct(r.pool.QueryRow(ctx, query, arg), p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *pgProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	defer rows.Close()

	products := make(map[uuid.UUID]*model.Product, len(ids))
	for rows.Next() {
		p := &model.Product{}
		if err := scanProduct(rows, p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products[p.ID] = p
	}
	return products, rows.Err()
}

func (r *pgProductRepo) List(ctx context.Context, f ProductFilter) ([]model.Product, int, error) {
	allowedSorts := map[string]string{
		"title": "title", "price": "price_cents", "rating": "rating", "created_at": "created_at",
	}
	sortCol, ok := allowedSorts[f.Sort]
	if !ok {
		sortCol = "created_at"
	}
	order := f.Order
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	where := `($1 = '' OR title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		AND ($2::uuid IS NULL OR category_id = $2)`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+where, f.Search, f.CategoryID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY %s %s, id LIMIT $3 OFFSET $4`,
		productColumns, where, sortCol, order)
	rows, err := r.pool.Query(ctx, query, f.Search, f.CategoryID, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

// Update writes the catalog fields of p. Inventory is only written when
// setInventory is true; otherwise the stored value is kept and read back into
// p, so an edit never undoes a decrement committed after p was loaded.
func (r *pgProductRepo) Update(ctx context.Context, p *model.Product, setInventory bool) error {
	query := `UPDATE products SET title=$2, slug=$3, description=$4, price_cents=$5, original_price_cents=$6,
				discount_percent=$7, inventory=CASE WHEN $11 THEN $8 ELSE inventory END,
				category_id=$9, image_url=$10, updated_at=NOW()
			  WHERE id=$1 RETURNING inventory, updated_at`
	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Title, p.Slug, p.Description, p.PriceCents, p.OriginalPriceCents,
		p.DiscountPercent, p.Inventory, p.CategoryID, p.ImageURL, setInventory,
	).Scan(&p.Inventory, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrReferenced
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
