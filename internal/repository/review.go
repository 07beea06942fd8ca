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

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	ListByProductID(ctx context.Context, productID uuid.UUID, limit, offset int) ([]model.Review, int, error)
	Delete(ctx context.Context, review *model.Review) error
}

type pgReviewRepo struct{ pool *pgxpool.Pool }

func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &pgReviewRepo{pool: pool}
}

const reviewColumns = `id, user_id, product_id, rating, title, comment, created_at, updated_at`

func scanReview(row pgx.Row, rv *model.Review) error {
	return row.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Title, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
}

// Create inserts the review and recomputes the product's mean rating in the
// same transaction. The product row is locked first so concurrent reviews
// of one product recompute in sequence.
func (r *pgReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockProduct(ctx, tx, rv.ProductID); err != nil {
		return err
	}

	rv.ID = uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO reviews (id, user_id, product_id, rating, title, comment, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW()) RETURNING created_at, updated_at`,
		rv.ID, rv.UserID, rv.ProductID, rv.Rating, rv.Title, rv.Comment,
	).Scan(&rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert review: %w", err)
	}

	if err := recomputeRating(ctx, tx, rv.ProductID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *pgReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	rv := &model.Review{}
	if err := scanReview(r.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id), rv); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return rv, nil
}

func (r *pgReviewRepo) ListByProductID(ctx context.Context, productID uuid.UUID, limit, offset int) ([]model.Review, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE product_id = $1`, productID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE product_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`,
		productID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var rv model.Review
		if err := scanReview(rows, &rv); err != nil {
			return nil, 0, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, total, rows.Err()
}

func (r *pgReviewRepo) Delete(ctx context.Context, rv *model.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockProduct(ctx, tx, rv.ProductID); err != nil {
		return err
	}
	ct, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, rv.ID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	if err := recomputeRating(ctx, tx, rv.ProductID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func lockProduct(ctx context.Context, tx pgx.Tx, productID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock product: %w", err)
	}
	return nil
}

func recomputeRating(ctx context.Context, tx pgx.Tx, productID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE products SET
			rating = COALESCE((SELECT AVG(rating)::float8 FROM reviews WHERE product_id = $1), 0),
			review_count = (SELECT COUNT(*) FROM reviews WHERE product_id = $1),
			updated_at = NOW()
		 WHERE id = $1`, productID,
	)
	if err != nil {
		return fmt.Errorf("recompute rating: %w", err)
	}
	return nil
}
