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

type AddressRepository interface {
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error)
	Create(ctx context.Context, address *model.Address) error
	Update(ctx context.Context, address *model.Address) error
	SetDefault(ctx context.Context, userID, id uuid.UUID) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type pgAddressRepo struct{ pool *pgxpool.Pool }

func NewAddressRepository(pool *pgxpool.Pool) AddressRepository {
	return &pgAddressRepo{pool: pool}
}

const addressColumns = `id, user_id, full_name, phone, line1, line2, city, state, postal_code, country,
	is_default, created_at, updated_at`

func scanAddress(row pgx.Row, a *model.Address) error {
	return row.Scan(
		&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.Line1, &a.Line2, &a.City, &a.State,
		&a.PostalCode, &a.Country, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
}

func getAddress(ctx context.Context, q querier, id uuid.UUID) (*model.Address, error) {
	a := &model.Address{}
	if err := scanAddress(q.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id), a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

func (r *pgAddressRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	var addresses []model.Address
	for rows.Next() {
		var a model.Address
		if err := scanAddress(rows, &a); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (r *pgAddressRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	return getAddress(ctx, r.pool, id)
}

// Create inserts the address. The user's first address always becomes the
// default; a default address clears the flag on the others in the same
// transaction.
func (r *pgAddressRepo) Create(ctx context.Context, a *model.Address) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var hasAny bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM addresses WHERE user_id = $1)`, a.UserID,
	).Scan(&hasAny); err != nil {
		return fmt.Errorf("check addresses: %w", err)
	}
	if !hasAny {
		a.IsDefault = true
	}
	if a.IsDefault {
		if err := clearDefault(ctx, tx, a.UserID); err != nil {
			return err
		}
	}

	a.ID = uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO addresses (id, user_id, full_name, phone, line1, line2, city, state, postal_code, country,
			is_default, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()) RETURNING created_at, updated_at`,
		a.ID, a.UserID, a.FullName, a.Phone, a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country, a.IsDefault,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrStaleState
		}
		return fmt.Errorf("insert address: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *pgAddressRepo) Update(ctx context.Context, a *model.Address) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if a.IsDefault {
		if err := clearDefault(ctx, tx, a.UserID); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx,
		`UPDATE addresses SET full_name=$3, phone=$4, line1=$5, line2=$6, city=$7, state=$8, postal_code=$9,
			country=$10, is_default=$11, updated_at=NOW()
		 WHERE id = $1 AND user_id = $2 RETURNING updated_at`,
		a.ID, a.UserID, a.FullName, a.Phone, a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country, a.IsDefault,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if isUniqueViolation(err) {
			return ErrStaleState
		}
		return fmt.Errorf("update address: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *pgAddressRepo) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := clearDefault(ctx, tx, userID); err != nil {
		return err
	}
	ct, err := tx.Exec(ctx,
		`UPDATE addresses SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrStaleState
		}
		return fmt.Errorf("set default address: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *pgAddressRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrReferenced
		}
		return fmt.Errorf("delete address: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func clearDefault(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	if _, err := tx.Exec(ctx,
		`UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default`, userID,
	); err != nil {
		return fmt.Errorf("clear default address: %w", err)
	}
	return nil
}
