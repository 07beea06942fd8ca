package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flicky/storefront-api/internal/model"
)

type OrderFilter struct {
	UserID *uuid.UUID
	Status model.OrderStatus
	Limit  int
	Offset int
}

// PaymentUpdate moves an order out of PaymentStatusPending. It applies only
// while the order is still in status From.
type PaymentUpdate struct {
	From           model.OrderStatus
	PaymentStatus  model.PaymentStatus
	Status         model.OrderStatus
	PaymentOrderID string
	PaymentID      string
}

// StatusUpdate moves an order from From to To. An empty PaymentStatus leaves
// the payment status as stored.
type StatusUpdate struct {
	From           model.OrderStatus
	To             model.OrderStatus
	TrackingNumber string
	PaymentStatus  model.PaymentStatus
}

type OrderRepository interface {
	PlaceOrder(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, update PaymentUpdate) error
	UpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) error
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

const orderColumns = `id, order_number, user_id, status, payment_status, subtotal_cents, tax_cents,
	shipping_cents, discount_cents, total_cents, shipping_address_id, billing_address_id,
	payment_order_id, payment_id, tracking_number, shipped_at, delivered_at, created_at, updated_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.PaymentStatus, &o.SubtotalCents, &o.TaxCents,
		&o.ShippingCents, &o.DiscountCents, &o.TotalCents, &o.ShippingAddressID, &o.BillingAddressID,
		&o.PaymentOrderID, &o.PaymentID, &o.TrackingNumber, &o.ShippedAt, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt,
	)
}

// PlaceOrder decrements inventory for every line and writes the order with its
// items in one transaction. Each decrement only applies while the row still
// has enough inventory and the price the order was computed with, so a
// concurrent order or price edit aborts this one instead of overselling.
func (r *pgOrderRepo) PlaceOrder(ctx context.Context, order *model.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock rows in a stable order so concurrent orders cannot deadlock.
	lines := make([]model.OrderItem, len(order.Items))
	copy(lines, order.Items)
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].ProductID.String() < lines[j].ProductID.String()
	})

	for _, line := range lines {
		ct, err := tx.Exec(ctx,
			`UPDATE products SET inventory = inventory - $2, updated_at = NOW()
			 WHERE id = $1 AND inventory >= $2 AND price_cents = $3`,
			line.ProductID, line.Quantity, line.UnitPriceCents,
		)
		if err != nil {
			return fmt.Errorf("decrement inventory: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return lineFailure(ctx, tx, line)
		}
	}

	order.ID = uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (id, order_number, user_id, status, payment_status, subtotal_cents, tax_cents,
			shipping_cents, discount_cents, total_cents, shipping_address_id, billing_address_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW()) RETURNING created_at, updated_at`,
		order.ID, order.OrderNumber, order.UserID, order.Status, order.PaymentStatus, order.SubtotalCents,
		order.TaxCents, order.ShippingCents, order.DiscountCents, order.TotalCents,
		order.ShippingAddressID, order.BillingAddressID,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.ID = uuid.New()
		item.OrderID = order.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO order_items (id, order_id, product_id, product_title, quantity, unit_price_cents, total_cents, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW()) RETURNING created_at`,
			item.ID, item.OrderID, item.ProductID, item.ProductTitle, item.Quantity, item.UnitPriceCents, item.TotalCents,
		).Scan(&item.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// lineFailure explains why a conditional decrement matched no row.
func lineFailure(ctx context.Context, tx pgx.Tx, line model.OrderItem) error {
	var (
		title     string
		inventory int
		price     int64
	)
	err := tx.QueryRow(ctx,
		`SELECT title, inventory, price_cents FROM products WHERE id = $1`, line.ProductID,
	).Scan(&title, &inventory, &price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &LineError{ProductID: line.ProductID, Title: line.ProductTitle, Err: ErrNotFound}
		}
		return fmt.Errorf("read product: %w", err)
	}
	if price != line.UnitPriceCents {
		return &LineError{ProductID: line.ProductID, Title: title, Err: ErrPriceChanged}
	}
	return &LineError{ProductID: line.ProductID, Title: title, Err: ErrInsufficientStock}
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order := &model.Order{}
	if err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.itemsFor(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	if order.ShippingAddress, err = getAddress(ctx, r.pool, order.ShippingAddressID); err != nil {
		return nil, err
	}
	if order.BillingAddressID == order.ShippingAddressID {
		order.BillingAddress = order.ShippingAddress
	} else if order.BillingAddress, err = getAddress(ctx, r.pool, order.BillingAddressID); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *pgOrderRepo) List(ctx context.Context, f OrderFilter) ([]model.Order, int, error) {
	where := `($1::uuid IS NULL OR user_id = $1) AND ($2 = '' OR status = $2)`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE `+where, f.UserID, string(f.Status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE `+where+` ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`,
		f.UserID, string(f.Status), f.Limit, f.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	var ids []uuid.UUID
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	if len(ids) == 0 {
		return orders, total, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, total, nil
}

func (r *pgOrderRepo) itemsFor(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, product_id, product_title, quantity, unit_price_cents, total_cents, created_at
		 FROM order_items WHERE order_id = ANY($1) ORDER BY created_at, id`, orderIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]model.OrderItem, len(orderIDs))
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductTitle, &item.Quantity,
			&item.UnitPriceCents, &item.TotalCents, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	return items, rows.Err()
}

func (r *pgOrderRepo) UpdatePayment(ctx context.Context, id uuid.UUID, u PaymentUpdate) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE orders SET payment_status = $2, status = $3, payment_order_id = $4, payment_id = $5, updated_at = NOW()
		 WHERE id = $1 AND payment_status = $6 AND status = $7`,
		id, u.PaymentStatus, u.Status, u.PaymentOrderID, u.PaymentID, model.PaymentStatusPending, u.From,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrStaleState
	}
	return nil
}

func (r *pgOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, u StatusUpdate) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $3,
			tracking_number = CASE WHEN $4 <> '' THEN $4 ELSE tracking_number END,
			shipped_at = CASE WHEN $3 = 'SHIPPED' THEN NOW() ELSE shipped_at END,
			delivered_at = CASE WHEN $3 = 'DELIVERED' THEN NOW() ELSE delivered_at END,
			payment_status = CASE WHEN $5 <> '' THEN $5 ELSE payment_status END,
			updated_at = NOW()
		 WHERE id = $1 AND status = $2`,
		id, u.From, u.To, u.TrackingNumber, u.PaymentStatus,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrStaleState
	}
	return nil
}
