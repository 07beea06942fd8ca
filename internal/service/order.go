package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flicky/storefront-api/internal/apperr"
	"github.com/flicky/storefront-api/internal/dto"
	"github.com/flicky/storefront-api/internal/model"
	"github.com/flicky/storefront-api/internal/payment"
	"github.com/flicky/storefront-api/internal/repository"
)

const orderNumberAttempts = 3

// EventPublisher delivers order events to other parts of the system.
type EventPublisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
}

type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	addressRepo repository.AddressRepository
	verifier    *payment.Verifier
	pricing     Pricing
	publisher   EventPublisher
	log         *slog.Logger
	now         func() time.Time
}

// NewOrderService builds the order service. publisher may be nil.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	addressRepo repository.AddressRepository,
	verifier *payment.Verifier,
	pricing Pricing,
	publisher EventPublisher,
	log *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		addressRepo: addressRepo,
		verifier:    verifier,
		pricing:     pricing,
		publisher:   publisher,
		log:         log,
		now:         time.Now,
	}
}

// CreateOrder validates the submitted lines against the catalog, prices the
// order and places it. Inventory is reserved atomically with the insert; if
// any line fails nothing is written.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	seen := make(map[uuid.UUID]struct{}, len(req.Items))
	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if line.UnitPriceCents == nil || *line.UnitPriceCents < 0 {
			return nil, apperr.Validation("unit_price_cents is required for every item")
		}
		if _, dup := seen[line.ProductID]; dup {
			return nil, ErrDuplicateLine
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}

	shippingID := req.ShippingAddressID
	billingID := shippingID
	if req.BillingAddressID != nil {
		billingID = *req.BillingAddressID
	}
	for _, id := range []uuid.UUID{shippingID, billingID} {
		if err := s.checkAddress(ctx, userID, id); err != nil {
			return nil, err
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	var subtotal int64
	for _, line := range req.Items {
		p, ok := products[line.ProductID]
		if !ok {
			return nil, ErrProductNotFound.Withf("product %s not found", line.ProductID)
		}
		unit := *line.UnitPriceCents
		if unit != p.PriceCents {
			return nil, ErrPriceMismatch.Withf("price of %q changed to %s", p.Title, dto.Money(p.PriceCents).StringFixed(2))
		}
		if line.Quantity > p.Inventory {
			return nil, ErrInsufficientInventory.Withf("only %d of %q available", p.Inventory, p.Title)
		}
		total := unit * int64(line.Quantity)
		subtotal += total
		items = append(items, model.OrderItem{
			ProductID:      p.ID,
			ProductTitle:   p.Title,
			Quantity:       line.Quantity,
			UnitPriceCents: unit,
			TotalCents:     total,
		})
	}

	totals := s.pricing.Compute(subtotal)
	if req.ExpectedTotalCents != nil && *req.ExpectedTotalCents != totals.TotalCents {
		return nil, ErrTotalMismatch.Withf("order total is %s, expected %s",
			dto.Money(totals.TotalCents).StringFixed(2), dto.Money(*req.ExpectedTotalCents).StringFixed(2))
	}

	order := &model.Order{
		UserID:            userID,
		Status:            model.OrderStatusPending,
		PaymentStatus:     model.PaymentStatusPending,
		SubtotalCents:     totals.SubtotalCents,
		TaxCents:          totals.TaxCents,
		ShippingCents:     totals.ShippingCents,
		DiscountCents:     totals.DiscountCents,
		TotalCents:        totals.TotalCents,
		ShippingAddressID: shippingID,
		BillingAddressID:  billingID,
		Items:             items,
	}
	if err := s.place(ctx, order); err != nil {
		return nil, err
	}

	placed, err := s.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if placed == nil {
		return nil, fmt.Errorf("get order: %s vanished after commit", order.ID)
	}
	s.publish(ctx, model.EventOrderPlaced, placed)

	resp := toOrderResponse(placed)
	return &resp, nil
}

func (s *OrderService) place(ctx context.Context, order *model.Order) error {
	for attempt := 1; ; attempt++ {
		order.OrderNumber = newOrderNumber(s.now())
		err := s.orderRepo.PlaceOrder(ctx, order)
		if err == nil {
			return nil
		}
		if errors.Is(err, repository.ErrDuplicateKey) && attempt < orderNumberAttempts {
			continue
		}

		var lineErr *repository.LineError
		if errors.As(err, &lineErr) {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return ErrProductNotFound.Withf("product %s not found", lineErr.ProductID)
			case errors.Is(err, repository.ErrPriceChanged):
				return ErrPriceMismatch.Withf("price of %q changed", lineErr.Title)
			case errors.Is(err, repository.ErrInsufficientStock):
				return ErrInsufficientInventory.Withf("insufficient inventory for %q", lineErr.Title)
			}
		}
		return fmt.Errorf("place order: %w", err)
	}
}

func (s *OrderService) checkAddress(ctx context.Context, userID, id uuid.UUID) error {
	address, err := s.addressRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get address: %w", err)
	}
	if address == nil || address.UserID != userID {
		return ErrAddressNotFound
	}
	return nil
}

// VerifyPayment checks the gateway signature for an order and records the
// outcome. A valid signature marks the order paid and moves it to processing;
// an invalid one fails the payment and cancels the order. The order status is
// kept when it already matches or cannot legally move to the target, so the
// payment outcome is always recorded. Inventory is left untouched either way.
func (s *OrderService) VerifyPayment(ctx context.Context, userID uuid.UUID, req dto.VerifyPaymentRequest) (*dto.OrderResponse, error) {
	order, err := s.owned(ctx, userID, req.OrderID)
	if err != nil {
		return nil, err
	}

	valid := s.verifier.Verify(req.GatewayOrderID, req.GatewayPaymentID, req.Signature)

	if order.PaymentStatus != model.PaymentStatusPending {
		if valid && order.PaymentStatus == model.PaymentStatusPaid && order.PaymentID == req.GatewayPaymentID {
			resp := toOrderResponse(order)
			return &resp, nil
		}
		return nil, ErrPaymentAlreadyProcessed.Withf("payment for order %s is already %s", order.OrderNumber, order.PaymentStatus)
	}

	update := repository.PaymentUpdate{
		From:           order.Status,
		PaymentStatus:  model.PaymentStatusPaid,
		Status:         order.Status,
		PaymentOrderID: req.GatewayOrderID,
		PaymentID:      req.GatewayPaymentID,
	}
	target := model.OrderStatusProcessing
	event := model.EventPaymentVerified
	if !valid {
		update.PaymentStatus = model.PaymentStatusFailed
		target = model.OrderStatusCancelled
		event = model.EventPaymentFailed
	}
	if order.Status != target && order.Status.CanTransitionTo(target) {
		update.Status = target
	}

	if err := s.orderRepo.UpdatePayment(ctx, order.ID, update); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, ErrConcurrentUpdate
		}
		return nil, fmt.Errorf("update payment: %w", err)
	}

	updated, err := s.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	s.publish(ctx, event, updated)

	if !valid {
		return nil, ErrInvalidSignature
	}
	resp := toOrderResponse(updated)
	return &resp, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, req dto.ListOrdersRequest) (*dto.OrderListResponse, error) {
	return s.list(ctx, repository.OrderFilter{
		UserID: &userID, Status: model.OrderStatus(req.Status), Limit: req.Limit, Offset: req.Offset(),
	}, req.PageRequest)
}

// GetForUser returns the order only if userID owns it. Orders of other users
// are reported as missing.
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.owned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) ListAll(ctx context.Context, req dto.ListOrdersRequest) (*dto.OrderListResponse, error) {
	return s.list(ctx, repository.OrderFilter{
		Status: model.OrderStatus(req.Status), Limit: req.Limit, Offset: req.Offset(),
	}, req.PageRequest)
}

func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(order)
	return &resp, nil
}

// UpdateStatus applies an admin status change allowed by the transition
// table. Shipping stamps a tracking number, generating one if none is given.
// Cancelling a paid order marks its payment refunded.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	if !req.Status.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown order status %q", req.Status))
	}
	order, err := s.get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, ErrInvalidTransition.Withf("order %s is %s and can no longer change", order.OrderNumber, order.Status)
	}
	if !order.Status.CanTransitionTo(req.Status) {
		return nil, ErrInvalidTransition.Withf("cannot move order %s from %s to %s", order.OrderNumber, order.Status, req.Status)
	}

	update := repository.StatusUpdate{From: order.Status, To: req.Status, TrackingNumber: req.TrackingNumber}
	if update.To == model.OrderStatusShipped && update.TrackingNumber == "" {
		update.TrackingNumber = newTrackingNumber()
	}
	if update.To == model.OrderStatusCancelled && order.PaymentStatus.CanTransitionTo(model.PaymentStatusRefunded) {
		update.PaymentStatus = model.PaymentStatusRefunded
	}
	if err := s.orderRepo.UpdateStatus(ctx, orderID, update); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, ErrConcurrentUpdate
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	updated, err := s.get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, model.EventOrderStatusChanged, updated)
	resp := toOrderResponse(updated)
	return &resp, nil
}

func (s *OrderService) list(ctx context.Context, filter repository.OrderFilter, page dto.PageRequest) (*dto.OrderListResponse, error) {
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	resp := &dto.OrderListResponse{
		Orders: make([]dto.OrderResponse, 0, len(orders)), Total: total, Page: page.Page, Limit: page.Limit,
	}
	for i := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(&orders[i]))
	}
	return resp, nil
}

func (s *OrderService) get(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) owned(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// publish is best effort: the order is already committed, so a broker
// failure is logged and the request still succeeds.
func (s *OrderService) publish(ctx context.Context, eventType string, order *model.Order) {
	if s.publisher == nil || order == nil {
		return
	}
	event := model.OrderEvent{
		ID:         uuid.New(),
		Type:       eventType,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		Payment:    order.PaymentStatus,
		OccurredAt: s.now().UTC(),
	}
	for _, item := range order.Items {
		event.ProductIDs = append(event.ProductIDs, item.ProductID)
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Error("publish order event", "type", eventType, "order_id", order.ID, "error", err)
	}
}

func newOrderNumber(now time.Time) string {
	return "ORD-" + now.UTC().Format("20060102") + "-" + randomHex(3)
}

func newTrackingNumber() string {
	return "TRK" + randomHex(6)
}

// randomHex returns 2n uppercase hex digits taken from a random UUID.
func randomHex(n int) string {
	id := uuid.New()
	return strings.ToUpper(hex.EncodeToString(id[:n]))
}
