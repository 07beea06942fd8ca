package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/flicky/storefront-api/internal/model"
)

const idempotencyTTL = 24 * time.Hour

// CartCleaner drops purchased products from a user's cart.
type CartCleaner interface {
	RemoveProducts(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error
}

// ProductInvalidator evicts cached products.
type ProductInvalidator interface {
	Invalidate(ctx context.Context, ids ...uuid.UUID)
}

type OrderEventWorker struct {
	channel     *amqp.Channel
	carts       CartCleaner
	products    ProductInvalidator
	redisClient *redis.Client
	log         *slog.Logger
	done        chan struct{}
}

func NewOrderEventWorker(
	ch *amqp.Channel,
	carts CartCleaner,
	products ProductInvalidator,
	redisClient *redis.Client,
	log *slog.Logger,
) *OrderEventWorker {
	return &OrderEventWorker{
		channel:     ch,
		carts:       carts,
		products:    products,
		redisClient: redisClient,
		log:         log,
		done:        make(chan struct{}),
	}
}

func (w *OrderEventWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(orderEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("order event worker started")
	return nil
}

func (w *OrderEventWorker) Stop() { close(w.done) }

func (w *OrderEventWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var event model.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil || event.ID == uuid.Nil {
		w.log.Error("unmarshal order event", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("event_id", event.ID, "type", event.Type, "order_id", event.OrderID)

	idempotencyKey := "order_event_processed:" + event.ID.String()
	exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
	if err != nil {
		log.Error("check idempotency key", "error", err)
		_ = msg.Nack(false, true)
		return
	}
	if exists > 0 {
		log.Info("event already processed, skipping")
		_ = msg.Ack(false)
		return
	}

	if err := w.handle(ctx, event); err != nil {
		log.Error("process order event failed", "error", err)
		_ = msg.Nack(false, false) // dead-lettered
		return
	}

	if err := w.redisClient.Set(ctx, idempotencyKey, "1", idempotencyTTL).Err(); err != nil {
		log.Error("set idempotency key", "error", err)
	}

	_ = msg.Ack(false)
	log.Info("order event processed")
}

func (w *OrderEventWorker) handle(ctx context.Context, event model.OrderEvent) error {
	switch event.Type {
	case model.EventOrderPlaced:
		if len(event.ProductIDs) == 0 {
			return nil
		}
		if err := w.carts.RemoveProducts(ctx, event.UserID, event.ProductIDs); err != nil {
			return fmt.Errorf("remove ordered products from cart: %w", err)
		}
		w.products.Invalidate(ctx, event.ProductIDs...)
	default:
		w.log.Info("order event", "type", event.Type, "order_id", event.OrderID, "status", event.Status,
			"payment_status", event.Payment)
	}
	return nil
}
