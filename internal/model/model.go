package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID        uuid.UUID
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Category struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Product prices are in minor currency units.
type Product struct {
	ID                 uuid.UUID
	Title              string
	Slug               string
	Description        string
	PriceCents         int64
	OriginalPriceCents *int64
	DiscountPercent    *int
	Inventory          int
	CategoryID         *uuid.UUID
	ImageURL           string
	Rating             float64
	ReviewCount        int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Cart struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Address struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	FullName   string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Order struct {
	ID                uuid.UUID
	OrderNumber       string
	UserID            uuid.UUID
	Status            OrderStatus
	PaymentStatus     PaymentStatus
	SubtotalCents     int64
	TaxCents          int64
	ShippingCents     int64
	DiscountCents     int64
	TotalCents        int64
	ShippingAddressID uuid.UUID
	BillingAddressID  uuid.UUID
	PaymentOrderID    string
	PaymentID         string
	TrackingNumber    string
	ShippedAt         *time.Time
	DeliveredAt       *time.Time
	Items             []OrderItem
	ShippingAddress   *Address
	BillingAddress    *Address
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrderItem is a price snapshot taken when the order is placed.
type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductID      uuid.UUID
	ProductTitle   string
	Quantity       int
	UnitPriceCents int64
	TotalCents     int64
	CreatedAt      time.Time
}

type Review struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Rating    int
	Title     string
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WishlistItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Product   *Product
	CreatedAt time.Time
}

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
	EventPaymentVerified    = "order.payment_verified"
	EventPaymentFailed      = "order.payment_failed"
)

// OrderEvent is the message published to the broker after an order changes.
type OrderEvent struct {
	ID         uuid.UUID     `json:"id"`
	Type       string        `json:"type"`
	OrderID    uuid.UUID     `json:"order_id"`
	UserID     uuid.UUID     `json:"user_id"`
	Status     OrderStatus   `json:"status"`
	Payment    PaymentStatus `json:"payment_status"`
	ProductIDs []uuid.UUID   `json:"product_ids,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}
