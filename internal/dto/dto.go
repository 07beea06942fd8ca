package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flicky/storefront-api/internal/model"
)

// Money converts minor currency units to the display amount.
func Money(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

type PageRequest struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=20" binding:"min=1,max=100"`
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// --- Auth ---

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
}

// --- Category ---

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"omitempty,max=120"`
	Description string `json:"description"`
}

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// --- Product ---

type CreateProductRequest struct {
	Title              string     `json:"title" binding:"required,max=200"`
	Slug               string     `json:"slug" binding:"omitempty,max=220"`
	Description        string     `json:"description"`
	PriceCents         *int64     `json:"price_cents" binding:"required,min=0"`
	OriginalPriceCents *int64     `json:"original_price_cents" binding:"omitempty,min=0"`
	DiscountPercent    *int       `json:"discount_percent" binding:"omitempty,min=0,max=100"`
	Inventory          *int       `json:"inventory" binding:"required,min=0"`
	CategoryID         *uuid.UUID `json:"category_id"`
	ImageURL           string     `json:"image_url" binding:"omitempty,url"`
}

type UpdateProductRequest struct {
	Title              *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Slug               *string    `json:"slug" binding:"omitempty,min=1,max=220"`
	Description        *string    `json:"description"`
	PriceCents         *int64     `json:"price_cents" binding:"omitempty,min=0"`
	OriginalPriceCents *int64     `json:"original_price_cents" binding:"omitempty,min=0"`
	DiscountPercent    *int       `json:"discount_percent" binding:"omitempty,min=0,max=100"`
	Inventory          *int       `json:"inventory" binding:"omitempty,min=0"`
	CategoryID         *uuid.UUID `json:"category_id"`
	ImageURL           *string    `json:"image_url" binding:"omitempty,url"`
}

type ListProductsRequest struct {
	PageRequest
	Search   string `form:"search"`
	Category string `form:"category"`
	Sort     string `form:"sort,default=created_at" binding:"oneof=title price rating created_at"`
	Order    string `form:"order,default=desc" binding:"oneof=asc desc"`
}

type ProductResponse struct {
	ID                 uuid.UUID        `json:"id"`
	Title              string           `json:"title"`
	Slug               string           `json:"slug"`
	Description        string           `json:"description"`
	PriceCents         int64            `json:"price_cents"`
	Price              decimal.Decimal  `json:"price"`
	OriginalPriceCents *int64           `json:"original_price_cents,omitempty"`
	OriginalPrice      *decimal.Decimal `json:"original_price,omitempty"`
	DiscountPercent    *int             `json:"discount_percent,omitempty"`
	Inventory          int              `json:"inventory"`
	InStock            bool             `json:"in_stock"`
	CategoryID         *uuid.UUID       `json:"category_id,omitempty"`
	ImageURL           string           `json:"image_url,omitempty"`
	Rating             float64          `json:"rating"`
	ReviewCount        int              `json:"review_count"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// --- Cart ---

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CartResponse struct {
	ID            uuid.UUID          `json:"id"`
	Items         []CartItemResponse `json:"items"`
	ItemCount     int                `json:"item_count"`
	SubtotalCents int64              `json:"subtotal_cents"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
}

type CartItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Title          string          `json:"title"`
	Slug           string          `json:"slug"`
	ImageURL       string          `json:"image_url,omitempty"`
	PriceCents     int64           `json:"price_cents"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	Available      int             `json:"available"`
	LineTotalCents int64           `json:"line_total_cents"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// --- Address ---

type AddressRequest struct {
	FullName   string `json:"full_name" binding:"required,max=200"`
	Phone      string `json:"phone" binding:"omitempty,max=32"`
	Line1      string `json:"line1" binding:"required,max=200"`
	Line2      string `json:"line2" binding:"omitempty,max=200"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"omitempty,max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"required,len=2"`
	IsDefault  bool   `json:"is_default"`
}

type AddressResponse struct {
	ID         uuid.UUID `json:"id"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone,omitempty"`
	Line1      string    `json:"line1"`
	Line2      string    `json:"line2,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state,omitempty"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// --- Order ---

type OrderLineRequest struct {
	ProductID      uuid.UUID `json:"product_id" binding:"required"`
	Quantity       int       `json:"quantity" binding:"required,min=1"`
	UnitPriceCents *int64    `json:"unit_price_cents" binding:"required,min=0"`
}

type CreateOrderRequest struct {
	Items              []OrderLineRequest `json:"items" binding:"dive"`
	ShippingAddressID  uuid.UUID          `json:"shipping_address_id" binding:"required"`
	BillingAddressID   *uuid.UUID         `json:"billing_address_id"`
	ExpectedTotalCents *int64             `json:"expected_total_cents" binding:"omitempty,min=0"`
}

type VerifyPaymentRequest struct {
	OrderID          uuid.UUID `json:"order_id" binding:"required"`
	GatewayOrderID   string    `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string    `json:"gateway_payment_id" binding:"required"`
	Signature        string    `json:"signature" binding:"required"`
}

type ListOrdersRequest struct {
	PageRequest
	Status string `form:"status" binding:"omitempty,oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED"`
}

type UpdateOrderStatusRequest struct {
	Status         model.OrderStatus `json:"status" binding:"required,oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED"`
	TrackingNumber string            `json:"tracking_number" binding:"omitempty,max=64"`
}

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	UserID          uuid.UUID           `json:"user_id"`
	Status          model.OrderStatus   `json:"status"`
	PaymentStatus   model.PaymentStatus `json:"payment_status"`
	SubtotalCents   int64               `json:"subtotal_cents"`
	TaxCents        int64               `json:"tax_cents"`
	ShippingCents   int64               `json:"shipping_cents"`
	DiscountCents   int64               `json:"discount_cents"`
	TotalCents      int64               `json:"total_cents"`
	Total           decimal.Decimal     `json:"total"`
	ShippingAddress *AddressResponse    `json:"shipping_address,omitempty"`
	BillingAddress  *AddressResponse    `json:"billing_address,omitempty"`
	PaymentOrderID  string              `json:"payment_order_id,omitempty"`
	PaymentID       string              `json:"payment_id,omitempty"`
	TrackingNumber  string              `json:"tracking_number,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type OrderItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductTitle   string          `json:"product_title"`
	Quantity       int             `json:"quantity"`
	UnitPriceCents int64           `json:"unit_price_cents"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalCents     int64           `json:"total_cents"`
	Total          decimal.Decimal `json:"total"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// --- Review ---

type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Title     string    `json:"title" binding:"omitempty,max=200"`
	Comment   string    `json:"comment" binding:"omitempty,max=2000"`
}

type ListReviewsRequest struct {
	PageRequest
	ProductID string `form:"product_id" binding:"required,uuid"`
}

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

// --- Wishlist ---

type AddWishlistItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

type WishlistItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Product   ProductResponse `json:"product"`
	AddedAt   time.Time       `json:"added_at"`
}
