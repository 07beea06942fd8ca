package service

import (
	"github.com/flicky/storefront-api/internal/apperr"
)

var (
	ErrUserAlreadyExists  = apperr.New(apperr.KindConflict, "USER_EXISTS", "user already exists")
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")

	ErrProductNotFound  = apperr.New(apperr.KindNotFound, "PRODUCT_NOT_FOUND", "product not found")
	ErrProductInUse     = apperr.New(apperr.KindConflict, "PRODUCT_IN_USE", "product is referenced by existing orders")
	ErrCategoryNotFound = apperr.New(apperr.KindNotFound, "CATEGORY_NOT_FOUND", "category not found")
	ErrSlugTaken        = apperr.New(apperr.KindConflict, "SLUG_TAKEN", "slug is already in use")

	ErrCartItemNotFound      = apperr.New(apperr.KindNotFound, "CART_ITEM_NOT_FOUND", "cart item not found")
	ErrInsufficientInventory = apperr.New(apperr.KindConflict, "INSUFFICIENT_INVENTORY", "insufficient inventory")

	ErrAddressNotFound = apperr.New(apperr.KindNotFound, "ADDRESS_NOT_FOUND", "address not found")
	ErrAddressInUse    = apperr.New(apperr.KindConflict, "ADDRESS_IN_USE", "address is referenced by existing orders")

	ErrEmptyOrder        = apperr.New(apperr.KindValidation, "EMPTY_ORDER", "order must contain at least one item")
	ErrDuplicateLine     = apperr.New(apperr.KindValidation, "DUPLICATE_ORDER_LINE", "each product may appear only once per order")
	ErrInvalidQuantity   = apperr.New(apperr.KindValidation, "INVALID_QUANTITY", "quantity must be at least 1")
	ErrPriceMismatch     = apperr.New(apperr.KindConflict, "PRICE_MISMATCH", "price has changed")
	ErrTotalMismatch     = apperr.New(apperr.KindConflict, "TOTAL_MISMATCH", "order total has changed")
	ErrOrderNotFound     = apperr.New(apperr.KindNotFound, "ORDER_NOT_FOUND", "order not found")
	ErrInvalidTransition = apperr.New(apperr.KindConflict, "INVALID_STATUS_TRANSITION", "order status transition is not allowed")
	ErrConcurrentUpdate  = apperr.New(apperr.KindConflict, "CONCURRENT_UPDATE", "resource was modified concurrently, retry")

	ErrInvalidSignature        = apperr.New(apperr.KindValidation, "INVALID_SIGNATURE", "payment signature verification failed")
	ErrPaymentAlreadyProcessed = apperr.New(apperr.KindConflict, "PAYMENT_ALREADY_PROCESSED", "payment for this order was already processed")

	ErrReviewNotFound  = apperr.New(apperr.KindNotFound, "REVIEW_NOT_FOUND", "review not found")
	ErrDuplicateReview = apperr.New(apperr.KindConflict, "DUPLICATE_REVIEW", "you have already reviewed this product")
	ErrInvalidRating   = apperr.New(apperr.KindValidation, "INVALID_RATING", "rating must be between 1 and 5")

	ErrWishlistItemNotFound = apperr.New(apperr.KindNotFound, "WISHLIST_ITEM_NOT_FOUND", "product is not in the wishlist")
)
