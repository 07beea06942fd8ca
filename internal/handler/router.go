package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/flicky/storefront-api/internal/middleware"
	"github.com/flicky/storefront-api/internal/token"
)

type Handlers struct {
	Auth     *AuthHandler
	Product  *ProductHandler
	Category *CategoryHandler
	Cart     *CartHandler
	Address  *AddressHandler
	Order    *OrderHandler
	Review   *ReviewHandler
	Wishlist *WishlistHandler
	Health   *HealthHandler
}

func NewRouter(log *slog.Logger, tokens *token.Manager, users middleware.UserLookup, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log))

	router.GET("/healthz", h.Health.Healthz)
	router.GET("/readyz", h.Health.Readyz)

	authRequired := middleware.Auth(tokens)
	adminOnly := middleware.AdminOnly(users)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)

		products := api.Group("/products")
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		adminProducts := products.Group("", authRequired, adminOnly)
		adminProducts.POST("", h.Product.Create)
		adminProducts.PUT("/:id", h.Product.Update)
		adminProducts.DELETE("/:id", h.Product.Delete)

		categories := api.Group("/categories")
		categories.GET("", h.Category.List)
		categories.GET("/:slug", h.Category.GetBySlug)
		adminCategories := categories.Group("", authRequired, adminOnly)
		adminCategories.POST("", h.Category.Create)
		adminCategories.PUT("/:id", h.Category.Update)
		adminCategories.DELETE("/:id", h.Category.Delete)

		reviews := api.Group("/reviews")
		reviews.GET("", h.Review.List)
		reviews.POST("", authRequired, h.Review.Create)
		reviews.DELETE("/:id", authRequired, h.Review.Delete)

		cart := api.Group("/cart", authRequired)
		cart.GET("", h.Cart.GetCart)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:id", h.Cart.UpdateItem)
		cart.DELETE("/items/:id", h.Cart.DeleteItem)

		addresses := api.Group("/addresses", authRequired)
		addresses.GET("", h.Address.List)
		addresses.POST("", h.Address.Create)
		addresses.GET("/:id", h.Address.Get)
		addresses.PUT("/:id", h.Address.Update)
		addresses.DELETE("/:id", h.Address.Delete)
		addresses.POST("/:id/default", h.Address.SetDefault)

		orders := api.Group("/orders", authRequired)
		orders.GET("", h.Order.ListOrders)
		orders.POST("", h.Order.CreateOrder)
		orders.POST("/verify-payment", h.Order.VerifyPayment)
		orders.GET("/:id", h.Order.GetOrder)

		wishlist := api.Group("/wishlist", authRequired)
		wishlist.GET("", h.Wishlist.List)
		wishlist.POST("", h.Wishlist.Add)
		wishlist.DELETE("/:productId", h.Wishlist.Remove)

		admin := api.Group("/admin", authRequired, adminOnly)
		admin.GET("/orders", h.Order.AdminListOrders)
		admin.GET("/orders/:id", h.Order.AdminGetOrder)
		admin.PATCH("/orders/:id", h.Order.AdminUpdateStatus)
	}

	return router
}
