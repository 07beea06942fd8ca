package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flicky/storefront-api/internal/dto"
	"github.com/flicky/storefront-api/internal/middleware"
	"github.com/flicky/storefront-api/internal/service"
)

type WishlistHandler struct {
	wishlistService *service.WishlistService
}

func NewWishlistHandler(wishlistService *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

func (h *WishlistHandler) List(c *gin.Context) {
	resp, err := h.wishlistService.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *WishlistHandler) Add(c *gin.Context) {
	var req dto.AddWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	resp, err := h.wishlistService.Add(c.Request.Context(), middleware.GetUserID(c), req.ProductID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	productID, valid := pathID(c, "productId", "product")
	if !valid {
		return
	}

	if err := h.wishlistService.Remove(c.Request.Context(), middleware.GetUserID(c), productID); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}
