package api

import (
	"net/http"

	"kurtis-boutique/internal/auth"
	"kurtis-boutique/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getCart(c *gin.Context) {
	cart, err := h.svc.Cart.GetCart(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.respondError(c, err, "Failed to load cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) addCartItem(c *gin.Context) {
	var req service.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	cart, err := h.svc.Cart.AddItem(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		h.respondError(c, err, "Failed to add item")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// mergeCart folds a guest cart kept by the browser into the server cart
func (h *Handler) mergeCart(c *gin.Context) {
	var req struct {
		Items []service.AddItemRequest `json:"items" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	result, err := h.svc.Cart.MergeItems(c.Request.Context(), auth.UserID(c), req.Items)
	if err != nil {
		h.respondError(c, err, "Failed to merge cart")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) updateCartItem(c *gin.Context) {
	itemID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	cart, err := h.svc.Cart.UpdateQuantity(c.Request.Context(), auth.UserID(c), itemID, *req.Quantity)
	if err != nil {
		h.respondError(c, err, "Failed to update item")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) removeCartItem(c *gin.Context) {
	itemID, ok := idParam(c, "id")
	if !ok {
		return
	}

	cart, err := h.svc.Cart.RemoveItem(c.Request.Context(), auth.UserID(c), itemID)
	if err != nil {
		h.respondError(c, err, "Failed to remove item")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) clearCart(c *gin.Context) {
	if err := h.svc.Cart.ClearCart(c.Request.Context(), auth.UserID(c)); err != nil {
		h.respondError(c, err, "Failed to clear cart")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listWishlist(c *gin.Context) {
	products, err := h.svc.Wishlist.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.respondError(c, err, "Failed to load wishlist")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) addWishlist(c *gin.Context) {
	productID, ok := idParam(c, "productId")
	if !ok {
		return
	}
	if err := h.svc.Wishlist.Add(c.Request.Context(), auth.UserID(c), productID); err != nil {
		h.respondError(c, err, "Failed to add to wishlist")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) removeWishlist(c *gin.Context) {
	productID, ok := idParam(c, "productId")
	if !ok {
		return
	}
	if err := h.svc.Wishlist.Remove(c.Request.Context(), auth.UserID(c), productID); err != nil {
		h.respondError(c, err, "Failed to remove from wishlist")
		return
	}
	c.Status(http.StatusNoContent)
}
