package api

import (
	"net/http"

	"kurtis-boutique/internal/auth"
	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/service"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	Address models.ShippingAddress `json:"address"`
}

// initiateCheckout prices the cart and opens a gateway order
func (h *Handler) initiateCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	session, err := h.svc.Checkout.Initiate(c.Request.Context(), auth.UserID(c), req.Address)
	if err != nil {
		h.respondError(c, err, "Failed to start checkout")
		return
	}
	c.JSON(http.StatusOK, session)
}

// verifyPayment checks the gateway signature and places the order
func (h *Handler) verifyPayment(c *gin.Context) {
	var req service.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	order, err := h.svc.Checkout.VerifyPayment(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		h.respondError(c, err, "Payment verification failed")
		return
	}
	c.JSON(http.StatusCreated, order)
}

// createCODOrder places a cash-on-delivery order. Retries with the same
// Idempotency-Key header return the original order.
func (h *Handler) createCODOrder(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	order, err := h.svc.Checkout.CreateCODOrder(c.Request.Context(), auth.UserID(c), c.GetHeader("Idempotency-Key"), req.Address)
	if err != nil {
		h.respondError(c, err, "Failed to place order")
		return
	}
	c.JSON(http.StatusCreated, order)
}
