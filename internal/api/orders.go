package api

import (
	"net/http"

	"kurtis-boutique/internal/auth"
	"kurtis-boutique/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listMyOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListMyOrders(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.respondError(c, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// getMyOrder returns the order with its items and timeline
func (h *Handler) getMyOrder(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	details, err := h.svc.Orders.GetMyOrder(c.Request.Context(), auth.UserID(c), orderID)
	if err != nil {
		h.respondError(c, err, "Order not found")
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) cancelMyOrder(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := h.svc.Orders.CancelMyOrder(c.Request.Context(), auth.UserID(c), orderID)
	if err != nil {
		h.respondError(c, err, "Failed to cancel order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) submitCustomisation(c *gin.Context) {
	var in service.CustomisationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	req, err := h.svc.Customisations.Submit(c.Request.Context(), auth.UserID(c), in)
	if err != nil {
		h.respondError(c, err, "Failed to submit request")
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (h *Handler) listMyCustomisations(c *gin.Context) {
	reqs, err := h.svc.Customisations.ListMine(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.respondError(c, err, "Failed to list requests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}
