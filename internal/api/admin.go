package api

import (
	"net/http"
	"strconv"

	"kurtis-boutique/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) adminListOrders(c *gin.Context) {
	var q service.OrderQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}

	orders, err := h.svc.Admin.ListOrders(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) adminGetOrder(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	details, err := h.svc.Admin.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err, "Order not found")
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) adminUpdateStatus(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	order, err := h.svc.Admin.UpdateStatus(c.Request.Context(), orderID, req.Status, req.Note)
	if err != nil {
		h.respondError(c, err, "Failed to update status")
		return
	}
	c.JSON(http.StatusOK, order)
}

// courierOptions lists serviceable couriers; weight defaults to the parcel weight
func (h *Handler) courierOptions(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var weight float64
	if raw := c.Query("weight"); raw != "" {
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil || w <= 0 {
			badRequest(c, "Invalid weight", nil)
			return
		}
		weight = w
	}

	rates, err := h.svc.Admin.CourierOptions(c.Request.Context(), orderID, weight)
	if err != nil {
		h.respondError(c, err, "Failed to fetch courier options")
		return
	}
	c.JSON(http.StatusOK, gin.H{"couriers": rates})
}

// registerShipment retries aggregator registration for an order
func (h *Handler) registerShipment(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Shipments.RegisterShipment(c.Request.Context(), orderID); err != nil {
		h.respondError(c, err, "Failed to register shipment")
		return
	}

	details, err := h.svc.Admin.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err, "Order not found")
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) assignCourier(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		CourierID int64 `json:"courier_id"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body", err)
			return
		}
	}

	order, err := h.svc.Admin.AssignCourier(c.Request.Context(), orderID, req.CourierID)
	if err != nil {
		h.respondError(c, err, "Failed to assign courier")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) schedulePickup(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := h.svc.Admin.SchedulePickup(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err, "Failed to schedule pickup")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) generateLabel(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	url, err := h.svc.Admin.GenerateLabel(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err, "Failed to generate label")
		return
	}
	c.JSON(http.StatusOK, gin.H{"label_url": url})
}

func (h *Handler) generateInvoice(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	url, err := h.svc.Admin.GenerateInvoice(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err, "Failed to generate invoice")
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice_url": url})
}

func (h *Handler) trackShipment(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.Admin.TrackShipment(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err, "Failed to track shipment")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) adminListCustomisations(c *gin.Context) {
	reqs, err := h.svc.Customisations.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.respondError(c, err, "Failed to list requests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}

func (h *Handler) adminUpdateCustomisation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status    string `json:"status" binding:"required"`
		AdminNote string `json:"admin_note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	updated, err := h.svc.Customisations.UpdateStatus(c.Request.Context(), id, req.Status, req.AdminNote)
	if err != nil {
		h.respondError(c, err, "Failed to update request")
		return
	}
	c.JSON(http.StatusOK, updated)
}
