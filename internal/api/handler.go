package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"kurtis-boutique/internal/auth"
	"kurtis-boutique/internal/service"
	"kurtis-boutique/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	svc         Services
	verifier    auth.TokenVerifier
	adminEmails []string
	deps        map[string]Pinger
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler. deps are checked by /ready.
func NewHandler(svc Services, verifier auth.TokenVerifier, adminEmails []string, deps map[string]Pinger) *Handler {
	return &Handler{
		svc:         svc,
		verifier:    verifier,
		adminEmails: adminEmails,
		deps:        deps,
		logger:      util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(util.GinLogger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/categories", h.listCategories)
	}

	user := v1.Group("", auth.Authenticate(h.verifier))
	{
		user.GET("/cart", h.getCart)
		user.POST("/cart", h.addCartItem)
		user.DELETE("/cart", h.clearCart)
		user.POST("/cart/merge", h.mergeCart)
		user.PATCH("/cart/items/:id", h.updateCartItem)
		user.DELETE("/cart/items/:id", h.removeCartItem)

		user.GET("/wishlist", h.listWishlist)
		user.POST("/wishlist/:productId", h.addWishlist)
		user.DELETE("/wishlist/:productId", h.removeWishlist)

		user.POST("/checkout", h.initiateCheckout)
		user.POST("/checkout/verify", h.verifyPayment)
		user.POST("/checkout/cod", h.createCODOrder)

		user.GET("/orders", h.listMyOrders)
		user.GET("/orders/:id", h.getMyOrder)
		user.POST("/orders/:id/cancel", h.cancelMyOrder)

		user.POST("/customisations", h.submitCustomisation)
		user.GET("/customisations", h.listMyCustomisations)
	}

	admin := user.Group("/admin", auth.RequireAdmin(h.adminEmails))
	{
		admin.GET("/products", h.adminListProducts)
		admin.POST("/products", h.createProduct)
		admin.PUT("/products/:id", h.updateProduct)
		admin.PATCH("/products/:id/active", h.setProductActive)

		admin.GET("/orders", h.adminListOrders)
		admin.GET("/orders/:id", h.adminGetOrder)
		admin.PATCH("/orders/:id/status", h.adminUpdateStatus)
		admin.GET("/orders/:id/courier-options", h.courierOptions)
		admin.POST("/orders/:id/shipment", h.registerShipment)
		admin.POST("/orders/:id/assign", h.assignCourier)
		admin.POST("/orders/:id/pickup", h.schedulePickup)
		admin.POST("/orders/:id/label", h.generateLabel)
		admin.POST("/orders/:id/invoice", h.generateInvoice)
		admin.GET("/orders/:id/track", h.trackShipment)

		admin.GET("/customisations", h.adminListCustomisations)
		admin.PATCH("/customisations/:id", h.adminUpdateCustomisation)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck pings the database and cache
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	ready := true
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			h.logger.Warn("Readiness check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = "unavailable"
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not ready", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status": status,
		"checks": checks,
		"time":   time.Now().Unix(),
	})
}

// respondError maps service errors onto status codes. Only 4xx responses carry details.
func (h *Handler) respondError(c *gin.Context, err error, message string) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error(message,
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(code, gin.H{"error": message})
		return
	}
	c.JSON(code, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrPaymentInvalid),
		errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}

// idParam parses a positive int64 path parameter, writing a 400 on failure
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+name, nil)
		return 0, false
	}
	return id, true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Inc()
	}
}
