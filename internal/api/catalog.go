package api

import (
	"net/http"

	"kurtis-boutique/internal/service"

	"github.com/gin-gonic/gin"
)

type productListQuery struct {
	Category string `form:"category"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// listProducts handles the public catalog listing
func (h *Handler) listProducts(c *gin.Context) {
	h.productList(c, false)
}

// adminListProducts includes inactive products
func (h *Handler) adminListProducts(c *gin.Context) {
	h.productList(c, true)
}

func (h *Handler) productList(c *gin.Context, includeInactive bool) {
	var q productListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}

	products, err := h.svc.Catalog.ListProducts(c.Request.Context(), service.ProductQuery{
		Category:        q.Category,
		Page:            q.Page,
		PageSize:        q.PageSize,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		h.respondError(c, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// getProduct handles get product by ID
func (h *Handler) getProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	product, err := h.svc.Catalog.GetProduct(c.Request.Context(), id, false)
	if err != nil {
		h.respondError(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.svc.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) createProduct(c *gin.Context) {
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	product, err := h.svc.Catalog.CreateProduct(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	product, err := h.svc.Catalog.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) setProductActive(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := h.svc.Catalog.SetProductActive(c.Request.Context(), id, *req.IsActive); err != nil {
		h.respondError(c, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": *req.IsActive})
}
