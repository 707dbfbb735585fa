package handler

import (
	"net/http"

	"liquorpos/internal/dto"
	"liquorpos/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	svc service.ProductService
}

func NewProductHandler(svc service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// Create godoc
// @Summary Creates a product, optionally seeding initial stock through the ledger
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateProductRequest true "Product"
// @Success 201 {object} dto.ProductResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Create(c.Request.Context(), req, actorFromClaims(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Get godoc
// @Summary Fetches one product by UPC
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param upc path string true "Product UPC"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/products/{upc} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.svc.GetByUPC(c.Request.Context(), c.Param("upc"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// List godoc
// @Summary Lists products with search, category and active filters
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches UPC or description"
// @Param category query string false "Category filter"
// @Param active query string false "Empty = active only, false = inactive, all = everything"
// @Success 200 {object} dto.ProductListResponse
// @Router /v1/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	filter := dto.ProductFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Active:   c.Query("active"),
		Page:     intQuery(c, "page", 1),
		Limit:    intQuery(c, "limit", 100),
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Updates product fields; price changes are journaled to price history
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param upc path string true "Product UPC"
// @Param body body dto.UpdateProductRequest true "Fields to update"
// @Success 200 {object} dto.ProductResponse
// @Router /v1/products/{upc} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("upc"), req, actorFromClaims(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Deactivate soft-deletes: the product stops selling but its ledger
// history stays intact.
func (h *ProductHandler) Deactivate(c *gin.Context) {
	if err := h.svc.Deactivate(c.Request.Context(), c.Param("upc")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "product deactivated"})
}

func (h *ProductHandler) Reactivate(c *gin.Context) {
	if err := h.svc.Reactivate(c.Request.Context(), c.Param("upc")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "product reactivated"})
}

// PriceHistory godoc
// @Summary Lists cost/price changes for a product, newest first
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param upc path string true "Product UPC"
// @Success 200 {array} dto.PriceHistoryResponse
// @Router /v1/products/{upc}/price-history [get]
func (h *ProductHandler) PriceHistory(c *gin.Context) {
	history, err := h.svc.ListPriceHistory(c.Request.Context(), c.Param("upc"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
