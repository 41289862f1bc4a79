package handler

import (
	"net/http"
	"strconv"

	catalogapp "github.com/catalog/backend/internal/application/catalog"
	"github.com/catalog/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles product CRUD, listing, export, and single-record
// AI operations
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// parseProductID parses the :id path parameter as a positive integer
func parseProductID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Update handles PUT and PATCH /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /data
func (h *ProductHandler) List(c *gin.Context) {
	var query ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.productService.GetProducts(c.Request.Context(), query.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ExportCSV handles GET /export-csv. The response is the raw CSV document,
// served as an attachment.
func (h *ProductHandler) ExportCSV(c *gin.Context) {
	var query ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	csv, err := h.productService.ExportCSV(c.Request.Context(), query.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="products.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

// Translate handles POST /products/:id/translate
func (h *ProductHandler) Translate(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req TranslateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	product, err := h.productService.TranslateProduct(c.Request.Context(), id, req.Lang)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// GenerateSummary handles POST /products/:id/generate-summary
func (h *ProductHandler) GenerateSummary(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.GenerateSummary(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// InferCategory handles POST /products/:id/infer-category
func (h *ProductHandler) InferCategory(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.InferCategory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/data", h.List)
	rg.GET("/export-csv", h.ExportCSV)

	products := rg.Group("/products")
	{
		products.POST("", h.Create)
		products.PUT("/:id", h.Update)
		products.PATCH("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
		products.POST("/:id/translate", h.Translate)
		products.POST("/:id/generate-summary", h.GenerateSummary)
		products.POST("/:id/infer-category", h.InferCategory)
	}
}
