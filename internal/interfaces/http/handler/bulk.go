package handler

import (
	catalogapp "github.com/catalog/backend/internal/application/catalog"
	"github.com/catalog/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// BulkHandler handles bulk AI mutation endpoints
type BulkHandler struct {
	BaseHandler
	bulkService *catalogapp.BulkService
}

// NewBulkHandler creates a new BulkHandler
func NewBulkHandler(bulkService *catalogapp.BulkService) *BulkHandler {
	return &BulkHandler{
		bulkService: bulkService,
	}
}

// bindLimit binds an optional {limit} body. A missing body means no cap.
func (h *BulkHandler) bindLimit(c *gin.Context) (int, bool) {
	if c.Request.ContentLength == 0 {
		return 0, true
	}
	var req BulkLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return 0, false
	}
	return req.limit(), true
}

// GenerateSummaries handles POST /products/generate-summaries
func (h *BulkHandler) GenerateSummaries(c *gin.Context) {
	limit, ok := h.bindLimit(c)
	if !ok {
		return
	}

	result, err := h.bulkService.GenerateSummaries(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// TranslateAll handles POST /products/translate-all
func (h *BulkHandler) TranslateAll(c *gin.Context) {
	var req BulkTranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.bulkService.TranslateAll(c.Request.Context(), req.Lang, req.limit())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// EnsureCategories handles POST /products/generate-categories
func (h *BulkHandler) EnsureCategories(c *gin.Context) {
	limit, ok := h.bindLimit(c)
	if !ok {
		return
	}

	result, err := h.bulkService.EnsureCategories(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// InferCategories handles POST /products/infer-categories
func (h *BulkHandler) InferCategories(c *gin.Context) {
	limit, ok := h.bindLimit(c)
	if !ok {
		return
	}

	result, err := h.bulkService.InferCategories(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RegisterRoutes registers all bulk mutation routes
func (h *BulkHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("/generate-summaries", h.GenerateSummaries)
		products.POST("/translate-all", h.TranslateAll)
		products.POST("/generate-categories", h.EnsureCategories)
		products.POST("/infer-categories", h.InferCategories)
	}
}
