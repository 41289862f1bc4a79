package handler

import (
	catalogapp "github.com/catalog/backend/internal/application/catalog"
	"github.com/catalog/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AIHandler handles the standalone AI endpoints
type AIHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(productService *catalogapp.ProductService) *AIHandler {
	return &AIHandler{
		productService: productService,
	}
}

// SummaryResponse carries a generated free-text summary
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// GenerateSummary handles POST /ai/summary
func (h *AIHandler) GenerateSummary(c *gin.Context) {
	var req GenerateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	summary, err := h.productService.SummarizeText(c.Request.Context(), req.Text)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, SummaryResponse{Summary: summary})
}

// RegisterRoutes registers the AI routes
func (h *AIHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ai/summary", h.GenerateSummary)
}
