package handler

import (
	catalogapp "github.com/catalog/backend/internal/application/catalog"
	"github.com/catalog/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// SyncHandler handles external feed synchronization
type SyncHandler struct {
	BaseHandler
	syncService *catalogapp.SyncService
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncService *catalogapp.SyncService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
	}
}

// Sync handles POST /external-data. The body is optional; when present it
// may override the configured summary limit.
func (h *SyncHandler) Sync(c *gin.Context) {
	var req SyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	products, err := h.syncService.SyncExternal(c.Request.Context(), req.SummaryLimit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, SyncResponse{
		Message: "External data synchronized successfully",
		Count:   len(products),
		Data:    products,
	})
}

// RegisterRoutes registers the sync route
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/external-data", h.Sync)
}
