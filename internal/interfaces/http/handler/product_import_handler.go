package handler

import (
	"io"
	"net/http"

	importapp "github.com/catalog/backend/internal/application/import"
	"github.com/catalog/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Maximum file size for CSV imports (10MB)
const maxImportFileSize = 10 * 1024 * 1024

// ProductImportHandler handles CSV product imports
type ProductImportHandler struct {
	BaseHandler
	importService *importapp.ProductImportService
}

// NewProductImportHandler creates a new ProductImportHandler
func NewProductImportHandler(importService *importapp.ProductImportService) *ProductImportHandler {
	return &ProductImportHandler{
		importService: importService,
	}
}

// Import handles POST /products/import. The CSV document is the multipart
// field "file"; the response is the per-row reconciliation summary.
func (h *ProductImportHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidCSV, "CSV file is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	if header.Size > maxImportFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "file exceeds maximum size of 10MB")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && contentType != "text/csv" && contentType != "application/octet-stream" &&
		contentType != "text/plain" && contentType != "application/vnd.ms-excel" {
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeInvalidCSV, "file must be a CSV file")
		return
	}

	raw, err := io.ReadAll(io.LimitReader(file, maxImportFileSize+1))
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	if len(raw) > maxImportFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "file exceeds maximum size of 10MB")
		return
	}

	summary, err := h.importService.ImportFromCSV(c.Request.Context(), raw)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// RegisterRoutes registers all product import routes
func (h *ProductImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/products/import", h.Import)
}
