package catalogapp

import (
	"time"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductResponse is the API projection of a product
type ProductResponse struct {
	ID          uint    `json:"id"`
	ExtID       int64   `json:"extId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	AISummary   *string `json:"aiSummary"`
	CreatedAt   string  `json:"createdAt"`
}

// NewProductResponse maps a product entity to its response shape
func NewProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		ExtID:       p.ExtID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Category:    p.Category,
		Image:       p.Image,
		AISummary:   p.AISummary,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// NewProductResponses maps a slice of entities
func NewProductResponses(products []*catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, NewProductResponse(p))
	}
	return responses
}

// CreateProductRequest carries the fields for creating a product
type CreateProductRequest struct {
	ExtID       *int64
	Title       string
	Description string
	Price       decimal.Decimal
	Category    string
	Image       string
	AISummary   *string
}

// UpdateProductRequest carries a partial update; nil fields are left untouched
type UpdateProductRequest struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	Image       *string
	AISummary   *string
}

// ListQuery narrows and pages the product listing
type ListQuery struct {
	Page     int
	Size     int
	Query    string
	Category string
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
	SortBy   string
	Order    string
}

// Pagination describes the returned page
type Pagination struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ProductStats aggregates catalog counts
type ProductStats struct {
	ByCategory map[string]int64 `json:"byCategory"`
}

// ProductListResponse is a paginated listing with aggregate stats
type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Pagination Pagination        `json:"pagination"`
	Stats      ProductStats      `json:"stats"`
}

// BulkResult reports a bulk mutation: how many records were attempted, how
// many were mutated and persisted, the per-record failures, and the mutated
// records themselves.
type BulkResult struct {
	Attempted int               `json:"attempted"`
	Updated   int               `json:"updated"`
	Errors    []string          `json:"errors"`
	Products  []ProductResponse `json:"products"`
}
