package handler

import (
	"strings"

	catalogapp "github.com/catalog/backend/internal/application/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	ExtID       *int64   `json:"extId" binding:"omitempty,gt=0"`
	Title       string   `json:"title" binding:"required,min=1,max=255"`
	Description string   `json:"description" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Category    string   `json:"category" binding:"max=255"`
	Image       string   `json:"image" binding:"required,url"`
	AISummary   *string  `json:"aiSummary"`
}

func (r CreateProductRequest) toApp() catalogapp.CreateProductRequest {
	return catalogapp.CreateProductRequest{
		ExtID:       r.ExtID,
		Title:       r.Title,
		Description: r.Description,
		Price:       decimal.NewFromFloat(*r.Price),
		Category:    strings.TrimSpace(r.Category),
		Image:       r.Image,
		AISummary:   r.AISummary,
	}
}

// UpdateProductRequest represents a partial product update; absent fields
// are left untouched
type UpdateProductRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string  `json:"description" binding:"omitempty,min=1"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Category    *string  `json:"category" binding:"omitempty,max=255"`
	Image       *string  `json:"image" binding:"omitempty,url"`
	AISummary   *string  `json:"aiSummary"`
}

func (r UpdateProductRequest) toApp() catalogapp.UpdateProductRequest {
	req := catalogapp.UpdateProductRequest{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Image:       r.Image,
		AISummary:   r.AISummary,
	}
	if r.Price != nil {
		req.Price = toDecimalPtr(*r.Price)
	}
	return req
}

// ListProductsQuery represents the listing and export query string
type ListProductsQuery struct {
	Page     int      `form:"page,default=1" binding:"gte=1"`
	Size     int      `form:"size,default=10" binding:"gte=1,lte=100"`
	Query    string   `form:"q"`
	Category string   `form:"category"`
	PriceMin *float64 `form:"priceMin" binding:"omitempty,gte=0"`
	PriceMax *float64 `form:"priceMax" binding:"omitempty,gt=0"`
	SortBy   string   `form:"sortBy" binding:"omitempty,oneof=id price title createdAt"`
	Order    string   `form:"order" binding:"omitempty,oneof=ASC DESC asc desc"`
}

func (q ListProductsQuery) toApp() catalogapp.ListQuery {
	query := catalogapp.ListQuery{
		Page:     q.Page,
		Size:     q.Size,
		Query:    strings.TrimSpace(q.Query),
		Category: strings.TrimSpace(q.Category),
		SortBy:   q.SortBy,
		Order:    strings.ToUpper(q.Order),
	}
	if q.PriceMin != nil {
		query.PriceMin = toDecimalPtr(*q.PriceMin)
	}
	if q.PriceMax != nil {
		query.PriceMax = toDecimalPtr(*q.PriceMax)
	}
	return query
}

// TranslateProductRequest carries the target language for a translation
type TranslateProductRequest struct {
	Lang string `json:"lang" binding:"required,langcode"`
}

// BulkLimitRequest caps a bulk mutation; absent means no cap
type BulkLimitRequest struct {
	Limit *int `json:"limit" binding:"omitempty,gt=0"`
}

func (r BulkLimitRequest) limit() int {
	if r.Limit == nil {
		return 0
	}
	return *r.Limit
}

// BulkTranslateRequest caps a bulk translation and names the target language
type BulkTranslateRequest struct {
	Lang  string `json:"lang" binding:"required,langcode"`
	Limit *int   `json:"limit" binding:"omitempty,gt=0"`
}

func (r BulkTranslateRequest) limit() int {
	if r.Limit == nil {
		return 0
	}
	return *r.Limit
}

// GenerateSummaryRequest carries free text for the standalone summary endpoint
type GenerateSummaryRequest struct {
	Text string `json:"text" binding:"required,max=4000"`
}

// SyncRequest optionally overrides how many synced records get a summary
type SyncRequest struct {
	SummaryLimit *int `json:"summaryLimit" binding:"omitempty,gte=0"`
}

// SyncResponse reports a completed feed synchronization
type SyncResponse struct {
	Message string                       `json:"message"`
	Count   int                          `json:"count"`
	Data    []catalogapp.ProductResponse `json:"data"`
}
