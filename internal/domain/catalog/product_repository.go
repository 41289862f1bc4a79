package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// SortOrder is the direction of a sorted listing
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ProductFilter narrows listing and export queries
type ProductFilter struct {
	// Query matches title or description as a case-insensitive substring
	Query    string
	Category string
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
	SortBy   string // id, price, title, createdAt
	Order    SortOrder
	Page     int // 1-based; 0 disables pagination
	Size     int
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its surrogate ID
	FindByID(ctx context.Context, id uint) (*Product, error)

	// FindByExtID finds a product by its external ID
	FindByExtID(ctx context.Context, extID int64) (*Product, error)

	// FindByExtIDs finds all products with the given external IDs, ordered by ID
	FindByExtIDs(ctx context.Context, extIDs []int64) ([]Product, error)

	// FindAllOrdered finds all products ordered by ascending ID,
	// capped at limit when limit > 0
	FindAllOrdered(ctx context.Context, limit int) ([]Product, error)

	// FindFiltered finds products matching the filter and returns the total
	// count before pagination
	FindFiltered(ctx context.Context, filter ProductFilter) ([]Product, int64, error)

	// CountByCategory returns the number of products per category
	CountByCategory(ctx context.Context) (map[string]int64, error)

	// DistinctCategories returns the distinct non-empty categories in
	// ascending string order
	DistinctCategories(ctx context.Context) ([]string, error)

	// ExistsByExtID checks whether a product with the external ID exists
	ExistsByExtID(ctx context.Context, extID int64) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveBatch persists multiple products as independent writes
	SaveBatch(ctx context.Context, products []*Product) error

	// UpsertByExtID inserts the products, overwriting rows that share an
	// external ID
	UpsertByExtID(ctx context.Context, products []*Product) error

	// Delete removes a product
	Delete(ctx context.Context, product *Product) error
}
