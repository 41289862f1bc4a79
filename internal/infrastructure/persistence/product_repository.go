package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productSortColumns maps API sort keys to table columns
var productSortColumns = map[string]string{
	"id":        "id",
	"price":     "price",
	"title":     "title",
	"createdAt": "created_at",
}

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its surrogate ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByExtID finds a product by its external ID
func (r *GormProductRepository) FindByExtID(ctx context.Context, extID int64) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "ext_id = ?", extID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByExtIDs finds all products with the given external IDs, ordered by ID
func (r *GormProductRepository) FindByExtIDs(ctx context.Context, extIDs []int64) ([]catalog.Product, error) {
	if len(extIDs) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("ext_id IN ?", extIDs).
		Order("id ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAllOrdered finds all products ordered by ascending ID, capped at limit when limit > 0
func (r *GormProductRepository) FindAllOrdered(ctx context.Context, limit int) ([]catalog.Product, error) {
	query := r.db.WithContext(ctx).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var products []catalog.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindFiltered finds products matching the filter and returns the total count
// before pagination
func (r *GormProductRepository) FindFiltered(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column := ValidateSortField(productSortColumns[filter.SortBy], ProductSortFields, "id")
	query = query.Order(column + " " + ValidateSortOrder(string(filter.Order)))

	if filter.Page > 0 && filter.Size > 0 {
		query = query.Offset((filter.Page - 1) * filter.Size).Limit(filter.Size)
	}

	var products []catalog.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// CountByCategory returns the number of products per category
func (r *GormProductRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Category string
		Count    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}

// DistinctCategories returns the distinct non-empty categories in ascending order
func (r *GormProductRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ExistsByExtID checks whether a product with the external ID exists
func (r *GormProductRepository) ExistsByExtID(ctx context.Context, extID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("ext_id = ?", extID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return translateError(r.db.WithContext(ctx).Save(product).Error)
}

// SaveBatch creates or updates multiple products
func (r *GormProductRepository) SaveBatch(ctx context.Context, products []*catalog.Product) error {
	if len(products) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).Save(products).Error)
}

// UpsertByExtID inserts the products, overwriting rows that share an external ID
func (r *GormProductRepository) UpsertByExtID(ctx context.Context, products []*catalog.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ext_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description", "price", "category", "image", "ai_summary"}),
		}).
		Create(products).Error
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", product.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter catalog.ProductFilter) *gorm.DB {
	if filter.Query != "" {
		// LOWER + LIKE keeps the search portable across postgres and sqlite
		pattern := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.PriceMin != nil {
		query = query.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("price <= ?", *filter.PriceMax)
	}
	return query
}

// translateError maps driver-level unique violations to the domain sentinel
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed") {
		return shared.ErrAlreadyExists
	}
	return err
}
