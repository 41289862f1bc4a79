package catalogapp

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/shared"
	csvcodec "github.com/catalog/backend/internal/infrastructure/csv"
)

// exportColumns is the canonical column order for CSV export
var exportColumns = []string{"id", "extId", "title", "description", "price", "category", "image", "aiSummary", "createdAt"}

// ProductService handles product CRUD, listing, export, and single-record
// AI-assisted operations
type ProductService struct {
	productRepo catalog.ProductRepository
	inference   catalog.Inference
	resolver    *CategoryResolver

	// extIDMu guards the in-flight reservations so that rapid successive
	// creations within one process never hand out the same synthetic extId
	extIDMu       sync.Mutex
	extIDReserved map[int64]struct{}
	now           func() time.Time
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, inference catalog.Inference) *ProductService {
	return &ProductService{
		productRepo:   productRepo,
		inference:     inference,
		resolver:      NewCategoryResolver(inference),
		extIDReserved: make(map[int64]struct{}),
		now:           time.Now,
	}
}

// Resolver exposes the category resolver shared with the import path
func (s *ProductService) Resolver() *CategoryResolver {
	return s.resolver
}

// Create creates a new product, resolving its category and generating a
// synthetic extId when the request does not supply one
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	categories, err := s.productRepo.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}

	category, err := s.resolver.Resolve(ctx, req.Category, req.Title, req.Description, categories)
	if err != nil {
		return nil, err
	}

	var extID int64
	if req.ExtID != nil {
		extID = *req.ExtID
	} else {
		extID, err = s.generateUniqueExtID(ctx, nil)
		if err != nil {
			return nil, err
		}
	}

	product, err := catalog.NewProduct(extID, req.Title, req.Description, req.Price, category, req.Image, req.AISummary)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		if err == shared.ErrAlreadyExists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with the same extId already exists")
		}
		return nil, err
	}

	resp := NewProductResponse(product)
	return &resp, nil
}

// Update applies a partial update to a product. A request with no fields set
// is rejected.
func (s *ProductService) Update(ctx context.Context, id uint, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hasChanges := false

	if req.Title != nil {
		if err := catalog.ValidateTitle(*req.Title); err != nil {
			return nil, err
		}
		product.Title = *req.Title
		hasChanges = true
	}
	if req.Description != nil {
		if err := catalog.ValidateDescription(*req.Description); err != nil {
			return nil, err
		}
		product.Description = *req.Description
		hasChanges = true
	}
	if req.Price != nil {
		if err := catalog.ValidatePrice(*req.Price); err != nil {
			return nil, err
		}
		product.Price = catalog.NormalizePrice(*req.Price)
		hasChanges = true
	}
	if req.Image != nil {
		if err := catalog.ValidateImage(*req.Image); err != nil {
			return nil, err
		}
		product.Image = *req.Image
		hasChanges = true
	}
	if req.AISummary != nil {
		product.AISummary = req.AISummary
		hasChanges = true
	}
	if req.Category != nil {
		categories, err := s.productRepo.DistinctCategories(ctx)
		if err != nil {
			return nil, err
		}
		category, err := s.resolver.Resolve(ctx, *req.Category, product.Title, product.Description, categories)
		if err != nil {
			return nil, err
		}
		product.Category = category
		hasChanges = true
	}

	if !hasChanges {
		return nil, shared.NewDomainError("INVALID_INPUT", "No fields provided for update")
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := NewProductResponse(product)
	return &resp, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, product)
}

// GetProducts returns a paginated, filtered listing with per-category counts
func (s *ProductService) GetProducts(ctx context.Context, query ListQuery) (*ProductListResponse, error) {
	filter, err := toFilter(query, true)
	if err != nil {
		return nil, err
	}

	products, total, err := s.productRepo.FindFiltered(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats, err := s.productRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / query.Size
	if int(total)%query.Size > 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}

	data := make([]ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, NewProductResponse(&products[i]))
	}

	return &ProductListResponse{
		Data: data,
		Pagination: Pagination{
			Page:       query.Page,
			Size:       query.Size,
			Total:      total,
			TotalPages: totalPages,
		},
		Stats: ProductStats{ByCategory: stats},
	}, nil
}

// ExportCSV renders the filtered, sorted catalog as CSV text
func (s *ProductService) ExportCSV(ctx context.Context, query ListQuery) (string, error) {
	filter, err := toFilter(query, false)
	if err != nil {
		return "", err
	}

	products, _, err := s.productRepo.FindFiltered(ctx, filter)
	if err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(products))
	for i := range products {
		r := NewProductResponse(&products[i])
		summary := ""
		if r.AISummary != nil {
			summary = *r.AISummary
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			strconv.FormatInt(r.ExtID, 10),
			r.Title,
			r.Description,
			products[i].Price.StringFixed(2),
			r.Category,
			r.Image,
			summary,
			r.CreatedAt,
		})
	}

	return csvcodec.Encode(exportColumns, rows), nil
}

// TranslateProduct rewrites a product's title and description in the target
// language
func (s *ProductService) TranslateProduct(ctx context.Context, id uint, targetLanguage string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	translation, err := s.inference.Translate(ctx, product.Title, product.Description, targetLanguage)
	if err != nil {
		return nil, err
	}

	product.SetTranslation(translation.Title, translation.Description)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := NewProductResponse(product)
	return &resp, nil
}

// GenerateSummary generates and persists an AI summary for one product
func (s *ProductService) GenerateSummary(ctx context.Context, id uint) (*ProductResponse, error) {
	if !s.inference.Configured() {
		return nil, catalog.ErrInferenceNotConfigured
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	summary, err := s.inference.GenerateSummary(ctx, product.Description)
	if err != nil {
		return nil, err
	}
	product.SetSummary(summary)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := NewProductResponse(product)
	return &resp, nil
}

// InferCategory re-categorizes one product against the known category set
func (s *ProductService) InferCategory(ctx context.Context, id uint) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	categories, err := s.productRepo.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, ErrNoCategoriesAvailable
	}

	product.Category = s.resolver.InferKnown(ctx, product.Title, product.Description, categories)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := NewProductResponse(product)
	return &resp, nil
}

// SummarizeText summarizes free text without touching the catalog
func (s *ProductService) SummarizeText(ctx context.Context, text string) (string, error) {
	if !s.inference.Configured() {
		return "", catalog.ErrInferenceNotConfigured
	}
	return s.inference.GenerateSummary(ctx, text)
}

// generateUniqueExtID produces a synthetic external ID: the current Unix
// timestamp in seconds, incremented past any value that is already stored or
// reserved in flight. The extra reservation set, when given, covers a batch
// in progress.
func (s *ProductService) generateUniqueExtID(ctx context.Context, batch map[int64]struct{}) (int64, error) {
	s.extIDMu.Lock()
	defer s.extIDMu.Unlock()

	candidate := s.now().Unix()
	for {
		_, reserved := s.extIDReserved[candidate]
		_, inBatch := batch[candidate]
		if !reserved && !inBatch {
			exists, err := s.productRepo.ExistsByExtID(ctx, candidate)
			if err != nil {
				return 0, err
			}
			if !exists {
				break
			}
		}
		candidate++
	}

	s.extIDReserved[candidate] = struct{}{}
	if batch != nil {
		batch[candidate] = struct{}{}
	}
	return candidate, nil
}

// toFilter converts a list query to a repository filter, rejecting an
// inverted price range
func toFilter(query ListQuery, paginate bool) (catalog.ProductFilter, error) {
	if query.PriceMin != nil && query.PriceMax != nil && query.PriceMin.GreaterThan(*query.PriceMax) {
		return catalog.ProductFilter{}, shared.NewDomainError("INVALID_INPUT", "priceMin cannot be greater than priceMax")
	}

	order := catalog.SortAsc
	if query.Order == "DESC" {
		order = catalog.SortDesc
	}

	filter := catalog.ProductFilter{
		Query:    query.Query,
		Category: query.Category,
		PriceMin: query.PriceMin,
		PriceMax: query.PriceMax,
		SortBy:   query.SortBy,
		Order:    order,
	}
	if paginate {
		filter.Page = query.Page
		filter.Size = query.Size
	}
	return filter, nil
}
