package catalogapp

import (
	"context"
	"fmt"
	"strings"

	"github.com/catalog/backend/internal/domain/catalog"
)

// BulkService runs AI-assisted mutations over many products at once. Records
// are mutated strictly one at a time so at most one inference call is in
// flight per batch and every failure is attributable to a single record.
type BulkService struct {
	productRepo catalog.ProductRepository
	inference   catalog.Inference
	resolver    *CategoryResolver
}

// NewBulkService creates a new BulkService
func NewBulkService(productRepo catalog.ProductRepository, inference catalog.Inference) *BulkService {
	return &BulkService{
		productRepo: productRepo,
		inference:   inference,
		resolver:    NewCategoryResolver(inference),
	}
}

// mutateFunc transforms one product in place; a failure leaves the product
// out of the persisted set
type mutateFunc func(ctx context.Context, product *catalog.Product) error

// run applies mutate to each selected product in order, collects failures as
// row-scoped errors, and persists the mutated records in one batch write.
func (s *BulkService) run(ctx context.Context, products []catalog.Product, mutate mutateFunc) (*BulkResult, error) {
	updates := make([]*catalog.Product, 0, len(products))
	errs := []string{}

	for i := range products {
		product := &products[i]
		if err := mutate(ctx, product); err != nil {
			errs = append(errs, fmt.Sprintf("product %d: %s", product.ID, err.Error()))
			continue
		}
		updates = append(updates, product)
	}

	if len(updates) > 0 {
		if err := s.productRepo.SaveBatch(ctx, updates); err != nil {
			return nil, err
		}
	}

	return &BulkResult{
		Attempted: len(products),
		Updated:   len(updates),
		Errors:    errs,
		Products:  NewProductResponses(updates),
	}, nil
}

// GenerateSummaries summarizes the first limit products by ascending ID
func (s *BulkService) GenerateSummaries(ctx context.Context, limit int) (*BulkResult, error) {
	if !s.inference.Configured() {
		return nil, catalog.ErrInferenceNotConfigured
	}

	products, err := s.productRepo.FindAllOrdered(ctx, limit)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, products, func(ctx context.Context, product *catalog.Product) error {
		summary, err := s.inference.GenerateSummary(ctx, product.Description)
		if err != nil {
			return err
		}
		product.SetSummary(summary)
		return nil
	})
}

// TranslateAll rewrites title and description of the first limit products in
// the target language
func (s *BulkService) TranslateAll(ctx context.Context, targetLanguage string, limit int) (*BulkResult, error) {
	if !s.inference.Configured() {
		return nil, catalog.ErrInferenceNotConfigured
	}

	products, err := s.productRepo.FindAllOrdered(ctx, limit)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, products, func(ctx context.Context, product *catalog.Product) error {
		translation, err := s.inference.Translate(ctx, product.Title, product.Description, targetLanguage)
		if err != nil {
			return err
		}
		product.SetTranslation(translation.Title, translation.Description)
		return nil
	})
}

// EnsureCategories infers a category for products whose category is blank.
// The limit caps the blank-category records, not the scan.
func (s *BulkService) EnsureCategories(ctx context.Context, limit int) (*BulkResult, error) {
	categories, err := s.knownCategories(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.productRepo.FindAllOrdered(ctx, 0)
	if err != nil {
		return nil, err
	}

	targets := make([]catalog.Product, 0)
	for _, product := range all {
		if !product.HasCategory() {
			targets = append(targets, product)
		}
	}
	if limit > 0 && len(targets) > limit {
		targets = targets[:limit]
	}

	return s.run(ctx, targets, s.inferMutation(categories))
}

// InferCategories re-infers a category for the first limit products
// regardless of their current category
func (s *BulkService) InferCategories(ctx context.Context, limit int) (*BulkResult, error) {
	categories, err := s.knownCategories(ctx)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindAllOrdered(ctx, limit)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, products, s.inferMutation(categories))
}

func (s *BulkService) inferMutation(categories []string) mutateFunc {
	return func(ctx context.Context, product *catalog.Product) error {
		product.Category = s.resolver.InferKnown(ctx, product.Title, product.Description, categories)
		return nil
	}
}

// knownCategories loads the non-empty known category set, failing fast when
// there is nothing to infer against
func (s *BulkService) knownCategories(ctx context.Context) ([]string, error) {
	categories, err := s.productRepo.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}

	valid := make([]string, 0, len(categories))
	for _, category := range categories {
		if strings.TrimSpace(category) != "" {
			valid = append(valid, category)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoCategoriesAvailable
	}
	return valid, nil
}
