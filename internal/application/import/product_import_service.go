package importapp

import (
	"context"
	"fmt"
	"strings"

	catalogapp "github.com/catalog/backend/internal/application/catalog"
	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/shared"
	csvcodec "github.com/catalog/backend/internal/infrastructure/csv"
)

// ImportSummary reports a CSV import: rows created, rows updated, and one
// error string per failed row
type ImportSummary struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

// ProductImportService reconciles external CSV feeds into the catalog
type ProductImportService struct {
	productRepo catalog.ProductRepository
	resolver    *catalogapp.CategoryResolver
}

// NewProductImportService creates a new ProductImportService
func NewProductImportService(productRepo catalog.ProductRepository, resolver *catalogapp.CategoryResolver) *ProductImportService {
	return &ProductImportService{
		productRepo: productRepo,
		resolver:    resolver,
	}
}

// matchKind tags how an existing record was located
type matchKind int

const (
	matchNone matchKind = iota
	matchByExtID
	matchByID
)

// rowMatch is the three-way outcome of locating an existing record for a row
type rowMatch struct {
	kind    matchKind
	product *catalog.Product
}

func (m rowMatch) found() bool {
	return m.kind != matchNone
}

// ImportFromCSV decodes the payload and upserts every row. Structural
// failures (empty payload, malformed quoting) abort the whole import; a bad
// row is recorded and skipped. Row numbers are reported 1-based with the
// header offset, so the first data row is row 2.
func (s *ProductImportService) ImportFromCSV(ctx context.Context, raw []byte) (*ImportSummary, error) {
	if len(raw) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "CSV file is required")
	}

	records, err := csvcodec.Decode(raw)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{Errors: []string{}}
	if len(records) == 0 {
		return summary, nil
	}

	// The category cache spans the whole import: a category introduced by an
	// early row is visible to later rows' inference.
	categories, err := s.productRepo.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}
	extIDsInBatch := make(map[int64]struct{})

	for index, record := range records {
		rowNumber := index + 2

		row, violations := parseRow(record)
		if len(violations) > 0 {
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %s", rowNumber, strings.Join(violations, ", ")))
			continue
		}

		created, err := s.upsertRow(ctx, row, &categories, extIDsInBatch)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %s", rowNumber, err.Error()))
			continue
		}

		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	return summary, nil
}

// upsertRow merges one validated row into the catalog. It reports whether a
// record was created (as opposed to updated); any returned error is scoped to
// this row.
func (s *ProductImportService) upsertRow(ctx context.Context, row *ImportRow, categories *[]string, extIDsInBatch map[int64]struct{}) (bool, error) {
	match, err := s.locate(ctx, row)
	if err != nil {
		return false, err
	}

	category, err := s.resolver.Resolve(ctx, row.Category, row.Title, row.Description, *categories)
	if err != nil {
		return false, err
	}
	if !containsCategory(*categories, category) {
		*categories = append(*categories, category)
	}

	if !match.found() {
		if row.ExtID == nil {
			return false, shared.NewDomainError("INVALID_INPUT", "extId is required to create new products from CSV")
		}
		extIDsInBatch[*row.ExtID] = struct{}{}

		product, err := catalog.NewProduct(*row.ExtID, row.Title, row.Description, row.Price, category, row.Image, row.AISummary)
		if err != nil {
			return false, err
		}
		if err := s.productRepo.Save(ctx, product); err != nil {
			return false, err
		}
		return true, nil
	}

	// An existing record keeps its extId; the row's value, if any, is
	// reserved so later rows cannot collide with it
	extID := match.product.ExtID
	extIDsInBatch[extID] = struct{}{}

	match.product.Merge(extID, row.Title, row.Description, row.Price, category, row.Image, row.AISummary)
	if err := s.productRepo.Save(ctx, match.product); err != nil {
		return false, err
	}
	return false, nil
}

// locate finds the record a row refers to: by extId first, then by internal
// id, else no match
func (s *ProductImportService) locate(ctx context.Context, row *ImportRow) (rowMatch, error) {
	if row.ExtID != nil {
		product, err := s.productRepo.FindByExtID(ctx, *row.ExtID)
		if err == nil {
			return rowMatch{kind: matchByExtID, product: product}, nil
		}
		if err != shared.ErrNotFound {
			return rowMatch{}, err
		}
	}

	if row.ID != nil {
		product, err := s.productRepo.FindByID(ctx, *row.ID)
		if err == nil {
			return rowMatch{kind: matchByID, product: product}, nil
		}
		if err != shared.ErrNotFound {
			return rowMatch{}, err
		}
	}

	return rowMatch{kind: matchNone}, nil
}

func containsCategory(categories []string, category string) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}
