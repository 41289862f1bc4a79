package catalogapp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedProduct(id uint, extID int64) *catalog.Product {
	summary := "A compact lamp."
	return &catalog.Product{
		ID:          id,
		ExtID:       extID,
		Title:       "Desk Lamp",
		Description: "An adjustable LED desk lamp",
		Price:       decimal.NewFromFloat(29.99),
		Category:    "lighting",
		Image:       "https://example.com/lamp.jpg",
		AISummary:   &summary,
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestProductServiceCreate(t *testing.T) {
	t.Run("uses the supplied extId", func(t *testing.T) {
		repo := new(MockProductRepository)
		inference := new(MockInference)
		service := NewProductService(repo, inference)

		repo.On("DistinctCategories", mock.Anything).Return([]string{"lighting"}, nil)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.ExtID == 42 && p.Category == "lighting"
		})).Return(nil)

		extID := int64(42)
		resp, err := service.Create(context.Background(), CreateProductRequest{
			ExtID:       &extID,
			Title:       "Desk Lamp",
			Description: "An LED lamp",
			Price:       decimal.NewFromFloat(29.99),
			Category:    "lighting",
			Image:       "https://example.com/lamp.jpg",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(42), resp.ExtID)
		repo.AssertExpectations(t)
	})

	t.Run("generates a unique extId when absent", func(t *testing.T) {
		repo := new(MockProductRepository)
		inference := new(MockInference)
		service := NewProductService(repo, inference)
		service.now = func() time.Time { return time.Unix(1700000000, 0) }

		repo.On("DistinctCategories", mock.Anything).Return([]string{"lighting"}, nil)
		repo.On("ExistsByExtID", mock.Anything, int64(1700000000)).Return(true, nil)
		repo.On("ExistsByExtID", mock.Anything, int64(1700000001)).Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := service.Create(context.Background(), CreateProductRequest{
			Title:       "Desk Lamp",
			Description: "An LED lamp",
			Price:       decimal.NewFromFloat(29.99),
			Category:    "lighting",
			Image:       "https://example.com/lamp.jpg",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1700000001), resp.ExtID)
	})

	t.Run("successive creations never reuse a reserved extId", func(t *testing.T) {
		repo := new(MockProductRepository)
		inference := new(MockInference)
		service := NewProductService(repo, inference)
		service.now = func() time.Time { return time.Unix(1700000000, 0) }

		repo.On("DistinctCategories", mock.Anything).Return([]string{"lighting"}, nil)
		repo.On("ExistsByExtID", mock.Anything, mock.AnythingOfType("int64")).Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

		req := CreateProductRequest{
			Title:       "Desk Lamp",
			Description: "An LED lamp",
			Price:       decimal.NewFromFloat(29.99),
			Category:    "lighting",
			Image:       "https://example.com/lamp.jpg",
		}

		first, err := service.Create(context.Background(), req)
		require.NoError(t, err)
		second, err := service.Create(context.Background(), req)
		require.NoError(t, err)

		assert.NotEqual(t, first.ExtID, second.ExtID)
	})

	t.Run("maps a duplicate extId to ALREADY_EXISTS", func(t *testing.T) {
		repo := new(MockProductRepository)
		inference := new(MockInference)
		service := NewProductService(repo, inference)

		repo.On("DistinctCategories", mock.Anything).Return([]string{"lighting"}, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(shared.ErrAlreadyExists)

		extID := int64(42)
		_, err := service.Create(context.Background(), CreateProductRequest{
			ExtID:       &extID,
			Title:       "Desk Lamp",
			Description: "An LED lamp",
			Price:       decimal.NewFromFloat(29.99),
			Category:    "lighting",
			Image:       "https://example.com/lamp.jpg",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("fails without category when none are known", func(t *testing.T) {
		repo := new(MockProductRepository)
		inference := new(MockInference)
		service := NewProductService(repo, inference)

		repo.On("DistinctCategories", mock.Anything).Return([]string{}, nil)

		_, err := service.Create(context.Background(), CreateProductRequest{
			Title:       "Desk Lamp",
			Description: "An LED lamp",
			Price:       decimal.NewFromFloat(29.99),
			Image:       "https://example.com/lamp.jpg",
		})

		assert.ErrorIs(t, err, ErrNoCategoriesAvailable)
		repo.AssertNotCalled(t, "Save")
	})
}

func TestProductServiceUpdate(t *testing.T) {
	t.Run("rejects an update with no fields", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, new(MockInference))

		repo.On("FindByID", mock.Anything, uint(1)).Return(storedProduct(1, 42), nil)

		_, err := service.Update(context.Background(), 1, UpdateProductRequest{})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("validates changed fields", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, new(MockInference))

		repo.On("FindByID", mock.Anything, uint(1)).Return(storedProduct(1, 42), nil)

		bad := ""
		_, err := service.Update(context.Background(), 1, UpdateProductRequest{Title: &bad})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "Title is required", domainErr.Message)
	})

	t.Run("re-resolves an explicit category", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, new(MockInference))

		repo.On("FindByID", mock.Anything, uint(1)).Return(storedProduct(1, 42), nil)
		repo.On("DistinctCategories", mock.Anything).Return([]string{"lighting"}, nil)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.Category == "office"
		})).Return(nil)

		category := "office"
		resp, err := service.Update(context.Background(), 1, UpdateProductRequest{Category: &category})

		require.NoError(t, err)
		assert.Equal(t, "office", resp.Category)
	})

	t.Run("propagates not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, new(MockInference))

		repo.On("FindByID", mock.Anything, uint(99)).Return(nil, shared.ErrNotFound)

		title := "x"
		_, err := service.Update(context.Background(), 99, UpdateProductRequest{Title: &title})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductServiceGetProducts(t *testing.T) {
	t.Run("computes total pages", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, new(MockInference))

		repo.On("FindFiltered", mock.Anything, mock.Anything).Return([]catalog.Product{*storedProduct(1, 42)}, int64(21), nil)
		repo.On("CountByCategory", mock.Anything).Return(map[string]int64{"lighting": 21}, nil)

		resp, err := service.GetProducts(context.Background(), ListQuery{Page: 1, Size: 10, Order: "ASC"})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.Pagination.TotalPages)
		assert.Equal(t, int64(21), resp.Pagination.Total)
	})

	t.Run("empty catalog still reports one page", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, new(MockInference))

		repo.On("FindFiltered", mock.Anything, mock.Anything).Return([]catalog.Product{}, int64(0), nil)
		repo.On("CountByCategory", mock.Anything).Return(map[string]int64{}, nil)

		resp, err := service.GetProducts(context.Background(), ListQuery{Page: 1, Size: 10, Order: "ASC"})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Pagination.TotalPages)
		assert.Empty(t, resp.Data)
	})

	t.Run("rejects an inverted price range", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, new(MockInference))

		lo := decimal.NewFromInt(50)
		hi := decimal.NewFromInt(10)
		_, err := service.GetProducts(context.Background(), ListQuery{Page: 1, Size: 10, PriceMin: &lo, PriceMax: &hi})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
		repo.AssertNotCalled(t, "FindFiltered")
	})

	t.Run("descending order reaches the filter", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, new(MockInference))

		repo.On("FindFiltered", mock.Anything, mock.MatchedBy(func(f catalog.ProductFilter) bool {
			return f.Order == catalog.SortDesc && f.SortBy == "price"
		})).Return([]catalog.Product{}, int64(0), nil)
		repo.On("CountByCategory", mock.Anything).Return(map[string]int64{}, nil)

		_, err := service.GetProducts(context.Background(), ListQuery{Page: 1, Size: 10, SortBy: "price", Order: "DESC"})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestProductServiceExportCSV(t *testing.T) {
	repo := new(MockProductRepository)
	service := NewProductService(repo, new(MockInference))

	repo.On("FindFiltered", mock.Anything, mock.MatchedBy(func(f catalog.ProductFilter) bool {
		return f.Page == 0 && f.Size == 0
	})).Return([]catalog.Product{*storedProduct(1, 42)}, int64(1), nil)

	out, err := service.ExportCSV(context.Background(), ListQuery{Order: "ASC"})

	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,extId,title,description,price,category,image,aiSummary,createdAt", lines[0])
	assert.Contains(t, lines[1], "1,42,Desk Lamp")
	assert.Contains(t, lines[1], "29.99")
	assert.Contains(t, lines[1], "A compact lamp.")
}

func TestProductServiceTranslateProduct(t *testing.T) {
	repo := new(MockProductRepository)
	inference := new(MockInference)
	service := NewProductService(repo, inference)

	repo.On("FindByID", mock.Anything, uint(1)).Return(storedProduct(1, 42), nil)
	inference.On("Translate", mock.Anything, "Desk Lamp", "An adjustable LED desk lamp", "pt-BR").
		Return(catalog.Translation{Title: "Luminária de mesa", Description: "Uma luminária LED ajustável"}, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	resp, err := service.TranslateProduct(context.Background(), 1, "pt-BR")

	require.NoError(t, err)
	assert.Equal(t, "Luminária de mesa", resp.Title)
	assert.Equal(t, "Uma luminária LED ajustável", resp.Description)
}

func TestProductServiceInferCategory(t *testing.T) {
	t.Run("fails when the catalog has no categories", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, new(MockInference))

		repo.On("FindByID", mock.Anything, uint(1)).Return(storedProduct(1, 42), nil)
		repo.On("DistinctCategories", mock.Anything).Return([]string{}, nil)

		_, err := service.InferCategory(context.Background(), 1)

		assert.ErrorIs(t, err, ErrNoCategoriesAvailable)
	})

	t.Run("persists the inferred category", func(t *testing.T) {
		repo := new(MockProductRepository)
		inference := new(MockInference)
		service := NewProductService(repo, inference)

		repo.On("FindByID", mock.Anything, uint(1)).Return(storedProduct(1, 42), nil)
		repo.On("DistinctCategories", mock.Anything).Return([]string{"lighting", "office"}, nil)
		inference.On("Configured").Return(true)
		inference.On("InferCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("office", nil)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.Category == "office"
		})).Return(nil)

		resp, err := service.InferCategory(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, "office", resp.Category)
	})
}

func TestProductServiceSummarizeText(t *testing.T) {
	t.Run("fails when inference is unconfigured", func(t *testing.T) {
		inference := new(MockInference)
		service := NewProductService(new(MockProductRepository), inference)

		inference.On("Configured").Return(false)

		_, err := service.SummarizeText(context.Background(), "some text")

		assert.ErrorIs(t, err, catalog.ErrInferenceNotConfigured)
	})

	t.Run("returns the generated summary", func(t *testing.T) {
		inference := new(MockInference)
		service := NewProductService(new(MockProductRepository), inference)

		inference.On("Configured").Return(true)
		inference.On("GenerateSummary", mock.Anything, "some text").Return("short", nil)

		summary, err := service.SummarizeText(context.Background(), "some text")

		require.NoError(t, err)
		assert.Equal(t, "short", summary)
	})
}
