package catalogapp

import (
	"context"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository implements catalog.ProductRepository for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uint) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByExtID(ctx context.Context, extID int64) (*catalog.Product, error) {
	args := m.Called(ctx, extID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByExtIDs(ctx context.Context, extIDs []int64) ([]catalog.Product, error) {
	args := m.Called(ctx, extIDs)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllOrdered(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindFiltered(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockProductRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProductRepository) ExistsByExtID(ctx context.Context, extID int64) (bool, error) {
	args := m.Called(ctx, extID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveBatch(ctx context.Context, products []*catalog.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *MockProductRepository) UpsertByExtID(ctx context.Context, products []*catalog.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockInference implements catalog.Inference for testing
type MockInference struct {
	mock.Mock
}

func (m *MockInference) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockInference) GenerateSummary(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func (m *MockInference) InferCategory(ctx context.Context, title, description string, categories []string) (string, error) {
	args := m.Called(ctx, title, description, categories)
	return args.String(0), args.Error(1)
}

func (m *MockInference) Translate(ctx context.Context, title, description, targetLanguage string) (catalog.Translation, error) {
	args := m.Called(ctx, title, description, targetLanguage)
	return args.Get(0).(catalog.Translation), args.Error(1)
}
