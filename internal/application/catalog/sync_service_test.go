package catalogapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const feedPayload = `[
	{"id": 1, "title": "Backpack", "description": "A sturdy backpack", "price": 109.95, "category": "men's clothing", "image": "https://example.com/backpack.jpg"},
	{"id": 2, "title": "T-Shirt", "description": "A slim-fit shirt", "price": 22.3, "category": "men's clothing", "image": "https://example.com/shirt.jpg"}
]`

func feedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSyncServiceSyncExternal(t *testing.T) {
	t.Run("upserts every feed item by extId", func(t *testing.T) {
		srv := feedServer(t, http.StatusOK, feedPayload)

		repo := new(MockProductRepository)
		inference := new(MockInference)
		service := NewSyncService(repo, inference, srv.URL, 0, 5*time.Second)

		repo.On("UpsertByExtID", mock.Anything, mock.MatchedBy(func(products []*catalog.Product) bool {
			return len(products) == 2 &&
				products[0].ExtID == 1 && products[0].Title == "Backpack" &&
				products[1].ExtID == 2 && products[1].Price.Equal(decimal.NewFromFloat(22.30))
		})).Return(nil)
		repo.On("FindByExtIDs", mock.Anything, []int64{1, 2}).Return([]catalog.Product{
			{ID: 10, ExtID: 1, Title: "Backpack"},
			{ID: 11, ExtID: 2, Title: "T-Shirt"},
		}, nil)

		responses, err := service.SyncExternal(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, responses, 2)
		assert.Equal(t, uint(10), responses[0].ID)
		inference.AssertNotCalled(t, "GenerateSummary")
	})

	t.Run("summarizes only the first summaryLimit items", func(t *testing.T) {
		srv := feedServer(t, http.StatusOK, feedPayload)

		repo := new(MockProductRepository)
		inference := new(MockInference)
		service := NewSyncService(repo, inference, srv.URL, 1, 5*time.Second)

		inference.On("Configured").Return(true)
		inference.On("GenerateSummary", mock.Anything, "A sturdy backpack").Return("A backpack.", nil)
		repo.On("UpsertByExtID", mock.Anything, mock.MatchedBy(func(products []*catalog.Product) bool {
			return products[0].AISummary != nil && *products[0].AISummary == "A backpack." &&
				products[1].AISummary == nil
		})).Return(nil)
		repo.On("FindByExtIDs", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)

		_, err := service.SyncExternal(context.Background(), nil)

		require.NoError(t, err)
		inference.AssertNumberOfCalls(t, "GenerateSummary", 1)
	})

	t.Run("request override takes precedence over the configured limit", func(t *testing.T) {
		srv := feedServer(t, http.StatusOK, feedPayload)

		repo := new(MockProductRepository)
		inference := new(MockInference)
		service := NewSyncService(repo, inference, srv.URL, 10, 5*time.Second)

		repo.On("UpsertByExtID", mock.Anything, mock.Anything).Return(nil)
		repo.On("FindByExtIDs", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)

		override := 0
		_, err := service.SyncExternal(context.Background(), &override)

		require.NoError(t, err)
		inference.AssertNotCalled(t, "GenerateSummary")
	})

	t.Run("a failed summary never fails the sync", func(t *testing.T) {
		srv := feedServer(t, http.StatusOK, feedPayload)

		repo := new(MockProductRepository)
		inference := new(MockInference)
		service := NewSyncService(repo, inference, srv.URL, 2, 5*time.Second)

		inference.On("Configured").Return(true)
		inference.On("GenerateSummary", mock.Anything, mock.Anything).Return("", assert.AnError)
		repo.On("UpsertByExtID", mock.Anything, mock.MatchedBy(func(products []*catalog.Product) bool {
			return products[0].AISummary == nil && products[1].AISummary == nil
		})).Return(nil)
		repo.On("FindByExtIDs", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)

		_, err := service.SyncExternal(context.Background(), nil)

		require.NoError(t, err)
	})

	t.Run("maps an upstream error status to UPSTREAM_FAILED", func(t *testing.T) {
		srv := feedServer(t, http.StatusBadGateway, "oops")

		service := NewSyncService(new(MockProductRepository), new(MockInference), srv.URL, 0, 5*time.Second)

		_, err := service.SyncExternal(context.Background(), nil)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UPSTREAM_FAILED", domainErr.Code)
	})

	t.Run("maps a malformed payload to UPSTREAM_FAILED", func(t *testing.T) {
		srv := feedServer(t, http.StatusOK, `{"not": "an array"}`)

		service := NewSyncService(new(MockProductRepository), new(MockInference), srv.URL, 0, 5*time.Second)

		_, err := service.SyncExternal(context.Background(), nil)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UPSTREAM_FAILED", domainErr.Code)
		assert.Equal(t, "External API returned an unexpected payload", domainErr.Message)
	})

	t.Run("maps an unreachable feed to UPSTREAM_FAILED", func(t *testing.T) {
		service := NewSyncService(new(MockProductRepository), new(MockInference), "http://127.0.0.1:1", 0, time.Second)

		_, err := service.SyncExternal(context.Background(), nil)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UPSTREAM_FAILED", domainErr.Code)
	})
}
