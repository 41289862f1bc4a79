package catalogapp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// externalProduct is the shape of one item in the external feed payload
type externalProduct struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// SyncService pulls the external product feed into the catalog
type SyncService struct {
	productRepo  catalog.ProductRepository
	inference    catalog.Inference
	client       *http.Client
	feedURL      string
	summaryLimit int
}

// NewSyncService creates a new SyncService
func NewSyncService(productRepo catalog.ProductRepository, inference catalog.Inference, feedURL string, summaryLimit int, timeout time.Duration) *SyncService {
	return &SyncService{
		productRepo:  productRepo,
		inference:    inference,
		client:       &http.Client{Timeout: timeout},
		feedURL:      feedURL,
		summaryLimit: summaryLimit,
	}
}

// SyncExternal fetches the feed and upserts every item by extId. The first
// summaryLimit descriptions are summarized when inference is configured;
// a failed summary leaves the field null and never fails the sync. Returns
// the synced records ordered by ID.
func (s *SyncService) SyncExternal(ctx context.Context, summaryLimit *int) ([]ProductResponse, error) {
	limit := s.summaryLimit
	if summaryLimit != nil && *summaryLimit >= 0 {
		limit = *summaryLimit
	}

	payload, err := s.fetchFeed(ctx)
	if err != nil {
		return nil, err
	}

	extIDs := make([]int64, 0, len(payload))
	upserts := make([]*catalog.Product, 0, len(payload))

	for index, item := range payload {
		extIDs = append(extIDs, item.ID)

		var aiSummary *string
		if index < limit && s.inference.Configured() {
			if summary, err := s.inference.GenerateSummary(ctx, item.Description); err == nil {
				aiSummary = &summary
			}
		}

		upserts = append(upserts, &catalog.Product{
			ExtID:       item.ID,
			Title:       item.Title,
			Description: item.Description,
			Price:       catalog.NormalizePrice(decimal.NewFromFloat(item.Price)),
			Category:    item.Category,
			Image:       item.Image,
			AISummary:   aiSummary,
		})
	}

	if err := s.productRepo.UpsertByExtID(ctx, upserts); err != nil {
		return nil, err
	}

	synced, err := s.productRepo.FindByExtIDs(ctx, extIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, 0, len(synced))
	for i := range synced {
		responses = append(responses, NewProductResponse(&synced[i]))
	}
	return responses, nil
}

func (s *SyncService) fetchFeed(ctx context.Context) ([]externalProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, shared.NewDomainError("UPSTREAM_FAILED", fmt.Sprintf("Failed to fetch external data: %v", err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, shared.NewDomainError("UPSTREAM_FAILED", fmt.Sprintf("Failed to fetch external data: %s", resp.Status))
	}

	var payload []externalProduct
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, shared.NewDomainError("UPSTREAM_FAILED", "External API returned an unexpected payload")
	}
	return payload, nil
}
