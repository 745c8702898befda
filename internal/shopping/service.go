// Package shopping fetches candidate product listings from SerpAPI's
// google_shopping engine.
package shopping

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/natasquad/buyergpt/internal/config"
	"github.com/natasquad/buyergpt/internal/logger"
	"github.com/natasquad/buyergpt/internal/metrics"
)

const defaultBaseURL = "https://serpapi.com/search.json"

// Service handles shopping searches.
type Service struct {
	httpClient *http.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string
}

// NewService creates a new shopping search service.
func NewService(cfg *config.Config, log *logger.Logger) *Service {
	return &Service{
		httpClient: &http.Client{
			Timeout: cfg.SearchTimeout,
		},
		logger:  log.WithComponent("shopping"),
		apiKey:  cfg.SerpAPIKey,
		baseURL: defaultBaseURL,
	}
}

// Fetch queries the provider and returns at most limit leading listings in
// provider order. No re-sorting, no retries; provider errors propagate.
func (s *Service) Fetch(ctx context.Context, query string, limit int) ([]Listing, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("SerpAPI key not configured")
	}

	metrics.ShoppingFetchesTotal.Inc()

	apiURL := s.buildSearchURL(query)

	httpReq, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SerpAPI returned status %d: %s", resp.StatusCode, string(body))
	}

	var serpResp serpAPIShoppingResponse
	if err := json.Unmarshal(body, &serpResp); err != nil {
		return nil, fmt.Errorf("failed to parse SerpAPI response: %w", err)
	}

	if serpResp.Error != "" {
		return nil, fmt.Errorf("SerpAPI error: %s", serpResp.Error)
	}

	listings := serpResp.ShoppingResults
	if limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}

	s.logger.WithContext(ctx).Debug("shopping results received",
		slog.String("query", query),
		slog.Int("total", len(serpResp.ShoppingResults)),
		slog.Int("returned", len(listings)),
	)

	return listings, nil
}

// buildSearchURL constructs the SerpAPI request URL.
func (s *Service) buildSearchURL(query string) string {
	params := url.Values{}
	params.Set("api_key", s.apiKey)
	params.Set("engine", "google_shopping")
	params.Set("q", query)

	return s.baseURL + "?" + params.Encode()
}
