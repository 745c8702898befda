// Package shortener wraps the da.gd URL shortening API.
package shortener

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/natasquad/buyergpt/internal/config"
)

// Service shortens shopping links.
type Service struct {
	baseURL    string
	httpClient *http.Client
}

// NewService creates a new shortener client.
func NewService(cfg *config.Config) *Service {
	return &Service{
		baseURL: strings.TrimSuffix(cfg.ShortenerBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Shorten returns a shortened URL for longURL. The API answers with the
// short URL as plain text.
func (s *Service) Shorten(ctx context.Context, longURL string) (string, error) {
	params := url.Values{}
	params.Set("url", longURL)

	apiURL := s.baseURL + "/shorten?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("shortener returned status %d: %s", resp.StatusCode, string(body))
	}

	short := strings.TrimSpace(string(body))
	if short == "" {
		return "", fmt.Errorf("shortener returned an empty response")
	}

	return short, nil
}
