package shopping

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/natasquad/buyergpt/internal/logger"
)

func testService(baseURL string) *Service {
	return &Service{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger.New(logger.Config{Level: slog.LevelError, Format: "text"}).WithComponent("shopping"),
		apiKey:     "test-key",
		baseURL:    baseURL,
	}
}

func TestFetchQueriesGoogleShopping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("engine") != "google_shopping" {
			t.Errorf("engine = %q, want google_shopping", q.Get("engine"))
		}
		if q.Get("q") != "blender" {
			t.Errorf("q = %q, want blender", q.Get("q"))
		}
		if q.Get("api_key") != "test-key" {
			t.Errorf("api_key = %q, want test-key", q.Get("api_key"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"search_metadata": {"status": "Success"},
			"shopping_results": [
				{"title": "Blender A", "price": "$39.99", "link": "https://example.com/a"},
				{"title": "Blender B", "price": "$49.99", "product_link": "https://example.com/b"}
			]
		}`))
	}))
	defer server.Close()

	svc := testService(server.URL)

	listings, err := svc.Fetch(context.Background(), "blender", 10)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}
	if listings[0].Title != "Blender A" || listings[0].Link != "https://example.com/a" {
		t.Errorf("unexpected first listing: %+v", listings[0])
	}
	if listings[1].ProductLink != "https://example.com/b" {
		t.Errorf("product_link not decoded: %+v", listings[1])
	}
}

func TestFetchTruncatesToLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"shopping_results": [
			{"title": "a"}, {"title": "b"}, {"title": "c"}, {"title": "d"}, {"title": "e"}
		]}`))
	}))
	defer server.Close()

	svc := testService(server.URL)

	listings, err := svc.Fetch(context.Background(), "blender", 3)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(listings))
	}
	// Provider order is preserved.
	for i, want := range []string{"a", "b", "c"} {
		if listings[i].Title != want {
			t.Errorf("listing %d title = %q, want %q", i, listings[i].Title, want)
		}
	}
}

func TestFetchProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "Google Shopping hasn't returned any results for this query."}`))
	}))
	defer server.Close()

	svc := testService(server.URL)

	if _, err := svc.Fetch(context.Background(), "blender", 3); err == nil {
		t.Fatal("expected provider error to propagate")
	}
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := testService(server.URL)

	if _, err := svc.Fetch(context.Background(), "blender", 3); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestFetchRequiresAPIKey(t *testing.T) {
	svc := testService("http://unused")
	svc.apiKey = ""

	if _, err := svc.Fetch(context.Background(), "blender", 3); err == nil {
		t.Fatal("expected error without api key")
	}
}
