package shortener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testService(baseURL string) *Service {
	return &Service{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestShorten(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shorten" {
			t.Errorf("path = %q, want /shorten", r.URL.Path)
		}
		if got := r.URL.Query().Get("url"); got != "https://example.com/very/long" {
			t.Errorf("url param = %q", got)
		}
		w.Write([]byte("https://da.gd/abc12\n"))
	}))
	defer server.Close()

	got, err := testService(server.URL).Shorten(context.Background(), "https://example.com/very/long")
	if err != nil {
		t.Fatalf("Shorten() error = %v", err)
	}
	if got != "https://da.gd/abc12" {
		t.Errorf("Shorten() = %q, want trimmed short url", got)
	}
}

func TestShortenHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Long URL cannot be empty"))
	}))
	defer server.Close()

	if _, err := testService(server.URL).Shorten(context.Background(), ""); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestShortenEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("  \n"))
	}))
	defer server.Close()

	if _, err := testService(server.URL).Shorten(context.Background(), "https://example.com"); err == nil {
		t.Fatal("expected error on empty response body")
	}
}
