package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestScrapeHotelsParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scrape" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if target, _ := body["url"].(string); target == "" {
			t.Error("request missing target url")
		}

		w.Write([]byte(`{
			"success": true,
			"data": {"json": {"hotels": [
				{"hotel_name": "Sunset Bay", "location": "Bali", "discounted_price": "500000"},
				"junk element"
			]}}
		}`))
	}))
	defer srv.Close()

	c := NewFirecrawlClient("test-key", srv.Client())
	c.SetBaseURL(srv.URL)

	hotels, err := c.ScrapeHotels(context.Background(), "https://example.com/search")
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	if len(hotels) != 2 {
		t.Fatalf("expected 2 raw elements, got %d", len(hotels))
	}

	record, ok := hotels[0].(map[string]any)
	if !ok {
		t.Fatalf("first element not a record: %T", hotels[0])
	}
	if record["hotel_name"] != "Sunset Bay" {
		t.Fatalf("unexpected hotel name %v", record["hotel_name"])
	}
}

func TestScrapeHotelsMissingKey(t *testing.T) {
	c := NewFirecrawlClient("", nil)
	_, err := c.ScrapeHotels(context.Background(), "https://example.com")
	if err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestScrapeHotelsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream broke"))
	}))
	defer srv.Close()

	c := NewFirecrawlClient("test-key", srv.Client())
	c.SetBaseURL(srv.URL)

	_, err := c.ScrapeHotels(context.Background(), "https://example.com")
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected 502 error, got %v", err)
	}
}

func TestBuildSearchURL(t *testing.T) {
	url := BuildSearchURL("Kota Baru")
	if !strings.HasPrefix(url, "https://www.expedia.co.id/Hotel-Search?destination=Kota+Baru") {
		t.Fatalf("unexpected URL %s", url)
	}
	for _, want := range []string{"adults=2", "language=id_ID", "startDate=", "endDate="} {
		if !strings.Contains(url, want) {
			t.Fatalf("URL missing %q: %s", want, url)
		}
	}
}
