package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
)

const firecrawlAPIBase = "https://api.firecrawl.dev/v2"

// ErrNotConfigured is returned when the extraction credential is absent.
var ErrNotConfigured = errors.New("FIRECRAWL_API_KEY not set")

const extractionPrompt = "Extract hotel listings shown as hotel cards on the page. " +
	"Each hotel should represent one visible hotel result. " +
	"If a field is not visible, return null. Do not hallucinate."

// FirecrawlClient drives the external extraction service: it submits a URL
// plus an extraction schema and gets back loosely-structured hotel records.
type FirecrawlClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewFirecrawlClient(apiKey string, client *http.Client) *FirecrawlClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &FirecrawlClient{
		apiKey:  apiKey,
		baseURL: firecrawlAPIBase,
		client:  client,
	}
}

// SetBaseURL overrides the API base, used by tests.
func (c *FirecrawlClient) SetBaseURL(base string) {
	c.baseURL = base
}

// ScrapeHotels extracts hotel records from a search page. The elements are
// deliberately untyped; the normalizer owns validation.
func (c *FirecrawlClient) ScrapeHotels(ctx context.Context, pageURL string) ([]any, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	reqBody := map[string]any{
		"url": pageURL,
		"formats": []any{
			map[string]any{
				"type":   "json",
				"schema": hotelListSchema,
				"prompt": extractionPrompt,
			},
		},
		"onlyMainContent": false,
		"waitFor":         60000,
		"actions":         scrollActions(),
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/scrape", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Printf("Firecrawl: scraping %s", pageURL)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("firecrawl request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("firecrawl error %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Success bool `json:"success"`
		Data    struct {
			JSON struct {
				Hotels []any `json:"hotels"`
			} `json:"json"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("firecrawl decode: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("firecrawl returned success=false")
	}

	log.Printf("Firecrawl: %d hotels extracted", len(result.Data.JSON.Hotels))
	return result.Data.JSON.Hotels, nil
}

// scrollActions makes the service scroll through the lazily-loaded result
// list before extracting.
func scrollActions() []any {
	actions := []any{
		map[string]any{"type": "wait", "milliseconds": 5000},
	}
	for i := 0; i < 4; i++ {
		actions = append(actions,
			map[string]any{"type": "scroll", "direction": "down", "amount": 1200},
			map[string]any{"type": "wait", "milliseconds": 2000},
		)
	}
	actions = append(actions,
		map[string]any{"type": "scroll", "direction": "up", "amount": 600},
		map[string]any{"type": "wait", "milliseconds": 2000},
	)
	return actions
}

// hotelListSchema is the JSON schema handed to the extraction service. Every
// field is nullable; missing data must come back as null, not invented.
var hotelListSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"hotels": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"hotel_name":       stringField("Nama lengkap hotel."),
					"location":         stringField("Area atau alamat hotel."),
					"discounted_price": stringField("Harga promo saat ini."),
					"original_price":   stringField("Harga asli sebelum diskon."),
					"rating":           stringField("Rating hotel (angka + label)."),
					"rating_text":      stringField("Label kualitas rating."),
					"review_count":     stringField("Jumlah ulasan pengguna."),
					"review_summary":   stringField("Ringkasan sentimen ulasan."),
					"amenities": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Fasilitas utama hotel.",
					},
					"deal_badge": stringField("Label promo."),
					"image_url":  stringField("URL gambar utama hotel."),
					"summary":    stringField("Deskripsi hotel."),
				},
			},
		},
	},
	"required": []string{"hotels"},
}

func stringField(description string) map[string]any {
	return map[string]any{
		"type":        []string{"string", "null"},
		"description": description,
	}
}
