package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"hotelgram/models"
)

const geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

var (
	// ErrNotConfigured is returned when the generation credential is absent.
	ErrNotConfigured = errors.New("GEMINI_API_KEY not set")
	// ErrMalformedContent is returned when the model answers with a result
	// missing one of the three required fields.
	ErrMalformedContent = errors.New("generated content missing required fields")
)

// Generator drives the external content-generation service. It sends a
// structured prompt plus a response schema and expects JSON back.
type Generator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGenerator(apiKey, model string, client *http.Client) *Generator {
	if client == nil {
		client = http.DefaultClient
	}
	return &Generator{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiAPIBase,
		client:  client,
	}
}

// SetBaseURL overrides the API base, used by tests.
func (g *Generator) SetBaseURL(base string) {
	g.baseURL = base
}

// Generate produces Instagram content for one hotel. The result is validated
// before being returned; a malformed model answer is an error, never a
// partially-filled content value.
func (g *Generator) Generate(ctx context.Context, h *models.Hotel) (*models.InstagramContent, error) {
	if g.apiKey == "" {
		return nil, ErrNotConfigured
	}

	reqBody := map[string]any{
		"contents": []any{
			map[string]any{
				"parts": []any{
					map[string]any{"text": BuildPrompt(h)},
				},
			},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
			"responseSchema":   contentSchema,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	log.Printf("Gemini: generating content for %s", h.Name)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini error %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("gemini decode: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, ErrMalformedContent
	}

	var content models.InstagramContent
	if err := json.Unmarshal([]byte(result.Candidates[0].Content.Parts[0].Text), &content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContent, err)
	}
	if content.Hook == "" || content.Caption == "" || len(content.Hashtags) == 0 {
		return nil, ErrMalformedContent
	}

	return &content, nil
}

// contentSchema constrains the model output to the three content fields.
var contentSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"hook": map[string]any{
			"type":        "STRING",
			"description": "Hook pembuka yang kuat.",
		},
		"caption": map[string]any{
			"type":        "STRING",
			"description": "Caption Instagram estetik dan persuasif.",
		},
		"hashtags": map[string]any{
			"type":        "ARRAY",
			"items":       map[string]any{"type": "STRING"},
			"description": "Hashtag travel viral.",
		},
	},
	"required": []string{"hook", "caption", "hashtags"},
}
