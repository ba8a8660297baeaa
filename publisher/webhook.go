package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"hotelgram/models"
)

// ErrNotConfigured is returned when no delivery webhook URL is set.
var ErrNotConfigured = errors.New("MAKE_WEBHOOK_URL not set")

// Webhook delivers publish payloads to the social-media automation endpoint.
// A 200 response is the only success signal; everything else leaves the post
// eligible for retry.
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(url string, client *http.Client) *Webhook {
	if client == nil {
		client = http.DefaultClient
	}
	return &Webhook{url: url, client: client}
}

// Configured reports whether a delivery endpoint is set.
func (w *Webhook) Configured() bool {
	return w.url != ""
}

func (w *Webhook) Publish(ctx context.Context, payload *models.PublishPayload) error {
	if w.url == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook error %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
