package workers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"hotelgram/models"
)

const maxImageSize = 20 * 1024 * 1024

// MediaStore is the slice of the datastore the media worker needs.
type MediaStore interface {
	GetHotelsMissingImage(ctx context.Context, limit int) ([]models.Hotel, error)
	SetHotelImagePath(ctx context.Context, id uuid.UUID, path string) error
}

// MediaWorker downloads hotel images to local storage in the background, so
// published posts can reference a stable copy.
type MediaWorker struct {
	store     MediaStore
	client    *http.Client
	dir       string
	triggerCh chan struct{}
}

func NewMediaWorker(store MediaStore, client *http.Client, dir string) *MediaWorker {
	if client == nil {
		client = &http.Client{Timeout: 25 * time.Second}
	}
	return &MediaWorker{
		store:     store,
		client:    client,
		dir:       dir,
		triggerCh: make(chan struct{}, 1),
	}
}

// Trigger requests an immediate batch outside the regular interval.
func (w *MediaWorker) Trigger() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

// Run starts the worker loop.
func (w *MediaWorker) Run(ctx context.Context, batchSize int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Media worker stopping")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx, batchSize)
		case <-w.triggerCh:
			w.ProcessBatch(ctx, batchSize)
		}
	}
}

// ProcessBatch downloads images for hotels that still lack a local copy.
// Returns the number downloaded.
func (w *MediaWorker) ProcessBatch(ctx context.Context, batchSize int) int {
	hotels, err := w.store.GetHotelsMissingImage(ctx, batchSize)
	if err != nil {
		log.Printf("Media worker: query error: %v", err)
		return 0
	}
	if len(hotels) == 0 {
		return 0
	}

	downloaded := 0
	for i := range hotels {
		h := &hotels[i]

		path, err := w.download(ctx, h)
		if err != nil {
			log.Printf("Media worker: %s: %v", h.IdentityHash, err)
			continue
		}

		if err := w.store.SetHotelImagePath(ctx, h.ID, path); err != nil {
			log.Printf("Media worker: record path for %s: %v", h.IdentityHash, err)
			continue
		}
		downloaded++
	}

	if downloaded > 0 {
		log.Printf("Media worker: downloaded %d images", downloaded)
	}
	return downloaded
}

func (w *MediaWorker) download(ctx context.Context, h *models.Hotel) (string, error) {
	if h.ImageURL == nil {
		return "", fmt.Errorf("no image url")
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", *h.ImageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; HotelMediaBot/1.0)")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("invalid content type %q", contentType)
	}

	path := filepath.Join(w.dir, h.IdentityHash+extensionFor(contentType))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(resp.Body, maxImageSize)); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write image: %w", err)
	}

	return path, nil
}

func extensionFor(contentType string) string {
	switch strings.TrimSpace(strings.Split(contentType, ";")[0]) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
