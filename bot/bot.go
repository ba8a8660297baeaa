package bot

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"hotelgram/logging"
	"hotelgram/models"
	"hotelgram/scraper"
)

var (
	// ErrNoData is returned when the extraction stage produced no usable records.
	ErrNoData = errors.New("scraper returned no usable hotel data")
	// ErrPostNotFound is returned by PublishPost for an unknown post id.
	ErrPostNotFound = errors.New("post not found")
)

// Store is the slice of the datastore the orchestrator needs.
type Store interface {
	GetHotelByHash(ctx context.Context, hash string) (*models.Hotel, error)
	SaveHotels(ctx context.Context, hotels []*models.Hotel) (int, error)
	GetUnprocessedHotels(ctx context.Context, limit int) ([]models.Hotel, error)
	CreatePostForHotel(ctx context.Context, p *models.SocialPost) error
	NextReadyPost(ctx context.Context) (*models.SocialPost, *models.Hotel, error)
	GetPostWithHotel(ctx context.Context, id uuid.UUID) (*models.SocialPost, *models.Hotel, error)
	MarkPostPublished(ctx context.Context, id uuid.UUID) error
}

// Extractor is the external extraction collaborator.
type Extractor interface {
	ScrapeHotels(ctx context.Context, pageURL string) ([]any, error)
}

// Generator is the external content-generation collaborator.
type Generator interface {
	Generate(ctx context.Context, h *models.Hotel) (*models.InstagramContent, error)
}

// Publisher is the external delivery collaborator.
type Publisher interface {
	Configured() bool
	Publish(ctx context.Context, payload *models.PublishPayload) error
}

// RunRecorder persists cycle-run history. Optional; a nil recorder disables it.
type RunRecorder interface {
	CreateRun(run *models.CycleRun) (int64, error)
	FinishRun(run *models.CycleRun) error
}

// Normalizer turns raw extraction output into validated records.
type Normalizer func(raw []any) []models.NormalizedHotel

// Bot sequences one content cycle: scrape a random location, persist new
// hotels, generate content for one unprocessed hotel, publish one ready post.
// Every stage isolates its own failures; a cycle always runs to completion.
type Bot struct {
	store     Store
	extractor Extractor
	generator Generator
	webhook   Publisher
	runs      RunRecorder
	logs      *logging.Buffer
	normalize Normalizer
	locations []string
}

func New(store Store, extractor Extractor, generator Generator, webhook Publisher, logs *logging.Buffer, normalize Normalizer, locations []string) *Bot {
	return &Bot{
		store:     store,
		extractor: extractor,
		generator: generator,
		webhook:   webhook,
		logs:      logs,
		normalize: normalize,
		locations: locations,
	}
}

// SetRunRecorder enables operational run history.
func (b *Bot) SetRunRecorder(runs RunRecorder) {
	b.runs = runs
}

// ScrapeResult summarizes one scrape stage.
type ScrapeResult struct {
	Found int
	Saved int
}

// RunCycle executes one full scheduled cycle. It never returns an error:
// stage failures are logged and the cycle continues with the next stage.
func (b *Bot) RunCycle(ctx context.Context) {
	b.logs.Add("[ROBOT] Memulai siklus kerja...")

	run := &models.CycleRun{
		Trigger:   models.RunTriggerSchedule,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	b.recordStart(run)

	location := b.pickLocation()
	run.Location = location
	b.logs.Add("[ROBOT] Scraping data di: %s...", location)

	result, err := b.Scrape(ctx, location)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			b.logs.Add("[ROBOT] Scraper kosong di %s.", location)
		} else {
			b.logs.Add("[ROBOT] Error scrape: %v", err)
		}
		run.ErrorsCount++
	} else {
		run.HotelsFound = result.Found
		run.HotelsSaved = result.Saved
		if result.Saved > 0 {
			b.logs.Add("[ROBOT] Berhasil simpan %d hotel baru.", result.Saved)
		} else {
			b.logs.Add("[ROBOT] Data %s sudah up-to-date.", location)
		}
	}

	run.PostsCreated = b.GenerateContent(ctx, 1)

	if b.publishNext(ctx) {
		run.PostsDelivered = 1
	}

	run.Status = models.RunStatusCompleted
	b.recordFinish(run)
	b.logs.Add("[ROBOT] Istirahat.")
}

// Scrape runs acquire→normalize→persist for one location. The batch commits
// once; records whose identity already exists are skipped entirely.
func (b *Bot) Scrape(ctx context.Context, location string) (*ScrapeResult, error) {
	url := scraper.BuildSearchURL(location)

	raw, err := b.extractor.ScrapeHotels(ctx, url)
	if err != nil {
		return nil, err
	}

	normalized := b.normalize(raw)
	if len(normalized) == 0 {
		return nil, ErrNoData
	}

	now := time.Now()
	var fresh []*models.Hotel
	for i := range normalized {
		n := &normalized[i]

		existing, err := b.store.GetHotelByHash(ctx, n.IdentityHash)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}

		fresh = append(fresh, &models.Hotel{
			ID:              uuid.New(),
			IdentityHash:    n.IdentityHash,
			Name:            n.Name,
			Location:        n.Location,
			DiscountedPrice: n.DiscountedPrice,
			OriginalPrice:   n.OriginalPrice,
			Rating:          n.Rating,
			RatingText:      n.RatingText,
			ReviewCount:     n.ReviewCount,
			ReviewSummary:   n.ReviewSummary,
			Amenities:       n.Amenities,
			DealBadge:       n.DealBadge,
			ImageURL:        n.ImageURL,
			Summary:         n.Summary,
			CreatedAt:       now,
		})
	}

	saved := 0
	if len(fresh) > 0 {
		saved, err = b.store.SaveHotels(ctx, fresh)
		if err != nil {
			return nil, err
		}
	}

	return &ScrapeResult{Found: len(normalized), Saved: saved}, nil
}

// ManualScrape runs the scrape stage for a chosen location and records it in
// the run history with a manual trigger.
func (b *Bot) ManualScrape(ctx context.Context, location string) (*ScrapeResult, error) {
	run := &models.CycleRun{
		Trigger:   models.RunTriggerManual,
		Location:  location,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	b.recordStart(run)

	result, err := b.Scrape(ctx, location)
	if err != nil {
		run.ErrorsCount++
		run.Status = models.RunStatusFailed
	} else {
		run.HotelsFound = result.Found
		run.HotelsSaved = result.Saved
		run.Status = models.RunStatusCompleted
	}
	b.recordFinish(run)

	return result, err
}

// GenerateContent creates posts for up to limit unprocessed hotels. A failed
// generation leaves the hotel unprocessed and moves on.
func (b *Bot) GenerateContent(ctx context.Context, limit int) int {
	hotels, err := b.store.GetUnprocessedHotels(ctx, limit)
	if err != nil {
		b.logs.Add("[ROBOT] Error ambil antrian konten: %v", err)
		return 0
	}

	count := 0
	for i := range hotels {
		h := &hotels[i]
		b.logs.Add("[ROBOT] Bikin caption untuk: %s...", h.Name)

		content, err := b.generator.Generate(ctx, h)
		if err != nil {
			b.logs.Add("[ROBOT] Gagal generate: %v", err)
			continue
		}

		post := &models.SocialPost{
			ID:        uuid.New(),
			HotelID:   h.ID,
			Hook:      content.Hook,
			Caption:   content.Caption,
			Hashtags:  content.Hashtags,
			Status:    models.PostStatusReady,
			CreatedAt: time.Now(),
		}
		if err := b.store.CreatePostForHotel(ctx, post); err != nil {
			b.logs.Add("[ROBOT] Error simpan konten: %v", err)
			continue
		}

		b.logs.Add("[ROBOT] Konten AI selesai dibuat.")
		count++
	}
	return count
}

// publishNext delivers the oldest ready post, if any. Reports whether a post
// was confirmed published.
func (b *Bot) publishNext(ctx context.Context) bool {
	post, hotel, err := b.store.NextReadyPost(ctx)
	if err != nil {
		b.logs.Add("[ROBOT] Error ambil antrian posting: %v", err)
		return false
	}
	if post == nil {
		b.logs.Add("[ROBOT] Tidak ada antrian posting.")
		return false
	}

	if !b.webhook.Configured() {
		b.logs.Add("[ROBOT] Webhook URL belum disetting di .env")
		return false
	}

	b.logs.Add("[ROBOT] Uploading %s ke IG...", hotel.Name)

	if err := b.deliver(ctx, post, hotel); err != nil {
		b.logs.Add("[ROBOT] Gagal upload: %v", err)
		return false
	}

	b.logs.Add("[ROBOT] SUKSES! Postingan terbit.")
	return true
}

// PublishPost delivers one specific post regardless of its status, used by
// the manual trigger.
func (b *Bot) PublishPost(ctx context.Context, id uuid.UUID) error {
	post, hotel, err := b.store.GetPostWithHotel(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	b.logs.Add("[MANUAL] Posting %s...", hotel.Name)

	if err := b.deliver(ctx, post, hotel); err != nil {
		b.logs.Add("[MANUAL] Gagal: %v", err)
		return err
	}

	b.logs.Add("[MANUAL] Posting berhasil!")
	return nil
}

// deliver sends the payload and flips status only on confirmed success. A
// failed delivery leaves the post at ready, eligible for the next attempt
// with an identical payload.
func (b *Bot) deliver(ctx context.Context, post *models.SocialPost, hotel *models.Hotel) error {
	payload := &models.PublishPayload{
		HotelName: hotel.Name,
		ImageURL:  deref(hotel.ImageURL),
		Caption:   post.FullCaption(),
		Location:  hotel.Location,
		Price:     deref(hotel.DiscountedPrice),
	}

	if err := b.webhook.Publish(ctx, payload); err != nil {
		return err
	}

	if err := b.store.MarkPostPublished(ctx, post.ID); err != nil {
		b.logs.Add("[ROBOT] Error update status posting: %v", err)
		return err
	}
	return nil
}

func (b *Bot) pickLocation() string {
	return b.locations[rand.Intn(len(b.locations))]
}

func (b *Bot) recordStart(run *models.CycleRun) {
	if b.runs == nil {
		return
	}
	id, err := b.runs.CreateRun(run)
	if err != nil {
		log.Printf("Warning: failed to record cycle run: %v", err)
		return
	}
	run.ID = id
}

func (b *Bot) recordFinish(run *models.CycleRun) {
	if b.runs == nil || run.ID == 0 {
		return
	}
	if err := b.runs.FinishRun(run); err != nil {
		log.Printf("Warning: failed to finish cycle run: %v", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
