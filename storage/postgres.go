package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"hotelgram/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS hotels (
		id UUID PRIMARY KEY,
		identity_hash TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		location TEXT NOT NULL,
		discounted_price TEXT,
		original_price TEXT,
		rating TEXT,
		rating_text TEXT,
		review_count TEXT,
		review_summary TEXT,
		amenities TEXT[] NOT NULL DEFAULT '{}',
		deal_badge TEXT,
		image_url TEXT,
		summary TEXT,
		image_path TEXT,
		is_processed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS social_posts (
		id UUID PRIMARY KEY,
		hotel_id UUID NOT NULL REFERENCES hotels(id),
		hook TEXT NOT NULL,
		caption TEXT NOT NULL,
		hashtags TEXT[] NOT NULL DEFAULT '{}',
		status TEXT NOT NULL DEFAULT 'ready',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_hotels_unprocessed ON hotels (created_at) WHERE NOT is_processed;
	CREATE INDEX IF NOT EXISTS idx_posts_ready ON social_posts (created_at) WHERE status = 'ready';
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// =============================================================================
// Hotels
// =============================================================================

const hotelColumns = `id, identity_hash, name, location, discounted_price, original_price,
	rating, rating_text, review_count, review_summary, amenities, deal_badge,
	image_url, summary, image_path, is_processed, created_at`

func scanHotel(row pgx.Row) (*models.Hotel, error) {
	var h models.Hotel
	err := row.Scan(
		&h.ID, &h.IdentityHash, &h.Name, &h.Location, &h.DiscountedPrice, &h.OriginalPrice,
		&h.Rating, &h.RatingText, &h.ReviewCount, &h.ReviewSummary, &h.Amenities, &h.DealBadge,
		&h.ImageURL, &h.Summary, &h.ImagePath, &h.IsProcessed, &h.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// SaveHotels inserts the batch in one transaction, skipping rows whose
// identity already exists. Existing rows are never updated; the unique
// constraint is the race guard. Returns the number actually inserted.
func (s *PostgresStore) SaveHotels(ctx context.Context, hotels []*models.Hotel) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO hotels (` + hotelColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (identity_hash) DO NOTHING`

	saved := 0
	for _, h := range hotels {
		tag, err := tx.Exec(ctx, query,
			h.ID, h.IdentityHash, h.Name, h.Location, h.DiscountedPrice, h.OriginalPrice,
			h.Rating, h.RatingText, h.ReviewCount, h.ReviewSummary, h.Amenities, h.DealBadge,
			h.ImageURL, h.Summary, h.ImagePath, h.IsProcessed, h.CreatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("insert hotel %s: %w", h.IdentityHash, err)
		}
		saved += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return saved, nil
}

func (s *PostgresStore) GetHotelByHash(ctx context.Context, hash string) (*models.Hotel, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels WHERE identity_hash = $1`
	return scanHotel(s.pool.QueryRow(ctx, query, hash))
}

func (s *PostgresStore) GetHotelByID(ctx context.Context, id uuid.UUID) (*models.Hotel, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels WHERE id = $1`
	return scanHotel(s.pool.QueryRow(ctx, query, id))
}

func (s *PostgresStore) ListHotels(ctx context.Context) ([]models.Hotel, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectHotels(rows)
}

func (s *PostgresStore) GetUnprocessedHotels(ctx context.Context, limit int) ([]models.Hotel, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels
		WHERE NOT is_processed ORDER BY created_at ASC LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectHotels(rows)
}

func collectHotels(rows pgx.Rows) ([]models.Hotel, error) {
	var hotels []models.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, *h)
	}
	return hotels, rows.Err()
}

// =============================================================================
// Posts
// =============================================================================

// CreatePostForHotel inserts the generated post and flips the hotel's
// is_processed flag in one transaction.
func (s *PostgresStore) CreatePostForHotel(ctx context.Context, p *models.SocialPost) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO social_posts (id, hotel_id, hook, caption, hashtags, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.HotelID, p.Hook, p.Caption, p.Hashtags, p.Status, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE hotels SET is_processed = TRUE WHERE id = $1`, p.HotelID)
	if err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}

	return tx.Commit(ctx)
}

const postJoinQuery = `
	SELECT p.id, p.hotel_id, p.hook, p.caption, p.hashtags, p.status, p.created_at,
		` + hotelJoinColumns + `
	FROM social_posts p
	JOIN hotels h ON h.id = p.hotel_id`

const hotelJoinColumns = `h.id, h.identity_hash, h.name, h.location, h.discounted_price,
	h.original_price, h.rating, h.rating_text, h.review_count, h.review_summary,
	h.amenities, h.deal_badge, h.image_url, h.summary, h.image_path, h.is_processed, h.created_at`

func scanPostWithHotel(row pgx.Row) (*models.SocialPost, *models.Hotel, error) {
	var p models.SocialPost
	var h models.Hotel
	err := row.Scan(
		&p.ID, &p.HotelID, &p.Hook, &p.Caption, &p.Hashtags, &p.Status, &p.CreatedAt,
		&h.ID, &h.IdentityHash, &h.Name, &h.Location, &h.DiscountedPrice,
		&h.OriginalPrice, &h.Rating, &h.RatingText, &h.ReviewCount, &h.ReviewSummary,
		&h.Amenities, &h.DealBadge, &h.ImageURL, &h.Summary, &h.ImagePath, &h.IsProcessed, &h.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &p, &h, nil
}

// NextReadyPost returns the oldest ready post with its hotel, or nils when
// the queue is empty. Oldest-first keeps publish order deterministic.
func (s *PostgresStore) NextReadyPost(ctx context.Context) (*models.SocialPost, *models.Hotel, error) {
	query := postJoinQuery + ` WHERE p.status = 'ready' ORDER BY p.created_at ASC LIMIT 1`
	return scanPostWithHotel(s.pool.QueryRow(ctx, query))
}

func (s *PostgresStore) GetPostWithHotel(ctx context.Context, id uuid.UUID) (*models.SocialPost, *models.Hotel, error) {
	query := postJoinQuery + ` WHERE p.id = $1`
	return scanPostWithHotel(s.pool.QueryRow(ctx, query, id))
}

func (s *PostgresStore) ListPosts(ctx context.Context) ([]models.PostView, error) {
	query := postJoinQuery + ` ORDER BY p.created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []models.PostView
	for rows.Next() {
		p, h, err := scanPostWithHotel(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, models.PostView{
			PostID:    p.ID,
			HotelName: h.Name,
			ImageURL:  h.ImageURL,
			Caption:   p.Hook + "\n\n" + p.Caption,
			Hashtags:  p.Hashtags,
			Status:    p.Status,
			CreatedAt: p.CreatedAt,
		})
	}
	return views, rows.Err()
}

func (s *PostgresStore) MarkPostPublished(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE social_posts SET status = $1 WHERE id = $2`,
		models.PostStatusPublished, id,
	)
	return err
}

// =============================================================================
// Media
// =============================================================================

// GetHotelsMissingImage returns hotels with a remote image URL but no local
// copy yet, oldest first.
func (s *PostgresStore) GetHotelsMissingImage(ctx context.Context, limit int) ([]models.Hotel, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels
		WHERE image_url IS NOT NULL AND image_path IS NULL
		ORDER BY created_at ASC LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectHotels(rows)
}

func (s *PostgresStore) SetHotelImagePath(ctx context.Context, id uuid.UUID, path string) error {
	_, err := s.pool.Exec(ctx, `UPDATE hotels SET image_path = $1 WHERE id = $2`, path, id)
	return err
}
