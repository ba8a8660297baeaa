package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"hotelgram/models"
)

// SQLiteStore keeps operational data (cycle-run history) next to the process,
// separate from the domain datastore.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cycle_runs (
		id INTEGER PRIMARY KEY,
		run_trigger TEXT NOT NULL,
		location TEXT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		status TEXT NOT NULL,
		hotels_found INTEGER DEFAULT 0,
		hotels_saved INTEGER DEFAULT 0,
		posts_created INTEGER DEFAULT 0,
		posts_delivered INTEGER DEFAULT 0,
		errors_count INTEGER DEFAULT 0
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateRun(run *models.CycleRun) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO cycle_runs (run_trigger, location, started_at, status)
		VALUES (?, ?, ?, ?)`,
		run.Trigger, run.Location, run.StartedAt, run.Status,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) FinishRun(run *models.CycleRun) error {
	now := time.Now()
	run.FinishedAt = &now

	_, err := s.db.Exec(`
		UPDATE cycle_runs
		SET location = ?, finished_at = ?, status = ?, hotels_found = ?,
			hotels_saved = ?, posts_created = ?, posts_delivered = ?, errors_count = ?
		WHERE id = ?`,
		run.Location, run.FinishedAt, run.Status, run.HotelsFound,
		run.HotelsSaved, run.PostsCreated, run.PostsDelivered, run.ErrorsCount,
		run.ID,
	)
	return err
}

func (s *SQLiteStore) ListRuns(limit int) ([]models.CycleRun, error) {
	rows, err := s.db.Query(`
		SELECT id, run_trigger, location, started_at, finished_at, status,
			hotels_found, hotels_saved, posts_created, posts_delivered, errors_count
		FROM cycle_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.CycleRun
	for rows.Next() {
		var run models.CycleRun
		if err := rows.Scan(
			&run.ID, &run.Trigger, &run.Location, &run.StartedAt, &run.FinishedAt, &run.Status,
			&run.HotelsFound, &run.HotelsSaved, &run.PostsCreated, &run.PostsDelivered, &run.ErrorsCount,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
