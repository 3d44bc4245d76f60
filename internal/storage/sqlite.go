package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"wordlewatch/internal/config"
	"wordlewatch/internal/logging"
	"wordlewatch/pkg/models"
)

// ErrNotFound is returned when no record exists for the requested date.
var ErrNotFound = errors.New("no scrape record found")

// Store persists scrape results to SQLite, keyed by puzzle print date. The
// latest write for a date replaces the previous one.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS reviews (
	print_date  TEXT PRIMARY KEY,
	puzzle_id   INTEGER NOT NULL,
	solution    TEXT NOT NULL,
	payload     TEXT NOT NULL,
	scraped_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reviews_scraped_at ON reviews(scraped_at);
`

// NewStore opens (and if needed creates) the database at path.
func NewStore(cfg *config.Config) (*Store, error) {
	path := cfg.Storage.DatabasePath

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	logging.GetGlobalLogger().Info("Review store opened", map[string]interface{}{
		"path": path,
	})

	return &Store{db: db}, nil
}

// Name identifies the store in sink logs.
func (s *Store) Name() string {
	return "sqlite"
}

// Write upserts the result under its puzzle print date.
func (s *Store) Write(ctx context.Context, result *models.ScrapeResult) error {
	if result.Answer == nil {
		return fmt.Errorf("scrape result carries no answer")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode scrape result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reviews (print_date, puzzle_id, solution, payload, scraped_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(print_date) DO UPDATE SET
			puzzle_id = excluded.puzzle_id,
			solution = excluded.solution,
			payload = excluded.payload,
			scraped_at = excluded.scraped_at`,
		result.Answer.PrintDate,
		result.Answer.ID,
		result.Answer.Solution,
		string(payload),
		result.ScrapedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store scrape result: %w", err)
	}
	return nil
}

// ByDate returns the stored result for a YYYY-MM-DD print date.
func (s *Store) ByDate(ctx context.Context, date string) (*models.ScrapeResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM reviews WHERE print_date = ?`, date)
	return scanResult(row)
}

// Latest returns the most recently scraped result.
func (s *Store) Latest(ctx context.Context) (*models.ScrapeResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM reviews ORDER BY scraped_at DESC LIMIT 1`)
	return scanResult(row)
}

func scanResult(row *sql.Row) (*models.ScrapeResult, error) {
	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read scrape record: %w", err)
	}

	var result models.ScrapeResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to decode scrape record: %w", err)
	}
	return &result, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
