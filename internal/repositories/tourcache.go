package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/festmatch/internal/shared"
)

// TourCacheRepository is the persistent tier of the tour-date cache.
//
// Rows store the serialized API payload per (artist, region); artist lookups
// are case-insensitive, region is exact. Freshness is judged by the caller
// against fetched_at, stored as a unix timestamp.
type TourCacheRepository struct {
	db *sql.DB
}

// NewTourCacheRepository creates a new [TourCacheRepository] with the given database connection
func NewTourCacheRepository(db *sql.DB) *TourCacheRepository {
	return &TourCacheRepository{db: db}
}

// Get returns the cached payload and fetch time for an artist and region.
func (r *TourCacheRepository) Get(artist, region string) (string, time.Time, error) {
	query := `
		SELECT data, fetched_at
		FROM tour_cache
		WHERE artist_name = ? COLLATE NOCASE AND region = ?
	`

	var (
		data      string
		fetchedAt int64
	)

	err := r.db.QueryRow(query, artist, region).Scan(&data, &fetchedAt)
	if err == sql.ErrNoRows {
		return "", time.Time{}, fmt.Errorf("%w: tour cache %s/%s", shared.ErrNotFound, artist, region)
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to query tour cache: %w", err)
	}

	return data, time.Unix(fetchedAt, 0), nil
}

// Set stores or replaces the payload for an artist and region.
func (r *TourCacheRepository) Set(artist, region, data string, fetchedAt time.Time) error {
	query := `
		INSERT INTO tour_cache (artist_name, region, data, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(artist_name, region) DO UPDATE SET data = excluded.data, fetched_at = excluded.fetched_at
	`

	_, err := r.db.Exec(query, artist, region, data, fetchedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert tour cache: %w", err)
	}

	return nil
}

// DeleteExpired removes rows fetched at or before the cutoff and reports how many.
func (r *TourCacheRepository) DeleteExpired(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM tour_cache WHERE fetched_at <= ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tour cache rows: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}
