package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/festmatch/internal/models"
	"github.com/desertthunder/festmatch/internal/shared"
)

// ArtistRepository persists the artists a user follows.
//
// The user_artists table carries UNIQUE(user_id, artist_name COLLATE NOCASE),
// so "Bicep" and "BICEP" collide; constraint violations surface as ErrDuplicate.
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new [ArtistRepository] with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// Create inserts an artist for a user with generated ID and sequence
func (r *ArtistRepository) Create(artist *models.UserArtist) error {
	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "user_artists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	artist.SetID(id)

	query := `
		INSERT INTO user_artists (id, sequence, user_id, artist_name, musicbrainz_id, added_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var musicbrainzID any = artist.MusicbrainzID()
	if musicbrainzID == "" {
		musicbrainzID = nil
	}

	_, err = r.db.Exec(query, id, sequence, artist.UserID(), artist.ArtistName(), musicbrainzID, artist.AddedAt())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: artist %q", shared.ErrDuplicate, artist.ArtistName())
		}
		return fmt.Errorf("failed to insert artist: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's artists in insertion order.
func (r *ArtistRepository) ListByUser(userID string) ([]*models.UserArtist, error) {
	query := `
		SELECT id, sequence, user_id, artist_name, musicbrainz_id, added_at
		FROM user_artists
		WHERE user_id = ?
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	var artists []*models.UserArtist
	for rows.Next() {
		var (
			id            string
			sequence      int
			uid           string
			artistName    string
			musicbrainzID sql.NullString
			addedAt       time.Time
		)

		if err := rows.Scan(&id, &sequence, &uid, &artistName, &musicbrainzID, &addedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}

		artist := models.NewUserArtist(sequence, uid, artistName, musicbrainzID.String)
		artist.SetID(id)
		artist.SetAddedAt(addedAt)
		artists = append(artists, artist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return artists, nil
}

// Names returns just the display names of a user's artists, in insertion order.
func (r *ArtistRepository) Names(userID string) ([]string, error) {
	artists, err := r.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(artists))
	for _, artist := range artists {
		names = append(names, artist.ArtistName())
	}
	return names, nil
}

// DistinctNames returns every artist name any user follows, deduplicated
// case-insensitively. Used by the cache warmer.
func (r *ArtistRepository) DistinctNames() ([]string, error) {
	query := `
		SELECT artist_name
		FROM user_artists
		GROUP BY artist_name COLLATE NOCASE
		ORDER BY artist_name COLLATE NOCASE ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct artists: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan artist name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return names, nil
}

// DeleteForUser removes one of a user's artists by row ID. Scoping by user
// keeps one user from deleting another's rows.
func (r *ArtistRepository) DeleteForUser(userID, id string) error {
	result, err := r.db.Exec("DELETE FROM user_artists WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: artist %s", shared.ErrNotFound, id)
	}

	return nil
}
