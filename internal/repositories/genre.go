package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/festmatch/internal/models"
	"github.com/desertthunder/festmatch/internal/shared"
)

// GenreRepository persists a user's genre preferences, unique per user NOCASE.
type GenreRepository struct {
	db *sql.DB
}

// NewGenreRepository creates a new [GenreRepository] with the given database connection
func NewGenreRepository(db *sql.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// Create inserts a genre preference for a user with generated ID and sequence
func (r *GenreRepository) Create(genre *models.UserGenre) error {
	if err := genre.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "user_genres")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	genre.SetID(id)

	query := `
		INSERT INTO user_genres (id, sequence, user_id, genre, added_at) VALUES (?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, genre.UserID(), genre.Genre(), genre.AddedAt())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: genre %q", shared.ErrDuplicate, genre.Genre())
		}
		return fmt.Errorf("failed to insert genre: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's genres in insertion order.
func (r *GenreRepository) ListByUser(userID string) ([]*models.UserGenre, error) {
	query := `
		SELECT id, sequence, user_id, genre, added_at
		FROM user_genres
		WHERE user_id = ?
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	var genres []*models.UserGenre
	for rows.Next() {
		var (
			id       string
			sequence int
			uid      string
			name     string
			addedAt  time.Time
		)

		if err := rows.Scan(&id, &sequence, &uid, &name, &addedAt); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}

		genre := models.NewUserGenre(sequence, uid, name)
		genre.SetID(id)
		genre.SetAddedAt(addedAt)
		genres = append(genres, genre)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return genres, nil
}

// DeleteForUser removes one of a user's genres by row ID.
func (r *GenreRepository) DeleteForUser(userID, id string) error {
	result, err := r.db.Exec("DELETE FROM user_genres WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete genre: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: genre %s", shared.ErrNotFound, id)
	}

	return nil
}
