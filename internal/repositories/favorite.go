package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/festmatch/internal/models"
	"github.com/desertthunder/festmatch/internal/shared"
)

// FavoriteRepository persists a user's favorite festivals by catalog slug.
type FavoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a new [FavoriteRepository] with the given database connection
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Create marks a festival as a favorite with generated ID and sequence
func (r *FavoriteRepository) Create(favorite *models.FavoriteFestival) error {
	if err := favorite.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "user_festivals")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	favorite.SetID(id)

	query := `
		INSERT INTO user_festivals (id, sequence, user_id, festival_id, added_at) VALUES (?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, favorite.UserID(), favorite.FestivalID(), favorite.AddedAt())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: favorite %q", shared.ErrDuplicate, favorite.FestivalID())
		}
		return fmt.Errorf("failed to insert favorite: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's favorites in insertion order.
func (r *FavoriteRepository) ListByUser(userID string) ([]*models.FavoriteFestival, error) {
	query := `
		SELECT id, sequence, user_id, festival_id, added_at
		FROM user_festivals
		WHERE user_id = ?
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var favorites []*models.FavoriteFestival
	for rows.Next() {
		var (
			id         string
			sequence   int
			uid        string
			festivalID string
			addedAt    time.Time
		)

		if err := rows.Scan(&id, &sequence, &uid, &festivalID, &addedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}

		favorite := models.NewFavoriteFestival(sequence, uid, festivalID)
		favorite.SetID(id)
		favorite.SetAddedAt(addedAt)
		favorites = append(favorites, favorite)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return favorites, nil
}

// FestivalIDs returns the set of festival slugs a user has favorited.
func (r *FavoriteRepository) FestivalIDs(userID string) (map[string]bool, error) {
	favorites, err := r.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(favorites))
	for _, favorite := range favorites {
		ids[favorite.FestivalID()] = true
	}
	return ids, nil
}

// DeleteForUser removes a favorite by festival slug rather than row ID; the
// client only ever knows the slug.
func (r *FavoriteRepository) DeleteForUser(userID, festivalID string) error {
	result, err := r.db.Exec("DELETE FROM user_festivals WHERE user_id = ? AND festival_id = ?", userID, festivalID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: favorite %s", shared.ErrNotFound, festivalID)
	}

	return nil
}
