package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/festmatch/internal/models"
	"github.com/desertthunder/festmatch/internal/shared"
)

// SuggestionRepository persists festival suggestions through the review workflow.
type SuggestionRepository struct {
	db *sql.DB
}

// NewSuggestionRepository creates a new [SuggestionRepository] with the given database connection
func NewSuggestionRepository(db *sql.DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

// Create inserts a suggestion with generated ID and sequence
func (r *SuggestionRepository) Create(suggestion *models.FestivalSuggestion) error {
	if err := suggestion.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "festival_suggestions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	suggestion.SetID(id)

	query := `
		INSERT INTO festival_suggestions (id, sequence, user_id, festival_name, country, city, dates_info, website, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var userID any = suggestion.UserID()
	if userID == "" {
		userID = nil
	}

	_, err = r.db.Exec(query, id, sequence, userID, suggestion.FestivalName(),
		suggestion.Country(), suggestion.City(), suggestion.DatesInfo(), suggestion.Website(),
		suggestion.Status(), suggestion.CreatedAt(), suggestion.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert suggestion: %w", err)
	}

	return nil
}

// Get retrieves a suggestion by ID
func (r *SuggestionRepository) Get(id string) (*models.FestivalSuggestion, error) {
	query := `
		SELECT id, sequence, user_id, festival_name, country, city, dates_info, website, status, created_at, updated_at
		FROM festival_suggestions
		WHERE id = ?
	`

	suggestion, err := r.scan(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: suggestion %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan suggestion: %w", err)
	}

	return suggestion, nil
}

// Update persists a suggestion's status and timestamps
func (r *SuggestionRepository) Update(suggestion *models.FestivalSuggestion) error {
	if err := suggestion.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE festival_suggestions
		SET festival_name = ?, country = ?, city = ?, dates_info = ?, website = ?, status = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, suggestion.FestivalName(), suggestion.Country(),
		suggestion.City(), suggestion.DatesInfo(), suggestion.Website(),
		suggestion.Status(), suggestion.UpdatedAt(), suggestion.ID())
	if err != nil {
		return fmt.Errorf("failed to update suggestion: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: suggestion %s", shared.ErrNotFound, suggestion.ID())
	}

	return nil
}

// Delete removes a suggestion entirely. Used by the admin surface only.
func (r *SuggestionRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM festival_suggestions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete suggestion: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: suggestion %s", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves suggestions matching the given criteria, newest first.
func (r *SuggestionRepository) List(criteria map[string]any) ([]*models.FestivalSuggestion, error) {
	query := `
		SELECT id, sequence, user_id, festival_name, country, city, dates_info, website, status, created_at, updated_at
		FROM festival_suggestions
		WHERE 1 = 1
	`

	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []*models.FestivalSuggestion
	for rows.Next() {
		suggestion, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		suggestions = append(suggestions, suggestion)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return suggestions, nil
}

func (r *SuggestionRepository) scan(row rowScanner) (*models.FestivalSuggestion, error) {
	var (
		id        string
		sequence  int
		userID    sql.NullString
		name      string
		country   string
		city      string
		datesInfo sql.NullString
		website   sql.NullString
		status    string
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&id, &sequence, &userID, &name, &country, &city,
		&datesInfo, &website, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	suggestion := models.NewFestivalSuggestion(sequence, userID.String, name, country, city)
	suggestion.SetID(id)
	suggestion.SetStatus(status)
	suggestion.SetCreatedAt(createdAt)
	suggestion.SetUpdatedAt(updatedAt)
	if datesInfo.Valid {
		suggestion.SetDatesInfo(datesInfo.String)
	}
	if website.Valid {
		suggestion.SetWebsite(website.String)
	}

	return suggestion, nil
}
