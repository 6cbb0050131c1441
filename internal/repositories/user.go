package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/festmatch/internal/models"
	"github.com/desertthunder/festmatch/internal/shared"
)

// UserRepository implements [models.Repository] for [models.User] persistence.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database with generated ID and sequence
func (r *UserRepository) Create(user *models.User) error {
	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	user.SetID(id)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO users (id, sequence, google_id, email, name, picture, role, lastfm_username, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, user.GoogleID(), user.Email(), user.Name(),
		user.Picture(), user.Role(), user.LastfmUsername(), user.CreatedAt(), user.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID, excluding soft-deleted users
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := `
		SELECT id, sequence, google_id, email, name, picture, role, lastfm_username, created_at, updated_at, deleted_at
		FROM users
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByGoogleID retrieves a user by their Google account ID, excluding soft-deleted users
func (r *UserRepository) GetByGoogleID(googleID string) (*models.User, error) {
	query := `
		SELECT id, sequence, google_id, email, name, picture, role, lastfm_username, created_at, updated_at, deleted_at
		FROM users
		WHERE google_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, googleID))
}

// Update modifies an existing user in the database
func (r *UserRepository) Update(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	user.SetUpdatedAt(now)

	query := `
		UPDATE users
		SET email = ?, name = ?, picture = ?, role = ?, lastfm_username = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, user.Email(), user.Name(), user.Picture(),
		user.Role(), user.LastfmUsername(), now, user.ID())
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: user %s", shared.ErrNotFound, user.ID())
	}

	return nil
}

// Delete soft-deletes a user by ID
func (r *UserRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE users
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: user %s", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves all users matching the given criteria, excluding soft-deleted users
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := `
		SELECT id, sequence, google_id, email, name, picture, role, lastfm_username, created_at, updated_at, deleted_at
		FROM users
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scan(row rowScanner) (*models.User, error) {
	var (
		userID         string
		sequence       int
		googleID       string
		email          string
		name           sql.NullString
		picture        sql.NullString
		role           string
		lastfmUsername sql.NullString
		createdAt      time.Time
		updatedAt      time.Time
		deletedAt      sql.NullTime
	)

	err := row.Scan(&userID, &sequence, &googleID, &email, &name, &picture,
		&role, &lastfmUsername, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(sequence, googleID, email, name.String)
	user.SetID(userID)
	user.SetRole(role)
	user.SetUpdatedAt(updatedAt)
	if picture.Valid {
		user.SetPicture(picture.String)
	}
	if lastfmUsername.Valid {
		user.SetLastfmUsername(lastfmUsername.String)
	}
	if deletedAt.Valid {
		user.SetDeletedAt(&deletedAt.Time)
	}

	return user, nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	user, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) scanRow(rows *sql.Rows) (*models.User, error) {
	user, err := r.scan(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}
