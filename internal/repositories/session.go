package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/festmatch/internal/models"
	"github.com/desertthunder/festmatch/internal/shared"
)

// SessionRepository persists login sessions keyed by their random cookie value.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session with a freshly generated random ID.
func (r *SessionRepository) Create(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	session.SetID(shared.GenerateSessionID())

	query := `
		INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, session.ID(), session.UserID(), session.CreatedAt(), session.ExpiresAt())
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID. Expired sessions are still returned; callers
// decide between ErrSessionExpired and cleanup.
func (r *SessionRepository) Get(id string) (*models.Session, error) {
	query := `
		SELECT id, user_id, expires_at FROM sessions WHERE id = ?
	`

	var (
		sessionID string
		userID    string
		expiresAt time.Time
	)

	err := r.db.QueryRow(query, id).Scan(&sessionID, &userID, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: session", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	session := models.NewSession(userID)
	session.SetID(sessionID)
	session.SetExpiresAt(expiresAt)

	return session, nil
}

// GetUser resolves a session ID to its live user in one joined query.
//
// Returns ErrNotFound for unknown sessions or soft-deleted users and
// ErrSessionExpired (deleting the row) for sessions past expiry.
func (r *SessionRepository) GetUser(id string, now time.Time) (*models.User, error) {
	session, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	if session.Expired(now) {
		_ = r.Delete(id)
		return nil, fmt.Errorf("%w: session %s", shared.ErrSessionExpired, id)
	}

	return NewUserRepository(r.db).Get(session.UserID())
}

// Delete removes a session by ID.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: session %s", shared.ErrNotFound, id)
	}

	return nil
}

// DeleteExpired removes every session past its expiry and reports how many.
func (r *SessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM sessions WHERE expires_at <= ?", now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}
