package models

import (
	"fmt"
	"time"
)

// SessionDuration is how long a login session stays valid.
const SessionDuration = 7 * 24 * time.Hour

// Session ties a random cookie value to a user for SessionDuration.
type Session struct {
	id        string
	userID    string
	createdAt time.Time
	expiresAt time.Time
}

// NewSession creates a session for the given user expiring SessionDuration from now.
// The session ID is assigned by the repository on create.
func NewSession(userID string) *Session {
	now := time.Now()
	return &Session{
		userID:    userID,
		createdAt: now,
		expiresAt: now.Add(SessionDuration),
	}
}

func (s *Session) ID() string           { return s.id }
func (s *Session) UserID() string       { return s.userID }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) UpdatedAt() time.Time { return s.createdAt }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

func (s *Session) SetID(id string) { s.id = id }
func (s *Session) SetExpiresAt(t time.Time) { s.expiresAt = t }

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.expiresAt)
}

func (s *Session) Validate() error {
	if s.userID == "" {
		return fmt.Errorf("session user_id is required")
	}
	return nil
}
