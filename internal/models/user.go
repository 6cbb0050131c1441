package models

import (
	"fmt"
	"strings"
	"time"
)

// User represents a registered account created through Google login.
type User struct {
	id             string
	sequence       int
	googleID       string
	email          string
	name           string
	picture        string
	role           string
	lastfmUsername string
	createdAt      time.Time
	updatedAt      time.Time
	deletedAt      *time.Time
}

// NewUser creates a User with the given sequence number and Google profile data.
// The role defaults to "user"; IDs are assigned by the repository on create.
func NewUser(sequence int, googleID, email, name string) *User {
	now := time.Now()
	return &User{
		sequence:  sequence,
		googleID:  googleID,
		email:     email,
		name:      name,
		role:      "user",
		createdAt: now,
		updatedAt: now,
	}
}

func (u *User) ID() string             { return u.id }
func (u *User) Sequence() int          { return u.sequence }
func (u *User) GoogleID() string       { return u.googleID }
func (u *User) Email() string          { return u.email }
func (u *User) Name() string           { return u.name }
func (u *User) Picture() string        { return u.picture }
func (u *User) Role() string           { return u.role }
func (u *User) LastfmUsername() string { return u.lastfmUsername }
func (u *User) CreatedAt() time.Time   { return u.createdAt }
func (u *User) UpdatedAt() time.Time   { return u.updatedAt }
func (u *User) DeletedAt() *time.Time  { return u.deletedAt }

func (u *User) SetID(id string)               { u.id = id }
func (u *User) SetName(name string)           { u.name = name }
func (u *User) SetEmail(email string)         { u.email = email }
func (u *User) SetPicture(picture string)     { u.picture = picture }
func (u *User) SetRole(role string)           { u.role = role }
func (u *User) SetLastfmUsername(name string) { u.lastfmUsername = name }
func (u *User) SetUpdatedAt(t time.Time)      { u.updatedAt = t }
func (u *User) SetDeletedAt(t *time.Time)     { u.deletedAt = t }

// IsAdmin reports whether the user's role list contains "admin".
//
// Roles are stored as a comma-separated list ("user", "admin,dev").
func (u *User) IsAdmin() bool {
	for _, role := range strings.Split(u.role, ",") {
		if strings.TrimSpace(role) == "admin" {
			return true
		}
	}
	return false
}

// Validate checks that the user carries the fields Google login guarantees.
func (u *User) Validate() error {
	if u.googleID == "" {
		return fmt.Errorf("user google_id is required")
	}
	if u.email == "" {
		return fmt.Errorf("user email is required")
	}
	return nil
}
