package models

import (
	"fmt"
	"strings"
	"time"
)

// UserArtist is one artist a user follows, as entered or imported.
//
// The display name keeps its original casing; matching always goes through
// the match package's normalized form.
type UserArtist struct {
	id            string
	sequence      int
	userID        string
	artistName    string
	musicbrainzID string
	addedAt       time.Time
}

// NewUserArtist creates a UserArtist; the name is trimmed, never re-cased.
func NewUserArtist(sequence int, userID, artistName, musicbrainzID string) *UserArtist {
	return &UserArtist{
		sequence:      sequence,
		userID:        userID,
		artistName:    strings.TrimSpace(artistName),
		musicbrainzID: musicbrainzID,
		addedAt:       time.Now(),
	}
}

func (a *UserArtist) ID() string            { return a.id }
func (a *UserArtist) Sequence() int         { return a.sequence }
func (a *UserArtist) UserID() string        { return a.userID }
func (a *UserArtist) ArtistName() string    { return a.artistName }
func (a *UserArtist) MusicbrainzID() string { return a.musicbrainzID }
func (a *UserArtist) AddedAt() time.Time    { return a.addedAt }
func (a *UserArtist) CreatedAt() time.Time  { return a.addedAt }
func (a *UserArtist) UpdatedAt() time.Time  { return a.addedAt }

func (a *UserArtist) SetID(id string)        { a.id = id }
func (a *UserArtist) SetAddedAt(t time.Time) { a.addedAt = t }

func (a *UserArtist) Validate() error {
	if a.userID == "" {
		return fmt.Errorf("artist user_id is required")
	}
	if a.artistName == "" {
		return fmt.Errorf("artist name is required")
	}
	return nil
}
