package models

import (
	"fmt"
	"strings"
	"time"
)

// AvailableGenres is the fixed list of genres users can pick from.
var AvailableGenres = []string{
	"Rock", "Pop", "Electronic", "Hip Hop", "R&B", "Jazz", "Classical",
	"Metal", "Punk", "Indie", "Alternative", "Folk", "Country", "Blues",
	"Reggae", "Soul", "Funk", "House", "Techno", "Drum and Bass",
	"Dubstep", "Trance", "Ambient", "Disco", "Latin", "World",
	"Experimental", "Post-Punk", "Shoegaze", "Dream Pop", "Synthwave",
	"Art Pop", "Indie Rock", "Garage Rock", "Psychedelic", "Grunge",
}

// UserGenre is one genre preference belonging to a user.
type UserGenre struct {
	id       string
	sequence int
	userID   string
	genre    string
	addedAt  time.Time
}

func NewUserGenre(sequence int, userID, genre string) *UserGenre {
	return &UserGenre{
		sequence: sequence,
		userID:   userID,
		genre:    strings.TrimSpace(genre),
		addedAt:  time.Now(),
	}
}

func (g *UserGenre) ID() string           { return g.id }
func (g *UserGenre) Sequence() int        { return g.sequence }
func (g *UserGenre) UserID() string       { return g.userID }
func (g *UserGenre) Genre() string        { return g.genre }
func (g *UserGenre) AddedAt() time.Time   { return g.addedAt }
func (g *UserGenre) CreatedAt() time.Time { return g.addedAt }
func (g *UserGenre) UpdatedAt() time.Time { return g.addedAt }

func (g *UserGenre) SetID(id string)        { g.id = id }
func (g *UserGenre) SetAddedAt(t time.Time) { g.addedAt = t }

func (g *UserGenre) Validate() error {
	if g.userID == "" {
		return fmt.Errorf("genre user_id is required")
	}
	if g.genre == "" {
		return fmt.Errorf("genre is required")
	}
	return nil
}
