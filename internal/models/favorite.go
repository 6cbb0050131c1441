package models

import (
	"fmt"
	"time"
)

// FavoriteFestival marks one catalog festival as a favorite of a user.
type FavoriteFestival struct {
	id         string
	sequence   int
	userID     string
	festivalID string
	addedAt    time.Time
}

func NewFavoriteFestival(sequence int, userID, festivalID string) *FavoriteFestival {
	return &FavoriteFestival{
		sequence:   sequence,
		userID:     userID,
		festivalID: festivalID,
		addedAt:    time.Now(),
	}
}

func (f *FavoriteFestival) ID() string           { return f.id }
func (f *FavoriteFestival) Sequence() int        { return f.sequence }
func (f *FavoriteFestival) UserID() string       { return f.userID }
func (f *FavoriteFestival) FestivalID() string   { return f.festivalID }
func (f *FavoriteFestival) AddedAt() time.Time   { return f.addedAt }
func (f *FavoriteFestival) CreatedAt() time.Time { return f.addedAt }
func (f *FavoriteFestival) UpdatedAt() time.Time { return f.addedAt }

func (f *FavoriteFestival) SetID(id string)        { f.id = id }
func (f *FavoriteFestival) SetAddedAt(t time.Time) { f.addedAt = t }

func (f *FavoriteFestival) Validate() error {
	if f.userID == "" {
		return fmt.Errorf("favorite user_id is required")
	}
	if f.festivalID == "" {
		return fmt.Errorf("favorite festival_id is required")
	}
	return nil
}
