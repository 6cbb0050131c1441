package models

import (
	"fmt"
	"strings"
	"time"
)

// Suggestion statuses. A suggestion starts pending and moves to exactly one
// terminal status; there are no backward transitions.
const (
	SuggestionPending   = "pending"
	SuggestionApproved  = "approved"
	SuggestionRejected  = "rejected"
	SuggestionDuplicate = "duplicate"
)

// FestivalSuggestion is a user-submitted festival awaiting admin review.
type FestivalSuggestion struct {
	id           string
	sequence     int
	userID       string
	festivalName string
	country      string
	city         string
	datesInfo    string
	website      string
	status       string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewFestivalSuggestion creates a pending suggestion. userID may be empty for
// anonymous submissions.
func NewFestivalSuggestion(sequence int, userID, festivalName, country, city string) *FestivalSuggestion {
	now := time.Now()
	return &FestivalSuggestion{
		sequence:     sequence,
		userID:       userID,
		festivalName: strings.TrimSpace(festivalName),
		country:      strings.TrimSpace(country),
		city:         strings.TrimSpace(city),
		status:       SuggestionPending,
		createdAt:    now,
		updatedAt:    now,
	}
}

func (s *FestivalSuggestion) ID() string           { return s.id }
func (s *FestivalSuggestion) Sequence() int        { return s.sequence }
func (s *FestivalSuggestion) UserID() string       { return s.userID }
func (s *FestivalSuggestion) FestivalName() string { return s.festivalName }
func (s *FestivalSuggestion) Country() string      { return s.country }
func (s *FestivalSuggestion) City() string         { return s.city }
func (s *FestivalSuggestion) DatesInfo() string    { return s.datesInfo }
func (s *FestivalSuggestion) Website() string      { return s.website }
func (s *FestivalSuggestion) Status() string       { return s.status }
func (s *FestivalSuggestion) CreatedAt() time.Time { return s.createdAt }
func (s *FestivalSuggestion) UpdatedAt() time.Time { return s.updatedAt }

func (s *FestivalSuggestion) SetID(id string) { s.id = id }
func (s *FestivalSuggestion) SetDatesInfo(info string) { s.datesInfo = strings.TrimSpace(info) }
func (s *FestivalSuggestion) SetWebsite(website string) { s.website = strings.TrimSpace(website) }
func (s *FestivalSuggestion) SetUpdatedAt(t time.Time) { s.updatedAt = t }
func (s *FestivalSuggestion) SetCreatedAt(t time.Time) { s.createdAt = t }

// Resolved reports whether the suggestion has reached a terminal status.
func (s *FestivalSuggestion) Resolved() bool {
	return s.status != SuggestionPending
}

// Resolve moves a pending suggestion to the given terminal status.
// Resolving an already-resolved suggestion is an error.
func (s *FestivalSuggestion) Resolve(status string) error {
	switch status {
	case SuggestionApproved, SuggestionRejected, SuggestionDuplicate:
	default:
		return fmt.Errorf("invalid suggestion status: %s", status)
	}
	if s.Resolved() {
		return fmt.Errorf("suggestion %s is already %s", s.id, s.status)
	}
	s.status = status
	s.updatedAt = time.Now()
	return nil
}

// SetStatus is used by repositories when hydrating rows; state transitions
// go through Resolve.
func (s *FestivalSuggestion) SetStatus(status string) { s.status = status }

func (s *FestivalSuggestion) Validate() error {
	if s.festivalName == "" {
		return fmt.Errorf("suggestion festival name is required")
	}
	if s.country == "" {
		return fmt.Errorf("suggestion country is required")
	}
	if s.city == "" {
		return fmt.Errorf("suggestion city is required")
	}
	switch s.status {
	case SuggestionPending, SuggestionApproved, SuggestionRejected, SuggestionDuplicate:
	default:
		return fmt.Errorf("invalid suggestion status: %s", s.status)
	}
	return nil
}
