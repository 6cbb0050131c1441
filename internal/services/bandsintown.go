// Bandsintown REST API client for upcoming tour dates.
//
// Event shapes based on https://rest.bandsintown.com (public app_id API).
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/desertthunder/festmatch/internal/shared"
)

const (
	bandsintownBaseURL = "https://rest.bandsintown.com"
	bandsintownSiteURL = "https://www.bandsintown.com"
	bandsintownAppID   = "festival_match_app"
)

// BandsintownVenue is the venue block of an event.
type BandsintownVenue struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

type bandsintownOffer struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// BandsintownEvent is one upcoming event for an artist.
type BandsintownEvent struct {
	ID       string             `json:"id"`
	Datetime string             `json:"datetime"`
	Title    string             `json:"title"`
	URL      string             `json:"url"`
	Venue    BandsintownVenue   `json:"venue"`
	Lineup   []string           `json:"lineup"`
	Offers   []bandsintownOffer `json:"offers"`
}

// TicketURL returns the event URL, falling back to the first offer link.
func (e BandsintownEvent) TicketURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Offers) > 0 {
		return e.Offers[0].URL
	}
	return ""
}

// BandsintownService fetches upcoming events from the Bandsintown REST API.
type BandsintownService struct {
	baseURL    string
	appID      string
	httpClient *http.Client
}

// NewBandsintownService creates a Bandsintown client. A nil http.Client gets
// the default 5 second timeout.
func NewBandsintownService(client *http.Client) *BandsintownService {
	return &BandsintownService{
		baseURL:    bandsintownBaseURL,
		appID:      bandsintownAppID,
		httpClient: defaultClient(client),
	}
}

// UpcomingEvents fetches all upcoming events for an artist, unfiltered.
//
// Bandsintown answers with a JSON array on success and a bare object on
// unknown artists or errors; a non-array body is an ErrAPIRequest.
func (b *BandsintownService) UpcomingEvents(ctx context.Context, artist string) ([]BandsintownEvent, error) {
	endpoint := fmt.Sprintf("%s/artists/%s/events?app_id=%s&date=upcoming",
		b.baseURL, url.PathEscape(artist), url.QueryEscape(b.appID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: bandsintown status %d for %q", shared.ErrAPIRequest, resp.StatusCode, artist)
	}

	var events []BandsintownEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("%w: bandsintown returned a non-array body for %q", shared.ErrAPIRequest, artist)
	}

	return events, nil
}

// ArtistPageURL is the public Bandsintown page for an artist.
func ArtistPageURL(artist string) string {
	return fmt.Sprintf("%s/a/%s", bandsintownSiteURL, url.PathEscape(artist))
}
