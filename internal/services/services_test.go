package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/desertthunder/festmatch/internal/shared"
	itesting "github.com/desertthunder/festmatch/internal/testing"
)

func TestBandsintownService(t *testing.T) {
	t.Run("Upcoming Events", func(t *testing.T) {
		client := itesting.JSONClient(200, `[
			{"id": "1", "datetime": "2026-06-05T20:00:00", "url": "https://bit.example/1",
			 "venue": {"name": "Parc del Fòrum", "city": "Barcelona", "country": "Spain"},
			 "lineup": ["Jamie xx"]},
			{"id": "2", "datetime": "2026-07-10T20:00:00",
			 "venue": {"name": "Grant Park", "city": "Chicago", "country": "United States"},
			 "offers": [{"type": "Tickets", "url": "https://tickets.example/2"}]}
		]`)

		events, err := NewBandsintownService(client).UpcomingEvents(context.Background(), "Jamie xx")
		if err != nil {
			t.Fatalf("failed to fetch events: %v", err)
		}

		if len(events) != 2 {
			t.Fatalf("expected 2 events, got %d", len(events))
		}
		if events[0].Venue.Country != "Spain" {
			t.Errorf("expected venue country Spain, got %s", events[0].Venue.Country)
		}
		if events[0].TicketURL() != "https://bit.example/1" {
			t.Errorf("expected event url, got %s", events[0].TicketURL())
		}
		if events[1].TicketURL() != "https://tickets.example/2" {
			t.Errorf("expected offer url fallback, got %s", events[1].TicketURL())
		}
	})

	t.Run("Non Array Body", func(t *testing.T) {
		client := itesting.JSONClient(200, `{"errorMessage": "[NotFound] The artist was not found"}`)

		_, err := NewBandsintownService(client).UpcomingEvents(context.Background(), "nobody")
		if err == nil {
			t.Fatal("expected error for non-array body")
		}
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Error Status", func(t *testing.T) {
		client := itesting.JSONClient(503, `{}`)

		_, err := NewBandsintownService(client).UpcomingEvents(context.Background(), "anyone")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest for 503, got %v", err)
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		client := &http.Client{Transport: itesting.NewMockRoundTripper(nil, errors.New("dial timeout"))}

		if _, err := NewBandsintownService(client).UpcomingEvents(context.Background(), "anyone"); err == nil {
			t.Fatal("expected error when transport fails")
		}
	})

	t.Run("Artist Page URL", func(t *testing.T) {
		if got := ArtistPageURL("Fontaines D.C."); got != "https://www.bandsintown.com/a/Fontaines%20D.C." {
			t.Errorf("unexpected artist page url: %s", got)
		}
	})
}

func TestMusicBrainzService(t *testing.T) {
	t.Run("Search", func(t *testing.T) {
		client := itesting.JSONClient(200, `{"artists": [
			{"id": "abc", "name": "Bicep", "disambiguation": "Belfast duo", "country": "GB", "score": 100},
			{"id": "def", "name": "Bicep Curl", "score": 60}
		]}`)

		artists, err := NewMusicBrainzService(client).SearchArtists(context.Background(), "bicep")
		if err != nil {
			t.Fatalf("failed to search artists: %v", err)
		}

		if len(artists) != 2 {
			t.Fatalf("expected 2 artists, got %d", len(artists))
		}
		if artists[0].Name != "Bicep" || artists[0].Disambiguation != "Belfast duo" {
			t.Errorf("unexpected first result: %+v", artists[0])
		}
	})

	t.Run("Error Status", func(t *testing.T) {
		client := itesting.JSONClient(503, `{}`)

		_, err := NewMusicBrainzService(client).SearchArtists(context.Background(), "bicep")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestLastfmService(t *testing.T) {
	t.Run("Top Artists", func(t *testing.T) {
		client := itesting.JSONClient(200, `{"topartists": {"artist": [
			{"name": "Four Tet", "playcount": "812"},
			{"name": "Peggy Gou", "playcount": "511"}
		]}}`)

		artists, err := NewLastfmService("key", client).TopArtists(context.Background(), "listener", 50)
		if err != nil {
			t.Fatalf("failed to fetch top artists: %v", err)
		}

		if len(artists) != 2 || artists[0].Name != "Four Tet" {
			t.Errorf("unexpected top artists: %+v", artists)
		}
	})

	t.Run("API Error Payload", func(t *testing.T) {
		client := itesting.JSONClient(200, `{"error": 6, "message": "User not found"}`)

		_, err := NewLastfmService("key", client).TopArtists(context.Background(), "ghost", 50)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest for lastfm error payload, got %v", err)
		}
	})

	t.Run("Missing API Key", func(t *testing.T) {
		_, err := NewLastfmService("", nil).TopArtists(context.Background(), "listener", 50)
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}

func TestWorldTimeService(t *testing.T) {
	t.Run("Current Year", func(t *testing.T) {
		client := itesting.JSONClient(200, `{"datetime": "2026-01-12T09:30:00.000000+01:00"}`)

		year, err := NewWorldTimeService(client).CurrentYear(context.Background())
		if err != nil {
			t.Fatalf("failed to fetch current year: %v", err)
		}
		if year != 2026 {
			t.Errorf("expected 2026, got %d", year)
		}
	})

	t.Run("Malformed Datetime", func(t *testing.T) {
		client := itesting.JSONClient(200, `{"datetime": "ab"}`)

		if _, err := NewWorldTimeService(client).CurrentYear(context.Background()); err == nil {
			t.Fatal("expected error for malformed datetime")
		}
	})
}
