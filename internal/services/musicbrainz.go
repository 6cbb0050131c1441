// MusicBrainz artist search client.
//
// Response types based on https://musicbrainz.org/doc/MusicBrainz_API/Search
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const (
	musicbrainzBaseURL   = "https://musicbrainz.org/ws/2"
	musicbrainzUserAgent = "FestivalMatch/1.0 (https://github.com/desertthunder/festmatch)"
	musicbrainzLimit     = 10
)

// MusicBrainzArtist is a search result from the artist index.
type MusicBrainzArtist struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Disambiguation string `json:"disambiguation"`
	Country        string `json:"country"`
	Type           string `json:"type"`
	Score          int    `json:"score"`
}

type musicbrainzSearchResponse struct {
	Artists []MusicBrainzArtist `json:"artists"`
}

// MusicBrainzService searches the MusicBrainz artist index.
type MusicBrainzService struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewMusicBrainzService creates a MusicBrainz client. A nil http.Client gets
// the default 5 second timeout.
func NewMusicBrainzService(client *http.Client) *MusicBrainzService {
	return &MusicBrainzService{
		baseURL:    musicbrainzBaseURL,
		userAgent:  musicbrainzUserAgent,
		httpClient: defaultClient(client),
	}
}

// SearchArtists queries the artist index, capped at 10 results. MusicBrainz
// requires an identifying User-Agent on every request.
func (m *MusicBrainzService) SearchArtists(ctx context.Context, query string) ([]MusicBrainzArtist, error) {
	endpoint := fmt.Sprintf("%s/artist?query=%s&limit=%d&fmt=json",
		m.baseURL, url.QueryEscape(query), musicbrainzLimit)

	var result musicbrainzSearchResponse
	headers := map[string]string{"User-Agent": m.userAgent}
	if err := getJSON(ctx, m.httpClient, endpoint, headers, &result); err != nil {
		return nil, fmt.Errorf("musicbrainz search for %q: %w", query, err)
	}

	return result.Artists, nil
}
