// Last.fm client for importing a user's top artists.
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/festmatch/internal/shared"
)

const lastfmBaseURL = "https://ws.audioscrobbler.com/2.0/"

// LastfmArtist is one entry of a user's top-artist chart.
type LastfmArtist struct {
	Name      string `json:"name"`
	PlayCount string `json:"playcount"`
	MBID      string `json:"mbid"`
}

type lastfmTopArtistsResponse struct {
	TopArtists struct {
		Artist []LastfmArtist `json:"artist"`
	} `json:"topartists"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// LastfmService reads public listening data from the Last.fm API.
type LastfmService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewLastfmService creates a Last.fm client. A nil http.Client gets the
// default 5 second timeout.
func NewLastfmService(apiKey string, client *http.Client) *LastfmService {
	return &LastfmService{
		baseURL:    lastfmBaseURL,
		apiKey:     apiKey,
		httpClient: defaultClient(client),
	}
}

// TopArtists fetches the top artists for a Last.fm username. Last.fm reports
// failures as 200 responses carrying an error code, so both paths are checked.
func (l *LastfmService) TopArtists(ctx context.Context, username string, limit int) ([]LastfmArtist, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("%w: lastfm api key", shared.ErrMissingConfig)
	}
	if limit <= 0 {
		limit = 50
	}

	endpoint := fmt.Sprintf("%s?method=user.gettopartists&user=%s&api_key=%s&format=json&limit=%d",
		l.baseURL, url.QueryEscape(username), url.QueryEscape(l.apiKey), limit)

	var result lastfmTopArtistsResponse
	if err := getJSON(ctx, l.httpClient, endpoint, nil, &result); err != nil {
		return nil, fmt.Errorf("lastfm top artists for %q: %w", username, err)
	}

	if result.Error != 0 {
		return nil, fmt.Errorf("%w: lastfm error %d: %s", shared.ErrAPIRequest, result.Error, result.Message)
	}

	return result.TopArtists.Artist, nil
}
