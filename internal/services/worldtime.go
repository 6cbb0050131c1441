// WorldTimeAPI client used to pin the festival season year at startup.
package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

const worldTimeURL = "http://worldtimeapi.org/api/ip"

type worldTimeResponse struct {
	Datetime string `json:"datetime"`
}

// WorldTimeService reads the current date from WorldTimeAPI.
type WorldTimeService struct {
	baseURL    string
	httpClient *http.Client
}

// NewWorldTimeService creates a WorldTimeAPI client. A nil http.Client gets
// the default 5 second timeout.
func NewWorldTimeService(client *http.Client) *WorldTimeService {
	return &WorldTimeService{
		baseURL:    worldTimeURL,
		httpClient: defaultClient(client),
	}
}

// CurrentYear returns the year reported by WorldTimeAPI. Callers fall back to
// the system clock when this fails; the server must start either way.
func (w *WorldTimeService) CurrentYear(ctx context.Context) (int, error) {
	var result worldTimeResponse
	if err := getJSON(ctx, w.httpClient, w.baseURL, nil, &result); err != nil {
		return 0, fmt.Errorf("worldtime: %w", err)
	}

	if len(result.Datetime) < 4 {
		return 0, fmt.Errorf("worldtime: malformed datetime %q", result.Datetime)
	}

	year, err := strconv.Atoi(result.Datetime[:4])
	if err != nil {
		return 0, fmt.Errorf("worldtime: malformed datetime %q", result.Datetime)
	}

	return year, nil
}
