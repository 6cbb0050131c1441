// package services holds clients for the external APIs the server talks to:
// Bandsintown (tour dates), MusicBrainz (artist search), Last.fm (top-artist
// import) and WorldTimeAPI (current year).
//
// Every client takes an optional *http.Client so tests can inject a
// MockRoundTripper; nil means a default client with DefaultTimeout.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/desertthunder/festmatch/internal/shared"
)

// DefaultTimeout bounds every outbound API call.
const DefaultTimeout = 5 * time.Second

func defaultClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: DefaultTimeout}
}

// getJSON performs a GET request and decodes the response body into result.
// Non-2xx statuses become ErrAPIRequest.
func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d from %s", shared.ErrAPIRequest, resp.StatusCode, url)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
