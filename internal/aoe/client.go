package aoe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the public aoe2companion data endpoint.
const DefaultBaseURL = "https://data.aoe2companion.com"

// Client fetches recent matches per player profile.
type Client struct {
	base string
	http *http.Client
	now  func() time.Time
}

// NewClient creates a client for the given base URL. An empty base URL
// falls back to the public endpoint.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: timeout},
		now:  time.Now,
	}
}

// FetchPlayer queries the most recent matches for one profile and derives
// the player's current status. Errors are per player; the caller decides
// how to continue with the rest of the batch.
func (c *Client) FetchPlayer(ctx context.Context, name string, profileID int64) (PlayerState, error) {
	url := fmt.Sprintf("%s/api/matches?profile_ids=%d&search=&page=1", c.base, profileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PlayerState{}, fmt.Errorf("build request for %s: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return PlayerState{}, fmt.Errorf("fetch matches for %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PlayerState{}, fmt.Errorf("fetch matches for %s: unexpected status %s", name, resp.Status)
	}

	var body matchesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return PlayerState{}, fmt.Errorf("decode matches for %s: %w", name, err)
	}
	return stateFromMatches(name, profileID, body, c.now().UTC()), nil
}
