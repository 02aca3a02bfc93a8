// Package vote checks whether a user has voted for the bot on top.gg.
// The permission gate treats a failing check as voted, so an outage here
// never blocks commands; this package only reports the error.
package vote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const apiBase = "https://top.gg/api"

// Checker reports vote status for a user.
type Checker interface {
	HasVoted(ctx context.Context, userID string) (bool, error)
}

// Client is a top.gg API client. Requests are throttled to stay inside
// the service's 60 req/min limit.
type Client struct {
	token   string
	botID   string
	base    string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a vote checker for the given bot. Token may be empty;
// HasVoted then reports an error and the caller fails open.
func NewClient(token, botID string) *Client {
	return &Client{
		token:   token,
		botID:   botID,
		base:    apiBase,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Second), 10),
	}
}

// HasVoted queries top.gg for the user's vote status.
func (c *Client) HasVoted(ctx context.Context, userID string) (bool, error) {
	if c.token == "" {
		return false, fmt.Errorf("no top.gg token configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	url := fmt.Sprintf("%s/bots/%s/check?userId=%s", c.base, c.botID, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("vote check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("vote check returned status %d", resp.StatusCode)
	}

	var body struct {
		Voted int `json:"voted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("vote check decode failed: %w", err)
	}
	return body.Voted == 1, nil
}
