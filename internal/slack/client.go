// Package slack is a minimal Slack Web API client covering the users.info
// call the identity resolver needs.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hacknight/server/internal/domain/identity"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Slack Web API endpoint.
	DefaultBaseURL = "https://slack.com/api"
	// DefaultTimeout for HTTP requests
	DefaultTimeout = 5 * time.Second
	// DefaultRateLimit matches Slack's Tier 4 guidance for users.info.
	DefaultRateLimit = rate.Limit(5.0)
)

// Client calls the Slack Web API. It satisfies identity.Directory.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	limiter    *rate.Limiter
}

var _ identity.Directory = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRateLimit sets a custom rate limit (requests per second).
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a Slack API client authenticated with a bot token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    baseURL,
		token:      token,
		limiter:    rate.NewLimiter(DefaultRateLimit, 1),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

type usersInfoResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	User  struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Profile struct {
			Email string `json:"email"`
		} `json:"profile"`
	} `json:"user"`
}

// Lookup resolves a Slack user id via users.info. Any transport failure or
// not-OK API response is returned as an error; the resolver decides whether
// that is fatal.
func (c *Client) Lookup(ctx context.Context, slackID string) (identity.Profile, error) {
	if slackID == "" {
		return identity.Profile{}, fmt.Errorf("slack id cannot be empty")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return identity.Profile{}, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("user", slackID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users.info?"+params.Encode(), nil)
	if err != nil {
		return identity.Profile{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return identity.Profile{}, fmt.Errorf("look up user %q on Slack API: %w", slackID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return identity.Profile{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return identity.Profile{}, fmt.Errorf("look up user %q on Slack API: status %d", slackID, resp.StatusCode)
	}

	var parsed usersInfoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return identity.Profile{}, fmt.Errorf("decode response: %w", err)
	}
	if !parsed.OK {
		return identity.Profile{}, fmt.Errorf("look up user %q on Slack API: %s", slackID, parsed.Error)
	}

	return identity.Profile{
		ID:    parsed.User.ID,
		Name:  parsed.User.Name,
		Email: parsed.User.Profile.Email,
	}, nil
}
