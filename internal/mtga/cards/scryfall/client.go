package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
)

const (
	defaultBaseURL        = "https://api.scryfall.com"
	defaultUserAgent      = "MTG-Drawer/1.0"
	defaultRateLimit      = 100 * time.Millisecond // 10 req/sec, Scryfall's published limit
	defaultRequestTimeout = 30 * time.Second
	defaultMaxRetries     = 3
	defaultInitialBackoff = 1 * time.Second
	maxBackoff            = 16 * time.Second
)

// Client represents a Scryfall API client with rate limiting.
type Client struct {
	httpClient     *http.Client
	rateLimiter    *rate.Limiter
	baseURL        string
	userAgent      string
	maxRetries     int
	initialBackoff time.Duration
}

// ClientOptions configures a Client. Zero values fall back to defaults.
type ClientOptions struct {
	BaseURL        string
	UserAgent      string
	RateLimit      time.Duration // minimum spacing between requests
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
}

// NewClient creates a new Scryfall API client with default options.
func NewClient() *Client {
	return NewClientWithOptions(ClientOptions{})
}

// NewClientWithOptions creates a Scryfall API client.
func NewClientWithOptions(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultRequestTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	} else if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = defaultInitialBackoff
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		rateLimiter:    rate.NewLimiter(rate.Every(opts.RateLimit), 1),
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		userAgent:      opts.UserAgent,
		maxRetries:     opts.MaxRetries,
		initialBackoff: opts.InitialBackoff,
	}
}

// GetCardByName retrieves a printing by its exact name and set code.
func (c *Client) GetCardByName(ctx context.Context, name, setCode string) (*Card, error) {
	query := url.Values{}
	query.Set("exact", name)
	if setCode != "" {
		query.Set("set", setCode)
	}
	endpoint := fmt.Sprintf("%s/cards/named?%s", c.baseURL, query.Encode())

	var card Card
	if err := c.doRequest(ctx, endpoint, &card); err != nil {
		return nil, fmt.Errorf("failed to get card %q (%s): %w", name, setCode, err)
	}

	return &card, nil
}

// Resolve looks up a card and reduces it to the fields the drawer needs.
// A card Scryfall does not know is reported as an error.
func (c *Client) Resolve(ctx context.Context, name, setCode string) (*cards.Resolution, error) {
	card, err := c.GetCardByName(ctx, name, setCode)
	if err != nil {
		return nil, err
	}
	return card.Resolution(), nil
}

// doRequest performs an HTTP request with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	var lastErr error
	backoff := c.initialBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			if ctx.Err() != nil {
				return lastErr
			}

			if attempt < c.maxRetries {
				if err := sleep(ctx, backoff); err != nil {
					return lastErr
				}
				backoff = min(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		retry, err := c.handleResponse(resp, url, result)
		_ = resp.Body.Close()
		if !retry {
			return err
		}
		lastErr = err

		if attempt < c.maxRetries {
			wait := backoff
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if d, err := time.ParseDuration(retryAfter + "s"); err == nil {
					wait = d
				}
			}
			if err := sleep(ctx, wait); err != nil {
				return lastErr
			}
			backoff = min(backoff*2, maxBackoff)
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// handleResponse decodes a response. It reports retry=true only for HTTP 429.
func (c *Client) handleResponse(resp *http.Response, url string, result interface{}) (bool, error) {
	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return false, fmt.Errorf("failed to read response body: %w", err)
		}
		if err := json.Unmarshal(body, result); err != nil {
			return false, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return false, nil

	case http.StatusTooManyRequests:
		return true, fmt.Errorf("rate limited (HTTP 429)")

	case http.StatusNotFound:
		return false, &NotFoundError{URL: url}

	default:
		body, _ := io.ReadAll(resp.Body)

		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
			return false, &apiErr
		}

		return false, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
