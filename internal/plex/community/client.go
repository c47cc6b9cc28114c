package community

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	pherrors "github.com/tessro/plexhist/internal/errors"
)

// Default retry configuration for transient errors.
const (
	defaultMaxAttempts    = 4
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 30 * time.Second
)

// Options configures a Client.
type Options struct {
	// Endpoint is the community GraphQL endpoint. Empty means the
	// production endpoint.
	Endpoint string

	// Token is the Plex auth token.
	Token string

	// UUID is the account UUID the watch history belongs to.
	UUID string

	// MaxAttempts bounds total tries per request (first try included).
	MaxAttempts int

	// InitialBackoff and MaxBackoff shape the exponential retry wait.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	Logger zerolog.Logger
}

// Client talks to the Plex community GraphQL API on behalf of one account.
type Client struct {
	httpClient     *http.Client
	endpoint       string
	token          string
	uuid           string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	log            zerolog.Logger
}

// New creates a community API client.
func New(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = "https://community.plex.tv/api"
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = defaultInitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}

	return &Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		endpoint:       opts.Endpoint,
		token:          opts.Token,
		uuid:           opts.UUID,
		maxAttempts:    opts.MaxAttempts,
		initialBackoff: opts.InitialBackoff,
		maxBackoff:     opts.MaxBackoff,
		log:            opts.Logger,
	}
}

// graphQLRequest is the POST body for every community call.
type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// rateLimitError marks a 429, carrying the server's Retry-After hint
// when it sent one.
type rateLimitError struct {
	retryAfter time.Duration
}

func (e *rateLimitError) Error() string {
	if e.retryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.retryAfter)
	}
	return pherrors.ErrRateLimited.Error()
}

func (e *rateLimitError) Unwrap() error {
	return pherrors.ErrRateLimited
}

// parseRetryAfter parses a Retry-After header given in seconds.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// query issues one GraphQL operation, retrying transient failures with
// capped exponential backoff. A rate-limited attempt waits the server's
// Retry-After, or the backoff cap when it gave none. Authentication
// failures, client errors, GraphQL errors, and malformed envelopes are
// not retried.
func (c *Client) query(ctx context.Context, operation, query string, variables map[string]any, result any) error {
	body, err := json.Marshal(graphQLRequest{
		Query:         query,
		OperationName: operation,
		Variables:     variables,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	b.MaxInterval = c.maxBackoff
	b.MaxElapsedTime = 0

	for attempt := 1; ; attempt++ {
		lastErr := c.queryOnce(ctx, operation, body, result)
		if lastErr == nil {
			return nil
		}

		var permErr *backoff.PermanentError
		if errors.As(lastErr, &permErr) {
			return fmt.Errorf("%s: %w", operation, permErr.Unwrap())
		}
		if attempt >= c.maxAttempts {
			return fmt.Errorf("%s: giving up after %d attempts: %w", operation, attempt, lastErr)
		}

		wait := b.NextBackOff()
		var rlErr *rateLimitError
		if errors.As(lastErr, &rlErr) {
			wait = c.maxBackoff
			if rlErr.retryAfter > 0 {
				wait = rlErr.retryAfter
			}
		}

		c.log.Debug().
			Str("operation", operation).
			Dur("wait", wait).
			Err(lastErr).
			Msg("retrying community query")

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", operation, ctx.Err())
		case <-time.After(wait):
		}
	}
}

// queryOnce performs a single POST. Errors it returns are retried unless
// wrapped in backoff.Permanent.
func (c *Client) queryOnce(ctx context.Context, operation string, body []byte, result any) error {
	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Token", c.token)

	c.log.Debug().Str("operation", operation).Str("url", c.endpoint).Msg("community query")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", pherrors.ErrNetworkError, err)
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return backoff.Permanent(pherrors.ErrNotAuthenticated)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &rateLimitError{retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode >= 500:
		return fmt.Errorf("server error: status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return backoff.Permanent(fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, respBody))
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return backoff.Permanent(fmt.Errorf("%w: %v", pherrors.ErrBadResponse, err))
	}

	if len(envelope.Errors) > 0 {
		msg := envelope.Errors[0].Message
		if strings.Contains(strings.ToLower(msg), "not found") {
			return backoff.Permanent(fmt.Errorf("%w: %s", pherrors.ErrEntryNotFound, msg))
		}
		return backoff.Permanent(fmt.Errorf("%w: %s", pherrors.ErrBadResponse, msg))
	}

	if len(envelope.Data) == 0 {
		return backoff.Permanent(fmt.Errorf("%w: missing data", pherrors.ErrBadResponse))
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Data, result); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", pherrors.ErrBadResponse, err))
		}
	}

	return nil
}
