package issueapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nhle/issue-tracker/internal/model"
	"github.com/nhle/issue-tracker/internal/source"
)

// HTTPClient is the subset of *http.Client the Client needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client reads the issue collection from the backend with a single
// unauthenticated GET. It never retries.
type Client struct {
	endpoint   string
	httpClient HTTPClient
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for the given endpoint URL. The timeout
// bounds the whole request; zero means no client-side limit beyond the
// caller's context.
func NewClient(endpoint string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL the client reads from.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FetchIssues performs the GET and decodes the JSON array of issues.
// Any failure is returned as a *source.FetchError.
func (c *Client) FetchIssues(ctx context.Context) ([]model.Issue, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, c.fail(source.KindTransport, 0, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching issues", "endpoint", c.endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(source.KindTransport, 0, fmt.Errorf("executing request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, c.fail(source.KindStatus, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(source.KindTransport, resp.StatusCode, fmt.Errorf("reading response body: %w", err))
	}

	var issues []model.Issue
	if err := json.Unmarshal(body, &issues); err != nil {
		return nil, c.fail(source.KindDecode, resp.StatusCode, fmt.Errorf("unmarshaling issues: %w", err))
	}
	if issues == nil {
		issues = []model.Issue{}
	}

	c.logger.Info("issues fetched",
		"endpoint", c.endpoint,
		"count", len(issues),
		"elapsed", time.Since(start),
	)

	return issues, nil
}

// fail builds the FetchError and logs its cause.
func (c *Client) fail(kind source.FetchErrorKind, status int, err error) error {
	fetchErr := &source.FetchError{
		Kind:       kind,
		Endpoint:   c.endpoint,
		StatusCode: status,
		Err:        err,
	}
	c.logger.Warn("fetching issues failed",
		"endpoint", c.endpoint,
		"kind", string(kind),
		"status", status,
		"error", fetchErr.Error(),
	)
	return fetchErr
}
