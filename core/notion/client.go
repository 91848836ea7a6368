package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"collection-merge/core/reconcile"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"
)

// Client queries a Notion database through the notionapi SDK.
type Client struct {
	cfg Config
	api *notionapi.Client
	log *zap.Logger

	// backoff returns the delay before retry attempt n (1-based).
	backoff func(n int) time.Duration
}

// NewClient creates a client. The token and database id are required.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.Token == "" || cfg.DatabaseID == "" {
		return nil, ErrMissingCredentials
	}
	if log == nil {
		log = zap.NewNop()
	}

	transport := &apiTransport{next: http.DefaultTransport}
	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil || base.Host == "" {
			return nil, fmt.Errorf("invalid notion base url %q", cfg.BaseURL)
		}
		transport.base = base
	}

	opts := []notionapi.ClientOption{
		notionapi.WithHTTPClient(&http.Client{Timeout: cfg.timeout(), Transport: transport}),
		// Rate limits are retried here so the backoff honours ctx.
		notionapi.WithRetry(1),
	}
	if cfg.Version != "" {
		opts = append(opts, notionapi.WithVersion(cfg.Version))
	}

	return &Client{
		cfg: cfg,
		api: notionapi.NewClient(notionapi.Token(cfg.Token), opts...),
		log: log,
		backoff: func(n int) time.Duration {
			return time.Duration(1<<(n-1)) * 500 * time.Millisecond
		},
	}, nil
}

// QueryDatabase fetches every page of the configured database, following
// the cursor until the API reports no more results.
func (c *Client) QueryDatabase(ctx context.Context) ([]Page, error) {
	var pages []Page
	var cursor notionapi.Cursor
	for {
		resp, err := c.query(ctx, &notionapi.DatabaseQueryRequest{
			StartCursor: cursor,
			PageSize:    c.cfg.pageSize(),
		})
		if err != nil {
			return nil, err
		}
		for _, p := range resp.Results {
			pages = append(pages, Page(p))
		}

		c.log.Debug("Fetched notion page batch",
			zap.Int("batch", len(resp.Results)),
			zap.Int("total", len(pages)),
			zap.Bool("has_more", resp.HasMore),
		)

		if !resp.HasMore || resp.NextCursor == "" {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

// LoadItems fetches the database and converts its pages into items.
func (c *Client) LoadItems(ctx context.Context) ([]reconcile.Item, error) {
	pages, err := c.QueryDatabase(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]reconcile.Item, len(pages))
	for i, p := range pages {
		items[i] = p.Item()
	}
	return items, nil
}

// query sends one database query, retrying rate limits and server errors.
func (c *Client) query(ctx context.Context, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	retries := max(c.cfg.MaxRetries, 0)

	for attempt := 0; ; attempt++ {
		ex := &exchange{}
		resp, err := c.api.Database.Query(context.WithValue(ctx, exchangeKey{}, ex), notionapi.DatabaseID(c.cfg.DatabaseID), req)
		if err == nil {
			return resp, nil
		}

		apiErr := asAPIError(err, ex)
		if apiErr == nil {
			return nil, fmt.Errorf("failed to query notion: %w", err)
		}
		if !apiErr.Retryable() {
			return nil, apiErr
		}
		if attempt >= retries {
			return nil, apiErr
		}

		wait := c.backoff(attempt + 1)
		if ex.retryAfter > 0 {
			wait = ex.retryAfter
		}
		c.log.Warn("Retrying notion request",
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(apiErr),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// asAPIError converts an SDK failure into an APIError. Errors that never
// reached an HTTP status (transport failures, cancellation) return nil.
func asAPIError(err error, ex *exchange) *APIError {
	var (
		nerr *notionapi.Error
		rerr *notionapi.RateLimitedError
	)
	switch {
	case errors.As(err, &nerr):
		apiErr := &APIError{Status: nerr.Status, Code: string(nerr.Code), Message: nerr.Message}
		if ex.status != 0 {
			apiErr.Status = ex.status
		}
		return apiErr
	case errors.As(err, &rerr):
		return &APIError{Status: http.StatusTooManyRequests, Code: "rate_limited", Message: rerr.Message}
	case ex.status >= http.StatusBadRequest:
		return &APIError{Status: ex.status, Message: err.Error()}
	default:
		return nil
	}
}

type exchangeKey struct{}

// exchange records what the server answered to one request.
type exchange struct {
	status     int
	retryAfter time.Duration
}

// apiTransport points SDK requests at the configured API root and records
// the response status and Retry-After hint for the retry loop.
type apiTransport struct {
	base *url.URL
	next http.RoundTripper
}

func (t *apiTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.base != nil {
		req = req.Clone(req.Context())
		req.URL.Scheme = t.base.Scheme
		req.URL.Host = t.base.Host
		req.Host = ""
		if prefix := strings.TrimRight(t.base.Path, "/"); prefix != "" {
			req.URL.Path = prefix + req.URL.Path
		}
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if ex, ok := req.Context().Value(exchangeKey{}).(*exchange); ok {
		ex.status = resp.StatusCode
		ex.retryAfter = retryAfter(resp.Header.Get("Retry-After"))
	}
	return resp, nil
}

func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
