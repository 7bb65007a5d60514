package xclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"replygraph/internal/config"
	"replygraph/internal/metrics"
	"replygraph/internal/model"
)

// Client defines the social data API calls the pipeline uses.
type Client interface {
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUserByID(ctx context.Context, userID string) (model.User, error)
	GetTweetsAndReplies(ctx context.Context, userID, cursor string) (Page, error)
}

// Page is one page of the tweets-and-replies feed.
type Page struct {
	Tweets     []model.Tweet `json:"tweets"`
	NextCursor string        `json:"next_cursor"`
}

const (
	endpointUserByUsername = "user_by_username"
	endpointUserByID       = "user_by_id"
	endpointTweetsReplies  = "tweets_and_replies"
)

// HTTPClient is a bearer-token client for the social data API.
// Each call is bounded by its own timeout and is never retried.
type HTTPClient struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
	timeouts    config.Timeouts
}

type Option func(*HTTPClient)

func WithBaseURL(u string) Option {
	return func(c *HTTPClient) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

func WithLimiter(l *rate.Limiter) Option {
	return func(c *HTTPClient) { c.limiter = l }
}

func WithTimeouts(t config.Timeouts) Option {
	return func(c *HTTPClient) { c.timeouts = t }
}

func NewHTTPClient(bearerToken string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:     config.Default().Upstream.BaseURL,
		bearerToken: bearerToken,
		httpClient:  &http.Client{},
		limiter:     newLimiter(config.UpstreamConfig{}),
		timeouts:    config.DefaultPipeline().Timeouts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// New builds a client from loaded configuration.
func New(cfg config.Config) *HTTPClient {
	return NewHTTPClient(cfg.Credentials.BearerToken,
		WithBaseURL(cfg.Upstream.BaseURL),
		WithLimiter(newLimiter(cfg.Upstream)),
		WithTimeouts(cfg.Pipeline.Timeouts),
	)
}

func (c *HTTPClient) auth(req *http.Request) {
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}
	req.Header.Set("Accept", "application/json")
}

// GetUserByUsername resolves a handle to its profile. A 404 is ErrUserNotFound;
// any other non-success status is ErrProfileUnavailable.
func (c *HTTPClient) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var out model.User
	username = strings.TrimSpace(username)
	if username == "" {
		return out, ErrEmptyUsername
	}
	u := fmt.Sprintf("%s/twitter/user/%s", c.baseURL, url.PathEscape(username))
	err := c.getJSON(ctx, endpointUserByUsername, u, c.timeouts.Profile, &out)
	var ue *UpstreamError
	if errors.As(err, &ue) {
		if ue.Status == http.StatusNotFound {
			return out, ErrUserNotFound
		}
		return out, fmt.Errorf("%w: status %d", ErrProfileUnavailable, ue.Status)
	}
	return out, err
}

// GetUserByID fetches a profile by numeric id using the batch-lookup timeout.
func (c *HTTPClient) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	var out model.User
	if userID == "" {
		return out, errors.New("empty user id")
	}
	u := fmt.Sprintf("%s/twitter/user/%s", c.baseURL, url.PathEscape(userID))
	err := c.getJSON(ctx, endpointUserByID, u, c.timeouts.BatchProfile, &out)
	return out, err
}

// GetTweetsAndReplies fetches one page of the user's activity feed.
func (c *HTTPClient) GetTweetsAndReplies(ctx context.Context, userID, cursor string) (Page, error) {
	var out Page
	u := fmt.Sprintf("%s/twitter/user/%s/tweets-and-replies", c.baseURL, url.PathEscape(userID))
	if cursor != "" {
		u += "?cursor=" + url.QueryEscape(cursor)
	}
	err := c.getJSON(ctx, endpointTweetsReplies, u, c.timeouts.Page, &out)
	var ue *UpstreamError
	if errors.As(err, &ue) {
		switch ue.Status {
		case http.StatusPaymentRequired:
			return out, ErrQuotaExhausted
		case http.StatusNotFound:
			return out, ErrUserNotFound
		}
	}
	return out, err
}

func (c *HTTPClient) getJSON(ctx context.Context, endpoint, u string, timeout time.Duration, out any) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	c.auth(req)
	if err := c.limiter.Wait(ctx); err != nil {
		// Wait refuses up front when the next token lands past the deadline,
		// before ctx itself expires.
		if _, ok := ctx.Deadline(); ok && ctx.Err() == nil && strings.Contains(err.Error(), "would exceed context deadline") {
			return fmt.Errorf("%w: %v", ErrRequestTimeout, err)
		}
		return classify(ctx, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(endpoint, 0, start)
		return classify(ctx, err)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream(endpoint, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{Endpoint: endpoint, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if cerr := classify(ctx, err); errors.Is(cerr, ErrRequestTimeout) {
			return cerr
		}
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return nil
}

// classify maps deadline failures onto ErrRequestTimeout.
func classify(ctx context.Context, err error) error {
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(ctx.Err(), context.DeadlineExceeded),
		errors.As(err, &ne) && ne.Timeout():
		return fmt.Errorf("%w: %v", ErrRequestTimeout, err)
	}
	return err
}
