// Package graphclient talks to a running replygraph server and builds the
// engagement graph locally from its search results.
package graphclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"replygraph/internal/graph"
	"replygraph/internal/model"
	"replygraph/internal/util"
)

// ErrEmptyUsername is returned before any request is made.
var ErrEmptyUsername = errors.New("please enter a username")

const fallbackMessage = "Failed to fetch user data"

// ServerError carries the error text the server put in its response body.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string { return e.Message }

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool               `json:"success"`
	Data    model.SearchResult `json:"data"`
	Error   string             `json:"error"`
}

// Search fetches the normalized engagements for username.
func (c *Client) Search(ctx context.Context, username string) (model.SearchResult, error) {
	username = util.NormalizeHandle(username)
	if username == "" {
		return model.SearchResult{}, ErrEmptyUsername
	}

	u := c.baseURL + "/api/v1/twitter/tweets?username=" + url.QueryEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.SearchResult{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.SearchResult{}, fmt.Errorf("search %s: %w", username, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	if resp.StatusCode != http.StatusOK || !env.Success {
		msg := env.Error
		if decodeErr != nil || msg == "" {
			msg = fallbackMessage
		}
		return model.SearchResult{}, &ServerError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return model.SearchResult{}, fmt.Errorf("decoding search response: %w", decodeErr)
	}

	for i, e := range env.Data.Engagements {
		if err := e.Validate(); err != nil {
			return model.SearchResult{}, fmt.Errorf("engagement %d: %w", i, err)
		}
	}
	return env.Data, nil
}

// Graph searches and transforms the result with the user as origin.
func (c *Client) Graph(ctx context.Context, username string) (graph.Graph, error) {
	res, err := c.Search(ctx, username)
	if err != nil {
		return graph.Graph{}, err
	}
	return graph.Transform(res.Engagements, util.NormalizeHandle(username), graph.UserFromSummary(res.User)), nil
}
