package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"replygraph/internal/graph"
	"replygraph/internal/model"
	"replygraph/internal/util"
	"replygraph/internal/xclient"
)

const (
	msgUsernameRequired = "Username is required"
	msgFallback         = "Failed to fetch tweets from external API"
	msgBadGraphRequest  = "Invalid graph request"
)

// Searcher runs the reply pipeline for one username.
type Searcher interface {
	Run(ctx context.Context, username string) (model.SearchResult, error)
}

// Envelope is the success body shared by every transport.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ErrorBody struct {
	Error string `json:"error"`
}

// GraphData is the transformed graph plus its headline stats.
type GraphData struct {
	graph.Graph
	Stats graph.Stats `json:"stats"`
}

// RemoveRequest asks the stateless reducer to drop nodes from a graph.
type RemoveRequest struct {
	Graph graph.Graph `json:"graph"`
	Nodes []string    `json:"nodes"`
}

type RemoveData struct {
	Graph graph.Graph `json:"graph"`
	Stats graph.Stats `json:"stats"`
	Diff  graph.Delta `json:"diff"`
}

// Service turns search and graph operations into (status, body) pairs so the
// HTTP router, the Lambda adapter and the MCP tools answer identically.
type Service struct {
	search Searcher
}

func NewService(search Searcher) *Service {
	return &Service{search: search}
}

func (s *Service) Tweets(ctx context.Context, username string) (int, any) {
	res, status, body := s.run(ctx, username)
	if body != nil {
		return status, body
	}
	return http.StatusOK, Envelope{Success: true, Data: res}
}

func (s *Service) Graph(ctx context.Context, username string) (int, any) {
	res, status, body := s.run(ctx, username)
	if body != nil {
		return status, body
	}
	g := graph.Transform(res.Engagements, util.NormalizeHandle(username), graph.UserFromSummary(res.User))
	return http.StatusOK, Envelope{Success: true, Data: GraphData{Graph: g, Stats: graph.Summarize(g)}}
}

func (s *Service) Remove(req RemoveRequest) (int, any) {
	if req.Graph.Origin == "" || req.Graph.Engagements == nil {
		return http.StatusBadRequest, ErrorBody{Error: msgBadGraphRequest}
	}
	next, err := graph.Apply(req.Graph, graph.Command{Kind: graph.CommandRemoveNodes, Nodes: req.Nodes})
	if err != nil {
		return http.StatusBadRequest, ErrorBody{Error: err.Error()}
	}
	return http.StatusOK, Envelope{Success: true, Data: RemoveData{
		Graph: next,
		Stats: graph.Summarize(next),
		Diff:  graph.Diff(graph.Render(req.Graph), graph.Render(next)),
	}}
}

func (s *Service) run(ctx context.Context, username string) (model.SearchResult, int, any) {
	username = util.NormalizeHandle(username)
	if username == "" {
		return model.SearchResult{}, http.StatusBadRequest, ErrorBody{Error: msgUsernameRequired}
	}
	res, err := s.search.Run(ctx, username)
	if err != nil {
		return model.SearchResult{}, http.StatusInternalServerError, ErrorBody{Error: ErrorMessage(err)}
	}
	return res, 0, nil
}

// ErrorMessage maps pipeline failures onto the text shown to users.
func ErrorMessage(err error) string {
	var ue *xclient.UpstreamError
	switch {
	case errors.Is(err, xclient.ErrEmptyUsername):
		return msgUsernameRequired
	case errors.Is(err, xclient.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, xclient.ErrQuotaExhausted):
		return "Payment required - insufficient API credits"
	case errors.Is(err, xclient.ErrProfileUnavailable):
		return "Could not fetch user profile"
	case errors.Is(err, xclient.ErrRequestTimeout):
		return "Request to Social API timed out"
	case errors.As(err, &ue):
		return fmt.Sprintf("Social API returned status %d", ue.Status)
	default:
		return msgFallback
	}
}
