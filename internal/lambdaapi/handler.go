package lambdaapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"replygraph/internal/api"
	"replygraph/internal/logging"
)

// Handler serves the search and graph routes behind API Gateway.
type Handler struct {
	svc *api.Service
}

func NewHandler(svc *api.Service) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("lambdaapi: nil service")
	}
	return &Handler{svc: svc}, nil
}

func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := header(req.Headers, api.RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	var status int
	var body any
	switch {
	case strings.HasSuffix(req.Path, "/graph/remove"):
		if req.HTTPMethod != http.MethodPost {
			return respond(requestID, http.StatusMethodNotAllowed, api.ErrorBody{Error: "Method not allowed"}), nil
		}
		var rr api.RemoveRequest
		if err := json.Unmarshal([]byte(req.Body), &rr); err != nil {
			return respond(requestID, http.StatusBadRequest, api.ErrorBody{Error: "Invalid graph request"}), nil
		}
		status, body = h.svc.Remove(rr)
	case req.HTTPMethod != http.MethodGet:
		return respond(requestID, http.StatusMethodNotAllowed, api.ErrorBody{Error: "Method not allowed"}), nil
	case strings.HasSuffix(req.Path, "/graph"):
		status, body = h.svc.Graph(ctx, req.QueryStringParameters["username"])
	default:
		status, body = h.svc.Tweets(ctx, req.QueryStringParameters["username"])
	}

	logging.Info("lambda_request", map[string]any{"path": req.Path, "status": status, "request_id": requestID})
	return respond(requestID, status, body), nil
}

func respond(requestID string, status int, body any) events.APIGatewayProxyResponse {
	b, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		b = []byte(`{"error":"Failed to encode response"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":      "application/json",
			api.RequestIDHeader: requestID,
		},
		Body: string(b),
	}
}

// header looks a key up case-insensitively; API Gateway does not normalize.
func header(h map[string]string, key string) string {
	for k, v := range h {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
