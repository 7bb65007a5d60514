package mcptool

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"replygraph/internal/api"
)

// NewServer exposes the search service as MCP tools.
func NewServer(svc *api.Service, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"replygraph",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions("replygraph fetches a Twitter/X user's recent replies and groups them by the accounts they engaged with."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("reply_engagements",
			mcp.WithDescription("Fetch a user's recent replies as normalized engagements with a profile summary."),
			mcp.WithString("username", mcp.Description("Twitter/X handle without the @"), mcp.Required()),
		),
		toolHandler(svc.Tweets),
	)

	s.AddTool(
		mcp.NewTool("engagement_graph",
			mcp.WithDescription("Build the engagement graph for a user: counterpart handle to interactions, plus summary stats."),
			mcp.WithString("username", mcp.Description("Twitter/X handle without the @"), mcp.Required()),
		),
		toolHandler(svc.Graph),
	)

	return s
}

type operation func(ctx context.Context, username string) (int, any)

func toolHandler(op operation) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		username, err := req.RequireString("username")
		if err != nil {
			return toolError("username is required"), nil
		}
		status, body := op(ctx, username)
		if status != http.StatusOK {
			if eb, ok := body.(api.ErrorBody); ok {
				return toolError(eb.Error), nil
			}
			return toolError(http.StatusText(status)), nil
		}
		env, ok := body.(api.Envelope)
		if !ok {
			return toolError("unexpected response"), nil
		}
		b, err := json.Marshal(env.Data)
		if err != nil {
			return toolError("failed to encode result: " + err.Error()), nil
		}
		return toolText(string(b)), nil
	}
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: text}},
	}
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: msg}},
		IsError: true,
	}
}
